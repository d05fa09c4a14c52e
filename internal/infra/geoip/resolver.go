// Package geoip maps client addresses to a UI locale using a MaxMind
// country database. Step descriptions exist in English and Japanese, so the
// only question the resolver answers is whether the caller should get the
// Japanese texts.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when no database is loaded.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// LocaleResolver resolves a locale hint from a client IP. An empty locale
// with a nil error means the address gave no usable hint.
type LocaleResolver interface {
	LocaleFor(ip string) (string, error)
}

// Resolver is the MaxMind-backed LocaleResolver.
type Resolver struct {
	reader *geoip2.Reader
}

// NewResolver opens the database at path. An empty path disables GeoIP
// detection and returns nil without error.
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// LocaleFor looks up the country of ip and translates it to a locale hint.
func (r *Resolver) LocaleFor(ip string) (string, error) {
	if r == nil || r.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record == nil {
		return "", nil
	}
	return localeForCountry(record.Country.IsoCode), nil
}

// Close releases the database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

func localeForCountry(iso string) string {
	if strings.EqualFold(iso, "JP") {
		return "ja"
	}
	return ""
}
