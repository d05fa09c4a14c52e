package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

var localeKey = localeContextKey{}

// supported lists the locales step descriptions exist for. Japanese first:
// the original audience of the service.
var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

// LocaleLookup resolves a locale hint for an IP address. An empty hint
// means the address told us nothing.
type LocaleLookup func(ip string) (string, error)

// Locale detects the caller's locale and stores it in the request context.
// Order: explicit X-Locale header, Accept-Language (via language matching),
// the GeoIP hint for the client address, then the configured default. The
// detected locale is captured into the job record at submission and drives
// the localized current_step texts from then on.
func Locale(defaultLocale string, lookup LocaleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale, lookup)
			ctx := context.WithValue(r.Context(), localeKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, lookup LocaleLookup) string {
	if v := r.Header.Get("X-Locale"); v != "" {
		return normalizeLocale(v)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			tag, _, conf := matcher.Match(tags...)
			if conf > language.No {
				return normalizeLocale(tag.String())
			}
		}
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if hint, err := lookup(ip); err == nil && hint != "" {
				return normalizeLocale(hint)
			}
		}
	}
	if fallback != "" {
		return normalizeLocale(fallback)
	}
	return "en"
}

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if strings.HasPrefix(locale, "ja") {
		return "ja"
	}
	return "en"
}

// LocaleFromContext returns the detected locale, defaulting to English.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey).(string); ok {
		return v
	}
	return "en"
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
