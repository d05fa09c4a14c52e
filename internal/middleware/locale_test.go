package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func detectedLocale(t *testing.T, lookup LocaleLookup, configure func(*http.Request)) string {
	t.Helper()
	var got string
	handler := Locale("en", lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if configure != nil {
		configure(req)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestLocaleDetection(t *testing.T) {
	t.Parallel()
	jpLookup := LocaleLookup(func(ip string) (string, error) { return "ja", nil })
	noHintLookup := LocaleLookup(func(ip string) (string, error) { return "", nil })
	brokenLookup := LocaleLookup(func(ip string) (string, error) { return "", errors.New("no db") })

	cases := []struct {
		name      string
		lookup    LocaleLookup
		configure func(*http.Request)
		want      string
	}{
		{
			name:      "x_locale_header_wins",
			lookup:    noHintLookup,
			configure: func(r *http.Request) { r.Header.Set("X-Locale", "ja-JP") },
			want:      "ja",
		},
		{
			name:      "accept_language_japanese",
			configure: func(r *http.Request) { r.Header.Set("Accept-Language", "ja,en;q=0.8") },
			want:      "ja",
		},
		{
			name:      "accept_language_english",
			configure: func(r *http.Request) { r.Header.Set("Accept-Language", "en-US,en;q=0.9") },
			want:      "en",
		},
		{
			name:   "geoip_japan",
			lookup: jpLookup,
			want:   "ja",
		},
		{
			name:   "geoip_no_hint",
			lookup: noHintLookup,
			want:   "en",
		},
		{
			name:   "geoip_unavailable_falls_back",
			lookup: brokenLookup,
			want:   "en",
		},
		{
			name: "no_signals_default",
			want: "en",
		},
		{
			name:      "header_beats_geoip",
			lookup:    jpLookup,
			configure: func(r *http.Request) { r.Header.Set("X-Locale", "en") },
			want:      "en",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := detectedLocale(t, tc.lookup, tc.configure); got != tc.want {
				t.Fatalf("locale = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeLocale(t *testing.T) {
	t.Parallel()
	cases := []struct{ in, want string }{
		{"ja", "ja"},
		{"ja-JP", "ja"},
		{"JA", "ja"},
		{"en", "en"},
		{"fr", "en"},
		{"", "en"},
	}
	for _, tc := range cases {
		if got := normalizeLocale(tc.in); got != tc.want {
			t.Fatalf("normalizeLocale(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	if got := ClientIP(req); got != "10.1.2.3" {
		t.Fatalf("ClientIP = %q, want 10.1.2.3", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Fatalf("ClientIP with XFF = %q, want 203.0.113.9", got)
	}
}
