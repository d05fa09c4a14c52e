package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestSignVerifyRoundtrip(t *testing.T) {
	t.Parallel()
	token, err := SignJWT(testSecret, TokenClaims{
		Sub:    "user-42",
		Locale: "ja",
		Exp:    time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT returned error: %v", err)
	}
	claims, err := VerifyJWT(testSecret, token)
	if err != nil {
		t.Fatalf("VerifyJWT returned error: %v", err)
	}
	if claims.Sub != "user-42" || claims.Locale != "ja" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyJWTRejects(t *testing.T) {
	t.Parallel()
	good, _ := SignJWT(testSecret, TokenClaims{Sub: "u", Exp: time.Now().Add(time.Hour).Unix()})
	expired, _ := SignJWT(testSecret, TokenClaims{Sub: "u", Exp: time.Now().Add(-time.Minute).Unix()})
	noSubject, _ := SignJWT(testSecret, TokenClaims{Exp: time.Now().Add(time.Hour).Unix()})
	wrongKey, _ := SignJWT("other-secret", TokenClaims{Sub: "u"})

	cases := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token.at.all"},
		{name: "two_parts", token: "a.b"},
		{name: "wrong_signature", token: wrongKey},
		{name: "tampered", token: good + "x"},
		{name: "expired", token: expired},
		{name: "missing_subject", token: noSubject},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := VerifyJWT(testSecret, tc.token); err == nil {
				t.Fatal("VerifyJWT accepted an invalid token")
			}
		})
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	t.Parallel()
	var gotUser, gotLocale string
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotLocale = LocaleFromContext(r.Context())
	}))

	token, _ := SignJWT(testSecret, TokenClaims{Sub: "user-7", Locale: "ja-JP"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUser != "user-7" {
		t.Fatalf("user = %q, want user-7", gotUser)
	}
	if gotLocale != "ja" {
		t.Fatalf("locale = %q, want ja (normalized from claim)", gotLocale)
	}
}

func TestAuthJWTMiddlewareRejects(t *testing.T) {
	t.Parallel()
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without valid token")
	}))

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing"},
		{name: "wrong_scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "bad_token", header: "Bearer nope"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}
