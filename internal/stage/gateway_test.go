package stage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testRegistry(url string, timeout time.Duration) *Registry {
	endpoints := make(map[Stage]Endpoint, len(Known))
	for _, s := range Known {
		endpoints[s] = Endpoint{URL: url, Timeout: timeout}
	}
	return &Registry{endpoints: endpoints}
}

func testGateway(t *testing.T, url string, timeout time.Duration, attempts int) *Gateway {
	t.Helper()
	g, err := NewGateway(Options{
		Registry:     testRegistry(url, timeout),
		SharedSecret: "test-secret",
		MaxAttempts:  attempts,
		BackoffBase:  time.Millisecond,
		BackoffMax:   5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewGateway returned error: %v", err)
	}
	return g
}

func TestGatewayInvokeSuccess(t *testing.T) {
	t.Parallel()
	var gotAuth string
	var gotBody invocation
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode invocation: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"request_id": gotBody.RequestID,
			"success":    true,
			"result":     map[string]any{"slides": 3},
		})
	}))
	defer srv.Close()

	g := testGateway(t, srv.URL, time.Second, 3)
	result, err := g.Invoke(context.Background(), Agenda, "job-1", map[string]string{"prompt": "hi"})
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if string(result) == "" {
		t.Fatal("Invoke returned empty result")
	}
	if gotAuth != "Bearer test-secret" {
		t.Fatalf("Authorization = %q, want bearer shared secret", gotAuth)
	}
	if gotBody.JobID != "job-1" || gotBody.Stage != Agenda {
		t.Fatalf("invocation = %+v, want job-1/agenda", gotBody)
	}
	if gotBody.RequestID == "" {
		t.Fatal("invocation carried no request_id")
	}
}

func TestGatewayRetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "result": map[string]string{"ok": "yes"}})
	}))
	defer srv.Close()

	g := testGateway(t, srv.URL, time.Second, 3)
	if _, err := g.Invoke(context.Background(), Slide, "job-2", nil); err != nil {
		t.Fatalf("Invoke returned error after transient failures: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestGatewayRetriesTimeoutThenSucceeds(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(200 * time.Millisecond) // past the per-attempt deadline
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "result": map[string]string{}})
	}))
	defer srv.Close()

	g := testGateway(t, srv.URL, 50*time.Millisecond, 3)
	if _, err := g.Invoke(context.Background(), Review, "job-3", nil); err != nil {
		t.Fatalf("Invoke returned error after timeout retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestGatewayExhaustsRetries(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := testGateway(t, srv.URL, time.Second, 2)
	_, err := g.Invoke(context.Background(), Information, "job-4", nil)
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("Invoke error = %v, want *Error", err)
	}
	if se.Code != CodeRetriesExhausted {
		t.Fatalf("code = %q, want %q", se.Code, CodeRetriesExhausted)
	}
	if se.Transient {
		t.Fatal("exhausted error still marked transient")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestGatewayAuthRejectionIsFatal(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	g := testGateway(t, srv.URL, time.Second, 3)
	_, err := g.Invoke(context.Background(), Agenda, "job-5", nil)
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("Invoke error = %v, want *Error", err)
	}
	if se.Code != CodeAuthRejected {
		t.Fatalf("code = %q, want %q", se.Code, CodeAuthRejected)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on credential mismatch)", got)
	}
}

func TestGatewayProcessorFailurePassthrough(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"code": "content_policy", "message": "prompt rejected"},
		})
	}))
	defer srv.Close()

	g := testGateway(t, srv.URL, time.Second, 3)
	_, err := g.Invoke(context.Background(), Agenda, "job-6", nil)
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("Invoke error = %v, want *Error", err)
	}
	if se.Code != "content_policy" {
		t.Fatalf("code = %q, want processor code passed through", se.Code)
	}
	if se.Message != "prompt rejected" {
		t.Fatalf("message = %q, want %q", se.Message, "prompt rejected")
	}
	if se.Transient {
		t.Fatal("processor-reported failure marked transient")
	}
}

func TestGatewayCancelledContext(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := testGateway(t, srv.URL, time.Second, 3)
	_, err := g.Invoke(ctx, Agenda, "job-7", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Invoke error = %v, want context.Canceled", err)
	}
}

func TestGatewayMissingEndpoint(t *testing.T) {
	t.Parallel()
	g, err := NewGateway(Options{
		Registry:     &Registry{endpoints: map[Stage]Endpoint{}},
		SharedSecret: "s",
	})
	if err != nil {
		t.Fatalf("NewGateway returned error: %v", err)
	}
	_, err = g.Invoke(context.Background(), Agenda, "job-8", nil)
	var se *Error
	if !errors.As(err, &se) || se.Code != CodeUnreachable {
		t.Fatalf("Invoke error = %v, want unreachable", err)
	}
}
