package stage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"slidegen/internal/infra"
)

// Options configures the stage gateway.
type Options struct {
	Registry     *Registry
	SharedSecret string
	HTTPClient   *http.Client
	MaxAttempts  int
	BackoffBase  time.Duration
	BackoffMax   time.Duration
	Logger       *infra.Logger
}

// Gateway invokes remote stage processors. It holds only shared read-only
// configuration; per-job state lives in the job record, so a single gateway
// is safe for any number of concurrent jobs.
type Gateway struct {
	registry    *Registry
	secret      string
	httpClient  *http.Client
	maxAttempts int
	backoffBase time.Duration
	backoffMax  time.Duration
	logger      *infra.Logger
}

// invocation is the wire request sent to every stage processor.
type invocation struct {
	RequestID string `json:"request_id"`
	JobID     string `json:"job_id"`
	Stage     Stage  `json:"stage"`
	Payload   any    `json:"payload"`
}

// envelope is the wire response returned by every stage processor.
type envelope struct {
	RequestID string          `json:"request_id"`
	Success   bool            `json:"success"`
	Result    json.RawMessage `json:"result"`
	Error     *failure        `json:"error"`
}

type failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewGateway constructs a gateway with sane defaults and injected dependencies.
func NewGateway(opts Options) (*Gateway, error) {
	if opts.Registry == nil {
		return nil, errors.New("stage: registry is required")
	}
	if opts.SharedSecret == "" {
		return nil, errors.New("stage: shared secret is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	backoffBase := opts.BackoffBase
	if backoffBase <= 0 {
		backoffBase = 500 * time.Millisecond
	}
	backoffMax := opts.BackoffMax
	if backoffMax < backoffBase {
		backoffMax = 15 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		discard := infra.Logger(zerolog.New(io.Discard))
		logger = &discard
	}
	return &Gateway{
		registry:    opts.Registry,
		secret:      opts.SharedSecret,
		httpClient:  httpClient,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		backoffMax:  backoffMax,
		logger:      logger,
	}, nil
}

// Invoke calls the given stage processor for one job, retrying transient
// failures with capped exponential backoff. It returns the processor's
// result payload, or an *Error that is always fatal by the time it reaches
// the caller: transient causes are either absorbed by a retry or
// reclassified once the attempt budget is exhausted.
func (g *Gateway) Invoke(ctx context.Context, s Stage, jobID string, payload any) (json.RawMessage, error) {
	ep, ok := g.registry.Endpoint(s)
	if !ok {
		return nil, fatalErr(s, CodeUnreachable, "no endpoint configured", nil)
	}

	var lastErr *Error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		result, err := g.invokeOnce(ctx, s, ep, jobID, payload)
		if err == nil {
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		var se *Error
		if !errors.As(err, &se) {
			return nil, fatalErr(s, CodeBadResponse, err.Error(), err)
		}
		if !se.Transient {
			return nil, se
		}
		lastErr = se
		g.logger.Warn().
			Str("job_id", jobID).
			Str("stage", string(s)).
			Int("attempt", attempt).
			Str("code", se.Code).
			Msg("stage call failed, will retry")

		if attempt < g.maxAttempts {
			if err := g.sleep(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	return nil, fatalErr(s, CodeRetriesExhausted,
		fmt.Sprintf("gave up after %d attempts: %s", g.maxAttempts, lastErr.Message), lastErr)
}

func (g *Gateway) invokeOnce(ctx context.Context, s Stage, ep Endpoint, jobID string, payload any) (json.RawMessage, error) {
	callCtx := ctx
	if ep.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, ep.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(invocation{
		RequestID: uuid.NewString(),
		JobID:     jobID,
		Stage:     s,
		Payload:   payload,
	})
	if err != nil {
		return nil, fatalErr(s, CodeBadResponse, fmt.Sprintf("encode request: %v", err), err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fatalErr(s, CodeBadResponse, fmt.Sprintf("build request: %v", err), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.secret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, transientErr(s, CodeUnreachable, fmt.Sprintf("call processor: %v", err), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, transientErr(s, CodeUnreachable, fmt.Sprintf("read response: %v", err), err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// Credential mismatch, not a processing failure. Operators need to
		// rotate the shared secret, not inspect the job.
		return nil, fatalErr(s, CodeAuthRejected,
			fmt.Sprintf("processor rejected the shared credential (HTTP %d); check STAGE_SHARED_SECRET on both sides", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, transientErr(s, CodeUpstreamError,
			fmt.Sprintf("processor returned HTTP %d", resp.StatusCode), nil)
	case resp.StatusCode >= 400:
		return nil, fatalErr(s, CodeFailed, decodeFailure(raw, resp.StatusCode), nil)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fatalErr(s, CodeBadResponse, fmt.Sprintf("decode response: %v", err), err)
	}
	if !env.Success {
		code := CodeFailed
		message := "processor reported failure without detail"
		if env.Error != nil {
			if env.Error.Code != "" {
				code = env.Error.Code
			}
			if env.Error.Message != "" {
				message = env.Error.Message
			}
		}
		return nil, fatalErr(s, code, message, nil)
	}
	return env.Result, nil
}

func decodeFailure(raw []byte, status int) string {
	var f failure
	if err := json.Unmarshal(raw, &f); err == nil && f.Message != "" {
		return f.Message
	}
	return fmt.Sprintf("processor returned HTTP %d", status)
}

// sleep waits out the backoff for the given attempt, or returns early when
// the context is cancelled.
func (g *Gateway) sleep(ctx context.Context, attempt int) error {
	delay := g.backoffBase << (attempt - 1)
	if delay > g.backoffMax {
		delay = g.backoffMax
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
