package stage

import (
	"errors"
	"fmt"
)

// Failure codes reported by the gateway itself. Processor-supplied codes are
// passed through untouched.
const (
	CodeUnreachable      = "stage_unreachable"
	CodeUpstreamError    = "stage_upstream_error"
	CodeAuthRejected     = "stage_auth_rejected"
	CodeBadResponse      = "stage_bad_response"
	CodeRetriesExhausted = "stage_retries_exhausted"
	CodeFailed           = "stage_failed"
)

// Error is a classified stage invocation failure. Transient failures are
// eligible for retry inside the gateway; fatal ones surface to the
// orchestrator and fail the job.
type Error struct {
	Stage     Stage
	Code      string
	Message   string
	Transient bool
	cause     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("stage %s: %s", e.Stage, e.Code)
	}
	return fmt.Sprintf("stage %s: %s: %s", e.Stage, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsTransient reports whether err is a retry-eligible stage failure.
func IsTransient(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Transient
}

func transientErr(s Stage, code, message string, cause error) *Error {
	return &Error{Stage: s, Code: code, Message: message, Transient: true, cause: cause}
}

func fatalErr(s Stage, code, message string, cause error) *Error {
	return &Error{Stage: s, Code: code, Message: message, cause: cause}
}
