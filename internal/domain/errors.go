package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrStateConflict = errors.New("state conflict")

	ErrInvalidRequest       = errors.New("invalid request")
	ErrEmptyPrompt          = errors.New("prompt is required")
	ErrPromptTooLong        = errors.New("prompt exceeds maximum length")
	ErrSlideCountOutOfRange = errors.New("max_slides out of range")
	ErrTooManyReferences    = errors.New("too many reference urls")
	ErrInvalidReferenceURL  = errors.New("reference urls must be http(s)")

	ErrEmptyAgenda        = errors.New("agenda has no slides")
	ErrAgendaPageMismatch = errors.New("agenda total_pages does not match slides")
	ErrAgendaTooLong      = errors.New("agenda exceeds requested slide count")
)
