package domain

import "time"

// Status enumerates the lifecycle states of a generation job.
type Status string

const (
	StatusPending               Status = "pending"
	StatusAgendaGeneration      Status = "agenda_generation"
	StatusAgendaApproval        Status = "agenda_approval"
	StatusInformationCollection Status = "information_collection"
	StatusSlideCreation         Status = "slide_creation"
	StatusReview                Status = "review"
	StatusCompleted             Status = "completed"
	StatusFailed                Status = "failed"
	StatusCancelled             Status = "cancelled"
)

// transitions is the full set of legal status edges. Failure is reachable
// from every non-terminal state; cancellation only from the approval pause.
var transitions = map[Status][]Status{
	StatusPending:               {StatusAgendaGeneration, StatusFailed},
	StatusAgendaGeneration:      {StatusAgendaApproval, StatusFailed},
	StatusAgendaApproval:        {StatusInformationCollection, StatusCancelled, StatusFailed},
	StatusInformationCollection: {StatusSlideCreation, StatusFailed},
	StatusSlideCreation:         {StatusReview, StatusFailed},
	StatusReview:                {StatusCompleted, StatusFailed},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAgendaGeneration, StatusAgendaApproval,
		StatusInformationCollection, StatusSlideCreation, StatusReview,
		StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// progressLadder fixes the progress value reached when a job enters each
// state. Failure and cancellation freeze progress at its last value instead
// of consulting this table.
var progressLadder = map[Status]int{
	StatusPending:               0,
	StatusAgendaGeneration:      10,
	StatusAgendaApproval:        25,
	StatusInformationCollection: 50,
	StatusSlideCreation:         75,
	StatusReview:                90,
	StatusCompleted:             100,
}

// ProgressFor returns the progress percentage reached on entering a status,
// or -1 when the status carries no fixed progress (failed/cancelled).
func ProgressFor(s Status) int {
	if p, ok := progressLadder[s]; ok {
		return p
	}
	return -1
}

// Job is the durable record tracking one slide generation request through
// the pipeline. The orchestrator is its only writer; every persisted update
// is a compare-and-set on the previous status.
type Job struct {
	ID           string
	OwnerID      string
	Request      GenerationRequest
	Status       Status
	Agenda       *Agenda
	Progress     int
	CurrentStep  string
	Locale       string
	ResultKey    string
	ErrorMessage string
	LeasedUntil  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Advance mutates the job to the given status, applying the fixed progress
// ladder. It returns false when the edge is not part of the state machine.
func (j *Job) Advance(to Status) bool {
	if !CanTransition(j.Status, to) {
		return false
	}
	j.Status = to
	if p := ProgressFor(to); p > j.Progress {
		j.Progress = p
	}
	return true
}

// Fail moves the job to the failed terminal state, recording the cause and
// freezing progress at its last value.
func (j *Job) Fail(cause string) bool {
	if j.Status.Terminal() {
		return false
	}
	j.Status = StatusFailed
	j.ErrorMessage = cause
	j.ResultKey = ""
	return true
}
