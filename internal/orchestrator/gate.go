package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slidegen/internal/domain"
	"slidegen/internal/infra"
)

// Gate is the approval gate: it resolves the pause between the agenda
// proposal and the rest of the pipeline. A job waiting in agenda_approval is
// resumed exclusively through Resolve; duplicate or late calls lose the
// compare-and-set and surface a state conflict instead of re-running
// anything downstream.
type Gate struct {
	jobs   domain.JobRepository
	logger infra.Logger
	window time.Duration
}

// NewGate constructs the approval gate. A zero window disables the
// approval timeout policy entirely.
func NewGate(jobs domain.JobRepository, logger infra.Logger, window time.Duration) *Gate {
	return &Gate{jobs: jobs, logger: logger, window: window}
}

// Resolve applies an approval decision to the job. On approval the job moves
// to information_collection and becomes claimable by a worker; on rejection
// it is cancelled. An edited agenda, when supplied, replaces the proposal
// after validation against the original request.
func (g *Gate) Resolve(ctx context.Context, jobID, ownerID string, approved bool, edited *domain.Agenda) (*domain.Job, error) {
	job, err := g.jobs.GetForOwner(ctx, jobID, ownerID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.StatusAgendaApproval {
		return nil, fmt.Errorf("%w: job %s is not awaiting approval (status %s)",
			domain.ErrStateConflict, job.ID, job.Status)
	}

	if !approved {
		if !job.Advance(domain.StatusCancelled) {
			return nil, domain.ErrStateConflict
		}
		job.CurrentStep = StepText(job.Locale, domain.StatusCancelled)
		job.LeasedUntil = nil
		if err := g.jobs.Update(ctx, job, domain.StatusAgendaApproval); err != nil {
			return nil, err
		}
		g.logger.Info().Str("job_id", job.ID).Msg("approval: agenda rejected, job cancelled")
		return job, nil
	}

	if edited != nil {
		if err := edited.Validate(job.Request.MaxSlides); err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, err)
		}
		job.Agenda = edited
	}
	if !job.Advance(domain.StatusInformationCollection) {
		return nil, domain.ErrStateConflict
	}
	job.CurrentStep = StepText(job.Locale, domain.StatusInformationCollection)
	job.LeasedUntil = nil // unleased: the next free worker slot picks it up
	if err := g.jobs.Update(ctx, job, domain.StatusAgendaApproval); err != nil {
		return nil, err
	}
	g.logger.Info().Str("job_id", job.ID).Bool("edited", edited != nil).
		Msg("approval: agenda approved, job queued for continuation")
	return job, nil
}

// Sweep enforces the approval timeout policy: jobs parked in agenda_approval
// longer than the configured window are auto-rejected (cancelled). With no
// window configured it does nothing, which means jobs may wait forever by
// explicit choice rather than by accident.
func (g *Gate) Sweep(ctx context.Context) {
	if g.window <= 0 {
		return
	}
	swept, err := g.jobs.CancelStaleApprovals(ctx, g.window)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			g.logger.Error().Err(err).Msg("approval: sweep stale approvals")
		}
		return
	}
	if swept > 0 {
		g.logger.Info().Int("count", swept).Msg("approval: cancelled jobs past the approval window")
	}
}
