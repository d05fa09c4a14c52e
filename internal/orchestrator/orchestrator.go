// Package orchestrator drives job records through the generation pipeline:
// agenda proposal, the approval pause, information collection, slide
// creation and review. Every persisted mutation is a compare-and-set on the
// status the orchestrator last read, so a job can never take an edge the
// state machine does not define.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"slidegen/internal/domain"
	"slidegen/internal/infra"
	"slidegen/internal/stage"
)

// Invoker abstracts the stage gateway for the orchestrator.
type Invoker interface {
	Invoke(ctx context.Context, s stage.Stage, jobID string, payload any) (json.RawMessage, error)
}

// Orchestrator advances one claimed job at a time through its stages.
type Orchestrator struct {
	jobs    domain.JobRepository
	history domain.HistoryRepository
	gateway Invoker
	logger  infra.Logger
}

// New constructs an orchestrator.
func New(jobs domain.JobRepository, history domain.HistoryRepository, gateway Invoker, logger infra.Logger) *Orchestrator {
	return &Orchestrator{jobs: jobs, history: history, gateway: gateway, logger: logger}
}

// Run drives a freshly claimed job as far as it can go in one pass: a
// pending job through agenda generation up to the approval pause (or, with
// auto-approval, all the way to completion), and an approved job through
// the remaining stages. The claim lease must already be held.
func (o *Orchestrator) Run(ctx context.Context, job *domain.Job) {
	switch job.Status {
	case domain.StatusPending:
		o.runAgendaPass(ctx, job)
	case domain.StatusInformationCollection:
		o.runContinuation(ctx, job)
	default:
		o.logger.Error().Str("job_id", job.ID).Str("status", string(job.Status)).
			Msg("orchestrator: claimed job in unexpected status")
	}
}

func (o *Orchestrator) runAgendaPass(ctx context.Context, job *domain.Job) {
	if err := o.transition(ctx, job, domain.StatusAgendaGeneration); err != nil {
		o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: start agenda generation")
		return
	}

	result, err := o.gateway.Invoke(ctx, stage.Agenda, job.ID, job.Request)
	if err != nil {
		o.fail(ctx, job, err)
		return
	}

	var agenda domain.Agenda
	if err := json.Unmarshal(result, &agenda); err != nil {
		o.fail(ctx, job, fmt.Errorf("agenda stage returned malformed proposal: %w", err))
		return
	}
	if err := agenda.Validate(job.Request.MaxSlides); err != nil {
		o.fail(ctx, job, fmt.Errorf("agenda stage proposal rejected: %w", err))
		return
	}

	job.Agenda = &agenda

	if !job.Request.AutoApprove {
		job.LeasedUntil = nil // suspend: the job rests until a decision arrives
		if err := o.transition(ctx, job, domain.StatusAgendaApproval); err != nil {
			o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: suspend for approval")
			return
		}
		o.logger.Info().Str("job_id", job.ID).Msg("orchestrator: awaiting agenda approval")
		return
	}

	// Auto-approval: the pause is passed through immediately, but the
	// transition is still recorded so the observed sequence never skips it.
	// The claim lease stays in place across both writes; dropping it here
	// would let a second slot claim the job while its stages run in-process.
	if err := o.transition(ctx, job, domain.StatusAgendaApproval); err != nil {
		o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: record approval pass-through")
		return
	}
	if err := o.transition(ctx, job, domain.StatusInformationCollection); err != nil {
		o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: auto-approve")
		return
	}
	o.runContinuation(ctx, job)
}

// runContinuation executes the post-approval stages. The job is already in
// information_collection when this is called.
func (o *Orchestrator) runContinuation(ctx context.Context, job *domain.Job) {
	info, err := o.gateway.Invoke(ctx, stage.Information, job.ID, informationPayload{
		Agenda:        job.Agenda,
		ReferenceURLs: job.Request.ReferenceURLs,
	})
	if err != nil {
		o.fail(ctx, job, err)
		return
	}

	if err := o.transition(ctx, job, domain.StatusSlideCreation); err != nil {
		o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: start slide creation")
		return
	}
	slideResult, err := o.gateway.Invoke(ctx, stage.Slide, job.ID, slidePayload{
		Agenda:        job.Agenda,
		Information:   info,
		TemplateID:    job.Request.TemplateID,
		ModelConfigID: job.Request.ModelConfigID,
		IncludeImages: job.Request.IncludeImages,
		IncludeTables: job.Request.IncludeTables,
	})
	if err != nil {
		o.fail(ctx, job, err)
		return
	}
	resultKey, err := decodeResultKey(slideResult)
	if err != nil {
		o.fail(ctx, job, err)
		return
	}

	if err := o.transition(ctx, job, domain.StatusReview); err != nil {
		o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: start review")
		return
	}
	if _, err := o.gateway.Invoke(ctx, stage.Review, job.ID, reviewPayload{
		Agenda:    job.Agenda,
		ResultKey: resultKey,
	}); err != nil {
		o.fail(ctx, job, err)
		return
	}

	job.ResultKey = resultKey
	job.LeasedUntil = nil
	if err := o.transition(ctx, job, domain.StatusCompleted); err != nil {
		o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: complete")
		return
	}
	o.logger.Info().Str("job_id", job.ID).Str("result_key", resultKey).Msg("orchestrator: job completed")

	o.recordHistory(ctx, job)
}

func (o *Orchestrator) recordHistory(ctx context.Context, job *domain.Job) {
	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		OwnerID:   job.OwnerID,
		JobID:     job.ID,
		Title:     job.Agenda.Title(),
		ResultKey: job.ResultKey,
	}
	if job.Agenda != nil {
		entry.SlideCount = job.Agenda.TotalPages
	}
	if err := o.history.Create(ctx, entry); err != nil {
		// History is a convenience view; losing a row must not fail the job.
		o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: record history")
	}
}

// transition persists a state-machine edge with a compare-and-set on the
// status the job currently holds in memory.
func (o *Orchestrator) transition(ctx context.Context, job *domain.Job, to domain.Status) error {
	expect := job.Status
	if !job.Advance(to) {
		return fmt.Errorf("%w: cannot move %s from %s to %s", domain.ErrStateConflict, job.ID, expect, to)
	}
	job.CurrentStep = StepText(job.Locale, to)
	if err := o.jobs.Update(ctx, job, expect); err != nil {
		return err
	}
	o.logger.Info().Str("job_id", job.ID).Str("status", string(to)).Int("progress", job.Progress).
		Msg("orchestrator: transition")
	return nil
}

// fail drives the job to the failed terminal state. Progress stays frozen at
// its last value and the failure cause becomes the visible error message.
func (o *Orchestrator) fail(ctx context.Context, job *domain.Job, cause error) {
	if errors.Is(cause, context.Canceled) {
		// Shutdown, not a pipeline failure. At the collection boundary the
		// job is re-claimable, so free it for the next worker right away.
		// Mid-stage statuses are not claimable: there the lease must stay
		// put so the abandoned-lease sweep picks the job up once it expires.
		if job.Status == domain.StatusInformationCollection {
			if err := o.jobs.ReleaseLease(context.WithoutCancel(ctx), job.ID); err != nil {
				o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: release lease")
			}
		}
		return
	}

	expect := job.Status
	if !job.Fail(cause.Error()) {
		return
	}
	job.CurrentStep = StepText(job.Locale, domain.StatusFailed)
	job.LeasedUntil = nil
	if err := o.jobs.Update(ctx, job, expect); err != nil {
		o.logger.Error().Err(err).Str("job_id", job.ID).Msg("orchestrator: persist failure")
		return
	}
	o.logger.Warn().Str("job_id", job.ID).Str("error", job.ErrorMessage).Msg("orchestrator: job failed")
}

// Stage payloads. The wire shapes mirror what the processors expect; the
// agenda stage simply receives the immutable generation request.

type informationPayload struct {
	Agenda        *domain.Agenda `json:"agenda"`
	ReferenceURLs []string       `json:"reference_urls,omitempty"`
}

type slidePayload struct {
	Agenda        *domain.Agenda  `json:"agenda"`
	Information   json.RawMessage `json:"information"`
	TemplateID    string          `json:"template_id,omitempty"`
	ModelConfigID string          `json:"model_config_id,omitempty"`
	IncludeImages bool            `json:"include_images"`
	IncludeTables bool            `json:"include_tables"`
}

type reviewPayload struct {
	Agenda    *domain.Agenda `json:"agenda"`
	ResultKey string         `json:"result_key"`
}

type slideResult struct {
	ResultKey string `json:"result_key"`
	SlideURL  string `json:"slide_url"`
}

func decodeResultKey(raw json.RawMessage) (string, error) {
	var res slideResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("slide stage returned malformed result: %w", err)
	}
	if res.ResultKey != "" {
		return res.ResultKey, nil
	}
	if res.SlideURL != "" {
		return res.SlideURL, nil
	}
	return "", errors.New("slide stage returned no result reference")
}
