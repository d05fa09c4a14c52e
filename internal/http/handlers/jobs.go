package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slidegen/internal/domain"
	"slidegen/internal/middleware"
	"slidegen/internal/orchestrator"
	"slidegen/internal/storage"
)

// submitRequest mirrors domain.GenerationRequest, with auto_approval as a
// pointer so an absent flag can fall back to the owner's saved default.
type submitRequest struct {
	Prompt        string   `json:"prompt"`
	ReferenceURLs []string `json:"reference_urls"`
	TemplateID    string   `json:"template_id"`
	ModelConfigID string   `json:"model_config_id"`
	MaxSlides     int      `json:"max_slides"`
	AutoApprove   *bool    `json:"auto_approval"`
	IncludeImages *bool    `json:"include_images"`
	IncludeTables *bool    `json:"include_tables"`
}

type jobSnapshot struct {
	JobID       string                   `json:"job_id"`
	Status      domain.Status            `json:"status"`
	Progress    int                      `json:"progress"`
	CurrentStep string                   `json:"current_step"`
	Request     domain.GenerationRequest `json:"request"`
	Agenda      *domain.Agenda           `json:"agenda,omitempty"`
	ResultRef   string                   `json:"result_reference,omitempty"`
	Error       string                   `json:"error,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

func snapshot(job *domain.Job) jobSnapshot {
	return jobSnapshot{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Request:     job.Request,
		Agenda:      job.Agenda,
		ResultRef:   job.ResultKey,
		Error:       job.ErrorMessage,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

// SubmitJob accepts a generation request and creates the pending job record.
// The worker picks it up from there; this handler never invokes a stage.
func (a *App) SubmitJob(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	settings, err := a.Settings.Get(r.Context(), ownerID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load settings")
		return
	}

	genReq := domain.GenerationRequest{
		Prompt:        req.Prompt,
		ReferenceURLs: req.ReferenceURLs,
		TemplateID:    req.TemplateID,
		ModelConfigID: req.ModelConfigID,
		MaxSlides:     req.MaxSlides,
		AutoApprove:   settings.AutoApprove,
		IncludeImages: true,
		IncludeTables: true,
	}
	// Explicit flags win; saved defaults fill the gaps. The resolved values
	// are frozen into the request: changing a setting later never touches a
	// job already in flight.
	if req.AutoApprove != nil {
		genReq.AutoApprove = *req.AutoApprove
	}
	if req.IncludeImages != nil {
		genReq.IncludeImages = *req.IncludeImages
	}
	if req.IncludeTables != nil {
		genReq.IncludeTables = *req.IncludeTables
	}
	if genReq.TemplateID == "" {
		genReq.TemplateID = settings.DefaultTemplateID
	}
	if genReq.ModelConfigID == "" {
		genReq.ModelConfigID = settings.DefaultModelConfigID
	}

	if err := genReq.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	locale := middleware.LocaleFromContext(r.Context())
	now := time.Now().UTC()
	job := &domain.Job{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Request:     genReq,
		Status:      domain.StatusPending,
		Progress:    0,
		CurrentStep: orchestrator.StepText(locale, domain.StatusPending),
		Locale:      locale,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		a.Logger.Error().Err(err).Msg("submit: create job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create job")
		return
	}

	a.Logger.Info().Str("job_id", job.ID).Str("owner", ownerID).Msg("submit: job accepted")
	a.json(w, http.StatusAccepted, map[string]any{
		"job_id": job.ID,
		"status": job.Status,
	})
}

type approvalRequest struct {
	Approved *bool          `json:"approved"`
	Agenda   *domain.Agenda `json:"agenda"`
}

// ApproveJob resolves the approval pause for a job awaiting a decision.
func (a *App) ApproveJob(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Approved == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "approved is required")
		return
	}

	job, err := a.Gate.Resolve(r.Context(), jobID, ownerID, *req.Approved, req.Agenda)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "not_found", "job not found")
		case errors.Is(err, domain.ErrStateConflict):
			a.error(w, http.StatusConflict, "not_awaiting_approval", "job is not awaiting approval")
		case errors.Is(err, domain.ErrInvalidRequest):
			a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
		default:
			a.Logger.Error().Err(err).Str("job_id", jobID).Msg("approval: resolve")
			a.error(w, http.StatusInternalServerError, "internal", "failed to resolve approval")
		}
		return
	}
	a.json(w, http.StatusOK, snapshot(job))
}

// JobStatus returns the full current snapshot of one job.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	job, err := a.Jobs.GetForOwner(r.Context(), jobID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("status: load job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	a.json(w, http.StatusOK, snapshot(job))
}

// ListJobs returns all jobs owned by the caller, newest first.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobs, err := a.Jobs.ListByOwner(r.Context(), ownerID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list: load jobs")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list jobs")
		return
	}
	items := make([]jobSnapshot, 0, len(jobs))
	for i := range jobs {
		items = append(items, snapshot(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// DownloadResult streams the finished deck for a completed job, or redirects
// when the result reference is an external URL.
func (a *App) DownloadResult(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	job, err := a.Jobs.GetForOwner(r.Context(), jobID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	if job.Status != domain.StatusCompleted || job.ResultKey == "" {
		a.error(w, http.StatusConflict, "not_completed", "job has no result yet")
		return
	}
	if !storage.IsLocalKey(job.ResultKey) {
		http.Redirect(w, r, job.ResultKey, http.StatusFound)
		return
	}
	data, err := a.Store.Read(r.Context(), job.ResultKey)
	if err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("download: read result")
		a.error(w, http.StatusNotFound, "not_found", "result artifact missing")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", `attachment; filename="deck-`+jobID+`.pptx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
