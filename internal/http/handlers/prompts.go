package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slidegen/internal/domain"
)

type promptTemplatePayload struct {
	Name        *string `json:"name"`
	Prompt      *string `json:"prompt"`
	Description *string `json:"description"`
	IsDefault   *bool   `json:"is_default"`
}

func (p promptTemplatePayload) apply(tpl *domain.PromptTemplate) {
	if p.Name != nil {
		tpl.Name = *p.Name
	}
	if p.Prompt != nil {
		tpl.Prompt = *p.Prompt
	}
	if p.Description != nil {
		tpl.Description = *p.Description
	}
	if p.IsDefault != nil {
		tpl.IsDefault = *p.IsDefault
	}
}

type promptTemplateItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Prompt      string    `json:"prompt"`
	Description string    `json:"description"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func promptTemplateResponse(tpl *domain.PromptTemplate) promptTemplateItem {
	return promptTemplateItem{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Prompt:      tpl.Prompt,
		Description: tpl.Description,
		IsDefault:   tpl.IsDefault,
		CreatedAt:   tpl.CreatedAt,
		UpdatedAt:   tpl.UpdatedAt,
	}
}

// CreatePromptTemplate saves a reusable submission prompt.
func (a *App) CreatePromptTemplate(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var payload promptTemplatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	tpl := &domain.PromptTemplate{ID: uuid.NewString(), OwnerID: ownerID}
	payload.apply(tpl)
	if err := tpl.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if err := a.Prompts.Create(r.Context(), tpl); err != nil {
		a.Logger.Error().Err(err).Msg("prompt templates: create")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save prompt template")
		return
	}
	a.json(w, http.StatusCreated, promptTemplateResponse(tpl))
}

// ListPromptTemplates returns the caller's saved prompts.
func (a *App) ListPromptTemplates(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	templates, err := a.Prompts.ListByOwner(r.Context(), ownerID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("prompt templates: list")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list prompt templates")
		return
	}
	items := make([]promptTemplateItem, 0, len(templates))
	for i := range templates {
		items = append(items, promptTemplateResponse(&templates[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// UpdatePromptTemplate merges the supplied fields into an existing prompt.
func (a *App) UpdatePromptTemplate(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var payload promptTemplatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	id := chi.URLParam(r, "prompt_id")
	tpl, err := a.Prompts.GetForOwner(r.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "prompt template not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load prompt template")
		return
	}
	payload.apply(tpl)
	if err := tpl.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if err := a.Prompts.Update(r.Context(), tpl); err != nil {
		a.Logger.Error().Err(err).Msg("prompt templates: update")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save prompt template")
		return
	}
	a.json(w, http.StatusOK, promptTemplateResponse(tpl))
}

// DeletePromptTemplate removes a saved prompt.
func (a *App) DeletePromptTemplate(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "prompt_id")
	if err := a.Prompts.Delete(r.Context(), id, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "prompt template not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete prompt template")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "prompt template deleted"})
}
