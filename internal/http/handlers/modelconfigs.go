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

type modelConfigPayload struct {
	Name        *string  `json:"name"`
	Provider    *string  `json:"provider"`
	Model       *string  `json:"model_name"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
	IsDefault   *bool    `json:"is_default"`
}

func (p modelConfigPayload) apply(cfg *domain.ModelConfig) {
	if p.Name != nil {
		cfg.Name = *p.Name
	}
	if p.Provider != nil {
		cfg.Provider = *p.Provider
	}
	if p.Model != nil {
		cfg.Model = *p.Model
	}
	if p.Temperature != nil {
		cfg.Temperature = *p.Temperature
	}
	if p.MaxTokens != nil {
		cfg.MaxTokens = *p.MaxTokens
	}
	if p.IsDefault != nil {
		cfg.IsDefault = *p.IsDefault
	}
}

type modelConfigItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model_name"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func modelConfigResponse(cfg *domain.ModelConfig) modelConfigItem {
	return modelConfigItem{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		IsDefault:   cfg.IsDefault,
		CreatedAt:   cfg.CreatedAt,
		UpdatedAt:   cfg.UpdatedAt,
	}
}

// CreateModelConfig saves a generation-model configuration jobs can select
// through their model_config_id.
func (a *App) CreateModelConfig(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var payload modelConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	cfg := &domain.ModelConfig{ID: uuid.NewString(), OwnerID: ownerID}
	payload.apply(cfg)
	if err := cfg.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if err := a.ModelConfigs.Create(r.Context(), cfg); err != nil {
		a.Logger.Error().Err(err).Msg("model configs: create")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save model config")
		return
	}
	a.json(w, http.StatusCreated, modelConfigResponse(cfg))
}

// ListModelConfigs returns the caller's saved configurations.
func (a *App) ListModelConfigs(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	configs, err := a.ModelConfigs.ListByOwner(r.Context(), ownerID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("model configs: list")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list model configs")
		return
	}
	items := make([]modelConfigItem, 0, len(configs))
	for i := range configs {
		items = append(items, modelConfigResponse(&configs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// UpdateModelConfig merges the supplied fields into an existing config.
func (a *App) UpdateModelConfig(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var payload modelConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	id := chi.URLParam(r, "config_id")
	cfg, err := a.ModelConfigs.GetForOwner(r.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "model config not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load model config")
		return
	}
	payload.apply(cfg)
	if err := cfg.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	if err := a.ModelConfigs.Update(r.Context(), cfg); err != nil {
		a.Logger.Error().Err(err).Msg("model configs: update")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save model config")
		return
	}
	a.json(w, http.StatusOK, modelConfigResponse(cfg))
}

// DeleteModelConfig removes a saved configuration.
func (a *App) DeleteModelConfig(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "config_id")
	if err := a.ModelConfigs.Delete(r.Context(), id, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "model config not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete model config")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "model config deleted"})
}
