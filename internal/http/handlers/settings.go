package handlers

import (
	"encoding/json"
	"net/http"

	"slidegen/internal/domain"
)

type settingsPayload struct {
	AutoApprove          *bool   `json:"auto_approval"`
	DefaultTemplateID    *string `json:"default_template_id"`
	DefaultModelConfigID *string `json:"default_model_config_id"`
	NotifyOnCompletion   *bool   `json:"notification_enabled"`
}

func settingsResponse(s *domain.UserSettings) map[string]any {
	return map[string]any{
		"auto_approval":           s.AutoApprove,
		"default_template_id":     s.DefaultTemplateID,
		"default_model_config_id": s.DefaultModelConfigID,
		"notification_enabled":    s.NotifyOnCompletion,
	}
}

// GetSettings returns the caller's saved defaults.
func (a *App) GetSettings(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	settings, err := a.Settings.Get(r.Context(), ownerID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("settings: load")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load settings")
		return
	}
	a.json(w, http.StatusOK, settingsResponse(settings))
}

// UpdateSettings merges the supplied fields into the caller's defaults.
// Jobs already submitted keep the values captured in their request.
func (a *App) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	settings, err := a.Settings.Get(r.Context(), ownerID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load settings")
		return
	}
	if payload.AutoApprove != nil {
		settings.AutoApprove = *payload.AutoApprove
	}
	if payload.DefaultTemplateID != nil {
		settings.DefaultTemplateID = *payload.DefaultTemplateID
	}
	if payload.DefaultModelConfigID != nil {
		settings.DefaultModelConfigID = *payload.DefaultModelConfigID
	}
	if payload.NotifyOnCompletion != nil {
		settings.NotifyOnCompletion = *payload.NotifyOnCompletion
	}
	if err := a.Settings.Upsert(r.Context(), settings); err != nil {
		a.Logger.Error().Err(err).Msg("settings: save")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save settings")
		return
	}
	a.json(w, http.StatusOK, settingsResponse(settings))
}
