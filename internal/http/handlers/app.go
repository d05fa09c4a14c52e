// Package handlers implements the HTTP API surface: submission, the
// approval decision endpoint, status polling, result download and the
// management endpoints for history, templates, prompts, model configs and
// user settings.
package handlers

import (
	"encoding/json"
	"net/http"

	"slidegen/internal/domain"
	"slidegen/internal/infra"
	"slidegen/internal/middleware"
	"slidegen/internal/orchestrator"
	"slidegen/internal/storage"
)

// App bundles the dependencies the handlers need. Handlers never mutate job
// state directly: submissions create pending records and the approval
// endpoint goes through the approval gate; everything else is read-only.
type App struct {
	Config       *infra.Config
	Logger       infra.Logger
	Jobs         domain.JobRepository
	History      domain.HistoryRepository
	Settings     domain.SettingsRepository
	Templates    domain.TemplateRepository
	ModelConfigs domain.ModelConfigRepository
	Prompts      domain.PromptTemplateRepository
	Gate         *orchestrator.Gate
	Store        *storage.FileStore
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
