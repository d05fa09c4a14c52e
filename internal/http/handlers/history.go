package handlers

import (
	"net/http"
	"strconv"
	"time"
)

type historyItem struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	Title      string    `json:"title"`
	SlideCount int       `json:"slide_count"`
	ResultRef  string    `json:"result_reference"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListHistory returns the caller's completed generations, newest first.
func (a *App) ListHistory(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	entries, err := a.History.ListByOwner(r.Context(), ownerID, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("history: list")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{
			ID:         e.ID,
			JobID:      e.JobID,
			Title:      e.Title,
			SlideCount: e.SlideCount,
			ResultRef:  e.ResultKey,
			CreatedAt:  e.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
