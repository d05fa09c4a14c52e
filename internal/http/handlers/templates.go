package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slidegen/internal/domain"
	"slidegen/pkg/pptx"
)

const maxTemplateBytes = 20 << 20

type templateItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Bytes       int64     `json:"bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadTemplate stores a .pptx deck template for later jobs to reference.
func (a *App) UploadTemplate(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if err := r.ParseMultipartForm(maxTemplateBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file is required")
		return
	}
	defer file.Close()
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pptx") {
		a.error(w, http.StatusBadRequest, "bad_request", "only .pptx templates are accepted")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxTemplateBytes+1))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to read upload")
		return
	}
	if len(data) > maxTemplateBytes {
		a.error(w, http.StatusRequestEntityTooLarge, "too_large", "template exceeds size limit")
		return
	}
	if err := pptx.Validate(data); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "file is not a valid PowerPoint template")
		return
	}

	id := uuid.NewString()
	key, err := a.Store.Write(r.Context(), fmt.Sprintf("templates/%s/%s/%s.pptx", ownerID, id, id), data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("templates: store upload")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store template")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	tpl := &domain.DeckTemplate{
		ID:          id,
		OwnerID:     ownerID,
		Name:        name,
		Description: r.FormValue("description"),
		StorageKey:  key,
		Bytes:       int64(len(data)),
	}
	if err := a.Templates.Create(r.Context(), tpl); err != nil {
		_ = a.Store.Delete(r.Context(), key)
		a.Logger.Error().Err(err).Msg("templates: create record")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save template")
		return
	}
	a.json(w, http.StatusCreated, templateItem{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		Bytes:       tpl.Bytes,
		CreatedAt:   tpl.CreatedAt,
	})
}

// ListTemplates returns the caller's templates.
func (a *App) ListTemplates(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	templates, err := a.Templates.ListByOwner(r.Context(), ownerID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("templates: list")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list templates")
		return
	}
	items := make([]templateItem, 0, len(templates))
	for _, tpl := range templates {
		items = append(items, templateItem{
			ID:          tpl.ID,
			Name:        tpl.Name,
			Description: tpl.Description,
			Bytes:       tpl.Bytes,
			CreatedAt:   tpl.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// DeleteTemplate removes a template record and its stored blob.
func (a *App) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	ownerID := a.currentUserID(r)
	if ownerID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "template_id")
	tpl, err := a.Templates.GetForOwner(r.Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "template not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load template")
		return
	}
	if err := a.Store.Delete(r.Context(), tpl.StorageKey); err != nil {
		a.Logger.Warn().Err(err).Str("template_id", id).Msg("templates: delete blob")
	}
	if err := a.Templates.Delete(r.Context(), id, ownerID); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete template")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "template deleted"})
}
