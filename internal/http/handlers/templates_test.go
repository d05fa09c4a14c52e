package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"slidegen/internal/domain"
	"slidegen/internal/middleware"
)

type stubTemplates struct {
	mu        sync.Mutex
	templates map[string]*domain.DeckTemplate
}

func newStubTemplates() *stubTemplates {
	return &stubTemplates{templates: make(map[string]*domain.DeckTemplate)}
}

func (s *stubTemplates) Create(_ context.Context, tpl *domain.DeckTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *tpl
	s.templates[tpl.ID] = &copied
	return nil
}

func (s *stubTemplates) GetForOwner(_ context.Context, id, ownerID string) (*domain.DeckTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl, ok := s.templates[id]
	if !ok || tpl.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	copied := *tpl
	return &copied, nil
}

func (s *stubTemplates) ListByOwner(_ context.Context, ownerID string) ([]domain.DeckTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.DeckTemplate
	for _, tpl := range s.templates {
		if tpl.OwnerID == ownerID {
			out = append(out, *tpl)
		}
	}
	return out, nil
}

func (s *stubTemplates) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl, ok := s.templates[id]
	if !ok || tpl.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(s.templates, id)
	return nil
}

func pptxBytes(t *testing.T) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, name := range []string{"[Content_Types].xml", "ppt/presentation.xml"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte("<xml/>")); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename, name string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if name != "" {
		if err := mw.WriteField("name", name); err != nil {
			t.Fatalf("write name field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/templates", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Test-User", "user-1")
	return req
}

func newTemplatesEnv(t *testing.T) (*App, *stubTemplates, http.Handler) {
	t.Helper()
	env := newTestEnv(t, newStubJobs(), &stubSettings{})
	templates := newStubTemplates()
	env.app.Templates = templates

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if user := req.Header.Get("X-Test-User"); user != "" {
				req = req.WithContext(middleware.ContextWithUserID(req.Context(), user))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/v1/templates", env.app.UploadTemplate)
	r.Get("/v1/templates", env.app.ListTemplates)
	r.Delete("/v1/templates/{template_id}", env.app.DeleteTemplate)
	return env.app, templates, r
}

func TestUploadTemplate(t *testing.T) {
	t.Parallel()
	app, templates, router := newTemplatesEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "corporate.pptx", "Corporate Deck", pptxBytes(t)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatal("response has no template id")
	}
	if body["name"] != "Corporate Deck" {
		t.Fatalf("name = %v", body["name"])
	}

	tpl, err := templates.GetForOwner(context.Background(), id, "user-1")
	if err != nil {
		t.Fatalf("template not persisted: %v", err)
	}
	if _, err := app.Store.Read(context.Background(), tpl.StorageKey); err != nil {
		t.Fatalf("template blob not stored: %v", err)
	}
}

func TestUploadTemplateRejections(t *testing.T) {
	t.Parallel()
	_, _, router := newTemplatesEnv(t)

	cases := []struct {
		name     string
		filename string
		data     []byte
	}{
		{name: "wrong_extension", filename: "deck.pdf", data: pptxBytes(t)},
		{name: "renamed_plain_file", filename: "deck.pptx", data: []byte("not a zip at all")},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, tc.filename, "", tc.data))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDeleteTemplate(t *testing.T) {
	t.Parallel()
	app, templates, router := newTemplatesEnv(t)
	key, err := app.Store.Write(context.Background(), "templates/user-1/tpl-1/tpl-1.pptx", pptxBytes(t))
	if err != nil {
		t.Fatalf("seed blob: %v", err)
	}
	if err := templates.Create(context.Background(), &domain.DeckTemplate{
		ID: "tpl-1", OwnerID: "user-1", Name: "Old", StorageKey: key,
	}); err != nil {
		t.Fatalf("seed template: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/templates/tpl-1", nil)
	req.Header.Set("X-Test-User", "user-2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/templates/tpl-1", nil)
	req.Header.Set("X-Test-User", "user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if _, err := templates.GetForOwner(context.Background(), "tpl-1", "user-1"); err == nil {
		t.Fatal("template row still present after delete")
	}
	if _, err := app.Store.Read(context.Background(), key); err == nil {
		t.Fatal("template blob still present after delete")
	}
}
