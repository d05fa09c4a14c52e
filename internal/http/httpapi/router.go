package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"slidegen/internal/http/handlers"
	"slidegen/internal/middleware"
)

// Options carries the router's cross-cutting configuration.
type Options struct {
	JWTSecret       string
	AllowedOrigins  []string
	DefaultLocale   string
	LocaleLookup    middleware.LocaleLookup
	RateLimitPerMin int
}

// NewRouter wires the API surface. Everything except the health check sits
// behind bearer authentication; submission additionally goes through the
// per-user rate limit.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.Locale(opts.DefaultLocale, opts.LocaleLookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Route("/v1/jobs", func(r chi.Router) {
			r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/", app.SubmitJob)
			r.Get("/", app.ListJobs)
			r.Get("/{job_id}", app.JobStatus)
			r.Post("/{job_id}/approval", app.ApproveJob)
			r.Get("/{job_id}/download", app.DownloadResult)
		})

		r.Get("/v1/history", app.ListHistory)

		r.Route("/v1/settings", func(r chi.Router) {
			r.Get("/", app.GetSettings)
			r.Put("/", app.UpdateSettings)
		})

		r.Route("/v1/templates", func(r chi.Router) {
			r.Post("/", app.UploadTemplate)
			r.Get("/", app.ListTemplates)
			r.Delete("/{template_id}", app.DeleteTemplate)
		})

		r.Route("/v1/llm-configs", func(r chi.Router) {
			r.Post("/", app.CreateModelConfig)
			r.Get("/", app.ListModelConfigs)
			r.Put("/{config_id}", app.UpdateModelConfig)
			r.Delete("/{config_id}", app.DeleteModelConfig)
		})

		r.Route("/v1/prompt-templates", func(r chi.Router) {
			r.Post("/", app.CreatePromptTemplate)
			r.Get("/", app.ListPromptTemplates)
			r.Put("/{prompt_id}", app.UpdatePromptTemplate)
			r.Delete("/{prompt_id}", app.DeletePromptTemplate)
		})
	})

	return r
}
