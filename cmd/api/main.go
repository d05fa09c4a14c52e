package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"slidegen/internal/adapter/repo"
	"slidegen/internal/http/handlers"
	"slidegen/internal/http/httpapi"
	"slidegen/internal/infra"
	"slidegen/internal/infra/geoip"
	"slidegen/internal/middleware"
	"slidegen/internal/orchestrator"
	"slidegen/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to connect database")
	}
	defer pool.Close()

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
	}

	var localeLookup middleware.LocaleLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("api: geoip disabled")
	} else if resolver != nil {
		defer resolver.Close()
		localeLookup = resolver.LocaleFor
	}

	jobs := repo.NewJobRepository(pool)
	app := &handlers.App{
		Config:       cfg,
		Logger:       logger,
		Jobs:         jobs,
		History:      repo.NewHistoryRepository(pool),
		Settings:     repo.NewSettingsRepository(pool),
		Templates:    repo.NewTemplateRepository(pool),
		ModelConfigs: repo.NewModelConfigRepository(pool),
		Prompts:      repo.NewPromptTemplateRepository(pool),
		Gate:         orchestrator.NewGate(jobs, logger, cfg.ApprovalTimeout),
		Store:        fileStore,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  allowedOrigins(),
		DefaultLocale:   cfg.DefaultLocale,
		LocaleLookup:    localeLookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := infra.NewHTTPServer(cfg, router, logger).Run(runCtx); err != nil {
		logger.Fatal().Err(err).Msg("api: http server failed")
	}
	logger.Info().Msg("api: stopped")
}

func allowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:3000"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
