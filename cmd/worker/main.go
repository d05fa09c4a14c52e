package main

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"slidegen/internal/adapter/repo"
	"slidegen/internal/domain"
	"slidegen/internal/infra"
	"slidegen/internal/orchestrator"
	"slidegen/internal/stage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to connect database")
	}
	defer pool.Close()

	registry, err := stage.LoadRegistry(cfg.StagesPath, cfg.StageTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to load stage endpoints")
	}
	gateway, err := stage.NewGateway(stage.Options{
		Registry:     registry,
		SharedSecret: cfg.StageSecret,
		MaxAttempts:  cfg.StageMaxAttempts,
		BackoffBase:  cfg.StageBackoffBase,
		BackoffMax:   cfg.StageBackoffMax,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to build stage gateway")
	}

	jobs := repo.NewJobRepository(pool)
	history := repo.NewHistoryRepository(pool)
	orch := orchestrator.New(jobs, history, gateway, logger)
	gate := orchestrator.NewGate(jobs, logger, cfg.ApprovalTimeout)

	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerSlots; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			claimLoop(ctx, cfg, logger.With().Int("slot", slot).Logger(), jobs, orch)
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		sweepLoop(ctx, logger, jobs, gate)
	}()

	logger.Info().Int("slots", cfg.WorkerSlots).Msg("worker: started")
	<-ctx.Done()
	logger.Info().Msg("worker: shutting down")
	wg.Wait()
	logger.Info().Msg("worker: stopped")
}

// claimLoop repeatedly leases one runnable job and drives it as far as the
// pipeline allows. Idle slots poll; a busy slot goes straight back for the
// next job so a burst drains without waiting out the interval.
func claimLoop(ctx context.Context, cfg *infra.Config, logger infra.Logger, jobs *repo.JobRepositoryPG, orch *orchestrator.Orchestrator) {
	for {
		job, err := jobs.ClaimRunnable(ctx, cfg.JobLease)
		switch {
		case err == nil:
			logger.Info().Str("job_id", job.ID).Str("status", string(job.Status)).Msg("worker: claimed job")
			orch.Run(ctx, job)
			continue
		case errors.Is(err, context.Canceled):
			return
		case !errors.Is(err, domain.ErrNotFound):
			logger.Error().Err(err).Msg("worker: claim runnable job")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.JobPollInterval):
		}
	}
}

// sweepLoop runs the periodic janitors: the approval-timeout sweep and the
// abandoned-lease sweep for jobs stranded by a crashed worker.
func sweepLoop(ctx context.Context, logger infra.Logger, jobs *repo.JobRepositoryPG, gate *orchestrator.Gate) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gate.Sweep(ctx)
			failed, err := jobs.FailAbandoned(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error().Err(err).Msg("worker: fail abandoned jobs")
				}
				continue
			}
			if failed > 0 {
				logger.Warn().Int("count", failed).Msg("worker: failed jobs with expired leases")
			}
		}
	}
}
