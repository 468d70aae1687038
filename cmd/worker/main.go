package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/caspiansol/adspark/internal/adapter/repo"
	"github.com/caspiansol/adspark/internal/infra"
	"github.com/caspiansol/adspark/internal/infra/credentials"
	"github.com/caspiansol/adspark/internal/providers/captions"
	"github.com/caspiansol/adspark/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer dbpool.Close()

	captionsKey := strings.TrimSpace(cfg.CaptionsAPIKey)
	if captionsKey == "" {
		credStore := credentials.NewStore(dbpool)
		key, err := credStore.CaptionsAPIKey(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("worker: failed to load captions api key from store")
		} else {
			captionsKey = key
		}
	}

	vendor, err := captions.NewClient(captions.Options{
		BaseURL:     cfg.CaptionsBaseURL,
		APIKey:      captionsKey,
		WorkspaceID: cfg.CaptionsWorkspaceID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure captions client")
	}

	poller := worker.NewPoller(logger, repo.NewJobRepository(dbpool), vendor, worker.Options{
		InitialBackoff: cfg.PollInitialBackoff,
		MaxBackoff:     cfg.PollMaxBackoff,
		MaxAttempts:    cfg.PollMaxAttempts,
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SweepSchedule, func() { poller.Sweep(ctx) }); err != nil {
		logger.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("worker: invalid sweep schedule")
	}
	scheduler.Start()
	logger.Info().Str("schedule", cfg.SweepSchedule).Msg("worker: started")

	// Run one sweep immediately so restarts pick up open jobs without
	// waiting for the first tick.
	poller.Sweep(ctx)

	<-ctx.Done()

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()
	poller.Stop()
	logger.Info().Msg("worker: stopped")
}
