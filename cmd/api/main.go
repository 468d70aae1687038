package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/caspiansol/adspark/internal/adapter/draft"
	"github.com/caspiansol/adspark/internal/adapter/repo"
	"github.com/caspiansol/adspark/internal/domain"
	"github.com/caspiansol/adspark/internal/http/handlers"
	httpapi "github.com/caspiansol/adspark/internal/http/httpapi"
	"github.com/caspiansol/adspark/internal/infra"
	"github.com/caspiansol/adspark/internal/infra/credentials"
	"github.com/caspiansol/adspark/internal/infra/geoip"
	"github.com/caspiansol/adspark/internal/providers/captions"
	"github.com/caspiansol/adspark/internal/providers/script"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	// Drafts live in Redis with a TTL; fall back to process memory when no
	// Redis is reachable (development only).
	var drafts domain.DraftStore
	if rdb, err := infra.NewRedisClient(ctx, cfg); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, drafts held in memory")
		drafts = draft.NewMemoryStore()
	} else {
		defer func() {
			_ = rdb.Close()
		}()
		drafts = draft.NewRedisStore(rdb, cfg.DraftTTL)
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, geo suggestions disabled")
	}
	if resolver != nil {
		defer func() {
			_ = resolver.Close()
		}()
	}

	// Vendor keys come from the environment first, falling back to the
	// credentials table.
	credStore := credentials.NewStore(dbpool)
	captionsKey := strings.TrimSpace(cfg.CaptionsAPIKey)
	if captionsKey == "" {
		if key, err := credStore.CaptionsAPIKey(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to load captions api key from store")
		} else {
			captionsKey = key
		}
	}
	webhookSecret := strings.TrimSpace(cfg.CaptionsWebhookSecret)
	if webhookSecret == "" {
		if secret, err := credStore.CaptionsWebhookSecret(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to load webhook secret from store")
		} else {
			webhookSecret = secret
		}
	}

	vendor, err := captions.NewClient(captions.Options{
		BaseURL:     cfg.CaptionsBaseURL,
		APIKey:      captionsKey,
		WorkspaceID: cfg.CaptionsWorkspaceID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure captions client")
	}

	var scripts script.Generator
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		logger.Warn().Msg("openai api key missing, serving the demo script")
		scripts = script.NewStaticGenerator()
	} else {
		scripts, err = script.NewOpenAIGenerator(script.OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   &http.Client{Timeout: 60 * time.Second},
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure openai client")
		}
	}

	app := handlers.NewApp(
		logger,
		repo.NewJobRepository(dbpool),
		repo.NewTemplateRepository(dbpool),
		drafts,
		scripts,
		vendor,
	)
	app.WebhookSecret = webhookSecret

	router := httpapi.NewRouter(app, httpapi.Options{
		Log:         logger,
		JWTSecret:   cfg.JWTSecret,
		GeoResolver: resolver,
		RateLimit:   cfg.RateLimitPerMin,
		RatePer:     time.Minute,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
