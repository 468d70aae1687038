package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAIOrg     string

	CaptionsAPIKey        string
	CaptionsBaseURL       string
	CaptionsWorkspaceID   string
	CaptionsWebhookSecret string

	GeoIPDBPath string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int

	DraftTTL time.Duration

	SweepSchedule      string
	PollInitialBackoff time.Duration
	PollMaxBackoff     time.Duration
	PollMaxAttempts    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-5-2025-08-07"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:     os.Getenv("OPENAI_ORG"),

		CaptionsAPIKey:        os.Getenv("CAPTIONS_API_KEY"),
		CaptionsBaseURL:       getEnv("CAPTIONS_API_BASE", "https://api.captions.ai/v1"),
		CaptionsWorkspaceID:   os.Getenv("CAPTIONS_WORKSPACE_ID"),
		CaptionsWebhookSecret: os.Getenv("CAPTIONS_WEBHOOK_SECRET"),

		GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		// Write timeout covers proxied video downloads, which can run for
		// minutes on slow links.
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),

		DraftTTL: time.Hour * time.Duration(getEnvInt("DRAFT_TTL_HOURS", 168)),

		SweepSchedule:      getEnv("SWEEP_SCHEDULE", "@every 30s"),
		PollInitialBackoff: time.Second * time.Duration(getEnvInt("POLL_INITIAL_BACKOFF_SECONDS", 5)),
		PollMaxBackoff:     time.Second * time.Duration(getEnvInt("POLL_MAX_BACKOFF_SECONDS", 60)),
		PollMaxAttempts:    getEnvInt("POLL_MAX_ATTEMPTS", 40),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
