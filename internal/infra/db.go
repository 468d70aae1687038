package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dbMaxConns        = 8
	dbMinConns        = 2
	dbConnectTimeout  = 10 * time.Second
	dbMaxConnLifetime = time.Hour
	dbMaxConnIdleTime = 30 * time.Minute
)

// NewDBPool opens a pgx connection pool and verifies it with a ping, so a
// bad DATABASE_URL fails at startup instead of on the first request.
func NewDBPool(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = dbMaxConns
	poolCfg.MinConns = dbMinConns
	poolCfg.MaxConnLifetime = dbMaxConnLifetime
	poolCfg.MaxConnIdleTime = dbMaxConnIdleTime

	ctx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
