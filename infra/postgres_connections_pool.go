package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

const DEFAULT_MAX_CONNECTIONS = 50

func NewPostgresConnectionPool(ctx context.Context, connectionString string, maxConnections int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()
	cfg.MaxConns = DEFAULT_MAX_CONNECTIONS
	if maxConnections > 0 {
		cfg.MaxConns = int32(maxConnections)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	err = retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return pool.Ping(pingCtx)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.LastErrorOnly(true),
		retry.Delay(2*time.Second),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach postgres: %w", err)
	}
	return pool, nil
}
