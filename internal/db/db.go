package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// poolConfig tunes the pool for catalog traffic: one region read per
// quotation plus the paged catalog endpoints.
func poolConfig(databaseURL string) (*pgxpool.Config, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	// Store fan-out runs after the catalog read and holds no connection.
	cfg.MaxConns = 10
	cfg.MinConns = 0
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	params := cfg.ConnConfig.RuntimeParams
	params["application_name"] = "storelocator-api"
	params["search_path"] = "public"
	params["client_encoding"] = "UTF8"
	params["timezone"] = "UTC"
	// Region reads and catalog pages are single indexed scans; past 3s the
	// catalog is reported unavailable.
	params["statement_timeout"] = "3000"
	params["idle_in_transaction_session_timeout"] = "5000"
	return cfg, nil
}
