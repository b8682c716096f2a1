package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stores (
        store_id              text PRIMARY KEY,
        store_name            text NOT NULL,
        take_out_in_store     boolean NOT NULL DEFAULT true,
        shipping_time_in_days integer NOT NULL CHECK (shipping_time_in_days >= 0),
        latitude              double precision NOT NULL CHECK (latitude BETWEEN -90 AND 90),
        longitude             double precision NOT NULL CHECK (longitude BETWEEN -180 AND 180),
        address1              text NOT NULL,
        address2              text NOT NULL DEFAULT '',
        address3              text NOT NULL DEFAULT '',
        city                  text NOT NULL,
        district              text NOT NULL,
        state                 char(2) NOT NULL,
        type                  text NOT NULL CHECK (type IN ('PDV', 'LOJA')),
        country               text NOT NULL DEFAULT 'Brasil',
        postal_code           char(8) NOT NULL CHECK (postal_code ~ '^[0-9]{8}$'),
        telephone_number      text NOT NULL DEFAULT '',
        email_address         text NOT NULL DEFAULT '',
        geohash               text NOT NULL,
        created_at            timestamptz NOT NULL,
        updated_at            timestamptz NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_stores_state ON stores (state)`,
	`CREATE INDEX IF NOT EXISTS idx_stores_postal_code ON stores (postal_code text_pattern_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_stores_geohash ON stores (geohash text_pattern_ops)`,
}

// EnsureSchema creates the store catalog tables and indexes when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
