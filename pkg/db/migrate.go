package db

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS issued_coupons (
		id         BIGSERIAL PRIMARY KEY,
		date       TEXT NOT NULL,
		worker     TEXT NOT NULL,
		content    TEXT NOT NULL,
		amount     TEXT NOT NULL,
		issuer     TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS completed_coupons (
		id         BIGSERIAL PRIMARY KEY,
		issued_id  BIGINT REFERENCES issued_coupons(id) ON DELETE SET NULL,
		date       TEXT NOT NULL,
		performer  TEXT,
		content    TEXT NOT NULL,
		amount     TEXT NOT NULL,
		photo      TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_completed_coupons_issued_id ON completed_coupons (issued_id)`,
	`CREATE TABLE IF NOT EXISTS guestbook (
		id         BIGSERIAL PRIMARY KEY,
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates the ledger and guestbook tables if they do not exist.
func Migrate(ctx context.Context, q DBTX) error {
	for _, stmt := range schema {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
