package db

import (
	"context"
	"time"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pastes (
  id            TEXT PRIMARY KEY,
  title         TEXT,
  content       TEXT NOT NULL,
  language      TEXT NOT NULL DEFAULT 'text',
  is_private    BOOLEAN NOT NULL DEFAULT false,
  password_hash TEXT,
  view_count    BIGINT NOT NULL DEFAULT 0,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  expires_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_pastes_recent
  ON pastes (created_at DESC)
  WHERE is_private = false;

CREATE INDEX IF NOT EXISTS idx_pastes_expires_at
  ON pastes (expires_at)
  WHERE expires_at IS NOT NULL;
`

// Migrate applies the schema at startup. Statements are idempotent, so no
// external migration tool is needed.
func (db *DB) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := db.Pool.Exec(ctx, schemaSQL)
	return err
}
