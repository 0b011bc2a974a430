package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds only aggregate counters; brackets are never stored.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS worldcups (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS worldcup_items (
		id          TEXT NOT NULL,
		worldcup_id TEXT NOT NULL REFERENCES worldcups(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		position    INTEGER NOT NULL,
		metadata    JSONB,
		CONSTRAINT worldcup_items_pkey PRIMARY KEY (worldcup_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS item_stats (
		worldcup_id   TEXT NOT NULL,
		item_id       TEXT NOT NULL,
		wins          INTEGER NOT NULL DEFAULT 0,
		losses        INTEGER NOT NULL DEFAULT 0,
		championships INTEGER NOT NULL DEFAULT 0,
		CONSTRAINT item_stats_pkey PRIMARY KEY (worldcup_id, item_id),
		CONSTRAINT item_stats_item_fkey FOREIGN KEY (worldcup_id, item_id)
			REFERENCES worldcup_items(worldcup_id, id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS votes (
		id              BIGSERIAL PRIMARY KEY,
		worldcup_id     TEXT NOT NULL,
		winner_id       TEXT NOT NULL,
		loser_id        TEXT,
		idempotency_key TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT votes_idempotency_key_key UNIQUE (idempotency_key),
		CONSTRAINT votes_winner_fkey FOREIGN KEY (worldcup_id, winner_id)
			REFERENCES worldcup_items(worldcup_id, id) ON DELETE CASCADE,
		CONSTRAINT votes_loser_fkey FOREIGN KEY (worldcup_id, loser_id)
			REFERENCES worldcup_items(worldcup_id, id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS plays (
		session_id  TEXT NOT NULL,
		worldcup_id TEXT NOT NULL REFERENCES worldcups(id) ON DELETE CASCADE,
		winner_id   TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT plays_pkey PRIMARY KEY (session_id)
	)`,
	`CREATE INDEX IF NOT EXISTS plays_worldcup_id_idx ON plays (worldcup_id)`,
}

// EnsureSchema creates the collector tables when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
