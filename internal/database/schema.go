package database

import (
	"context"
	"fmt"
)

// schema is idempotent and applied on every start.
const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS mentor_sessions (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id     TEXT NOT NULL,
	title        TEXT NOT NULL,
	session_type TEXT NOT NULL DEFAULT 'general',
	profile      JSONB,
	is_active    BOOLEAN NOT NULL DEFAULT TRUE,
	summary      TEXT,
	version      INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS mentor_sessions_owner_active_idx ON mentor_sessions (owner_id, is_active);
CREATE INDEX IF NOT EXISTS mentor_sessions_owner_type_idx ON mentor_sessions (owner_id, session_type);
CREATE INDEX IF NOT EXISTS mentor_sessions_updated_idx ON mentor_sessions (updated_at DESC);

CREATE TABLE IF NOT EXISTS mentor_messages (
	session_id   UUID NOT NULL REFERENCES mentor_sessions (id) ON DELETE CASCADE,
	seq          INTEGER NOT NULL,
	role         TEXT NOT NULL,
	content      TEXT NOT NULL,
	action_items JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (session_id, seq)
);
`

func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
