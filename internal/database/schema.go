package database

import (
	"context"
	"fmt"
)

// schema creates every table this core writes. Each statement is
// independently durable; the partial unique index is what enforces
// at-most-one successful send per proposal.
const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	url              TEXT NOT NULL DEFAULT '',
	description      TEXT NOT NULL DEFAULT '',
	budget           TEXT NOT NULL DEFAULT '',
	posted_at        TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'new',
	filter_reason    TEXT NOT NULL DEFAULT '',
	match_score      INTEGER NOT NULL DEFAULT 0,
	fetched_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	client_country   TEXT NOT NULL DEFAULT '',
	client_spent     TEXT NOT NULL DEFAULT '0',
	client_verified  BOOLEAN NOT NULL DEFAULT FALSE,
	proposals_tier   TEXT NOT NULL DEFAULT '',
	experience_level TEXT NOT NULL DEFAULT '',
	job_type         TEXT NOT NULL DEFAULT '',
	feed_source      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS proposals (
	id             BIGSERIAL PRIMARY KEY,
	job_id         TEXT NOT NULL REFERENCES jobs(id),
	proposal_text  TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'pending',
	notes          TEXT,
	approved_at    TIMESTAMPTZ,
	sent_at        TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS submission_attempts (
	id               BIGSERIAL PRIMARY KEY,
	proposal_id      BIGINT NOT NULL REFERENCES proposals(id),
	stage            TEXT NOT NULL,
	outcome          TEXT NOT NULL,
	failure_reason   TEXT NOT NULL DEFAULT '',
	screenshot_paths TEXT[] NOT NULL DEFAULT '{}',
	unconfirmed      BOOLEAN NOT NULL DEFAULT FALSE,
	started_at       TIMESTAMPTZ NOT NULL,
	ended_at         TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS submission_attempts_one_sent
	ON submission_attempts (proposal_id) WHERE outcome = 'sent';

CREATE TABLE IF NOT EXISTS feed_log (
	id         BIGSERIAL PRIMARY KEY,
	feed_url   TEXT NOT NULL,
	new_jobs   INTEGER NOT NULL DEFAULT 0,
	duplicates INTEGER NOT NULL DEFAULT 0,
	fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// InitSchema creates all tables and indexes if they do not exist.
func (r *Repository) InitSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}
