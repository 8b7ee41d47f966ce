package database

import (
	"context"
	"fmt"
	"time"

	"go-upwork-automation/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	//DATABASE_URL may point at a PgBouncer-style pooler in transaction mode,
	//which breaks prepared statements, so the statement cache stays off
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Ping to ensure connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- JOB OPERATIONS ----------------

// SaveJob inserts a job if its id is not already present. Returns true when
// the row is new. Every write is independently durable, no multi-statement
// transaction.
func (r *Repository) SaveJob(ctx context.Context, job models.JobRecord) (bool, error) {
	query := `
		INSERT INTO jobs (id, title, url, description, budget, posted_at, status, fetched_at,
		                  client_country, client_spent, client_verified, proposals_tier,
		                  experience_level, job_type, feed_source)
		VALUES ($1, $2, $3, $4, $5, $6, 'new', $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.URL, job.Description, job.Budget, job.PostedAt, job.FetchedAt,
		job.ClientCountry, job.ClientSpent, job.ClientVerified, job.ProposalsTier,
		job.ExperienceLevel, job.JobType, job.FeedSource)
	if err != nil {
		return false, fmt.Errorf("failed to save job: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetJobByID retrieves a job by its platform id
func (r *Repository) GetJobByID(ctx context.Context, jobID string) (*models.JobRecord, error) {
	var job models.JobRecord
	query := `SELECT id, title, url, description, budget, posted_at, fetched_at,
	                 client_country, client_spent, client_verified, proposals_tier,
	                 experience_level, job_type, feed_source
	          FROM jobs WHERE id = $1`
	err := r.db.QueryRow(ctx, query, jobID).
		Scan(&job.ID, &job.Title, &job.URL, &job.Description, &job.Budget, &job.PostedAt, &job.FetchedAt,
			&job.ClientCountry, &job.ClientSpent, &job.ClientVerified, &job.ProposalsTier,
			&job.ExperienceLevel, &job.JobType, &job.FeedSource)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return &job, nil
}

// ListJobsByStatus returns up to limit jobs with the given status.
func (r *Repository) ListJobsByStatus(ctx context.Context, status string, limit int) ([]models.JobRecord, error) {
	query := `SELECT id, title, url, description, budget, posted_at, fetched_at,
	                 client_country, client_spent, client_verified, proposals_tier,
	                 experience_level, job_type, feed_source
	          FROM jobs WHERE status = $1 ORDER BY fetched_at DESC LIMIT $2`

	rows, err := r.db.Query(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobRecord
	for rows.Next() {
		var job models.JobRecord
		if err := rows.Scan(&job.ID, &job.Title, &job.URL, &job.Description, &job.Budget,
			&job.PostedAt, &job.FetchedAt, &job.ClientCountry, &job.ClientSpent,
			&job.ClientVerified, &job.ProposalsTier, &job.ExperienceLevel,
			&job.JobType, &job.FeedSource); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// UpdateJobFilterResult records the filter verdict for a job.
func (r *Repository) UpdateJobFilterResult(ctx context.Context, jobID, status, reason string, score int) error {
	_, err := r.db.Exec(ctx,
		"UPDATE jobs SET status = $1, filter_reason = $2, match_score = $3 WHERE id = $4",
		status, reason, score, jobID)
	if err != nil {
		return fmt.Errorf("failed to update filter result: %w", err)
	}
	return nil
}

// LogFeedRun records one extraction cycle against one source.
func (r *Repository) LogFeedRun(ctx context.Context, source string, found, newJobs int) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO feed_log (feed_url, new_jobs, duplicates, fetched_at) VALUES ($1, $2, $3, $4)",
		source, newJobs, found-newJobs, time.Now())
	if err != nil {
		return fmt.Errorf("failed to log feed run: %w", err)
	}
	return nil
}

// ---------------- PROPOSAL OPERATIONS ----------------

// CreateProposal stores a generated draft in pending status.
func (r *Repository) CreateProposal(ctx context.Context, jobID, text string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		"INSERT INTO proposals (job_id, proposal_text, status) VALUES ($1, $2, 'pending') RETURNING id",
		jobID, text).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create proposal: %w", err)
	}
	return id, nil
}

// ApprovedUnsent returns approved proposals that have no sent timestamp,
// joined with their jobs, oldest approval first.
func (r *Repository) ApprovedUnsent(ctx context.Context, limit int) ([]models.ProposalJob, error) {
	query := `
		SELECT p.id, p.job_id, p.proposal_text, p.status, j.title, j.url, j.budget, j.description
		FROM proposals p
		JOIN jobs j ON p.job_id = j.id
		WHERE p.status = 'approved' AND p.sent_at IS NULL
		ORDER BY p.approved_at ASC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved proposals: %w", err)
	}
	defer rows.Close()

	var out []models.ProposalJob
	for rows.Next() {
		var p models.ProposalJob
		if err := rows.Scan(&p.ProposalID, &p.JobID, &p.ProposalText, &p.Status,
			&p.Title, &p.URL, &p.Budget, &p.Description); err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProposalJob fetches a single proposal joined with its job.
func (r *Repository) GetProposalJob(ctx context.Context, proposalID int64) (*models.ProposalJob, error) {
	query := `
		SELECT p.id, p.job_id, p.proposal_text, p.status, j.title, j.url, j.budget, j.description
		FROM proposals p
		JOIN jobs j ON p.job_id = j.id
		WHERE p.id = $1`

	var p models.ProposalJob
	err := r.db.QueryRow(ctx, query, proposalID).
		Scan(&p.ProposalID, &p.JobID, &p.ProposalText, &p.Status,
			&p.Title, &p.URL, &p.Budget, &p.Description)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return &p, nil
}

// ---------------- SUBMISSION LEDGER ----------------

// RecordOutcome stores a terminal attempt and moves the proposal to its
// final status. The partial unique index on submission_attempts rejects a
// second sent record for the same proposal.
func (r *Repository) RecordOutcome(ctx context.Context, att models.SubmissionAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO submission_attempts
			(proposal_id, stage, outcome, failure_reason, screenshot_paths, unconfirmed, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		att.ProposalID, att.Stage, att.Outcome, att.FailureReason,
		att.ScreenshotPaths, att.Unconfirmed, att.StartedAt, att.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}

	if att.Outcome == models.OutcomeSent {
		_, err = r.db.Exec(ctx,
			"UPDATE proposals SET status = 'sent', sent_at = $1 WHERE id = $2",
			att.EndedAt, att.ProposalID)
	} else {
		_, err = r.db.Exec(ctx,
			"UPDATE proposals SET status = 'send_failed', notes = $1 WHERE id = $2",
			att.FailureReason, att.ProposalID)
	}
	if err != nil {
		return fmt.Errorf("failed to update proposal status: %w", err)
	}
	return nil
}

// HasSucceeded reports whether a sent attempt already exists for the proposal.
func (r *Repository) HasSucceeded(ctx context.Context, proposalID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM submission_attempts WHERE proposal_id = $1 AND outcome = 'sent')",
		proposalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check sent attempts: %w", err)
	}
	return exists, nil
}

// ListPendingSendable filters the given ids down to those with no prior
// sent attempt.
func (r *Repository) ListPendingSendable(ctx context.Context, proposalIDs []int64) ([]int64, error) {
	if len(proposalIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id FROM unnest($1::bigint[]) AS id
		WHERE id NOT IN (SELECT proposal_id FROM submission_attempts WHERE outcome = 'sent')`,
		proposalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list sendable proposals: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
