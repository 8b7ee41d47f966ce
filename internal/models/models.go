package models

import (
	"time"
)

type ProposalStatus string

const (
	StatusPending    ProposalStatus = "pending"
	StatusApproved   ProposalStatus = "approved"
	StatusSent       ProposalStatus = "sent"
	StatusSendFailed ProposalStatus = "send_failed"
	StatusRejected   ProposalStatus = "rejected"
)

// JobRecord is one scraped listing, produced by the hydration extractor.
// ID is the platform cipher token with its "~0" prefix stripped, never empty:
// records without a resolvable id and title are dropped at extraction time.
type JobRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	Description     string    `json:"description"`
	Budget          string    `json:"budget"`
	PostedAt        string    `json:"posted_at"`
	ClientCountry   string    `json:"client_country"`
	ClientSpent     string    `json:"client_spent"`
	ClientVerified  bool      `json:"client_verified"`
	ProposalsTier   string    `json:"proposals_tier"`
	ExperienceLevel string    `json:"experience_level"`
	JobType         string    `json:"job_type"` // "fixed" or "hourly"
	FeedSource      string    `json:"feed_source"`
	FetchedAt       time.Time `json:"fetched_at"`
}

type Proposal struct {
	ID           int64          `json:"id"`
	JobID        string         `json:"job_id"`
	ProposalText string         `json:"proposal_text"`
	Status       ProposalStatus `json:"status"`
	Notes        *string        `json:"notes,omitempty"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	SentAt       *time.Time     `json:"sent_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ProposalJob is the join of a proposal with its job, which is everything
// the submission state machine needs for one attempt.
type ProposalJob struct {
	ProposalID   int64  `json:"proposal_id"`
	JobID        string `json:"job_id"`
	ProposalText string `json:"proposal_text"`
	Status       string `json:"status"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Budget       string `json:"budget"`
	Description  string `json:"description"`
}

type SubmissionStage string

const (
	StageNavigating         SubmissionStage = "navigating"
	StageChallengeCheck     SubmissionStage = "challenge-check"
	StageLocatingApply      SubmissionStage = "locating-apply-control"
	StageFormLoading        SubmissionStage = "form-loading"
	StageFillingCoverLetter SubmissionStage = "filling-cover-letter"
	StageFillingBid         SubmissionStage = "filling-bid"
	StageCapturingPreSubmit SubmissionStage = "pre-submit"
	StageSubmitting         SubmissionStage = "submitting"
	StageVerifyingOutcome   SubmissionStage = "verifying-outcome"
)

type SubmissionOutcome string

const (
	OutcomeSent   SubmissionOutcome = "sent"
	OutcomeFailed SubmissionOutcome = "failed"
)

// SubmissionAttempt is one end-to-end run of the state machine against one
// proposal. It is mutated only by the machine and terminal once Outcome is set.
type SubmissionAttempt struct {
	ProposalID      int64             `json:"proposal_id"`
	Stage           SubmissionStage   `json:"stage"`
	Outcome         SubmissionOutcome `json:"outcome"`
	FailureReason   string            `json:"failure_reason,omitempty"`
	ScreenshotPaths []string          `json:"screenshot_paths,omitempty"`
	Unconfirmed     bool              `json:"unconfirmed"`
	StartedAt       time.Time         `json:"started_at"`
	EndedAt         time.Time         `json:"ended_at"`
}
