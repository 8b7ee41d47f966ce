package submit

import (
	"context"
	"testing"

	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/models"

	"github.com/stretchr/testify/assert"
)

type fakeLedger struct {
	proposals map[int64]*models.ProposalJob
	succeeded map[int64]bool
	recorded  []models.SubmissionAttempt
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		proposals: make(map[int64]*models.ProposalJob),
		succeeded: make(map[int64]bool),
	}
}

func (f *fakeLedger) ApprovedUnsent(ctx context.Context, limit int) ([]models.ProposalJob, error) {
	out := make([]models.ProposalJob, 0)
	for _, p := range f.proposals {
		if p.Status == string(models.StatusApproved) && !f.succeeded[p.ProposalID] {
			out = append(out, *p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeLedger) GetProposalJob(ctx context.Context, proposalID int64) (*models.ProposalJob, error) {
	return f.proposals[proposalID], nil
}

func (f *fakeLedger) HasSucceeded(ctx context.Context, proposalID int64) (bool, error) {
	return f.succeeded[proposalID], nil
}

func (f *fakeLedger) ListPendingSendable(ctx context.Context, proposalIDs []int64) ([]int64, error) {
	out := make([]int64, 0, len(proposalIDs))
	for _, id := range proposalIDs {
		if !f.succeeded[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeLedger) RecordOutcome(ctx context.Context, att models.SubmissionAttempt) error {
	f.recorded = append(f.recorded, att)
	if att.Outcome == models.OutcomeSent {
		f.succeeded[att.ProposalID] = true
	}
	return nil
}

func TestSubmitOne_RejectsUnknownProposal(t *testing.T) {
	s := NewSender(&config.Config{}, newFakeLedger())

	sent, err := s.SubmitOne(context.Background(), 99)

	assert.False(t, sent)
	assert.ErrorContains(t, err, "not found")
}

func TestSubmitOne_RejectsUnapprovedProposal(t *testing.T) {
	ledger := newFakeLedger()
	ledger.proposals[1] = &models.ProposalJob{ProposalID: 1, Status: "pending"}
	s := NewSender(&config.Config{}, ledger)

	sent, err := s.SubmitOne(context.Background(), 1)

	assert.False(t, sent)
	assert.ErrorContains(t, err, "must be approved")
	assert.Empty(t, ledger.recorded, "no attempt should be recorded")
}

func TestSubmitOne_RejectsAlreadySent(t *testing.T) {
	ledger := newFakeLedger()
	ledger.proposals[1] = &models.ProposalJob{ProposalID: 1, Status: "approved"}
	ledger.succeeded[1] = true
	s := NewSender(&config.Config{}, ledger)

	sent, err := s.SubmitOne(context.Background(), 1)

	assert.False(t, sent)
	assert.ErrorContains(t, err, "already sent")
	assert.Empty(t, ledger.recorded, "the browser must never be driven for a sent proposal")
}

func TestSubmitApproved_NothingToDo(t *testing.T) {
	s := NewSender(&config.Config{}, newFakeLedger())

	submitted, err := s.SubmitApproved(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, 0, submitted)
}
