package submit

import (
	"context"
	"fmt"
	"log"

	"go-upwork-automation/internal/browser"
	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/models"
)

// Ledger is the durable record of submission attempts. It guarantees
// at-most-one successful terminal record per proposal id; callers must
// consult it before driving the browser at all.
type Ledger interface {
	ApprovedUnsent(ctx context.Context, limit int) ([]models.ProposalJob, error)
	GetProposalJob(ctx context.Context, proposalID int64) (*models.ProposalJob, error)
	HasSucceeded(ctx context.Context, proposalID int64) (bool, error)
	ListPendingSendable(ctx context.Context, proposalIDs []int64) ([]int64, error)
	RecordOutcome(ctx context.Context, att models.SubmissionAttempt) error
}

// Sender runs the submission loop: one browser session, strictly
// sequential attempts, randomized inter-item delay.
type Sender struct {
	cfg    *config.Config
	ledger Ledger
}

func NewSender(cfg *config.Config, ledger Ledger) *Sender {
	return &Sender{cfg: cfg, ledger: ledger}
}

// SubmitApproved submits up to limit approved, unsent proposals and
// returns the count that reached a sent outcome. A failed attempt is
// recorded and skipped, never retried here.
func (s *Sender) SubmitApproved(ctx context.Context, limit int) (int, error) {
	proposals, err := s.ledger.ApprovedUnsent(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(proposals) == 0 {
		log.Println("ℹ️ No approved proposals to submit")
		return 0, nil
	}

	ids := make([]int64, 0, len(proposals))
	for _, p := range proposals {
		ids = append(ids, p.ProposalID)
	}
	sendable, err := s.ledger.ListPendingSendable(ctx, ids)
	if err != nil {
		return 0, err
	}
	allowed := make(map[int64]bool, len(sendable))
	for _, id := range sendable {
		allowed[id] = true
	}

	log.Printf("📤 Found %d approved proposal(s) to submit", len(proposals))

	session, err := browser.Acquire(s.cfg, true)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	shots := browser.NewScreenshotter(s.cfg.ScreenshotsDir, s.cfg.ScreenshotsEnabled)
	machine := NewMachine(session.Page, s.cfg, shots)

	submitted := 0
	for i, p := range proposals {
		if ctx.Err() != nil {
			return submitted, ctx.Err()
		}
		if !allowed[p.ProposalID] {
			log.Printf("  ⏭️ Proposal %d already sent — skipping", p.ProposalID)
			continue
		}

		att := machine.Run(p)
		if err := s.ledger.RecordOutcome(ctx, att); err != nil {
			log.Printf("  ⚠️ Failed to record outcome for proposal %d: %v", p.ProposalID, err)
		}
		if att.Outcome == models.OutcomeSent {
			submitted++
		}

		//randomized gap between items to avoid burst-pattern detection
		if i < len(proposals)-1 {
			browser.RandomDelaySeconds(s.cfg.SubmissionDelay.Min, s.cfg.SubmissionDelay.Max)
		}
	}

	log.Printf("🏁 Submission complete: %d/%d submitted", submitted, len(proposals))
	return submitted, nil
}

// SubmitOne submits a single approved proposal by id. A proposal that
// already has a sent outcome is rejected before any browser interaction.
func (s *Sender) SubmitOne(ctx context.Context, proposalID int64) (bool, error) {
	p, err := s.ledger.GetProposalJob(ctx, proposalID)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, fmt.Errorf("proposal %d not found", proposalID)
	}
	if p.Status != string(models.StatusApproved) {
		return false, fmt.Errorf("proposal %d has status %q — must be approved", proposalID, p.Status)
	}

	sent, err := s.ledger.HasSucceeded(ctx, proposalID)
	if err != nil {
		return false, err
	}
	if sent {
		return false, fmt.Errorf("proposal %d already sent", proposalID)
	}

	session, err := browser.Acquire(s.cfg, true)
	if err != nil {
		return false, err
	}
	defer session.Close()

	shots := browser.NewScreenshotter(s.cfg.ScreenshotsDir, s.cfg.ScreenshotsEnabled)
	att := NewMachine(session.Page, s.cfg, shots).Run(*p)

	if err := s.ledger.RecordOutcome(ctx, att); err != nil {
		log.Printf("⚠️ Failed to record outcome for proposal %d: %v", proposalID, err)
	}
	return att.Outcome == models.OutcomeSent, nil
}
