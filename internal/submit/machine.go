package submit

import (
	"fmt"
	"log"
	"time"

	"go-upwork-automation/internal/browser"
	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

const failureReasonCap = 500

// Machine sequences one submission attempt through its forward-only stages:
// navigation, apply-control activation, cover-letter entry, bid entry,
// audit screenshot, submission, outcome verification. Any terminal failure
// halts the attempt; there are no back-transitions and no automatic retry.
type Machine struct {
	page  playwright.Page
	cfg   *config.Config
	shots *browser.Screenshotter

	applyTimeout     time.Duration
	coverTimeout     time.Duration
	bidTimeout       time.Duration
	submitTimeout    time.Duration
	challengeTimeout time.Duration
	settleDelay      time.Duration
}

func NewMachine(page playwright.Page, cfg *config.Config, shots *browser.Screenshotter) *Machine {
	return &Machine{
		page:             page,
		cfg:              cfg,
		shots:            shots,
		applyTimeout:     10 * time.Second,
		coverTimeout:     15 * time.Second,
		bidTimeout:       5 * time.Second,
		submitTimeout:    10 * time.Second,
		challengeTimeout: 60 * time.Second,
		settleDelay:      3 * time.Second,
	}
}

// Run executes one attempt against one proposal and always returns a
// terminal SubmissionAttempt. Nothing raises past this boundary: every
// stage failure becomes a failed outcome with a bounded reason and a
// diagnostic screenshot captured first.
func (m *Machine) Run(p models.ProposalJob) models.SubmissionAttempt {
	att := models.SubmissionAttempt{
		ProposalID: p.ProposalID,
		StartedAt:  time.Now(),
	}

	log.Printf("[Proposal %d] Submitting for: %.60s", p.ProposalID, p.Title)

	//Navigating
	att.Stage = models.StageNavigating
	_, err := m.page.Goto(p.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(m.cfg.NavTimeoutMs),
	})
	if err != nil {
		return m.fail(&att, fmt.Sprintf("navigation error: %v", err))
	}
	m.snap(&att)

	//ChallengeCheck, best-effort, proceeds regardless of outcome
	att.Stage = models.StageChallengeCheck
	browser.AwaitClearance(m.page, m.challengeTimeout)
	m.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(15000),
	})
	m.snap(&att)

	//LocatingApplyControl
	att.Stage = models.StageLocatingApply
	applyBtn, err := browser.ResolveFirst(m.page, applyButton, m.applyTimeout)
	if err != nil {
		return m.fail(&att, fmt.Sprintf("transport error: %v", err))
	}
	if applyBtn == nil {
		return m.fail(&att, "apply control not found — job may be closed or already applied")
	}
	if err := applyBtn.Click(); err != nil {
		return m.fail(&att, fmt.Sprintf("apply click failed: %v", err))
	}
	log.Printf("[Proposal %d] Clicked apply control", p.ProposalID)
	m.snap(&att)

	//FormLoading: the SPA re-renders after the click
	att.Stage = models.StageFormLoading
	m.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(m.cfg.NavTimeoutMs),
	})
	browser.AwaitClearance(m.page, m.challengeTimeout)
	time.Sleep(m.settleDelay)
	m.snap(&att)

	//FillingCoverLetter
	att.Stage = models.StageFillingCoverLetter
	coverEl, err := browser.ResolveFirst(m.page, coverLetterInput, m.coverTimeout)
	if err != nil {
		return m.fail(&att, fmt.Sprintf("transport error: %v", err))
	}
	if coverEl == nil {
		return m.fail(&att, "cover letter input not found — unexpected form layout")
	}
	if err := m.typeInto(coverEl, p.ProposalText, 5); err != nil {
		return m.fail(&att, fmt.Sprintf("cover letter entry failed: %v", err))
	}
	log.Printf("[Proposal %d] Filled cover letter (%d chars)", p.ProposalID, len(p.ProposalText))
	m.snap(&att)

	//FillingBid: hourly jobs and pre-filled bids legitimately lack this control.
	//The stage is skipped outright for hourly compensation, screenshot included.
	att.Stage = models.StageFillingBid
	if IsHourlyBudget(p.Budget) {
		log.Printf("[Proposal %d] Hourly budget — skipping bid entry", p.ProposalID)
	} else {
		bid, ok := ParseBidFromBudget(p.Budget)
		if !ok {
			bid = m.cfg.DefaultBid
		}

		bidEl, err := browser.ResolveFirst(m.page, bidInput, m.bidTimeout)
		if err != nil {
			return m.fail(&att, fmt.Sprintf("transport error: %v", err))
		}
		if bidEl == nil {
			log.Printf("[Proposal %d] No bid input found — may be pre-filled", p.ProposalID)
		} else {
			if err := m.typeInto(bidEl, fmt.Sprintf("%d", int(bid)), 20); err != nil {
				return m.fail(&att, fmt.Sprintf("bid entry failed: %v", err))
			}
			log.Printf("[Proposal %d] Set bid amount: $%d", p.ProposalID, int(bid))
		}
		m.snap(&att)
	}

	//CapturingPreSubmit: audit trail, failure here is non-fatal
	att.Stage = models.StageCapturingPreSubmit
	m.snap(&att)

	//Submitting
	att.Stage = models.StageSubmitting
	browser.MouseJiggle(m.page)
	browser.SmoothScroll(m.page)
	time.Sleep(time.Second)

	submitEl, err := browser.ResolveFirst(m.page, submitButton, m.submitTimeout)
	if err != nil {
		return m.fail(&att, fmt.Sprintf("transport error: %v", err))
	}
	if submitEl == nil {
		return m.fail(&att, "submit control not found — form may require additional fields")
	}
	submitEl.ScrollIntoViewIfNeeded()
	if err := submitEl.Click(); err != nil {
		return m.fail(&att, fmt.Sprintf("submit click failed: %v", err))
	}
	log.Printf("[Proposal %d] Clicked submit", p.ProposalID)
	m.snap(&att)

	//VerifyingOutcome: the click is irreversible from here on
	att.Stage = models.StageVerifyingOutcome
	m.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(15000),
	})
	time.Sleep(2 * time.Second)
	m.snap(&att)

	bodyText, _ := m.page.Locator("body").TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(3000),
	})

	att.Outcome = models.OutcomeSent
	att.EndedAt = time.Now()
	if SubmissionSucceeded(m.page.URL(), bodyText) {
		log.Printf("[Proposal %d] ✅ Successfully submitted", p.ProposalID)
	} else {
		// No confirmation, but the click went through. A false "failed"
		// would risk a duplicate future submission.
		att.Unconfirmed = true
		log.Printf("[Proposal %d] ⚠️ Submit clicked but could not confirm success — marked sent, check screenshot", p.ProposalID)
	}
	return att
}

// snap records an audit screenshot tagged with the current stage. Capture
// failure is never fatal to the attempt.
func (m *Machine) snap(att *models.SubmissionAttempt) {
	if path := m.shots.Capture(m.page, att.ProposalID, att.Stage); path != "" {
		att.ScreenshotPaths = append(att.ScreenshotPaths, path)
	}
}

// fail captures a diagnostic screenshot, then terminates the attempt with a
// bounded failure reason.
func (m *Machine) fail(att *models.SubmissionAttempt, reason string) models.SubmissionAttempt {
	m.snap(att)

	if len(reason) > failureReasonCap {
		reason = reason[:failureReasonCap]
	}
	att.Outcome = models.OutcomeFailed
	att.FailureReason = reason
	att.EndedAt = time.Now()

	log.Printf("[Proposal %d] ❌ %s: %s", att.ProposalID, att.Stage, reason)
	return *att
}

// typeInto clears the control and enters text with inter-keystroke pacing.
func (m *Machine) typeInto(loc playwright.Locator, text string, delayMs float64) error {
	if err := loc.Click(); err != nil {
		return err
	}
	if err := loc.Fill(""); err != nil {
		return err
	}
	return loc.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(delayMs),
	})
}
