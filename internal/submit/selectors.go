package submit

import (
	"go-upwork-automation/internal/browser"
)

// Ordered fallback chains for the proposal form. The target site's markup is
// unstable and unversioned from our side: earlier entries are the selectors
// observed most often, later ones cover legacy and aria-only layouts.

var applyButton = browser.Group{
	Description: "apply button",
	Candidates: []string{
		`button[data-test="apply-button"]`,
		`a[href*="proposals/job"]`,
		`button:has-text("Apply Now")`,
		`button:has-text("Submit a Proposal")`,
		`a:has-text("Apply Now")`,
		`a:has-text("Submit a Proposal")`,
		`[aria-label="Apply Now"]`,
		`[aria-label="Submit a Proposal"]`,
	},
}

var coverLetterInput = browser.Group{
	Description: "cover letter textarea",
	Candidates: []string{
		`textarea[data-test="cover-letter"]`,
		`textarea.cover-letter`,
		`textarea[name="coverLetter"]`,
		`textarea[placeholder*="cover letter" i]`,
		`textarea[placeholder*="proposal" i]`,
		`textarea[aria-label*="cover letter" i]`,
		`textarea[aria-label*="proposal" i]`,
		`#cover-letter`,
		`.up-textarea >> textarea`,
	},
}

var bidInput = browser.Group{
	Description: "bid input",
	Candidates: []string{
		`input[data-test="bid-input"]`,
		`input[name="amount"]`,
		`input[data-test="charge-amount"]`,
		`input[aria-label*="bid" i]`,
		`input[aria-label*="amount" i]`,
		`input[aria-label*="rate" i]`,
		`input[placeholder*="amount" i]`,
		`input[placeholder*="bid" i]`,
	},
}

var submitButton = browser.Group{
	Description: "submit button",
	Candidates: []string{
		`button[data-test="submit-proposal"]`,
		`button[type="submit"]:has-text("Submit")`,
		`button:has-text("Submit Proposal")`,
		`button:has-text("Send Proposal")`,
		`button[type="submit"]`,
		`[aria-label="Submit Proposal"]`,
		`[aria-label="Send Proposal"]`,
	},
}
