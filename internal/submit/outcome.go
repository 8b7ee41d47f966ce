package submit

import (
	"strings"
)

// successPhrases are the confirmation texts the site shows after a proposal
// goes through. There is no structured confirmation, only strings.
var successPhrases = []string{
	"proposal submitted",
	"proposal was submitted",
	"successfully submitted",
	"thank you for submitting",
	"your proposal",
}

const outcomeBodyPrefix = 2000

// SubmissionSucceeded is the swappable success predicate: it takes the
// post-submit page URL and a text snapshot so it can run against fixtures
// without a live browser. A post-submission redirect onto the proposals
// area counts even when no phrase matched.
func SubmissionSucceeded(pageURL, bodyText string) bool {
	pageURL = strings.ToLower(pageURL)
	if strings.Contains(pageURL, "proposals") && !strings.Contains(pageURL, "submit") {
		return true
	}

	if len(bodyText) > outcomeBodyPrefix {
		bodyText = bodyText[:outcomeBodyPrefix]
	}
	bodyText = strings.ToLower(bodyText)
	for _, phrase := range successPhrases {
		if strings.Contains(bodyText, phrase) {
			return true
		}
	}

	return false
}
