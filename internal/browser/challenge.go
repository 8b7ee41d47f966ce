package browser

import (
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// challengeIndicators are the phrases an anti-automation interstitial shows
// in its title or first screen of body text.
var challengeIndicators = []string{
	"just a moment",
	"verify you are human",
	"checking your browser",
}

const challengeBodyPrefix = 500

// HasChallenge reports whether the combined title + bounded body prefix
// matches any known interstitial phrase. Isolated so it can be tested
// against fixture strings without a page.
func HasChallenge(title, bodyText string) bool {
	if len(bodyText) > challengeBodyPrefix {
		bodyText = bodyText[:challengeBodyPrefix]
	}
	combined := strings.ToLower(title) + " " + strings.ToLower(bodyText)
	for _, indicator := range challengeIndicators {
		if strings.Contains(combined, indicator) {
			return true
		}
	}
	return false
}

// AwaitClearance detects an anti-automation interstitial on the current page
// and blocks until it clears or timeout elapses. Returns false immediately
// when no challenge is present. A challenge that never clears is the
// caller's soft failure: the next stage fails naturally instead.
func AwaitClearance(page playwright.Page, timeout time.Duration) bool {
	title, _ := page.Title()
	bodyText, _ := page.Locator("body").TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(2000),
	})

	if !HasChallenge(title, bodyText) {
		return false
	}

	log.Printf("🛡️ Challenge detected (title: %q) — waiting up to %s...", title, timeout)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(500 * time.Millisecond)
		title, _ = page.Title()
		if !HasChallenge(title, "") {
			break
		}
	}

	if HasChallenge(title, "") {
		log.Println("⚠️ Challenge did not clear before timeout — proceeding anyway")
		return false
	}

	//extra settle after the interstitial hands over to the real page
	page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(15000),
	})

	log.Println("✅ Challenge cleared")
	return true
}
