package browser

import (
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Group is an ordered fallback chain of locators for one UI role. The
// candidates are data, not control flow: adding a selector for a new site
// layout means appending here, never touching the state machine.
type Group struct {
	Description string
	Candidates  []string
}

// ResolveFirst tries each candidate strictly in order, each with its own
// wait-until-visible bound, and returns the first locator that resolves.
// Nothing found returns (nil, nil); the caller decides whether that is
// fatal. Only transport-level faults (page gone) come back as errors.
func ResolveFirst(page playwright.Page, group Group, timeout time.Duration) (playwright.Locator, error) {
	for _, selector := range group.Candidates {
		loc := page.Locator(selector).First()
		err := loc.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(float64(timeout.Milliseconds())),
		})
		if err != nil {
			if page.IsClosed() {
				return nil, fmt.Errorf("page closed while resolving %s: %w", group.Description, err)
			}
			continue
		}
		log.Printf("    🎯 Found %s with selector: %s", group.Description, selector)
		return loc, nil
	}

	log.Printf("    ⚠️ Could not find %s with any selector", group.Description)
	return nil, nil
}
