package browser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasChallenge(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		body     string
		expected bool
	}{
		{
			name:     "Cloudflare title",
			title:    "Just a moment...",
			expected: true,
		},
		{
			name:     "Human verification in body",
			title:    "Upwork",
			body:     "Please verify you are human before continuing.",
			expected: true,
		},
		{
			name:     "Browser check phrase",
			title:    "upwork.com",
			body:     "Checking your browser before accessing the site.",
			expected: true,
		},
		{
			name:     "Normal job page",
			title:    "Golang Developer - Upwork",
			body:     "We need a Go developer to build a scraper.",
			expected: false,
		},
		{
			name:     "Phrase beyond the inspected prefix",
			title:    "Upwork",
			body:     strings.Repeat("a", 600) + "verify you are human",
			expected: false,
		},
		{
			name:     "Case-insensitive match",
			title:    "JUST A MOMENT",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasChallenge(tt.title, tt.body); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAwaitClearance_NoChallenge(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	pw, b, page := setupPlaywright(t)
	defer pw.Stop()
	defer b.Close()

	err := page.SetContent(`<html><head><title>Golang Developer - Upwork</title></head><body>Job details</body></html>`)
	assert.NoError(t, err)

	assert.False(t, AwaitClearance(page, 5*time.Second))
}

func TestAwaitClearance_ClearsMidWait(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	pw, b, page := setupPlaywright(t)
	defer pw.Stop()
	defer b.Close()

	err := page.SetContent(`<html><head><title>Just a moment...</title></head><body>Checking your browser</body></html>`)
	assert.NoError(t, err)

	//interstitial hands over to the real page after 2s
	go func() {
		time.Sleep(2 * time.Second)
		page.Evaluate(`document.title = "Golang Developer - Upwork"`)
	}()

	cleared := AwaitClearance(page, 15*time.Second)
	assert.True(t, cleared)
}
