package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go-upwork-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

// Screenshotter writes audit screenshots, one file per captured stage,
// named with proposal id, stage label and timestamp.
type Screenshotter struct {
	outputDir string
	enabled   bool
}

func NewScreenshotter(outputDir string, enabled bool) *Screenshotter {
	if enabled {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			log.Printf("⚠️ Failed to create screenshots directory: %v", err)
		}
	}
	return &Screenshotter{outputDir: outputDir, enabled: enabled}
}

// Capture saves a screenshot for the audit trail and returns its path.
// Screenshot failure is never fatal: it returns "" and logs.
func (s *Screenshotter) Capture(page playwright.Page, proposalID int64, stage models.SubmissionStage) string {
	if !s.enabled {
		return ""
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("proposal_%d_%s_%s.png", proposalID, stage, timestamp)
	path := filepath.Join(s.outputDir, filename)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(false),
	})
	if err != nil {
		log.Printf("⚠️ Screenshot failed: %v", err)
		return ""
	}

	log.Printf("📸 Screenshot saved: %s", path)
	return path
}
