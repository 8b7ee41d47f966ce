package ai

import (
	"strings"
	"testing"

	"go-upwork-automation/internal/models"
)

func TestBuildUserPrompt(t *testing.T) {
	job := models.JobRecord{
		Title:       "Golang scraper",
		Budget:      "$250",
		Description: "Scrape job listings nightly.",
	}

	prompt := buildUserPrompt(job)

	for _, want := range []string{"Golang scraper", "$250", "Scrape job listings nightly."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSystemPrompt_StatesLengthCap(t *testing.T) {
	if !strings.Contains(buildSystemPrompt(), "1000") {
		t.Error("system prompt should state the character cap")
	}
}
