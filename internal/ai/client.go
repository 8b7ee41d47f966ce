package ai

import (
	"context"
	"fmt"

	"go-upwork-automation/internal/models"
)

// Client is the interface for AI providers
type Client interface {
	// GenerateProposal writes a cover letter for the given job listing.
	GenerateProposal(ctx context.Context, job models.JobRecord) (string, error)
}

const proposalMaxChars = 1000

// buildSystemPrompt creates the system instruction for the AI model
func buildSystemPrompt() string {
	return fmt.Sprintf(`You are a freelancer writing a winning Upwork proposal.

Rules:
1. Professional but personable tone. No filler, no generic openings like "I hope this message finds you well".
2. Open by addressing the client's actual problem from the job description.
3. Briefly show relevant capability, then propose a concrete first step.
4. Maximum %d characters. Plain text only — no markdown, no headings, no signature block.`, proposalMaxChars)
}

// buildUserPrompt creates the user message from the job listing
func buildUserPrompt(job models.JobRecord) string {
	return fmt.Sprintf("Job title: %s\nBudget: %s\nJob description:\n%s\n\nWrite the proposal.",
		job.Title, job.Budget, job.Description)
}
