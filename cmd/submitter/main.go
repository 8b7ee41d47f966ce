package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/database"
	"go-upwork-automation/internal/submit"
)

func main() {
	limit := flag.Int("limit", 5, "max proposals to submit in one run")
	proposalID := flag.Int64("proposal", 0, "submit a single proposal by id")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	sender := submit.NewSender(cfg, repo)

	if *proposalID != 0 {
		log.Printf("🚀 Submitting proposal %d...", *proposalID)
		sent, err := sender.SubmitOne(ctx, *proposalID)
		if err != nil {
			log.Fatalf("❌ Submission failed: %v", err)
		}
		if sent {
			log.Printf("✅ Proposal %d submitted.", *proposalID)
		} else {
			log.Printf("⚠️ Proposal %d was not submitted.", *proposalID)
		}
		return
	}

	log.Printf("🚀 Submitting up to %d approved proposals...", *limit)
	sent, err := sender.SubmitApproved(ctx, *limit)
	if err != nil {
		log.Fatalf("❌ Submission run failed: %v", err)
	}
	log.Printf("🏁 Run finished: %d proposals submitted.", sent)
}
