package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/database"
	"go-upwork-automation/internal/dedup"
	"go-upwork-automation/internal/filter"
	"go-upwork-automation/internal/scraper/upwork"
	"go-upwork-automation/internal/telegram"
)

func main() {
	feedSource := flag.String("feed", "", "scrape a curated feed (best-matches, most-recent, saved-jobs) instead of keyword search")
	flag.Parse()

	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %v", cfg.Keywords)

	//setup context with timeout = 10 mins
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	//connect database
	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	cache := dedup.NewSeenCache(cfg.CachePath)
	scraper := upwork.New(cfg, repo, cache)

	log.Println("🚀 Starting Upwork scrape...")

	var newJobs int
	if *feedSource != "" {
		newJobs, err = scraper.ScrapeFeed(ctx, *feedSource)
	} else {
		newJobs, err = scraper.ScrapeSearch(ctx, cfg.Keywords)
	}
	if err != nil {
		log.Fatalf("❌ Scrape failed: %v", err)
	}
	log.Printf("📦 Scrape complete: %d new jobs", newJobs)

	//filter freshly inserted jobs
	filtered := runFilter(ctx, cfg, repo)
	log.Printf("🔍 Filter pass: %d jobs kept", filtered)

	//optional telegram summary
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifyNewJobs(ctx, cfg, repo)
	}

	log.Println("🏁 Execution finished.")
}

// runFilter evaluates every job still in 'new' status and writes the
// verdict back. Returns the number kept.
func runFilter(ctx context.Context, cfg *config.Config, repo *database.Repository) int {
	engine := filter.New(cfg)

	jobs, err := repo.ListJobsByStatus(ctx, "new", 200)
	if err != nil {
		log.Printf("⚠️ Failed to list new jobs: %v", err)
		return 0
	}

	kept := 0
	for _, job := range jobs {
		v := engine.Evaluate(job)
		status := "filtered"
		if !v.Include {
			status = "filtered_out"
		} else {
			kept++
		}
		if err := repo.UpdateJobFilterResult(ctx, job.ID, status, v.Reason, v.Score); err != nil {
			log.Printf("⚠️ Failed to update filter result for %s: %v", job.ID, err)
		}
	}
	return kept
}

func notifyNewJobs(ctx context.Context, cfg *config.Config, repo *database.Repository) {
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ Failed to init Telegram bot: %v", err)
		return
	}

	jobs, err := repo.ListJobsByStatus(ctx, "filtered", 20)
	if err != nil {
		log.Printf("⚠️ Failed to list filtered jobs: %v", err)
		return
	}

	for _, job := range jobs {
		if err := bot.SendJob(job); err != nil {
			log.Printf("⚠️ Failed to send job to Telegram: %v", err)
		}
		//1 second delay to avoid 429
		time.Sleep(1 * time.Second)
	}
}
