package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"go-upwork-automation/internal/ai"
	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/database"
	"go-upwork-automation/internal/dedup"
	"go-upwork-automation/internal/filter"
	"go-upwork-automation/internal/models"
	"go-upwork-automation/internal/scraper/upwork"
	"go-upwork-automation/internal/telegram"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	cache := dedup.NewSeenCache(cfg.CachePath)
	scraper := upwork.New(cfg, repo, cache)
	engine := filter.New(cfg)

	var aiClient ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.NewKimiClient(cfg.AIAPIKey)
	}

	var bot *telegram.Bot
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Failed to init Telegram bot: %v", err)
		}
	}

	//one cycle at a time: a cycle outliving the interval keeps exclusive
	//ownership of the browser session and the next tick is skipped
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(cron.FuncJob(func() {
		runCycle(ctx, cfg, repo, scraper, engine, aiClient, bot)
	}))

	c := cron.New(cron.WithLogger(cron.DefaultLogger))
	c.Schedule(cron.Every(time.Duration(cfg.CycleIntervalMin)*time.Minute), job)

	c.Start()
	log.Printf("⏰ Scheduler started. Cycle interval: %dm", cfg.CycleIntervalMin)

	// First cycle right away so the feed is populated without waiting for
	// the first tick. Same wrapped job, so a tick during it is skipped.
	go job.Run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("🛑 Shutting down scheduler...")
	c.Stop()
	cancel()
}

// runCycle executes one scrape → filter → draft cycle.
func runCycle(ctx context.Context, cfg *config.Config, repo *database.Repository, scraper *upwork.Scraper, engine *filter.Engine, aiClient ai.Client, bot *telegram.Bot) {
	log.Println("🚀 Cycle started")

	cycleCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	newJobs, err := scraper.ScrapeSearch(cycleCtx, cfg.Keywords)
	if err != nil {
		log.Printf("❌ Scrape failed: %v", err)
		if bot != nil {
			bot.SendError(err)
		}
		return
	}
	log.Printf("📦 Scraped %d new jobs", newJobs)

	jobs, err := repo.ListJobsByStatus(cycleCtx, "new", 200)
	if err != nil {
		log.Printf("⚠️ Failed to list new jobs: %v", err)
		return
	}

	for _, job := range jobs {
		v := engine.Evaluate(job)
		status := "filtered"
		if !v.Include {
			status = "filtered_out"
		}
		if err := repo.UpdateJobFilterResult(cycleCtx, job.ID, status, v.Reason, v.Score); err != nil {
			log.Printf("⚠️ Failed to update filter result for %s: %v", job.ID, err)
			continue
		}
		if !v.Include {
			continue
		}

		if aiClient != nil {
			draftProposal(cycleCtx, repo, aiClient, job)
		}
		if bot != nil {
			if err := bot.SendJob(job); err != nil {
				log.Printf("⚠️ Failed to send job to Telegram: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	}

	log.Println("🏁 Cycle complete")
}

func draftProposal(ctx context.Context, repo *database.Repository, aiClient ai.Client, job models.JobRecord) {
	text, err := aiClient.GenerateProposal(ctx, job)
	if err != nil {
		log.Printf("⚠️ Proposal generation failed for %s: %v", job.ID, err)
		return
	}
	id, err := repo.CreateProposal(ctx, job.ID, text)
	if err != nil {
		log.Printf("⚠️ Failed to save proposal for %s: %v", job.ID, err)
		return
	}
	log.Printf("✍️ Drafted proposal %d for job %s", id, job.ID)
}
