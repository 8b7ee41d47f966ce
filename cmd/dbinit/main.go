package main

import (
	"context"
	"log"
	"time"

	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/database"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.InitSchema(ctx); err != nil {
		log.Fatalf("❌ Schema init failed: %v", err)
	}
	log.Println("✅ Schema is up to date.")
}
