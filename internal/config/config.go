// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DelayBounds is a [min,max] range in seconds for randomized pacing.
type DelayBounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type BudgetFilters struct {
	FixedMin      int  `yaml:"fixed_min"`
	HourlyMin     int  `yaml:"hourly_min"`
	AllowNoBudget bool `yaml:"allow_no_budget"`
}

type Config struct {
	//Search
	Keywords      []string          `yaml:"keywords"`
	SearchFilters map[string]string `yaml:"search_filters"`
	MaxPages      int               `yaml:"max_pages"`

	//Pacing (seconds)
	PageDelay       DelayBounds `yaml:"page_delay"`
	KeywordDelay    DelayBounds `yaml:"keyword_delay"`
	SubmissionDelay DelayBounds `yaml:"submission_delay"`

	//Browser
	CDPEndpoint      string  `yaml:"cdp_endpoint" env:"CHROME_CDP_URL"`
	Headless         bool    `yaml:"headless"`
	NavTimeoutMs     float64 `yaml:"nav_timeout_ms"`
	StorageStatePath string  `yaml:"storage_state_path"`
	CookiesPath      string  `yaml:"cookies_path"`

	//Submission
	DefaultBid         float64 `yaml:"default_bid"`
	ScreenshotsEnabled bool    `yaml:"screenshots_enabled"`
	ScreenshotsDir     string  `yaml:"screenshots_dir"`

	//Filtering
	KeywordBlacklist  []string      `yaml:"keyword_blacklist"`
	KeywordWhitelist  []string      `yaml:"keyword_whitelist"`
	WhitelistMinScore int           `yaml:"whitelist_min_score"`
	Budget            BudgetFilters `yaml:"budget_filters"`

	//Collaborators
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	AIAPIKey       string `yaml:"ai_api_key" env:"NVIDIA_API_KEY"`

	//Scheduler
	CycleIntervalMin int `yaml:"cycle_interval_min"`

	//Paths
	CachePath string `yaml:"cache_path"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	if cdp := os.Getenv("CHROME_CDP_URL"); cdp != "" {
		cfg.CDPEndpoint = cdp
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.TelegramToken = token
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	if key := os.Getenv("NVIDIA_API_KEY"); key != "" {
		cfg.AIAPIKey = key
	}

	ApplyDefaults(cfg)

	//Validate required fields
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return cfg
}

// ApplyDefaults fills every unset field with the values the system assumes.
func ApplyDefaults(cfg *Config) {
	if cfg.CDPEndpoint == "" {
		cfg.CDPEndpoint = "http://localhost:9222"
	}

	if cfg.MaxPages == 0 {
		cfg.MaxPages = 3
	}

	if cfg.NavTimeoutMs == 0 {
		cfg.NavTimeoutMs = 30000
	}

	if cfg.PageDelay.Max == 0 {
		cfg.PageDelay = DelayBounds{Min: 2, Max: 5}
	}

	if cfg.KeywordDelay.Max == 0 {
		cfg.KeywordDelay = DelayBounds{Min: 5, Max: 10}
	}

	if cfg.SubmissionDelay.Max == 0 {
		cfg.SubmissionDelay = DelayBounds{Min: 10, Max: 30}
	}

	if cfg.DefaultBid == 0 {
		cfg.DefaultBid = 250
	}

	if cfg.ScreenshotsDir == "" {
		cfg.ScreenshotsDir = "screenshots"
	}

	if cfg.StorageStatePath == "" {
		cfg.StorageStatePath = ".browser_state/state.json"
	}

	if cfg.CookiesPath == "" {
		cfg.CookiesPath = ".cookies"
	}

	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}

	if cfg.WhitelistMinScore == 0 {
		cfg.WhitelistMinScore = 2
	}

	if cfg.Budget == (BudgetFilters{}) {
		cfg.Budget = BudgetFilters{FixedMin: 150, HourlyMin: 25, AllowNoBudget: true}
	}

	if cfg.CycleIntervalMin == 0 {
		cfg.CycleIntervalMin = 30
	}

	if cfg.SearchFilters == nil {
		cfg.SearchFilters = map[string]string{"sort": "recency"}
	}
}
