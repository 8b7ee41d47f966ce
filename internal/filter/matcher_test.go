package filter

import (
	"testing"
	"time"

	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/models"
)

func testEngine() *Engine {
	return New(&config.Config{
		KeywordBlacklist:  []string{"wordpress", "crypto"},
		KeywordWhitelist:  []string{"golang", "scraping", "automation", "api"},
		WhitelistMinScore: 2,
		Budget:            config.BudgetFilters{FixedMin: 150, HourlyMin: 25, AllowNoBudget: true},
	})
}

func TestEvaluate(t *testing.T) {
	recent := time.Now().AddDate(0, 0, -3).Format("2006-01-02")

	tests := []struct {
		name    string
		job     models.JobRecord
		include bool
		reason  string
		score   int
	}{
		{
			name: "Good match",
			job: models.JobRecord{
				Title:       "Golang web scraping bot",
				Description: "Build an automation pipeline with an API.",
				Budget:      "$500",
				PostedAt:    recent,
			},
			include: true,
			score:   4,
		},
		{
			name: "Blacklisted keyword wins first",
			job: models.JobRecord{
				Title:       "WordPress golang scraping",
				Description: "automation",
				Budget:      "$500",
			},
			reason: "blacklist:wordpress",
		},
		{
			name: "Budget too low",
			job: models.JobRecord{
				Title:  "Golang scraping task",
				Budget: "$50",
			},
			reason: "budget_too_low",
		},
		{
			name: "Hourly below threshold",
			job: models.JobRecord{
				Title:  "Golang scraping task",
				Budget: "$10-$15/hr",
			},
			reason: "budget_too_low",
		},
		{
			name: "Stale posting",
			job: models.JobRecord{
				Title:    "Golang scraping task",
				Budget:   "$500",
				PostedAt: "2020-01-01",
			},
			reason: "stale",
		},
		{
			name: "Too few whitelist hits",
			job: models.JobRecord{
				Title:    "Golang developer",
				Budget:   "$500",
				PostedAt: recent,
			},
			reason: "low_score",
			score:  1,
		},
		{
			name: "No budget allowed through",
			job: models.JobRecord{
				Title:    "Golang scraping task",
				Budget:   "",
				PostedAt: recent,
			},
			include: true,
			score:   2,
		},
	}

	e := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := e.Evaluate(tt.job)
			if v.Include != tt.include {
				t.Errorf("Include: got %v, want %v (reason %q)", v.Include, tt.include, v.Reason)
			}
			if tt.reason != "" && v.Reason != tt.reason {
				t.Errorf("Reason: got %q, want %q", v.Reason, tt.reason)
			}
			if v.Score != tt.score {
				t.Errorf("Score: got %d, want %d", v.Score, tt.score)
			}
		})
	}
}

func TestEvaluate_CaseAndAccentInsensitive(t *testing.T) {
	e := testEngine()
	v := e.Evaluate(models.JobRecord{
		Title:       "GOLANG Scràping expert needed",
		Description: "API work",
		Budget:      "$500",
	})
	if !v.Include {
		t.Errorf("expected include, got reason %q", v.Reason)
	}
	if v.Score != 3 {
		t.Errorf("Score: got %d, want 3", v.Score)
	}
}

func TestBudgetAcceptable(t *testing.T) {
	f := config.BudgetFilters{FixedMin: 150, HourlyMin: 25, AllowNoBudget: false}

	tests := []struct {
		budget   string
		expected bool
	}{
		{"$250", true},
		{"$150", true},
		{"$149", false},
		{"$1,500", true},
		{"$25-$50/hr", true},
		{"$10-$20/hr", false},
		{"", false},
		{"negotiable", false},
	}

	for _, tt := range tests {
		t.Run(tt.budget, func(t *testing.T) {
			if got := budgetAcceptable(tt.budget, f); got != tt.expected {
				t.Errorf("budgetAcceptable(%q): got %v, want %v", tt.budget, got, tt.expected)
			}
		})
	}
}

func TestIsRecent(t *testing.T) {
	tests := []struct {
		name     string
		postedAt string
		expected bool
	}{
		{"Empty passes", "", true},
		{"Garbage passes", "3 days ago", true},
		{"Recent ISO date", time.Now().AddDate(0, 0, -5).Format("2006-01-02"), true},
		{"Old ISO date", "2020-06-15", false},
		{"Timestamp suffix tolerated", time.Now().AddDate(0, 0, -1).Format("2006-01-02") + "T09:00:00Z", true},
		{"Far future rejected", time.Now().AddDate(0, 0, 30).Format("2006-01-02"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecent(tt.postedAt); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}
