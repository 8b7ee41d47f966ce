package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "http://localhost:9222", cfg.CDPEndpoint)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, float64(30000), cfg.NavTimeoutMs)
	assert.Equal(t, float64(250), cfg.DefaultBid)
	assert.Equal(t, DelayBounds{Min: 10, Max: 30}, cfg.SubmissionDelay)
	assert.Equal(t, BudgetFilters{FixedMin: 150, HourlyMin: 25, AllowNoBudget: true}, cfg.Budget)
	assert.Equal(t, 2, cfg.WhitelistMinScore)
	assert.Equal(t, 30, cfg.CycleIntervalMin)
	assert.Equal(t, "recency", cfg.SearchFilters["sort"])
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		MaxPages:   7,
		DefaultBid: 500,
		Budget:     BudgetFilters{FixedMin: 1000, HourlyMin: 75},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, 7, cfg.MaxPages)
	assert.Equal(t, float64(500), cfg.DefaultBid)
	assert.Equal(t, 1000, cfg.Budget.FixedMin)
}
