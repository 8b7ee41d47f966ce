package filter

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Verdict is the filter decision for one job.
type Verdict struct {
	Include bool
	Reason  string
	Score   int
}

// Engine scores and filters scraped jobs against the configured keyword
// and budget rules. It runs after persistence: verdicts are written back
// as job status, never used to drop records at extraction time.
type Engine struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// Evaluate applies blacklist, budget, recency and whitelist rules in
// order; the first rule that rejects wins and names itself in the reason.
func (e *Engine) Evaluate(job models.JobRecord) Verdict {
	text := normalizeText(job.Title + " " + job.Description)

	for _, kw := range e.cfg.KeywordBlacklist {
		if kw == "" {
			continue
		}
		if strings.Contains(text, normalizeText(kw)) {
			return Verdict{Reason: "blacklist:" + kw}
		}
	}

	if !budgetAcceptable(job.Budget, e.cfg.Budget) {
		return Verdict{Reason: "budget_too_low"}
	}

	if !IsRecent(job.PostedAt) {
		return Verdict{Reason: "stale"}
	}

	score := 0
	for _, kw := range e.cfg.KeywordWhitelist {
		if kw == "" {
			continue
		}
		if strings.Contains(text, normalizeText(kw)) {
			score++
		}
	}

	if score < e.cfg.WhitelistMinScore {
		return Verdict{Reason: "low_score", Score: score}
	}

	return Verdict{Include: true, Score: score}
}

var budgetNumberRe = regexp.MustCompile(`\d+`)

// budgetAcceptable checks the canonical budget string against the minimum
// thresholds. An empty budget follows the allow_no_budget policy.
func budgetAcceptable(budget string, f config.BudgetFilters) bool {
	if budget == "" {
		return f.AllowNoBudget
	}

	m := budgetNumberRe.FindString(strings.ReplaceAll(budget, ",", ""))
	if m == "" {
		return f.AllowNoBudget
	}
	amount, _ := strconv.Atoi(m)

	if strings.Contains(strings.ToLower(budget), "/hr") {
		return amount >= f.HourlyMin
	}
	return amount >= f.FixedMin
}
