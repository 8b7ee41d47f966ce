package submit

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	fixedBudgetRe = regexp.MustCompile(`^\$\s*([\d,]+(?:\.\d+)?)$`)
	anyNumberRe   = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
)

// ParseBidFromBudget extracts a numeric bid from a budget string like
// "$250" or "$25-$50/hr". Fixed-price budgets yield their amount; hourly
// budgets yield ok=false so the profile rate applies.
func ParseBidFromBudget(budget string) (float64, bool) {
	budget = strings.TrimSpace(budget)
	if budget == "" {
		return 0, false
	}

	if m := fixedBudgetRe.FindStringSubmatch(budget); m != nil {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	if strings.Contains(strings.ToLower(budget), "/hr") {
		return 0, false
	}

	//fallback: first number in the string
	if m := anyNumberRe.FindString(budget); m != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	return 0, false
}

// IsHourlyBudget reports whether the budget string denotes hourly
// compensation, for which the bid stage is skipped entirely.
func IsHourlyBudget(budget string) bool {
	return strings.Contains(strings.ToLower(budget), "/hr")
}
