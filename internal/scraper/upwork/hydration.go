package upwork

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-upwork-automation/internal/models"

	"github.com/playwright-community/playwright-go"
)

const descriptionCap = 2000

// extractExpr reads the page's __NUXT__ hydration state and flattens each
// raw job object. In feed mode the state key depends on the app version, so
// a fixed priority list of known paths is probed first; the generic tree
// scan fallback happens Go-side (see ScanStateForJobs).
const extractExpr = `
((feedMode) => {
    let jobs = [];
    if (feedMode) {
        const paths = [
            window.__NUXT__?.state?.findWork?.results,
            window.__NUXT__?.state?.findWork?.jobs,
            window.__NUXT__?.state?.bestMatches?.results,
            window.__NUXT__?.state?.bestMatches?.jobs,
            window.__NUXT__?.state?.mostRecentJobs?.results,
            window.__NUXT__?.state?.mostRecentJobs?.jobs,
            window.__NUXT__?.state?.jobsSearch?.jobs,
        ];
        for (const p of paths) {
            if (p && p.length > 0) { jobs = p; break; }
        }
    } else {
        jobs = window.__NUXT__?.state?.jobsSearch?.jobs || [];
    }
    return jobs.map(j => ({
        id: j.ciphertext?.replace('~0', '') || j.uid || '',
        title: j.title || '',
        ciphertext: j.ciphertext || '',
        description: (j.description || '').slice(0, 2000),
        budget_amount: j.amount?.amount || 0,
        hourly_min: j.hourlyBudget?.min || 0,
        hourly_max: j.hourlyBudget?.max || 0,
        published_on: j.publishedOn || '',
        client_country: j.client?.location?.country || '',
        client_spent: String(j.client?.totalSpent ?? '0'),
        client_verified: j.client?.isPaymentVerified || false,
        proposals_tier: j.proposalsTier || '',
        tier_text: j.tierText || '',
        type: j.type || 0,
    }));
})`

const stateExpr = `(() => window.__NUXT__?.state || {})`

const pagingExpr = `
(() => {
    const p = window.__NUXT__?.state?.jobsSearch?.paging;
    return p ? { total: p.total, offset: p.offset, count: p.count } : null;
})`

// hydratedExpr is the wait predicate for search pages.
const hydratedExpr = `() => window.__NUXT__?.state?.jobsSearch?.jobs?.length > 0`

// feedHydratedExpr waits for any state subtree holding an array whose first
// element has a title, mirroring the scan fallback.
const feedHydratedExpr = `() => {
    const s = window.__NUXT__?.state || {};
    for (const k of Object.keys(s)) {
        const v = s[k];
        if (v && typeof v === 'object') {
            for (const sk of Object.keys(v)) {
                const arr = v[sk];
                if (Array.isArray(arr) && arr.length > 0 && arr[0]?.title) return true;
            }
        }
    }
    return false;
}`

// rawJob is the flattened shape the in-page extraction produces.
type rawJob struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Ciphertext     string  `json:"ciphertext"`
	Description    string  `json:"description"`
	BudgetAmount   float64 `json:"budget_amount"`
	HourlyMin      float64 `json:"hourly_min"`
	HourlyMax      float64 `json:"hourly_max"`
	PublishedOn    string  `json:"published_on"`
	ClientCountry  string  `json:"client_country"`
	ClientSpent    string  `json:"client_spent"`
	ClientVerified bool    `json:"client_verified"`
	ProposalsTier  string  `json:"proposals_tier"`
	TierText       string  `json:"tier_text"`
	Type           float64 `json:"type"`
}

// Paging is the best-effort read of the search result paging state.
type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ExtractJobs runs the read-only hydration query on the current page and
// normalizes the result. Records missing both id and title are dropped
// silently, which is normal for malformed entries. Order is preserved
// as received.
func ExtractJobs(page playwright.Page, feedMode bool) ([]models.JobRecord, error) {
	result, err := page.Evaluate(extractExpr, feedMode)
	if err != nil {
		return nil, fmt.Errorf("hydration read failed: %w", err)
	}

	raws, err := decodeRawJobs(result)
	if err != nil {
		return nil, err
	}

	//last resort for feed pages hydrating under an unknown key
	if feedMode && len(raws) == 0 {
		stateVal, err := page.Evaluate(stateExpr)
		if err != nil {
			return nil, fmt.Errorf("hydration state read failed: %w", err)
		}
		if state, ok := stateVal.(map[string]interface{}); ok {
			for _, entry := range ScanStateForJobs(state) {
				raws = append(raws, normalizeEntry(entry))
			}
		}
	}

	return mapJobs(raws), nil
}

// ExtractPaging reads the search paging state. Absence is not an error.
func ExtractPaging(page playwright.Page) (*Paging, error) {
	result, err := page.Evaluate(pagingExpr)
	if err != nil {
		return nil, fmt.Errorf("paging read failed: %w", err)
	}
	if result == nil {
		return nil, nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	var p Paging
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeRawJobs(v interface{}) ([]rawJob, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode hydration payload: %w", err)
	}
	var raws []rawJob
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("unexpected hydration payload shape: %w", err)
	}
	return raws, nil
}

// LooksLikeJobList is the scan's matching predicate: a non-empty array
// whose first element exposes a non-empty title-like field.
func LooksLikeJobList(v interface{}) bool {
	arr, ok := v.([]interface{})
	if !ok || len(arr) == 0 {
		return false
	}
	first, ok := arr[0].(map[string]interface{})
	if !ok {
		return false
	}
	title, _ := first["title"].(string)
	return title != ""
}

// ScanStateForJobs walks the state tree breadth-first, two levels deep as
// the framework nests them, and returns the first array of job-shaped
// objects it finds. Keys are visited in sorted order so the result is
// deterministic.
func ScanStateForJobs(state map[string]interface{}) []map[string]interface{} {
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		sub, ok := state[k].(map[string]interface{})
		if !ok {
			continue
		}

		subkeys := make([]string, 0, len(sub))
		for sk := range sub {
			subkeys = append(subkeys, sk)
		}
		sort.Strings(subkeys)

		for _, sk := range subkeys {
			if LooksLikeJobList(sub[sk]) {
				arr := sub[sk].([]interface{})
				entries := make([]map[string]interface{}, 0, len(arr))
				for _, item := range arr {
					if m, ok := item.(map[string]interface{}); ok {
						entries = append(entries, m)
					}
				}
				return entries
			}
		}
	}
	return nil
}

// normalizeEntry flattens a raw hydration object found by the tree scan
// into the same shape the in-page extraction produces.
func normalizeEntry(m map[string]interface{}) rawJob {
	ciphertext := stringField(m, "ciphertext")
	id := strings.Replace(ciphertext, "~0", "", 1)
	if id == "" {
		id = stringField(m, "uid")
	}

	spent := "0"
	client, _ := m["client"].(map[string]interface{})
	if client != nil {
		switch v := client["totalSpent"].(type) {
		case string:
			spent = v
		case float64:
			spent = formatAmount(v)
		}
	}

	r := rawJob{
		ID:            id,
		Title:         stringField(m, "title"),
		Ciphertext:    ciphertext,
		Description:   stringField(m, "description"),
		PublishedOn:   stringField(m, "publishedOn"),
		ProposalsTier: stringField(m, "proposalsTier"),
		TierText:      stringField(m, "tierText"),
		ClientSpent:   spent,
	}

	if len(r.Description) > descriptionCap {
		r.Description = r.Description[:descriptionCap]
	}

	if amount, ok := m["amount"].(map[string]interface{}); ok {
		r.BudgetAmount, _ = amount["amount"].(float64)
	}
	if hourly, ok := m["hourlyBudget"].(map[string]interface{}); ok {
		r.HourlyMin, _ = hourly["min"].(float64)
		r.HourlyMax, _ = hourly["max"].(float64)
	}
	if client != nil {
		if loc, ok := client["location"].(map[string]interface{}); ok {
			r.ClientCountry = stringField(loc, "country")
		}
		r.ClientVerified, _ = client["isPaymentVerified"].(bool)
	}
	r.Type, _ = m["type"].(float64)

	return r
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// mapJobs turns raw hydration objects into JobRecords, dropping any that
// lack an id or title.
func mapJobs(raws []rawJob) []models.JobRecord {
	jobs := make([]models.JobRecord, 0, len(raws))
	for _, r := range raws {
		if r.ID == "" || r.Title == "" {
			continue
		}

		jobType := "fixed"
		if r.Type == 1 {
			jobType = "hourly"
		}

		desc := r.Description
		if len(desc) > descriptionCap {
			desc = desc[:descriptionCap]
		}

		jobs = append(jobs, models.JobRecord{
			ID:              r.ID,
			Title:           r.Title,
			URL:             jobURL(r.Ciphertext),
			Description:     desc,
			Budget:          FormatBudget(r.BudgetAmount, r.HourlyMin, r.HourlyMax),
			PostedAt:        r.PublishedOn,
			ClientCountry:   r.ClientCountry,
			ClientSpent:     r.ClientSpent,
			ClientVerified:  r.ClientVerified,
			ProposalsTier:   r.ProposalsTier,
			ExperienceLevel: r.TierText,
			JobType:         jobType,
			FetchedAt:       time.Now(),
		})
	}
	return jobs
}

// FormatBudget renders the canonical budget string: fixed price "$250",
// hourly with a max bound "$25-$50/hr", otherwise empty.
func FormatBudget(amount, hourlyMin, hourlyMax float64) string {
	if amount > 0 {
		return "$" + formatAmount(amount)
	}
	if hourlyMax > 0 {
		return fmt.Sprintf("$%s-$%s/hr", formatAmount(hourlyMin), formatAmount(hourlyMax))
	}
	return ""
}

func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// jobURL builds the canonical listing address from the opaque cipher token.
func jobURL(ciphertext string) string {
	return "https://www.upwork.com/jobs/" + ciphertext
}
