package upwork

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"time"

	"go-upwork-automation/internal/browser"
	"go-upwork-automation/internal/config"
	"go-upwork-automation/internal/dedup"
	"go-upwork-automation/internal/models"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/playwright-community/playwright-go"
)

// FeedURLs maps curated feed names to their addresses.
var FeedURLs = map[string]string{
	"best-matches": "https://www.upwork.com/nx/find-work/best-matches",
	"most-recent":  "https://www.upwork.com/nx/find-work/most-recent",
	"saved-jobs":   "https://www.upwork.com/nx/find-work/saved-jobs",
}

// Store is the persistence collaborator: insert-if-absent by job id plus
// the feed-run log.
type Store interface {
	SaveJob(ctx context.Context, job models.JobRecord) (bool, error)
	LogFeedRun(ctx context.Context, source string, found, newJobs int) error
}

// Scraper drives one browser session through search or feed pages and hands
// surviving JobRecords to the store.
type Scraper struct {
	cfg   *config.Config
	store Store
	cache *dedup.SeenCache
}

func New(cfg *config.Config, store Store, cache *dedup.SeenCache) *Scraper {
	return &Scraper{cfg: cfg, store: store, cache: cache}
}

// SearchURL builds the search address for a keyword and page with the
// configured filter params. Encoding is deterministic (sorted keys).
func SearchURL(keyword string, page int, filters map[string]string) string {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("page", fmt.Sprintf("%d", page))
	for key, val := range filters {
		if val != "" {
			params.Set(key, val)
		}
	}
	return "https://www.upwork.com/nx/search/jobs/?" + params.Encode()
}

// ScrapeSearch scrapes up to MaxPages result pages per keyword and returns
// the count of newly inserted jobs. Re-running against an unchanged listing
// set inserts nothing: the store deduplicates by id.
func (s *Scraper) ScrapeSearch(ctx context.Context, keywords []string) (int, error) {
	session, err := browser.Acquire(s.cfg, true)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	totalNew := 0
	inserted := mapset.NewSet[string]()

	for i, keyword := range keywords {
		if ctx.Err() != nil {
			return totalNew, ctx.Err()
		}

		found := 0
		newCount := 0
		for pageNum := 1; pageNum <= s.cfg.MaxPages; pageNum++ {
			jobs := s.scrapeSearchPage(session, keyword, pageNum)
			if len(jobs) == 0 {
				log.Printf("  ℹ️ No jobs on page %d for '%s', stopping", pageNum, keyword)
				break
			}

			found += len(jobs)
			newCount += s.insertJobs(ctx, jobs, "search:"+keyword, inserted)

			if pageNum < s.cfg.MaxPages {
				browser.RandomDelaySeconds(s.cfg.PageDelay.Min, s.cfg.PageDelay.Max)
			}
		}

		if err := s.store.LogFeedRun(ctx, "search:"+keyword, found, newCount); err != nil {
			log.Printf("  ⚠️ Failed to log feed run: %v", err)
		}
		log.Printf("📊 [%s] %d found, %d new", keyword, found, newCount)
		totalNew += newCount

		if i < len(keywords)-1 {
			browser.RandomDelaySeconds(s.cfg.KeywordDelay.Min, s.cfg.KeywordDelay.Max)
		}
	}

	return totalNew, nil
}

// ScrapeFeed scrapes one curated feed page (best-matches, most-recent,
// saved-jobs) and returns the count of newly inserted jobs.
func (s *Scraper) ScrapeFeed(ctx context.Context, source string) (int, error) {
	feedURL, ok := FeedURLs[source]
	if !ok {
		return 0, fmt.Errorf("unknown feed source %q", source)
	}

	session, err := browser.Acquire(s.cfg, true)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	log.Printf("🔍 Scraping feed: %s", feedURL)
	if err := session.Navigate(feedURL, s.cfg.NavTimeoutMs); err != nil {
		return 0, err
	}

	if !s.waitForHydration(session.Page, feedHydratedExpr) {
		return 0, nil
	}

	jobs, err := ExtractJobs(session.Page, true)
	if err != nil {
		return 0, err
	}

	inserted := mapset.NewSet[string]()
	newCount := s.insertJobs(ctx, jobs, source, inserted)

	if err := s.store.LogFeedRun(ctx, "feed:"+source, len(jobs), newCount); err != nil {
		log.Printf("  ⚠️ Failed to log feed run: %v", err)
	}
	log.Printf("📊 [feed:%s] %d found, %d new", source, len(jobs), newCount)

	return newCount, nil
}

func (s *Scraper) scrapeSearchPage(session *browser.Session, keyword string, pageNum int) []models.JobRecord {
	searchURL := SearchURL(keyword, pageNum, s.cfg.SearchFilters)
	log.Printf("  🔍 Searching: %s (page %d)", keyword, pageNum)

	if err := session.Navigate(searchURL, s.cfg.NavTimeoutMs); err != nil {
		log.Printf("  ⚠️ Navigation failed: %v", err)
		return nil
	}

	if !s.waitForHydration(session.Page, hydratedExpr) {
		return nil
	}

	//human-like activity, also triggers lazy-loaded tiles
	browser.MouseJiggle(session.Page)
	browser.SmoothScroll(session.Page)

	jobs, err := ExtractJobs(session.Page, false)
	if err != nil {
		log.Printf("  ⚠️ Extraction failed: %v", err)
		return nil
	}

	if paging, err := ExtractPaging(session.Page); err == nil && paging != nil {
		log.Printf("  📄 Paging: %d total, offset %d, count %d", paging.Total, paging.Offset, paging.Count)
	}

	return jobs
}

// waitForHydration waits for the state read to become non-empty, sitting
// through an anti-automation interstitial if one appears.
func (s *Scraper) waitForHydration(page playwright.Page, expr string) bool {
	_, err := page.WaitForFunction(expr, nil, playwright.PageWaitForFunctionOptions{
		Timeout: playwright.Float(15000),
	})
	if err == nil {
		return true
	}

	if browser.AwaitClearance(page, 60*time.Second) {
		_, err = page.WaitForFunction(expr, nil, playwright.PageWaitForFunctionOptions{
			Timeout: playwright.Float(15000),
		})
		if err == nil {
			return true
		}
	}

	title, _ := page.Title()
	if browser.HasChallenge(title, "") {
		debugPath := filepath.Join(filepath.Dir(s.cfg.StorageStatePath), "debug_challenge.png")
		page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(debugPath)})
		log.Printf("  ❌ Challenge not resolved — screenshot: %s", debugPath)
	} else {
		log.Printf("  ⚠️ No jobs hydrated (title: %q)", title)
	}
	return false
}

func (s *Scraper) insertJobs(ctx context.Context, jobs []models.JobRecord, feedSource string, inserted mapset.Set[string]) int {
	newCount := 0
	//only ids the store actually accepted may enter the seen-cache: a job
	//whose insert failed must be retried on the next run, not skipped
	stored := make([]string, 0, len(jobs))
	for _, job := range jobs {
		//same job can surface under several keywords within one run
		if inserted.Contains(job.ID) {
			continue
		}
		if s.cache != nil && s.cache.IsSeen(job.ID) {
			continue
		}

		job.FeedSource = feedSource
		fresh, err := s.store.SaveJob(ctx, job)
		if err != nil {
			log.Printf("  ⚠️ Failed to insert job %s: %v", job.ID, err)
			continue
		}

		inserted.Add(job.ID)
		stored = append(stored, job.ID)
		if fresh {
			newCount++
			log.Printf("      ✅ %s (%s)", job.Title, job.Budget)
		}
	}

	if s.cache != nil {
		s.cache.Add(stored)
	}

	return newCount
}
