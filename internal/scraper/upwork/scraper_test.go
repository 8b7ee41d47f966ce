package upwork

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-upwork-automation/internal/dedup"
	"go-upwork-automation/internal/models"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	saved    []models.JobRecord
	feedRuns []string
}

func (f *fakeStore) SaveJob(ctx context.Context, job models.JobRecord) (bool, error) {
	for _, existing := range f.saved {
		if existing.ID == job.ID {
			return false, nil
		}
	}
	f.saved = append(f.saved, job)
	return true, nil
}

func (f *fakeStore) LogFeedRun(ctx context.Context, source string, found, newJobs int) error {
	f.feedRuns = append(f.feedRuns, source)
	return nil
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name     string
		keyword  string
		page     int
		filters  map[string]string
		expected string
	}{
		{
			name:     "Plain keyword",
			keyword:  "golang",
			page:     1,
			expected: "https://www.upwork.com/nx/search/jobs/?page=1&q=golang",
		},
		{
			name:     "Keyword with spaces",
			keyword:  "web scraping",
			page:     2,
			expected: "https://www.upwork.com/nx/search/jobs/?page=2&q=web+scraping",
		},
		{
			name:    "With filters, empty values dropped",
			keyword: "golang",
			page:    1,
			filters: map[string]string{"sort": "recency", "contractor_tier": ""},
			expected: "https://www.upwork.com/nx/search/jobs/?page=1&q=golang&sort=recency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchURL(tt.keyword, tt.page, tt.filters)
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSearchURL_Deterministic(t *testing.T) {
	filters := map[string]string{"sort": "recency", "t": "0,1", "contractor_tier": "2"}
	first := SearchURL("golang", 1, filters)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, SearchURL("golang", 1, filters))
	}
}

func TestInsertJobs_DedupWithinRun(t *testing.T) {
	store := &fakeStore{}
	s := New(nil, store, nil)

	jobs := []models.JobRecord{
		{ID: "a", Title: "Job A"},
		{ID: "b", Title: "Job B"},
	}

	inserted := mapset.NewSet[string]()
	newCount := s.insertJobs(context.Background(), jobs, "search:golang", inserted)
	assert.Equal(t, 2, newCount)

	//same listings under a second keyword: the run-level set skips them
	newCount = s.insertJobs(context.Background(), jobs, "search:scraping", inserted)
	assert.Equal(t, 0, newCount)
	assert.Len(t, store.saved, 2)
}

func TestInsertJobs_SecondRunInsertsNothing(t *testing.T) {
	store := &fakeStore{}
	s := New(nil, store, nil)

	jobs := []models.JobRecord{
		{ID: "a", Title: "Job A"},
		{ID: "b", Title: "Job B"},
	}

	first := s.insertJobs(context.Background(), jobs, "search:golang", mapset.NewSet[string]())
	assert.Equal(t, 2, first)

	//fresh run-level set: only the store's insert-if-absent protects now
	second := s.insertJobs(context.Background(), jobs, "search:golang", mapset.NewSet[string]())
	assert.Equal(t, 0, second)
}

type failingStore struct {
	fakeStore
}

func (f *failingStore) SaveJob(ctx context.Context, job models.JobRecord) (bool, error) {
	return false, errors.New("transient db outage")
}

func TestInsertJobs_FailedInsertNotCached(t *testing.T) {
	cache := dedup.NewSeenCache(t.TempDir())
	jobs := []models.JobRecord{{ID: "job-1", Title: "Job One"}}

	//first run: every insert fails
	s := New(nil, &failingStore{}, cache)
	newCount := s.insertJobs(context.Background(), jobs, "search:golang", mapset.NewSet[string]())
	assert.Equal(t, 0, newCount)
	assert.False(t, cache.IsSeen("job-1"), "a job the store never accepted must not be marked seen")

	//next run against a healthy store: the job must still go through
	healthy := &fakeStore{}
	s = New(nil, healthy, cache)
	newCount = s.insertJobs(context.Background(), jobs, "search:golang", mapset.NewSet[string]())
	assert.Equal(t, 1, newCount)
	assert.True(t, cache.IsSeen("job-1"))
}

func TestInsertJobs_StoredJobsEnterCache(t *testing.T) {
	cache := dedup.NewSeenCache(t.TempDir())
	s := New(nil, &fakeStore{}, cache)

	jobs := []models.JobRecord{{ID: "job-1", Title: "Job One"}}
	s.insertJobs(context.Background(), jobs, "search:golang", mapset.NewSet[string]())

	assert.True(t, cache.IsSeen("job-1"))
}

func TestInsertJobs_SetsFeedSource(t *testing.T) {
	store := &fakeStore{}
	s := New(nil, store, nil)

	jobs := []models.JobRecord{{ID: "a", Title: "Job A"}}
	s.insertJobs(context.Background(), jobs, "feed:best-matches", mapset.NewSet[string]())

	assert.Equal(t, "feed:best-matches", store.saved[0].FeedSource)
}

func TestScrapeFeed_UnknownSource(t *testing.T) {
	s := New(nil, &fakeStore{}, nil)
	_, err := s.ScrapeFeed(context.Background(), "no-such-feed")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no-such-feed"))
}
