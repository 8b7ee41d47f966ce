package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeenCache_AddAndCheck(t *testing.T) {
	cache := NewSeenCache(t.TempDir())

	assert.False(t, cache.IsSeen("job-1"))

	cache.Add([]string{"job-1", "job-2", ""})

	assert.True(t, cache.IsSeen("job-1"))
	assert.True(t, cache.IsSeen("job-2"))
	assert.False(t, cache.IsSeen(""))
	assert.False(t, cache.IsSeen("job-3"))
}

func TestSeenCache_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	first := NewSeenCache(dir)
	first.Add([]string{"job-1"})

	second := NewSeenCache(dir)
	assert.True(t, second.IsSeen("job-1"))
}

func TestSeenCache_ExpiresOldEntries(t *testing.T) {
	dir := t.TempDir()

	//write a cache file by hand with one fresh and one expired entry
	entries := []seenEntry{
		{JobID: "fresh", Timestamp: time.Now().UnixMilli()},
		{JobID: "expired", Timestamp: time.Now().AddDate(0, 0, -31).UnixMilli()},
	}
	data, err := json.Marshal(entries)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), data, 0644))

	cache := NewSeenCache(dir)
	assert.True(t, cache.IsSeen("fresh"))
	assert.False(t, cache.IsSeen("expired"))
}

func TestSeenCache_CorruptFileIgnored(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), []byte("not json"), 0644))

	cache := NewSeenCache(dir)
	assert.False(t, cache.IsSeen("anything"))

	//still usable after a corrupt load
	cache.Add([]string{"job-1"})
	assert.True(t, cache.IsSeen("job-1"))
}
