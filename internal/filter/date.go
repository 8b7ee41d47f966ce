package filter

import (
	"regexp"
	"time"
)

const recencyWindow = 60 * 24 * time.Hour

var isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// IsRecent reports whether a best-effort postedAt timestamp falls inside
// the recency window. Unparseable or empty values pass: postedAt is never
// authoritative enough to reject on.
func IsRecent(postedAt string) bool {
	if postedAt == "" || !isoDateRegex.MatchString(postedAt) {
		return true
	}

	jobDate, err := time.Parse("2006-01-02", postedAt[:10])
	if err != nil {
		return true
	}

	diff := time.Since(jobDate)
	if diff > recencyWindow {
		return false
	}
	//future dates beyond timezone slack are malformed
	if diff < -2*24*time.Hour {
		return false
	}
	return true
}
