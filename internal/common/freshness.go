package common

import "time"

// Freshness windows for fetched market data. Within the window the facade
// serves its held snapshot instead of re-fetching; a forced refresh always
// goes upstream. Mirrors the dashboard's one-minute stale time for the coin
// table and global stats, with longer windows for slower-moving data.
const (
	FreshnessMarkets = 1 * time.Minute
	FreshnessGlobal  = 1 * time.Minute
	FreshnessNews    = 5 * time.Minute
	FreshnessChart   = 5 * time.Minute
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
