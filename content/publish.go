package content

import "time"

// PublishWindow is how close to now a requested publish time must be to count
// as "publish immediately". Form inputs have minute granularity and client
// clocks drift, so a near-now request is treated as now.
const PublishWindow = time.Minute

// ReconcilePublishedAt decides the stored publish time for a requested one.
// nil stays nil (draft), anything in the past or within PublishWindow of now
// becomes now, and anything later is kept as a scheduled publish time.
func ReconcilePublishedAt(candidate *time.Time, now time.Time) *time.Time {
	if candidate == nil {
		return nil
	}
	diff := candidate.Sub(now)
	if !candidate.After(now) || (diff < PublishWindow && diff > -PublishWindow) {
		t := now
		return &t
	}
	t := *candidate
	return &t
}
