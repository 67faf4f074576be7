package content

import "time"

// IsVisible reports whether an article published at publishedAt is public at
// now. skew lets slightly future timestamps through to absorb clock drift
// between the writer and the server.
func IsVisible(publishedAt *time.Time, now time.Time, skew time.Duration) bool {
	if publishedAt == nil {
		return false
	}
	return !publishedAt.After(now.Add(skew))
}

// VisibleCutoff is the latest publish time that is visible at now.
func VisibleCutoff(now time.Time, skew time.Duration) time.Time {
	return now.Add(skew)
}
