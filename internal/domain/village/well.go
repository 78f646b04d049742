package village

import "time"

const DefaultWellWindow = 24 * time.Hour

func WellEligible(visitedAt *time.Time, now time.Time, window time.Duration) bool {
	if visitedAt == nil {
		return false
	}
	if window <= 0 {
		window = DefaultWellWindow
	}
	return now.Sub(*visitedAt) < window
}
