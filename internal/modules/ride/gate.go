package ride

import "time"

const (
	startWindowBefore = 2 * time.Hour
	startWindowAfter  = time.Hour
)

// CanStart reports whether a scheduled ride may start at now: from two hours
// before the scheduled departure through one hour after it, both bounds
// inclusive. Pure predicate; the status transition itself is gated elsewhere.
func CanStart(scheduledAt, now time.Time) bool {
	until := scheduledAt.Sub(now)
	return until <= startWindowBefore && until >= -startWindowAfter
}
