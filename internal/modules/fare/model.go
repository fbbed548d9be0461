// Package fare computes deterministic trip prices from distance and departure time.
package fare

// Policy holds the tunable pricing constants. Amounts are in sen.
type Policy struct {
	BaseFareSen      int64
	PerKmSen         int64
	MinimumFareSen   int64
	PeakMultiplier   float64
	LocalOffsetHours int
}

// DefaultPolicy is the campus pricing in force: RM3.00 flagfall, RM1.20/km,
// RM5.00 floor, 20% peak surcharge, Malaysia time (UTC+8).
func DefaultPolicy() Policy {
	return Policy{
		BaseFareSen:      300,
		PerKmSen:         120,
		MinimumFareSen:   500,
		PeakMultiplier:   1.20,
		LocalOffsetHours: 8,
	}
}

// Peak windows are [7,9) and [17,19) in local hour-of-day.
func isPeakHour(hour int) bool {
	return (hour >= 7 && hour < 9) || (hour >= 17 && hour < 19)
}
