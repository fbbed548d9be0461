package ride

import (
	"testing"
	"time"
)

func TestCanStart_WindowBoundaries(t *testing.T) {
	scheduled := time.Date(2026, 4, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exactly 2h before", scheduled.Add(-2 * time.Hour), true},
		{"2h00m01s before", scheduled.Add(-2*time.Hour - time.Second), false},
		{"exactly at scheduled time", scheduled, true},
		{"exactly 1h after", scheduled.Add(time.Hour), true},
		{"1h00m01s after", scheduled.Add(time.Hour + time.Second), false},
		{"30m before", scheduled.Add(-30 * time.Minute), true},
		{"one day before", scheduled.Add(-24 * time.Hour), false},
		{"one day after", scheduled.Add(24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanStart(scheduled, tt.now); got != tt.want {
				t.Errorf("CanStart(%v, %v) = %v, want %v", scheduled, tt.now, got, tt.want)
			}
		})
	}
}
