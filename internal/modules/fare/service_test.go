package fare

import (
	"testing"
	"time"
)

// localTime builds a UTC timestamp whose Malaysia-local (UTC+8) wall clock
// reads the given hour and minute.
func localTime(hour, minute int) time.Time {
	return time.Date(2026, 3, 9, hour, minute, 0, 0, time.UTC).Add(-8 * time.Hour)
}

func TestQuote(t *testing.T) {
	svc := NewService(DefaultPolicy(), nil)

	tests := []struct {
		name       string
		distanceKm float64
		departure  time.Time
		wantSen    int64
	}{
		{
			name:       "10km at morning peak: 3.00 + 12.00 = 15.00, x1.2 = 18.00",
			distanceKm: 10.0,
			departure:  localTime(8, 0),
			wantSen:    1800,
		},
		{
			name:       "1km off-peak clamps to minimum",
			distanceKm: 1.0,
			departure:  localTime(3, 0),
			wantSen:    500,
		},
		{
			name:       "zero distance clamps to minimum",
			distanceKm: 0.0,
			departure:  localTime(12, 0),
			wantSen:    500,
		},
		{
			name:       "evening peak applies",
			distanceKm: 10.0,
			departure:  localTime(17, 30),
			wantSen:    1800,
		},
		{
			name:       "peak boundary 07:00 is peak",
			distanceKm: 10.0,
			departure:  localTime(7, 0),
			wantSen:    1800,
		},
		{
			name:       "peak boundary 09:00 is off-peak",
			distanceKm: 10.0,
			departure:  localTime(9, 0),
			wantSen:    1500,
		},
		{
			name:       "19:00 is off-peak",
			distanceKm: 10.0,
			departure:  localTime(19, 0),
			wantSen:    1500,
		},
		{
			name:       "peak surcharge applies before the clamp",
			distanceKm: 1.0,
			departure:  localTime(8, 0),
			// 3.00 + 1.20 = 4.20, x1.2 = 5.04: above the floor only because
			// the surcharge ran first.
			wantSen: 504,
		},
		{
			name:       "fractional distance rounds to whole sen",
			distanceKm: 2.345,
			departure:  localTime(12, 0),
			// 300 + 2.345*120 = 581.4 -> 581
			wantSen: 581,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Quote(tt.distanceKm, tt.departure)
			if err != nil {
				t.Fatalf("Quote() error = %v", err)
			}
			if got.Amount != tt.wantSen {
				t.Errorf("Quote() = %d sen, want %d sen", got.Amount, tt.wantSen)
			}
			if got.Currency != "MYR" {
				t.Errorf("Quote() currency = %s, want MYR", got.Currency)
			}
		})
	}
}

func TestQuote_Deterministic(t *testing.T) {
	svc := NewService(DefaultPolicy(), nil)
	dep := localTime(8, 0)
	first, err := svc.Quote(12.7, dep)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := svc.Quote(12.7, dep)
		if err != nil {
			t.Fatalf("Quote() error = %v", err)
		}
		if got != first {
			t.Fatalf("Quote() not deterministic: %v vs %v", got, first)
		}
	}
}

func TestQuote_InvalidDistance(t *testing.T) {
	svc := NewService(DefaultPolicy(), nil)
	for _, d := range []float64{-0.001, -10} {
		if _, err := svc.Quote(d, localTime(12, 0)); err != ErrInvalidInput {
			t.Errorf("Quote(%f) error = %v, want ErrInvalidInput", d, err)
		}
	}
}
