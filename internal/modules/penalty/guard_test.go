package penalty

import (
	"context"
	"errors"
	"testing"
	"time"

	"unipool/internal/types"
)

type fakeLister struct {
	records []Record
	err     error
}

func (f *fakeLister) ListForUser(_ context.Context, userID types.ID) ([]Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Record
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestIsRestricted_ExpiryBoundary(t *testing.T) {
	expiry := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	guard := NewGuard(&fakeLister{records: []Record{
		{ID: "pen1", UserID: "d1", Reason: "deleted ride with passengers", ExpiresAt: expiry},
	}})

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one second before expiry", expiry.Add(-time.Second), true},
		{"exactly at expiry", expiry, false},
		{"one second after expiry", expiry.Add(time.Second), false},
		{"well before expiry", expiry.Add(-6 * 24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.IsRestricted(context.Background(), "d1", tt.now)
			if err != nil {
				t.Fatalf("IsRestricted() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsRestricted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRestricted_NoRecords(t *testing.T) {
	guard := NewGuard(&fakeLister{})
	got, err := guard.IsRestricted(context.Background(), "d1", time.Now())
	if err != nil {
		t.Fatalf("IsRestricted() error = %v", err)
	}
	if got {
		t.Error("IsRestricted() = true for user with no records")
	}
}

func TestIsRestricted_AnyActiveRecordRestricts(t *testing.T) {
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	guard := NewGuard(&fakeLister{records: []Record{
		{ID: "pen1", UserID: "d1", ExpiresAt: now.Add(-time.Hour)},
		{ID: "pen2", UserID: "d1", ExpiresAt: now.Add(time.Hour)},
	}})
	got, err := guard.IsRestricted(context.Background(), "d1", now)
	if err != nil {
		t.Fatalf("IsRestricted() error = %v", err)
	}
	if !got {
		t.Error("IsRestricted() = false with one active record remaining")
	}
}

func TestIsRestricted_StoreError(t *testing.T) {
	guard := NewGuard(&fakeLister{err: errors.New("db down")})
	if _, err := guard.IsRestricted(context.Background(), "d1", time.Now()); err == nil {
		t.Error("IsRestricted() swallowed store error")
	}
}
