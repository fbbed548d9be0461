// Package notify delivers best-effort events for committed domain transitions.
package notify

import (
	"context"

	"unipool/internal/types"
)

type EventKind string

const (
	BookingRequested EventKind = "booking_requested"
	BookingAccepted  EventKind = "booking_accepted"
	BookingRejected  EventKind = "booking_rejected"
	BookingCancelled EventKind = "booking_cancelled"
	RideFull         EventKind = "ride_full"
	RideStarted      EventKind = "ride_started"
	RideCancelled    EventKind = "ride_cancelled"
	RideCompleted    EventKind = "ride_completed"
)

// Notifier is fire-and-forget: delivery failures never roll back the domain
// transition that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userID types.ID, kind EventKind, payload map[string]any)
}
