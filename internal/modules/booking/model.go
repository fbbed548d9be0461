// Package booking owns seat allocation: the only code that mutates ride
// capacity, and the state machine for passenger booking requests.
package booking

import (
	"time"

	"unipool/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// RejectReasonRideFull is the reason recorded by the auto-reject cascade.
const RejectReasonRideFull = "Ride is now full"

// Booking is a passenger's request for seats on one ride. FarePerSeat is
// fixed at request time and never recomputed. PaymentStatus is tracked here
// but owned by the payments subsystem.
type Booking struct {
	ID            types.ID
	RideID        types.ID
	PassengerID   types.ID
	Seats         int
	FarePerSeat   types.Money
	Status        Status
	RejectReason  *string
	PaymentStatus PaymentStatus
	CreatedAt     time.Time
}

// AllowedTransitions is a DAG; rejected, cancelled and completed are
// terminal and nothing ever leaves them.
var AllowedTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted: {StatusCancelled, StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the status has no outgoing transitions.
func Terminal(s Status) bool {
	return len(AllowedTransitions[s]) == 0
}

// Event records one committed booking transition for the audit trail.
type Event struct {
	ID         int64
	BookingID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}
