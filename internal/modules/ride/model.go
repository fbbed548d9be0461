// Package ride owns the trip offer aggregate and its lifecycle.
package ride

import (
	"time"

	"unipool/internal/geo"
	"unipool/internal/modules/profile"
	"unipool/internal/types"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusActive     Status = "active"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Ride is a driver's trip offer with finite seat capacity. Version is the
// optimistic-concurrency column: every mutation is conditional on it.
type Ride struct {
	ID             types.ID
	DriverID       types.ID
	Origin         types.Place
	Dest           types.Place
	ScheduledAt    time.Time
	SeatsTotal     int
	SeatsRemaining int
	PricePerSeat   types.Money
	Status         Status
	DriverPref     profile.DriverPref
	Version        int
	CreatedAt      time.Time
}

// AllowedTransitions encodes the ride lifecycle as a DAG; completed and
// cancelled are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusScheduled:  {StatusActive, StatusCancelled},
	StatusActive:     {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Open reports whether the ride still accepts booking requests.
func (r *Ride) Open() bool {
	return r.Status == StatusScheduled || r.Status == StatusActive
}

// RouteDistanceKm is the great-circle trip length used for fare quotes.
func (r *Ride) RouteDistanceKm() float64 {
	return geo.DistanceKm(r.Origin.Point, r.Dest.Point)
}
