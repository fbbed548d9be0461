// Package matching ranks open rides against a passenger's desired trip.
package matching

import (
	"time"

	"unipool/internal/modules/ride"
	"unipool/internal/types"
)

// TripRequest is what the passenger wants: where from, where to, how many
// seats, and the earliest acceptable departure.
type TripRequest struct {
	PassengerID types.ID
	Origin      types.Point
	Dest        types.Point
	SeatsNeeded int
	DepartAfter time.Time
}

type Tier string

const (
	TierBest  Tier = "Best"
	TierGreat Tier = "Great"
	TierGood  Tier = "Good"
	TierFair  Tier = "Fair"
)

// ScoredRide is one eligible candidate with its composite proximity score.
type ScoredRide struct {
	Ride     ride.Ride
	Score    float64
	Tier     Tier
	OriginKm float64
	DestKm   float64
}

const (
	// maxPickupKm bounds both origin-to-origin and dest-to-dest distance
	// for a ride to qualify at all.
	maxPickupKm = 2.0

	// Tier banding over the composite score. Tunable policy: any monotonic
	// banding works, closer rides always land in at least as good a tier.
	tierBestMin  = 1.6
	tierGreatMin = 1.2
	tierGoodMin  = 0.8
)

func tierForScore(score float64) Tier {
	switch {
	case score >= tierBestMin:
		return TierBest
	case score >= tierGreatMin:
		return TierGreat
	case score >= tierGoodMin:
		return TierGood
	default:
		return TierFair
	}
}
