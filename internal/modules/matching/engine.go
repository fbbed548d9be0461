package matching

import (
	"context"
	"errors"
	"sort"

	"unipool/internal/geo"
	"unipool/internal/modules/profile"
	"unipool/internal/modules/ride"
	"unipool/internal/types"
)

var ErrBadRequest = errors.New("bad trip request")

// ProfileLookup reads a user's preference profile. Users with no saved
// profile come back unset, which the filters treat as fail-closed wherever a
// preference requires a known gender.
type ProfileLookup interface {
	Get(ctx context.Context, userID types.ID) (profile.Profile, error)
}

// FindMatches applies the hard filters and scores the survivors. It reads
// the supplied candidates only and never mutates shared state; a stale
// candidate list is acceptable because capacity is re-checked at booking and
// again authoritatively at acceptance.
func FindMatches(ctx context.Context, req TripRequest, candidates []ride.Ride, profiles ProfileLookup) ([]ScoredRide, error) {
	if req.SeatsNeeded < 1 {
		return nil, ErrBadRequest
	}

	passenger, err := profiles.Get(ctx, req.PassengerID)
	if err != nil {
		return nil, err
	}

	out := make([]ScoredRide, 0, len(candidates))
	for i := range candidates {
		r := &candidates[i]
		if !r.Open() {
			continue
		}
		if r.SeatsRemaining < req.SeatsNeeded {
			continue
		}
		if r.ScheduledAt.Before(req.DepartAfter) {
			continue
		}
		originKm := geo.DistanceKm(req.Origin, r.Origin.Point)
		if originKm > maxPickupKm {
			continue
		}
		destKm := geo.DistanceKm(req.Dest, r.Dest.Point)
		if destKm > maxPickupKm {
			continue
		}

		driver, err := profiles.Get(ctx, r.DriverID)
		if err != nil {
			return nil, err
		}
		if !genderCompatible(passenger, driver, r.DriverPref) {
			continue
		}

		score := 1.0/(1.0+originKm) + 1.0/(1.0+destKm)
		out = append(out, ScoredRide{
			Ride:     *r,
			Score:    score,
			Tier:     tierForScore(score),
			OriginKm: originKm,
			DestKm:   destKm,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Ride.ScheduledAt.Before(out[j].Ride.ScheduledAt)
	})
	return out, nil
}

// genderCompatible holds iff the passenger's preference permits the driver
// AND the ride's driver-side preference permits the passenger. An unset
// gender fails any preference that needs one; absence is never a wildcard.
func genderCompatible(passenger, driver profile.Profile, ridePref profile.DriverPref) bool {
	switch passenger.PassengerPref {
	case profile.PassengerPrefWomenOnly:
		if driver.Gender == nil || *driver.Gender != profile.GenderWoman {
			return false
		}
	case profile.PassengerPrefSameGender:
		if passenger.Gender == nil || driver.Gender == nil || *passenger.Gender != *driver.Gender {
			return false
		}
	}

	switch ridePref {
	case profile.DriverPrefWomenAndNonbinary:
		if passenger.Gender == nil {
			return false
		}
		if *passenger.Gender != profile.GenderWoman && *passenger.Gender != profile.GenderNonbinary {
			return false
		}
	}
	return true
}
