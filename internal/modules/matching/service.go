package matching

import (
	"context"
	"time"

	"unipool/internal/config"
	"unipool/internal/modules/ride"
	"unipool/internal/observability"
	"unipool/internal/types"
)

// RideLoader fetches full ride rows for the candidate IDs from the index.
type RideLoader interface {
	ListByIDs(ctx context.Context, ids []types.ID) ([]ride.Ride, error)
}

// Service ties the geo index to the pure matching core. Queries run with no
// coordination against concurrently mutating rides: a stale hit is weeded
// out later by the booking ledger's capacity checks.
type Service struct {
	store    *Store
	rides    RideLoader
	profiles ProfileLookup
	cfg      config.MatchingConfig
}

func NewService(store *Store, rides RideLoader, profiles ProfileLookup, cfg config.MatchingConfig) *Service {
	return &Service{store: store, rides: rides, profiles: profiles, cfg: cfg}
}

func (s *Service) FindMatches(ctx context.Context, req TripRequest) ([]ScoredRide, error) {
	started := time.Now()

	ids, err := s.store.NearbyRideIDs(ctx, req.Origin, s.cfg.RadiusKm)
	if err != nil {
		return nil, err
	}
	candidates, err := s.rides.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	matches, err := FindMatches(ctx, req, candidates, s.profiles)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxResults > 0 && len(matches) > s.cfg.MaxResults {
		matches = matches[:s.cfg.MaxResults]
	}

	observability.MatchLatency.Observe(time.Since(started).Seconds())
	observability.MatchesFound.Observe(float64(len(matches)))
	return matches, nil
}
