package fare

import (
	"context"
	"errors"
	"math"
	"time"

	"unipool/internal/geo"
	"unipool/internal/types"
)

var ErrInvalidInput = errors.New("invalid fare input")

// RouteProvider supplies road distance between two points. Optional; quoting
// falls back to great-circle distance when nil or on provider failure.
type RouteProvider interface {
	RouteDistanceKm(ctx context.Context, origin, dest types.Point) (float64, error)
}

type Service struct {
	policy Policy
	routes RouteProvider
}

func NewService(policy Policy, routes RouteProvider) *Service {
	return &Service{policy: policy, routes: routes}
}

// Quote prices a trip of the given distance departing at departureUTC.
// The surcharge applies before the minimum-fare clamp; the result is rounded
// to whole sen.
func (s *Service) Quote(distanceKm float64, departureUTC time.Time) (types.Money, error) {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return types.Money{}, ErrInvalidInput
	}

	subtotal := float64(s.policy.BaseFareSen) + distanceKm*float64(s.policy.PerKmSen)

	local := departureUTC.UTC().Add(time.Duration(s.policy.LocalOffsetHours) * time.Hour)
	if isPeakHour(local.Hour()) {
		subtotal *= s.policy.PeakMultiplier
	}

	if subtotal < float64(s.policy.MinimumFareSen) {
		subtotal = float64(s.policy.MinimumFareSen)
	}

	return types.MYR(int64(math.Round(subtotal))), nil
}

// QuoteForRoute prices a trip between two points, preferring road distance
// from the route provider when one is configured.
func (s *Service) QuoteForRoute(ctx context.Context, origin, dest types.Point, departureUTC time.Time) (types.Money, error) {
	distance := geo.DistanceKm(origin, dest)
	if s.routes != nil {
		if km, err := s.routes.RouteDistanceKm(ctx, origin, dest); err == nil {
			distance = km
		}
	}
	return s.Quote(distance, departureUTC)
}
