package ride

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"unipool/internal/modules/profile"
	"unipool/internal/notify"
	"unipool/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad ride request")
	ErrRestricted   = errors.New("driver is restricted by an active penalty")
	ErrInvalidState = errors.New("invalid ride state transition")
	ErrNotInWindow  = errors.New("ride is outside its start window")
	ErrConflict     = errors.New("ride state conflict")
	ErrForbidden    = errors.New("actor does not own this ride")
)

// maxRetries bounds the optimistic-concurrency retry loop. Past it the
// caller gets ErrConflict and decides what to do.
const maxRetries = 3

// PenaltyChecker gates ride creation on active penalties.
type PenaltyChecker interface {
	IsRestricted(ctx context.Context, userID types.ID, now time.Time) (bool, error)
}

// Indexer maintains the geo index of open rides used by matching.
type Indexer interface {
	IndexRide(ctx context.Context, id types.ID, origin types.Point) error
	RemoveRide(ctx context.Context, id types.ID) error
}

// FareQuoter prices a route; used to default a ride's per-seat price.
type FareQuoter interface {
	QuoteForRoute(ctx context.Context, origin, dest types.Point, departureUTC time.Time) (types.Money, error)
}

// PassengerLister reports passengers holding accepted bookings on a ride.
type PassengerLister interface {
	AcceptedPassengers(ctx context.Context, rideID types.ID) ([]types.ID, error)
}

type Service struct {
	store    *Store
	guard    PenaltyChecker
	index    Indexer
	fares    FareQuoter
	bookings PassengerLister
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(store *Store, guard PenaltyChecker, index Indexer, fares FareQuoter, bookings PassengerLister, notifier notify.Notifier) *Service {
	return &Service{
		store:    store,
		guard:    guard,
		index:    index,
		fares:    fares,
		bookings: bookings,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateCommand struct {
	DriverID        types.ID
	Origin          types.Place
	Dest            types.Place
	ScheduledAt     time.Time
	SeatsTotal      int
	PricePerSeatSen int64
	DriverPref      profile.DriverPref
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	now := s.now()
	if cmd.DriverID == "" || cmd.SeatsTotal < 1 {
		return nil, ErrBadRequest
	}
	if !validCoord(cmd.Origin.Point) || !validCoord(cmd.Dest.Point) {
		return nil, ErrBadRequest
	}
	if !cmd.ScheduledAt.After(now) {
		return nil, ErrBadRequest
	}

	restricted, err := s.guard.IsRestricted(ctx, cmd.DriverID, now)
	if err != nil {
		return nil, err
	}
	if restricted {
		return nil, ErrRestricted
	}

	if cmd.DriverPref == "" {
		cmd.DriverPref = profile.DriverPrefNone
	}

	price := types.MYR(cmd.PricePerSeatSen)
	if cmd.PricePerSeatSen <= 0 {
		price, err = s.fares.QuoteForRoute(ctx, cmd.Origin.Point, cmd.Dest.Point, cmd.ScheduledAt)
		if err != nil {
			return nil, err
		}
	}

	r := &Ride{
		ID:             types.ID(uuid.NewString()),
		DriverID:       cmd.DriverID,
		Origin:         cmd.Origin,
		Dest:           cmd.Dest,
		ScheduledAt:    cmd.ScheduledAt.UTC(),
		SeatsTotal:     cmd.SeatsTotal,
		SeatsRemaining: cmd.SeatsTotal,
		PricePerSeat:   price,
		Status:         StatusScheduled,
		DriverPref:     cmd.DriverPref,
		Version:        0,
		CreatedAt:      now,
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	if err := s.index.IndexRide(ctx, r.ID, r.Origin.Point); err != nil {
		// The ride is committed; matching just won't surface it until the
		// index catches up.
		return r, nil
	}
	return r, nil
}

type StartCommand struct {
	RideID   types.ID
	DriverID types.ID
}

// Start moves a scheduled ride to active. The activation window gate runs on
// every attempt so a retry cannot sneak past it.
func (s *Service) Start(ctx context.Context, cmd StartCommand) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		r, err := s.store.Get(ctx, cmd.RideID)
		if err != nil {
			return err
		}
		if r.DriverID != cmd.DriverID {
			return ErrForbidden
		}
		if !CanTransition(r.Status, StatusActive) {
			return ErrInvalidState
		}
		if !CanStart(r.ScheduledAt, s.now()) {
			return ErrNotInWindow
		}

		ok, err := s.store.UpdateStatus(ctx, r.ID, r.Status, StatusActive, r.Version)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		passengers, err := s.bookings.AcceptedPassengers(ctx, r.ID)
		if err == nil {
			for _, p := range passengers {
				s.notifier.Notify(ctx, p, notify.RideStarted, map[string]any{"ride_id": r.ID})
			}
		}
		return nil
	}
	return ErrConflict
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	return s.store.Get(ctx, id)
}

func validCoord(p types.Point) bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
