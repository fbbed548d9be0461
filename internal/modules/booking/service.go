package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"unipool/internal/modules/penalty"
	"unipool/internal/modules/ride"
	"unipool/internal/notify"
	"unipool/internal/observability"
	"unipool/internal/types"
)

var (
	ErrBadRequest       = errors.New("bad booking request")
	ErrRideNotOpen      = errors.New("ride is not accepting requests")
	ErrCapacityExceeded = errors.New("requested seats exceed remaining capacity")
	ErrInvalidState     = errors.New("invalid booking state transition")
	ErrConflict         = errors.New("booking state conflict")
	ErrForbidden        = errors.New("actor may not act on this booking")
)

// maxRetries bounds the optimistic retry loop; each retry re-reads before
// re-attempting the conditional commit.
const maxRetries = 3

// penaltyDuration is how long a penalized ride deletion restricts the driver.
const penaltyDuration = 7 * 24 * time.Hour

// FareQuoter prices a trip; fares are fixed at request time.
type FareQuoter interface {
	Quote(distanceKm float64, departureUTC time.Time) (types.Money, error)
}

// PenaltyRecorder files a penalty record for the penalized-deletion path.
type PenaltyRecorder interface {
	Create(ctx context.Context, r *penalty.Record) error
}

// Deindexer removes a ride from the matching geo index once it stops
// accepting requests.
type Deindexer interface {
	RemoveRide(ctx context.Context, id types.ID) error
}

// Service is the booking ledger: every command that moves seats or booking
// state goes through here.
type Service struct {
	store     *Store
	rides     *ride.Store
	fares     FareQuoter
	penalties PenaltyRecorder
	index     Deindexer
	notifier  notify.Notifier
	now       func() time.Time
}

func NewService(store *Store, rides *ride.Store, fares FareQuoter, penalties PenaltyRecorder, index Deindexer, notifier notify.Notifier) *Service {
	return &Service{
		store:     store,
		rides:     rides,
		fares:     fares,
		penalties: penalties,
		index:     index,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type RequestCommand struct {
	RideID      types.ID
	PassengerID types.ID
	Seats       int
}

// Request creates a pending booking. The capacity check here is advisory
// only: pending requests may race, and the authoritative check happens at
// acceptance. No seats are deducted yet.
func (s *Service) Request(ctx context.Context, cmd RequestCommand) (*Booking, error) {
	if cmd.PassengerID == "" || cmd.Seats < 1 {
		return nil, ErrBadRequest
	}

	r, err := s.rides.Get(ctx, cmd.RideID)
	if err != nil {
		return nil, err
	}
	if r.DriverID == cmd.PassengerID {
		return nil, ErrBadRequest
	}
	if !r.Open() {
		return nil, ErrRideNotOpen
	}
	if cmd.Seats > r.SeatsRemaining {
		return nil, ErrCapacityExceeded
	}

	fare, err := s.fares.Quote(r.RouteDistanceKm(), r.ScheduledAt)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:            types.ID(uuid.NewString()),
		RideID:        r.ID,
		PassengerID:   cmd.PassengerID,
		Seats:         cmd.Seats,
		FarePerSeat:   fare,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		CreatedAt:     s.now(),
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}

	observability.BookingsRequested.Inc()
	s.notifier.Notify(ctx, r.DriverID, notify.BookingRequested, map[string]any{
		"booking_id": b.ID, "ride_id": r.ID, "seats": b.Seats,
	})
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID: b.ID, FromStatus: "", ToStatus: StatusPending,
		ActorType: "passenger", ActorID: &cmd.PassengerID, CreatedAt: s.now(),
	})
	return b, nil
}

type AcceptCommand struct {
	BookingID types.ID
	DriverID  types.ID
}

// Accept commits the authoritative capacity check. The seat decrement, the
// booking transition and the auto-reject cascade are one transaction: no
// observer sees seats taken without the cascade, and two racing accepts can
// never both commit against the same seats.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		b, err := s.store.Get(ctx, cmd.BookingID)
		if err != nil {
			return err
		}
		if b.Status != StatusPending {
			return ErrInvalidState
		}

		r, err := s.rides.Get(ctx, b.RideID)
		if err != nil {
			return err
		}
		if r.DriverID != cmd.DriverID {
			return ErrForbidden
		}
		if !r.Open() {
			return ErrInvalidState
		}
		if b.Seats > r.SeatsRemaining {
			return ErrCapacityExceeded
		}

		committed, victims, err := s.store.AcceptTx(ctx, b, r)
		if err != nil {
			return err
		}
		if !committed {
			observability.CapacityConflicts.Inc()
			continue
		}

		observability.BookingsAccepted.Inc()
		s.notifier.Notify(ctx, b.PassengerID, notify.BookingAccepted, map[string]any{
			"booking_id": b.ID, "ride_id": r.ID, "fare_per_seat": b.FarePerSeat,
		})
		_ = s.store.AppendEvent(ctx, &Event{
			BookingID: b.ID, FromStatus: StatusPending, ToStatus: StatusAccepted,
			ActorType: "driver", ActorID: &cmd.DriverID, CreatedAt: s.now(),
		})

		if r.SeatsRemaining-b.Seats == 0 {
			observability.CascadeRejects.Observe(float64(len(victims)))
			s.notifier.Notify(ctx, r.DriverID, notify.RideFull, map[string]any{"ride_id": r.ID})
			for _, v := range victims {
				observability.BookingsRejected.Inc()
				s.notifier.Notify(ctx, v.PassengerID, notify.BookingRejected, map[string]any{
					"booking_id": v.BookingID, "ride_id": r.ID, "reason": RejectReasonRideFull,
				})
				_ = s.store.AppendEvent(ctx, &Event{
					BookingID: v.BookingID, FromStatus: StatusPending, ToStatus: StatusRejected,
					ActorType: "system", CreatedAt: s.now(),
				})
			}
		}
		return nil
	}
	return ErrConflict
}

type RejectCommand struct {
	BookingID types.ID
	DriverID  types.ID
	Reason    string
}

// Reject declines a pending booking. No capacity moves: none was deducted
// for a pending booking.
func (s *Service) Reject(ctx context.Context, cmd RejectCommand) error {
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return err
	}
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	r, err := s.rides.Get(ctx, b.RideID)
	if err != nil {
		return err
	}
	if r.DriverID != cmd.DriverID {
		return ErrForbidden
	}

	reason := cmd.Reason
	ok, err := s.store.UpdateStatus(ctx, b.ID, StatusPending, StatusRejected, &reason)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}

	observability.BookingsRejected.Inc()
	s.notifier.Notify(ctx, b.PassengerID, notify.BookingRejected, map[string]any{
		"booking_id": b.ID, "ride_id": b.RideID, "reason": reason,
	})
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID: b.ID, FromStatus: StatusPending, ToStatus: StatusRejected,
		ActorType: "driver", ActorID: &cmd.DriverID, CreatedAt: s.now(),
	})
	return nil
}

type CancelCommand struct {
	BookingID   types.ID
	PassengerID types.ID
}

// Cancel withdraws a booking. A pending booking just flips status; an
// accepted one must restore its seats to the ride in the same transaction.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		b, err := s.store.Get(ctx, cmd.BookingID)
		if err != nil {
			return err
		}
		if b.PassengerID != cmd.PassengerID {
			return ErrForbidden
		}

		switch b.Status {
		case StatusPending:
			ok, err := s.store.UpdateStatus(ctx, b.ID, StatusPending, StatusCancelled, nil)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		case StatusAccepted:
			r, err := s.rides.Get(ctx, b.RideID)
			if err != nil {
				return err
			}
			ok, err := s.store.CancelAcceptedTx(ctx, b, r)
			if err != nil {
				return err
			}
			if !ok {
				observability.CapacityConflicts.Inc()
				continue
			}
		default:
			return ErrInvalidState
		}

		observability.BookingsCancelled.Inc()
		r, err := s.rides.Get(ctx, b.RideID)
		if err == nil {
			s.notifier.Notify(ctx, r.DriverID, notify.BookingCancelled, map[string]any{
				"booking_id": b.ID, "ride_id": b.RideID, "seats": b.Seats,
			})
		}
		_ = s.store.AppendEvent(ctx, &Event{
			BookingID: b.ID, FromStatus: b.Status, ToStatus: StatusCancelled,
			ActorType: "passenger", ActorID: &cmd.PassengerID, CreatedAt: s.now(),
		})
		return nil
	}
	return ErrConflict
}

type DeleteRideCommand struct {
	RideID   types.ID
	DriverID types.ID
}

// DeleteRide cancels a ride and cascades cancellation to every non-terminal
// booking on it. Deleting a ride that already has accepted passengers is
// penalized: the driver picks up a penalty record barring new rides until it
// expires.
func (s *Service) DeleteRide(ctx context.Context, cmd DeleteRideCommand) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		r, err := s.rides.Get(ctx, cmd.RideID)
		if err != nil {
			return err
		}
		if r.DriverID != cmd.DriverID {
			return ErrForbidden
		}
		if !ride.CanTransition(r.Status, ride.StatusCancelled) {
			return ErrInvalidState
		}

		committed, victims, err := s.store.CancelRideTx(ctx, r)
		if err != nil {
			return err
		}
		if !committed {
			continue
		}

		hadAccepted := false
		for _, v := range victims {
			if v.WasStatus == StatusAccepted {
				hadAccepted = true
				break
			}
		}
		if hadAccepted {
			_ = s.penalties.Create(ctx, &penalty.Record{
				ID:        types.ID(uuid.NewString()),
				UserID:    r.DriverID,
				Reason:    "deleted ride with accepted passengers",
				ExpiresAt: s.now().Add(penaltyDuration),
				CreatedAt: s.now(),
			})
		}

		_ = s.index.RemoveRide(ctx, r.ID)
		for _, v := range victims {
			observability.BookingsCancelled.Inc()
			s.notifier.Notify(ctx, v.PassengerID, notify.RideCancelled, map[string]any{
				"booking_id": v.BookingID, "ride_id": r.ID,
			})
			_ = s.store.AppendEvent(ctx, &Event{
				BookingID: v.BookingID, FromStatus: v.WasStatus, ToStatus: StatusCancelled,
				ActorType: "system", CreatedAt: s.now(),
			})
		}
		return nil
	}
	return ErrConflict
}

type CompleteRideCommand struct {
	RideID   types.ID
	DriverID types.ID
}

// CompleteRide finishes a ride and completes its accepted bookings.
func (s *Service) CompleteRide(ctx context.Context, cmd CompleteRideCommand) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		r, err := s.rides.Get(ctx, cmd.RideID)
		if err != nil {
			return err
		}
		if r.DriverID != cmd.DriverID {
			return ErrForbidden
		}
		if !ride.CanTransition(r.Status, ride.StatusCompleted) {
			return ErrInvalidState
		}

		committed, done, err := s.store.CompleteRideTx(ctx, r)
		if err != nil {
			return err
		}
		if !committed {
			continue
		}

		_ = s.index.RemoveRide(ctx, r.ID)
		for _, v := range done {
			s.notifier.Notify(ctx, v.PassengerID, notify.RideCompleted, map[string]any{
				"booking_id": v.BookingID, "ride_id": r.ID,
			})
			_ = s.store.AppendEvent(ctx, &Event{
				BookingID: v.BookingID, FromStatus: StatusAccepted, ToStatus: StatusCompleted,
				ActorType: "system", CreatedAt: s.now(),
			})
		}
		return nil
	}
	return ErrConflict
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListForRide(ctx context.Context, rideID types.ID) ([]Booking, error) {
	return s.store.ListByRide(ctx, rideID)
}
