package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"unipool/internal/modules/ride"
	"unipool/internal/types"
)

var ErrNotFound = errors.New("booking not found")

// Store persists bookings and runs the composite transactions that touch
// both the bookings and rides tables. Capacity changes and their cascades
// commit or roll back as one unit.
type Store struct {
	db    *pgxpool.Pool
	rides *ride.Store
}

func NewStore(db *pgxpool.Pool, rides *ride.Store) *Store {
	return &Store{db: db, rides: rides}
}

const bookingColumns = `
	id, ride_id, passenger_id, seats, fare_per_seat_sen,
	status, reject_reason, payment_status, created_at`

func (s *Store) Create(ctx context.Context, b *Booking) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, ride_id, passenger_id, seats, fare_per_seat_sen,
			status, reject_reason, payment_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(b.ID), string(b.RideID), string(b.PassengerID), b.Seats, b.FarePerSeat.Amount,
		string(b.Status), b.RejectReason, string(b.PaymentStatus), b.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, string(id))
	return scanBooking(row)
}

func (s *Store) ListByRide(ctx context.Context, rideID types.ID) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE ride_id = $1
		ORDER BY created_at`, string(rideID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// AcceptedPassengers satisfies ride.PassengerLister.
func (s *Store) AcceptedPassengers(ctx context.Context, rideID types.ID) ([]types.ID, error) {
	rows, err := s.db.Query(ctx, `
		SELECT passenger_id FROM bookings
		WHERE ride_id = $1 AND status = $2`, string(rideID), string(StatusAccepted),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ID
	for rows.Next() {
		var id types.ID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// UpdateStatus commits a booking transition conditionally on the status the
// caller read. No version column is needed: a booking's status is its
// version for CAS purposes.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, reason *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1, reject_reason = $2
		WHERE id = $3 AND status = $4`,
		string(to), reason, string(id), string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Victim is a booking swept up by a cascade, with the status it held before.
type Victim struct {
	BookingID   types.ID
	PassengerID types.ID
	Seats       int
	WasStatus   Status
}

// AcceptTx atomically takes b.Seats from the ride, marks the booking
// accepted and, when the ride fills, rejects every other pending booking.
// committed=false means the conditional seat update lost a race and the
// caller must retry from its read.
func (s *Store) AcceptTx(ctx context.Context, b *Booking, r *ride.Ride) (committed bool, victims []Victim, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, nil, err
	}
	defer tx.Rollback(ctx)

	ok, err := s.rides.DecrementSeatsTx(ctx, tx, r.ID, b.Seats, r.Version)
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET status = $1
		WHERE id = $2 AND status = $3`,
		string(StatusAccepted), string(b.ID), string(StatusPending),
	)
	if err != nil {
		return false, nil, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil, nil
	}

	if r.SeatsRemaining-b.Seats == 0 {
		victims, err = rejectPendingTx(ctx, tx, r.ID, b.ID)
		if err != nil {
			return false, nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, nil, err
	}
	return true, victims, nil
}

// CancelAcceptedTx atomically restores the booking's seats to the ride and
// marks the booking cancelled.
func (s *Store) CancelAcceptedTx(ctx context.Context, b *Booking, r *ride.Ride) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	ok, err := s.rides.RestoreSeatsTx(ctx, tx, r.ID, b.Seats, r.Version)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET status = $1
		WHERE id = $2 AND status = $3`,
		string(StatusCancelled), string(b.ID), string(StatusAccepted),
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	return true, tx.Commit(ctx)
}

// CancelRideTx marks the ride cancelled and cancels every non-terminal
// booking on it, returning the victims for notification and penalty checks.
func (s *Store) CancelRideTx(ctx context.Context, r *ride.Ride) (bool, []Victim, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, nil, err
	}
	defer tx.Rollback(ctx)

	ok, err := s.rides.SetStatusTx(ctx, tx, r.ID, ride.StatusCancelled, r.Version)
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}

	victims, err := lockNonTerminalTx(ctx, tx, r.ID)
	if err != nil {
		return false, nil, err
	}
	if len(victims) > 0 {
		_, err = tx.Exec(ctx, `
			UPDATE bookings SET status = $1
			WHERE ride_id = $2 AND status IN ($3, $4)`,
			string(StatusCancelled), string(r.ID), string(StatusPending), string(StatusAccepted),
		)
		if err != nil {
			return false, nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, nil, err
	}
	return true, victims, nil
}

// CompleteRideTx marks the ride completed and completes its accepted
// bookings.
func (s *Store) CompleteRideTx(ctx context.Context, r *ride.Ride) (bool, []Victim, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, nil, err
	}
	defer tx.Rollback(ctx)

	ok, err := s.rides.SetStatusTx(ctx, tx, r.ID, ride.StatusCompleted, r.Version)
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}

	completed, err := collectVictimsTx(ctx, tx, `
		UPDATE bookings SET status = $1
		WHERE ride_id = $2 AND status = $3
		RETURNING id, passenger_id, seats, $3::text`,
		string(StatusCompleted), string(r.ID), string(StatusAccepted),
	)
	if err != nil {
		return false, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, nil, err
	}
	return true, completed, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	var actorID *string
	if e.ActorID != nil {
		v := string(*e.ActorID)
		actorID = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO booking_events (booking_id, from_status, to_status, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.BookingID), string(e.FromStatus), string(e.ToStatus), e.ActorType, actorID, e.CreatedAt,
	)
	return err
}

func rejectPendingTx(ctx context.Context, tx pgx.Tx, rideID, exceptID types.ID) ([]Victim, error) {
	return collectVictimsTx(ctx, tx, `
		UPDATE bookings SET status = $1, reject_reason = $2
		WHERE ride_id = $3 AND status = $4 AND id <> $5
		RETURNING id, passenger_id, seats, $4::text`,
		string(StatusRejected), RejectReasonRideFull, string(rideID), string(StatusPending), string(exceptID),
	)
}

func lockNonTerminalTx(ctx context.Context, tx pgx.Tx, rideID types.ID) ([]Victim, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, passenger_id, seats, status FROM bookings
		WHERE ride_id = $1 AND status IN ($2, $3)
		FOR UPDATE`,
		string(rideID), string(StatusPending), string(StatusAccepted),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVictims(rows)
}

func collectVictimsTx(ctx context.Context, tx pgx.Tx, sql string, args ...any) ([]Victim, error) {
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVictims(rows)
}

func scanVictims(rows pgx.Rows) ([]Victim, error) {
	var out []Victim
	for rows.Next() {
		var v Victim
		if err := rows.Scan(&v.BookingID, &v.PassengerID, &v.Seats, &v.WasStatus); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var fareSen int64
	var created time.Time
	err := row.Scan(
		&b.ID, &b.RideID, &b.PassengerID, &b.Seats, &fareSen,
		&b.Status, &b.RejectReason, &b.PaymentStatus, &created,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.FarePerSeat = types.MYR(fareSen)
	b.CreatedAt = created
	return &b, nil
}
