package ride

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"unipool/internal/types"
)

var ErrNotFound = errors.New("ride not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const rideColumns = `
	id, driver_id,
	origin_lat, origin_lng, origin_name,
	dest_lat, dest_lng, dest_name,
	scheduled_at, seats_total, seats_remaining,
	price_per_seat_sen, status, driver_pref, version, created_at`

func (s *Store) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO rides (
			id, driver_id,
			origin_lat, origin_lng, origin_name,
			dest_lat, dest_lng, dest_name,
			scheduled_at, seats_total, seats_remaining,
			price_per_seat_sen, status, driver_pref, version, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16
		)`,
		string(r.ID), string(r.DriverID),
		r.Origin.Lat, r.Origin.Lng, r.Origin.Name,
		r.Dest.Lat, r.Dest.Lng, r.Dest.Name,
		r.ScheduledAt, r.SeatsTotal, r.SeatsRemaining,
		r.PricePerSeat.Amount, string(r.Status), string(r.DriverPref), r.Version, r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, string(id))
	return scanRide(row)
}

func (s *Store) ListByIDs(ctx context.Context, ids []types.ID) ([]Ride, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	rows, err := s.db.Query(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = ANY($1)`, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// UpdateStatus commits a status transition conditionally on the version the
// caller read. A false return means the ride changed underneath the caller,
// who must retry from the read step.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1, version = version + 1
		WHERE id = $2 AND status = $3 AND version = $4`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DecrementSeatsTx takes seats from a ride inside the caller's transaction.
// The update is guarded both by the version read before the transaction and
// by seats_remaining itself, so a stale read can never drive the count
// negative.
func (s *Store) DecrementSeatsTx(ctx context.Context, tx pgx.Tx, id types.ID, seats, version int) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET seats_remaining = seats_remaining - $1, version = version + 1
		WHERE id = $2 AND version = $3 AND seats_remaining >= $1`,
		seats, string(id), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// RestoreSeatsTx gives seats back on cancellation, capped by seats_total.
func (s *Store) RestoreSeatsTx(ctx context.Context, tx pgx.Tx, id types.ID, seats, version int) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET seats_remaining = seats_remaining + $1, version = version + 1
		WHERE id = $2 AND version = $3 AND seats_remaining + $1 <= seats_total`,
		seats, string(id), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetStatusTx transitions ride status inside the caller's transaction.
func (s *Store) SetStatusTx(ctx context.Context, tx pgx.Tx, id types.ID, to Status, version int) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE rides
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3`,
		string(to), string(id), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	var priceSen int64
	err := row.Scan(
		&r.ID, &r.DriverID,
		&r.Origin.Lat, &r.Origin.Lng, &r.Origin.Name,
		&r.Dest.Lat, &r.Dest.Lng, &r.Dest.Name,
		&r.ScheduledAt, &r.SeatsTotal, &r.SeatsRemaining,
		&priceSen, &r.Status, &r.DriverPref, &r.Version, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.PricePerSeat = types.MYR(priceSen)
	return &r, nil
}
