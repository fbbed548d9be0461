package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"unipool/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Get returns the stored profile, or an unset profile when the user has
// never saved one. Matching then fail-closes wherever a preference requires
// a known gender.
func (s *Store) Get(ctx context.Context, userID types.ID) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, gender, passenger_pref, driver_pref
		FROM profiles
		WHERE user_id = $1`, string(userID),
	)

	var p Profile
	var gender *string
	err := row.Scan(&p.UserID, &gender, &p.PassengerPref, &p.DriverPref)
	if errors.Is(err, pgx.ErrNoRows) {
		return Unset(userID), nil
	}
	if err != nil {
		return Profile{}, err
	}
	if gender != nil {
		g := Gender(*gender)
		p.Gender = &g
	}
	return p, nil
}

// Upsert saves a profile, replacing any previous one.
func (s *Store) Upsert(ctx context.Context, p Profile) error {
	var gender *string
	if p.Gender != nil {
		v := string(*p.Gender)
		gender = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (user_id, gender, passenger_pref, driver_pref)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET gender = EXCLUDED.gender,
		    passenger_pref = EXCLUDED.passenger_pref,
		    driver_pref = EXCLUDED.driver_pref`,
		string(p.UserID), gender, string(p.PassengerPref), string(p.DriverPref),
	)
	return err
}
