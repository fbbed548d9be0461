package penalty

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"unipool/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Record) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO penalty_records (id, user_id, reason, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		string(r.ID), string(r.UserID), r.Reason, r.ExpiresAt, r.CreatedAt,
	)
	return err
}

func (s *Store) ListForUser(ctx context.Context, userID types.ID) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, reason, expires_at, created_at
		FROM penalty_records
		WHERE user_id = $1`, string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserID, &r.Reason, &r.ExpiresAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteExpired garbage-collects records whose expiry has passed. Correctness
// never depends on this; expiry is always checked by timestamp comparison.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM penalty_records WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
