package penalty

import (
	"context"
	"time"

	"unipool/internal/types"
)

// RecordLister is the read side of the penalty record store.
type RecordLister interface {
	ListForUser(ctx context.Context, userID types.ID) ([]Record, error)
}

// Guard answers whether a user is currently barred from gated actions.
type Guard struct {
	records RecordLister
}

func NewGuard(records RecordLister) *Guard {
	return &Guard{records: records}
}

// IsRestricted reports whether at least one penalty record for the user is
// still active at now. Pure query; never mutates.
func (g *Guard) IsRestricted(ctx context.Context, userID types.ID, now time.Time) (bool, error) {
	records, err := g.records.ListForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if r.Active(now) {
			return true, nil
		}
	}
	return false, nil
}
