// Package penalty tracks temporary restrictions barring users from gated actions.
package penalty

import (
	"time"

	"unipool/internal/types"
)

type Record struct {
	ID        types.ID
	UserID    types.ID
	Reason    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Active reports whether the record still restricts the user at the given
// instant. A record expires the moment now reaches ExpiresAt.
func (r Record) Active(now time.Time) bool {
	return r.ExpiresAt.After(now)
}
