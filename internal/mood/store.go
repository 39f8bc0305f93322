package mood

import (
	"context"
	"time"
)

// Order is the sort order of a record query. Records sort by Timestamp,
// then CreatedAt, in the same direction.
type Order int

const (
	Unordered Order = iota
	Ascending
	Descending
)

// RecordQuery filters stored mood records.
type RecordQuery struct {
	UserID string    // empty matches every user
	Since  time.Time // zero means no lower bound on Timestamp
	Order  Order
	Limit  int // 0 means unlimited
}

// Store is the read side of the mood record store.
type Store interface {
	UserIDs(ctx context.Context) ([]string, error)
	Records(ctx context.Context, q RecordQuery) ([]Record, error)
}

// LoginStore is the read side of the dashboard login log.
type LoginStore interface {
	LoginsSince(ctx context.Context, since time.Time) ([]LoginEvent, error)
}
