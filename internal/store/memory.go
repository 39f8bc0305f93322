// Package store provides the mood record and login stores: an in-memory
// store, a Postgres store over pgxpool and a Mongo store over the
// collections written by the mobile app.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/albapepper/mindsaathi/internal/mood"
)

// Memory is an append-only in-process store. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records []mood.Record
	logins  []mood.LoginEvent
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// AddRecords appends mood records.
func (m *Memory) AddRecords(recs ...mood.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recs...)
}

// AddLogins appends login events.
func (m *Memory) AddLogins(events ...mood.LoginEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins = append(m.logins, events...)
}

// UserIDs returns distinct user ids in first-seen order.
func (m *Memory) UserIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	var ids []string
	for _, r := range m.records {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}
	return ids, nil
}

// Records returns matching records in the requested order.
func (m *Memory) Records(ctx context.Context, q mood.RecordQuery) ([]mood.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]mood.Record, 0, len(m.records))
	for _, r := range m.records {
		if q.UserID != "" && r.UserID != q.UserID {
			continue
		}
		if !q.Since.IsZero() && r.Timestamp().Before(q.Since) {
			continue
		}
		out = append(out, r)
	}
	m.mu.RUnlock()

	switch q.Order {
	case mood.Ascending:
		sort.SliceStable(out, func(i, j int) bool { return recordLess(out[i], out[j]) })
	case mood.Descending:
		sort.SliceStable(out, func(i, j int) bool { return recordLess(out[j], out[i]) })
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func recordLess(a, b mood.Record) bool {
	ta, tb := a.Timestamp(), b.Timestamp()
	if !ta.Equal(tb) {
		return ta.Before(tb)
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// LoginsSince returns login events at or after since.
func (m *Memory) LoginsSince(ctx context.Context, since time.Time) ([]mood.LoginEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []mood.LoginEvent
	for _, ev := range m.logins {
		if !ev.LoginAt.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}
