package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/mindsaathi/internal/mood"
)

// Postgres reads mood records and logins through the prepared statements
// registered by db.New.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a store over pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// UserIDs returns distinct user ids.
func (p *Postgres) UserIDs(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, "mood_user_ids")
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan user ids: %w", err)
	}
	return ids, nil
}

// Records returns matching records. Unordered queries come back ascending.
func (p *Postgres) Records(ctx context.Context, q mood.RecordQuery) ([]mood.Record, error) {
	stmt := "mood_records_asc"
	if q.Order == mood.Descending {
		stmt = "mood_records_desc"
	}

	var since *time.Time
	if !q.Since.IsZero() {
		since = &q.Since
	}
	var limit *int64
	if q.Limit > 0 {
		n := int64(q.Limit)
		limit = &n
	}

	rows, err := p.pool.Query(ctx, stmt, q.UserID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query mood records: %w", err)
	}
	defer rows.Close()

	var recs []mood.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mood record: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func scanRecord(rows pgx.Rows) (mood.Record, error) {
	var (
		r     mood.Record
		names [7]*string
		date  *time.Time
	)
	err := rows.Scan(
		&r.UserID, &names[0], &names[1], &names[2], &names[3], &names[4], &names[5], &names[6],
		&date, &r.CreatedAt, &r.MoodRaw,
		&r.Angry, &r.Sad, &r.Happy, &r.Calm, &r.Tired,
	)
	if err != nil {
		return r, err
	}
	if date != nil {
		r.Date = *date
	}
	r.Names = mood.Names{
		UserName:    deref(names[0]),
		DisplayName: deref(names[1]),
		Name:        deref(names[2]),
		FullName:    deref(names[3]),
		FirstName:   deref(names[4]),
		LastName:    deref(names[5]),
		Email:       deref(names[6]),
	}
	return r, nil
}

// LoginsSince returns login events at or after since.
func (p *Postgres) LoginsSince(ctx context.Context, since time.Time) ([]mood.LoginEvent, error) {
	rows, err := p.pool.Query(ctx, "logins_since", since)
	if err != nil {
		return nil, fmt.Errorf("query logins: %w", err)
	}
	defer rows.Close()

	var events []mood.LoginEvent
	for rows.Next() {
		var (
			ev              mood.LoginEvent
			userName, email *string
			loginAt         *time.Time
		)
		if err := rows.Scan(&ev.UserID, &userName, &email, &loginAt); err != nil {
			return nil, fmt.Errorf("scan login: %w", err)
		}
		if loginAt == nil {
			continue
		}
		ev.LoginAt = *loginAt
		ev.Names = mood.Names{UserName: deref(userName), Email: deref(email)}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
