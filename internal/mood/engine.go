package mood

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// AllUsers is the scope value meaning "no user filter".
	AllUsers = "all"

	DefaultEntryLimit = 200
	MaxEntryLimit     = 1000
)

// --------------------------------------------------------------------------
// Result types
// --------------------------------------------------------------------------

// User is one row of the user list.
type User struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Averages is the mean normalized vector over a record set.
type Averages struct {
	Vector
	Count int `json:"count"`
}

// CountResult holds per-mood occurrence counts and the shape that produced them.
type CountResult struct {
	Counts Counts `json:"counts"`
	Shape  Shape  `json:"shape"`
}

// DayMood is the single mood chosen for a calendar day.
type DayMood struct {
	Date string `json:"date"`
	Mood Mood   `json:"mood"`
}

// DayVector is the mean normalized vector of a calendar day.
type DayVector struct {
	Date string `json:"date"`
	Vector
}

// Entry is one record as listed to the dashboard. Numeric fields are
// reported as stored, nil when never set.
type Entry struct {
	Date     time.Time `json:"date"`
	BestMood Mood      `json:"bestMood"`
	MoodRaw  *string   `json:"moodRaw"`
	Angry    *float64  `json:"angry"`
	Sad      *float64  `json:"sad"`
	Happy    *float64  `json:"happy"`
	Calm     *float64  `json:"calm"`
	Tired    *float64  `json:"tired"`
}

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Engine computes analytics on demand from stored history.
type Engine struct {
	store   Store
	timeout time.Duration
}

// NewEngine creates an engine over store. A positive timeout bounds every
// store call.
func NewEngine(store Store, timeout time.Duration) *Engine {
	return &Engine{store: store, timeout: timeout}
}

// IsAll reports whether userID means "every user".
func IsAll(userID string) bool {
	return userID == "" || userID == AllUsers
}

// ParseLimit parses an entries limit: default 200 when empty or not a
// number, clamped to [1, 1000].
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultEntryLimit
	}
	return ClampLimit(n)
}

// ClampLimit clamps n to [1, MaxEntryLimit].
func ClampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxEntryLimit {
		return MaxEntryLimit
	}
	return n
}

func (e *Engine) records(ctx context.Context, op string, q RecordQuery) ([]Record, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	recs, err := e.store.Records(ctx, q)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return recs, nil
}

func scopeQuery(userID string) RecordQuery {
	if IsAll(userID) {
		return RecordQuery{}
	}
	return RecordQuery{UserID: userID}
}

// UserIDs returns every distinct user id in the store.
func (e *Engine) UserIDs(ctx context.Context) ([]string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	ids, err := e.store.UserIDs(ctx)
	if err != nil {
		return nil, storeErr("list user ids", err)
	}
	return ids, nil
}

// Users lists every user once, named from their latest named record and sorted
// case-insensitively by display name.
func (e *Engine) Users(ctx context.Context) ([]User, error) {
	recs, err := e.records(ctx, "list users", RecordQuery{Order: Descending})
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]Record)
	order := make([]string, 0)
	for _, r := range recs {
		if _, ok := byUser[r.UserID]; !ok {
			order = append(order, r.UserID)
		}
		byUser[r.UserID] = append(byUser[r.UserID], r)
	}

	users := make([]User, 0, len(order))
	for _, id := range order {
		users = append(users, User{UserID: id, DisplayName: latestName(byUser[id], id)})
	}

	sort.SliceStable(users, func(i, j int) bool {
		a, b := strings.ToLower(users[i].DisplayName), strings.ToLower(users[j].DisplayName)
		if a != b {
			return a < b
		}
		return users[i].UserID < users[j].UserID
	})
	return users, nil
}

// DisplayName resolves a user's name from their most recent record that
// carries one.
func (e *Engine) DisplayName(ctx context.Context, userID string) (string, error) {
	recs, err := e.records(ctx, "display name", RecordQuery{UserID: userID, Order: Descending})
	if err != nil {
		return "", err
	}
	return latestName(recs, userID), nil
}

// Averages returns the mean normalized vector for a scope ("" or "all" for
// everyone). No matching records gives a zero vector and count 0.
func (e *Engine) Averages(ctx context.Context, userID string) (Averages, error) {
	recs, err := e.records(ctx, "averages", scopeQuery(userID))
	if err != nil {
		return Averages{}, err
	}
	return average(recs), nil
}

func average(recs []Record) Averages {
	if len(recs) == 0 {
		return Averages{}
	}
	var sum Vector
	for _, r := range recs {
		sum = sum.add(Normalize(r).Vector)
	}
	return Averages{Vector: sum.scale(1 / float64(len(recs))), Count: len(recs)}
}

// Counts returns per-mood occurrence counts for one user. If any record
// carries a recognized label only labelled records are counted; otherwise
// each dimension counts records whose numeric field is above zero.
func (e *Engine) Counts(ctx context.Context, userID string) (CountResult, error) {
	if IsAll(userID) {
		return CountResult{}, ErrInvalidScope
	}
	recs, err := e.records(ctx, "counts", RecordQuery{UserID: userID})
	if err != nil {
		return CountResult{}, err
	}
	return countRecords(recs), nil
}

// SadCount applies the Counts resolution to records since the given time
// (zero for all history) and returns the sad count.
func (e *Engine) SadCount(ctx context.Context, userID string, since time.Time) (int, error) {
	if IsAll(userID) {
		return 0, ErrInvalidScope
	}
	recs, err := e.records(ctx, "sad count", RecordQuery{UserID: userID, Since: since})
	if err != nil {
		return 0, err
	}
	return countRecords(recs).Counts.Sad, nil
}

func countRecords(recs []Record) CountResult {
	var c Counts
	matched := 0
	for _, r := range recs {
		if r.MoodRaw == nil {
			continue
		}
		if m, ok := ParseMood(*r.MoodRaw); ok {
			c.inc(m)
			matched++
		}
	}
	if matched > 0 {
		return CountResult{Counts: c, Shape: ShapeCategorical}
	}

	for _, r := range recs {
		for _, m := range Dimensions {
			if p := r.Field(m); p != nil && *p > 0 {
				c.inc(m)
			}
		}
	}
	return CountResult{Counts: c, Shape: ShapeNumeric}
}

// DailyMood picks one mood per calendar day for a user: the best mood of
// that day's latest record. Days ascend.
func (e *Engine) DailyMood(ctx context.Context, userID string) ([]DayMood, error) {
	if IsAll(userID) {
		return nil, ErrInvalidScope
	}
	recs, err := e.records(ctx, "daily mood", RecordQuery{UserID: userID})
	if err != nil {
		return nil, err
	}

	latest := make(map[string]Record)
	for _, r := range recs {
		day := r.Day()
		cur, ok := latest[day]
		if !ok || newer(r, cur) {
			latest[day] = r
		}
	}

	days := make([]DayMood, 0, len(latest))
	for day, r := range latest {
		days = append(days, DayMood{Date: day, Mood: Normalize(r).Label})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

// newer reports whether a sorts after b by timestamp, then creation time.
func newer(a, b Record) bool {
	ta, tb := a.Timestamp(), b.Timestamp()
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// DailySeries averages normalized vectors per calendar day for a scope.
// Days ascend.
func (e *Engine) DailySeries(ctx context.Context, userID string) ([]DayVector, error) {
	recs, err := e.records(ctx, "daily series", scopeQuery(userID))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]Record)
	for _, r := range recs {
		day := r.Day()
		byDay[day] = append(byDay[day], r)
	}

	series := make([]DayVector, 0, len(byDay))
	for day, dayRecs := range byDay {
		series = append(series, DayVector{Date: day, Vector: average(dayRecs).Vector})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

// Entries lists a user's most recent records, newest first. limit is
// clamped to [1, 1000].
func (e *Engine) Entries(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if IsAll(userID) {
		return nil, ErrInvalidScope
	}
	recs, err := e.records(ctx, "entries", RecordQuery{
		UserID: userID,
		Order:  Descending,
		Limit:  ClampLimit(limit),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(recs))
	for _, r := range recs {
		var raw *string
		if r.MoodRaw != nil && *r.MoodRaw != "" {
			raw = r.MoodRaw
		}
		entries = append(entries, Entry{
			Date:     r.Timestamp(),
			BestMood: Normalize(r).Label,
			MoodRaw:  raw,
			Angry:    r.Angry,
			Sad:      r.Sad,
			Happy:    r.Happy,
			Calm:     r.Calm,
			Tired:    r.Tired,
		})
	}
	return entries, nil
}
