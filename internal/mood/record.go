// Package mood reconciles categorical and numeric mood records into
// canonical metrics: averages, occurrence counts, one mood per day, entry
// listings and sad streaks.
//
// A record is in exactly one shape. If its label parses to one of the five
// recognized moods it is categorical and its numeric fields are ignored;
// otherwise the numeric fields are authoritative. Shape is decided per
// record, so one user's history may mix both.
package mood

import (
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Moods
// --------------------------------------------------------------------------

// Mood is one of the five tracked dimensions, or None.
type Mood string

const (
	Angry Mood = "angry"
	Sad   Mood = "sad"
	Happy Mood = "happy"
	Calm  Mood = "calm"
	Tired Mood = "tired"
	None  Mood = "none"
)

// Dimensions is the fixed dimension order. It is also the argmax tie-break order.
var Dimensions = [5]Mood{Angry, Sad, Happy, Calm, Tired}

// ParseMood lower-cases s and reports whether it names a tracked dimension.
// "neutral" and "other" are valid stored labels but are not dimensions.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Angry, Sad, Happy, Calm, Tired:
		return m, true
	}
	return None, false
}

// --------------------------------------------------------------------------
// Records
// --------------------------------------------------------------------------

// Names holds the optional display-name candidates a stored document may carry.
type Names struct {
	UserName    string `json:"userName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Name        string `json:"name,omitempty"`
	FullName    string `json:"fullName,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Record is a stored mood record. Numeric fields are nil when never set.
type Record struct {
	UserID    string
	Names     Names
	Date      time.Time // logical event date; zero when absent
	CreatedAt time.Time
	MoodRaw   *string

	Angry *float64
	Sad   *float64
	Happy *float64
	Calm  *float64
	Tired *float64
}

// Timestamp is the record's logical date, falling back to creation time.
func (r Record) Timestamp() time.Time {
	if !r.Date.IsZero() {
		return r.Date
	}
	return r.CreatedAt
}

// Day formats the record's timestamp as YYYY-MM-DD in UTC.
func (r Record) Day() string {
	return r.Timestamp().UTC().Format(DayLayout)
}

// Field returns the raw numeric field for a dimension.
func (r Record) Field(m Mood) *float64 {
	switch m {
	case Angry:
		return r.Angry
	case Sad:
		return r.Sad
	case Happy:
		return r.Happy
	case Calm:
		return r.Calm
	case Tired:
		return r.Tired
	}
	return nil
}

func (r Record) hasNumeric() bool {
	for _, m := range Dimensions {
		if r.Field(m) != nil {
			return true
		}
	}
	return false
}

// LoginEvent is a dashboard login.
type LoginEvent struct {
	UserID  string
	Names   Names
	LoginAt time.Time
}

// DayLayout is the calendar-day format used by every per-day aggregation.
const DayLayout = "2006-01-02"

// --------------------------------------------------------------------------
// Vectors
// --------------------------------------------------------------------------

// Vector is a value per dimension.
type Vector struct {
	Angry float64 `json:"angry"`
	Sad   float64 `json:"sad"`
	Happy float64 `json:"happy"`
	Calm  float64 `json:"calm"`
	Tired float64 `json:"tired"`
}

// Get returns the value of one dimension.
func (v Vector) Get(m Mood) float64 {
	switch m {
	case Angry:
		return v.Angry
	case Sad:
		return v.Sad
	case Happy:
		return v.Happy
	case Calm:
		return v.Calm
	case Tired:
		return v.Tired
	}
	return 0
}

func (v *Vector) set(m Mood, x float64) {
	switch m {
	case Angry:
		v.Angry = x
	case Sad:
		v.Sad = x
	case Happy:
		v.Happy = x
	case Calm:
		v.Calm = x
	case Tired:
		v.Tired = x
	}
}

func (v Vector) add(o Vector) Vector {
	return Vector{
		Angry: v.Angry + o.Angry,
		Sad:   v.Sad + o.Sad,
		Happy: v.Happy + o.Happy,
		Calm:  v.Calm + o.Calm,
		Tired: v.Tired + o.Tired,
	}
}

func (v Vector) scale(f float64) Vector {
	return Vector{
		Angry: v.Angry * f,
		Sad:   v.Sad * f,
		Happy: v.Happy * f,
		Calm:  v.Calm * f,
		Tired: v.Tired * f,
	}
}

// Counts is an occurrence count per dimension.
type Counts struct {
	Angry int `json:"angry"`
	Sad   int `json:"sad"`
	Happy int `json:"happy"`
	Calm  int `json:"calm"`
	Tired int `json:"tired"`
}

func (c *Counts) inc(m Mood) {
	switch m {
	case Angry:
		c.Angry++
	case Sad:
		c.Sad++
	case Happy:
		c.Happy++
	case Calm:
		c.Calm++
	case Tired:
		c.Tired++
	}
}
