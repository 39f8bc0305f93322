package alerts

import (
	"time"

	"github.com/albapepper/mindsaathi/internal/mood"
)

const (
	nightEndHour = 6
	// nightLookback widens the login fetch before window start so events
	// stored with a skewed offset are still seen; the local filter is exact.
	nightLookback = 24 * time.Hour
)

// NightWindow is [00:00, 06:00) of one local calendar day.
type NightWindow struct {
	Day       string // YYYY-MM-DD in the window's location
	Start     time.Time
	End       time.Time
	FetchFrom time.Time
	loc       *time.Location
}

// NightWindowAt returns the night window of the local day containing now.
func NightWindowAt(now time.Time, loc *time.Location) NightWindow {
	local := now.In(loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return NightWindow{
		Day:       start.Format(mood.DayLayout),
		Start:     start,
		End:       time.Date(y, m, d, nightEndHour, 0, 0, 0, loc),
		FetchFrom: start.Add(-nightLookback),
		loc:       loc,
	}
}

// Contains reports whether t falls on the window's local day before 06:00.
func (w NightWindow) Contains(t time.Time) bool {
	local := t.In(w.loc)
	return local.Format(mood.DayLayout) == w.Day && local.Hour() < nightEndHour
}
