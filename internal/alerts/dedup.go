package alerts

import "sync"

// DayDedup is the set of users already alerted on one calendar day. Marking
// a different day drops every entry of the previous one.
type DayDedup struct {
	mu    sync.Mutex
	day   string
	users map[string]struct{}
}

// NewDayDedup creates an empty set.
func NewDayDedup() *DayDedup {
	return &DayDedup{users: make(map[string]struct{})}
}

// Seen reports whether userID was marked on day.
func (d *DayDedup) Seen(day, userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if day != d.day {
		return false
	}
	_, ok := d.users[userID]
	return ok
}

// Mark records userID for day, evicting entries of any other day.
func (d *DayDedup) Mark(day, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if day != d.day {
		d.day = day
		d.users = make(map[string]struct{})
	}
	d.users[userID] = struct{}{}
}

// Len returns the number of users marked on the current day.
func (d *DayDedup) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.users)
}
