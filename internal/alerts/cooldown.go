package alerts

import (
	"sync"
	"time"
)

// Cooldown remembers when each user was last alerted. It is owned by one
// job and safe for concurrent use.
type Cooldown struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewCooldown creates an empty cooldown table.
func NewCooldown() *Cooldown {
	return &Cooldown{last: make(map[string]time.Time)}
}

// Get returns the last alert time for userID.
func (c *Cooldown) Get(userID string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.last[userID]
	return t, ok
}

// Set records an alert for userID at t.
func (c *Cooldown) Set(userID string, t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[userID] = t
}

// Active reports whether userID was alerted less than d before now.
func (c *Cooldown) Active(userID string, now time.Time, d time.Duration) bool {
	last, ok := c.Get(userID)
	return ok && now.Sub(last) < d
}
