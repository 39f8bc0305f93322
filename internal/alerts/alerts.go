// Package alerts runs the periodic caregiver alert jobs.
//
// The sadness job alerts when a user's sad count over the lookback window
// reaches the threshold, then holds that user for a cooldown. The night job
// alerts when a user logs in to the dashboard more than the threshold
// number of times between local midnight and 06:00, at most once per user
// per local day. Both jobs are ticked by a gocron scheduler and never run
// two ticks of the same job at once.
package alerts

import (
	"fmt"
	"time"
)

// Job names, used in logs and metric labels.
const (
	SadnessJobName = "sadness"
	NightJobName   = "night"
)

// Skip reasons, used in logs and metric labels.
const (
	reasonCooldown     = "cooldown"
	reasonDuplicate    = "duplicate"
	reasonUnconfigured = "unconfigured"
	reasonOverlap      = "overlap"
	reasonError        = "error"
)

// Result tracks the outcome of one job tick.
type Result struct {
	Job          string
	Users        int // users considered this tick
	CoolingDown  int
	Duplicate    int
	Triggered    int // users over threshold
	Sent         int
	Unconfigured int
	Failed       int
	Overlapped   bool // tick skipped because the previous one was still running
	Duration     time.Duration
}

// Summary returns a human-readable summary.
func (r *Result) Summary() string {
	if r.Overlapped {
		return fmt.Sprintf("job=%s skipped=overlap", r.Job)
	}
	return fmt.Sprintf(
		"job=%s users=%d cooling=%d duplicate=%d triggered=%d sent=%d unconfigured=%d failed=%d dur=%s",
		r.Job, r.Users, r.CoolingDown, r.Duplicate, r.Triggered, r.Sent,
		r.Unconfigured, r.Failed, r.Duration.Round(time.Millisecond))
}
