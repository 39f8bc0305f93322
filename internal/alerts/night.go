package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
)

// NightConfig controls the night-login job.
type NightConfig struct {
	Interval     time.Duration
	Threshold    int // alert when night logins > Threshold
	Location     *time.Location
	StoreTimeout time.Duration
}

// NightJob counts each user's dashboard logins in tonight's window.
type NightJob struct {
	cfg      NightConfig
	logins   mood.LoginStore
	notifier *notifications.Notifier
	dedup    *DayDedup
	logger   *slog.Logger
	now      func() time.Time
	running  atomic.Bool
}

// NewNightJob creates the job. dedup is owned by the job from here on.
func NewNightJob(cfg NightConfig, logins mood.LoginStore, notifier *notifications.Notifier, dedup *DayDedup, logger *slog.Logger) *NightJob {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &NightJob{
		cfg:      cfg,
		logins:   logins,
		notifier: notifier,
		dedup:    dedup,
		logger:   logger,
		now:      time.Now,
	}
}

// Name returns NightJobName.
func (j *NightJob) Name() string { return NightJobName }

// Interval returns the configured tick interval.
func (j *NightJob) Interval() time.Duration { return j.cfg.Interval }

type nightCount struct {
	logins int
	sample mood.LoginEvent
}

// Run performs one tick.
func (j *NightJob) Run(ctx context.Context) Result {
	result := Result{Job: NightJobName}
	if !j.running.CompareAndSwap(false, true) {
		result.Overlapped = true
		skippedTotal.WithLabelValues(NightJobName, reasonOverlap).Inc()
		j.logger.Warn("Night login alert tick skipped; previous tick still running")
		return result
	}
	defer j.running.Store(false)

	ticksTotal.WithLabelValues(NightJobName).Inc()
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		tickDuration.WithLabelValues(NightJobName).Observe(result.Duration.Seconds())
	}()

	logger := j.logger.With("job", NightJobName, "run_id", uuid.NewString())
	window := NightWindowAt(j.now(), j.cfg.Location)

	events, err := j.fetch(ctx, window.FetchFrom)
	if err != nil {
		result.Failed++
		skippedTotal.WithLabelValues(NightJobName, reasonError).Inc()
		logger.Error("Night login alert tick failed", "op", "fetch logins", "error", err)
		return result
	}

	counts := make(map[string]*nightCount)
	for _, ev := range events {
		if !window.Contains(ev.LoginAt) {
			continue
		}
		key := ev.UserID
		if key == "" {
			key = "unknown"
		}
		c, ok := counts[key]
		if !ok {
			c = &nightCount{sample: ev}
			counts[key] = c
		}
		c.logins++
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, userID := range ids {
		c := counts[userID]
		result.Users++
		if c.logins <= j.cfg.Threshold {
			continue
		}
		result.Triggered++
		if j.dedup.Seen(window.Day, userID) {
			result.Duplicate++
			skippedTotal.WithLabelValues(NightJobName, reasonDuplicate).Inc()
			continue
		}
		if ctx.Err() != nil {
			logger.Warn("Night login alert tick cancelled", "error", ctx.Err())
			break
		}

		name := mood.DisplayName(c.sample.Names, c.sample.UserID)
		sid, err := j.notifier.Notify(ctx, "", notifications.NightLoginMessage(name, c.logins))
		switch {
		case errors.Is(err, notifications.ErrGatewayUnconfigured):
			// Not marked: the alert is retried every tick until configured.
			result.Unconfigured++
			skippedTotal.WithLabelValues(NightJobName, reasonUnconfigured).Inc()
			logger.Warn("Night login alert not sent; SMS gateway not configured",
				"user_id", userID, "name", name, "logins", c.logins)
		case err != nil:
			result.Failed++
			skippedTotal.WithLabelValues(NightJobName, reasonError).Inc()
			logger.Error("Night login alert failed for user", "user_id", userID, "error", err)
		default:
			j.dedup.Mark(window.Day, userID)
			result.Sent++
			sentTotal.WithLabelValues(NightJobName).Inc()
			logger.Info("Night login alert sent",
				"user_id", userID, "name", name, "logins", c.logins, "day", window.Day, "sid", sid)
		}
	}

	logger.Info("Night login alert tick complete", "day", window.Day, "summary", result.Summary())
	return result
}

func (j *NightJob) fetch(ctx context.Context, since time.Time) ([]mood.LoginEvent, error) {
	if j.cfg.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.StoreTimeout)
		defer cancel()
	}
	events, err := j.logins.LoginsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetch logins: %w: %w", mood.ErrStoreUnavailable, err)
	}
	return events, nil
}
