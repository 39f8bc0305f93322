package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
)

// SadnessConfig controls the sustained-sadness job.
type SadnessConfig struct {
	Interval     time.Duration
	Threshold    int           // alert when sad count >= Threshold
	LookbackDays int           // 0 counts the whole history
	Cooldown     time.Duration // per-user quiet period after an alert
}

// SadnessJob evaluates every user's sad count once per tick.
type SadnessJob struct {
	cfg      SadnessConfig
	engine   *mood.Engine
	notifier *notifications.Notifier
	cooldown *Cooldown
	logger   *slog.Logger
	now      func() time.Time
	running  atomic.Bool
}

// NewSadnessJob creates the job. cooldown is owned by the job from here on.
func NewSadnessJob(cfg SadnessConfig, engine *mood.Engine, notifier *notifications.Notifier, cooldown *Cooldown, logger *slog.Logger) *SadnessJob {
	return &SadnessJob{
		cfg:      cfg,
		engine:   engine,
		notifier: notifier,
		cooldown: cooldown,
		logger:   logger,
		now:      time.Now,
	}
}

// Name returns SadnessJobName.
func (j *SadnessJob) Name() string { return SadnessJobName }

// Interval returns the configured tick interval.
func (j *SadnessJob) Interval() time.Duration { return j.cfg.Interval }

// Run performs one tick. It never returns an error: per-user failures are
// logged and the next user is processed.
func (j *SadnessJob) Run(ctx context.Context) Result {
	result := Result{Job: SadnessJobName}
	if !j.running.CompareAndSwap(false, true) {
		result.Overlapped = true
		skippedTotal.WithLabelValues(SadnessJobName, reasonOverlap).Inc()
		j.logger.Warn("Sadness alert tick skipped; previous tick still running")
		return result
	}
	defer j.running.Store(false)

	ticksTotal.WithLabelValues(SadnessJobName).Inc()
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		tickDuration.WithLabelValues(SadnessJobName).Observe(result.Duration.Seconds())
	}()

	logger := j.logger.With("job", SadnessJobName, "run_id", uuid.NewString())
	now := j.now()

	ids, err := j.engine.UserIDs(ctx)
	if err != nil {
		result.Failed++
		skippedTotal.WithLabelValues(SadnessJobName, reasonError).Inc()
		logger.Error("Sadness alert tick failed", "op", "list users", "error", err)
		return result
	}

	var since time.Time
	if j.cfg.LookbackDays > 0 {
		since = now.Add(-time.Duration(j.cfg.LookbackDays) * 24 * time.Hour)
	}

	for _, userID := range ids {
		if ctx.Err() != nil {
			logger.Warn("Sadness alert tick cancelled", "error", ctx.Err())
			break
		}
		if j.cooldown.Active(userID, now, j.cfg.Cooldown) {
			result.CoolingDown++
			skippedTotal.WithLabelValues(SadnessJobName, reasonCooldown).Inc()
			continue
		}
		result.Users++
		if err := j.evaluate(ctx, logger, userID, since, now, &result); err != nil {
			result.Failed++
			skippedTotal.WithLabelValues(SadnessJobName, reasonError).Inc()
			logger.Error("Sadness alert failed for user", "user_id", userID, "error", err)
		}
	}

	logger.Info("Sadness alert tick complete", "summary", result.Summary())
	return result
}

func (j *SadnessJob) evaluate(ctx context.Context, logger *slog.Logger, userID string, since, now time.Time, result *Result) error {
	count, err := j.engine.SadCount(ctx, userID, since)
	if err != nil {
		return fmt.Errorf("count sad entries: %w", err)
	}
	if count < j.cfg.Threshold {
		return nil
	}
	result.Triggered++

	name, err := j.engine.DisplayName(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve display name: %w", err)
	}

	body := notifications.SadnessMessage(name, count, j.cfg.LookbackDays)
	sid, err := j.notifier.Notify(ctx, "", body)
	switch {
	case errors.Is(err, notifications.ErrGatewayUnconfigured):
		// Cooldown is marked even though nothing was sent.
		j.cooldown.Set(userID, now)
		result.Unconfigured++
		skippedTotal.WithLabelValues(SadnessJobName, reasonUnconfigured).Inc()
		logger.Warn("Sadness alert not sent; SMS gateway not configured",
			"user_id", userID, "name", name, "sad_count", count)
		return nil
	case err != nil:
		return fmt.Errorf("send alert: %w", err)
	}

	j.cooldown.Set(userID, now)
	result.Sent++
	sentTotal.WithLabelValues(SadnessJobName).Inc()
	logger.Info("Sadness alert sent", "user_id", userID, "name", name, "sad_count", count, "sid", sid)
	return nil
}
