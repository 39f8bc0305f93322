package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
)

// StreakResult is the outcome of an on-demand streak check.
type StreakResult struct {
	UserID            string  `json:"userId"`
	Name              string  `json:"name"`
	MaxConsecutiveSad int     `json:"maxConsecutiveSad"`
	Alerted           bool    `json:"alerted"`
	SMSSid            *string `json:"smsSid"`
	Reason            string  `json:"reason,omitempty"`
}

// StreakChecker evaluates a user's longest sad streak and alerts when it
// reaches the threshold. It ignores the sadness job's cooldown.
type StreakChecker struct {
	engine    *mood.Engine
	notifier  *notifications.Notifier
	threshold int
	logger    *slog.Logger
}

// NewStreakChecker creates a checker alerting at streaks >= threshold.
func NewStreakChecker(engine *mood.Engine, notifier *notifications.Notifier, threshold int, logger *slog.Logger) *StreakChecker {
	return &StreakChecker{engine: engine, notifier: notifier, threshold: threshold, logger: logger}
}

// Check evaluates userID and sends to phone, or the default recipient when
// phone is empty. An unconfigured gateway is reported in Reason, not as an
// error; a rejected send returns the partial result and an error wrapping
// notifications.ErrSendFailed.
func (c *StreakChecker) Check(ctx context.Context, userID, phone string) (StreakResult, error) {
	if mood.IsAll(userID) {
		return StreakResult{}, mood.ErrInvalidScope
	}

	streak, err := c.engine.LongestSadStreak(ctx, userID)
	if err != nil {
		return StreakResult{}, err
	}
	name, err := c.engine.DisplayName(ctx, userID)
	if err != nil {
		return StreakResult{}, err
	}

	result := StreakResult{UserID: userID, Name: name, MaxConsecutiveSad: streak}
	if streak < c.threshold {
		result.Reason = fmt.Sprintf("streak %d below threshold %d", streak, c.threshold)
		return result, nil
	}

	sid, err := c.notifier.Notify(ctx, phone, notifications.StreakMessage(name, streak))
	switch {
	case errors.Is(err, notifications.ErrGatewayUnconfigured):
		result.Reason = err.Error()
		c.logger.Warn("Streak alert not sent; SMS gateway not configured", "user_id", userID, "streak", streak)
		return result, nil
	case err != nil:
		result.Reason = err.Error()
		c.logger.Error("Streak alert failed", "user_id", userID, "streak", streak, "error", err)
		return result, err
	}

	result.Alerted = true
	result.SMSSid = &sid
	c.logger.Info("Streak alert sent", "user_id", userID, "streak", streak, "sid", sid)
	return result, nil
}
