// Package listener provides a Postgres LISTEN/NOTIFY consumer that keeps
// cached analytics fresh. It holds a dedicated pgx connection (not from the
// pool) listening on the `mood_recorded` channel.
//
// Every insert or update of a mood record fires pg_notify from a trigger;
// this consumer drops the cached responses for that user so the next read
// recomputes from history.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	Channel          = "mood_recorded"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// MoodRecordedEvent is the JSON payload from pg_notify('mood_recorded', ...).
type MoodRecordedEvent struct {
	UserID string `json:"user_id"`
}

// Invalidator drops cached responses.
type Invalidator interface {
	InvalidateUser(userID string) int
	Flush()
}

// Start opens a dedicated connection and listens on the mood_recorded
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, cache Invalidator, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, cache, logger)
		if ctx.Err() != nil {
			logger.Info("Mood listener stopped (context cancelled)")
			return
		}

		logger.Error("Mood listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		// Notifications sent while disconnected are lost.
		cache.Flush()

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, cache Invalidator, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+Channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("Mood listener connected", "channel", Channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		Handle(notification.Payload, cache, logger)
	}
}

// Handle applies one notification payload to the cache. A payload that
// does not name a user flushes everything.
func Handle(payload string, cache Invalidator, logger *slog.Logger) {
	var event MoodRecordedEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil || event.UserID == "" {
		logger.Warn("Unreadable mood event, flushing cache", "payload", payload, "error", err)
		cache.Flush()
		return
	}

	removed := cache.InvalidateUser(event.UserID)
	logger.Debug("Mood recorded, cache invalidated", "user_id", event.UserID, "removed", removed)
}
