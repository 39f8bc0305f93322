package listener

import (
	"io"
	"log/slog"
	"testing"
)

type fakeCache struct {
	invalidated []string
	flushes     int
}

func (c *fakeCache) InvalidateUser(userID string) int {
	c.invalidated = append(c.invalidated, userID)
	return 1
}

func (c *fakeCache) Flush() { c.flushes++ }

func TestHandle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name        string
		payload     string
		wantUser    string
		wantFlushes int
	}{
		{name: "user event", payload: `{"user_id":"u1"}`, wantUser: "u1"},
		{name: "malformed", payload: `not json`, wantFlushes: 1},
		{name: "missing user", payload: `{}`, wantFlushes: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeCache{}
			Handle(tt.payload, c, logger)
			if c.flushes != tt.wantFlushes {
				t.Errorf("flushes = %d, want %d", c.flushes, tt.wantFlushes)
			}
			if tt.wantUser != "" && (len(c.invalidated) != 1 || c.invalidated[0] != tt.wantUser) {
				t.Errorf("invalidated = %v, want [%s]", c.invalidated, tt.wantUser)
			}
		})
	}
}
