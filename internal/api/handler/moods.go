package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/mindsaathi/internal/api/respond"
	"github.com/albapepper/mindsaathi/internal/cache"
	"github.com/albapepper/mindsaathi/internal/mood"
)

// --------------------------------------------------------------------------
// Response shapes
// --------------------------------------------------------------------------

type UsersResponse struct {
	Users []mood.User `json:"users"`
}

type AveragesResponse struct {
	Scope  string        `json:"scope"`
	UserID string        `json:"userId,omitempty"`
	Data   mood.Averages `json:"data"`
}

type SeriesResponse struct {
	Scope  string           `json:"scope"`
	UserID string           `json:"userId,omitempty"`
	Series []mood.DayVector `json:"series"`
}

type CountsResponse struct {
	UserID string      `json:"userId"`
	Counts mood.Counts `json:"counts"`
	Shape  mood.Shape  `json:"shape"`
}

type DailyMoodResponse struct {
	UserID string         `json:"userId"`
	Days   []mood.DayMood `json:"days"`
}

type EntriesResponse struct {
	UserID  string       `json:"userId"`
	Count   int          `json:"count"`
	Entries []mood.Entry `json:"entries"`
}

func scopeOf(userID string) string {
	if mood.IsAll(userID) {
		return "all"
	}
	return "user"
}

// serveCached answers from the cache when possible, otherwise computes,
// renders and stores the response.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, op, key string, ttl time.Duration, compute func(ctx context.Context) (interface{}, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		respond.Rendered(w, r, respond.Payload{Body: data, ETag: etag, TTL: ttl, Hit: true})
		return
	}

	v, err := compute(r.Context())
	if err != nil {
		h.writeErr(w, op, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.writeErr(w, op, err)
		return
	}

	etag := h.cache.Set(key, data, ttl)
	respond.Rendered(w, r, respond.Payload{Body: data, ETag: etag, TTL: ttl})
}

// GetUsers lists every user with a resolved display name.
// @Summary List users
// @Description Returns one entry per user, named from their latest record, sorted case-insensitively by display name.
// @Tags moods
// @Produce json
// @Success 200 {object} UsersResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /moods/users [get]
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "fetch users", cache.Key("users", ""), cache.TTLUsers, func(ctx context.Context) (interface{}, error) {
		users, err := h.engine.Users(ctx)
		return UsersResponse{Users: users}, err
	})
}

// GetAverages returns the mean mood vector for a user or everyone.
// @Summary Mood averages
// @Description Mean normalized mood vector. Categorical records count as one-hot vectors.
// @Tags moods
// @Produce json
// @Param userId query string false "User id, or all (default)"
// @Success 200 {object} AveragesResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /moods/averages [get]
func (h *Handler) GetAverages(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	h.serveCached(w, r, "compute averages", cache.Key("averages", scopeKey(userID)), cache.TTLAnalytics, func(ctx context.Context) (interface{}, error) {
		avg, err := h.engine.Averages(ctx, userID)
		return AveragesResponse{Scope: scopeOf(userID), UserID: userID, Data: avg}, err
	})
}

// GetDailySeries returns the mean mood vector per day.
// @Summary Daily mood series
// @Description Mean normalized mood vector per calendar day (UTC), ascending.
// @Tags moods
// @Produce json
// @Param userId query string false "User id, or all (default)"
// @Success 200 {object} SeriesResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /moods/daily [get]
func (h *Handler) GetDailySeries(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	h.serveCached(w, r, "compute daily series", cache.Key("daily", scopeKey(userID)), cache.TTLAnalytics, func(ctx context.Context) (interface{}, error) {
		series, err := h.engine.DailySeries(ctx, userID)
		return SeriesResponse{Scope: scopeOf(userID), UserID: userID, Series: series}, err
	})
}

// GetCounts returns per-mood occurrence counts for one user.
// @Summary Mood counts
// @Description Counts labelled records when any exist, otherwise counts positive numeric fields.
// @Tags moods
// @Produce json
// @Param userId query string true "User id"
// @Success 200 {object} CountsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /moods/counts [get]
func (h *Handler) GetCounts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if mood.IsAll(userID) {
		h.writeErr(w, "compute counts", mood.ErrInvalidScope)
		return
	}
	h.serveCached(w, r, "compute counts", cache.Key("counts", userID), cache.TTLAnalytics, func(ctx context.Context) (interface{}, error) {
		res, err := h.engine.Counts(ctx, userID)
		return CountsResponse{UserID: userID, Counts: res.Counts, Shape: res.Shape}, err
	})
}

// GetDailyMood returns one mood per day for one user.
// @Summary Daily mood
// @Description Best mood of each day's latest record, ascending by date.
// @Tags moods
// @Produce json
// @Param userId query string true "User id"
// @Success 200 {object} DailyMoodResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /moods/daily-mood [get]
func (h *Handler) GetDailyMood(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if mood.IsAll(userID) {
		h.writeErr(w, "compute daily mood", mood.ErrInvalidScope)
		return
	}
	h.serveCached(w, r, "compute daily mood", cache.Key("daily-mood", userID), cache.TTLAnalytics, func(ctx context.Context) (interface{}, error) {
		days, err := h.engine.DailyMood(ctx, userID)
		return DailyMoodResponse{UserID: userID, Days: days}, err
	})
}

// GetEntries lists a user's most recent records.
// @Summary Mood entries
// @Description Most recent records first. limit defaults to 200 and is clamped to 1..1000.
// @Tags moods
// @Produce json
// @Param userId query string true "User id"
// @Param limit query int false "Maximum entries (1-1000, default 200)"
// @Success 200 {object} EntriesResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /moods/entries [get]
func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if mood.IsAll(userID) {
		h.writeErr(w, "fetch mood entries", mood.ErrInvalidScope)
		return
	}
	limit := mood.ParseLimit(r.URL.Query().Get("limit"))
	key := cache.Key(fmt.Sprintf("entries-%d", limit), userID)
	h.serveCached(w, r, "fetch mood entries", key, cache.TTLAnalytics, func(ctx context.Context) (interface{}, error) {
		entries, err := h.engine.Entries(ctx, userID, limit)
		return EntriesResponse{UserID: userID, Count: len(entries), Entries: entries}, err
	})
}

func scopeKey(userID string) string {
	if mood.IsAll(userID) {
		return ""
	}
	return userID
}
