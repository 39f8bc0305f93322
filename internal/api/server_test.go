package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/albapepper/mindsaathi/internal/alerts"
	"github.com/albapepper/mindsaathi/internal/api/handler"
	"github.com/albapepper/mindsaathi/internal/cache"
	"github.com/albapepper/mindsaathi/internal/config"
	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
	"github.com/albapepper/mindsaathi/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

type stubGateway struct{ err error }

func (g stubGateway) Send(context.Context, string, string, string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return "SM42", nil
}

type stubHealth struct{ err error }

func (s stubHealth) HealthCheck(context.Context) error { return s.err }

type brokenStore struct{}

func (brokenStore) UserIDs(context.Context) ([]string, error) { return nil, errors.New("no reachable servers") }

func (brokenStore) Records(context.Context, mood.RecordQuery) ([]mood.Record, error) {
	return nil, errors.New("no reachable servers")
}

type testServer struct {
	*httptest.Server
	cache *cache.Cache
}

func newTestServer(t *testing.T, st mood.Store, gw notifications.Gateway, health handler.HealthChecker) *testServer {
	t.Helper()
	return newTestServerWithCache(t, st, gw, health, cache.New(true))
}

func newTestServerWithCache(t *testing.T, st mood.Store, gw notifications.Gateway, health handler.HealthChecker, c *cache.Cache) *testServer {
	t.Helper()
	engine := mood.NewEngine(st, time.Second)
	notifier := notifications.NewNotifier(gw, "+100", "+200")

	router := NewRouter(handler.Deps{
		Engine:      engine,
		Streak:      alerts.NewStreakChecker(engine, notifier, 5, discard),
		Cache:       c,
		Store:       health,
		StoreDriver: "memory",
		Logger:      discard,
	}, &config.Config{CORSAllowOrigins: []string{"*"}})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, cache: c}
}

func seeded() *store.Memory {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	mem := store.NewMemory()
	mem.AddRecords(
		mood.Record{UserID: "u1", Names: mood.Names{UserName: "Asha"}, MoodRaw: str("sad"), Date: base},
		mood.Record{UserID: "u1", Sad: num(4), Date: base.Add(time.Hour)},
		mood.Record{UserID: "u1", MoodRaw: str("happy"), Date: base.Add(2 * time.Hour)},
	)
	for i := 0; i < 5; i++ {
		mem.AddRecords(mood.Record{UserID: "u2", Names: mood.Names{FirstName: "Ravi"}, MoodRaw: str("sad"), Date: base.Add(time.Duration(i) * time.Minute)})
	}
	return mem
}

func get(t *testing.T, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decode(t, resp, &e)
	return e.Error.Code
}

func TestCounts(t *testing.T) {
	srv := newTestServer(t, seeded(), nil, nil)

	resp := get(t, srv.URL+"/api/moods/counts?userId=u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body handler.CountsResponse
	decode(t, resp, &body)
	if body.Shape != mood.ShapeCategorical || body.Counts != (mood.Counts{Sad: 1, Happy: 1}) {
		t.Errorf("body = %+v", body)
	}
}

func TestInvalidScope(t *testing.T) {
	srv := newTestServer(t, seeded(), nil, nil)

	for _, path := range []string{
		"/api/moods/counts",
		"/api/moods/counts?userId=all",
		"/api/moods/daily-mood",
		"/api/moods/entries?userId=all",
	} {
		resp := get(t, srv.URL+path, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, resp.StatusCode)
			continue
		}
		if code := errorCode(t, resp); code != "INVALID_SCOPE" {
			t.Errorf("%s: code = %s", path, code)
		}
	}
}

func TestStoreUnavailable(t *testing.T) {
	srv := newTestServer(t, brokenStore{}, nil, stubHealth{err: errors.New("down")})

	resp := get(t, srv.URL+"/api/moods/averages", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "STORE_UNAVAILABLE" {
		t.Errorf("code = %s", code)
	}

	if resp := get(t, srv.URL+"/health/store", nil); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("store health status = %d, want 503", resp.StatusCode)
	}
}

func TestETagAndInvalidation(t *testing.T) {
	srv := newTestServer(t, seeded(), nil, nil)
	url := srv.URL + "/api/moods/averages?userId=u1"

	first := get(t, url, nil)
	etag := first.Header.Get("ETag")
	if first.Header.Get("X-Cache") != "MISS" || etag == "" {
		t.Fatalf("first response: X-Cache=%s ETag=%s", first.Header.Get("X-Cache"), etag)
	}

	second := get(t, url, http.Header{"If-None-Match": {etag}})
	if second.StatusCode != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", second.StatusCode)
	}

	third := get(t, url, nil)
	if third.Header.Get("X-Cache") != "HIT" {
		t.Errorf("X-Cache = %s, want HIT", third.Header.Get("X-Cache"))
	}

	srv.cache.InvalidateUser("u1")
	if fourth := get(t, url, nil); fourth.Header.Get("X-Cache") != "MISS" {
		t.Errorf("after invalidation X-Cache = %s, want MISS", fourth.Header.Get("X-Cache"))
	}
}

func TestNewRecordVisibleWithoutChangeNotifications(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverMongo, CacheEnabled: true}
	mem := store.NewMemory()
	mem.AddRecords(mood.Record{UserID: "u9", MoodRaw: str("sad"), Date: time.Now().Add(-time.Hour)})
	srv := newTestServerWithCache(t, mem, nil, nil, cache.New(cfg.ResponseCacheEnabled()))
	url := srv.URL + "/api/moods/counts?userId=u9"

	var before handler.CountsResponse
	decode(t, get(t, url, nil), &before)

	mem.AddRecords(mood.Record{UserID: "u9", MoodRaw: str("sad"), Date: time.Now()})

	var after handler.CountsResponse
	decode(t, get(t, url, nil), &after)
	if before.Counts.Sad != 1 || after.Counts.Sad != 2 {
		t.Errorf("sad counts = %d then %d, want 1 then 2", before.Counts.Sad, after.Counts.Sad)
	}
}

func TestUsersAndEntries(t *testing.T) {
	srv := newTestServer(t, seeded(), nil, nil)

	var users handler.UsersResponse
	decode(t, get(t, srv.URL+"/api/moods/users", nil), &users)
	if len(users.Users) != 2 || users.Users[0].DisplayName != "Asha" || users.Users[1].DisplayName != "Ravi" {
		t.Errorf("users = %+v", users.Users)
	}

	var entries handler.EntriesResponse
	decode(t, get(t, srv.URL+"/api/moods/entries?userId=u1&limit=0", nil), &entries)
	if entries.Count != 1 || entries.Entries[0].BestMood != mood.Happy {
		t.Errorf("entries = %+v", entries)
	}
}

func TestAlertCheck(t *testing.T) {
	tests := []struct {
		name        string
		gateway     notifications.Gateway
		path        string
		body        string
		wantStatus  int
		wantAlerted bool
		wantReason  bool
	}{
		{name: "unconfigured", path: "/api/alerts/check?userId=u2", wantStatus: http.StatusOK, wantReason: true},
		{name: "sent", gateway: stubGateway{}, path: "/api/alerts/check?userId=u2", wantStatus: http.StatusOK, wantAlerted: true},
		{name: "json body", gateway: stubGateway{}, path: "/api/alerts/check", body: `{"userId":"u2","phone":"+300"}`, wantStatus: http.StatusOK, wantAlerted: true},
		{name: "below threshold", gateway: stubGateway{}, path: "/api/alerts/check?userId=u1", wantStatus: http.StatusOK, wantReason: true},
		{name: "send failure", gateway: stubGateway{err: notifications.ErrSendFailed}, path: "/api/alerts/check?userId=u2", wantStatus: http.StatusBadGateway},
		{name: "missing user", path: "/api/alerts/check", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, seeded(), tt.gateway, nil)
			req, _ := http.NewRequest(http.MethodPost, srv.URL+tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var res alerts.StreakResult
			decode(t, resp, &res)
			if res.Alerted != tt.wantAlerted {
				t.Errorf("alerted = %v, want %v", res.Alerted, tt.wantAlerted)
			}
			if tt.wantAlerted && (res.SMSSid == nil || *res.SMSSid != "SM42") {
				t.Errorf("smsSid = %v", res.SMSSid)
			}
			if (res.Reason != "") != tt.wantReason {
				t.Errorf("reason = %q", res.Reason)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, seeded(), nil, nil)
	get(t, srv.URL+"/health", nil)

	resp := get(t, srv.URL+"/metrics", nil)
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(raw), "mindsaathi_http_requests_total") {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}
