package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDetail bool
	}{
		{name: "invalid scope", err: mood.ErrInvalidScope, wantStatus: http.StatusBadRequest, wantCode: CodeInvalidScope},
		{name: "wrapped store error", err: fmt.Errorf("counts: %w: timeout", mood.ErrStoreUnavailable), wantStatus: http.StatusServiceUnavailable, wantCode: CodeStoreUnavailable},
		{name: "send failed", err: fmt.Errorf("%w: twilio 400: bad number", notifications.ErrSendFailed), wantStatus: http.StatusBadGateway, wantCode: CodeSendFailed, wantDetail: true},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Classify("compute counts", tt.err)
			if status != tt.wantStatus || body.Code != tt.wantCode {
				t.Errorf("Classify = %d %s, want %d %s", status, body.Code, tt.wantStatus, tt.wantCode)
			}
			if (body.Detail != "") != tt.wantDetail {
				t.Errorf("detail = %q", body.Detail)
			}
		})
	}

	if _, body := Classify("compute counts", errors.New("boom")); body.Message != "Failed to compute counts" {
		t.Errorf("internal message = %q", body.Message)
	}
}

func TestErr(t *testing.T) {
	rec := httptest.NewRecorder()
	if status := Err(rec, "fetch users", mood.ErrStoreUnavailable); status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", status)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("recorded status = %d", rec.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != CodeStoreUnavailable {
		t.Errorf("code = %q", resp.Error.Code)
	}
}

func TestRendered(t *testing.T) {
	p := Payload{Body: []byte(`{"ok":true}`), ETag: `W/"abc"`, TTL: 5 * time.Minute, Hit: true}

	tests := []struct {
		name        string
		ifNoneMatch string
		wantStatus  int
		wantBody    string
	}{
		{name: "fresh", wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
		{name: "conditional match", ifNoneMatch: `W/"abc"`, wantStatus: http.StatusNotModified},
		{name: "conditional miss", ifNoneMatch: `W/"zzz"`, wantStatus: http.StatusOK, wantBody: `{"ok":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/moods/users", nil)
			if tt.ifNoneMatch != "" {
				req.Header.Set("If-None-Match", tt.ifNoneMatch)
			}
			rec := httptest.NewRecorder()
			Rendered(rec, req, p)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
			if got := rec.Header().Get("Cache-Control"); got != "private, max-age=300" {
				t.Errorf("Cache-Control = %q", got)
			}
			if rec.Header().Get("ETag") != p.ETag || rec.Header().Get("X-Cache") != "HIT" {
				t.Errorf("headers = %v", rec.Header())
			}
		})
	}
}
