// Package respond writes API responses: rendered analytics payloads with
// their validators, uncached JSON objects, and the error envelope.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/mindsaathi/internal/cache"
	"github.com/albapepper/mindsaathi/internal/mood"
	"github.com/albapepper/mindsaathi/internal/notifications"
)

// Error codes carried in ErrorResponse.
const (
	CodeInvalidScope     = "INVALID_SCOPE"
	CodeInvalidBody      = "INVALID_BODY"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeSendFailed       = "GATEWAY_SEND_FAILED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL"
)

// ErrorBody describes one failed request.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ErrorResponse is the envelope every error is sent in.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type errorKind struct {
	target     error
	status     int
	code       string
	message    string
	withDetail bool
}

var errorKinds = []errorKind{
	{mood.ErrInvalidScope, http.StatusBadRequest, CodeInvalidScope, "Provide a specific userId", false},
	{mood.ErrStoreUnavailable, http.StatusServiceUnavailable, CodeStoreUnavailable, "Record store unavailable", false},
	{notifications.ErrSendFailed, http.StatusBadGateway, CodeSendFailed, "Failed to send alert", true},
}

// Payload is a rendered analytics body and its validator.
type Payload struct {
	Body []byte
	ETag string
	TTL  time.Duration
	Hit  bool
}

// Rendered writes p, or 304 when the request already holds p's ETag.
// Mood data is per person, so only private caches may keep it.
func Rendered(w http.ResponseWriter, r *http.Request, p Payload) {
	h := w.Header()
	h.Set("ETag", p.ETag)
	h.Set("Cache-Control", fmt.Sprintf("private, max-age=%d", int(p.TTL.Seconds())))
	if p.Hit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}

	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), p.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.Set("Content-Type", "application/json")
	h.Set("Vary", "Accept-Encoding")
	w.WriteHeader(http.StatusOK)
	w.Write(p.Body)
}

// Object encodes v with the given status. Health and alert responses are
// never cached.
func Object(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Failure writes the error envelope.
func Failure(w http.ResponseWriter, status int, body ErrorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: body})
}

// Classify maps err to its status and error body. Errors of no known kind
// are internal and reported as "Failed to <op>".
func Classify(op string, err error) (int, ErrorBody) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.target) {
			continue
		}
		body := ErrorBody{Code: k.code, Message: k.message}
		if k.withDetail {
			body.Detail = err.Error()
		}
		return k.status, body
	}
	return http.StatusInternalServerError, ErrorBody{Code: CodeInternal, Message: "Failed to " + op}
}

// Err classifies err, writes it and returns the status sent.
func Err(w http.ResponseWriter, op string, err error) int {
	status, body := Classify(op, err)
	Failure(w, status, body)
	return status
}
