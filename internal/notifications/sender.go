package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const sendTimeout = 30 * time.Second

// TwilioSender sends SMS through the Twilio Messages API.
// Nil-safe: when not configured, Send returns ErrGatewayUnconfigured.
type TwilioSender struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewTwilioSender creates a sender. Returns nil if accountSID or authToken
// is empty (sending disabled). perMinute paces sends; <= 0 disables pacing.
func NewTwilioSender(accountSID, authToken, baseURL string, perMinute int, logger *slog.Logger) *TwilioSender {
	if accountSID == "" || authToken == "" {
		return nil
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), 1)
	}
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: sendTimeout},
		limiter:    limiter,
		logger:     logger,
	}
}

// twilioResponse is the subset of the Messages API response we read.
type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Send posts one message and returns its SID.
func (s *TwilioSender) Send(ctx context.Context, to, from, body string) (string, error) {
	if s == nil {
		return "", ErrGatewayUnconfigured
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: wait for send slot: %w", ErrSendFailed, err)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	apiURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, url.PathEscape(s.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrSendFailed, err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrSendFailed, err)
	}
	var result twilioResponse
	decodeErr := json.Unmarshal(raw, &result)

	if resp.StatusCode >= 400 {
		msg := result.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("%w: twilio %d: %s", ErrSendFailed, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrSendFailed, decodeErr)
	}
	if result.SID == "" {
		return "", fmt.Errorf("%w: response has no message sid", ErrSendFailed)
	}

	s.logger.Debug("SMS accepted", "sid", result.SID, "status", result.Status)
	return result.SID, nil
}
