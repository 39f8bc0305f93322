package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestNewTwilioSender_Unconfigured(t *testing.T) {
	if s := NewTwilioSender("", "token", "http://x", 0, discard); s != nil {
		t.Error("expected nil sender without account SID")
	}
	if s := NewTwilioSender("AC1", "", "http://x", 0, discard); s != nil {
		t.Error("expected nil sender without auth token")
	}

	var s *TwilioSender
	if _, err := s.Send(context.Background(), "+1", "+2", "hi"); !errors.Is(err, ErrGatewayUnconfigured) {
		t.Errorf("nil sender error = %v, want ErrGatewayUnconfigured", err)
	}
}

func TestTwilioSender_Send(t *testing.T) {
	var got url.Values
	var path, user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		user, pass, _ = r.BasicAuth()
		_ = r.ParseForm()
		got = r.PostForm
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"sid":"SM123","status":"queued"}`)
	}))
	defer srv.Close()

	s := NewTwilioSender("AC1", "secret", srv.URL+"/", 0, discard)
	sid, err := s.Send(context.Background(), "+911", "+100", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sid != "SM123" {
		t.Errorf("sid = %q, want SM123", sid)
	}
	if path != "/2010-04-01/Accounts/AC1/Messages.json" {
		t.Errorf("path = %q", path)
	}
	if user != "AC1" || pass != "secret" {
		t.Errorf("basic auth = %q/%q", user, pass)
	}
	if got.Get("To") != "+911" || got.Get("From") != "+100" || got.Get("Body") != "hello" {
		t.Errorf("form = %v", got)
	}
}

func TestTwilioSender_SendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":21211,"message":"Invalid 'To' Phone Number"}`)
	}))
	defer srv.Close()

	s := NewTwilioSender("AC1", "secret", srv.URL, 0, discard)
	_, err := s.Send(context.Background(), "bad", "+100", "hello")
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("error = %v, want ErrSendFailed", err)
	}
	if !strings.Contains(err.Error(), "Invalid 'To' Phone Number") {
		t.Errorf("error should carry provider message, got %v", err)
	}
}

func TestTwilioSender_SendUnreadableSuccess(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>accepted</html>`},
		{name: "no sid", body: `{"status":"queued"}`},
		{name: "empty", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			s := NewTwilioSender("AC1", "secret", srv.URL, 0, discard)
			sid, err := s.Send(context.Background(), "+911", "+100", "hello")
			if !errors.Is(err, ErrSendFailed) {
				t.Fatalf("error = %v, want ErrSendFailed", err)
			}
			if sid != "" {
				t.Errorf("sid = %q, want empty", sid)
			}
		})
	}
}

type recordingGateway struct {
	to, from, body string
	calls          int
}

func (g *recordingGateway) Send(_ context.Context, to, from, body string) (string, error) {
	g.calls++
	g.to, g.from, g.body = to, from, body
	return "SM1", nil
}

func TestNotifier(t *testing.T) {
	gw := &recordingGateway{}

	tests := []struct {
		name     string
		notifier *Notifier
		override string
		ready    bool
		wantTo   string
	}{
		{name: "default recipient", notifier: NewNotifier(gw, "+100", "+200"), ready: true, wantTo: "+200"},
		{name: "override recipient", notifier: NewNotifier(gw, "+100", "+200"), override: "+300", ready: true, wantTo: "+300"},
		{name: "override fills missing default", notifier: NewNotifier(gw, "+100", ""), override: "+300", ready: true, wantTo: "+300"},
		{name: "no gateway", notifier: NewNotifier(nil, "+100", "+200")},
		{name: "no from number", notifier: NewNotifier(gw, "", "+200")},
		{name: "no recipient", notifier: NewNotifier(gw, "+100", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw.calls = 0
			if got := tt.notifier.Ready(tt.override); got != tt.ready {
				t.Fatalf("Ready = %v, want %v", got, tt.ready)
			}
			sid, err := tt.notifier.Notify(context.Background(), tt.override, "body")
			if !tt.ready {
				if !errors.Is(err, ErrGatewayUnconfigured) {
					t.Errorf("error = %v, want ErrGatewayUnconfigured", err)
				}
				if gw.calls != 0 {
					t.Error("gateway should not be called")
				}
				return
			}
			if err != nil || sid != "SM1" {
				t.Fatalf("Notify = %q, %v", sid, err)
			}
			if gw.to != tt.wantTo || gw.from != "+100" {
				t.Errorf("sent to %q from %q", gw.to, gw.from)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "sadness all history",
			got:  SadnessMessage("Asha", 5, 0),
			want: "Mind Saathi Alert: Asha has 5 sad entries. Please check in.",
		},
		{
			name: "sadness lookback",
			got:  SadnessMessage("Asha", 6, 7),
			want: "Mind Saathi Alert: Asha has 6 sad entries in last 7 days. Please check in.",
		},
		{
			name: "night logins",
			got:  NightLoginMessage("Ravi", 6),
			want: "Mind Saathi Alert: Ravi is awakening a lot at night (logins 6 between 12–6 AM).",
		},
		{
			name: "streak",
			got:  StreakMessage("Asha", 5),
			want: "Mind Saathi Alert: Asha has reported feeling sad for 5 consecutive entries. Please check in.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q\nwant %q", tt.got, tt.want)
			}
		})
	}
}
