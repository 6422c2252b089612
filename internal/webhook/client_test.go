package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ferdiebergado/chatrelay/internal/webhook"
)

type conversationReply struct {
	Conversation struct {
		ID      string `json:"id"`
		Subject string `json:"subject"`
	} `json:"conversation"`
	Message string `json:"message"`
}

func newClient(opts ...webhook.Option) *webhook.Client {
	base := []webhook.Option{
		webhook.WithBackoff(webhook.NoBackoff),
		webhook.WithTimeout(2 * time.Second),
		webhook.WithMaxRetries(2),
	}
	return webhook.NewClient(append(base, opts...)...)
}

func TestClient_Post(t *testing.T) {
	t.Parallel()

	var gotAuth, gotContentType, gotMethod string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"conversation":{"id":"c-1","subject":"prosperidade"},"message":"Olá!"}`))
	}))
	t.Cleanup(srv.Close)

	var reply conversationReply
	err := newClient().Post(context.Background(), srv.URL, "tok.en.sig", map[string]string{"subject": "prosperidade"}, &reply)
	if err != nil {
		t.Fatalf("client.Post() returned an error: %v", err)
	}

	if got, want := gotMethod, http.MethodPost; got != want {
		t.Errorf("method = %q, want: %q", got, want)
	}

	if got, want := gotAuth, "Bearer tok.en.sig"; got != want {
		t.Errorf("Authorization = %q, want: %q", got, want)
	}

	if got, want := gotContentType, "application/json"; got != want {
		t.Errorf("Content-Type = %q, want: %q", got, want)
	}

	if got, want := gotBody["subject"], "prosperidade"; got != want {
		t.Errorf("body subject = %q, want: %q", got, want)
	}

	if got, want := reply.Conversation.ID, "c-1"; got != want {
		t.Errorf("reply.Conversation.ID = %q, want: %q", got, want)
	}

	if got, want := reply.Message, "Olá!"; got != want {
		t.Errorf("reply.Message = %q, want: %q", got, want)
	}
}

func TestClient_Post_Retries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		statuses     []int
		wantErr      error
		wantAttempts int32
	}{
		{"Recovers after server error", []int{http.StatusBadGateway, http.StatusOK}, nil, 2},
		{"Retries rate limiting", []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK}, nil, 3},
		{"Gives up after max retries", []int{http.StatusServiceUnavailable}, webhook.ErrDeliveryFailed, 3},
		{"Does not retry client errors", []int{http.StatusUnauthorized}, webhook.ErrPermanentFailure, 1},
		{"Does not retry not found", []int{http.StatusNotFound}, webhook.ErrPermanentFailure, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				n := int(attempts.Add(1))
				status := tc.statuses[min(n, len(tc.statuses))-1]
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"output":"ok"}`))
			}))
			t.Cleanup(srv.Close)

			err := newClient().Post(context.Background(), srv.URL, "t", map[string]string{"text": "oi"}, nil)
			if tc.wantErr == nil && err != nil {
				t.Errorf("client.Post() = %v, want: nil", err)
			}

			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("client.Post() = %v, want: %v", err, tc.wantErr)
			}

			if got, want := attempts.Load(), tc.wantAttempts; got != want {
				t.Errorf("attempts = %d, want: %d", got, want)
			}
		})
	}
}

func TestClient_Post_StatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("plan\nexpired"))
	}))
	t.Cleanup(srv.Close)

	err := newClient().Post(context.Background(), srv.URL, "t", struct{}{}, nil)

	var statusErr *webhook.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("client.Post() = %v, want: a *webhook.StatusError", err)
	}

	if got, want := statusErr.StatusCode, http.StatusForbidden; got != want {
		t.Errorf("statusErr.StatusCode = %d, want: %d", got, want)
	}

	if got, want := statusErr.Body, "plan expired"; got != want {
		t.Errorf("statusErr.Body = %q, want: %q", got, want)
	}
}

func TestClient_Post_StatusErrorExcerpt(t *testing.T) {
	t.Parallel()

	// The 200 byte limit falls inside a two byte rune.
	body := "a" + strings.Repeat("é", 150)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	err := newClient().Post(context.Background(), srv.URL, "t", struct{}{}, nil)

	var statusErr *webhook.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("client.Post() = %v, want: a *webhook.StatusError", err)
	}

	if !utf8.ValidString(statusErr.Body) {
		t.Errorf("statusErr.Body = %q, want: valid UTF-8", statusErr.Body)
	}

	if got, want := statusErr.Body, "a"+strings.Repeat("é", 99)+"..."; got != want {
		t.Errorf("statusErr.Body = %q, want: %q", got, want)
	}
}

func TestClient_Post_TimeoutNotRetried(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`{"output":"late"}`))
	}))
	t.Cleanup(srv.Close)

	client := newClient(webhook.WithTimeout(50 * time.Millisecond))
	err := client.Post(context.Background(), srv.URL, "t", map[string]string{"text": "oi"}, nil)

	if !errors.Is(err, webhook.ErrDeliveryFailed) {
		t.Errorf("client.Post() = %v, want: %v", err, webhook.ErrDeliveryFailed)
	}

	if !errors.Is(err, webhook.ErrReplyTimeout) {
		t.Errorf("client.Post() = %v, want: %v", err, webhook.ErrReplyTimeout)
	}

	if got, want := attempts.Load(), int32(1); got != want {
		t.Errorf("attempts = %d, want: %d", got, want)
	}
}

func TestClient_Post_DecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"Malformed json", `{"output":`},
		{"Empty body", ``},
		{"Too large", `{"output":"` + strings.Repeat("a", 64) + `"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				attempts.Add(1)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(srv.Close)

			var out struct {
				Output string `json:"output"`
			}
			err := newClient(webhook.WithMaxResponseBytes(32)).Post(context.Background(), srv.URL, "t", struct{}{}, &out)
			if !errors.Is(err, webhook.ErrDecodeResponse) {
				t.Errorf("client.Post() = %v, want: %v", err, webhook.ErrDecodeResponse)
			}

			if got, want := attempts.Load(), int32(1); got != want {
				t.Errorf("attempts = %d, want: %d", got, want)
			}
		})
	}
}

func TestClient_Post_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		payload any
		wantErr error
	}{
		{"Empty url", "", struct{}{}, webhook.ErrInvalidURL},
		{"Relative url", "/webhook/message", struct{}{}, webhook.ErrInvalidURL},
		{"Unsupported scheme", "ftp://hooks.example.com/x", struct{}{}, webhook.ErrInvalidURL},
		{"Missing host", "https:///path", struct{}{}, webhook.ErrInvalidURL},
		{"Unencodable payload", "https://hooks.example.com/x", map[string]any{"c": make(chan int)}, webhook.ErrInvalidPayload},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := newClient().Post(context.Background(), tc.url, "t", tc.payload, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("client.Post(%q) = %v, want: %v", tc.url, err, tc.wantErr)
			}
		})
	}
}

func TestClient_Post_ContextCanceledDuringBackoff(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := newClient(webhook.WithBackoff(func(int) time.Duration { return time.Minute }))
	err := client.Post(ctx, srv.URL, "t", struct{}{}, nil)

	if !errors.Is(err, webhook.ErrDeliveryFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("client.Post() = %v, want: %v wrapping %v", err, webhook.ErrDeliveryFailed, context.DeadlineExceeded)
	}
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	backoff := webhook.ExponentialBackoff(100 * time.Millisecond)

	if got := backoff(0); got != 0 {
		t.Errorf("backoff(0) = %v, want: 0", got)
	}

	for attempt, base := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 400 * time.Millisecond} {
		got := backoff(attempt)
		if got < base || got > base+base/10 {
			t.Errorf("backoff(%d) = %v, want: within [%v, %v]", attempt, got, base, base+base/10)
		}
	}

	if got, want := backoff(40), 5*time.Second; got != want {
		t.Errorf("backoff(40) = %v, want: %v", got, want)
	}
}
