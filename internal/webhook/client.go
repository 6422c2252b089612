// Package webhook posts JSON to the automation webhooks that answer chat
// requests, retrying transient failures.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ferdiebergado/chatrelay/internal/pkg/web"
)

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxResponseBytes = 1 << 20
	errBodyExcerpt          = 200
)

// Poster sends a bearer-authenticated JSON payload and decodes the JSON reply into out.
type Poster interface {
	Post(ctx context.Context, webhookURL, bearer string, payload, out any) error
}

type Client struct {
	httpClient       *http.Client
	timeout          time.Duration
	maxRetries       int
	backoff          Backoff
	maxResponseBytes int64
}

var _ Poster = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(cl *Client) {
		if n >= 0 {
			cl.maxRetries = n
		}
	}
}

func WithBackoff(b Backoff) Option {
	return func(cl *Client) {
		if b != nil {
			cl.backoff = b
		}
	}
}

// WithMaxResponseBytes limits how much of a reply is read.
func WithMaxResponseBytes(n int64) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxResponseBytes = n
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:          defaultTimeout,
		backoff:          ExponentialBackoff(defaultBackoffBase),
		maxResponseBytes: defaultMaxResponseBytes,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Post delivers payload to webhookURL. Network errors and 408, 425, 429 or 5xx
// replies are retried. Other 4xx replies fail at once with ErrPermanentFailure.
// An attempt that times out is not retried, see ErrReplyTimeout.
// A nil out discards the reply body.
func (c *Client) Post(ctx context.Context, webhookURL, bearer string, payload, out any) error {
	if err := validateURL(webhookURL); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff(attempt)
			slog.Warn("Retrying webhook", "url", webhookURL, "attempt", attempt+1, "delay", delay, "reason", lastErr)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%w: %w", ErrDeliveryFailed, ctx.Err())
			case <-timer.C:
			}
		}

		reply, status, err := c.attempt(ctx, webhookURL, bearer, body)
		if err == nil {
			return decode(reply, out)
		}

		if errors.Is(err, ErrDecodeResponse) {
			return err
		}

		if errors.Is(err, ErrReplyTimeout) {
			return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
		}

		lastErr = err
		if isPermanent(status) {
			return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}

		if ctx.Err() != nil {
			break
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, c.maxRetries+1, lastErr)
}

func (c *Client) attempt(ctx context.Context, webhookURL, bearer string, body []byte) ([]byte, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(web.HeaderContentType, web.MimeJSON)
	req.Header.Set("Accept", web.MimeJSON)
	if bearer != "" {
		req.Header.Set(web.HeaderAuthorization, web.Bearer(bearer))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if timedOut(ctx, reqCtx) {
			return nil, 0, fmt.Errorf("%w: post %s: %w", ErrReplyTimeout, req.URL.Redacted(), err)
		}
		return nil, 0, fmt.Errorf("post %s: %w", req.URL.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	reply, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		if timedOut(ctx, reqCtx) {
			return nil, resp.StatusCode, fmt.Errorf("%w: read response: %w", ErrReplyTimeout, err)
		}
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	slog.Debug("Webhook replied", "url", req.URL.Redacted(), "status", resp.StatusCode,
		"bytes", len(reply), "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: excerpt(reply)}
	}

	if int64(len(reply)) > c.maxResponseBytes {
		return nil, resp.StatusCode, fmt.Errorf("%w: response exceeds %d bytes", ErrDecodeResponse, c.maxResponseBytes)
	}

	return reply, resp.StatusCode, nil
}

// timedOut reports whether the per-attempt deadline expired while the caller's
// context is still live.
func timedOut(ctx, reqCtx context.Context) bool {
	return ctx.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded)
}

func decode(reply []byte, out any) error {
	if out == nil {
		return nil
	}

	if len(bytes.TrimSpace(reply)) == 0 {
		return fmt.Errorf("%w: empty response", ErrDecodeResponse)
	}

	if err := json.Unmarshal(reply, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q is not supported", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	return nil
}

// isPermanent reports 4xx statuses that will not change on retry.
func isPermanent(status int) bool {
	if status < 400 || status >= 500 {
		return false
	}

	switch status {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return false
	default:
		return true
	}
}

func excerpt(body []byte) string {
	s := strings.Join(strings.Fields(string(body)), " ")
	if len(s) > errBodyExcerpt {
		cut := errBodyExcerpt
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
