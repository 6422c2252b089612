package webhook

import (
	"errors"
	"strconv"
)

var (
	ErrInvalidURL       = errors.New("webhook: invalid url")
	ErrInvalidPayload   = errors.New("webhook: invalid payload")
	ErrDeliveryFailed   = errors.New("webhook: delivery failed")
	ErrPermanentFailure = errors.New("webhook: permanent failure")
	ErrDecodeResponse   = errors.New("webhook: cannot decode response")

	// ErrReplyTimeout reports an attempt that ran out of time after the request
	// went out. The webhook may still act on it, so it is not retried.
	ErrReplyTimeout = errors.New("webhook: timed out waiting for reply")
)

// StatusError reports a non-2xx response. Body is a truncated single-line
// excerpt suitable for logs.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "webhook returned status " + strconv.Itoa(e.StatusCode)
	}
	return "webhook returned status " + strconv.Itoa(e.StatusCode) + ": " + e.Body
}
