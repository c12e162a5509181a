package model

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedOutput marks provider output that does not match the extraction schema.
var ErrMalformedOutput = errors.New("malformed extraction output")

// ErrExtractionUnavailable marks an extraction that did not run to completion
// (provider down, malformed output, deadline). The text may still hold jobs.
var ErrExtractionUnavailable = errors.New("extraction unavailable")

// ErrNoCredentials is returned when an inference provider is configured without an API key.
var ErrNoCredentials = errors.New("inference provider credentials not configured")

// HTTPError wraps a provider status code so retry logic can inspect it.
type HTTPError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s HTTP %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s HTTP %d", e.Provider, e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ParseRetryAfter reads a Retry-After header in either delay-seconds or
// HTTP-date form. Absent, unparseable or past values give zero.
func ParseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	at, err := http.ParseTime(value)
	if err != nil {
		return 0
	}
	if d := time.Until(at).Round(time.Second); d > 0 {
		return d
	}
	return 0
}
