// config.go: Logger configuration and defaults
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"net/url"
	"strings"
	"time"

	goerrors "github.com/agilira/go-errors"
)

// DefaultTimeout is the HTTP request timeout of the default client.
const DefaultTimeout = 10 * time.Second

// Config holds the settings applied by Initialize.
//
// Only Endpoint is required. Zero values select the documented defaults.
type Config struct {
	// Endpoint is the Loki push API URL. It must start with http:// or https://.
	// Example: "http://localhost:3100/loki/api/v1/push"
	Endpoint string

	// Username and APIKey enable HTTP basic authentication. Both must be
	// non-empty for the Authorization header to be sent.
	Username string
	APIKey   string

	// ServiceName and DeviceLabel become the "service" and "device" labels
	// of every stream.
	ServiceName string
	DeviceLabel string

	// TenantID is sent as X-Scope-OrgID for multi-tenant Loki setups.
	TenantID string

	// Labels are static labels attached to every stream in addition to
	// service, device and level.
	Labels map[string]string

	// TimeSource, when set, must already read a synchronized wall clock
	// (not before 2021-01-01 UTC) for Initialize to succeed. Entries are
	// then stamped from it. When nil the logger's Clock stamps entries and
	// no check is made.
	TimeSource TimeSource

	// BufferCapacity is the number of entries held before Log forces a
	// flush (default: 10).
	BufferCapacity int

	// MaxRetries is the number of send attempts per flush (default: 3).
	MaxRetries int

	// RetryDelay is the wait between attempts (default: 1s).
	RetryDelay time.Duration

	// Backoff optionally grows the wait between attempts, see ExponentialBackoff.
	Backoff func(attempt int, delay time.Duration) time.Duration

	// Timeout is the HTTP request timeout of the default client (default: 10s).
	// Ignored when an HTTP client is supplied with WithHTTPClient.
	Timeout time.Duration

	// ImmediateFlush flushes after every Log call. With BufferCapacity 1 the
	// logger sends each entry on its own.
	ImmediateFlush bool

	// FlushInterval, when positive, starts a background flush every interval
	// until Close.
	FlushInterval time.Duration

	// OnError is called with every Log or Flush error once the logger is
	// initialized. It runs without internal locks held.
	OnError func(error)
}

func (c Config) withDefaults() Config {
	if c.BufferCapacity <= 0 {
		c.BufferCapacity = DefaultBufferCapacity
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate checks the settings that Initialize refuses.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return goerrors.New(ErrCodeInvalidEndpoint, "loki endpoint must start with http:// or https://").
			WithContext("endpoint", c.Endpoint)
	}
	if _, err := url.Parse(c.Endpoint); err != nil {
		return goerrors.Wrap(err, ErrCodeInvalidEndpoint, "loki endpoint is not a valid URL")
	}
	return nil
}

func (c Config) retryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.MaxRetries,
		Delay:       c.RetryDelay,
		Backoff:     c.Backoff,
	}
}

func (c Config) labels() Labels {
	extra := make(map[string]string, len(c.Labels))
	for k, v := range c.Labels {
		extra[k] = v
	}
	return Labels{Service: c.ServiceName, Device: c.DeviceLabel, Extra: extra}
}
