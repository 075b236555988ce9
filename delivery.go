// delivery.go: Send-with-retry protocol against the Loki push endpoint
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	goerrors "github.com/agilira/go-errors"
)

const (
	userAgent = "lokiship"

	// maxDrain bounds how much of a response body is read before closing it.
	maxDrain = 64 * 1024
)

// HTTPDoer executes a single HTTP request. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NetworkMonitor reports whether the network link is usable. It is checked
// before every attempt; a link that is down counts as a transient failure.
type NetworkMonitor interface {
	Connected() bool
}

// NetworkMonitorFunc adapts a function to NetworkMonitor.
type NetworkMonitorFunc func() bool

func (f NetworkMonitorFunc) Connected() bool { return f() }

type outcome uint8

const (
	outcomeSuccess outcome = iota
	outcomeTransient
	outcomeFatal
)

// classify maps the result of one POST to an outcome, the Result to report
// if no further attempt follows, and the error describing it.
func classify(status int, err error) (outcome, Result, error) {
	switch {
	case err != nil:
		return outcomeTransient, ResultHTTPError,
			goerrors.Wrap(err, ErrCodeTransport, "failed to send request")
	case status == http.StatusNoContent:
		return outcomeSuccess, ResultSuccess, nil
	case status >= 400 && status < 600:
		return outcomeFatal, ResultHTTPError,
			goerrors.New(ErrCodeHTTPStatus, fmt.Sprintf("loki returned status %d", status)).
				WithContext("status", status)
	default:
		return outcomeTransient, ResultInvalidResponse,
			goerrors.New(ErrCodeUnexpectedStatus, fmt.Sprintf("unexpected status %d from loki", status)).
				WithContext("status", status)
	}
}

// sender posts encoded batches to one endpoint.
type sender struct {
	client   HTTPDoer
	network  NetworkMonitor
	clock    Clock
	policy   RetryPolicy
	endpoint string
	username string
	apiKey   string
	tenantID string
	stats    *counters
}

// send delivers payload, retrying transient failures up to the policy's
// attempt budget. 4xx and 5xx responses are returned without retry.
func (s *sender) send(ctx context.Context, payload []byte) (Result, error) {
	attempts := s.policy.attempts()
	result, err := ResultHTTPError, error(nil)

	for attempt := 0; attempt < attempts; attempt++ {
		var o outcome
		if s.network != nil && !s.network.Connected() {
			o, result = outcomeTransient, ResultDisconnected
			err = goerrors.New(ErrCodeNetworkDown, "network link is down")
		} else {
			status, postErr := s.post(ctx, payload)
			o, result, err = classify(status, postErr)
		}

		switch {
		case o == outcomeSuccess:
			return ResultSuccess, nil
		case !s.policy.retryable(o):
			return result, err
		case attempt == attempts-1:
			return result, err
		}

		if waitErr := s.policy.wait(ctx, s.clock, attempt); waitErr != nil {
			return result, goerrors.Wrap(waitErr, ErrCodeTransport, "retry canceled after: "+err.Error())
		}
	}

	return ResultHTTPError, err
}

// post performs one attempt. The response body is always drained and closed
// before returning.
func (s *sender) post(ctx context.Context, payload []byte) (int, error) {
	if s.stats != nil {
		s.stats.sendAttempts.Add(1)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if s.tenantID != "" {
		req.Header.Set("X-Scope-OrgID", s.tenantID)
	}
	if s.username != "" && s.apiKey != "" {
		req.SetBasicAuth(s.username, s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	return resp.StatusCode, nil
}
