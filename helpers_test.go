// helpers_test.go: Test doubles shared by the lokiship tests
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock advances by step on every Now and by d on every After, whose
// channel fires immediately. Requested waits are recorded.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	step  time.Duration
	waits []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:  time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC),
		step: time.Millisecond,
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, d)
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

// blockingClock never fires its timers.
type blockingClock struct{}

func (blockingClock) Now() time.Time                       { return time.Now() }
func (blockingClock) After(time.Duration) <-chan time.Time { return make(chan time.Time) }

// doerFunc adapts a function to HTTPDoer.
type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// trackingBody records whether it was closed.
type trackingBody struct {
	io.Reader
	mu     sync.Mutex
	closed bool
}

func (b *trackingBody) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

func (b *trackingBody) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func response(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
	}
}

// pushed is a request received by mockLoki.
type pushed struct {
	Header http.Header
	Body   pushRequest
}

// mockLoki is an httptest server answering each push with the next status
// of its script; the last status repeats.
type mockLoki struct {
	t        testing.TB
	server   *httptest.Server
	mu       sync.Mutex
	statuses []int
	requests []pushed
}

func newMockLoki(t testing.TB, statuses ...int) *mockLoki {
	t.Helper()
	if len(statuses) == 0 {
		statuses = []int{http.StatusNoContent}
	}
	m := &mockLoki{t: t, statuses: statuses}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockLoki) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/loki/api/v1/push" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	var body pushRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		m.t.Errorf("Failed to decode push request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.requests = append(m.requests, pushed{Header: r.Header.Clone(), Body: body})
	status := m.statuses[0]
	if len(m.statuses) > 1 {
		m.statuses = m.statuses[1:]
	}
	m.mu.Unlock()

	w.WriteHeader(status)
}

func (m *mockLoki) URL() string { return m.server.URL + "/loki/api/v1/push" }

func (m *mockLoki) SetStatus(status int) {
	m.mu.Lock()
	m.statuses = []int{status}
	m.mu.Unlock()
}

func (m *mockLoki) Requests() []pushed {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pushed(nil), m.requests...)
}

// newTestLogger returns an initialized logger talking to m with a fake
// clock and no console output.
func newTestLogger(t *testing.T, m *mockLoki, cfg Config) (*Logger, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	cfg.Endpoint = m.URL()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "test-service"
	}
	if cfg.DeviceLabel == "" {
		cfg.DeviceLabel = "test-device"
	}
	logger, err := Open(cfg, WithClock(clock), WithConsole(DiscardConsole))
	if err != nil {
		t.Fatalf("Failed to open logger: %v", err)
	}
	return logger, clock
}

// recordingConsole keeps every mirrored line.
type recordingConsole struct {
	mu    sync.Mutex
	lines []string
}

func (c *recordingConsole) WriteEntry(level Level, message string) {
	c.mu.Lock()
	c.lines = append(c.lines, "["+level.String()+"] "+message)
	c.mu.Unlock()
}

func (c *recordingConsole) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}
