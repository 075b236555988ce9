// logger.go: Buffered Loki logger
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	goerrors "github.com/agilira/go-errors"
)

// Logger buffers log entries and ships them to Loki in batches.
//
// A Logger is created uninitialized: Log mirrors to the console but returns
// ResultNotInitialized until Initialize succeeds. All methods are safe for
// concurrent use. Log and Flush are serialized, so at most one flush is in
// flight and a Log call that triggers a flush may block for up to
// MaxRetries × RetryDelay plus request timeouts.
type Logger struct {
	console ConsoleSink
	client  HTTPDoer
	network NetworkMonitor
	clock   Clock
	bufPool sync.Pool
	stats   counters

	mu          sync.Mutex
	initialized bool
	config      Config
	labels      Labels
	stamp       Clock
	buffer      *Buffer
	sender      *sender
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// Option configures the collaborators of a Logger.
type Option func(*Logger)

// WithConsole sets the console mirror (default: colored lines on stderr).
func WithConsole(sink ConsoleSink) Option {
	return func(l *Logger) {
		if sink != nil {
			l.console = sink
		}
	}
}

// WithHTTPClient sets the HTTP transport used to reach Loki.
func WithHTTPClient(client HTTPDoer) Option {
	return func(l *Logger) { l.client = client }
}

// WithNetworkMonitor sets the link check run before every send attempt.
// Without one the link is assumed up.
func WithNetworkMonitor(monitor NetworkMonitor) Option {
	return func(l *Logger) { l.network = monitor }
}

// WithClock sets the clock used for timestamps and retry waits.
func WithClock(clock Clock) Option {
	return func(l *Logger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// New creates an uninitialized Logger.
func New(opts ...Option) *Logger {
	l := &Logger{
		console: NewConsole(os.Stderr),
		clock:   CachedClock(),
	}
	l.bufPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 4*1024))
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open creates a Logger and initializes it with config.
func Open(config Config, opts ...Option) (*Logger, error) {
	l := New(opts...)
	if err := l.Initialize(config); err != nil {
		return nil, err
	}
	return l, nil
}

// Initialize validates config and makes the logger ready to ship entries.
//
// It fails when the endpoint lacks an http:// or https:// prefix, when
// config.TimeSource reads a time before 2021-01-01 UTC, or when the logger
// is already initialized. On failure the logger is left exactly as it was.
func (l *Logger) Initialize(config Config) error {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return err
	}

	stamp := l.clock
	if config.TimeSource != nil {
		now := config.TimeSource.Now()
		if !clockSynced(now) {
			return goerrors.New(ErrCodeClockNotSynced, "wall clock is not synchronized").
				WithContext("now", now.UTC().Format(time.RFC3339))
		}
		stamp = sourceClock{source: config.TimeSource, Clock: l.clock}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initialized {
		return goerrors.New(ErrCodeAlreadyInitialized, "logger is already initialized")
	}

	client := l.client
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	l.config = config
	l.labels = config.labels()
	l.stamp = stamp
	l.buffer = NewBuffer(config.BufferCapacity)
	l.sender = &sender{
		client:   client,
		network:  l.network,
		clock:    l.clock,
		policy:   config.retryPolicy(),
		endpoint: config.Endpoint,
		username: config.Username,
		apiKey:   config.APIKey,
		tenantID: config.TenantID,
		stats:    &l.stats,
	}
	l.initialized = true

	if config.FlushInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		l.cancel = cancel
		l.wg.Add(1)
		go l.flushLoop(ctx, config.FlushInterval)
	}
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (l *Logger) Initialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initialized
}

// Len returns the number of buffered entries.
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buffer == nil {
		return 0
	}
	return l.buffer.Len()
}

// Stats returns a snapshot of the delivery counters.
func (l *Logger) Stats() Stats {
	return l.stats.snapshot()
}

// Log buffers message at level. It returns ResultBuffered, or the result of
// the flush that Config.ImmediateFlush triggers.
func (l *Logger) Log(level Level, message string) (Result, error) {
	return l.LogContext(context.Background(), level, message, false)
}

// LogAndFlush buffers message and flushes the buffer right away.
func (l *Logger) LogAndFlush(level Level, message string) (Result, error) {
	return l.LogContext(context.Background(), level, message, true)
}

// Debug logs message at DebugLevel.
func (l *Logger) Debug(message string) (Result, error) { return l.Log(DebugLevel, message) }

// Info logs message at InfoLevel.
func (l *Logger) Info(message string) (Result, error) { return l.Log(InfoLevel, message) }

// Warning logs message at WarningLevel.
func (l *Logger) Warning(message string) (Result, error) { return l.Log(WarningLevel, message) }

// Error logs message at ErrorLevel.
func (l *Logger) Error(message string) (Result, error) { return l.Log(ErrorLevel, message) }

// Critical logs message at CriticalLevel.
func (l *Logger) Critical(message string) (Result, error) { return l.Log(CriticalLevel, message) }

// LogContext is the full form of Log. The message is always mirrored to the
// console first. Levels outside the defined range are logged as
// CriticalLevel on the console and in Loki alike.
//
// When the buffer is full a flush runs before the entry is added; if that
// flush fails its result is returned and the entry is rejected, so nothing
// already buffered is ever dropped. ctx bounds the network calls and retry
// waits of any flush performed.
func (l *Logger) LogContext(ctx context.Context, level Level, message string, immediateFlush bool) (Result, error) {
	if !level.Valid() {
		level = CriticalLevel
	}
	l.console.WriteEntry(level, message)

	l.mu.Lock()
	if !l.initialized {
		l.mu.Unlock()
		return ResultNotInitialized, errNotInitialized()
	}
	result, err := l.logLocked(ctx, level, message, immediateFlush || l.config.ImmediateFlush)
	onError := l.config.OnError
	l.mu.Unlock()

	if err != nil && onError != nil {
		onError(err)
	}
	return result, err
}

func (l *Logger) logLocked(ctx context.Context, level Level, message string, immediateFlush bool) (Result, error) {
	if l.buffer.IsFull() {
		if result, err := l.flushLocked(ctx); err != nil {
			l.stats.entriesRejected.Add(1)
			return result, err
		}
	}

	entry := NewEntry(level, message, FormatTimestamp(l.stamp.Now()))
	if err := l.buffer.Append(entry); err != nil {
		l.stats.entriesRejected.Add(1)
		return ResultHTTPError, err
	}
	l.stats.entriesBuffered.Add(1)

	if immediateFlush {
		return l.flushLocked(ctx)
	}
	return ResultBuffered, nil
}

// Flush sends every buffered entry as one batch. The buffer is cleared only
// when Loki accepts the batch; on failure it is kept for the next flush.
// Flushing an empty buffer succeeds without any network call.
func (l *Logger) Flush() (Result, error) {
	return l.FlushContext(context.Background())
}

// FlushContext is Flush bounded by ctx.
func (l *Logger) FlushContext(ctx context.Context) (Result, error) {
	l.mu.Lock()
	if !l.initialized {
		l.mu.Unlock()
		return ResultNotInitialized, errNotInitialized()
	}
	result, err := l.flushLocked(ctx)
	onError := l.config.OnError
	l.mu.Unlock()

	if err != nil && onError != nil {
		onError(err)
	}
	return result, err
}

func (l *Logger) flushLocked(ctx context.Context) (Result, error) {
	if l.buffer.IsEmpty() {
		return ResultSuccess, nil
	}

	entries := l.buffer.Snapshot()

	buf := l.bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		l.bufPool.Put(buf)
	}()

	if err := EncodeBatch(buf, FormatBatch(entries, l.labels)); err != nil {
		l.stats.errors.Add(1)
		return ResultHTTPError, err
	}

	result, err := l.sender.send(ctx, buf.Bytes())
	if err != nil {
		l.stats.errors.Add(1)
		return result, err
	}

	l.buffer.Clear()
	l.stats.batchesSent.Add(1)
	l.stats.entriesSent.Add(int64(len(entries)))
	return ResultSuccess, nil
}

func (l *Logger) flushLoop(ctx context.Context, interval time.Duration) {
	defer l.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.clock.After(interval):
			_, _ = l.FlushContext(ctx)
		}
	}
}

// Close stops the periodic flusher, if any, and flushes what is buffered.
// The returned error is the error of that final flush.
func (l *Logger) Close() error {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	initialized := l.initialized
	l.mu.Unlock()

	if cancel != nil {
		cancel()
		l.wg.Wait()
	}
	if !initialized {
		return nil
	}
	_, err := l.Flush()
	return err
}
