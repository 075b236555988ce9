// clock.go: Time sources for timestamps and retry waits
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"strconv"
	"time"

	"github.com/agilira/go-timecache"
)

// syncThreshold is the earliest wall-clock reading accepted as synchronized
// (2021-01-01T00:00:00Z). A clock behind it has not been set yet.
var syncThreshold = time.Unix(1609459200, 0)

// TimeSource supplies wall-clock readings. When passed in Config it is also
// checked for synchronization during Initialize.
type TimeSource interface {
	Now() time.Time
}

// TimeSourceFunc adapts a function to TimeSource.
type TimeSourceFunc func() time.Time

func (f TimeSourceFunc) Now() time.Time { return f() }

// Clock is the time abstraction used by the Logger: Now stamps entries and
// After paces retry waits and the periodic flusher.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// CachedClock returns the default Clock. Now reads the process-wide
// go-timecache clock, which avoids a time.Now call per log entry.
func CachedClock() Clock { return cachedClock{} }

type cachedClock struct{}

func (cachedClock) Now() time.Time { return time.Unix(0, timecache.CachedTimeNano()) }

func (cachedClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// sourceClock stamps entries from a caller-supplied TimeSource while keeping
// the waits of the underlying clock.
type sourceClock struct {
	source TimeSource
	Clock
}

func (c sourceClock) Now() time.Time { return c.source.Now() }

// clockSynced reports whether t is a plausible synchronized reading.
func clockSynced(t time.Time) bool {
	return !t.Before(syncThreshold)
}

// FormatTimestamp renders t the way the Loki push API expects: seconds since
// the epoch followed by the zero-padded 9-digit nanosecond fraction.
func FormatTimestamp(t time.Time) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendInt(buf, t.Unix(), 10)
	nanos := strconv.Itoa(t.Nanosecond())
	for i := len(nanos); i < 9; i++ {
		buf = append(buf, '0')
	}
	return string(append(buf, nanos...))
}
