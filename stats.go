// stats.go: Delivery counters
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import "sync/atomic"

// Stats is a point-in-time copy of a Logger's counters.
type Stats struct {
	// EntriesBuffered counts entries accepted into the buffer.
	EntriesBuffered int64
	// EntriesRejected counts entries refused because the buffer was full
	// and could not be flushed.
	EntriesRejected int64
	// EntriesSent counts entries confirmed by Loki.
	EntriesSent int64
	// BatchesSent counts successful flushes that carried at least one entry.
	BatchesSent int64
	// SendAttempts counts HTTP requests issued, retries included.
	SendAttempts int64
	// Errors counts failed flushes.
	Errors int64
}

type counters struct {
	entriesBuffered atomic.Int64
	entriesRejected atomic.Int64
	entriesSent     atomic.Int64
	batchesSent     atomic.Int64
	sendAttempts    atomic.Int64
	errors          atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		EntriesBuffered: c.entriesBuffered.Load(),
		EntriesRejected: c.entriesRejected.Load(),
		EntriesSent:     c.entriesSent.Load(),
		BatchesSent:     c.batchesSent.Load(),
		SendAttempts:    c.sendAttempts.Load(),
		Errors:          c.errors.Load(),
	}
}
