// buffer.go: Fixed-capacity buffer of pending entries
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"unicode/utf8"

	goerrors "github.com/agilira/go-errors"
)

const (
	// DefaultBufferCapacity is the number of entries held before a flush is forced.
	DefaultBufferCapacity = 10

	// MaxMessageLength is the maximum message size in bytes. Longer messages
	// are truncated, never rejected.
	MaxMessageLength = 255
)

// Entry is a single buffered log record. Entries are immutable once appended.
type Entry struct {
	Level     Level
	Message   string
	Timestamp string
}

// NewEntry builds an Entry, truncating message to MaxMessageLength. Levels
// above CriticalLevel are recorded as CriticalLevel.
func NewEntry(level Level, message, timestamp string) Entry {
	if !level.Valid() {
		level = CriticalLevel
	}
	return Entry{
		Level:     level,
		Message:   truncateMessage(message),
		Timestamp: timestamp,
	}
}

// truncateMessage cuts s to at most MaxMessageLength bytes without splitting
// a UTF-8 sequence.
func truncateMessage(s string) string {
	if len(s) <= MaxMessageLength {
		return s
	}
	cut := MaxMessageLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Buffer is an ordered, fixed-capacity sequence of entries.
//
// The backing array is allocated once; Clear keeps it for reuse. Buffer is
// not safe for concurrent use, the Logger serializes access to it.
type Buffer struct {
	entries []Entry
}

// NewBuffer creates a buffer holding at most capacity entries.
// A non-positive capacity selects DefaultBufferCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &Buffer{entries: make([]Entry, 0, capacity)}
}

// Append adds entry at the end. It fails with ErrCodeBufferFull when the
// buffer already holds Cap() entries; the caller has to flush first.
func (b *Buffer) Append(entry Entry) error {
	if b.IsFull() {
		return goerrors.New(ErrCodeBufferFull, "log buffer is full").
			WithContext("capacity", cap(b.entries))
	}
	b.entries = append(b.entries, entry)
	return nil
}

// Clear drops every entry.
func (b *Buffer) Clear() {
	clear(b.entries)
	b.entries = b.entries[:0]
}

func (b *Buffer) Len() int { return len(b.entries) }

func (b *Buffer) Cap() int { return cap(b.entries) }

func (b *Buffer) IsEmpty() bool { return len(b.entries) == 0 }

func (b *Buffer) IsFull() bool { return len(b.entries) == cap(b.entries) }

// Snapshot returns a copy of the buffered entries in append order.
func (b *Buffer) Snapshot() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}
