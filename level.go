// level.go: Severity levels for shipped entries
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"strconv"
	"strings"

	goerrors "github.com/agilira/go-errors"
)

// Level is the severity of a log entry. Levels are totally ordered:
// DebugLevel < InfoLevel < WarningLevel < ErrorLevel < CriticalLevel.
//
// The string form of a level is used both for console output and as the
// value of the "level" label on the Loki stream.
type Level uint8

const (
	// DebugLevel is for detailed diagnostic output.
	DebugLevel Level = iota
	// InfoLevel is for general operational messages.
	InfoLevel
	// WarningLevel is for conditions that deserve attention.
	WarningLevel
	// ErrorLevel is for failures the application can survive.
	ErrorLevel
	// CriticalLevel is for failures that need immediate action.
	CriticalLevel
)

// Levels lists every level in increasing severity.
var Levels = [...]Level{DebugLevel, InfoLevel, WarningLevel, ErrorLevel, CriticalLevel}

// String returns the uppercase wire name of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarningLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l <= CriticalLevel
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and accepts the short forms "warn" and "crit".
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARNING", "WARN":
		return WarningLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "CRITICAL", "CRIT":
		return CriticalLevel, nil
	}
	return InfoLevel, goerrors.New(ErrCodeConfig, "unrecognized level "+strconv.Quote(name))
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so levels can be named in
// YAML and JSON configuration files.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
