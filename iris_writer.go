// iris_writer.go: Iris SyncWriter backed by a lokiship Logger
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"sync/atomic"

	"github.com/agilira/iris"
)

// IrisWriter implements iris.SyncWriter so an Iris logger can ship its
// records through a Logger. Records keep their level; Iris levels above
// Error (DPanic, Panic, Fatal) map to CriticalLevel.
type IrisWriter struct {
	logger         *Logger
	recordsWritten atomic.Int64
	recordsFailed  atomic.Int64
}

// NewIrisWriter wraps logger. The logger should already be initialized;
// until it is, records only reach the console.
func NewIrisWriter(logger *Logger) *IrisWriter {
	return &IrisWriter{logger: logger}
}

// WriteRecord implements iris.SyncWriter. It returns the error of the
// underlying Log call, which is non-nil when the record could not be
// buffered or an immediate flush failed.
func (w *IrisWriter) WriteRecord(record *iris.Record) error {
	if record == nil {
		return nil
	}
	if _, err := w.logger.Log(irisLevel(record.Level), record.Msg); err != nil {
		w.recordsFailed.Add(1)
		return err
	}
	w.recordsWritten.Add(1)
	return nil
}

// RecordsWritten returns how many records were logged without error.
func (w *IrisWriter) RecordsWritten() int64 { return w.recordsWritten.Load() }

// RecordsFailed returns how many records got an error back from the logger.
func (w *IrisWriter) RecordsFailed() int64 { return w.recordsFailed.Load() }

// Close flushes the underlying logger.
func (w *IrisWriter) Close() error {
	return w.logger.Close()
}

func irisLevel(level iris.Level) Level {
	switch level {
	case iris.Debug:
		return DebugLevel
	case iris.Info:
		return InfoLevel
	case iris.Warn:
		return WarningLevel
	case iris.Error:
		return ErrorLevel
	}
	if level > iris.Error {
		return CriticalLevel
	}
	return DebugLevel
}
