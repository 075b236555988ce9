// format.go: Batch formatting for the Loki push API
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	"encoding/json"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// Label names set on every stream.
const (
	LabelService = "service"
	LabelDevice  = "device"
	LabelLevel   = "level"
)

// Labels are the stream labels shared by every batch of a Logger.
type Labels struct {
	Service string
	Device  string
	// Extra holds static labels added to every stream. They never replace
	// the service, device or level labels.
	Extra map[string]string
}

// Stream is one Loki stream: a label set and its [timestamp, line] values.
type Stream struct {
	Labels map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type pushRequest struct {
	Streams []Stream `json:"streams"`
}

// FormatBatch groups entries into one stream per level present, in
// increasing level order. Values keep their append order. Levels without
// entries produce no stream; an empty input yields an empty, non-nil slice.
func FormatBatch(entries []Entry, labels Labels) []Stream {
	streams := make([]Stream, 0, len(Levels))
	for _, level := range Levels {
		var values [][2]string
		for _, e := range entries {
			if e.Level == level {
				values = append(values, [2]string{e.Timestamp, e.Message})
			}
		}
		if len(values) == 0 {
			continue
		}
		streams = append(streams, Stream{
			Labels: labels.forLevel(level),
			Values: values,
		})
	}
	return streams
}

func (l Labels) forLevel(level Level) map[string]string {
	m := make(map[string]string, len(l.Extra)+3)
	for k, v := range l.Extra {
		m[k] = v
	}
	m[LabelService] = l.Service
	m[LabelDevice] = l.Device
	m[LabelLevel] = level.String()
	return m
}

// EncodeBatch writes streams as a Loki push request body.
func EncodeBatch(w io.Writer, streams []Stream) error {
	if streams == nil {
		streams = []Stream{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(pushRequest{Streams: streams}); err != nil {
		return goerrors.Wrap(err, ErrCodeEncode, "failed to encode push request")
	}
	return nil
}
