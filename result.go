// result.go: Return codes for Log and Flush
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

// Result is the outcome of a Log or Flush call. A Result other than
// ResultSuccess or ResultBuffered is always paired with a non-nil error
// carrying the details.
type Result uint8

const (
	// ResultSuccess means the buffered batch was accepted by Loki, or there
	// was nothing to send.
	ResultSuccess Result = iota
	// ResultBuffered means the entry was stored and will be sent by a later flush.
	ResultBuffered
	// ResultNotInitialized means Initialize has not succeeded yet.
	ResultNotInitialized
	// ResultDisconnected means the network link stayed down for every attempt.
	ResultDisconnected
	// ResultHTTPError means Loki rejected the batch with a 4xx/5xx status, or
	// the transport kept failing until retries ran out.
	ResultHTTPError
	// ResultInvalidResponse means Loki kept answering with a status that is
	// neither 204 nor an error.
	ResultInvalidResponse
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "SUCCESS"
	case ResultBuffered:
		return "BUFFERED"
	case ResultNotInitialized:
		return "NOT_INITIALIZED"
	case ResultDisconnected:
		return "DISCONNECTED"
	case ResultHTTPError:
		return "HTTP_ERROR"
	case ResultInvalidResponse:
		return "INVALID_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// OK reports whether r is ResultSuccess or ResultBuffered.
func (r Result) OK() bool {
	return r == ResultSuccess || r == ResultBuffered
}
