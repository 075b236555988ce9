// errors.go: Error codes reported by the shipper
//
// Copyright (c) 2025 AGILira
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package lokiship

import (
	goerrors "github.com/agilira/go-errors"
)

// Error codes attached to every error returned by this package.
// Use goerrors.HasCode to test for a specific condition.
const (
	// Configuration errors, returned by Initialize and LoadConfigFile.
	ErrCodeInvalidEndpoint    goerrors.ErrorCode = "LOKISHIP_INVALID_ENDPOINT"
	ErrCodeClockNotSynced     goerrors.ErrorCode = "LOKISHIP_CLOCK_NOT_SYNCED"
	ErrCodeAlreadyInitialized goerrors.ErrorCode = "LOKISHIP_ALREADY_INITIALIZED"
	ErrCodeConfig             goerrors.ErrorCode = "LOKISHIP_CONFIG"

	// State and capacity errors.
	ErrCodeNotInitialized goerrors.ErrorCode = "LOKISHIP_NOT_INITIALIZED"
	ErrCodeBufferFull     goerrors.ErrorCode = "LOKISHIP_BUFFER_FULL"

	// Delivery errors.
	ErrCodeNetworkDown      goerrors.ErrorCode = "LOKISHIP_NETWORK_DOWN"
	ErrCodeHTTPStatus       goerrors.ErrorCode = "LOKISHIP_HTTP_STATUS"
	ErrCodeTransport        goerrors.ErrorCode = "LOKISHIP_TRANSPORT"
	ErrCodeUnexpectedStatus goerrors.ErrorCode = "LOKISHIP_UNEXPECTED_STATUS"
	ErrCodeEncode           goerrors.ErrorCode = "LOKISHIP_ENCODE"
)

func errNotInitialized() error {
	return goerrors.New(ErrCodeNotInitialized, "logger is not initialized")
}
