// Package common defines shared constants and sentinel errors used across
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")

	// Session-level errors (operation rejected, state untouched).
	ErrBusy     = errors.New("another session operation is in progress")
	ErrNotReady = errors.New("session is not restored yet")

	// Input errors.
	ErrEmptyToken = errors.New("empty token")
)
