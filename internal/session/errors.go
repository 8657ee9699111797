// internal/session/errors.go
package session

import "errors"

var (
	// ErrNotInitialized is returned by device operations attempted before
	// Initialize or after Close.
	ErrNotInitialized = errors.New("session: E_NOT_INITIALIZED")

	// ErrVerifyFailed is returned when an NVM write does not read back.
	ErrVerifyFailed = errors.New("session: NVM write verification failed")

	// ErrNoStore is returned by New when no parameter store is given.
	ErrNoStore = errors.New("session: parameter store required")
)
