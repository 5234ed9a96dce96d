package client

import (
	"github.com/pkg/errors"
)

// User-visible failures. Everything else in this package is transient and is
// repaired by the next poll or an explicit reconciliation fetch, never
// surfaced to the caller.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRegistrationFailed = errors.New("registration failed")

	ErrNoActiveSession = errors.New("no active session")
	ErrNoPeerSelected  = errors.New("no chat peer selected")
	ErrEmptyPost       = errors.New("post needs content or an image")
	ErrMissingFields   = errors.New("name, username and password are required")
)
