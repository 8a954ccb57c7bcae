package application

import (
	"errors"
	"fmt"
)

var (
	// ErrOverwriteNotConfirmed is returned when attempting to overwrite an
	// initialized wallet without confirming the destructive intent.
	ErrOverwriteNotConfirmed = errors.New(
		"overwriting the wallet is destructive and must be explicitly confirmed",
	)
	// ErrDeleteNotConfirmed is returned when attempting to delete the wallet
	// without confirming the destructive intent.
	ErrDeleteNotConfirmed = errors.New(
		"deleting the wallet is destructive and must be explicitly confirmed",
	)
	// ErrNotAuthenticated is returned when an operation requiring an active
	// session is attempted while the wallet is locked.
	ErrNotAuthenticated = errors.New("wallet is locked")
	// ErrInvalidSessionToken is returned when a session token fails
	// verification or refers to a session that is no more active.
	ErrInvalidSessionToken = errors.New("invalid session token")
	// ErrCredentialBindingNotSupported is returned when attempting to enroll
	// a platform credential while no provider is available.
	ErrCredentialBindingNotSupported = errors.New(
		"no platform credential provider available",
	)
)

// OracleUnavailableError is returned when the activity oracle kept failing
// after exhausting the retry budget. It is transient, the caller can retry
// the whole operation later.
type OracleUnavailableError struct {
	Err error
}

func (e *OracleUnavailableError) Error() string {
	return fmt.Sprintf("activity oracle unavailable: %s", e.Err)
}

func (e *OracleUnavailableError) Unwrap() error {
	return e.Err
}
