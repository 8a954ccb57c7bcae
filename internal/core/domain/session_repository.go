package domain

import (
	"context"
)

// SessionRepository is the interface for the persistence of session records.
// Records outlive the process on purpose, a restarted wallet can observe
// sessions left behind by a previous run and close them.
type SessionRepository interface {
	// AddSession persists a new session record
	AddSession(ctx context.Context, session *Session) error
	// GetSession returns the session with the given id, ErrSessionNotFound
	// if missing
	GetSession(ctx context.Context, id string) (*Session, error)
	// GetAllSessions returns every stored session record
	GetAllSessions(ctx context.Context) ([]*Session, error)
	// UpdateSession atomically reads, transforms with updateFn and writes
	// back the session with the given id
	UpdateSession(
		ctx context.Context,
		id string,
		updateFn func(s *Session) (*Session, error),
	) error
	// DeleteAllSessions wipes every session record
	DeleteAllSessions(ctx context.Context) error
}
