package domain

import (
	"context"
)

// UnlockGuardRepository is the interface for the persistence of the single
// unlock guard of the wallet. The guard must survive restarts, otherwise
// killing the process would void the lockout.
type UnlockGuardRepository interface {
	// GetOrCreateGuard returns the stored guard, creating a pristine one on
	// first access
	GetOrCreateGuard(ctx context.Context) (*UnlockGuard, error)
	// UpdateGuard atomically reads, transforms with updateFn and writes back
	// the guard
	UpdateGuard(
		ctx context.Context,
		updateFn func(g *UnlockGuard) (*UnlockGuard, error),
	) error
	// DeleteGuard wipes the guard record
	DeleteGuard(ctx context.Context) error
}
