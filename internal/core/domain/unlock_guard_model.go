package domain

import "time"

// UnlockGuard tracks consecutive failed unlock attempts and enforces the
// lockout that kicks in once they reach the configured threshold. A single
// guard exists per vault.
type UnlockGuard struct {
	ConsecutiveFailures int
	LastFailure         time.Time
	LockedUntil         time.Time
}

// NewUnlockGuard returns a pristine guard with no failures on record
func NewUnlockGuard() *UnlockGuard {
	return &UnlockGuard{}
}
