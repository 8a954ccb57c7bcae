package domain

import "time"

// IsLockedOut returns whether unlock attempts are currently rejected
func (g *UnlockGuard) IsLockedOut(now time.Time) bool {
	return now.Before(g.LockedUntil)
}

// RetryAfter returns how long the caller has to wait before attempts are
// evaluated again, zero if no lockout is in place
func (g *UnlockGuard) RetryAfter(now time.Time) time.Duration {
	if !g.IsLockedOut(now) {
		return 0
	}
	return g.LockedUntil.Sub(now)
}

// RemainingAttempts returns how many consecutive failures are left before
// the lockout triggers
func (g *UnlockGuard) RemainingAttempts(maxAttempts int) int {
	remaining := maxAttempts - g.ConsecutiveFailures
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RegisterFailure records a failed attempt and returns whether it was the
// one triggering the lockout. The counter restarts from scratch once the
// lockout is armed, attempts made after it elapses get a fresh budget.
func (g *UnlockGuard) RegisterFailure(
	now time.Time, maxAttempts int, lockoutDuration time.Duration,
) (lockedOut bool) {
	g.ConsecutiveFailures++
	g.LastFailure = now
	if g.ConsecutiveFailures >= maxAttempts {
		g.LockedUntil = now.Add(lockoutDuration)
		g.ConsecutiveFailures = 0
		return true
	}
	return false
}

// RegisterSuccess wipes the failure streak after a successful unlock
func (g *UnlockGuard) RegisterSuccess() {
	g.ConsecutiveFailures = 0
	g.LockedUntil = time.Time{}
}
