package domain

import "time"

// ExpiresAt returns the instant the session dies if no further activity
// is recorded
func (s *Session) ExpiresAt() time.Time {
	return s.LastActivity.Add(s.TTL)
}

// IsClosed returns whether the session has been closed, no matter the reason
func (s *Session) IsClosed() bool {
	return !s.ClosedAt.IsZero()
}

// IsActive returns whether the session is still usable at the given instant
func (s *Session) IsActive(now time.Time) bool {
	return !s.IsClosed() && now.Before(s.ExpiresAt())
}

// IsExpired returns whether the session is past its idle deadline but has
// not been closed yet. Such a session is what the monitor looks for.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.IsClosed() && !now.Before(s.ExpiresAt())
}

// Touch records activity on the session, pushing its idle deadline forward.
// Touching a closed or expired session fails without altering the deadline.
func (s *Session) Touch(now time.Time) error {
	if s.IsClosed() {
		return ErrSessionAlreadyClosed
	}
	if s.IsExpired(now) {
		return ErrSessionExpired
	}
	s.LastActivity = now
	return nil
}

// Close ends the session with the given reason and returns whether the state
// changed. Closing an already closed session is a no-op, whoever observed
// the transition first owns the cleanup.
func (s *Session) Close(now time.Time, reason string) bool {
	if s.IsClosed() {
		return false
	}
	s.ClosedAt = now
	s.CloseReason = reason
	return true
}
