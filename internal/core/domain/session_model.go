package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SessionClosedByLogout marks a session ended by an explicit lock
	SessionClosedByLogout = "logout"
	// SessionClosedByExpiry marks a session ended by the idle timeout
	SessionClosedByExpiry = "expired"
	// SessionClosedByReplacement marks a session superseded by a new unlock
	SessionClosedByReplacement = "replaced"
)

// Session is the persisted, non-secret record of an unlocked wallet. The
// decrypted mnemonic itself never touches storage, it lives in memory next
// to the session id and is wiped when the session closes.
type Session struct {
	ID           string
	OwnerAddress string
	CreatedAt    time.Time
	LastActivity time.Time
	TTL          time.Duration
	ClosedAt     time.Time
	CloseReason  string
}

// NewSession returns a new active Session bound to the given owner address
// with the given idle timeout
func NewSession(ownerAddress string, ttl time.Duration) (*Session, error) {
	if len(ownerAddress) == 0 {
		return nil, ErrNullSessionOwner
	}
	if ttl <= 0 {
		return nil, ErrInvalidSessionTTL
	}

	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		OwnerAddress: ownerAddress,
		CreatedAt:    now,
		LastActivity: now,
		TTL:          ttl,
	}, nil
}
