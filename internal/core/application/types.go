package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
)

// Topics of the audit events published by the wallet services.
const (
	TopicLoginSuccess       = "login_success"
	TopicLoginFailed        = "login_failed"
	TopicLoginBlocked       = "login_blocked"
	TopicWalletUnlocked     = "wallet_unlocked"
	TopicWalletLocked       = "wallet_locked"
	TopicWalletCreated      = "wallet_created"
	TopicWalletDeleted      = "wallet_deleted"
	TopicPasswordChanged    = "password_changed"
	TopicSessionExpired     = "session_expired"
	TopicAccountDiscovered  = "account_discovered"
	TopicCredentialEnrolled = "credential_enrolled"
)

// WalletStatus contains info about the status of the wallet.
type WalletStatus struct {
	Initialized bool
	Unlocked    bool
	Scanning    bool
}

// AccountInfo contains info about a wallet account.
type AccountInfo struct {
	Index   uint32
	Name    string
	Address string
	Balance decimal.Decimal
}

// UnlockReply is returned by a successful unlock and contains the info
// about the session opened for the owner.
type UnlockReply struct {
	SessionID    string
	SessionToken string
	ExpiresAt    time.Time
}

// GuardInfo contains info about the state of the unlock guard, meant to
// drive warning prompts before the wallet gets locked out.
type GuardInfo struct {
	LockedOut         bool
	RetryAfter        time.Duration
	RemainingAttempts int
}

// DiscoveryReport is the outcome of an account discovery scan.
// Inconclusive contains the indexes for which the activity oracle kept
// failing after exhausting the retries. A report with Partial set to true
// must not be used to mark such indexes as empty.
type DiscoveryReport struct {
	Found        []AccountInfo
	Inconclusive []uint32
	NextIndex    uint32
	Scanned      int
	Partial      bool
}

// CredentialStatus contains info about the platform credential bound to
// the wallet owner.
type CredentialStatus struct {
	Supported bool
	Enrolled  bool
}

// AuditEvent is the non-secret record of a wallet operation published to
// the audit surface.
type AuditEvent struct {
	ID           string
	Topic        string
	OwnerAddress string
	Timestamp    time.Time
	Metadata     map[string]interface{}
}

func newAuditEvent(
	topic, ownerAddress string, metadata map[string]interface{},
) AuditEvent {
	return AuditEvent{
		ID:           uuid.NewString(),
		Topic:        topic,
		OwnerAddress: ownerAddress,
		Timestamp:    time.Now(),
		Metadata:     metadata,
	}
}

func accountInfo(account *domain.Account) AccountInfo {
	return AccountInfo{
		Index:   account.Index,
		Name:    account.Name,
		Address: account.Address,
		Balance: account.Balance,
	}
}
