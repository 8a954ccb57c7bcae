package ports

import (
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
)

// RepoManager interface defines the methods to access the repositories of
// the wallet and to gracefully close the underlying store.
type RepoManager interface {
	VaultRepository() domain.VaultRepository
	SessionRepository() domain.SessionRepository
	UnlockGuardRepository() domain.UnlockGuardRepository

	Close()
}
