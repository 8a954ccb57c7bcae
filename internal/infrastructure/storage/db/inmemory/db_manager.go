package inmemory

import (
	"sync"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
)

type vaultInmemoryStore struct {
	locker *sync.Mutex
	vault  *domain.Vault
}

type sessionInmemoryStore struct {
	locker   *sync.Mutex
	sessions map[string]*domain.Session
}

type unlockGuardInmemoryStore struct {
	locker *sync.Mutex
	guard  *domain.UnlockGuard
}

// RepoManager is the in memory implementation of the ports.RepoManager
// interface. Nothing survives the process, which makes it a fit for unit
// tests and for throwaway wallets only.
type RepoManager struct {
	vaultRepository       domain.VaultRepository
	sessionRepository     domain.SessionRepository
	unlockGuardRepository domain.UnlockGuardRepository
}

// NewRepoManager returns a new empty RepoManager
func NewRepoManager() ports.RepoManager {
	vaultStore := &vaultInmemoryStore{
		locker: &sync.Mutex{},
	}
	sessionStore := &sessionInmemoryStore{
		locker:   &sync.Mutex{},
		sessions: map[string]*domain.Session{},
	}
	guardStore := &unlockGuardInmemoryStore{
		locker: &sync.Mutex{},
	}

	return &RepoManager{
		vaultRepository:       NewVaultRepositoryImpl(vaultStore),
		sessionRepository:     NewSessionRepositoryImpl(sessionStore),
		unlockGuardRepository: NewUnlockGuardRepositoryImpl(guardStore),
	}
}

func (d *RepoManager) VaultRepository() domain.VaultRepository {
	return d.vaultRepository
}

func (d *RepoManager) SessionRepository() domain.SessionRepository {
	return d.sessionRepository
}

func (d *RepoManager) UnlockGuardRepository() domain.UnlockGuardRepository {
	return d.unlockGuardRepository
}

func (d *RepoManager) Close() {}
