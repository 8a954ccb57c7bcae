package inmemory

import (
	"context"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
)

type unlockGuardRepositoryImpl struct {
	store *unlockGuardInmemoryStore
}

// NewUnlockGuardRepositoryImpl returns a new inmemory UnlockGuardRepository
// implementation.
func NewUnlockGuardRepositoryImpl(store *unlockGuardInmemoryStore) domain.UnlockGuardRepository {
	return unlockGuardRepositoryImpl{store}
}

func (r unlockGuardRepositoryImpl) GetOrCreateGuard(
	_ context.Context,
) (*domain.UnlockGuard, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.guard == nil {
		r.store.guard = domain.NewUnlockGuard()
	}

	guardCopy := *r.store.guard
	return &guardCopy, nil
}

func (r unlockGuardRepositoryImpl) UpdateGuard(
	_ context.Context,
	updateFn func(g *domain.UnlockGuard) (*domain.UnlockGuard, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	// a missing record is replaced by a pristine guard instead of failing,
	// recording an attempt must never be skipped
	guard := domain.NewUnlockGuard()
	if r.store.guard != nil {
		guardCopy := *r.store.guard
		guard = &guardCopy
	}

	updatedGuard, err := updateFn(guard)
	if err != nil {
		return err
	}

	updatedCopy := *updatedGuard
	r.store.guard = &updatedCopy

	return nil
}

func (r unlockGuardRepositoryImpl) DeleteGuard(_ context.Context) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.guard = nil

	return nil
}
