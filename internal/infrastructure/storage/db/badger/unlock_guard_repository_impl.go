package dbbadger

import (
	"context"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// guardKey is the fixed key of the singleton unlock guard record
const guardKey = "unlock_guard"

type unlockGuardRepositoryImpl struct {
	store *badgerhold.Store
}

// NewUnlockGuardRepositoryImpl returns a badger implementation of the domain
// UnlockGuardRepository interface.
func NewUnlockGuardRepositoryImpl(store *badgerhold.Store) domain.UnlockGuardRepository {
	return unlockGuardRepositoryImpl{store}
}

func (r unlockGuardRepositoryImpl) GetOrCreateGuard(
	_ context.Context,
) (*domain.UnlockGuard, error) {
	var guard domain.UnlockGuard
	if err := r.store.Get(guardKey, &guard); err != nil {
		if err == badgerhold.ErrNotFound {
			pristine := domain.NewUnlockGuard()
			if err := r.store.Insert(guardKey, *pristine); err != nil &&
				err != badgerhold.ErrKeyExists {
				return nil, err
			}
			return pristine, nil
		}
		return nil, err
	}

	return &guard, nil
}

// UpdateGuard reads, transforms and writes back the guard record within a
// single badger transaction. A missing record is replaced by a pristine
// guard instead of failing, recording an attempt must never be skipped.
func (r unlockGuardRepositoryImpl) UpdateGuard(
	_ context.Context,
	updateFn func(g *domain.UnlockGuard) (*domain.UnlockGuard, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		guard := domain.NewUnlockGuard()
		if err := r.store.TxGet(tx, guardKey, guard); err != nil &&
			err != badgerhold.ErrNotFound {
			return err
		}

		updatedGuard, err := updateFn(guard)
		if err != nil {
			return err
		}

		return r.store.TxUpsert(tx, guardKey, *updatedGuard)
	})
}

func (r unlockGuardRepositoryImpl) DeleteGuard(_ context.Context) error {
	if err := r.store.Delete(guardKey, domain.UnlockGuard{}); err != nil &&
		err != badgerhold.ErrNotFound {
		return err
	}

	return nil
}
