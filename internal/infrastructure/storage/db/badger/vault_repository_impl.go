package dbbadger

import (
	"context"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
)

// vaultKey is the fixed key of the singleton vault record
const vaultKey = "vault"

type vaultRepositoryImpl struct {
	store *badgerhold.Store
}

// NewVaultRepositoryImpl returns a badger implementation of the domain
// VaultRepository interface.
func NewVaultRepositoryImpl(store *badgerhold.Store) domain.VaultRepository {
	return vaultRepositoryImpl{store}
}

func (r vaultRepositoryImpl) AddVault(
	_ context.Context, vault *domain.Vault,
) error {
	if err := r.store.Insert(vaultKey, *vault); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrVaultAlreadyInitialized
		}
		return err
	}

	return nil
}

func (r vaultRepositoryImpl) GetVault(_ context.Context) (*domain.Vault, error) {
	var vault domain.Vault
	if err := r.store.Get(vaultKey, &vault); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrVaultNotInitialized
		}
		return nil, err
	}

	return &vault, nil
}

// UpdateVault reads, transforms and writes back the vault record within a
// single badger transaction. An error returned by updateFn discards the
// transaction and leaves the stored record untouched.
func (r vaultRepositoryImpl) UpdateVault(
	_ context.Context,
	updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var vault domain.Vault
		if err := r.store.TxGet(tx, vaultKey, &vault); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrVaultNotInitialized
			}
			return err
		}

		updatedVault, err := updateFn(&vault)
		if err != nil {
			return err
		}

		return r.store.TxUpdate(tx, vaultKey, *updatedVault)
	})
}

func (r vaultRepositoryImpl) DeleteVault(_ context.Context) error {
	if err := r.store.Delete(vaultKey, domain.Vault{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.ErrVaultNotInitialized
		}
		return err
	}

	return nil
}
