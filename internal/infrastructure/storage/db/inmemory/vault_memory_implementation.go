package inmemory

import (
	"context"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
)

type vaultRepositoryImpl struct {
	store *vaultInmemoryStore
}

// NewVaultRepositoryImpl returns a new inmemory VaultRepository
// implementation. Records are copied on the way in and out, mutating a
// returned vault does not alter the stored one.
func NewVaultRepositoryImpl(store *vaultInmemoryStore) domain.VaultRepository {
	return vaultRepositoryImpl{store}
}

func (r vaultRepositoryImpl) AddVault(
	_ context.Context, vault *domain.Vault,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.vault != nil {
		return domain.ErrVaultAlreadyInitialized
	}
	r.store.vault = copyVault(vault)

	return nil
}

func (r vaultRepositoryImpl) GetVault(_ context.Context) (*domain.Vault, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.vault == nil {
		return nil, domain.ErrVaultNotInitialized
	}

	return copyVault(r.store.vault), nil
}

func (r vaultRepositoryImpl) UpdateVault(
	_ context.Context,
	updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.vault == nil {
		return domain.ErrVaultNotInitialized
	}

	// updateFn works on a copy, an error leaves the stored record untouched
	updatedVault, err := updateFn(copyVault(r.store.vault))
	if err != nil {
		return err
	}
	r.store.vault = copyVault(updatedVault)

	return nil
}

func (r vaultRepositoryImpl) DeleteVault(_ context.Context) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if r.store.vault == nil {
		return domain.ErrVaultNotInitialized
	}
	r.store.vault = nil

	return nil
}

func copyVault(v *domain.Vault) *domain.Vault {
	vault := *v
	vault.KdfSalt = make([]byte, len(v.KdfSalt))
	copy(vault.KdfSalt, v.KdfSalt)
	vault.Accounts = make(map[uint32]*domain.Account, len(v.Accounts))
	for index, account := range v.Accounts {
		accountCopy := *account
		vault.Accounts[index] = &accountCopy
	}
	vault.AccountsByAddress = make(map[string]uint32, len(v.AccountsByAddress))
	for addr, index := range v.AccountsByAddress {
		vault.AccountsByAddress[addr] = index
	}

	return &vault
}
