package domain

import (
	"context"
)

// VaultRepository is the interface for the persistence of the single vault
// record of the wallet
type VaultRepository interface {
	// AddVault persists the given vault, failing if one already exists
	AddVault(ctx context.Context, vault *Vault) error
	// GetVault returns the stored vault, ErrVaultNotInitialized if missing
	GetVault(ctx context.Context) (*Vault, error)
	// UpdateVault atomically reads, transforms with updateFn and writes back
	// the vault
	UpdateVault(
		ctx context.Context,
		updateFn func(v *Vault) (*Vault, error),
	) error
	// DeleteVault wipes the vault record
	DeleteVault(ctx context.Context) error
}
