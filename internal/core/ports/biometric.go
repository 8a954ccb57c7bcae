package ports

import "context"

// CredentialBinding defines the methods of a platform credential provider,
// like biometric hardware, the wallet can bind an owner address to.
// A successful platform authentication is a trust signal only and never
// takes part in the decryption of the vault.
type CredentialBinding interface {
	// IsSupported returns whether the platform exposes a credential provider.
	IsSupported() bool
	// Enroll binds the given owner address to a new platform credential and
	// returns the credential id.
	Enroll(ctx context.Context, ownerAddress, label string) (string, error)
	// HasCredential returns whether the given owner address is bound to an
	// enrolled platform credential.
	HasCredential(ctx context.Context, ownerAddress string) (bool, error)
	// Revoke removes the platform credential bound to the given owner address.
	// Nothing is done if the address has no enrolled credential.
	Revoke(ctx context.Context, ownerAddress string) error
}
