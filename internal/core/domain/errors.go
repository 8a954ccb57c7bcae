package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrVaultAlreadyInitialized ...
	ErrVaultAlreadyInitialized = errors.New("vault is already initialized")
	// ErrVaultNotInitialized ...
	ErrVaultNotInitialized = errors.New("vault is not initialized")
	// ErrNullMnemonicOrPassphrase ...
	ErrNullMnemonicOrPassphrase = errors.New("mnemonic and/or passphrase must not be null")
	// ErrWeakPassphrase is thrown when initializing or re-encrypting a vault
	// with a passphrase shorter than MinPassphraseLength
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase must be at least %d characters long", MinPassphraseLength,
	)
	// ErrUnlock is thrown whenever the mnemonic cannot be decrypted with the
	// provided passphrase. The reason is deliberately not disclosed, a wrong
	// passphrase and a tampered cypher text must not be distinguishable.
	ErrUnlock = errors.New("failed to unlock the vault")
	// ErrVaultDataCorrupted is thrown when the persisted vault record is
	// structurally broken, irrespectively of any passphrase
	ErrVaultDataCorrupted = errors.New("vault data is corrupted")

	// ErrMustBeUnlocked is thrown when trying to make an operation that requires the wallet to be unlocked
	ErrMustBeUnlocked = errors.New("wallet must be unlocked to perform this operation")

	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists ...
	ErrAccountAlreadyExists = errors.New("account with same index already exists")
	// ErrNullAccountAddress ...
	ErrNullAccountAddress = errors.New("account address must not be null")
	// ErrNullAccountName ...
	ErrNullAccountName = errors.New("account name must not be null")
	// ErrAccountNameAlreadyTaken ...
	ErrAccountNameAlreadyTaken = errors.New("account with same name already exists")

	// ErrSessionNotFound ...
	ErrSessionNotFound = errors.New("session not found")
	// ErrNullSessionOwner ...
	ErrNullSessionOwner = errors.New("session owner address must not be null")
	// ErrSessionExpired is thrown when operating on a session whose idle
	// timeout has elapsed
	ErrSessionExpired = errors.New("session has expired")
	// ErrSessionAlreadyClosed ...
	ErrSessionAlreadyClosed = errors.New("session is already closed")
	// ErrInvalidSessionTTL ...
	ErrInvalidSessionTTL = errors.New("session idle timeout must be a positive duration")
)

// RateLimitedError is returned while the unlock operation is locked out
// because of too many consecutive failed attempts. The passphrase of a
// rejected attempt is never evaluated.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf(
		"too many failed unlock attempts, retry in %s",
		e.RetryAfter.Round(time.Second),
	)
}
