package biometric

import (
	"context"
	"errors"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
)

// ErrNotSupported ...
var ErrNotSupported = errors.New("platform credential binding is not supported")

type unsupported struct{}

// NewUnsupported returns a ports.CredentialBinding for platforms without an
// authenticator. Every ceremony is refused, the wallet keeps working on the
// password alone.
func NewUnsupported() ports.CredentialBinding {
	return unsupported{}
}

func (unsupported) IsSupported() bool {
	return false
}

func (unsupported) Enroll(_ context.Context, _, _ string) (string, error) {
	return "", ErrNotSupported
}

func (unsupported) HasCredential(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (unsupported) Revoke(_ context.Context, _ string) error {
	return ErrNotSupported
}
