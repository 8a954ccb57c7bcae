package domain

import (
	"fmt"
	"strings"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/securemem"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/wallet"
	"github.com/shopspring/decimal"
)

const (
	// VaultVersion is the version of the vault record format written by
	// NewVault. Unlocking a record with a different version is refused.
	VaultVersion = 1
	// MinPassphraseLength is the minimum accepted length of the passphrase
	// protecting the mnemonic
	MinPassphraseLength = 8
)

// Vault is the encrypted-at-rest envelope of the wallet mnemonic, along with
// the KDF params needed to stretch the unlock passphrase and the list of
// discovered accounts. It never holds the mnemonic in plain text, Unlock
// hands the decrypted secret to the caller and forgets it.
type Vault struct {
	Version           int
	EncryptedMnemonic string
	KdfAlgorithm      string
	KdfSalt           []byte
	KdfWorkFactor     int
	Accounts          map[uint32]*Account
	AccountsByAddress map[string]uint32
}

// Account defines the entity data structure for a derived account of the
// HD wallet. The address is the first external one of the account subtree
// and identifies the account against the chain index.
type Account struct {
	Index   uint32
	Name    string
	Address string
	Balance decimal.Decimal
}

// NewVault encrypts the provided mnemonic with the passphrase and returns a
// new Vault initialized with the encrypted mnemonic and the KDF params used
// to stretch the passphrase. The plain text mnemonic is not retained.
func NewVault(mnemonic []string, passphrase []byte, kdfWorkFactor int) (*Vault, error) {
	if len(mnemonic) <= 0 || len(passphrase) <= 0 {
		return nil, ErrNullMnemonicOrPassphrase
	}
	if len(passphrase) < MinPassphraseLength {
		return nil, ErrWeakPassphrase
	}
	if _, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	}); err != nil {
		return nil, err
	}

	kdfParams, err := wallet.NewKdfParams(kdfWorkFactor)
	if err != nil {
		return nil, err
	}

	plainText := []byte(strings.Join(mnemonic, " "))
	defer securemem.ZeroBytes(plainText)

	encryptedMnemonic, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  plainText,
		Passphrase: passphrase,
		KdfParams:  kdfParams,
	})
	if err != nil {
		return nil, err
	}

	return &Vault{
		Version:           VaultVersion,
		EncryptedMnemonic: encryptedMnemonic,
		KdfAlgorithm:      kdfParams.Algorithm,
		KdfSalt:           kdfParams.Salt,
		KdfWorkFactor:     kdfParams.WorkFactor,
		Accounts:          map[uint32]*Account{},
		AccountsByAddress: map[string]uint32{},
	}, nil
}

// NewAccount returns a new Account instance with the given index, address
// and optional name. A null name defaults to "Account N" with N being the
// 1-based position of the account.
func NewAccount(index uint32, name, address string) (*Account, error) {
	if len(address) <= 0 {
		return nil, ErrNullAccountAddress
	}
	if len(name) <= 0 {
		name = fmt.Sprintf("Account %d", index+1)
	}

	return &Account{
		Index:   index,
		Name:    name,
		Address: address,
		Balance: decimal.Zero,
	}, nil
}
