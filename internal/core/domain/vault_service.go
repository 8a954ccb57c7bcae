package domain

import (
	"reflect"
	"sort"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/securemem"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/wallet"
	"github.com/shopspring/decimal"
)

// IsZero returns whether the Vault is initialized without holding any data
func (v *Vault) IsZero() bool {
	return reflect.DeepEqual(*v, Vault{})
}

// IsInitialized returnes whether the Vault has been inizitialized
func (v *Vault) IsInitialized() bool {
	return len(v.EncryptedMnemonic) > 0
}

// CheckIntegrity returns whether the persisted vault record is structurally
// sound. The checks are independent of any passphrase on purpose, a corrupted
// record must be detectable without attempting an unlock.
func (v *Vault) CheckIntegrity() error {
	if !v.IsInitialized() {
		return ErrVaultNotInitialized
	}
	if v.Version != VaultVersion {
		return ErrVaultDataCorrupted
	}
	if err := v.kdfParams().Check(); err != nil {
		return ErrVaultDataCorrupted
	}
	if err := wallet.CheckCypherText(v.EncryptedMnemonic); err != nil {
		return ErrVaultDataCorrupted
	}
	return nil
}

// Unlock attempts to decrypt the mnemonic with the provided passphrase and
// returns it wrapped into a secret owned by the caller. Any failure that
// depends on the passphrase collapses into the generic ErrUnlock.
func (v *Vault) Unlock(passphrase []byte) (*securemem.Secret, error) {
	if err := v.CheckIntegrity(); err != nil {
		return nil, err
	}

	plainText, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: v.EncryptedMnemonic,
		Passphrase: passphrase,
		KdfParams:  v.kdfParams(),
	})
	if err != nil {
		return nil, ErrUnlock
	}
	defer securemem.ZeroBytes(plainText)

	return securemem.NewSecret(plainText), nil
}

// ChangePassphrase re-encrypts the mnemonic with the new passphrase and a
// fresh set of KDF params. The current passphrase must decrypt the vault
// first, its verification costs a full KDF run like any unlock.
func (v *Vault) ChangePassphrase(
	currentPassphrase, newPassphrase []byte, kdfWorkFactor int,
) error {
	if err := v.CheckIntegrity(); err != nil {
		return err
	}
	if len(newPassphrase) < MinPassphraseLength {
		return ErrWeakPassphrase
	}

	plainText, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: v.EncryptedMnemonic,
		Passphrase: currentPassphrase,
		KdfParams:  v.kdfParams(),
	})
	if err != nil {
		return ErrUnlock
	}
	defer securemem.ZeroBytes(plainText)

	kdfParams, err := wallet.NewKdfParams(kdfWorkFactor)
	if err != nil {
		return err
	}

	encryptedMnemonic, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  plainText,
		Passphrase: newPassphrase,
		KdfParams:  kdfParams,
	})
	if err != nil {
		return err
	}

	v.EncryptedMnemonic = encryptedMnemonic
	v.KdfAlgorithm = kdfParams.Algorithm
	v.KdfSalt = kdfParams.Salt
	v.KdfWorkFactor = kdfParams.WorkFactor
	return nil
}

// AddAccount adds the given account to the vault. Both the index and the
// address must not be already taken.
func (v *Vault) AddAccount(account *Account) error {
	if account == nil || len(account.Address) <= 0 {
		return ErrNullAccountAddress
	}
	if _, ok := v.Accounts[account.Index]; ok {
		return ErrAccountAlreadyExists
	}
	if _, ok := v.AccountsByAddress[account.Address]; ok {
		return ErrAccountAlreadyExists
	}

	if v.Accounts == nil {
		v.Accounts = map[uint32]*Account{}
	}
	if v.AccountsByAddress == nil {
		v.AccountsByAddress = map[string]uint32{}
	}
	v.Accounts[account.Index] = account
	v.AccountsByAddress[account.Address] = account.Index
	return nil
}

// OwnerAddress returns the address of the first account, the stable
// identity key the wallet is known by. Empty until the first account is
// added.
func (v *Vault) OwnerAddress() string {
	account, err := v.AccountByIndex(0)
	if err != nil {
		return ""
	}
	return account.Address
}

// AccountByIndex returns the account with the given index
func (v *Vault) AccountByIndex(index uint32) (*Account, error) {
	account, ok := v.Accounts[index]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// AccountByAddress returns the account to which the provided address belongs
func (v *Vault) AccountByAddress(addr string) (*Account, error) {
	index, ok := v.AccountsByAddress[addr]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return v.AccountByIndex(index)
}

// ListAccounts returns all the accounts of the vault sorted by index
func (v *Vault) ListAccounts() []*Account {
	list := make([]*Account, 0, len(v.Accounts))
	for _, account := range v.Accounts {
		list = append(list, account)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Index < list[j].Index
	})
	return list
}

// NextAccountIndex returns the index that a brand new account would get,
// the first one past the highest in use.
func (v *Vault) NextAccountIndex() uint32 {
	next := uint32(0)
	for index := range v.Accounts {
		if index >= next {
			next = index + 1
		}
	}
	return next
}

// RenameAccount gives the account with the given index a new name, refusing
// null names and names already taken by other accounts.
func (v *Vault) RenameAccount(index uint32, name string) error {
	if len(name) <= 0 {
		return ErrNullAccountName
	}
	account, err := v.AccountByIndex(index)
	if err != nil {
		return err
	}
	for _, other := range v.Accounts {
		if other.Index != index && other.Name == name {
			return ErrAccountNameAlreadyTaken
		}
	}
	account.Name = name
	return nil
}

// SetAccountBalance updates the last known balance of the account with the
// given index
func (v *Vault) SetAccountBalance(index uint32, balance decimal.Decimal) error {
	account, err := v.AccountByIndex(index)
	if err != nil {
		return err
	}
	account.Balance = balance
	return nil
}

func (v *Vault) kdfParams() wallet.KdfParams {
	return wallet.KdfParams{
		Algorithm:  v.KdfAlgorithm,
		Salt:       v.KdfSalt,
		WorkFactor: v.KdfWorkFactor,
	}
}
