package wallet

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// ExtendedKeyOpts is the struct given to
// ExtendedPrivateKey and ExtendedPublicKey methods
type ExtendedKeyOpts struct {
	Account uint32
}

func (o ExtendedKeyOpts) validate() error {
	if o.Account > (MaxHardenedValue) {
		return ErrOutOfRangeDerivationPathAccount
	}
	return nil
}

// ExtendedPrivateKey returns the extended private key in base58 format
// for the provided account index
func (w *Wallet) ExtendedPrivateKey(opts ExtendedKeyOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if err := w.validate(); err != nil {
		return "", err
	}

	masterKey, err := hdkeychain.NewKeyFromString(
		base58.Encode(w.masterKey),
	)
	if err != nil {
		return "", err
	}

	xprv, err := masterKey.Derive(hdkeychain.HardenedKeyStart + opts.Account)
	if err != nil {
		return "", err
	}

	return xprv.String(), nil
}

// ExtendedPublicKey returns the extended public key in base58 format
// for the provided account index
func (w *Wallet) ExtendedPublicKey(opts ExtendedKeyOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if err := w.validate(); err != nil {
		return "", err
	}

	masterKey, err := hdkeychain.NewKeyFromString(
		base58.Encode(w.masterKey),
	)
	if err != nil {
		return "", err
	}

	xprv, err := masterKey.Derive(hdkeychain.HardenedKeyStart + opts.Account)
	if err != nil {
		return "", err
	}

	xpub, err := xprv.Neuter()
	if err != nil {
		return "", err
	}
	return xpub.String(), nil
}

// DeriveKeyPairOpts is the struct given to DeriveKeyPair method
type DeriveKeyPairOpts struct {
	DerivationPath string
}

func (o DeriveKeyPairOpts) validate() error {
	derivationPath, err := ParseDerivationPath(o.DerivationPath)
	if err != nil {
		return err
	}

	err = checkDerivationPath(derivationPath)
	if err != nil {
		return err
	}

	return nil
}

// DeriveKeyPair derives the key pair of the provided derivation path
func (w *Wallet) DeriveKeyPair(opts DeriveKeyPairOpts) (
	*btcec.PrivateKey,
	*btcec.PublicKey,
	error,
) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	if err := w.validate(); err != nil {
		return nil, nil, err
	}

	hdNode, err := hdkeychain.NewKeyFromString(
		base58.Encode(w.masterKey),
	)
	if err != nil {
		return nil, nil, err
	}

	derivationPath, _ := ParseDerivationPath(opts.DerivationPath)
	for _, step := range derivationPath {
		hdNode, err = hdNode.Derive(step)
		if err != nil {
			return nil, nil, err
		}
	}

	privateKey, err := hdNode.ECPrivKey()
	if err != nil {
		return nil, nil, err
	}
	publicKey, err := hdNode.ECPubKey()
	if err != nil {
		return nil, nil, err
	}

	return privateKey, publicKey, nil
}

// DeriveAddressOpts is the struct given to DeriveAddress method
type DeriveAddressOpts struct {
	DerivationPath string
	Prefix         string
}

func (o DeriveAddressOpts) validate() error {
	derivationPath, err := ParseDerivationPath(o.DerivationPath)
	if err != nil {
		return err
	}

	err = checkDerivationPath(derivationPath)
	if err != nil {
		return err
	}

	if len(o.Prefix) <= 0 {
		return ErrNullAddressPrefix
	}

	return nil
}

// DeriveAddress derives the pubkey of the provided derivation path to then
// generate the corresponding bech32 witness address
func (w *Wallet) DeriveAddress(opts DeriveAddressOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}
	if err := w.validate(); err != nil {
		return "", err
	}

	_, pubkey, err := w.DeriveKeyPair(DeriveKeyPairOpts{
		DerivationPath: opts.DerivationPath,
	})
	if err != nil {
		return "", err
	}

	return p2wpkhAddress(pubkey, opts.Prefix)
}

// AccountKeyPairOpts is the struct given to AccountKeyPair method
type AccountKeyPairOpts struct {
	Account uint32
}

func (o AccountKeyPairOpts) validate() error {
	if o.Account > (MaxHardenedValue) {
		return ErrOutOfRangeDerivationPathAccount
	}
	return nil
}

// AccountKeyPair derives the first external key pair of the provided
// account index
func (w *Wallet) AccountKeyPair(opts AccountKeyPairOpts) (
	*btcec.PrivateKey,
	*btcec.PublicKey,
	error,
) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	return w.DeriveKeyPair(DeriveKeyPairOpts{
		DerivationPath: AccountDerivationPath(opts.Account),
	})
}

// AccountAddressOpts is the struct given to AccountAddress method
type AccountAddressOpts struct {
	Account uint32
	Prefix  string
}

func (o AccountAddressOpts) validate() error {
	if o.Account > (MaxHardenedValue) {
		return ErrOutOfRangeDerivationPathAccount
	}
	if len(o.Prefix) <= 0 {
		return ErrNullAddressPrefix
	}
	return nil
}

// AccountAddress derives the bech32 witness address of the first external
// key pair of the provided account index
func (w *Wallet) AccountAddress(opts AccountAddressOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	return w.DeriveAddress(DeriveAddressOpts{
		DerivationPath: AccountDerivationPath(opts.Account),
		Prefix:         opts.Prefix,
	})
}

func p2wpkhAddress(pubkey *btcec.PublicKey, prefix string) (string, error) {
	program := btcutil.Hash160(pubkey.SerializeCompressed())
	converted, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	// witness version 0 followed by the 5-bit groups of the pubkey hash
	data := make([]byte, 0, len(converted)+1)
	data = append(data, 0x00)
	data = append(data, converted...)
	return bech32.Encode(prefix, data)
}
