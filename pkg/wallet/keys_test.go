package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testAddressPrefix = "rnm"

func TestExtendedKey(t *testing.T) {
	wallet, err := newTestWallet()
	if err != nil {
		t.Fatal(err)
	}
	opts := ExtendedKeyOpts{
		Account: 0,
	}

	xprv, err := wallet.ExtendedPrivateKey(opts)
	if err != nil {
		t.Fatal(err)
	}
	assert.NotEmpty(t, xprv)

	xpub, err := wallet.ExtendedPublicKey(opts)
	if err != nil {
		t.Fatal(err)
	}
	assert.NotEmpty(t, xpub)
	assert.NotEqual(t, xprv, xpub)
}

func TestDeriveKeyPair(t *testing.T) {
	wallet, err := newTestWallet()
	if err != nil {
		t.Fatal(err)
	}
	opts := DeriveKeyPairOpts{
		DerivationPath: "0'/0/0",
	}
	prvkey, pubkey, err := wallet.DeriveKeyPair(opts)
	if err != nil {
		t.Fatal(err)
	}
	assert.NotNil(t, prvkey)
	assert.NotNil(t, pubkey)
}

func TestDeriveAddress(t *testing.T) {
	wallet, err := newTestWallet()
	if err != nil {
		t.Fatal(err)
	}
	opts := DeriveAddressOpts{
		DerivationPath: "0'/0/0",
		Prefix:         testAddressPrefix,
	}
	addr, err := wallet.DeriveAddress(opts)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, true, strings.HasPrefix(addr, testAddressPrefix+"1"))
	// prefix + separator + witness version + 32 data chars + 6 checksum chars
	assert.Equal(t, len(testAddressPrefix)+1+1+32+6, len(addr))
}

func TestAccountDerivationIsDeterministic(t *testing.T) {
	wallet, err := newTestWallet()
	if err != nil {
		t.Fatal(err)
	}
	mnemonic, _ := wallet.Mnemonic()
	otherWallet, err := NewWalletFromMnemonic(NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
	if err != nil {
		t.Fatal(err)
	}

	seenAddresses := make(map[string]struct{})
	for _, account := range []uint32{0, 1, 2, 42} {
		addr, err := wallet.AccountAddress(AccountAddressOpts{
			Account: account,
			Prefix:  testAddressPrefix,
		})
		if err != nil {
			t.Fatal(err)
		}
		otherAddr, err := otherWallet.AccountAddress(AccountAddressOpts{
			Account: account,
			Prefix:  testAddressPrefix,
		})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, addr, otherAddr)

		_, seen := seenAddresses[addr]
		assert.Equal(t, false, seen)
		seenAddresses[addr] = struct{}{}

		prvkey, _, err := wallet.AccountKeyPair(AccountKeyPairOpts{Account: account})
		if err != nil {
			t.Fatal(err)
		}
		otherPrvkey, _, err := otherWallet.AccountKeyPair(AccountKeyPairOpts{Account: account})
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, prvkey.Serialize(), otherPrvkey.Serialize())
	}
}

func TestFailingExtendedKey(t *testing.T) {
	wallet, err := newTestWallet()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		opts ExtendedKeyOpts
		err  error
	}{
		{
			opts: ExtendedKeyOpts{
				Account: MaxHardenedValue + 1,
			},
			err: ErrOutOfRangeDerivationPathAccount,
		},
	}

	for _, tt := range tests {
		_, err := wallet.ExtendedPrivateKey(tt.opts)
		assert.Equal(t, tt.err, err)
		_, err = wallet.ExtendedPublicKey(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}

func TestFailingDeriveKeyPair(t *testing.T) {
	wallet, err := newTestWallet()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		opts DeriveKeyPairOpts
		err  error
	}{
		{
			opts: DeriveKeyPairOpts{"0/0"},
			err:  ErrInvalidDerivationPathLength,
		},
		{
			opts: DeriveKeyPairOpts{"0/0/0/0"},
			err:  ErrInvalidDerivationPathLength,
		},
		{
			opts: DeriveKeyPairOpts{"0'/0/0/0"},
			err:  ErrInvalidDerivationPathLength,
		},
		{
			opts: DeriveKeyPairOpts{"0/0/0"},
			err:  ErrInvalidDerivationPathAccount,
		},
	}

	for _, tt := range tests {
		_, _, err := wallet.DeriveKeyPair(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}

func TestFailingDeriveAddress(t *testing.T) {
	wallet, err := newTestWallet()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		opts DeriveAddressOpts
		err  error
	}{
		{
			opts: DeriveAddressOpts{
				DerivationPath: "",
				Prefix:         testAddressPrefix,
			},
			err: ErrNullDerivationPath,
		},
		{
			opts: DeriveAddressOpts{
				DerivationPath: "0'/0/0",
				Prefix:         "",
			},
			err: ErrNullAddressPrefix,
		},
	}

	for _, tt := range tests {
		_, err := wallet.DeriveAddress(tt.opts)
		assert.Equal(t, tt.err, err)
	}
}
