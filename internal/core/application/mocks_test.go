package application_test

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/application"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/storage/db/inmemory"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/wallet"
)

const (
	addressPrefix     = "rnm"
	kdfWorkFactor     = 1 << 12
	maxUnlockAttempts = 5
	lockoutDuration   = 500 * time.Millisecond
	sessionTTL        = 5 * time.Minute
	monitorInterval   = 50 * time.Millisecond
	gapLimit          = 5
	scanCeiling       = 100
	maxOracleAttempts = 3
	retryDelay        = 5 * time.Millisecond
	oracleRate        = 1000
)

var (
	ctx             = context.Background()
	passphrase      = "correct horse battery staple"
	wrongPassphrase = "definitely not the one"
	mnemonic        = strings.Split(
		"leave dice fine decrease dune ribbon ocean earn lunar account silver admit "+
			"cheap fringe disorder trade because trade steak clock grace video jacket equal",
		" ",
	)
	otherMnemonic = strings.Split(
		"curious alien peanut protect capable charge recipe hub volume deal math make "+
			"suggest bleak seat swim into save hint wood pioneer ball decline universe",
		" ",
	)
	ownerAddress = accountAddresses(1)[0]
)

func newServices(
	explorerSvc explorer.Service, credentialBinding ports.CredentialBinding,
) (
	application.WalletUnlockerService,
	application.OperatorService,
	application.SessionManager,
	ports.RepoManager,
) {
	repoManager := inmemory.NewRepoManager()
	sessionManager := application.NewSessionManager(
		repoManager, nil, sessionTTL, monitorInterval,
	)
	discoverer := application.NewAccountDiscoverer(
		explorerSvc, addressPrefix,
		gapLimit, scanCeiling, maxOracleAttempts, retryDelay, oracleRate,
	)
	walletSvc := application.NewWalletUnlockerService(
		repoManager, sessionManager, discoverer, nil, credentialBinding,
		addressPrefix, maxUnlockAttempts, lockoutDuration, kdfWorkFactor,
	)
	operatorSvc := application.NewOperatorService(
		repoManager, explorerSvc, sessionManager, discoverer, nil,
		credentialBinding, addressPrefix,
	)
	return walletSvc, operatorSvc, sessionManager, repoManager
}

// newEmptyExplorer returns a mocked chain index without any address
// activity, the one a brand new wallet would see.
func newEmptyExplorer() *mockExplorer {
	explorerSvc := &mockExplorer{}
	explorerSvc.
		On("IsAddressUsed", mock.Anything, mock.Anything).Return(false, nil)
	return explorerSvc
}

func accountAddresses(count int) []string {
	ww, _ := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
	addresses := make([]string, 0, count)
	for i := 0; i < count; i++ {
		addr, _ := ww.AccountAddress(wallet.AccountAddressOpts{
			Account: uint32(i),
			Prefix:  addressPrefix,
		})
		addresses = append(addresses, addr)
	}
	return addresses
}

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) GetAddressStatus(
	ctx context.Context, addr string,
) (explorer.AddressStatus, error) {
	args := m.Called(ctx, addr)

	var res explorer.AddressStatus
	if a := args.Get(0); a != nil {
		res = a.(explorer.AddressStatus)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) IsAddressUsed(
	ctx context.Context, addr string,
) (bool, error) {
	args := m.Called(ctx, addr)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetBalance(
	ctx context.Context, addr string,
) (decimal.Decimal, error) {
	args := m.Called(ctx, addr)

	var res decimal.Decimal
	if a := args.Get(0); a != nil {
		res = a.(decimal.Decimal)
	}
	return res, args.Error(1)
}

func (m *mockExplorer) GetBlockHeight(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	var res int
	if a := args.Get(0); a != nil {
		res = a.(int)
	}
	return res, args.Error(1)
}

type mockCredentialBinding struct {
	mock.Mock
}

func (m *mockCredentialBinding) IsSupported() bool {
	args := m.Called()

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res
}

func (m *mockCredentialBinding) Enroll(
	ctx context.Context, ownerAddress, label string,
) (string, error) {
	args := m.Called(ctx, ownerAddress, label)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockCredentialBinding) HasCredential(
	ctx context.Context, ownerAddress string,
) (bool, error) {
	args := m.Called(ctx, ownerAddress)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

func (m *mockCredentialBinding) Revoke(
	ctx context.Context, ownerAddress string,
) error {
	args := m.Called(ctx, ownerAddress)
	return args.Error(0)
}
