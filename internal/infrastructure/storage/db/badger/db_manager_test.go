package dbbadger_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	dbbadger "github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/storage/db/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// low work factor to keep the suite fast, the production default is way higher
const testKdfWorkFactor = 1 << 12

var (
	ctx = context.Background()

	testMnemonic = strings.Split(
		"leave dice fine decrease dune ribbon ocean earn lunar account silver "+
			"admit cheap fringe disorder trade because trade steak clock grace "+
			"video jacket equal",
		" ",
	)
	testPassphrase   = []byte("correct horse battery staple")
	testOwnerAddress = "rnm1qw508d6qejxtdg4y5r3zarvary0c5xw7kda98xu"
)

func newTestRepoManager(t *testing.T, dbDir string) ports.RepoManager {
	repoManager, err := dbbadger.NewRepoManager(dbDir, nil)
	require.NoError(t, err)
	return repoManager
}

func newTestVault(t *testing.T) *domain.Vault {
	vault, err := domain.NewVault(testMnemonic, testPassphrase, testKdfWorkFactor)
	require.NoError(t, err)
	return vault
}

func TestVaultRepository(t *testing.T) {
	repoManager := newTestRepoManager(t, t.TempDir())
	defer repoManager.Close()
	repo := repoManager.VaultRepository()

	_, err := repo.GetVault(ctx)
	require.EqualError(t, err, domain.ErrVaultNotInitialized.Error())

	vault := newTestVault(t)
	require.NoError(t, repo.AddVault(ctx, vault))

	err = repo.AddVault(ctx, newTestVault(t))
	require.EqualError(t, err, domain.ErrVaultAlreadyInitialized.Error())

	stored, err := repo.GetVault(ctx)
	require.NoError(t, err)
	require.Equal(t, vault.EncryptedMnemonic, stored.EncryptedMnemonic)
	require.Equal(t, vault.KdfSalt, stored.KdfSalt)
	require.NotNil(t, stored.Accounts)

	err = repo.UpdateVault(ctx, func(v *domain.Vault) (*domain.Vault, error) {
		account, err := domain.NewAccount(0, "", testOwnerAddress)
		if err != nil {
			return nil, err
		}
		if err := v.AddAccount(account); err != nil {
			return nil, err
		}
		return v, nil
	})
	require.NoError(t, err)

	stored, err = repo.GetVault(ctx)
	require.NoError(t, err)
	require.Len(t, stored.Accounts, 1)
	require.Equal(t, testOwnerAddress, stored.OwnerAddress())

	require.NoError(t, repo.DeleteVault(ctx))
	_, err = repo.GetVault(ctx)
	require.EqualError(t, err, domain.ErrVaultNotInitialized.Error())
}

func TestUpdateVaultRollsBackOnFailingUpdateFn(t *testing.T) {
	repoManager := newTestRepoManager(t, t.TempDir())
	defer repoManager.Close()
	repo := repoManager.VaultRepository()

	require.NoError(t, repo.AddVault(ctx, newTestVault(t)))

	err := repo.UpdateVault(ctx, func(v *domain.Vault) (*domain.Vault, error) {
		account, _ := domain.NewAccount(0, "", testOwnerAddress)
		if err := v.AddAccount(account); err != nil {
			return nil, err
		}
		return nil, domain.ErrAccountNotFound
	})
	require.Error(t, err)

	stored, err := repo.GetVault(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored.Accounts)
}

func TestVaultSurvivesReopen(t *testing.T) {
	dbDir := t.TempDir()

	repoManager := newTestRepoManager(t, dbDir)
	vault := newTestVault(t)
	require.NoError(t, repoManager.VaultRepository().AddVault(ctx, vault))
	repoManager.Close()

	repoManager = newTestRepoManager(t, dbDir)
	defer repoManager.Close()

	stored, err := repoManager.VaultRepository().GetVault(ctx)
	require.NoError(t, err)
	require.Equal(t, vault.EncryptedMnemonic, stored.EncryptedMnemonic)

	secret, err := stored.Unlock(testPassphrase)
	require.NoError(t, err)
	defer secret.Destroy()
}

func TestSessionRepository(t *testing.T) {
	repoManager := newTestRepoManager(t, t.TempDir())
	defer repoManager.Close()
	repo := repoManager.SessionRepository()

	_, err := repo.GetSession(ctx, "unknown")
	require.EqualError(t, err, domain.ErrSessionNotFound.Error())

	session, err := domain.NewSession(testOwnerAddress, time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.AddSession(ctx, session))

	other, err := domain.NewSession(testOwnerAddress, time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.AddSession(ctx, other))

	stored, err := repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, session.ID, stored.ID)
	require.Equal(t, testOwnerAddress, stored.OwnerAddress)
	require.Equal(t, time.Minute, stored.TTL)

	all, err := repo.GetAllSessions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	now := time.Now().Add(30 * time.Second)
	err = repo.UpdateSession(ctx, session.ID, func(s *domain.Session) (*domain.Session, error) {
		if err := s.Touch(now); err != nil {
			return nil, err
		}
		return s, nil
	})
	require.NoError(t, err)

	stored, err = repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, now, stored.LastActivity, time.Second)

	require.NoError(t, repo.DeleteAllSessions(ctx))
	all, err = repo.GetAllSessions(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestUpdateUnknownSession(t *testing.T) {
	repoManager := newTestRepoManager(t, t.TempDir())
	defer repoManager.Close()

	err := repoManager.SessionRepository().UpdateSession(
		ctx, "unknown",
		func(s *domain.Session) (*domain.Session, error) { return s, nil },
	)
	require.EqualError(t, err, domain.ErrSessionNotFound.Error())
}

func TestUnlockGuardRepository(t *testing.T) {
	dbDir := t.TempDir()
	repoManager := newTestRepoManager(t, dbDir)
	repo := repoManager.UnlockGuardRepository()

	guard, err := repo.GetOrCreateGuard(ctx)
	require.NoError(t, err)
	require.Zero(t, guard.ConsecutiveFailures)
	require.False(t, guard.IsLockedOut(time.Now()))

	now := time.Now()
	err = repo.UpdateGuard(ctx, func(g *domain.UnlockGuard) (*domain.UnlockGuard, error) {
		g.RegisterFailure(now, 5, 15*time.Minute)
		g.RegisterFailure(now, 5, 15*time.Minute)
		return g, nil
	})
	require.NoError(t, err)

	// failures must survive a process restart, otherwise killing the wallet
	// would void the lockout budget
	repoManager.Close()
	repoManager = newTestRepoManager(t, dbDir)
	defer repoManager.Close()
	repo = repoManager.UnlockGuardRepository()

	guard, err = repo.GetOrCreateGuard(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, guard.ConsecutiveFailures)

	err = repo.UpdateGuard(ctx, func(g *domain.UnlockGuard) (*domain.UnlockGuard, error) {
		g.RegisterSuccess()
		return g, nil
	})
	require.NoError(t, err)

	guard, err = repo.GetOrCreateGuard(ctx)
	require.NoError(t, err)
	require.Zero(t, guard.ConsecutiveFailures)

	require.NoError(t, repo.DeleteGuard(ctx))
	guard, err = repo.GetOrCreateGuard(ctx)
	require.NoError(t, err)
	require.Zero(t, guard.ConsecutiveFailures)
}
