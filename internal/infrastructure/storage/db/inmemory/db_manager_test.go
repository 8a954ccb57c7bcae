package inmemory_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func TestVaultRepository(t *testing.T) {
	t.Parallel()

	repo := inmemory.NewRepoManager().VaultRepository()

	_, err := repo.GetVault(ctx)
	require.EqualError(t, err, domain.ErrVaultNotInitialized.Error())

	vault, err := domain.NewVault(testMnemonic, testPassphrase, testKdfWorkFactor)
	require.NoError(t, err)
	require.NoError(t, repo.AddVault(ctx, vault))
	require.EqualError(
		t, repo.AddVault(ctx, vault), domain.ErrVaultAlreadyInitialized.Error(),
	)

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

	stored, err := repo.GetVault(ctx)
	require.NoError(t, err)
	require.Len(t, stored.Accounts, 1)

	// the returned record is a copy, mutations must not leak into the store
	stored.Accounts[0].Name = "tampered"
	stored, err = repo.GetVault(ctx)
	require.NoError(t, err)
	require.Equal(t, "Account 1", stored.Accounts[0].Name)

	err = repo.UpdateVault(ctx, func(v *domain.Vault) (*domain.Vault, error) {
		v.Accounts[0].Name = "discarded"
		return nil, domain.ErrAccountNotFound
	})
	require.Error(t, err)

	stored, err = repo.GetVault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Account 1", stored.Accounts[0].Name)

	require.NoError(t, repo.DeleteVault(ctx))
	_, err = repo.GetVault(ctx)
	require.EqualError(t, err, domain.ErrVaultNotInitialized.Error())
}

func TestSessionRepository(t *testing.T) {
	t.Parallel()

	repo := inmemory.NewRepoManager().SessionRepository()

	session, err := domain.NewSession(testOwnerAddress, time.Minute)
	require.NoError(t, err)
	require.NoError(t, repo.AddSession(ctx, session))

	stored, err := repo.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, session.ID, stored.ID)

	_, err = repo.GetSession(ctx, "unknown")
	require.EqualError(t, err, domain.ErrSessionNotFound.Error())

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

	all, err := repo.GetAllSessions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, repo.DeleteAllSessions(ctx))
	all, err = repo.GetAllSessions(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestUnlockGuardRepository(t *testing.T) {
	t.Parallel()

	repo := inmemory.NewRepoManager().UnlockGuardRepository()

	guard, err := repo.GetOrCreateGuard(ctx)
	require.NoError(t, err)
	require.Zero(t, guard.ConsecutiveFailures)

	now := time.Now()
	err = repo.UpdateGuard(ctx, func(g *domain.UnlockGuard) (*domain.UnlockGuard, error) {
		g.RegisterFailure(now, 5, 15*time.Minute)
		return g, nil
	})
	require.NoError(t, err)

	guard, err = repo.GetOrCreateGuard(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, guard.ConsecutiveFailures)

	require.NoError(t, repo.DeleteGuard(ctx))
	guard, err = repo.GetOrCreateGuard(ctx)
	require.NoError(t, err)
	require.Zero(t, guard.ConsecutiveFailures)
}
