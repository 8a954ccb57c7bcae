package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/securemem"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/stats"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/wallet"
)

// WalletUnlockerService defines the lifecycle operations of the wallet,
// from the creation of the vault to its deletion. Every operation that
// evaluates the passphrase goes through the unlock guard: attempts while
// locked out are rejected without touching the vault and every evaluated
// attempt updates the failure streak exactly once.
type WalletUnlockerService interface {
	GenSeed(ctx context.Context) ([]string, error)
	InitWallet(
		ctx context.Context,
		mnemonic []string,
		passphrase string,
		restore bool,
	) (*DiscoveryReport, error)
	OverwriteWallet(
		ctx context.Context,
		mnemonic []string,
		passphrase string,
		confirmed bool,
	) error
	UnlockWallet(ctx context.Context, passphrase string) (*UnlockReply, error)
	LockWallet(ctx context.Context) error
	ChangePassword(
		ctx context.Context,
		currentPassphrase string,
		newPassphrase string,
	) error
	DeleteWallet(ctx context.Context, passphrase string, confirmed bool) error
	Status(ctx context.Context) WalletStatus
	UnlockGuardInfo(ctx context.Context) (*GuardInfo, error)
}

type walletUnlockerService struct {
	repoManager       ports.RepoManager
	sessionManager    SessionManager
	discoverer        AccountDiscoverer
	credentialBinding ports.CredentialBinding
	notifier          *auditNotifier
	addressPrefix     string
	maxUnlockAttempts int
	lockoutDuration   time.Duration
	kdfWorkFactor     int

	lock *sync.Mutex
}

// NewWalletUnlockerService is a constructor function for WalletUnlockerService.
func NewWalletUnlockerService(
	repoManager ports.RepoManager,
	sessionManager SessionManager,
	discoverer AccountDiscoverer,
	pubsub ports.SecurePubSub,
	credentialBinding ports.CredentialBinding,
	addressPrefix string,
	maxUnlockAttempts int,
	lockoutDuration time.Duration,
	kdfWorkFactor int,
) WalletUnlockerService {
	return &walletUnlockerService{
		repoManager:       repoManager,
		sessionManager:    sessionManager,
		discoverer:        discoverer,
		credentialBinding: credentialBinding,
		notifier:          &auditNotifier{pubsub},
		addressPrefix:     addressPrefix,
		maxUnlockAttempts: maxUnlockAttempts,
		lockoutDuration:   lockoutDuration,
		kdfWorkFactor:     kdfWorkFactor,
		lock:              &sync.Mutex{},
	}
}

func (w *walletUnlockerService) GenSeed(ctx context.Context) ([]string, error) {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{EntropySize: 256})
	if err != nil {
		return nil, err
	}
	return mnemonic, nil
}

func (w *walletUnlockerService) InitWallet(
	ctx context.Context,
	mnemonic []string,
	passphrase string,
	restore bool,
) (*DiscoveryReport, error) {
	if _, err := w.repoManager.VaultRepository().GetVault(ctx); err == nil {
		return nil, domain.ErrVaultAlreadyInitialized
	} else if err != domain.ErrVaultNotInitialized {
		return nil, err
	}

	if restore {
		log.Debug("restoring wallet")
	} else {
		log.Debug("creating wallet")
	}

	pwd := []byte(passphrase)
	defer securemem.ZeroBytes(pwd)

	vault, err := domain.NewVault(mnemonic, pwd, w.kdfWorkFactor)
	if err != nil {
		return nil, err
	}

	ww, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
	if err != nil {
		return nil, err
	}
	ownerAddress, err := ww.AccountAddress(wallet.AccountAddressOpts{
		Account: 0,
		Prefix:  w.addressPrefix,
	})
	if err != nil {
		return nil, err
	}

	var report *DiscoveryReport
	if restore {
		start := time.Now()
		report, err = w.discoverer.Discover(ctx, ownerAddress, ww)
		if err != nil {
			return nil, err
		}
		log.Debugf("restoration took %.2fs", time.Since(start).Seconds())
	}

	if report != nil {
		for _, info := range report.Found {
			account, err := domain.NewAccount(info.Index, "", info.Address)
			if err != nil {
				return nil, err
			}
			if err := vault.AddAccount(account); err != nil {
				return nil, err
			}
		}
	}

	// the first account always exists, even if the scan could not confirm
	// any history for it
	if _, err := vault.AccountByIndex(0); err != nil {
		account, err := domain.NewAccount(0, "", ownerAddress)
		if err != nil {
			return nil, err
		}
		if err := vault.AddAccount(account); err != nil {
			return nil, err
		}
	}

	if err := w.repoManager.VaultRepository().AddVault(ctx, vault); err != nil {
		return nil, err
	}

	w.notifier.notify(newAuditEvent(
		TopicWalletCreated, ownerAddress, map[string]interface{}{
			"restored": restore,
			"accounts": len(vault.ListAccounts()),
		},
	))
	log.Debug("done")
	return report, nil
}

func (w *walletUnlockerService) OverwriteWallet(
	ctx context.Context,
	mnemonic []string,
	passphrase string,
	confirmed bool,
) error {
	if !confirmed {
		return ErrOverwriteNotConfirmed
	}

	if _, err := w.repoManager.VaultRepository().GetVault(ctx); err != nil {
		return err
	}

	// the wallet being replaced may still have an open session
	if w.sessionManager.IsAuthenticated(ctx) {
		if err := w.sessionManager.CloseCurrent(
			ctx, domain.SessionClosedByLogout,
		); err != nil {
			return err
		}
	}

	pwd := []byte(passphrase)
	defer securemem.ZeroBytes(pwd)

	vault, err := domain.NewVault(mnemonic, pwd, w.kdfWorkFactor)
	if err != nil {
		return err
	}

	ww, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: mnemonic,
	})
	if err != nil {
		return err
	}
	ownerAddress, err := ww.AccountAddress(wallet.AccountAddressOpts{
		Account: 0,
		Prefix:  w.addressPrefix,
	})
	if err != nil {
		return err
	}
	account, err := domain.NewAccount(0, "", ownerAddress)
	if err != nil {
		return err
	}
	if err := vault.AddAccount(account); err != nil {
		return err
	}

	if err := w.repoManager.VaultRepository().UpdateVault(
		ctx,
		func(_ *domain.Vault) (*domain.Vault, error) {
			return vault, nil
		},
	); err != nil {
		return err
	}

	// sessions and lockouts of the replaced wallet do not carry over
	if err := w.repoManager.SessionRepository().DeleteAllSessions(ctx); err != nil {
		return err
	}
	if err := w.repoManager.UnlockGuardRepository().DeleteGuard(ctx); err != nil {
		return err
	}

	w.notifier.notify(newAuditEvent(
		TopicWalletCreated, ownerAddress, map[string]interface{}{
			"overwrite": true,
		},
	))
	return nil
}

func (w *walletUnlockerService) UnlockWallet(
	ctx context.Context, passphrase string,
) (*UnlockReply, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	vault, err := w.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return nil, err
	}
	ownerAddress := vault.OwnerAddress()

	pwd := []byte(passphrase)
	defer securemem.ZeroBytes(pwd)

	var secret *securemem.Secret
	if err := w.guardedAttempt(ctx, ownerAddress, func() error {
		s, err := vault.Unlock(pwd)
		if err != nil {
			return err
		}
		secret = s
		return nil
	}); err != nil {
		if secret != nil {
			secret.Destroy()
		}
		return nil, err
	}

	reply, err := w.sessionManager.Open(ctx, ownerAddress, secret)
	if err != nil {
		secret.Destroy()
		return nil, err
	}

	w.notifier.notify(newAuditEvent(TopicLoginSuccess, ownerAddress, nil))
	w.notifier.notify(newAuditEvent(
		TopicWalletUnlocked, ownerAddress, map[string]interface{}{
			"session_id": reply.SessionID,
		},
	))
	return reply, nil
}

func (w *walletUnlockerService) LockWallet(ctx context.Context) error {
	session, err := w.sessionManager.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotAuthenticated
	}

	if err := w.sessionManager.CloseCurrent(
		ctx, domain.SessionClosedByLogout,
	); err != nil {
		return err
	}

	w.notifier.notify(newAuditEvent(
		TopicWalletLocked, session.OwnerAddress, map[string]interface{}{
			"session_id": session.ID,
		},
	))
	return nil
}

func (w *walletUnlockerService) ChangePassword(
	ctx context.Context,
	currentPassphrase string,
	newPassphrase string,
) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	vault, err := w.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return err
	}
	ownerAddress := vault.OwnerAddress()

	// a weak new passphrase is rejected upfront, before the current one is
	// evaluated, so that it does not count as a failed attempt
	if len(newPassphrase) < domain.MinPassphraseLength {
		return domain.ErrWeakPassphrase
	}

	currentPwd := []byte(currentPassphrase)
	defer securemem.ZeroBytes(currentPwd)
	newPwd := []byte(newPassphrase)
	defer securemem.ZeroBytes(newPwd)

	if err := w.guardedAttempt(ctx, ownerAddress, func() error {
		return w.repoManager.VaultRepository().UpdateVault(
			ctx,
			func(v *domain.Vault) (*domain.Vault, error) {
				if err := v.ChangePassphrase(
					currentPwd, newPwd, w.kdfWorkFactor,
				); err != nil {
					return nil, err
				}
				return v, nil
			},
		)
	}); err != nil {
		return err
	}

	w.notifier.notify(newAuditEvent(TopicPasswordChanged, ownerAddress, nil))
	return nil
}

func (w *walletUnlockerService) DeleteWallet(
	ctx context.Context, passphrase string, confirmed bool,
) error {
	if !confirmed {
		return ErrDeleteNotConfirmed
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	vault, err := w.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return err
	}
	ownerAddress := vault.OwnerAddress()

	pwd := []byte(passphrase)
	defer securemem.ZeroBytes(pwd)

	if err := w.guardedAttempt(ctx, ownerAddress, func() error {
		secret, err := vault.Unlock(pwd)
		if err != nil {
			return err
		}
		secret.Destroy()
		return nil
	}); err != nil {
		return err
	}

	if w.sessionManager.IsAuthenticated(ctx) {
		if err := w.sessionManager.CloseCurrent(
			ctx, domain.SessionClosedByLogout,
		); err != nil {
			return err
		}
	}

	if err := w.repoManager.VaultRepository().DeleteVault(ctx); err != nil {
		return err
	}
	if err := w.repoManager.SessionRepository().DeleteAllSessions(ctx); err != nil {
		return err
	}
	if err := w.repoManager.UnlockGuardRepository().DeleteGuard(ctx); err != nil {
		return err
	}

	if w.credentialBinding != nil {
		if has, _ := w.credentialBinding.HasCredential(ctx, ownerAddress); has {
			if err := w.credentialBinding.Revoke(ctx, ownerAddress); err != nil {
				log.WithError(err).Warn(
					"an error occured while revoking the platform credential",
				)
			}
		}
	}

	w.notifier.notify(newAuditEvent(TopicWalletDeleted, ownerAddress, nil))
	log.Info("wallet deleted")
	return nil
}

func (w *walletUnlockerService) Status(ctx context.Context) WalletStatus {
	initialized := false
	if _, err := w.repoManager.VaultRepository().GetVault(ctx); err == nil {
		initialized = true
	}

	return WalletStatus{
		Initialized: initialized,
		Unlocked:    w.sessionManager.IsAuthenticated(ctx),
		Scanning:    w.discoverer.IsScanning(),
	}
}

func (w *walletUnlockerService) UnlockGuardInfo(
	ctx context.Context,
) (*GuardInfo, error) {
	guard, err := w.repoManager.UnlockGuardRepository().GetOrCreateGuard(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	info := &GuardInfo{
		LockedOut:         guard.IsLockedOut(now),
		RetryAfter:        guard.RetryAfter(now),
		RemainingAttempts: guard.RemainingAttempts(w.maxUnlockAttempts),
	}
	// the budget is fresh once the lockout elapses, until then there is
	// nothing left to spend
	if info.LockedOut {
		info.RemainingAttempts = 0
	}
	return info, nil
}

// guardedAttempt runs attempt, which evaluates a passphrase against the
// vault, under the unlock guard. While locked out the attempt is rejected
// without being run, otherwise the guard is updated exactly once whatever
// the outcome, including structural vault failures.
func (w *walletUnlockerService) guardedAttempt(
	ctx context.Context, ownerAddress string, attempt func() error,
) error {
	guardRepo := w.repoManager.UnlockGuardRepository()
	guard, err := guardRepo.GetOrCreateGuard(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	if guard.IsLockedOut(now) {
		stats.UnlockAttempts.WithLabelValues("blocked").Inc()
		w.notifier.notify(newAuditEvent(
			TopicLoginBlocked, ownerAddress, map[string]interface{}{
				"retry_after": guard.RetryAfter(now).Round(time.Second).String(),
			},
		))
		return domain.RateLimitedError{RetryAfter: guard.RetryAfter(now)}
	}

	attemptErr := attempt()

	if attemptErr != nil {
		lockedOut := false
		remainingAttempts := 0
		if err := guardRepo.UpdateGuard(
			ctx,
			func(g *domain.UnlockGuard) (*domain.UnlockGuard, error) {
				lockedOut = g.RegisterFailure(
					now, w.maxUnlockAttempts, w.lockoutDuration,
				)
				if !lockedOut {
					remainingAttempts = g.RemainingAttempts(w.maxUnlockAttempts)
				}
				return g, nil
			},
		); err != nil {
			return err
		}

		stats.UnlockAttempts.WithLabelValues("failure").Inc()
		w.notifier.notify(newAuditEvent(
			TopicLoginFailed, ownerAddress, map[string]interface{}{
				"remaining_attempts": remainingAttempts,
			},
		))
		if lockedOut {
			stats.Lockouts.Inc()
			log.Warnf(
				"unlock suspended for %s after too many failed attempts",
				w.lockoutDuration,
			)
		}
		return attemptErr
	}

	if err := guardRepo.UpdateGuard(
		ctx,
		func(g *domain.UnlockGuard) (*domain.UnlockGuard, error) {
			g.RegisterSuccess()
			return g, nil
		},
	); err != nil {
		return err
	}
	stats.UnlockAttempts.WithLabelValues("success").Inc()
	return nil
}
