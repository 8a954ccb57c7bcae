package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/wallet"
)

// OperatorService defines the management operations on the accounts of an
// initialized wallet. Operations that need the mnemonic, like deriving or
// discovering accounts, require an active session and count as activity on
// it.
type OperatorService interface {
	ListAccounts(ctx context.Context, withBalance bool) ([]AccountInfo, error)
	RenameAccount(ctx context.Context, accountIndex uint32, name string) error
	DeriveNextAccount(ctx context.Context, name string) (*AccountInfo, error)
	// DiscoverAccounts scans the chain index for accounts with history and
	// merges the missing ones into the wallet. The merge is additive, the
	// name and balance of accounts already known are preserved. On an
	// aborted scan the accounts found so far are still merged and returned
	// along with the abort error.
	DiscoverAccounts(ctx context.Context) (*DiscoveryReport, error)
	EnrollCredential(ctx context.Context, label string) (string, error)
	CredentialStatus(ctx context.Context) (*CredentialStatus, error)
}

type operatorService struct {
	repoManager       ports.RepoManager
	explorerSvc       explorer.Service
	sessionManager    SessionManager
	discoverer        AccountDiscoverer
	credentialBinding ports.CredentialBinding
	notifier          *auditNotifier
	addressPrefix     string
}

// NewOperatorService is a constructor function for OperatorService.
func NewOperatorService(
	repoManager ports.RepoManager,
	explorerSvc explorer.Service,
	sessionManager SessionManager,
	discoverer AccountDiscoverer,
	pubsub ports.SecurePubSub,
	credentialBinding ports.CredentialBinding,
	addressPrefix string,
) OperatorService {
	return &operatorService{
		repoManager:       repoManager,
		explorerSvc:       explorerSvc,
		sessionManager:    sessionManager,
		discoverer:        discoverer,
		credentialBinding: credentialBinding,
		notifier:          &auditNotifier{pubsub},
		addressPrefix:     addressPrefix,
	}
}

func (o *operatorService) ListAccounts(
	ctx context.Context, withBalance bool,
) ([]AccountInfo, error) {
	vault, err := o.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return nil, err
	}

	accounts := vault.ListAccounts()
	infos := make([]AccountInfo, 0, len(accounts))
	for _, account := range accounts {
		infos = append(infos, accountInfo(account))
	}

	if !withBalance {
		return infos, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for i := range infos {
		i := i
		eg.Go(func() error {
			balance, err := o.explorerSvc.GetBalance(egCtx, infos[i].Address)
			if err != nil {
				return err
			}
			infos[i].Balance = balance
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, &OracleUnavailableError{err}
	}

	// cache the fetched balances so a locked wallet can still show the
	// last known ones
	if err := o.repoManager.VaultRepository().UpdateVault(
		ctx,
		func(v *domain.Vault) (*domain.Vault, error) {
			for _, info := range infos {
				if err := v.SetAccountBalance(info.Index, info.Balance); err != nil {
					return nil, err
				}
			}
			return v, nil
		},
	); err != nil {
		log.WithError(err).Warn("an error occured while caching account balances")
	}

	return infos, nil
}

func (o *operatorService) RenameAccount(
	ctx context.Context, accountIndex uint32, name string,
) error {
	if err := o.sessionManager.Touch(ctx); err != nil {
		return err
	}

	return o.repoManager.VaultRepository().UpdateVault(
		ctx,
		func(v *domain.Vault) (*domain.Vault, error) {
			if err := v.RenameAccount(accountIndex, name); err != nil {
				return nil, err
			}
			return v, nil
		},
	)
}

func (o *operatorService) DeriveNextAccount(
	ctx context.Context, name string,
) (*AccountInfo, error) {
	vault, err := o.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return nil, err
	}

	if err := o.sessionManager.Touch(ctx); err != nil {
		return nil, err
	}

	accountIndex := vault.NextAccountIndex()
	var address string
	if err := o.sessionManager.WithMnemonic(
		ctx,
		func(mnemonic []string) error {
			ww, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
				Mnemonic: mnemonic,
			})
			if err != nil {
				return err
			}
			address, err = ww.AccountAddress(wallet.AccountAddressOpts{
				Account: accountIndex,
				Prefix:  o.addressPrefix,
			})
			return err
		},
	); err != nil {
		return nil, err
	}

	account, err := domain.NewAccount(accountIndex, name, address)
	if err != nil {
		return nil, err
	}
	if err := o.repoManager.VaultRepository().UpdateVault(
		ctx,
		func(v *domain.Vault) (*domain.Vault, error) {
			if err := v.AddAccount(account); err != nil {
				return nil, err
			}
			return v, nil
		},
	); err != nil {
		return nil, err
	}

	info := accountInfo(account)
	return &info, nil
}

func (o *operatorService) DiscoverAccounts(
	ctx context.Context,
) (*DiscoveryReport, error) {
	vault, err := o.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return nil, err
	}
	ownerAddress := vault.OwnerAddress()

	if err := o.sessionManager.Touch(ctx); err != nil {
		return nil, err
	}

	var report *DiscoveryReport
	scanErr := o.sessionManager.WithMnemonic(
		ctx,
		func(mnemonic []string) error {
			ww, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
				Mnemonic: mnemonic,
			})
			if err != nil {
				return err
			}
			report, err = o.discoverer.Discover(ctx, ownerAddress, ww)
			return err
		},
	)
	if report == nil {
		return nil, scanErr
	}

	added := make([]*domain.Account, 0)
	if err := o.repoManager.VaultRepository().UpdateVault(
		ctx,
		func(v *domain.Vault) (*domain.Vault, error) {
			for _, info := range report.Found {
				if _, err := v.AccountByIndex(info.Index); err == nil {
					continue
				}
				account, err := domain.NewAccount(info.Index, "", info.Address)
				if err != nil {
					return nil, err
				}
				if err := v.AddAccount(account); err != nil {
					return nil, err
				}
				added = append(added, account)
			}
			return v, nil
		},
	); err != nil {
		return nil, err
	}

	for _, account := range added {
		o.notifier.notify(newAuditEvent(
			TopicAccountDiscovered, ownerAddress, map[string]interface{}{
				"index":   account.Index,
				"address": account.Address,
			},
		))
	}
	if len(added) > 0 {
		log.Infof("discovered %d new accounts", len(added))
	}

	return report, scanErr
}

func (o *operatorService) EnrollCredential(
	ctx context.Context, label string,
) (string, error) {
	if o.credentialBinding == nil || !o.credentialBinding.IsSupported() {
		return "", ErrCredentialBindingNotSupported
	}

	vault, err := o.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		return "", err
	}
	ownerAddress := vault.OwnerAddress()

	// enrolling requires an unlocked wallet, the platform ceremony is a
	// trust signal bound to the authenticated owner
	if err := o.sessionManager.Touch(ctx); err != nil {
		return "", err
	}

	credentialID, err := o.credentialBinding.Enroll(ctx, ownerAddress, label)
	if err != nil {
		return "", err
	}

	o.notifier.notify(newAuditEvent(
		TopicCredentialEnrolled, ownerAddress, map[string]interface{}{
			"credential_id": credentialID,
			"label":         label,
		},
	))
	return credentialID, nil
}

func (o *operatorService) CredentialStatus(
	ctx context.Context,
) (*CredentialStatus, error) {
	supported := o.credentialBinding != nil && o.credentialBinding.IsSupported()
	status := &CredentialStatus{Supported: supported}
	if !supported {
		return status, nil
	}

	vault, err := o.repoManager.VaultRepository().GetVault(ctx)
	if err != nil {
		if err == domain.ErrVaultNotInitialized {
			return status, nil
		}
		return nil, err
	}

	enrolled, err := o.credentialBinding.HasCredential(ctx, vault.OwnerAddress())
	if err != nil {
		return nil, err
	}
	status.Enrolled = enrolled
	return status, nil
}
