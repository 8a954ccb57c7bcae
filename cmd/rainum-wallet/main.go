package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/config"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/application"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/biometric"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/pubsub"
	dbbadger "github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/storage/db/badger"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer/rainum"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "rainum-wallet CLI"
	app.Usage = "Command line interface for the Rainum wallet"
	app.Commands = append(
		app.Commands,
		&genseed,
		&initwallet,
		&overwritewallet,
		&unlockwallet,
		&lockwallet,
		&status,
		&changepassword,
		&deletewallet,
		&accounts,
		&account,
		&discover,
		&credential,
		&webhook,
		&listwebhooks,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

type services struct {
	wallet   application.WalletUnlockerService
	operator application.OperatorService
	sessions application.SessionManager
	pubsub   ports.SecurePubSub
}

// getServices assembles the wallet services on top of the local stores.
// The stores are owned by a single process at a time, a command run while
// the session host is up fails at opening them.
func getServices() (*services, func(), error) {
	if err := config.InitConfig(); err != nil {
		return nil, nil, err
	}

	datadir := config.GetDatadir()
	dbDir := filepath.Join(datadir, config.DbLocation)

	repoManager, err := dbbadger.NewRepoManager(dbDir, nil)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"opening wallet store (is rainum-walletd running?): %w", err,
		)
	}

	pubsubSvc, err := pubsub.NewService(filepath.Join(dbDir, "pubsub"), nil)
	if err != nil {
		repoManager.Close()
		return nil, nil, err
	}

	credentialBinding, err := biometric.NewService(datadir)
	if err != nil {
		log.WithError(err).Warn("platform credentials are not available")
		credentialBinding = biometric.NewUnsupported()
	}

	addressPrefix := config.GetString(config.AddressPrefixKey)

	explorerSvc, err := rainum.NewService(config.GetString(config.ExplorerEndpointKey))
	if err != nil {
		// local operations must keep working without the chain index,
		// scans report their indexes as inconclusive instead
		log.WithError(err).Warn("chain index is not reachable")
		explorerSvc = offlineOracle{errOracleOffline}
	}

	discoverer := application.NewAccountDiscoverer(
		explorerSvc,
		addressPrefix,
		config.GetInt(config.GapLimitKey),
		config.GetInt(config.DiscoveryScanCeilingKey),
		config.GetInt(config.DiscoveryMaxAttemptsKey),
		config.GetDuration(config.DiscoveryRetryDelayKey),
		config.GetInt(config.OracleRateLimitKey),
	)

	sessionManager := application.NewSessionManager(
		repoManager,
		pubsubSvc,
		config.GetDuration(config.SessionTTLKey),
		config.GetDuration(config.SessionMonitorIntervalKey),
	)

	walletSvc := application.NewWalletUnlockerService(
		repoManager,
		sessionManager,
		discoverer,
		pubsubSvc,
		credentialBinding,
		addressPrefix,
		config.GetInt(config.MaxUnlockAttemptsKey),
		config.GetDuration(config.LockoutDurationKey),
		config.GetInt(config.KdfWorkFactorKey),
	)

	operatorSvc := application.NewOperatorService(
		repoManager,
		explorerSvc,
		sessionManager,
		discoverer,
		pubsubSvc,
		credentialBinding,
		addressPrefix,
	)

	cleanup := func() {
		if err := pubsubSvc.Close(); err != nil {
			log.WithError(err).Warn(
				"an error occured while closing the subscriptions store",
			)
		}
		repoManager.Close()
	}

	return &services{
		wallet:   walletSvc,
		operator: operatorSvc,
		sessions: sessionManager,
		pubsub:   pubsubSvc,
	}, cleanup, nil
}

func readPassword(ctx *cli.Context, flagName, prompt string) (string, error) {
	if password := ctx.String(flagName); len(password) > 0 {
		return password, nil
	}

	fmt.Printf("%s: ", prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if len(password) <= 0 {
		return "", errors.New("password must not be empty")
	}

	return string(password), nil
}

func readNewPassword(ctx *cli.Context, flagName string) (string, error) {
	if password := ctx.String(flagName); len(password) > 0 {
		return password, nil
	}

	fmt.Print("New password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	fmt.Print("Confirm password: ")
	confirmation, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading confirmation: %w", err)
	}

	if string(password) != string(confirmation) {
		return "", errors.New("passwords do not match")
	}

	return string(password), nil
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to render response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[rainum] %v\n", err)
	}
	os.Exit(1)
}
