package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/config"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/application"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/biometric"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/pubsub"
	dbbadger "github.com/RainumBlockchain/rainum-wallet-sub001/internal/infrastructure/storage/db/badger"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer/rainum"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/stats"
)

// passwordEnvVar overrides the startup password prompt, for running the
// session host under a supervisor without a terminal.
const passwordEnvVar = "RAINUM_WALLET_PASSWORD"

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	dbDir := filepath.Join(datadir, config.DbLocation)

	repoManager, err := dbbadger.NewRepoManager(dbDir, log.New())
	if err != nil {
		log.WithError(err).Fatal("an error occured while opening the wallet store")
	}
	defer repoManager.Close()

	pubsubSvc, err := pubsub.NewService(filepath.Join(dbDir, "pubsub"), log.New())
	if err != nil {
		log.WithError(err).Fatal(
			"an error occured while opening the subscriptions store",
		)
	}
	defer pubsubSvc.Close()

	// endpoints configured at startup keep a stable subscription id so
	// that restarts don't register duplicates
	webhookSecret := config.GetString(config.WebhookSecretKey)
	for _, endpoint := range config.GetStringSlice(config.WebhookEndpointsKey) {
		id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(endpoint)).String()
		if _, err := pubsubSvc.SubscribeWithID(
			id, ports.AnyTopic, endpoint, webhookSecret,
		); err != nil {
			log.WithError(err).Warnf("skipping audit webhook %s", endpoint)
		}
	}

	credentialBinding, err := biometric.NewService(datadir)
	if err != nil {
		log.WithError(err).Warn("platform credentials are not available")
		credentialBinding = biometric.NewUnsupported()
	}

	explorerSvc, err := rainum.NewService(config.GetString(config.ExplorerEndpointKey))
	if err != nil {
		log.WithError(err).Fatal("chain index is not reachable")
	}

	addressPrefix := config.GetString(config.AddressPrefixKey)

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

	if !walletSvc.Status(context.Background()).Initialized {
		log.Fatal("wallet is not initialized, run 'rainum-wallet init' first")
	}

	password, err := getPassword()
	if err != nil {
		log.WithError(err).Fatal("an error occured while reading the password")
	}

	reply, err := walletSvc.UnlockWallet(context.Background(), password)
	if err != nil {
		log.WithError(err).Fatal("an error occured while unlocking the wallet")
	}
	log.Infof(
		"wallet unlocked, session %s expires at %s if idle",
		reply.SessionID, reply.ExpiresAt.Format(time.RFC3339),
	)

	expiredChan := make(chan *domain.Session, 1)
	sessionManager.OnSessionExpired(func(session *domain.Session) {
		expiredChan <- session
	})

	go sessionManager.Start()
	defer sessionManager.Stop()

	if config.GetBool(config.EnableProfilerKey) {
		statsCtx, stopStats := context.WithCancel(context.Background())
		defer stopStats()

		stats.EnableMemoryStatistics(
			statsCtx,
			time.Duration(config.GetInt(config.StatsIntervalKey))*time.Second,
			filepath.Join(datadir, config.ProfilerLocation, "prometheus.txt"),
		)
	}

	// refresh the account set and the balances while the session is fresh
	go func() {
		report, err := operatorSvc.DiscoverAccounts(context.Background())
		if err != nil {
			log.WithError(err).Warn("an error occured while rescanning the accounts")
			return
		}
		log.Infof(
			"account rescan done, %d with history, next index %d",
			len(report.Found), report.NextIndex,
		)
	}()

	log.Info("wallet session host is running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		log.Infof("shutting down on %s", sig)
		if err := walletSvc.LockWallet(context.Background()); err != nil {
			log.WithError(err).Warn("an error occured while locking the wallet")
		}
	case session := <-expiredChan:
		log.Infof("session %s expired for inactivity, exiting", session.ID)
	}

	log.Debug("exiting")
}

func getPassword() (string, error) {
	if password := os.Getenv(passwordEnvVar); len(password) > 0 {
		return password, nil
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(password) <= 0 {
		return "", fmt.Errorf("password must not be empty")
	}

	return string(password), nil
}
