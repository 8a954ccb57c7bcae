package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of
	// the wallet
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ExplorerEndpointKey is the endpoint where the oracle of the Rainum chain index listens on
	ExplorerEndpointKey = "EXPLORER_ENDPOINT"
	// AddressPrefixKey is the bech32 human readable part of derived addresses
	AddressPrefixKey = "ADDRESS_PREFIX"
	// GapLimitKey is the number of consecutive unused accounts after which discovery stops scanning
	GapLimitKey = "GAP_LIMIT"
	// DiscoveryMaxAttemptsKey is the number of lookups performed against the chain index per account before giving up the scan
	DiscoveryMaxAttemptsKey = "DISCOVERY_MAX_ATTEMPTS"
	// DiscoveryRetryDelayKey is the base delay between consecutive lookups of the same account, grows linearly with the attempt number
	DiscoveryRetryDelayKey = "DISCOVERY_RETRY_DELAY"
	// DiscoveryScanCeilingKey is the hard cap on the total number of accounts scanned by a single discovery run
	DiscoveryScanCeilingKey = "DISCOVERY_SCAN_CEILING"
	// OracleRateLimitKey is the max number of chain index lookups per second
	OracleRateLimitKey = "ORACLE_RATE_LIMIT"
	// MaxUnlockAttemptsKey is the number of consecutive failed unlock attempts after which the wallet gets locked out
	MaxUnlockAttemptsKey = "MAX_UNLOCK_ATTEMPTS"
	// LockoutDurationKey is how long the unlock operation stays unavailable once the max failed attempts are reached, as a duration string ie. 15m
	LockoutDurationKey = "LOCKOUT_DURATION"
	// SessionTTLKey is the idle timeout of unlocked sessions, as a duration string ie. 5m
	SessionTTLKey = "SESSION_TTL"
	// SessionMonitorIntervalKey is how often the session monitor checks for expired sessions
	SessionMonitorIntervalKey = "SESSION_MONITOR_INTERVAL"
	// KdfWorkFactorKey is the scrypt work factor used to stretch the unlock password of new vaults
	KdfWorkFactorKey = "KDF_WORK_FACTOR"
	// WebhookEndpointsKey is the list of endpoints where audit events are pushed to
	WebhookEndpointsKey = "WEBHOOK_ENDPOINTS"
	// WebhookSecretKey is the secret used to sign the JWT auth token of audit webhooks
	WebhookSecretKey = "WEBHOOK_SECRET"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic wallet statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("rainum-wallet", false)

var addressPrefixRegexp = regexp.MustCompile(`^[a-z]{1,8}$`)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("RAINUM")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ExplorerEndpointKey, "http://localhost:3001")
	vip.SetDefault(AddressPrefixKey, "rnm")
	vip.SetDefault(GapLimitKey, 5)
	vip.SetDefault(DiscoveryMaxAttemptsKey, 3)
	vip.SetDefault(DiscoveryRetryDelayKey, time.Second)
	vip.SetDefault(DiscoveryScanCeilingKey, 100)
	vip.SetDefault(OracleRateLimitKey, 10)
	vip.SetDefault(MaxUnlockAttemptsKey, 5)
	vip.SetDefault(LockoutDurationKey, 15*time.Minute)
	vip.SetDefault(SessionTTLKey, 5*time.Minute)
	vip.SetDefault(SessionMonitorIntervalKey, time.Second)
	vip.SetDefault(KdfWorkFactorKey, 1<<20)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetStringSlice(key string) []string {
	return vip.GetStringSlice(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if !addressPrefixRegexp.MatchString(GetString(AddressPrefixKey)) {
		return fmt.Errorf(
			"%s must be a 1-8 chars lowercase string", AddressPrefixKey,
		)
	}

	if GetInt(GapLimitKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", GapLimitKey)
	}

	if GetInt(DiscoveryMaxAttemptsKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", DiscoveryMaxAttemptsKey)
	}

	if GetInt(DiscoveryScanCeilingKey) < GetInt(GapLimitKey) {
		return fmt.Errorf(
			"%s must be greater than or equal to %s",
			DiscoveryScanCeilingKey, GapLimitKey,
		)
	}

	if GetInt(OracleRateLimitKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", OracleRateLimitKey)
	}

	if GetInt(MaxUnlockAttemptsKey) <= 0 {
		return fmt.Errorf("%s must be a positive number", MaxUnlockAttemptsKey)
	}

	if GetDuration(LockoutDurationKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", LockoutDurationKey)
	}

	if GetDuration(SessionTTLKey) <= 0 {
		return fmt.Errorf("%s must be a positive duration", SessionTTLKey)
	}

	if GetDuration(SessionMonitorIntervalKey) <= 0 {
		return fmt.Errorf(
			"%s must be a positive duration", SessionMonitorIntervalKey,
		)
	}

	workFactor := GetInt(KdfWorkFactorKey)
	if workFactor <= 1 || workFactor&(workFactor-1) != 0 {
		return fmt.Errorf(
			"%s must be a power of two greater than one", KdfWorkFactorKey,
		)
	}

	if len(GetStringSlice(WebhookEndpointsKey)) > 0 &&
		len(GetString(WebhookSecretKey)) <= 0 {
		return fmt.Errorf(
			"%s is required when %s is set", WebhookSecretKey, WebhookEndpointsKey,
		)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}

	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
