package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters of the security-sensitive operations of the wallet. They end up in
// the dump written by DumpPrometheusDefaults on shutdown.
var (
	UnlockAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rainum_wallet_unlock_attempts_total",
		Help: "Number of unlock attempts partitioned by outcome.",
	}, []string{"outcome"})

	Lockouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rainum_wallet_lockouts_total",
		Help: "Number of times the unlock operation has been locked out.",
	})

	DiscoveryScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rainum_wallet_discovery_scans_total",
		Help: "Number of account discovery scans performed.",
	})

	OracleRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rainum_wallet_oracle_requests_total",
		Help: "Number of address activity lookups partitioned by outcome.",
	}, []string{"outcome"})

	SessionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rainum_wallet_sessions_expired_total",
		Help: "Number of sessions ended by the idle timeout.",
	})
)
