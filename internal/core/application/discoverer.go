package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/singleflight"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/circuitbreaker"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/stats"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/wallet"
)

// AccountDiscoverer scans derived addresses against the activity oracle to
// find every account with on-chain history. The scan advances one index at
// a time and halts once the gap limit of consecutive empty indexes is
// reached, or once the scan ceiling of total scanned indexes is hit so that
// a misbehaving oracle cannot make it run forever.
type AccountDiscoverer interface {
	Discover(
		ctx context.Context, ownerAddress string, ww *wallet.Wallet,
	) (*DiscoveryReport, error)
	IsScanning() bool
}

type accountDiscoverer struct {
	explorerSvc   explorer.Service
	addressPrefix string
	gapLimit      int
	scanCeiling   int
	maxAttempts   int
	retryDelay    time.Duration
	limiter       ratelimit.Limiter
	cb            *gobreaker.CircuitBreaker
	flightGroup   singleflight.Group
	scanning      bool

	lock *sync.RWMutex
}

// NewAccountDiscoverer is a constructor function for AccountDiscoverer.
func NewAccountDiscoverer(
	explorerSvc explorer.Service,
	addressPrefix string,
	gapLimit, scanCeiling, maxAttempts int,
	retryDelay time.Duration,
	requestsPerSecond int,
) AccountDiscoverer {
	return &accountDiscoverer{
		explorerSvc:   explorerSvc,
		addressPrefix: addressPrefix,
		gapLimit:      gapLimit,
		scanCeiling:   scanCeiling,
		maxAttempts:   maxAttempts,
		retryDelay:    retryDelay,
		limiter:       ratelimit.New(requestsPerSecond),
		cb:            circuitbreaker.NewCircuitBreaker("oracle"),
		lock:          &sync.RWMutex{},
	}
}

// Discover runs a scan for the given owner. Concurrent calls for the same
// owner are coalesced into a single in-flight scan sharing its report, so
// that re-running a discovery never duplicates the oracle load.
func (d *accountDiscoverer) Discover(
	ctx context.Context, ownerAddress string, ww *wallet.Wallet,
) (*DiscoveryReport, error) {
	res, err, shared := d.flightGroup.Do(
		ownerAddress, func() (interface{}, error) {
			return d.scan(ctx, ww)
		},
	)
	if shared {
		log.Debugf("discovery for owner %s joined an in-flight scan", ownerAddress)
	}
	report, _ := res.(*DiscoveryReport)
	return report, err
}

func (d *accountDiscoverer) IsScanning() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.scanning
}

func (d *accountDiscoverer) setScanning(val bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.scanning = val
}

func (d *accountDiscoverer) scan(
	ctx context.Context, ww *wallet.Wallet,
) (*DiscoveryReport, error) {
	d.setScanning(true)
	defer d.setScanning(false)

	stats.DiscoveryScans.Inc()
	start := time.Now()

	report := &DiscoveryReport{
		Found:        make([]AccountInfo, 0),
		Inconclusive: make([]uint32, 0),
	}

	index := uint32(0)
	consecutiveEmpty := 0
	scanned := 0

	for consecutiveEmpty < d.gapLimit && scanned < d.scanCeiling {
		// an aborted scan stops calling the oracle but keeps what it found
		if ctx.Err() != nil {
			report.Partial = true
			report.NextIndex = index
			report.Scanned = scanned
			return report, ctx.Err()
		}

		address, err := ww.AccountAddress(wallet.AccountAddressOpts{
			Account: index,
			Prefix:  d.addressPrefix,
		})
		if err != nil {
			return report, err
		}

		used, err := d.hasActivity(ctx, address)
		scanned++

		switch {
		case err != nil:
			// the oracle kept failing for this index, report it as
			// inconclusive instead of asserting it is empty
			log.WithError(err).Warnf("activity lookup inconclusive for account %d", index)
			report.Inconclusive = append(report.Inconclusive, index)
			report.Partial = true
		case used:
			consecutiveEmpty = 0
			report.Found = append(report.Found, AccountInfo{
				Index:   index,
				Address: address,
			})
		default:
			consecutiveEmpty++
			// the first account always exists, even with no history
			if index == 0 {
				report.Found = append(report.Found, AccountInfo{
					Index:   index,
					Address: address,
				})
			}
		}

		index++
	}

	report.NextIndex = index
	report.Scanned = scanned

	log.Debugf(
		"discovery scanned %d accounts in %.2fs, %d found, %d inconclusive",
		scanned, time.Since(start).Seconds(),
		len(report.Found), len(report.Inconclusive),
	)
	return report, nil
}

// hasActivity queries the oracle with bounded retries. Transient failures
// back off linearly between attempts and the circuit breaker makes an
// unresponsive oracle fail fast instead of burning the whole retry budget
// on every index.
func (d *accountDiscoverer) hasActivity(
	ctx context.Context, address string,
) (bool, error) {
	var lastErr error
	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * d.retryDelay):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		d.limiter.Take()

		res, err := d.cb.Execute(func() (interface{}, error) {
			return d.explorerSvc.IsAddressUsed(ctx, address)
		})
		if err != nil {
			stats.OracleRequests.WithLabelValues("failure").Inc()
			lastErr = err
			continue
		}
		stats.OracleRequests.WithLabelValues("success").Inc()
		return res.(bool), nil
	}

	return false, &OracleUnavailableError{lastErr}
}
