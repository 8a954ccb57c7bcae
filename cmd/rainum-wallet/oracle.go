package main

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer"
)

var errOracleOffline = errors.New("chain index is offline")

// offlineOracle stands in for the chain index when the configured endpoint
// is unreachable at startup. Every lookup fails with the same error, which
// discovery turns into inconclusive indexes instead of empty ones.
type offlineOracle struct {
	err error
}

func (o offlineOracle) GetAddressStatus(
	_ context.Context, _ string,
) (explorer.AddressStatus, error) {
	return explorer.AddressStatus{}, o.err
}

func (o offlineOracle) IsAddressUsed(_ context.Context, _ string) (bool, error) {
	return false, o.err
}

func (o offlineOracle) GetBalance(
	_ context.Context, _ string,
) (decimal.Decimal, error) {
	return decimal.Zero, o.err
}

func (o offlineOracle) GetBlockHeight(_ context.Context) (int, error) {
	return 0, o.err
}
