package explorer

import (
	"context"

	"github.com/shopspring/decimal"
)

// AddressStatus is the activity summary of an address as reported by the
// chain index.
type AddressStatus struct {
	Address          string
	ConfirmedTxCount int
	MempoolTxCount   int
	Balance          decimal.Decimal
}

// IsUsed returns whether the address appears in at least one transaction,
// confirmed or still in mempool. Receiving alone is enough, the funds don't
// need to be spendable yet.
func (s AddressStatus) IsUsed() bool {
	return s.ConfirmedTxCount > 0 || s.MempoolTxCount > 0
}

// Service is representation of a chain index that allows to fetch data about
// addresses of the Rainum chain.
type Service interface {
	// GetAddressStatus fetches the activity summary of the given address.
	GetAddressStatus(ctx context.Context, addr string) (AddressStatus, error)
	// IsAddressUsed returns whether the given address appears in any
	// transaction of the chain or of the mempool.
	IsAddressUsed(ctx context.Context, addr string) (bool, error)
	// GetBalance returns the spendable balance of the given address in RNM.
	GetBalance(ctx context.Context, addr string) (decimal.Decimal, error)
	// GetBlockHeight returns the number of blocks of the chain.
	GetBlockHeight(ctx context.Context) (int, error)
}
