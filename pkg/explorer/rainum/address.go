package rainum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/util"
	"github.com/shopspring/decimal"
)

// rnmPrecision is the number of decimal digits of the chain base unit.
const rnmPrecision = 8

type txStats struct {
	FundedSum uint64 `json:"funded_txo_sum"`
	SpentSum  uint64 `json:"spent_txo_sum"`
	TxCount   int    `json:"tx_count"`
}

type addressInfo struct {
	Address      string  `json:"address"`
	ChainStats   txStats `json:"chain_stats"`
	MempoolStats txStats `json:"mempool_stats"`
}

func (r *rainum) GetAddressStatus(
	ctx context.Context, addr string,
) (explorer.AddressStatus, error) {
	url := fmt.Sprintf("%s/address/%s", r.apiURL, addr)
	status, resp, err := util.NewHTTPRequest(ctx, "GET", url, "", nil)
	if err != nil {
		return explorer.AddressStatus{}, fmt.Errorf(
			"error on retrieving address info: %s", err,
		)
	}
	if status != http.StatusOK {
		return explorer.AddressStatus{}, fmt.Errorf(resp)
	}

	var info addressInfo
	if err := json.Unmarshal([]byte(resp), &info); err != nil {
		return explorer.AddressStatus{}, fmt.Errorf(
			"error on retrieving address info: %s", err,
		)
	}

	balance := decimal.New(
		int64(info.ChainStats.FundedSum)-int64(info.ChainStats.SpentSum),
		-rnmPrecision,
	)

	return explorer.AddressStatus{
		Address:          addr,
		ConfirmedTxCount: info.ChainStats.TxCount,
		MempoolTxCount:   info.MempoolStats.TxCount,
		Balance:          balance,
	}, nil
}

func (r *rainum) IsAddressUsed(ctx context.Context, addr string) (bool, error) {
	info, err := r.GetAddressStatus(ctx, addr)
	if err != nil {
		return false, err
	}
	return info.IsUsed(), nil
}

func (r *rainum) GetBalance(
	ctx context.Context, addr string,
) (decimal.Decimal, error) {
	info, err := r.GetAddressStatus(ctx, addr)
	if err != nil {
		return decimal.Zero, err
	}
	return info.Balance, nil
}
