package rainum_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer"
	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/explorer/rainum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBlockHeight(t *testing.T) {
	svc, shutdown := newTestService(t)
	defer shutdown()

	height, err := svc.GetBlockHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1024, height)
}

func TestGetAddressStatus(t *testing.T) {
	svc, shutdown := newTestService(t)
	defer shutdown()

	tests := []struct {
		addr    string
		used    bool
		balance string
	}{
		{"rnm1qusedaddress", true, "1"},
		{"rnm1qmempoolonly", true, "0"},
		{"rnm1qvirginaddr", false, "0"},
	}
	for _, tt := range tests {
		status, err := svc.GetAddressStatus(context.Background(), tt.addr)
		require.NoError(t, err)
		assert.Equal(t, tt.addr, status.Address)
		assert.Equal(t, tt.used, status.IsUsed())
		assert.True(t, status.Balance.Equal(decimal.RequireFromString(tt.balance)))

		used, err := svc.IsAddressUsed(context.Background(), tt.addr)
		require.NoError(t, err)
		assert.Equal(t, tt.used, used)

		balance, err := svc.GetBalance(context.Background(), tt.addr)
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.RequireFromString(tt.balance)))
	}
}

func TestFailingNewService(t *testing.T) {
	_, err := rainum.NewService("http://localhost:1")
	assert.Error(t, err)
}

func newTestService(t *testing.T) (svc explorer.Service, shutdown func()) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/blocks/tip/height", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "1024")
	})
	mux.HandleFunc("/address/rnm1qusedaddress", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"address": "rnm1qusedaddress",
			"chain_stats": {"funded_txo_sum": 150000000, "spent_txo_sum": 50000000, "tx_count": 3},
			"mempool_stats": {"funded_txo_sum": 0, "spent_txo_sum": 0, "tx_count": 0}
		}`)
	})
	mux.HandleFunc("/address/rnm1qmempoolonly", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"address": "rnm1qmempoolonly",
			"chain_stats": {"funded_txo_sum": 0, "spent_txo_sum": 0, "tx_count": 0},
			"mempool_stats": {"funded_txo_sum": 25000000, "spent_txo_sum": 0, "tx_count": 1}
		}`)
	})
	mux.HandleFunc("/address/rnm1qvirginaddr", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"address": "rnm1qvirginaddr",
			"chain_stats": {"funded_txo_sum": 0, "spent_txo_sum": 0, "tx_count": 0},
			"mempool_stats": {"funded_txo_sum": 0, "spent_txo_sum": 0, "tx_count": 0}
		}`)
	})

	server := httptest.NewServer(mux)

	svc, err := rainum.NewService(server.URL)
	require.NoError(t, err)

	return svc, server.Close
}
