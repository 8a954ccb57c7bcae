package config_test

import (
	"testing"
	"time"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigDefaults(t *testing.T) {
	t.Setenv("RAINUM_DATADIR", t.TempDir())

	err := config.InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "rnm", config.GetString(config.AddressPrefixKey))
	assert.Equal(t, 5, config.GetInt(config.GapLimitKey))
	assert.Equal(t, 5, config.GetInt(config.MaxUnlockAttemptsKey))
	assert.Equal(t, 15*time.Minute, config.GetDuration(config.LockoutDurationKey))
	assert.Equal(t, 5*time.Minute, config.GetDuration(config.SessionTTLKey))
	assert.Equal(t, 1<<20, config.GetInt(config.KdfWorkFactorKey))
	assert.Equal(t, false, config.GetBool(config.EnableProfilerKey))
}

func TestInitConfigOverrides(t *testing.T) {
	t.Setenv("RAINUM_DATADIR", t.TempDir())
	t.Setenv("RAINUM_GAP_LIMIT", "20")
	t.Setenv("RAINUM_LOCKOUT_DURATION", "30m")
	t.Setenv("RAINUM_ADDRESS_PREFIX", "trnm")

	err := config.InitConfig()
	require.NoError(t, err)

	assert.Equal(t, 20, config.GetInt(config.GapLimitKey))
	assert.Equal(t, 30*time.Minute, config.GetDuration(config.LockoutDurationKey))
	assert.Equal(t, "trnm", config.GetString(config.AddressPrefixKey))
}

func TestFailingInitConfig(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad address prefix", "RAINUM_ADDRESS_PREFIX", "RNM!"},
		{"bad gap limit", "RAINUM_GAP_LIMIT", "0"},
		{"bad max unlock attempts", "RAINUM_MAX_UNLOCK_ATTEMPTS", "-2"},
		{"bad kdf work factor", "RAINUM_KDF_WORK_FACTOR", "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RAINUM_DATADIR", t.TempDir())
			t.Setenv(tt.key, tt.value)

			err := config.InitConfig()
			require.Error(t, err)
		})
	}
}
