package domain_test

import (
	"testing"
	"time"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testMaxAttempts     = 5
	testLockoutDuration = 15 * time.Minute
)

func TestUnlockGuardLockout(t *testing.T) {
	t.Parallel()

	guard := domain.NewUnlockGuard()
	now := time.Now()

	require.False(t, guard.IsLockedOut(now))
	require.Equal(t, testMaxAttempts, guard.RemainingAttempts(testMaxAttempts))

	// the first maxAttempts-1 failures do not trigger the lockout
	for i := 0; i < testMaxAttempts-1; i++ {
		lockedOut := guard.RegisterFailure(now, testMaxAttempts, testLockoutDuration)
		require.False(t, lockedOut)
		require.False(t, guard.IsLockedOut(now))
	}
	require.Equal(t, 1, guard.RemainingAttempts(testMaxAttempts))

	// the nth one does
	lockedOut := guard.RegisterFailure(now, testMaxAttempts, testLockoutDuration)
	require.True(t, lockedOut)
	require.True(t, guard.IsLockedOut(now))
	assert.Equal(t, testLockoutDuration, guard.RetryAfter(now))

	// still locked right before the deadline, free right at it
	almostDone := now.Add(testLockoutDuration - time.Second)
	require.True(t, guard.IsLockedOut(almostDone))
	assert.Equal(t, time.Second, guard.RetryAfter(almostDone))

	done := now.Add(testLockoutDuration)
	require.False(t, guard.IsLockedOut(done))
	assert.Equal(t, time.Duration(0), guard.RetryAfter(done))

	// once the lockout elapsed the failure budget is fresh again
	require.Equal(t, testMaxAttempts, guard.RemainingAttempts(testMaxAttempts))
	lockedOut = guard.RegisterFailure(done, testMaxAttempts, testLockoutDuration)
	require.False(t, lockedOut)
}

func TestUnlockGuardSuccessResetsStreak(t *testing.T) {
	t.Parallel()

	guard := domain.NewUnlockGuard()
	now := time.Now()

	for i := 0; i < testMaxAttempts-1; i++ {
		guard.RegisterFailure(now, testMaxAttempts, testLockoutDuration)
	}
	require.Equal(t, 1, guard.RemainingAttempts(testMaxAttempts))

	guard.RegisterSuccess()
	require.Equal(t, testMaxAttempts, guard.RemainingAttempts(testMaxAttempts))
	require.False(t, guard.IsLockedOut(now))

	// a new failure after the reset is the first of a new streak
	lockedOut := guard.RegisterFailure(now, testMaxAttempts, testLockoutDuration)
	require.False(t, lockedOut)
	require.Equal(t, testMaxAttempts-1, guard.RemainingAttempts(testMaxAttempts))
}
