package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsClosed(t *testing.T) {
	closed := []Status{
		StatusDoneForToday, StatusCancelled, StatusReplaced,
		StatusStopped, StatusRejected, StatusSuspended, StatusExpired,
	}
	for _, s := range closed {
		assert.True(t, IsClosed(s), "status %s should be closed", s)
	}

	// Filled and the pending states stay out of the closed set; the
	// venue reports a closed status on a later query.
	open := []Status{
		StatusNew, StatusPartiallyFilled, StatusFilled,
		StatusPendingCancel, StatusPendingNew, StatusCalculated,
		StatusAcceptedForBidding, StatusPendingReplace,
	}
	for _, s := range open {
		assert.False(t, IsClosed(s), "status %s should not be closed", s)
	}
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive(StatusNew))
	assert.True(t, IsActive(StatusPartiallyFilled))
	assert.True(t, IsActive(StatusCalculated))
	assert.True(t, IsActive(StatusAcceptedForBidding))

	assert.False(t, IsActive(StatusFilled))
	assert.False(t, IsActive(StatusCancelled))
	assert.False(t, IsActive(StatusRejected))
}

func TestParseInstrument(t *testing.T) {
	inst, err := ParseInstrument("btc_usdt_spot")
	assert.NoError(t, err)
	assert.Equal(t, "btc", inst.Base)
	assert.Equal(t, "usdt", inst.Quote)
	assert.Equal(t, "spot", inst.Product)
	assert.Equal(t, "btc_usdt_spot", inst.String())

	_, err = ParseInstrument("btcusdt")
	assert.Error(t, err)
	_, err = ParseInstrument("btc__spot")
	assert.Error(t, err)
}
