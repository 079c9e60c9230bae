package sim

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitwyre-maker-go/order"
)

func simIntent(side order.Side) order.Intent {
	return order.Intent{
		Instrument: "btc_usdt_spot",
		Side:       side,
		Type:       order.Limit,
		Price:      decimal.NewFromInt(30000),
		Quantity:   decimal.RequireFromString("0.02"),
		Leverage:   1,
	}
}

func TestVenuePlaceThenQuery(t *testing.T) {
	v := NewVenue(rand.New(rand.NewSource(1)))
	placed, err := v.PlaceOrder(context.Background(), simIntent(order.Buy))
	require.NoError(t, err)
	assert.Equal(t, order.StatusNew, placed.Status)
	assert.True(t, placed.LeavesQty.Equal(placed.Quantity))

	got, err := v.OrderInfo(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)
}

func TestVenueCancelVisibleOnNextQuery(t *testing.T) {
	v := NewVenue(rand.New(rand.NewSource(1)))
	placed, err := v.PlaceOrder(context.Background(), simIntent(order.Sell))
	require.NoError(t, err)

	require.NoError(t, v.CancelOrder(context.Background(), placed.ID, order.CancelAllQty))
	got, err := v.OrderInfo(context.Background(), placed.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, got.Status)

	// Cancelling a closed order stays a no-op.
	assert.NoError(t, v.CancelOrder(context.Background(), placed.ID, order.CancelAllQty))
}

func TestVenueUnknownOrder(t *testing.T) {
	v := NewVenue(rand.New(rand.NewSource(1)))
	_, err := v.OrderInfo(context.Background(), "ghost")
	assert.Error(t, err)
	assert.Error(t, v.CancelOrder(context.Background(), "ghost", order.CancelAllQty))
}

func TestVenueFailureRate(t *testing.T) {
	v := NewVenue(rand.New(rand.NewSource(1)))
	v.FailureRate = 1.0
	_, err := v.PlaceOrder(context.Background(), simIntent(order.Buy))
	assert.ErrorIs(t, err, errSimulated)
}
