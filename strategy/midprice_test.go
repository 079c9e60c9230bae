package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bitwyre-maker-go/order"
)

func openAt(id string, side order.Side, price string) order.Order {
	return order.Order{
		ID:     id,
		Side:   side,
		Type:   order.Limit,
		Status: order.StatusNew,
		Price:  decimal.RequireFromString(price),
	}
}

func TestMidPriceBothSides(t *testing.T) {
	bids := []order.Order{openAt("b1", order.Buy, "100")}
	asks := []order.Order{openAt("a1", order.Sell, "104")}
	mid := MidPrice(bids, asks, decimal.Zero)
	assert.True(t, mid.Equal(decimal.RequireFromString("102")), "got %s", mid)
}

func TestMidPriceBestOfEachSide(t *testing.T) {
	bids := []order.Order{
		openAt("b1", order.Buy, "100"),
		openAt("b2", order.Buy, "105"),
		openAt("b3", order.Buy, "95"),
	}
	asks := []order.Order{
		openAt("a1", order.Sell, "110"),
		openAt("a2", order.Sell, "107"),
	}
	mid := MidPrice(bids, asks, decimal.Zero)
	// (105 + 107) / 2
	assert.True(t, mid.Equal(decimal.RequireFromString("106")), "got %s", mid)
}

func TestMidPriceBidsOnly(t *testing.T) {
	bids := []order.Order{
		openAt("b1", order.Buy, "100"),
		openAt("b2", order.Buy, "105"),
	}
	mid := MidPrice(bids, nil, decimal.Zero)
	assert.True(t, mid.Equal(decimal.RequireFromString("105")), "got %s", mid)
}

func TestMidPriceAsksOnly(t *testing.T) {
	asks := []order.Order{
		openAt("a1", order.Sell, "104"),
		openAt("a2", order.Sell, "101"),
	}
	mid := MidPrice(nil, asks, decimal.Zero)
	assert.True(t, mid.Equal(decimal.RequireFromString("101")), "got %s", mid)
}

func TestMidPriceFallback(t *testing.T) {
	fallback := decimal.RequireFromString("30000.5")
	mid := MidPrice(nil, nil, fallback)
	assert.True(t, mid.Equal(fallback), "got %s", mid)
}
