// Package strategy decides what the bot does next: the mid-price
// estimate, the next randomized order, and which resting orders to
// cancel.
package strategy

import (
	"github.com/shopspring/decimal"

	"bitwyre-maker-go/order"
)

// MidPrice derives the reference mid from the bot's own open orders.
// With no independent feed the bot treats its resting orders as the
// market:
//
//	both sides  -> (best bid + best ask) / 2
//	bids only   -> best bid
//	asks only   -> best ask
//	neither     -> fallback (the previous mid)
//
// The result is unrounded; rounding belongs to the placement policy.
func MidPrice(bids, asks []order.Order, fallback decimal.Decimal) decimal.Decimal {
	two := decimal.NewFromInt(2)
	switch {
	case len(bids) > 0 && len(asks) > 0:
		return bestBid(bids).Add(bestAsk(asks)).Div(two)
	case len(bids) > 0:
		return bestBid(bids)
	case len(asks) > 0:
		return bestAsk(asks)
	default:
		return fallback
	}
}

func bestBid(bids []order.Order) decimal.Decimal {
	best := bids[0].Price
	for _, o := range bids[1:] {
		if o.Price.GreaterThan(best) {
			best = o.Price
		}
	}
	return best
}

func bestAsk(asks []order.Order) decimal.Decimal {
	best := asks[0].Price
	for _, o := range asks[1:] {
		if o.Price.LessThan(best) {
			best = o.Price
		}
	}
	return best
}
