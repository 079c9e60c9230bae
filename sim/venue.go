// Package sim provides an in-memory venue for offline runs and
// integration-style tests. It implements the same surface as the REST
// gateway without any network.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bitwyre-maker-go/order"
)

// Venue acks placements, serves status queries and honors cancels.
// Optional knobs simulate partial fills, expiries and call failures.
type Venue struct {
	mu      sync.Mutex
	orders  map[string]order.Order
	rng     *rand.Rand
	nextSeq int64

	// FailureRate makes that fraction of calls fail with an error.
	FailureRate float64
	// PartialFillRate is the per-query chance an open order partially fills.
	PartialFillRate float64
	// ExpireRate is the per-query chance an open order expires (closes).
	ExpireRate float64

	placeCalls  int
	infoCalls   int
	cancelCalls int
}

func NewVenue(rng *rand.Rand) *Venue {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Venue{orders: make(map[string]order.Order), rng: rng}
}

var errSimulated = errors.New("simulated venue failure")

// PlaceOrder acks the intent as a New resting order.
func (v *Venue) PlaceOrder(_ context.Context, intent order.Intent) (order.Order, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.placeCalls++
	if v.flakes() {
		return order.Order{}, errSimulated
	}
	v.nextSeq++
	o := order.Order{
		ID:         fmt.Sprintf("sim-%06d", v.nextSeq),
		Instrument: intent.Instrument,
		Side:       intent.Side,
		Type:       intent.Type,
		Status:     order.StatusNew,
		Price:      intent.Price,
		Quantity:   intent.Quantity,
		LeavesQty:  intent.Quantity,
		Timestamp:  time.Now().UnixNano(),
	}
	v.orders[o.ID] = o
	return o, nil
}

// OrderInfo reports current state, advancing the simulated lifecycle.
func (v *Venue) OrderInfo(_ context.Context, orderID string) (order.Order, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.infoCalls++
	if v.flakes() {
		return order.Order{}, errSimulated
	}
	o, ok := v.orders[orderID]
	if !ok {
		return order.Order{}, fmt.Errorf("unknown order %s", orderID)
	}
	if !order.IsClosed(o.Status) && o.Status != order.StatusFilled {
		switch {
		case v.rng.Float64() < v.ExpireRate:
			o.Status = order.StatusExpired
		case v.rng.Float64() < v.PartialFillRate:
			half := decimal.NewFromInt(2)
			o.LeavesQty = o.LeavesQty.Div(half)
			if o.LeavesQty.IsZero() {
				o.Status = order.StatusFilled
			} else {
				o.Status = order.StatusPartiallyFilled
			}
		}
		v.orders[orderID] = o
	}
	return o, nil
}

// CancelOrder marks the order cancelled; the caller sees the change on
// its next status query, the way the real venue behaves.
func (v *Venue) CancelOrder(_ context.Context, orderID string, _ decimal.Decimal) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancelCalls++
	if v.flakes() {
		return errSimulated
	}
	o, ok := v.orders[orderID]
	if !ok {
		return fmt.Errorf("unknown order %s", orderID)
	}
	if order.IsClosed(o.Status) {
		return nil
	}
	o.Status = order.StatusCancelled
	v.orders[orderID] = o
	return nil
}

func (v *Venue) flakes() bool {
	return v.FailureRate > 0 && v.rng.Float64() < v.FailureRate
}

// Calls reports how many place/info/cancel calls the venue served.
func (v *Venue) Calls() (place, info, cancel int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.placeCalls, v.infoCalls, v.cancelCalls
}
