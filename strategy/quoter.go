package strategy

import (
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"bitwyre-maker-go/order"
)

// QuoterConfig are the placement parameters, immutable except for the
// spread bounds which may be hot-reloaded.
type QuoterConfig struct {
	Instrument     string
	MidPrice       decimal.Decimal // starting mid, used until orders exist
	Quantity       decimal.Decimal
	PricePrecision int32
	QtyPrecision   int32
	MinSpread      float64 // fraction, e.g. 0.001
	MaxSpread      float64
}

// Quoter emits the next randomized order intent around the tracked mid.
type Quoter struct {
	mu        sync.Mutex
	cfg       QuoterConfig
	mid       decimal.Decimal
	minSpread float64
	maxSpread float64
	rng       *rand.Rand
}

// NewQuoter seeds the tracked mid from config. rng is injected so tests
// can pin the draw sequence.
func NewQuoter(cfg QuoterConfig, rng *rand.Rand) *Quoter {
	return &Quoter{
		cfg:       cfg,
		mid:       cfg.MidPrice,
		minSpread: cfg.MinSpread,
		maxSpread: cfg.MaxSpread,
		rng:       rng,
	}
}

// NextIntent picks a random side and prices a limit order off the mid.
// While the book is empty the order posts at the tracked mid itself, no
// spread applied; once orders rest, the mid is recomputed from them and
// a spread drawn uniformly from [min, max] pushes bids below and asks
// above it. Leverage is always 1, for spot and futures products alike.
func (q *Quoter) NextIntent(book *order.Book) order.Intent {
	q.mu.Lock()
	defer q.mu.Unlock()

	side := order.Buy
	if q.rng.Intn(2) == 1 {
		side = order.Sell
	}
	qty := q.cfg.Quantity.Round(q.cfg.QtyPrecision)

	bids, asks := book.OpenBids(), book.OpenAsks()
	if len(bids)+len(asks) == 0 {
		return order.Intent{
			Instrument: q.cfg.Instrument,
			Side:       side,
			Type:       order.Limit,
			Price:      q.mid.Round(q.cfg.PricePrecision),
			Quantity:   qty,
			Leverage:   1,
		}
	}

	q.mid = MidPrice(bids, asks, q.mid)
	spread := q.minSpread + q.rng.Float64()*(q.maxSpread-q.minSpread)
	factor := decimal.NewFromFloat(1 - spread)
	if side == order.Sell {
		factor = decimal.NewFromFloat(1 + spread)
	}
	price := q.mid.Mul(factor).Round(q.cfg.PricePrecision)

	return order.Intent{
		Instrument: q.cfg.Instrument,
		Side:       side,
		Type:       order.Limit,
		Price:      price,
		Quantity:   qty,
		Leverage:   1,
	}
}

// Mid returns the currently tracked mid-price.
func (q *Quoter) Mid() decimal.Decimal {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.mid
}

// UpdateSpread swaps the spread bounds; used by config hot reload.
func (q *Quoter) UpdateSpread(min, max float64) {
	if min < 0 || max < min {
		return
	}
	q.mu.Lock()
	q.minSpread, q.maxSpread = min, max
	q.mu.Unlock()
}
