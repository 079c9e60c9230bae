// Package engine drives the bot's fixed cycle:
// PLACE -> delay -> RECONCILE -> delay -> CANCEL -> delay -> PLACE ...
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bitwyre-maker-go/metrics"
	"bitwyre-maker-go/order"
	"bitwyre-maker-go/strategy"
)

// ExchangeClient is the slice of the gateway the engine submits through.
type ExchangeClient interface {
	PlaceOrder(ctx context.Context, intent order.Intent) (order.Order, error)
	CancelOrder(ctx context.Context, orderID string, qty decimal.Decimal) error
}

// Components are the engine's collaborators, wired by the caller.
type Components struct {
	Book       *order.Book
	Quoter     *strategy.Quoter
	Cancel     *strategy.CancelPolicy
	Reconciler *order.Reconciler
	Client     ExchangeClient
	Logger     *zap.Logger
	Metrics    *metrics.Metrics // optional
}

// Engine sequences the three phases. Failures inside any phase are
// logged at that phase's boundary and never abort the cycle; the only
// exit is context cancellation.
type Engine struct {
	book    *order.Book
	quoter  *strategy.Quoter
	cancel  *strategy.CancelPolicy
	recon   *order.Reconciler
	client  ExchangeClient
	log     *zap.Logger
	metrics *metrics.Metrics
	delay   time.Duration

	mu    sync.RWMutex
	stats Statistics
}

// Statistics counts cycle activity since start.
type Statistics struct {
	StartTime     time.Time
	Cycles        int64
	OrdersPlaced  int64
	PlaceFailures int64
	CancelsSent   int64
	CancelFails   int64
}

func New(delay time.Duration, c Components) *Engine {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &Engine{
		book:    c.Book,
		quoter:  c.Quoter,
		cancel:  c.Cancel,
		recon:   c.Reconciler,
		client:  c.Client,
		log:     log,
		metrics: c.Metrics,
		delay:   delay,
	}
}

// Run loops until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	e.stats.StartTime = time.Now()
	e.mu.Unlock()
	e.log.Info("engine started", zap.Duration("delay", e.delay))

	for {
		e.mu.Lock()
		e.stats.Cycles++
		e.mu.Unlock()

		e.phase(ctx, "place", e.PlaceOnce)
		if !e.idle(ctx) {
			return ctx.Err()
		}
		e.phase(ctx, "reconcile", e.recon.ReconcileOnce)
		if !e.idle(ctx) {
			return ctx.Err()
		}
		e.phase(ctx, "cancel", e.CancelOnce)
		if !e.idle(ctx) {
			return ctx.Err()
		}
	}
}

func (e *Engine) phase(ctx context.Context, name string, f func(context.Context)) {
	start := time.Now()
	f(ctx)
	if e.metrics != nil {
		e.metrics.PhaseDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}

func (e *Engine) idle(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		e.log.Info("engine stopping")
		return false
	case <-time.After(e.delay):
		return true
	}
}

// PlaceOnce submits the quoter's next intent and files the ack into the
// book by reported status. A failed placement is logged and dropped; the
// next cycle tries again.
func (e *Engine) PlaceOnce(ctx context.Context) {
	intent := e.quoter.NextIntent(e.book)
	rec, err := e.client.PlaceOrder(ctx, intent)
	if err != nil {
		e.log.Error("placement failed",
			zap.Stringer("side", intent.Side),
			zap.String("price", intent.Price.String()),
			zap.Error(err))
		e.count(func(s *Statistics) { s.PlaceFailures++ })
		if e.metrics != nil {
			e.metrics.PlaceFailures.Inc()
		}
		return
	}

	if order.IsActive(rec.Status) {
		e.book.AddOpen(rec)
	} else {
		e.book.AddClosed(rec)
	}
	e.log.Info("order placed",
		zap.String("order_id", rec.ID),
		zap.Stringer("side", rec.Side),
		zap.Stringer("status", rec.Status),
		zap.String("price", rec.Price.String()),
		zap.String("qty", rec.Quantity.String()))
	e.count(func(s *Statistics) { s.OrdersPlaced++ })
	if e.metrics != nil {
		e.metrics.OrdersPlaced.WithLabelValues(rec.Side.String()).Inc()
		mid, _ := e.quoter.Mid().Float64()
		e.metrics.MidPrice.Set(mid)
	}
}

// CancelOnce asks the venue to cancel a random selection of open orders.
// Local state is never mutated here; only reconciliation moves orders,
// so a failed cancel simply leaves the order open for the next cycle.
func (e *Engine) CancelOnce(ctx context.Context) {
	for _, id := range e.cancel.Select(e.book.OpenBids(), e.book.OpenAsks()) {
		if err := e.client.CancelOrder(ctx, id, order.CancelAllQty); err != nil {
			e.log.Warn("cancel failed", zap.String("order_id", id), zap.Error(err))
			e.count(func(s *Statistics) { s.CancelFails++ })
			if e.metrics != nil {
				e.metrics.CancelFailures.Inc()
			}
			continue
		}
		e.log.Info("cancel requested", zap.String("order_id", id))
		e.count(func(s *Statistics) { s.CancelsSent++ })
		if e.metrics != nil {
			e.metrics.CancelsIssued.Inc()
		}
	}
}

func (e *Engine) count(f func(*Statistics)) {
	e.mu.Lock()
	f(&e.stats)
	e.mu.Unlock()
}

// Stats returns a copy of the running counters.
func (e *Engine) Stats() Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}
