package order

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StatusSource is the slice of the exchange client the reconciler needs.
type StatusSource interface {
	OrderInfo(ctx context.Context, orderID string) (Order, error)
}

// Reconciler refreshes the local book from venue-reported order status.
// Open orders whose reported status is still working are replaced in
// place; orders the venue reports closed migrate open -> closed exactly
// once. A failed query skips that order for the cycle, leaving it where
// it is to be retried next time.
type Reconciler struct {
	source StatusSource
	book   *Book
	log    *zap.Logger

	mu            sync.RWMutex
	stats         ReconcileStats
	lastReconcile time.Time
}

// ReconcileStats counts reconciliation outcomes since start.
type ReconcileStats struct {
	Passes     int64
	Updated    int64
	Migrated   int64
	QueryFails int64
}

func NewReconciler(source StatusSource, book *Book, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{source: source, book: book, log: log}
}

// ReconcileOnce runs one full pass over both open collections. IDs are
// snapshotted up front so migrations during the pass cannot skip or
// repeat entries; updates apply in query-issuance order.
func (r *Reconciler) ReconcileOnce(ctx context.Context) {
	r.mu.Lock()
	r.stats.Passes++
	r.lastReconcile = time.Now()
	r.mu.Unlock()

	r.reconcileSide(ctx, Buy)
	r.reconcileSide(ctx, Sell)
}

func (r *Reconciler) reconcileSide(ctx context.Context, side Side) {
	for _, id := range r.book.OpenIDs(side) {
		fresh, err := r.source.OrderInfo(ctx, id)
		if err != nil {
			r.log.Warn("order info query failed, retry next cycle",
				zap.String("order_id", id), zap.Error(err))
			r.count(func(s *ReconcileStats) { s.QueryFails++ })
			continue
		}
		if !IsClosed(fresh.Status) {
			if r.book.ReplaceOpen(fresh) {
				r.log.Debug("order updated",
					zap.String("order_id", fresh.ID),
					zap.Stringer("status", fresh.Status))
				r.count(func(s *ReconcileStats) { s.Updated++ })
			}
			continue
		}
		if r.book.MoveToClosed(fresh) {
			r.log.Info("order closed",
				zap.String("order_id", fresh.ID),
				zap.Stringer("side", fresh.Side),
				zap.Stringer("status", fresh.Status))
			r.count(func(s *ReconcileStats) { s.Migrated++ })
		}
	}
}

func (r *Reconciler) count(f func(*ReconcileStats)) {
	r.mu.Lock()
	f(&r.stats)
	r.mu.Unlock()
}

// Stats returns a copy of the running counters.
func (r *Reconciler) Stats() ReconcileStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}
