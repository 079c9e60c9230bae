// Offline cycle run against the in-memory venue. Useful for eyeballing
// placement/reconcile/cancel behavior without credentials or network.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bitwyre-maker-go/infrastructure/logger"
	"bitwyre-maker-go/internal/engine"
	"bitwyre-maker-go/order"
	"bitwyre-maker-go/sim"
	"bitwyre-maker-go/strategy"
)

func main() {
	instrument := flag.String("instrument", "btc_usdt_spot", "instrument id")
	mid := flag.String("mid", "30000", "starting mid price")
	qty := flag.String("qty", "0.02", "order quantity")
	delay := flag.Duration("delay", time.Second, "idle delay between phases")
	seed := flag.Int64("seed", 0, "rng seed, 0 means time-based")
	failRate := flag.Float64("failRate", 0.1, "simulated venue failure rate")
	flag.Parse()

	zl, err := logger.New(logger.Config{Level: "debug", Format: "console"})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	venue := sim.NewVenue(rand.New(rand.NewSource(*seed + 1)))
	venue.FailureRate = *failRate
	venue.PartialFillRate = 0.2
	venue.ExpireRate = 0.05

	book := order.NewBook()
	quoter := strategy.NewQuoter(strategy.QuoterConfig{
		Instrument:     *instrument,
		MidPrice:       decimal.RequireFromString(*mid),
		Quantity:       decimal.RequireFromString(*qty),
		PricePrecision: 2,
		QtyPrecision:   2,
		MinSpread:      0.001,
		MaxSpread:      0.01,
	}, rng)

	eng := engine.New(*delay, engine.Components{
		Book:       book,
		Quoter:     quoter,
		Cancel:     strategy.NewCancelPolicy(2, rng),
		Reconciler: order.NewReconciler(venue, book, zl.Named("reconcile")),
		Client:     venue,
		Logger:     zl.Named("engine"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zl.Info("sim starting", zap.Int64("seed", *seed))
	_ = eng.Run(ctx)

	stats := eng.Stats()
	zl.Info("sim done",
		zap.Int64("cycles", stats.Cycles),
		zap.Int64("placed", stats.OrdersPlaced),
		zap.Int64("cancels", stats.CancelsSent),
		zap.Int("open", book.OpenCount()),
		zap.Int("closed", len(book.ClosedBids())+len(book.ClosedAsks())))
}
