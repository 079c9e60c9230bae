package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"bitwyre-maker-go/config"
	"bitwyre-maker-go/gateway"
	"bitwyre-maker-go/infrastructure/logger"
	"bitwyre-maker-go/internal/engine"
	"bitwyre-maker-go/metrics"
	"bitwyre-maker-go/order"
	"bitwyre-maker-go/strategy"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "config file path")
	metricsAddr := flag.String("metricsAddr", "", "override metrics listen address")
	watchConfig := flag.Bool("watch", true, "hot-reload spread/cancel params on config change")
	marketStream := flag.Bool("marketStream", false, "follow the public trade stream for telemetry")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	addr := cfg.Metrics.Addr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}
	m := metrics.New(nil)
	if addr != "" {
		metrics.StartMetricsServer(addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	restClient := &gateway.RESTClient{
		BaseURL:    cfg.Gateway.BaseURL,
		APIKey:     cfg.Gateway.APIKey,
		Secret:     cfg.Gateway.APISecret,
		HTTPClient: gateway.NewDefaultHTTPClient(time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second),
		Limiter:    gateway.NewTokenBucketLimiter(cfg.Gateway.RESTRate, cfg.Gateway.RESTBurst),
	}

	inst := cfg.Instrument
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	quoter := strategy.NewQuoter(strategy.QuoterConfig{
		Instrument:     inst.ID,
		MidPrice:       inst.MidPriceDecimal(),
		Quantity:       inst.QuantityDecimal(),
		PricePrecision: inst.PricePrecision,
		QtyPrecision:   inst.QtyPrecision,
		MinSpread:      inst.MinSpread,
		MaxSpread:      inst.MaxSpread,
	}, rng)
	cancelPolicy := strategy.NewCancelPolicy(inst.MaxCancels, rng)

	book := order.NewBook()
	metrics.ObserveBook(nil, book.OpenCount)

	eng := engine.New(time.Duration(cfg.Loop.DelaySeconds)*time.Second, engine.Components{
		Book:       book,
		Quoter:     quoter,
		Cancel:     cancelPolicy,
		Reconciler: order.NewReconciler(restClient, book, zl.Named("reconcile")),
		Client:     restClient,
		Logger:     zl.Named("engine"),
		Metrics:    m,
	})

	if *watchConfig {
		w := config.Watcher{Path: *cfgPath}
		go func() {
			err := w.Start(ctx, func(next config.AppConfig) {
				quoter.UpdateSpread(next.Instrument.MinSpread, next.Instrument.MaxSpread)
				cancelPolicy.SetBound(next.Instrument.MaxCancels)
				zl.Info("config reloaded",
					zap.Float64("min_spread", next.Instrument.MinSpread),
					zap.Float64("max_spread", next.Instrument.MaxSpread),
					zap.Int("max_cancels", next.Instrument.MaxCancels))
			})
			if err != nil && ctx.Err() == nil {
				zl.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	if *marketStream && cfg.Gateway.WSURL != "" {
		go runStream(ctx, cfg.Gateway.WSURL, inst.ID, m, zl.Named("stream"))
	}

	// Tell systemd we are up, and keep the watchdog fed if one is armed.
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	if interval, err := daemon.SdWatchdogEnabled(false); err == nil && interval > 0 {
		go func() {
			t := time.NewTicker(interval / 2)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
				}
			}
		}()
	}

	zl.Info("maker starting",
		zap.String("instrument", inst.ID),
		zap.String("mid", inst.MidPrice),
		zap.Int("delay_s", cfg.Loop.DelaySeconds))
	if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
		zl.Fatal("engine exited", zap.Error(err))
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	zl.Info("maker stopped")
}

// runStream keeps the public trade feed alive with a flat reconnect
// delay, feeding the last-trade gauge.
func runStream(ctx context.Context, wsURL, instrument string, m *metrics.Metrics, zl *zap.Logger) {
	for ctx.Err() == nil {
		s := gateway.NewStream(wsURL, instrument)
		err := s.Run(ctx, func(tick gateway.TradeTick) {
			if px, perr := strconv.ParseFloat(tick.Price, 64); perr == nil {
				m.VenueLastTrade.Set(px)
			}
		})
		if ctx.Err() != nil {
			return
		}
		zl.Warn("trade stream dropped, reconnecting", zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}
