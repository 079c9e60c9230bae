// Package metrics provides Prometheus metrics for the maker bot.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the bot's collectors. Construct once per process.
type Metrics struct {
	OrdersPlaced   *prometheus.CounterVec
	PlaceFailures  prometheus.Counter
	CancelsIssued  prometheus.Counter
	CancelFailures prometheus.Counter
	PhaseDuration  *prometheus.HistogramVec
	MidPrice       prometheus.Gauge
	VenueLastTrade prometheus.Gauge
}

// New registers the bot's collectors on reg (nil means the default
// registry).
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		OrdersPlaced: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "maker_orders_placed_total",
			Help: "Orders acknowledged by the venue, by side",
		}, []string{"side"}),
		PlaceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "maker_place_failures_total",
			Help: "Placement calls that did not succeed",
		}),
		CancelsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "maker_cancels_issued_total",
			Help: "Cancel requests accepted by the venue",
		}),
		CancelFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "maker_cancel_failures_total",
			Help: "Cancel calls that did not succeed",
		}),
		PhaseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "maker_phase_duration_seconds",
			Help:    "Wall time of each cycle phase",
			Buckets: prometheus.DefBuckets,
		}, []string{"phase"}),
		MidPrice: factory.NewGauge(prometheus.GaugeOpts{
			Name: "maker_mid_price",
			Help: "Currently tracked reference mid-price",
		}),
		VenueLastTrade: factory.NewGauge(prometheus.GaugeOpts{
			Name: "maker_venue_last_trade_price",
			Help: "Last trade price seen on the public stream",
		}),
	}
}

// ObserveBook exports live open-order depth via a gauge func.
func ObserveBook(reg prometheus.Registerer, openCount func() int) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "maker_open_orders",
		Help: "Open orders currently tracked, both sides",
	}, func() float64 { return float64(openCount()) }))
}

// StartMetricsServer serves /metrics on addr.
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
