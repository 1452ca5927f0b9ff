package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_turns_total",
			Help: "Handled conversation turns per entry state.",
		},
		[]string{"state"},
	)

	turnErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_turn_errors_total",
			Help: "Failed conversation turns by error kind.",
		},
		[]string{"kind"},
	)

	upstreamLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_upstream_latency_ms",
			Help:    "Commerce backend call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"op", "success"},
	)
)

// Register installs collectors on the default registry exactly once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(turnsTotal, turnErrors, upstreamLatencyMs)
	})
}

func CountTurn(state string) {
	turnsTotal.WithLabelValues(state).Inc()
}

func CountTurnError(kind string) {
	turnErrors.WithLabelValues(kind).Inc()
}

func ObserveUpstreamCall(op string, d time.Duration, success bool) {
	label := "false"
	if success {
		label = "true"
	}
	upstreamLatencyMs.WithLabelValues(op, label).Observe(float64(d.Milliseconds()))
}
