package refresh

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refresh_cycles_total",
			Help: "Completed refresh cycles by trigger.",
		},
		[]string{"trigger"},
	)

	cycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_refresh_cycle_duration_seconds",
			Help:    "Wall time of a refresh cycle.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	sectionUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refresh_section_unavailable_total",
			Help: "Refresh cycles in which a dashboard section came back empty.",
		},
		[]string{"section"},
	)

	intervalSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_refresh_interval_seconds",
			Help: "Current auto-refresh interval.",
		},
	)
)
