package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of the web server.
type Metrics struct {
	Requests            *prometheus.CounterVec   // labels: endpoint, outcome={ok,bad_request,no_event,error}
	CalculationDuration *prometheus.HistogramVec // labels: endpoint
	AtmosphereLookups   *prometheus.CounterVec   // labels: source, outcome={success,error}
	SweepDays           prometheus.Histogram
	Alignments          prometheus.Counter
	WebSocketClients    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sunazimuth",
			Name:      "requests_total",
			Help:      "API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		CalculationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sunazimuth",
			Name:      "calculation_duration_seconds",
			Help:      "Time spent computing one API response.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"endpoint"}),
		AtmosphereLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sunazimuth",
			Name:      "atmosphere_lookups_total",
			Help:      "Atmosphere source lookups by source and outcome.",
		}, []string{"source", "outcome"}),
		SweepDays: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sunazimuth",
			Name:      "sweep_days",
			Help:      "Number of days per sweep.",
			Buckets:   []float64{1, 7, 31, 92, 183, 366, 1000, 3660},
		}),
		Alignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sunazimuth",
			Name:      "alignments_total",
			Help:      "Sweep days where the compass bearing falls on the solar disc.",
		}),
		WebSocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sunazimuth",
			Name:      "websocket_clients",
			Help:      "Connected WebSocket clients.",
		}),
	}

	reg.MustRegister(
		m.Requests,
		m.CalculationDuration,
		m.AtmosphereLookups,
		m.SweepDays,
		m.Alignments,
		m.WebSocketClients,
	)

	return m
}
