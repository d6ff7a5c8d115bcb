// Package metrics counts calculations and exports them in the Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Registry *prometheus.Registry

	CalculationsTotal          *prometheus.CounterVec
	CalculationErrorsTotal     *prometheus.CounterVec
	CalculationDurationSeconds *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		CalculationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sap_calc_calculations_total",
				Help: "Total number of dwelling calculations per variant",
			},
			[]string{"variant"},
		),
		CalculationErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sap_calc_calculation_errors_total",
				Help: "Total number of failed calculations per variant and error class",
			},
			[]string{"variant", "class"},
		),
		CalculationDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sap_calc_calculation_duration_seconds",
				Help:    "Calculation duration in seconds per variant",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"variant"},
		),
	}
	m.Registry.MustRegister(m.CalculationsTotal, m.CalculationErrorsTotal, m.CalculationDurationSeconds)
	return m
}

// ObserveCalculation records one calculation. class is empty on success.
func (m *Metrics) ObserveCalculation(variant, class string, dur time.Duration) {
	m.CalculationsTotal.WithLabelValues(variant).Inc()
	m.CalculationDurationSeconds.WithLabelValues(variant).Observe(dur.Seconds())
	if class != "" {
		m.CalculationErrorsTotal.WithLabelValues(variant, class).Inc()
	}
}

// WriteTextfile writes every metric to path for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
