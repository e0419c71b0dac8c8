// Package metrics exposes the monitor's Prometheus instrumentation. Each
// Metrics instance carries its own registry so parallel tests and
// multiple embedded instances never collide.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	CyclesTotal   prometheus.Counter
	CycleDuration prometheus.Histogram
	UnitErrors    *prometheus.CounterVec
	Anomalies     *prometheus.CounterVec
	Alerts        *prometheus.CounterVec
	MemoryMB      prometheus.Gauge
	CPUPercent    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "premonitor_cycles_total",
			Help: "Completed monitoring cycles.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "premonitor_cycle_duration_seconds",
			Help:    "Wall time of one full monitoring cycle.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		UnitErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "premonitor_unit_errors_total",
			Help: "Per-unit cycle errors that were isolated and skipped.",
		}, []string{"equipment_id"}),
		Anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "premonitor_anomalies_total",
			Help: "Verdicts with at least one triggered signal.",
		}, []string{"equipment_id", "severity"}),
		Alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "premonitor_alerts_total",
			Help: "Alert dispatch outcomes by status.",
		}, []string{"status"}),
		MemoryMB: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "premonitor_memory_mb",
			Help: "Resident memory of the monitor process.",
		}),
		CPUPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "premonitor_cpu_percent",
			Help: "CPU usage of the monitor process since the last sample.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.CyclesTotal,
		m.CycleDuration,
		m.UnitErrors,
		m.Anomalies,
		m.Alerts,
		m.MemoryMB,
		m.CPUPercent,
	)

	return m
}

// ObserveCycle records one completed cycle.
func (m *Metrics) ObserveCycle(elapsed time.Duration) {
	m.CyclesTotal.Inc()
	m.CycleDuration.Observe(elapsed.Seconds())
}

// Handler serves this instance's registry in the Prometheus exposition
// format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
