package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type SyncMetrics struct {
	Pending   prometheus.Gauge
	Passes    *prometheus.CounterVec
	Actions   *prometheus.CounterVec
	Evictions prometheus.Counter
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	f := promauto.With(reg)
	return &SyncMetrics{
		Pending: f.NewGauge(prometheus.GaugeOpts{
			Name: "planta_sync_pending_actions",
			Help: "Number of actions waiting in the offline queue",
		}),
		Passes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "planta_sync_passes_total",
			Help: "Total number of finished drain passes",
		}, []string{"status"}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "planta_sync_actions_total",
			Help: "Total number of dispatched actions by result",
		}, []string{"result"}),
		Evictions: f.NewCounter(prometheus.CounterOpts{
			Name: "planta_sync_evictions_total",
			Help: "Total number of actions evicted after exhausting retries",
		}),
	}
}

// Observe records one engine status transition. Only terminal states
// (success, error) count as a pass; every call refreshes the pending gauge.
func (m *SyncMetrics) Observe(status string, succeeded, failed, evicted, pending int) {
	m.Pending.Set(float64(pending))

	if status != "success" && status != "error" {
		return
	}
	m.Passes.WithLabelValues(status).Inc()
	m.Actions.WithLabelValues("success").Add(float64(succeeded))
	m.Actions.WithLabelValues("error").Add(float64(failed))
	m.Evictions.Add(float64(evicted))
}

// Handler serves the registry in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
