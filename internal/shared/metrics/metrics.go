package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pipelineStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_started_total",
		Help: "Total pipeline runs started",
	})
	pipelineOutcomeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_outcome_total",
		Help: "Pipeline runs by final state",
	}, []string{"state"})
	pipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipeline_duration_ms",
		Help:    "Pipeline duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
	contractsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contracts_expired_total",
		Help: "Contracts transitioned to Expired by the reconciler",
	})
	liveEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "live_events_total",
		Help: "Change notifications delivered to subscribers",
	}, []string{"table"})
)

// IncPipelineStarted increments the started counter.
func IncPipelineStarted() {
	pipelineStartedTotal.Inc()
}

// IncPipelineOutcome records a finished pipeline run by final state.
func IncPipelineOutcome(state string) {
	pipelineOutcomeTotal.WithLabelValues(state).Inc()
}

// ObservePipelineDurationMs records a pipeline duration in milliseconds.
func ObservePipelineDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	pipelineDuration.Observe(value)
}

// AddContractsExpired records reconciler transitions.
func AddContractsExpired(n int) {
	if n > 0 {
		contractsExpiredTotal.Add(float64(n))
	}
}

// IncLiveEvent records a delivered change notification.
func IncLiveEvent(table string) {
	liveEventsTotal.WithLabelValues(table).Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
