package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_queries_total",
		Help: "Total number of queries sent to the snapshot store",
	}, []string{"query_type", "status"})

	StoreQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_query_duration_seconds",
		Help:    "Duration of snapshot store queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query_type"})

	SnapshotsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshots_served_total",
		Help: "Total number of snapshot rows returned by the API",
	}, []string{"endpoint"})

	SnapshotsExported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshots_exported_total",
		Help: "Total number of snapshot rows written by exports",
	}, []string{"format", "status"})

	StatsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_requests_total",
		Help: "Total number of statistics computations",
	}, []string{"scope"})

	ExportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "export_duration_seconds",
		Help:    "Duration of a single-date export",
		Buckets: prometheus.DefBuckets,
	}, []string{"format"})

	PoolConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "store_pool_connections",
		Help: "Postgres pool connections by state",
	}, []string{"state"})
)

func RecordStoreQuery(queryType string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	StoreQueries.WithLabelValues(queryType, status).Inc()
	StoreQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
}

func RecordSnapshotsServed(endpoint string, count int) {
	SnapshotsServed.WithLabelValues(endpoint).Add(float64(count))
}

func RecordExport(format string, count int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SnapshotsExported.WithLabelValues(format, status).Add(float64(count))
}

// RecordPoolStats é chamado a cada health check do backend postgres.
func RecordPoolStats(total, idle, acquired int32) {
	PoolConnections.WithLabelValues("total").Set(float64(total))
	PoolConnections.WithLabelValues("idle").Set(float64(idle))
	PoolConnections.WithLabelValues("acquired").Set(float64(acquired))
}

// RecordStatsRequest registra se as estatísticas foram de uma data pedida ou da mais recente.
func RecordStatsRequest(explicitDate bool) {
	scope := "latest"
	if explicitDate {
		scope = "date"
	}
	StatsRequests.WithLabelValues(scope).Inc()
}

type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{
		start: time.Now(),
	}
}

func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}

func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
