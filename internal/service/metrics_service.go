package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	gatewayDuration *prometheus.HistogramVec
	reloads         *prometheus.CounterVec
	reloadDuration  prometheus.Observer
	snapshotVersion prometheus.Gauge
	transitions     *prometheus.CounterVec
	exportJobs      *prometheus.CounterVec
	assistantCalls  *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	gatewayCallCount     uint64
	gatewayErrorCount    uint64
	gatewayDurationTotal uint64
	reloadCount          uint64
	version              uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	gatewayDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_call_duration_seconds",
		Help:    "Duration of persistence gateway calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "operation", "outcome"})

	reloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_reloads_total",
		Help: "Full store reloads by outcome",
	}, []string{"outcome"})

	reloadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "store_reload_duration_seconds",
		Help:    "Duration of full store reloads",
		Buckets: prometheus.DefBuckets,
	})

	snapshotVersion := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "store_snapshot_version",
		Help: "Version of the installed store snapshot",
	})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "work_request_transitions_total",
		Help: "Board moves by lifecycle decision",
	}, []string{"decision"})

	exportJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "export_jobs_total",
		Help: "Export jobs by final status",
	}, []string{"format", "status"})

	assistantCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_calls_total",
		Help: "Generative assistant calls by kind and outcome",
	}, []string{"kind", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		gatewayDuration, reloads, reloadDuration, snapshotVersion, transitions, exportJobs, assistantCalls, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		gatewayDuration: gatewayDuration,
		reloads:         reloads,
		reloadDuration:  reloadDuration,
		snapshotVersion: snapshotVersion,
		transitions:     transitions,
		exportJobs:      exportJobs,
		assistantCalls:  assistantCalls,
	}
}

// TrackQueue exports the pending depth of a background job queue.
func (m *MetricsService) TrackQueue(name string, depth func() int) {
	if m == nil || depth == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "job_queue_depth",
		Help:        "Jobs waiting in a background queue",
		ConstLabels: prometheus.Labels{"queue": name},
	}, func() float64 {
		return float64(depth())
	}))
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveGatewayCall records one persistence gateway call.
func (m *MetricsService) ObserveGatewayCall(entity, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.gatewayDuration.WithLabelValues(entity, operation, outcome(err)).Observe(duration.Seconds())
	atomic.AddUint64(&m.gatewayCallCount, 1)
	atomic.AddUint64(&m.gatewayDurationTotal, uint64(duration.Nanoseconds()))
	if err != nil {
		atomic.AddUint64(&m.gatewayErrorCount, 1)
	}
}

// ObserveReload records one full store reload.
func (m *MetricsService) ObserveReload(duration time.Duration, err error, discarded bool) {
	if m == nil {
		return
	}
	label := outcome(err)
	if discarded {
		label = "discarded"
	}
	m.reloads.WithLabelValues(label).Inc()
	m.reloadDuration.Observe(duration.Seconds())
	atomic.AddUint64(&m.reloadCount, 1)
}

// SetSnapshotVersion publishes the installed snapshot version.
func (m *MetricsService) SetSnapshotVersion(version uint64) {
	if m == nil {
		return
	}
	atomic.StoreUint64(&m.version, version)
	m.snapshotVersion.Set(float64(version))
}

// RecordTransition counts a board move by the lifecycle decision it produced.
func (m *MetricsService) RecordTransition(decision string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(decision).Inc()
}

// RecordExportJob counts a finished export job.
func (m *MetricsService) RecordExportJob(format models.ExportFormat, status models.ExportStatus) {
	if m == nil {
		return
	}
	m.exportJobs.WithLabelValues(string(format), string(status)).Inc()
}

// RecordAssistantCall counts a call to the generative assistant.
func (m *MetricsService) RecordAssistantCall(kind string, err error) {
	if m == nil {
		return
	}
	m.assistantCalls.WithLabelValues(kind, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Snapshot returns aggregated metrics suitable for API consumption.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	gwCount := atomic.LoadUint64(&m.gatewayCallCount)
	gwDuration := atomic.LoadUint64(&m.gatewayDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgGatewayMs float64
	if gwCount > 0 {
		avgGatewayMs = float64(gwDuration) / float64(gwCount) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		GatewayCalls:             gwCount,
		GatewayErrors:            atomic.LoadUint64(&m.gatewayErrorCount),
		AverageGatewayCallMs:     avgGatewayMs,
		Reloads:                  atomic.LoadUint64(&m.reloadCount),
		SnapshotVersion:          atomic.LoadUint64(&m.version),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
