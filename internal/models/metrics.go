package models

import "time"

// SystemMetrics is a lightweight view of process instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	GatewayCalls             uint64    `json:"gateway_calls"`
	GatewayErrors            uint64    `json:"gateway_errors"`
	AverageGatewayCallMs     float64   `json:"average_gateway_call_ms"`
	Reloads                  uint64    `json:"reloads"`
	SnapshotVersion          uint64    `json:"snapshot_version"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
