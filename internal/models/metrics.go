package models

import "time"

// SystemMetrics is the aggregated snapshot served by the status endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	AssistantTurns           uint64    `json:"assistant_turns"`
	ViewRefreshes            uint64    `json:"view_refreshes"`
	StaleFetchesDropped      uint64    `json:"stale_fetches_dropped"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
