package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot of runtime health,
// served alongside the Prometheus endpoint for quick inspection.
type SystemMetrics struct {
	CacheHitRatio               float64   `json:"cacheHitRatio"`
	CacheHits                   uint64    `json:"cacheHits"`
	CacheMisses                 uint64    `json:"cacheMisses"`
	RequestsTotal               uint64    `json:"requestsTotal"`
	AverageRequestDurationMs    float64   `json:"avgRequestDurationMs"`
	StoreCallCount              uint64    `json:"storeCallCount"`
	AverageStoreCallDurationMs  float64   `json:"avgStoreCallDurationMs"`
	ImportRunsTotal             uint64    `json:"importRunsTotal"`
	Goroutines                  int       `json:"goroutines"`
	GeneratedAt                 time.Time `json:"generatedAt"`
}
