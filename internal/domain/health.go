package domain

// ============================================================
// Health & generic API responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// ReportingMetrics is returned by GET /v1/metrics/reporting.
type ReportingMetrics struct {
	ReportsGenerated int64   `json:"reportsGenerated"`
	SkippedInvoices  int64   `json:"skippedInvoices"`
	SkippedExpenses  int64   `json:"skippedExpenses"`
	StoreErrors      int64   `json:"storeErrors"`
	CacheHitRate     float64 `json:"cacheHitRate"`
	Period           string  `json:"period"`
}
