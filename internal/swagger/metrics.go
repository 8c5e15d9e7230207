package swagger

// swagger:route GET /metrics Metrics ReadMetrics
// Prometheus metrics: requests, searches by kind, comparisons per search
// and appended employees. Disabled with SERVICE_METRICS_DISABLED.
//
//     Produces:
//     - text/plain
//
// responses:
//   200: MetricsResponseOk

// swagger:response MetricsResponseOk
type MetricsResponseOk struct {
	// in:body
	Body string
}
