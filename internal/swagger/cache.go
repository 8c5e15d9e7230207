package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route DELETE /cache Cache ClearCache
// Drops every cached search result.
//
// responses:
//   204: CacheResponseNoContent

// swagger:route GET /cache/counters Cache ReadCacheCounters
// Reads cache hits and misses per search kind.
//
//     Produces:
//     - application/json
//
// responses:
//   200: CacheCountersResponseOk

// swagger:route DELETE /cache/counters Cache ResetCacheCounters
// Resets cache hits and misses.
//
// responses:
//   204: CacheResponseNoContent

// swagger:response CacheCountersResponseOk
type CacheCountersResponseOk struct {
	// in:body
	Body data.CacheCounters
}

// swagger:response CacheResponseNoContent
type CacheResponseNoContent struct{}

// swagger:parameters ClearCache ReadCacheCounters ResetCacheCounters
type CacheParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
