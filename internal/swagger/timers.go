package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route GET /timers Timers ReadTimers
// Reads total and average nanoseconds per operation and per search kind,
// endpoints are only timed with SERVICE_TIMERS_ENABLED.
//
//     Produces:
//     - application/json
//
// responses:
//   200: TimersResponseOk

// swagger:route DELETE /timers Timers ClearTimers
// Clears every timer.
//
// responses:
//   204: TimersResponseNoContent

// swagger:response TimersResponseOk
type TimersResponseOk struct {
	// in:body
	Body data.Timers
}

// swagger:response TimersResponseNoContent
type TimersResponseNoContent struct{}

// swagger:parameters ReadTimers ClearTimers
type TimersParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
