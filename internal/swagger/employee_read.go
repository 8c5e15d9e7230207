package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route GET /employees/{code} Employee ReadEmployee
// Searches an employee by code, sequentially or with a binary search.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeeGetResponseOk
//   400: ErrorResponse
//   404: ErrorResponse

// swagger:response EmployeeGetResponseOk
type EmployeeGetResponseOk struct {
	// in:body
	Body data.Response
}

// swagger:parameters ReadEmployee
type EmployeeGetParams struct {
	// in:path
	Code int32 `json:"code"`

	// sequential or binary
	// in:query
	Kind string `json:"kind"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
