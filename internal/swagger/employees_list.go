package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route GET /employees Employee ListEmployees
// Lists one page of employees in file order.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesListResponseOk
//   400: ErrorResponse

// swagger:response EmployeesListResponseOk
type EmployeesListResponseOk struct {
	// in:body
	Body data.Response
}

// swagger:parameters ListEmployees
type EmployeesListParams struct {
	// pages start at 1
	// in:query
	Page int `json:"page"`

	// in:query
	PageSize int `json:"page_size"`

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
