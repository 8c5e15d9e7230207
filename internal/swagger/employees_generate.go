package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route POST /employees/generate Employee GenerateEmployees
// Appends count random employees whose codes follow the stored ones.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesGenerateResponseOk
//   400: ErrorResponse

// swagger:response EmployeesGenerateResponseOk
type EmployeesGenerateResponseOk struct {
	// in:body
	Body data.Response
}

// swagger:parameters GenerateEmployees
type EmployeesGenerateParams struct {
	// in:body
	Body data.Request

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
