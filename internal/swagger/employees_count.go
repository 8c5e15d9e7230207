package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route GET /employees/count Employee CountEmployees
// Reads the number of stored employees.
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesCountResponseOk

// swagger:response EmployeesCountResponseOk
type EmployeesCountResponseOk struct {
	// in:body
	Body data.Response
}

// swagger:parameters CountEmployees
type EmployeesCountParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
