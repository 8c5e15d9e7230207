package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route GET /employees/search Employee SearchEmployees
// Searches employees by code or by a text field (name, job_title or
// department); field searches ignore case.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesSearchResponseOk
//   400: ErrorResponse

// swagger:response EmployeesSearchResponseOk
type EmployeesSearchGetResponseOk struct {
	// in:body
	Body data.Response
}

// swagger:parameters SearchEmployees
type EmployeesSearchGetParams struct {
	// in:query
	data.EmployeeSearch

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
