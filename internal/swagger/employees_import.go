package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route POST /employees/import Employee ImportEmployees
// Appends employees read from the database whose code follows the last
// stored code, optionally filtered by department.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeesImportResponseOk
//   500: ErrorResponse

// swagger:response EmployeesImportResponseOk
type EmployeesImportResponseOk struct {
	// in:body
	Body data.Response
}

// swagger:parameters ImportEmployees
type EmployeesImportParams struct {
	// in:body
	Body data.Request

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
