package swagger

import "github.com/antonio-alexander/go-blog-flatfile/internal/data"

// swagger:route PUT /employees Employee CreateEmployee
// Appends an employee, a zero code is replaced with the number of stored
// employees plus one.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: EmployeePutResponseOk
//   400: ErrorResponse

// swagger:response EmployeePutResponseOk
type EmployeePutResponseOk struct {
	// in:body
	Body data.Response
}

// swagger:parameters CreateEmployee
type EmployeePutParams struct {
	// in:body
	Body data.Request

	// in:header
	CorrelationId string `json:"Correlation-Id"`
}
