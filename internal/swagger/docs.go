// Package Swagger go-blog-flatfile
//
// An API to allow you to search, list and append employees kept in a
// go-blog-flatfile store.
//
//   Schemes: http, https
//   Version: 1.0
//   Host: localhost:8080
//   BasePath:/
//
//   Consumes:
//   - application/json
//
//   Produces:
//   - application/json
//
//   Security:
//   - basic
//
//  SecurityDefinitions:
//  basic:
//    type: basic
//
// swagger:meta
package swagger

// swagger:response ErrorResponse
type ErrorResponse struct {
	// in:body
	Body struct {
		Error string `json:"error"`
	}
}
