package data

const (
	RouteEmployees         string = "/employees"
	RouteEmployeesSearch   string = RouteEmployees + "/search"
	RouteEmployeesGenerate string = RouteEmployees + "/generate"
	RouteEmployeesImport   string = RouteEmployees + "/import"
	RouteEmployeesCount    string = RouteEmployees + "/count"
	RouteEmployeesCode     string = RouteEmployees + "/{" + PathCode + ":-?[0-9]+}"
	RouteEmployeesCodef    string = RouteEmployees + "/%d"
	RouteCache             string = "/cache"
	RouteCacheCounters     string = RouteCache + "/counters"
	RouteTimers            string = "/timers"
	RouteMetrics           string = "/metrics"
)

const PathCode string = "code"

const (
	ParameterKind     string = "kind"
	ParameterCode     string = "code"
	ParameterField    string = "field"
	ParameterMatch    string = "match"
	ParameterValue    string = "value"
	ParameterPage     string = "page"
	ParameterPageSize string = "page_size"
	ParameterCount    string = "count"
)

type Request struct {
	Employee    *Employee `json:"employee,omitempty"`
	Count       int       `json:"count,omitempty"`
	Departments []string  `json:"departments,omitempty"`
}

type Response struct {
	Employee     *Employee     `json:"employee,omitempty"`
	Employees    []*Employee   `json:"employees,omitempty"`
	SearchResult *SearchResult `json:"search_result,omitempty"`
	Page         *Page         `json:"page,omitempty"`
	Count        int64         `json:"count"`
}
