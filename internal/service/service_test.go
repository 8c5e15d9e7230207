package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/cache"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/logic"
	"github.com/antonio-alexander/go-blog-flatfile/internal/service"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	envs = map[string]string{
		//logic
		"LOGIC_CACHE_ENABLED": "true",

		//service
		"SERVICE_ADDRESS":          "localhost",
		"SERVICE_PORT":             "8091",
		"SERVICE_SHUTDOWN_TIMEOUT": "30",
		"SERVICE_TIMERS_ENABLED":   "true",
	}
)

func init() {
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
}

type serviceTest struct {
	openers []interface {
		internal.Configurer
		internal.Opener
	}
	client  *http.Client
	address string
}

func newServiceTest(t *testing.T) *serviceTest {
	t.Helper()

	configuration := map[string]string{
		"STORE_FILE": filepath.Join(t.TempDir(), "employees.dat"),
	}
	for key, value := range envs {
		configuration[key] = value
	}
	s := store.NewStore()
	c := cache.NewMemory()
	counter, timers := utilities.NewCounter(), utilities.NewTimers()
	l := logic.NewLogic(s, c, counter, timers)
	svc := service.NewService(l, c, counter, timers)
	st := &serviceTest{
		openers: []interface {
			internal.Configurer
			internal.Opener
		}{s, c, l, svc},
		client:  &http.Client{},
		address: "http://" + configuration["SERVICE_ADDRESS"] + ":" + configuration["SERVICE_PORT"],
	}
	for _, o := range st.openers {
		err := o.Configure(configuration)
		require.NoError(t, err)
		err = o.Open(context.TODO())
		require.NoError(t, err)
	}
	t.Cleanup(func() {
		for i := len(st.openers) - 1; i >= 0; i-- {
			_ = st.openers[i].Close(context.TODO())
		}
	})
	return st
}

func (s *serviceTest) doRequest(t *testing.T, route, method string, request any, response any) int {
	t.Helper()

	var body io.Reader

	if request != nil {
		b, err := json.Marshal(request)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	httpRequest, err := http.NewRequest(method, s.address+route, body)
	require.NoError(t, err)
	httpRequest.Header.Set("Correlation-Id", internal.GenerateId())
	httpResponse, err := s.client.Do(httpRequest)
	require.NoError(t, err)
	defer httpResponse.Body.Close()
	b, err := io.ReadAll(httpResponse.Body)
	require.NoError(t, err)
	if response != nil && len(b) > 0 {
		err = json.Unmarshal(b, response)
		require.NoError(t, err, string(b))
	}
	return httpResponse.StatusCode
}

func TestService(t *testing.T) {
	s := newServiceTest(t)

	t.Run("create", func(t *testing.T) {
		var response data.Response

		status := s.doRequest(t, data.RouteEmployees, http.MethodPut, &data.Request{
			Employee: &data.Employee{Name: "Ana Silva", Department: "TI"},
		}, &response)
		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, response.Employee)
		assert.Equal(t, int32(1), response.Employee.Code)

		status = s.doRequest(t, data.RouteEmployees, http.MethodPut, &data.Request{}, &response)
		assert.Equal(t, http.StatusBadRequest, status)

		status = s.doRequest(t, data.RouteEmployees, http.MethodPut, &data.Request{
			Employee: &data.Employee{Name: strings.Repeat("a", 49) + "é"},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("generate", func(t *testing.T) {
		var response data.Response

		status := s.doRequest(t, data.RouteEmployeesGenerate, http.MethodPost,
			&data.Request{Count: 49}, &response)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, int64(50), response.Count)

		status = s.doRequest(t, data.RouteEmployeesGenerate, http.MethodPost,
			&data.Request{Count: 0}, &response)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("count", func(t *testing.T) {
		var response data.Response

		status := s.doRequest(t, data.RouteEmployeesCount, http.MethodGet, nil, &response)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, int64(50), response.Count)
	})

	t.Run("read", func(t *testing.T) {
		var response data.Response

		status := s.doRequest(t, fmt.Sprintf(data.RouteEmployeesCodef, 1), http.MethodGet, nil, &response)
		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, response.Employee)
		assert.Equal(t, "Ana Silva", response.Employee.Name)
		require.NotNil(t, response.SearchResult)
		assert.Equal(t, data.SearchKindBinary, response.SearchResult.Kind)

		response = data.Response{}
		status = s.doRequest(t, fmt.Sprintf(data.RouteEmployeesCodef, 25)+"?kind=sequential",
			http.MethodGet, nil, &response)
		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, response.SearchResult)
		assert.Equal(t, 25, response.SearchResult.Comparisons)

		status = s.doRequest(t, fmt.Sprintf(data.RouteEmployeesCodef, 1000), http.MethodGet, nil, nil)
		assert.Equal(t, http.StatusNotFound, status)
		status = s.doRequest(t, fmt.Sprintf(data.RouteEmployeesCodef, 1)+"?kind=hash", http.MethodGet, nil, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("search", func(t *testing.T) {
		var response data.Response

		search := data.EmployeeSearch{
			Kind:  data.SearchKindField,
			Field: data.FieldName,
			Match: data.MatchEqual,
			Value: "ana silva",
		}
		status := s.doRequest(t, data.RouteEmployeesSearch+"?"+search.ToParams().Encode(),
			http.MethodGet, nil, &response)
		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, response.SearchResult)
		assert.Equal(t, 50, response.SearchResult.Comparisons)
		require.NotEmpty(t, response.Employees)
		assert.Equal(t, int32(1), response.Employees[0].Code)

		search.Field = "salary"
		status = s.doRequest(t, data.RouteEmployeesSearch+"?"+search.ToParams().Encode(),
			http.MethodGet, nil, nil)
		assert.Equal(t, http.StatusBadRequest, status)

		status = s.doRequest(t, data.RouteEmployeesSearch+"?kind=binary&code=abc",
			http.MethodGet, nil, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("list", func(t *testing.T) {
		var response data.Response

		status := s.doRequest(t, data.RouteEmployees+"?page=2&page_size=20", http.MethodGet, nil, &response)
		assert.Equal(t, http.StatusOK, status)
		require.NotNil(t, response.Page)
		assert.Equal(t, int64(50), response.Page.Total)
		require.Len(t, response.Page.Employees, 20)
		assert.Equal(t, int32(21), response.Page.Employees[0].Code)

		status = s.doRequest(t, data.RouteEmployees+"?page=0", http.MethodGet, nil, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		status = s.doRequest(t, data.RouteEmployees+"?page=one", http.MethodGet, nil, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("import not configured", func(t *testing.T) {
		status := s.doRequest(t, data.RouteEmployeesImport, http.MethodPost, &data.Request{}, nil)
		assert.Equal(t, http.StatusInternalServerError, status)
	})

	t.Run("counters and timers", func(t *testing.T) {
		var counters data.CacheCounters
		var timers data.Timers

		status := s.doRequest(t, data.RouteCacheCounters, http.MethodGet, nil, &counters)
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, counters.CounterMisses)
		ratio, total := counters.HitRatio(data.SearchKindBinary)
		assert.Positive(t, total)
		assert.Less(t, ratio, 1.0)
		status = s.doRequest(t, data.RouteTimers, http.MethodGet, nil, &timers)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, timers.Totals, "employee_read")
		assert.Contains(t, timers.Totals, data.SearchKindBinary)

		status = s.doRequest(t, data.RouteCache, http.MethodDelete, nil, nil)
		assert.Equal(t, http.StatusNoContent, status)
		status = s.doRequest(t, data.RouteCacheCounters, http.MethodDelete, nil, nil)
		assert.Equal(t, http.StatusNoContent, status)
		status = s.doRequest(t, data.RouteTimers, http.MethodDelete, nil, nil)
		assert.Equal(t, http.StatusNoContent, status)
	})

	t.Run("metrics", func(t *testing.T) {
		response, err := s.client.Get(s.address + data.RouteMetrics)
		require.NoError(t, err)
		defer response.Body.Close()
		b, err := io.ReadAll(response.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Contains(t, string(b), "flatfile_searches_total")
		assert.Contains(t, string(b), "flatfile_search_comparisons")
		assert.Contains(t, string(b), "flatfile_employees_appended_total 50")
	})
}
