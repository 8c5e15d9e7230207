package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/cache"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/logic"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
		timersEnabled    bool
		metricsDisabled  bool
	}
	ctx     context.Context
	cancel  context.CancelFunc
	metrics *metrics
	*mux.Router
	*http.Server
	cache internal.Clearer
	utilities.Logger
	utilities.Counter
	utilities.Timers
	logic.Logic
}

func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
} {
	router := mux.NewRouter()
	s := &service{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
		metrics: newMetrics(),
	}
	s.config.shutdownTimeout = 10 * time.Second
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case logic.Logic:
			s.Logic = p
		case interface {
			cache.Cache
			internal.Clearer
		}:
			s.cache = p
		case utilities.Counter:
			s.Counter = p
		case utilities.Timers:
			s.Timers = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewNopLogger()
	}
	if s.Counter == nil {
		s.Counter = utilities.NewCounter()
	}
	if s.Timers == nil {
		s.Timers = utilities.NewTimers()
	}
	return s
}

func (s *service) launchServer() error {
	started := make(chan struct{})
	chErr := make(chan error, 1)
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()
		defer close(chErr)

		if !s.config.corsDisabled {
			s.Server.Handler = cors.New(cors.Options{
				AllowedOrigins:   s.config.allowedOrigins,
				AllowCredentials: s.config.allowCredentials,
				AllowedMethods:   s.config.allowedMethods,
				AllowedHeaders:   s.config.allowedHeaders,
				Debug:            s.config.corsDebug,
			}).Handler(s.Router)
		}
		close(started)
		if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chErr <- err
		}
	}()
	<-started
	select {
	case err := <-chErr:
		//KIM: here we're accounting for a situation where the server closes unexexpectedly
		// but quickly (within a second of starting); this allows us to respond to errors such as
		// the port being already used
		if err != nil {
			return err
		}
		return nil
	case <-time.After(time.Second):
		address := net.JoinHostPort(s.config.address, s.config.port)
		s.Info(s.ctx, "started server: %s", address)
		return nil
	}
}

// time starts a timer for group when timers are enabled, the returned
// function stops it.
func (s *service) time(ctx context.Context, group string) func() {
	if !s.config.timersEnabled {
		return func() {}
	}
	timerIndex := s.Timers.Start(group)
	return func() {
		elapsedtime := s.Timers.Stop(group, timerIndex)
		s.Trace(ctx, "%s took %v", group,
			time.Duration(elapsedtime)*time.Nanosecond)
	}
}

func (s *service) endpointDefault() func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprintf(writer,
			"go-blog-flatfile\n"+
				"Version: \"%s\"\n"+
				"Git Commit: \"%s\"\n"+
				"Git Branch: \"%s\"\n",
			Version, GitCommit, GitBranch)
	}
}

func (s *service) readRequest(request *http.Request) (*data.Request, error) {
	employeeRequest := &data.Request{}
	bytes, err := io.ReadAll(request.Body)
	defer request.Body.Close()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bytes, employeeRequest); err != nil {
		return nil, err
	}
	return employeeRequest, nil
}

func (s *service) endpointEmployeeCreate(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.time(ctx, "employee_create")()
	employeeRequest, err := s.readRequest(request)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	if employeeRequest.Employee == nil {
		handleResponse(writer, fmt.Errorf("%w: employee missing", errBadRequest), nil)
		return
	}
	employee, err := s.EmployeeCreate(ctx, *employeeRequest.Employee)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	s.metrics.recordAppended(1)
	handleResponse(writer, nil, &data.Response{
		Employee: employee,
	})
	s.Trace(ctx, "executed employee_create: %d", employee.Code)
}

func (s *service) endpointEmployeeRead(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.time(ctx, "employee_read")()
	code, err := codeFromPath(mux.Vars(request))
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	result, err := s.EmployeeRead(ctx, code,
		strings.ToLower(request.URL.Query().Get(data.ParameterKind)))
	s.metrics.recordSearch(result)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Employee:     result.Employee,
		SearchResult: result,
	})
	s.Trace(ctx, "executed employee_read: %d", code)
}

func (s *service) endpointEmployeesSearch(writer http.ResponseWriter, request *http.Request) {
	var search data.EmployeeSearch

	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.time(ctx, "employees_search")()
	if err := request.ParseForm(); err != nil {
		handleResponse(writer, err, nil)
		return
	}
	if err := search.FromParams(request.Form); err != nil {
		handleResponse(writer, fmt.Errorf("%w: %s", errBadRequest, err), nil)
		return
	}
	result, err := s.EmployeeSearch(ctx, search)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	s.metrics.recordSearch(result)
	handleResponse(writer, nil, &data.Response{
		Employee:     result.Employee,
		Employees:    result.Employees,
		SearchResult: result,
	})
	s.Trace(ctx, "executed employees_search: %s", result.Criterion)
}

func (s *service) endpointEmployeesList(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.time(ctx, "employees_list")()
	params := request.URL.Query()
	page, err := intFromParams(params, data.ParameterPage, 1)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	size, err := intFromParams(params, data.ParameterPageSize, 0)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	p, err := s.EmployeesList(ctx, page, size)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Page:  p,
		Count: p.Total,
	})
	s.Trace(ctx, "executed employees_list: page %d", page)
}

func (s *service) endpointEmployeesCount(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	n, err := s.EmployeesCount(ctx)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Count: n,
	})
}

func (s *service) endpointEmployeesGenerate(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.time(ctx, "employees_generate")()
	employeeRequest, err := s.readRequest(request)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	n, err := s.EmployeesGenerate(ctx, employeeRequest.Count)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	s.metrics.recordAppended(employeeRequest.Count)
	handleResponse(writer, nil, &data.Response{
		Count: n,
	})
	s.Trace(ctx, "executed employees_generate: %d", employeeRequest.Count)
}

func (s *service) endpointEmployeesImport(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	defer s.time(ctx, "employees_import")()
	employeeRequest, err := s.readRequest(request)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	n, err := s.EmployeesImport(ctx, employeeRequest.Departments...)
	s.metrics.recordAppended(n)
	if err != nil {
		handleResponse(writer, err, nil)
		return
	}
	handleResponse(writer, nil, &data.Response{
		Count: int64(n),
	})
	s.Trace(ctx, "executed employees_import: %d", n)
}

func (s *service) endpointCacheClear(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			handleResponse(writer, err, nil)
			return
		}
		s.Trace(ctx, "executed cache_clear")
	}
	handleResponse(writer, nil, nil)
}

func (s *service) endpointCacheCountersRead(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, s.Counter.ReadAll())
}

func (s *service) endpointCacheCountersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	s.Counter.Reset()
	handleResponse(writer, nil, nil)
	s.Trace(ctx, "executed cache_counters_clear")
}

func (s *service) endpointTimersRead(writer http.ResponseWriter, _ *http.Request) {
	handleResponse(writer, nil, s.Timers.ReadAll())
}

func (s *service) endpointTimersClear(writer http.ResponseWriter, request *http.Request) {
	ctx := internal.CtxWithCorrelationId(request.Context(),
		getCorrelationId(request))
	s.Timers.Clear()
	handleResponse(writer, nil, nil)
	s.Trace(ctx, "executed timers_clear")
}

func (s *service) buildRoutes() {
	if !s.config.metricsDisabled {
		s.Router.Use(s.metrics.middleware)
		s.Router.Handle(data.RouteMetrics, s.metrics.handler()).Methods(http.MethodGet)
	}
	s.Router.HandleFunc("/", s.endpointDefault())
	s.Router.HandleFunc(data.RouteEmployeesSearch, s.endpointEmployeesSearch)
	s.Router.HandleFunc(data.RouteEmployeesCount, s.endpointEmployeesCount).Methods(http.MethodGet)
	s.Router.HandleFunc(data.RouteEmployeesGenerate, s.endpointEmployeesGenerate).Methods(http.MethodPost)
	s.Router.HandleFunc(data.RouteEmployeesImport, s.endpointEmployeesImport).Methods(http.MethodPost)
	s.Router.HandleFunc(data.RouteEmployees, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeesList(w, r)
		case http.MethodPut:
			s.endpointEmployeeCreate(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmployeesCode, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeeRead(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCacheCounters, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointCacheCountersRead(w, r)
		case http.MethodDelete:
			s.endpointCacheCountersClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCache, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodDelete:
			s.endpointCacheClear(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteTimers, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointTimersRead(w, r)
		case http.MethodDelete:
			s.endpointTimersClear(w, r)
		}
	})
}

func (s *service) Configure(envs map[string]string) error {
	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok {
		s.config.port = port
	}
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins, ok := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; ok && allowedOrigins != "" {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	if allowedMethods, ok := envs["SERVICE_CORS_ALLOWED_METHODS"]; ok && allowedMethods != "" {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders, ok := envs["SERVICE_CORS_ALLOWED_HEADERS"]; ok && allowedHeaders != "" {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	if timersEnabled := envs["SERVICE_TIMERS_ENABLED"]; timersEnabled != "" {
		s.config.timersEnabled, _ = strconv.ParseBool(timersEnabled)
	}
	if metricsDisabled := envs["SERVICE_METRICS_DISABLED"]; metricsDisabled != "" {
		s.config.metricsDisabled, _ = strconv.ParseBool(metricsDisabled)
	}
	return nil
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.Logic == nil {
		return fmt.Errorf("service: logic not provided")
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Server.Addr = net.JoinHostPort(s.config.address, s.config.port)
	s.buildRoutes()
	if err := s.launchServer(); err != nil {
		s.cancel()
		return err
	}
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.Wait()
	return nil
}
