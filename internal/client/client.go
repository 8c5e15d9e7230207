package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/cache"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

type Client interface {
	EmployeeCreate(ctx context.Context, e data.Employee) (*data.Employee, error)
	EmployeeRead(ctx context.Context, code int32, kind string) (*data.SearchResult, error)
	EmployeesSearch(ctx context.Context, search data.EmployeeSearch) (*data.SearchResult, error)
	EmployeesList(ctx context.Context, page, size int) (*data.Page, error)
	EmployeesCount(ctx context.Context) (int64, error)
	EmployeesGenerate(ctx context.Context, count int) (int64, error)
	EmployeesImport(ctx context.Context, departments ...string) (int, error)
	CacheClear(ctx context.Context) error
	CacheCountersRead(ctx context.Context) (*data.CacheCounters, error)
	CacheCountersClear(ctx context.Context) error
	TimersRead(ctx context.Context) (*data.Timers, error)
	TimersClear(ctx context.Context) error
}

type client struct {
	sync.RWMutex
	config struct {
		protocol      string
		address       string
		port          string
		timeout       int64
		sslCaFile     string
		sslCrtFile    string
		sslKeyFile    string
		cacheDisabled bool
	}
	address string
	cache   cache.Cache
	utilities.Logger
	*http.Client
}

// NewClient creates a client, a cache.Cache given as a parameter caches
// search results on the client side until the client appends anything.
func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{Client: &http.Client{}}
	c.config.protocol = "http"
	c.config.address = "localhost"
	c.config.port = "8080"
	c.config.timeout = 10
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case cache.Cache:
			c.cache = p
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewNopLogger()
	}
	return c
}

func (c *client) doRequest(ctx context.Context, uri, method string, item any) ([]byte, error) {
	var contentLength int
	var contentType string
	var body io.Reader

	switch d := item.(type) {
	case []byte:
		body = bytes.NewBuffer(d)
		contentLength = len(d)
		contentType = "application/json"
	case url.Values:
		switch method {
		default:
			uri = uri + "?" + d.Encode()
		case http.MethodPut, http.MethodPost, http.MethodPatch:
			body = strings.NewReader(d.Encode())
			contentType = "application/x-www-form-urlencoded"
			contentLength = len(d.Encode())
		}
	}
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, err
	}
	request.Header.Add("Content-Type", contentType)
	request.Header.Add("Content-Length", strconv.Itoa(contentLength))
	request.Header.Add("Correlation-Id", internal.CorrelationIdFromCtx(ctx))
	response, err := c.Do(request)
	if err != nil {
		return nil, err
	}
	bytes, err := io.ReadAll(response.Body)
	defer response.Body.Close()
	if err != nil {
		return nil, err
	}
	switch response.StatusCode {
	default:
		var e struct {
			Error string `json:"error"`
		}

		if err := json.Unmarshal(bytes, &e); err != nil || e.Error == "" {
			return nil, errors.Errorf("status code: %d; %s",
				response.StatusCode, string(bytes))
		}
		switch response.StatusCode {
		case http.StatusNotFound:
			return nil, errors.Wrap(ErrNotFound, e.Error)
		case http.StatusBadRequest:
			return nil, errors.Wrap(ErrBadRequest, e.Error)
		}
		return nil, errors.New(e.Error)
	case http.StatusOK, http.StatusNoContent:
		return bytes, nil
	}
}

func (c *client) doJson(ctx context.Context, uri, method string, item any, response any) error {
	bytes, err := c.doRequest(ctx, uri, method, item)
	if err != nil {
		return err
	}
	if response == nil || len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, response)
}

func (c *client) Configure(envs map[string]string) error {
	if address, ok := envs["CLIENT_ADDRESS"]; ok {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok {
		c.config.port = port
	}
	if protocol, ok := envs["CLIENT_PROTOCOL"]; ok {
		c.config.protocol = protocol
	}
	if timeout, ok := envs["CLIENT_TIMEOUT"]; ok {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid CLIENT_TIMEOUT %q", timeout)
		}
		c.config.timeout = i
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	if cacheDisabled, ok := envs["CLIENT_CACHE_DISABLED"]; ok {
		c.config.cacheDisabled, _ = strconv.ParseBool(cacheDisabled)
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return errors.Errorf("unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		c.address = fmt.Sprintf("%s://%s", c.config.protocol,
			net.JoinHostPort(c.config.address, c.config.port))
	}
	if c.cache == nil {
		c.config.cacheDisabled = true
	}
	if c.config.cacheDisabled {
		c.Info(ctx, "client: cache disabled")
	}
	c.Client.Timeout = time.Duration(c.config.timeout) * time.Second
	transport, err := newTransport(c.config.sslCaFile, c.config.sslCrtFile,
		c.config.sslKeyFile)
	if err != nil {
		return err
	}
	c.Client.Transport = transport
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.Client.CloseIdleConnections()
	return nil
}

// invalidate drops results cached on the client after it appended.
func (c *client) invalidate(ctx context.Context) {
	if c.config.cacheDisabled {
		return
	}
	clearer, ok := c.cache.(internal.Clearer)
	if !ok {
		return
	}
	if err := clearer.Clear(ctx); err != nil {
		c.Error(ctx, "error while clearing client cache: %s", err)
	}
}

func (c *client) EmployeeCreate(ctx context.Context, e data.Employee) (*data.Employee, error) {
	bytes, err := json.Marshal(&data.Request{Employee: &e})
	if err != nil {
		return nil, err
	}
	response := &data.Response{}
	uri := c.address + data.RouteEmployees
	if err := c.doJson(ctx, uri, http.MethodPut, bytes, response); err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return response.Employee, nil
}

func (c *client) search(ctx context.Context, uri string, search data.EmployeeSearch, params url.Values) (*data.SearchResult, error) {
	cacheable := !c.config.cacheDisabled && search.Kind != ""
	if cacheable {
		result, err := c.cache.SearchRead(ctx, search)
		if err == nil {
			result.Cached = true
			return result, nil
		}
		c.Trace(ctx, "client cache miss: %s", err)
	}
	response := &data.Response{}
	if err := c.doJson(ctx, uri, http.MethodGet, params, response); err != nil {
		return nil, err
	}
	if response.SearchResult == nil {
		return nil, errors.New("search result missing from response")
	}
	if cacheable {
		if err := c.cache.SearchWrite(ctx, search, response.SearchResult); err != nil {
			c.Error(ctx, "error while writing search to cache: %s", err)
		}
	}
	return response.SearchResult, nil
}

func (c *client) EmployeeRead(ctx context.Context, code int32, kind string) (*data.SearchResult, error) {
	params := url.Values{}
	if kind != "" {
		params.Set(data.ParameterKind, kind)
	}
	uri := fmt.Sprintf(c.address+data.RouteEmployeesCodef, code)
	return c.search(ctx, uri, data.EmployeeSearch{Kind: kind, Code: code}, params)
}

func (c *client) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) (*data.SearchResult, error) {
	uri := c.address + data.RouteEmployeesSearch
	return c.search(ctx, uri, search, search.ToParams())
}

func (c *client) EmployeesList(ctx context.Context, page, size int) (*data.Page, error) {
	params := url.Values{}
	params.Set(data.ParameterPage, strconv.Itoa(page))
	if size > 0 {
		params.Set(data.ParameterPageSize, strconv.Itoa(size))
	}
	response := &data.Response{}
	uri := c.address + data.RouteEmployees
	if err := c.doJson(ctx, uri, http.MethodGet, params, response); err != nil {
		return nil, err
	}
	return response.Page, nil
}

func (c *client) EmployeesCount(ctx context.Context) (int64, error) {
	response := &data.Response{}
	uri := c.address + data.RouteEmployeesCount
	if err := c.doJson(ctx, uri, http.MethodGet, nil, response); err != nil {
		return 0, err
	}
	return response.Count, nil
}

func (c *client) EmployeesGenerate(ctx context.Context, count int) (int64, error) {
	bytes, err := json.Marshal(&data.Request{Count: count})
	if err != nil {
		return 0, err
	}
	response := &data.Response{}
	uri := c.address + data.RouteEmployeesGenerate
	if err := c.doJson(ctx, uri, http.MethodPost, bytes, response); err != nil {
		return 0, err
	}
	c.invalidate(ctx)
	return response.Count, nil
}

func (c *client) EmployeesImport(ctx context.Context, departments ...string) (int, error) {
	bytes, err := json.Marshal(&data.Request{Departments: departments})
	if err != nil {
		return 0, err
	}
	response := &data.Response{}
	uri := c.address + data.RouteEmployeesImport
	if err := c.doJson(ctx, uri, http.MethodPost, bytes, response); err != nil {
		return 0, err
	}
	c.invalidate(ctx)
	return int(response.Count), nil
}

func (c *client) CacheClear(ctx context.Context) error {
	uri := c.address + data.RouteCache
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *client) CacheCountersRead(ctx context.Context) (*data.CacheCounters, error) {
	response := &data.CacheCounters{}
	uri := c.address + data.RouteCacheCounters
	if err := c.doJson(ctx, uri, http.MethodGet, nil, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) CacheCountersClear(ctx context.Context) error {
	uri := c.address + data.RouteCacheCounters
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) TimersRead(ctx context.Context) (*data.Timers, error) {
	response := &data.Timers{}
	uri := c.address + data.RouteTimers
	if err := c.doJson(ctx, uri, http.MethodGet, nil, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *client) TimersClear(ctx context.Context) error {
	uri := c.address + data.RouteTimers
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}
