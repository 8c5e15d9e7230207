// Package logic composes the store, the searches and their collaborators
// into the operations exposed by the service and the command line.
package logic

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/cache"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/generator"
	"github.com/antonio-alexander/go-blog-flatfile/internal/record"
	"github.com/antonio-alexander/go-blog-flatfile/internal/search"
	"github.com/antonio-alexander/go-blog-flatfile/internal/sql"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	pkgerrors "github.com/pkg/errors"
)

const (
	defaultSearchKind string = data.SearchKindBinary
	defaultPageSize   int    = 20
)

var (
	ErrInvalidPage         = errors.New("invalid page")
	ErrInvalidPageSize     = errors.New("invalid page size")
	ErrInvalidCount        = errors.New("invalid count")
	ErrInvalidCode         = errors.New("invalid code")
	ErrInvalidEmployee     = errors.New("invalid employee")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrImportNotConfigured = errors.New("import not configured")
)

type Logic interface {
	// EmployeeCreate appends e to the store, a zero code is replaced by
	// Count+1; it returns the employee as it was stored.
	EmployeeCreate(ctx context.Context, e data.Employee) (*data.Employee, error)

	// EmployeeRead finds the employee with code using the given search kind
	// (or the configured one when empty), ErrEmployeeNotFound is returned
	// alongside the result when nothing matched.
	EmployeeRead(ctx context.Context, code int32, kind string) (*data.SearchResult, error)

	// EmployeesSearch scans every record for the field criteria.
	EmployeesSearch(ctx context.Context, field, match, value string) (*data.SearchResult, error)

	// EmployeeSearch runs any search, it's what EmployeeRead and
	// EmployeesSearch are built on.
	EmployeeSearch(ctx context.Context, search data.EmployeeSearch) (*data.SearchResult, error)

	// EmployeesList returns one page of records in file order, pages start
	// at 1 and a zero size uses the configured page size.
	EmployeesList(ctx context.Context, page, size int) (*data.Page, error)

	EmployeesCount(ctx context.Context) (int64, error)

	// EmployeesGenerate appends count random employees with codes following
	// Count, a store generated from empty stays ascending.
	EmployeesGenerate(ctx context.Context, count int) (int64, error)

	// EmployeesImport appends employees read from the database whose code
	// is greater than the last stored code, in ascending order.
	EmployeesImport(ctx context.Context, departments ...string) (int, error)
}

type logic struct {
	sync.RWMutex
	config struct {
		cacheEnabled bool
		searchKind   string
		pageSize     int
	}
	cacheMu    sync.Mutex
	generation uint64
	store      store.Store
	cache      cache.Cache
	clearer    internal.Clearer
	sql        sql.Sql
	generator  generator.Generator
	searchLog  utilities.SearchLogger
	utilities.Counter
	utilities.Timers
	utilities.Logger
}

func NewLogic(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Logic
} {
	l := &logic{}
	l.config.searchKind = defaultSearchKind
	l.config.pageSize = defaultPageSize
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case store.Store:
			l.store = p
		case cache.Cache:
			l.cache = p
			if clearer, ok := p.(internal.Clearer); ok {
				l.clearer = clearer
			}
		case sql.Sql:
			l.sql = p
		case generator.Generator:
			l.generator = p
		case utilities.SearchLogger:
			l.searchLog = p
		case utilities.Counter:
			l.Counter = p
		case utilities.Timers:
			l.Timers = p
		case utilities.Logger:
			l.Logger = p
		}
	}
	if l.Logger == nil {
		l.Logger = utilities.NewNopLogger()
	}
	if l.Counter == nil {
		l.Counter = utilities.NewCounter()
	}
	if l.Timers == nil {
		l.Timers = utilities.NewTimers()
	}
	if l.generator == nil {
		l.generator = generator.New()
	}
	if l.searchLog == nil {
		l.searchLog = utilities.NewSearchLog()
	}
	return l
}

func (l *logic) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	if cacheEnabled, ok := envs["LOGIC_CACHE_ENABLED"]; ok {
		l.config.cacheEnabled, _ = strconv.ParseBool(cacheEnabled)
	}
	if searchKind, ok := envs["LOGIC_SEARCH_KIND"]; ok && searchKind != "" {
		switch searchKind = strings.ToLower(searchKind); searchKind {
		default:
			return pkgerrors.Wrapf(search.ErrUnsupportedKind, "LOGIC_SEARCH_KIND %q", searchKind)
		case data.SearchKindSequential, data.SearchKindBinary:
			l.config.searchKind = searchKind
		}
	}
	if pageSize, ok := envs["LOGIC_PAGE_SIZE"]; ok && pageSize != "" {
		i, err := strconv.Atoi(pageSize)
		if err != nil || i <= 0 {
			return pkgerrors.Wrapf(ErrInvalidPageSize, "LOGIC_PAGE_SIZE %q", pageSize)
		}
		l.config.pageSize = i
	}
	return nil
}

func (l *logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.store == nil {
		return store.ErrNotConfigured
	}
	if l.config.cacheEnabled && l.cache == nil {
		l.Error(ctx, "cache enabled but no cache provided, disabling")
		l.config.cacheEnabled = false
	}
	l.Info(ctx, "logic opened (cache enabled: %t, search kind: %s, page size: %d)",
		l.config.cacheEnabled, l.config.searchKind, l.config.pageSize)
	return nil
}

func (l *logic) Close(ctx context.Context) error {
	return nil
}

func (l *logic) cacheEnabled() bool {
	l.RLock()
	defer l.RUnlock()
	return l.config.cacheEnabled
}

// invalidate drops every cached search, appending may change the result of
// any of them. Searches that viewed the store before the generation moved
// won't be written to the cache.
func (l *logic) invalidate(ctx context.Context) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	l.generation++
	if !l.cacheEnabled() || l.clearer == nil {
		return
	}
	if err := l.clearer.Clear(ctx); err != nil {
		l.Error(ctx, "error while clearing cache: %s", err)
	}
}

func (l *logic) cacheGeneration() uint64 {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()
	return l.generation
}

// cacheWrite stores result unless the store was appended to since
// generation was read.
func (l *logic) cacheWrite(ctx context.Context, generation uint64, employeeSearch data.EmployeeSearch, result *data.SearchResult) {
	l.cacheMu.Lock()
	defer l.cacheMu.Unlock()

	if generation != l.generation {
		l.Trace(ctx, "store changed during %s search for %s, not caching", result.Kind, result.Criterion)
		return
	}
	if err := l.cache.SearchWrite(ctx, employeeSearch, result); err != nil {
		l.Error(ctx, "error while writing search to cache: %s", err)
	}
}

func (l *logic) time(group string) func() {
	index := l.Timers.Start(group)
	return func() { l.Timers.Stop(group, index) }
}

func (l *logic) EmployeeCreate(ctx context.Context, e data.Employee) (*data.Employee, error) {
	defer l.time("employee_create")()

	if e.Code < 0 {
		return nil, ErrInvalidCode
	}
	if e.Code == 0 {
		n, err := l.store.Count(ctx)
		if err != nil {
			return nil, err
		}
		if n >= math.MaxInt32 {
			return nil, pkgerrors.Wrapf(ErrInvalidCode, "no code follows %d records", n)
		}
		e.Code = int32(n + 1)
	}
	if !record.Fits(&e) {
		l.Debug(ctx, "employee %d has text longer than its field, it will be truncated", e.Code)
	}
	created, err := record.Decode(record.Encode(&e))
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrInvalidEmployee, "employee %d: %s", e.Code, err)
	}
	if err := l.store.Append(ctx, &e); err != nil {
		return nil, err
	}
	l.invalidate(ctx)
	return created, nil
}

func (l *logic) EmployeeRead(ctx context.Context, code int32, kind string) (*data.SearchResult, error) {
	result, err := l.EmployeeSearch(ctx, data.EmployeeSearch{
		Kind: kind,
		Code: code,
	})
	if err != nil {
		return nil, err
	}
	if !result.Found() {
		return result, ErrEmployeeNotFound
	}
	return result, nil
}

func (l *logic) EmployeesSearch(ctx context.Context, field, match, value string) (*data.SearchResult, error) {
	return l.EmployeeSearch(ctx, data.EmployeeSearch{
		Kind:  data.SearchKindField,
		Field: strings.ToLower(field),
		Match: strings.ToLower(match),
		Value: value,
	})
}

func (l *logic) EmployeeSearch(ctx context.Context, employeeSearch data.EmployeeSearch) (*data.SearchResult, error) {
	if employeeSearch.Kind == "" {
		l.RLock()
		employeeSearch.Kind = l.config.searchKind
		l.RUnlock()
	}
	if employeeSearch.Kind == data.SearchKindField && employeeSearch.Match == "" {
		employeeSearch.Match = data.MatchEqual
	}
	if err := search.Validate(employeeSearch); err != nil {
		return nil, err
	}
	defer l.time(employeeSearch.Kind)()

	cacheEnabled := l.cacheEnabled()
	if cacheEnabled {
		result, err := l.cache.SearchRead(ctx, employeeSearch)
		if err == nil {
			l.IncrementHit(employeeSearch.Kind)
			l.Trace(ctx, "cache hit for %s search: %s", employeeSearch.Kind, result.Criterion)
			result.Cached = true
			return result, nil
		}
		l.IncrementMiss(employeeSearch.Kind)
		if !errors.Is(err, cache.ErrSearchNotCached) {
			l.Error(ctx, "error while reading search from cache: %s", err)
		}
	}
	generation := l.cacheGeneration()
	var result *data.SearchResult
	if err := l.store.View(ctx, func(r store.Reader) (err error) {
		result, err = search.Do(ctx, r, employeeSearch)
		return err
	}); err != nil {
		return nil, err
	}
	l.Debug(ctx, "%s search for %s: %d comparisons in %s",
		result.Kind, result.Criterion, result.Comparisons, result.Elapsed)
	if err := l.searchLog.LogSearch(ctx, result); err != nil {
		l.Error(ctx, "error while writing search log: %s", err)
	}
	if cacheEnabled {
		l.cacheWrite(ctx, generation, employeeSearch, result)
	}
	return result, nil
}

func (l *logic) EmployeesList(ctx context.Context, page, size int) (*data.Page, error) {
	defer l.time("employees_list")()

	if page < 1 {
		return nil, ErrInvalidPage
	}
	if size < 0 {
		return nil, ErrInvalidPageSize
	}
	if size == 0 {
		l.RLock()
		size = l.config.pageSize
		l.RUnlock()
	}
	n, err := l.store.Count(ctx)
	if err != nil {
		return nil, err
	}
	p := &data.Page{
		Number:    page,
		Size:      size,
		Total:     n,
		Employees: []*data.Employee{},
	}
	from := int64(page-1) * int64(size)
	if from >= n {
		return p, nil
	}
	if err := l.store.Scan(ctx, from, func(index int64, e *data.Employee) bool {
		p.Employees = append(p.Employees, e)
		return len(p.Employees) < size
	}); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *logic) EmployeesCount(ctx context.Context) (int64, error) {
	return l.store.Count(ctx)
}

func (l *logic) EmployeesGenerate(ctx context.Context, count int) (int64, error) {
	defer l.time("employees_generate")()

	if count <= 0 {
		return 0, ErrInvalidCount
	}
	n, err := l.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n+int64(count) > math.MaxInt32 {
		return 0, pkgerrors.Wrapf(ErrInvalidCount, "%d records plus %d overflows the code", n, count)
	}
	err = l.generator.Generate(ctx, l.store, count, int32(n+1))
	l.invalidate(ctx)
	if err != nil {
		return 0, err
	}
	l.Info(ctx, "generated %d employees", count)
	return l.store.Count(ctx)
}

func (l *logic) lastCode(ctx context.Context) (*int32, error) {
	var code *int32

	if err := l.store.View(ctx, func(r store.Reader) error {
		n, err := r.Count(ctx)
		if err != nil || n == 0 {
			return err
		}
		e, err := r.ReadAt(ctx, n-1)
		if err != nil {
			return err
		}
		code = &e.Code
		return nil
	}); err != nil {
		return nil, err
	}
	return code, nil
}

func (l *logic) EmployeesImport(ctx context.Context, departments ...string) (int, error) {
	defer l.time("employees_import")()

	if l.sql == nil {
		return 0, ErrImportNotConfigured
	}
	afterCode, err := l.lastCode(ctx)
	if err != nil {
		return 0, err
	}
	n, err := l.sql.EmployeesImport(ctx, sql.Criteria{
		AfterCode:   afterCode,
		Departments: departments,
	}, l.store)
	if n > 0 {
		l.invalidate(ctx)
	}
	if err != nil {
		return n, err
	}
	l.Info(ctx, "imported %d employees", n)
	return n, nil
}
