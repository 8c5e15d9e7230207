package cache

import (
	"context"
	"errors"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
)

var ErrSearchNotCached = errors.New("search not cached")

// Cache holds search results keyed by data.EmployeeSearch.ToKey, results
// are only valid until the next append so logic clears the cache on every
// write.
type Cache interface {
	SearchRead(ctx context.Context, search data.EmployeeSearch) (*data.SearchResult, error)
	SearchWrite(ctx context.Context, search data.EmployeeSearch, result *data.SearchResult) error
	SearchDelete(ctx context.Context, searches ...data.EmployeeSearch) error
}

func copySearchResult(r *data.SearchResult) *data.SearchResult {
	result := &data.SearchResult{}
	*result = *r
	if r.Employee != nil {
		employee := &data.Employee{}
		*employee = *r.Employee
		result.Employee = employee
	}
	if r.Employees != nil {
		result.Employees = make([]*data.Employee, 0, len(r.Employees))
		for _, e := range r.Employees {
			employee := &data.Employee{}
			*employee = *e
			result.Employees = append(result.Employees, employee)
		}
	}
	return result
}
