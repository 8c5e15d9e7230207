// Package search implements the retrieval strategies over a store.Reader.
//
// Every strategy counts one comparison per record it inspects and reports the
// count together with the elapsed time in a data.SearchResult. A search that
// matches nothing isn't an error: the result simply carries no employee.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"
)

var (
	ErrUnsupportedField = errors.New("unsupported field")
	ErrUnsupportedMatch = errors.New("unsupported match")
	ErrUnsupportedKind  = errors.New("unsupported search kind")
)

// Sequential reads records from index 0 upwards and stops at the first one
// whose code equals code; when nothing matches it has compared every record.
func Sequential(ctx context.Context, r store.Reader, code int32) (*data.SearchResult, error) {
	result := &data.SearchResult{
		Kind:      data.SearchKindSequential,
		Criterion: (&data.EmployeeSearch{Kind: data.SearchKindSequential, Code: code}).Criterion(),
	}
	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()

	n, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	for i := int64(0); i < n; i++ {
		e, err := r.ReadAt(ctx, i)
		if err != nil {
			return nil, err
		}
		result.Comparisons++
		if e.Code == code {
			result.Employee = e
			return result, nil
		}
	}
	return result, nil
}

// Binary bisects [0, Count-1] comparing the code of the middle record, it
// needs at most floor(log2(n))+1 comparisons.
//
// The records must be in ascending order by code; this isn't verified and
// on an unsorted store the result is unspecified (a present code may not be
// found). A record that can't be read ends the search with an error instead
// of steering the bisection.
func Binary(ctx context.Context, r store.Reader, code int32) (*data.SearchResult, error) {
	result := &data.SearchResult{
		Kind:      data.SearchKindBinary,
		Criterion: (&data.EmployeeSearch{Kind: data.SearchKindBinary, Code: code}).Criterion(),
	}
	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()

	n, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	low, high := int64(0), n-1
	for low <= high {
		mid := low + (high-low)/2
		e, err := r.ReadAt(ctx, mid)
		if err != nil {
			return nil, err
		}
		result.Comparisons++
		switch {
		case e.Code == code:
			result.Employee = e
			return result, nil
		case e.Code < code:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return result, nil
}

// FieldCriteria selects the text field, the match and the value of a Field
// scan.
type FieldCriteria struct {
	Field string
	Match string
	Value string
}

func (c FieldCriteria) predicate() (func(*data.Employee) bool, error) {
	var get func(*data.Employee) string
	var match func(s string) bool

	switch c.Field {
	default:
		return nil, ErrUnsupportedField
	case data.FieldName:
		get = func(e *data.Employee) string { return e.Name }
	case data.FieldJobTitle:
		get = func(e *data.Employee) string { return e.JobTitle }
	case data.FieldDepartment:
		get = func(e *data.Employee) string { return e.Department }
	}
	switch c.Match {
	default:
		return nil, ErrUnsupportedMatch
	case data.MatchEqual:
		match = func(s string) bool { return strings.EqualFold(s, c.Value) }
	case data.MatchContains:
		value := strings.ToLower(c.Value)
		match = func(s string) bool { return strings.Contains(strings.ToLower(s), value) }
	}
	return func(e *data.Employee) bool { return match(get(e)) }, nil
}

// Field scans every record and collects, in file order, those whose field
// matches the criteria ignoring case. It never stops early so the number of
// comparisons is always Count.
func Field(ctx context.Context, r store.Reader, criteria FieldCriteria) (*data.SearchResult, error) {
	search := &data.EmployeeSearch{
		Kind:  data.SearchKindField,
		Field: criteria.Field,
		Match: criteria.Match,
		Value: criteria.Value,
	}
	matches, err := criteria.predicate()
	if err != nil {
		return nil, err
	}
	result := &data.SearchResult{
		Kind:      data.SearchKindField,
		Criterion: search.Criterion(),
	}
	start := time.Now()
	defer func() { result.Elapsed = time.Since(start) }()

	n, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	for i := int64(0); i < n; i++ {
		e, err := r.ReadAt(ctx, i)
		if err != nil {
			return nil, err
		}
		result.Comparisons++
		if matches(e) {
			result.Employees = append(result.Employees, e)
		}
	}
	return result, nil
}

// Do runs the strategy named by search.Kind.
func Do(ctx context.Context, r store.Reader, search data.EmployeeSearch) (*data.SearchResult, error) {
	switch search.Kind {
	default:
		return nil, ErrUnsupportedKind
	case data.SearchKindSequential:
		return Sequential(ctx, r, search.Code)
	case data.SearchKindBinary:
		return Binary(ctx, r, search.Code)
	case data.SearchKindField:
		return Field(ctx, r, FieldCriteria{
			Field: search.Field,
			Match: search.Match,
			Value: search.Value,
		})
	}
}

// Validate reports the error Do would return for an unsupported search
// without touching a reader.
func Validate(search data.EmployeeSearch) error {
	switch search.Kind {
	default:
		return ErrUnsupportedKind
	case data.SearchKindSequential, data.SearchKindBinary:
		return nil
	case data.SearchKindField:
		_, err := FieldCriteria{
			Field: search.Field,
			Match: search.Match,
			Value: search.Value,
		}.predicate()
		return err
	}
}
