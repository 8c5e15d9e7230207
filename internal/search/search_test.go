package search_test

import (
	"context"
	"errors"
	"math/bits"
	"path/filepath"
	"testing"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/search"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRead = errors.New("read failure")

// memoryReader is a store.Reader over a slice, failAt makes ReadAt fail for
// that index
type memoryReader struct {
	employees []*data.Employee
	failAt    int64
	reads     int
}

func newMemoryReader(employees ...*data.Employee) *memoryReader {
	return &memoryReader{employees: employees, failAt: -1}
}

func (m *memoryReader) Count(ctx context.Context) (int64, error) {
	return int64(len(m.employees)), nil
}

func (m *memoryReader) ReadAt(ctx context.Context, index int64) (*data.Employee, error) {
	m.reads++
	if index == m.failAt {
		return nil, errRead
	}
	if index < 0 || index >= int64(len(m.employees)) {
		return nil, store.ErrRecordNotFound
	}
	e := *m.employees[index]
	return &e, nil
}

func sorted(n int) *memoryReader {
	employees := make([]*data.Employee, 0, n)
	for i := 0; i < n; i++ {
		employees = append(employees, &data.Employee{Code: int32(i+1) * 10})
	}
	return newMemoryReader(employees...)
}

// maxComparisons is floor(log2(n)) + 1
func maxComparisons(n int) int {
	return bits.Len(uint(n))
}

func TestSequential(t *testing.T) {
	t.Run("first match", func(t *testing.T) {
		r := newMemoryReader(
			&data.Employee{Code: 3, Name: "first"},
			&data.Employee{Code: 1},
			&data.Employee{Code: 3, Name: "second"},
		)
		result, err := search.Sequential(context.TODO(), r, 3)
		require.NoError(t, err)
		require.NotNil(t, result.Employee)
		assert.Equal(t, "first", result.Employee.Name)
		assert.Equal(t, 1, result.Comparisons)
		assert.Equal(t, data.SearchKindSequential, result.Kind)
		assert.Equal(t, "code=3", result.Criterion)
		assert.True(t, result.Found())
	})

	t.Run("unsorted store", func(t *testing.T) {
		r := newMemoryReader(&data.Employee{Code: 9}, &data.Employee{Code: 2}, &data.Employee{Code: 5})
		result, err := search.Sequential(context.TODO(), r, 5)
		require.NoError(t, err)
		require.NotNil(t, result.Employee)
		assert.Equal(t, 3, result.Comparisons)
	})

	t.Run("read error", func(t *testing.T) {
		r := sorted(5)
		r.failAt = 2
		result, err := search.Sequential(context.TODO(), r, 50)
		assert.ErrorIs(t, err, errRead)
		assert.Nil(t, result)
	})
}

func TestBinary(t *testing.T) {
	t.Run("five records", func(t *testing.T) {
		r := newMemoryReader(
			&data.Employee{Code: 10},
			&data.Employee{Code: 20},
			&data.Employee{Code: 30},
			&data.Employee{Code: 40},
			&data.Employee{Code: 50},
		)

		result, err := search.Binary(context.TODO(), r, 30)
		require.NoError(t, err)
		require.NotNil(t, result.Employee)
		assert.Equal(t, int32(30), result.Employee.Code)
		assert.LessOrEqual(t, result.Comparisons, 3)
		assert.Equal(t, data.SearchKindBinary, result.Kind)

		result, err = search.Binary(context.TODO(), r, 25)
		require.NoError(t, err)
		assert.Nil(t, result.Employee)
		assert.False(t, result.Found())
		assert.LessOrEqual(t, result.Comparisons, 3)
	})

	t.Run("read error", func(t *testing.T) {
		r := sorted(7)
		r.failAt = 3
		result, err := search.Binary(context.TODO(), r, 40)
		assert.ErrorIs(t, err, errRead)
		assert.Nil(t, result)
	})

	t.Run("extremes", func(t *testing.T) {
		r := sorted(100)
		for _, code := range []int32{-1 << 31, 0, 5, 1005, 1<<31 - 1} {
			result, err := search.Binary(context.TODO(), r, code)
			require.NoError(t, err)
			assert.Nil(t, result.Employee, "code %d", code)
			assert.LessOrEqual(t, result.Comparisons, maxComparisons(100))
		}
	})
}

func TestSearch_Properties(t *testing.T) {
	for n := 0; n <= 130; n++ {
		r := sorted(n)
		bound := maxComparisons(n)

		for i := 0; i < n; i++ {
			code := int32(i+1) * 10
			binary, err := search.Binary(context.TODO(), r, code)
			require.NoError(t, err)
			require.NotNil(t, binary.Employee, "binary n=%d code=%d", n, code)
			assert.Equal(t, code, binary.Employee.Code)
			assert.LessOrEqual(t, binary.Comparisons, bound, "binary n=%d code=%d", n, code)

			sequential, err := search.Sequential(context.TODO(), r, code)
			require.NoError(t, err)
			require.NotNil(t, sequential.Employee, "sequential n=%d code=%d", n, code)
			assert.Equal(t, code, sequential.Employee.Code)
			assert.Equal(t, i+1, sequential.Comparisons)
		}
		for i := 0; i <= n; i++ {
			code := int32(i)*10 + 5
			binary, err := search.Binary(context.TODO(), r, code)
			require.NoError(t, err)
			assert.Nil(t, binary.Employee)
			assert.LessOrEqual(t, binary.Comparisons, bound, "binary n=%d code=%d", n, code)

			sequential, err := search.Sequential(context.TODO(), r, code)
			require.NoError(t, err)
			assert.Nil(t, sequential.Employee)
			assert.Equal(t, n, sequential.Comparisons)
		}
	}
}

func TestSearch_Empty(t *testing.T) {
	r := newMemoryReader()

	result, err := search.Sequential(context.TODO(), r, 1)
	require.NoError(t, err)
	assert.Nil(t, result.Employee)
	assert.Equal(t, 0, result.Comparisons)

	result, err = search.Binary(context.TODO(), r, 1)
	require.NoError(t, err)
	assert.Nil(t, result.Employee)
	assert.Equal(t, 0, result.Comparisons)

	result, err = search.Field(context.TODO(), r, search.FieldCriteria{
		Field: data.FieldName, Match: data.MatchEqual, Value: "x"})
	require.NoError(t, err)
	assert.Empty(t, result.Employees)
	assert.Equal(t, 0, result.Comparisons)
	assert.Equal(t, 0, r.reads)
}

func TestField(t *testing.T) {
	r := newMemoryReader(
		&data.Employee{Code: 1, Name: "Ana Silva", JobTitle: "Analista", Department: "ti"},
		&data.Employee{Code: 2, Name: "Bruno Costa", JobTitle: "Gerente", Department: "TI"},
		&data.Employee{Code: 3, Name: "ana souza", JobTitle: "analista senior", Department: "Vendas"},
	)

	cases := []struct {
		name     string
		criteria search.FieldCriteria
		codes    []int32
	}{
		{
			name:     "department equal ignores case",
			criteria: search.FieldCriteria{Field: data.FieldDepartment, Match: data.MatchEqual, Value: "TI"},
			codes:    []int32{1, 2},
		},
		{
			name:     "name contains",
			criteria: search.FieldCriteria{Field: data.FieldName, Match: data.MatchContains, Value: "ANA"},
			codes:    []int32{1, 3},
		},
		{
			name:     "name equal",
			criteria: search.FieldCriteria{Field: data.FieldName, Match: data.MatchEqual, Value: "ana"},
		},
		{
			name:     "job title contains",
			criteria: search.FieldCriteria{Field: data.FieldJobTitle, Match: data.MatchContains, Value: "senior"},
			codes:    []int32{3},
		},
		{
			name:     "job title equal",
			criteria: search.FieldCriteria{Field: data.FieldJobTitle, Match: data.MatchEqual, Value: "GERENTE"},
			codes:    []int32{2},
		},
		{
			name:     "empty contains matches everything",
			criteria: search.FieldCriteria{Field: data.FieldDepartment, Match: data.MatchContains},
			codes:    []int32{1, 2, 3},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := search.Field(context.TODO(), r, c.criteria)
			require.NoError(t, err)
			var codes []int32
			for _, e := range result.Employees {
				codes = append(codes, e.Code)
			}
			assert.Equal(t, c.codes, codes)
			assert.Equal(t, 3, result.Comparisons)
			assert.Equal(t, data.SearchKindField, result.Kind)
		})
	}

	t.Run("unsupported field", func(t *testing.T) {
		_, err := search.Field(context.TODO(), r, search.FieldCriteria{
			Field: "salary", Match: data.MatchEqual})
		assert.ErrorIs(t, err, search.ErrUnsupportedField)
	})

	t.Run("unsupported match", func(t *testing.T) {
		_, err := search.Field(context.TODO(), r, search.FieldCriteria{
			Field: data.FieldName, Match: "prefix"})
		assert.ErrorIs(t, err, search.ErrUnsupportedMatch)
	})
}

func TestDo(t *testing.T) {
	r := sorted(10)

	result, err := search.Do(context.TODO(), r, data.EmployeeSearch{Kind: data.SearchKindBinary, Code: 70})
	require.NoError(t, err)
	assert.Equal(t, data.SearchKindBinary, result.Kind)
	assert.Equal(t, int32(70), result.Employee.Code)

	result, err = search.Do(context.TODO(), r, data.EmployeeSearch{Kind: data.SearchKindSequential, Code: 70})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Comparisons)

	result, err = search.Do(context.TODO(), r, data.EmployeeSearch{
		Kind: data.SearchKindField, Field: data.FieldName, Match: data.MatchEqual})
	require.NoError(t, err)
	assert.Len(t, result.Employees, 10)

	_, err = search.Do(context.TODO(), r, data.EmployeeSearch{Kind: "hash"})
	assert.ErrorIs(t, err, search.ErrUnsupportedKind)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		search data.EmployeeSearch
		err    error
	}{
		"binary":        {search: data.EmployeeSearch{Kind: data.SearchKindBinary}},
		"sequential":    {search: data.EmployeeSearch{Kind: data.SearchKindSequential}},
		"field":         {search: data.EmployeeSearch{Kind: data.SearchKindField, Field: data.FieldJobTitle, Match: data.MatchContains}},
		"unknown kind":  {search: data.EmployeeSearch{Kind: "hash"}, err: search.ErrUnsupportedKind},
		"unknown field": {search: data.EmployeeSearch{Kind: data.SearchKindField, Field: "salary", Match: data.MatchEqual}, err: search.ErrUnsupportedField},
		"unknown match": {search: data.EmployeeSearch{Kind: data.SearchKindField, Field: data.FieldName, Match: "prefix"}, err: search.ErrUnsupportedMatch},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			err := search.Validate(c.search)
			if c.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestSearch_Store(t *testing.T) {
	s := store.NewStore()
	err := s.Configure(map[string]string{
		"STORE_FILE": filepath.Join(t.TempDir(), "employees.dat"),
	})
	require.NoError(t, err)
	err = s.Open(context.TODO())
	require.NoError(t, err)
	for _, e := range []*data.Employee{
		{Code: 10, Department: "ti"},
		{Code: 20, Department: "TI"},
		{Code: 30, Department: "Vendas"},
		{Code: 40, Department: "RH"},
		{Code: 50, Department: "Financeiro"},
	} {
		err := s.Append(context.TODO(), e)
		require.NoError(t, err)
	}

	err = s.View(context.TODO(), func(r store.Reader) error {
		result, err := search.Binary(context.TODO(), r, 30)
		require.NoError(t, err)
		require.NotNil(t, result.Employee)
		assert.Equal(t, "Vendas", result.Employee.Department)
		assert.LessOrEqual(t, result.Comparisons, 3)

		result, err = search.Binary(context.TODO(), r, 25)
		require.NoError(t, err)
		assert.Nil(t, result.Employee)
		assert.LessOrEqual(t, result.Comparisons, 3)

		result, err = search.Sequential(context.TODO(), r, 25)
		require.NoError(t, err)
		assert.Nil(t, result.Employee)
		assert.Equal(t, 5, result.Comparisons)

		result, err = search.Field(context.TODO(), r, search.FieldCriteria{
			Field: data.FieldDepartment, Match: data.MatchEqual, Value: "TI"})
		require.NoError(t, err)
		require.Len(t, result.Employees, 2)
		assert.Equal(t, int32(10), result.Employees[0].Code)
		assert.Equal(t, int32(20), result.Employees[1].Code)
		return nil
	})
	require.NoError(t, err)

	// the store itself is a reader too, each read opening its own handle
	result, err := search.Sequential(context.TODO(), s, 50)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Comparisons)
}
