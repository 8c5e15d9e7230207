package generator_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/generator"
	"github.com/antonio-alexander/go-blog-flatfile/internal/record"
	"github.com/antonio-alexander/go-blog-flatfile/internal/search"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errAppend      = errors.New("append failure")
	nationalIdExpr = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
)

type sliceAppender struct {
	employees []*data.Employee
	failAfter int
}

func (s *sliceAppender) Append(ctx context.Context, e *data.Employee) error {
	if s.failAfter > 0 && len(s.employees) == s.failAfter {
		return errAppend
	}
	s.employees = append(s.employees, e)
	return nil
}

func TestEmployee(t *testing.T) {
	g := generator.New(uint64(1))

	for code := int32(1); code <= 200; code++ {
		e := g.Employee(code)
		assert.Equal(t, code, e.Code)
		assert.True(t, record.Fits(e), "%+v", e)
		assert.Regexp(t, nationalIdExpr, e.NationalId)
		birthDate, err := time.Parse("02/01/2006", e.BirthDate)
		require.NoError(t, err)
		assert.False(t, birthDate.Before(time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.False(t, birthDate.After(time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)))
		assert.GreaterOrEqual(t, e.Salary, 500.0)
		assert.LessOrEqual(t, e.Salary, 10_000.0)
		assert.Equal(t, e.Salary, math.Round(e.Salary*100)/100)
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.JobTitle)
		assert.NotEmpty(t, e.Department)
	}
}

func TestSeed(t *testing.T) {
	a, b := generator.New(), generator.New()
	err := a.Configure(map[string]string{"GENERATOR_SEED": "42"})
	require.NoError(t, err)
	err = b.Configure(map[string]string{"GENERATOR_SEED": "42"})
	require.NoError(t, err)
	assert.Equal(t, a.Employee(1), b.Employee(1))

	err = a.Configure(map[string]string{"GENERATOR_SEED": "-1"})
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	t.Run("codes", func(t *testing.T) {
		appender := &sliceAppender{}
		err := generator.New().Generate(context.TODO(), appender, 5, 11)
		require.NoError(t, err)
		require.Len(t, appender.employees, 5)
		for i, e := range appender.employees {
			assert.Equal(t, int32(11+i), e.Code)
		}
	})

	t.Run("nothing to do", func(t *testing.T) {
		appender := &sliceAppender{}
		err := generator.New().Generate(context.TODO(), appender, 0, 1)
		require.NoError(t, err)
		assert.Empty(t, appender.employees)
	})

	t.Run("overflow", func(t *testing.T) {
		appender := &sliceAppender{}
		err := generator.New().Generate(context.TODO(), appender, 2, math.MaxInt32)
		assert.Error(t, err)
		assert.Empty(t, appender.employees)
	})

	t.Run("append failure", func(t *testing.T) {
		appender := &sliceAppender{failAfter: 3}
		err := generator.New().Generate(context.TODO(), appender, 5, 1)
		assert.ErrorIs(t, err, errAppend)
		assert.Len(t, appender.employees, 3)
	})
}

func TestSorted(t *testing.T) {
	s := store.NewStore()
	err := s.Configure(map[string]string{
		"STORE_FILE": filepath.Join(t.TempDir(), "employees.dat"),
	})
	require.NoError(t, err)
	err = s.Open(context.TODO())
	require.NoError(t, err)

	err = generator.New(uint64(7)).Sorted(context.TODO(), s, 300)
	require.NoError(t, err)
	n, err := s.Count(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, int64(300), n)

	err = s.View(context.TODO(), func(r store.Reader) error {
		for code := int32(1); code <= 300; code++ {
			result, err := search.Binary(context.TODO(), r, code)
			if err != nil {
				return err
			}
			require.NotNil(t, result.Employee, "code %d", code)
			assert.LessOrEqual(t, result.Comparisons, 9)
		}
		return nil
	})
	require.NoError(t, err)
}
