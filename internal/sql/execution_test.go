package sql

import (
	"errors"
	"testing"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeCriteria(t *testing.T) {
	afterCode := int32(10)

	cases := map[string]struct {
		criteria Criteria
		where    string
		args     []any
	}{
		"all": {
			where: "ORDER BY code ASC",
		},
		"after code": {
			criteria: Criteria{AfterCode: &afterCode},
			where:    "WHERE code > ? ORDER BY code ASC",
			args:     []any{int32(10)},
		},
		"departments and limit": {
			criteria: Criteria{
				AfterCode:   &afterCode,
				Departments: []string{"TI", "RH"},
				Limit:       5,
			},
			where: "WHERE code > ? AND department IN(?,?) ORDER BY code ASC LIMIT ?",
			args:  []any{int32(10), "TI", "RH", 5},
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			where, args := employeeCriteria(c.criteria)
			assert.Equal(t, c.where, where)
			assert.Equal(t, c.args, args)
		})
	}
}

func TestEmployeeScan(t *testing.T) {
	t.Run("columns", func(t *testing.T) {
		employee, err := employeeScan(func(dest ...any) error {
			require.Len(t, dest, 7)
			*dest[0].(*int32) = 7
			*dest[1].(*string) = "Ana Silva"
			*dest[2].(*string) = "123.456.789-01"
			*dest[3].(*string) = "01/02/1990"
			*dest[4].(*string) = "Analista"
			*dest[5].(*string) = "TI"
			*dest[6].(*float64) = 4500.5
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, &data.Employee{
			Code:       7,
			Name:       "Ana Silva",
			NationalId: "123.456.789-01",
			BirthDate:  "01/02/1990",
			JobTitle:   "Analista",
			Department: "TI",
			Salary:     4500.5,
		}, employee)
	})

	t.Run("error", func(t *testing.T) {
		errScan := errors.New("scan")
		employee, err := employeeScan(func(...any) error { return errScan })
		assert.ErrorIs(t, err, errScan)
		assert.Nil(t, employee)
	})
}
