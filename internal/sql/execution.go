package sql

import (
	"fmt"
	"strings"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
)

// Criteria narrows the employees read from the table, results are always
// ordered by code ascending.
type Criteria struct {
	AfterCode   *int32
	Departments []string
	Limit       int
}

func employeeCriteria(criteria Criteria) (string, []any) {
	var args []any
	var conditions []string

	if criteria.AfterCode != nil {
		args = append(args, *criteria.AfterCode)
		conditions = append(conditions, "code > ?")
	}
	if departments := criteria.Departments; len(departments) > 0 {
		var parameters []string

		for _, department := range departments {
			args = append(args, department)
			parameters = append(parameters, "?")
		}
		conditions = append(conditions, fmt.Sprintf("department IN(%s)", strings.Join(parameters, ",")))
	}
	var clauses []string
	if len(conditions) > 0 {
		clauses = append(clauses, "WHERE "+strings.Join(conditions, " AND "))
	}
	clauses = append(clauses, "ORDER BY code ASC")
	if criteria.Limit > 0 {
		args = append(args, criteria.Limit)
		clauses = append(clauses, "LIMIT ?")
	}
	return strings.Join(clauses, " "), args
}

func employeeScan(scanFx func(...any) error) (*data.Employee, error) {
	employee := new(data.Employee)
	if err := scanFx(
		&employee.Code,
		&employee.Name,
		&employee.NationalId,
		&employee.BirthDate,
		&employee.JobTitle,
		&employee.Department,
		&employee.Salary,
	); err != nil {
		return nil, err
	}
	return employee, nil
}
