// Package sql reads employees from a MySQL employees table so they can be
// imported into a store in ascending code order.
package sql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/go-sql-driver/mysql" //import for driver support
	"github.com/pkg/errors"
)

const tableEmployees = "employees"

//go:embed employees.sql
var schema string

var ErrEmployeeNotFound = errors.New("employee not found")

// Appender receives imported employees, store.Store satisfies it.
type Appender interface {
	Append(ctx context.Context, e *data.Employee) error
}

type Sql interface {
	EmployeeCreate(ctx context.Context, e *data.Employee) error
	EmployeesRead(ctx context.Context, criteria Criteria) ([]*data.Employee, error)
	EmployeeDelete(ctx context.Context, code int32) error

	// EmployeesImport appends every employee matching criteria in ascending
	// code order and returns how many were appended.
	EmployeesImport(ctx context.Context, criteria Criteria, appender Appender) (int, error)
}

type mySql struct {
	sync.RWMutex
	config struct {
		Hostname       string        `json:"hostname"`
		Port           string        `json:"port"`
		Username       string        `json:"username"`
		Password       string        `json:"password"`
		Database       string        `json:"database"`
		ConnectRetries uint          `json:"connect_retries"`
		QueryTimeout   time.Duration `json:"query_timeout"`
	}
	*sql.DB
	utilities.Logger
	opened bool
}

func NewMySql(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Sql
} {
	m := &mySql{}
	m.config.Hostname = "localhost"
	m.config.Port = "3306"
	m.config.Database = "employees"
	m.config.ConnectRetries = 1
	m.config.QueryTimeout = 10 * time.Second
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			m.Logger = v
		}
	}
	if m.Logger == nil {
		m.Logger = utilities.NewNopLogger()
	}
	return m
}

func (s *mySql) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if databaseHost := envs["DATABASE_HOST"]; databaseHost != "" {
		s.config.Hostname = databaseHost
	}
	if databasePort := envs["DATABASE_PORT"]; databasePort != "" {
		s.config.Port = databasePort
	}
	if database := envs["DATABASE_NAME"]; database != "" {
		s.config.Database = database
	}
	if username := envs["DATABASE_USER"]; username != "" {
		s.config.Username = username
	}
	if password := envs["DATABASE_PASSWORD"]; password != "" {
		s.config.Password = password
	}
	if _, ok := envs["DATABASE_QUERY_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(envs["DATABASE_QUERY_TIMEOUT"], 10, 64)
		if i > 0 {
			s.config.QueryTimeout = time.Duration(i) * time.Second
		}
	}
	if retries, ok := envs["DATABASE_CONNECT_RETRIES"]; ok {
		i, err := strconv.ParseUint(retries, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid DATABASE_CONNECT_RETRIES %q", retries)
		}
		s.config.ConnectRetries = uint(max(i, 1))
	}
	return nil
}

func (s *mySql) dataSourceName() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s",
		s.config.Username, s.config.Password, s.config.Hostname,
		s.config.Port, s.config.Database)
}

// Open connects to the database, pinging up to DATABASE_CONNECT_RETRIES
// times with an exponential backoff between attempts.
func (s *mySql) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	db, err := sql.Open("mysql", s.dataSourceName())
	if err != nil {
		return err
	}
	if _, err := backoff.Retry(ctx, func() (struct{}, error) {
		ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
		defer cancel()
		return struct{}{}, db.PingContext(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.config.ConnectRetries),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.Debug(ctx, "unable to reach database, retrying in %s: %s", next, err)
		}),
	); err != nil {
		_ = db.Close()
		return errors.Wrapf(err, "error while connecting to %s:%s",
			s.config.Hostname, s.config.Port)
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return errors.Wrap(err, "error while creating employees table")
	}
	s.DB = db
	s.opened = true
	return nil
}

func (s *mySql) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if !s.opened {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		s.Error(ctx, "error while closing sql: %s", err)
	}
	s.opened = false
	return nil
}

func (s *mySql) EmployeeCreate(ctx context.Context, e *data.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`INSERT INTO %s (code, name, national_id, birth_date,
		job_title, department, salary) VALUES (?, ?, ?, ?, ?, ?, ?);`,
		tableEmployees)
	if _, err := s.ExecContext(ctx, query, e.Code, e.Name, e.NationalId,
		e.BirthDate, e.JobTitle, e.Department, e.Salary); err != nil {
		return errors.Wrapf(err, "error while creating employee %d", e.Code)
	}
	return nil
}

func (s *mySql) query(ctx context.Context, criteria Criteria, fn func(*data.Employee) error) error {
	where, args := employeeCriteria(criteria)
	query := fmt.Sprintf(`SELECT code, name, national_id, birth_date,
		job_title, department, salary FROM %s %s;`,
		tableEmployees, where)
	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		employee, err := employeeScan(rows.Scan)
		if err != nil {
			return err
		}
		if err := fn(employee); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *mySql) EmployeesRead(ctx context.Context, criteria Criteria) ([]*data.Employee, error) {
	var employees []*data.Employee

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	if err := s.query(ctx, criteria, func(e *data.Employee) error {
		employees = append(employees, e)
		return nil
	}); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *mySql) EmployeeDelete(ctx context.Context, code int32) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`DELETE FROM %s WHERE code = ?;`,
		tableEmployees)
	result, err := s.ExecContext(ctx, query, code)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *mySql) EmployeesImport(ctx context.Context, criteria Criteria, appender Appender) (int, error) {
	var imported int

	if err := s.query(ctx, criteria, func(e *data.Employee) error {
		if err := appender.Append(ctx, e); err != nil {
			return errors.Wrapf(err, "error while importing employee %d", e.Code)
		}
		imported++
		return nil
	}); err != nil {
		return imported, err
	}
	s.Debug(ctx, "imported %d employees", imported)
	return imported, nil
}
