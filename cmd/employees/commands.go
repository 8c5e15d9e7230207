package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/logic"

	"github.com/spf13/cobra"
)

func parseCount(s string) (int, error) {
	count, err := strconv.Atoi(s)
	if err != nil || count <= 0 {
		return 0, fmt.Errorf("invalid count %q: must be a positive integer", s)
	}
	return count, nil
}

func (c *cli) generateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <count>",
		Short: "Append random employees",
		Long: `Append count random employees, codes continue after the number of
stored records so a store built only with generate stays ascending.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := parseCount(args[0])
			if err != nil {
				return err
			}
			n, err := c.logic.EmployeesGenerate(cmd.Context(), count)
			if err != nil {
				return fmt.Errorf("failed to generate employees: %w", err)
			}
			c.printf(cmd, "Generated %d employees, %d stored\n", count, n)
			return nil
		},
	}
}

func (c *cli) sortedCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sorted <count>",
		Short: "Build a store sorted by code",
		Long: `Write count random employees with codes 1..count, the store is
ascending by code as binary search requires. The store must be empty
unless --force is given, in which case it's truncated first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			count, err := parseCount(args[0])
			if err != nil {
				return err
			}
			n, err := c.store.Count(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				if !force {
					return fmt.Errorf("store %s has %d records, use --force to overwrite it", c.config.File, n)
				}
				if err := os.Truncate(c.config.File, 0); err != nil {
					return err
				}
			}
			if err := c.generator.Sorted(ctx, c.store, count); err != nil {
				return fmt.Errorf("failed to generate sorted store: %w", err)
			}
			c.printf(cmd, "Wrote %d employees sorted by code to %s\n", count, c.config.File)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "truncate a store that isn't empty")
	return cmd
}

func (c *cli) createCommand() *cobra.Command {
	var employee data.Employee
	var code int32

	cmd := &cobra.Command{
		Use:   "create [flags]",
		Short: "Append one employee",
		Long: `Append one employee, when --code isn't given the code is the number of
stored records plus one.

Example:
  employees create --name "Ana Silva" --department Vendas --salary 3500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employee.Code = code
			created, err := c.logic.EmployeeCreate(cmd.Context(), employee)
			if err != nil {
				return fmt.Errorf("failed to create employee: %w", err)
			}
			return c.outputEmployee(cmd, created)
		},
	}
	cmd.Flags().Int32Var(&code, "code", 0, "employee code, zero picks the next one")
	cmd.Flags().StringVar(&employee.Name, "name", "", "name")
	cmd.Flags().StringVar(&employee.NationalId, "national-id", "", "national id, e.g. 123.456.789-01")
	cmd.Flags().StringVar(&employee.BirthDate, "birth-date", "", "birth date, e.g. 31/12/1990")
	cmd.Flags().StringVar(&employee.JobTitle, "job-title", "", "job title")
	cmd.Flags().StringVar(&employee.Department, "department", "", "department")
	cmd.Flags().Float64Var(&employee.Salary, "salary", 0, "salary")
	return cmd
}

func (c *cli) searchCommand() *cobra.Command {
	var kind, match string

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search employees by code or by field",
	}
	codeCmd := &cobra.Command{
		Use:   "code <code>",
		Short: "Search an employee by code",
		Long: `Search an employee by code with a sequential scan or a binary search,
binary search expects the store to be ascending by code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid code %q: %w", args[0], err)
			}
			result, err := c.logic.EmployeeRead(cmd.Context(), int32(code), strings.ToLower(kind))
			if err != nil && !errors.Is(err, logic.ErrEmployeeNotFound) {
				return err
			}
			return c.outputResult(cmd, result)
		},
	}
	codeCmd.Flags().StringVarP(&kind, "kind", "k", "", "sequential or binary (LOGIC_SEARCH_KIND)")
	fieldCmd := &cobra.Command{
		Use:   "field <name|job_title|department> <value>",
		Short: "Search employees by a text field",
		Long: `Scan every record and list the employees whose field matches value,
matching ignores case.

Examples:
  employees search field department vendas
  employees search field name silva --match contains`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := c.logic.EmployeesSearch(cmd.Context(), args[0], match, args[1])
			if err != nil {
				return err
			}
			return c.outputResult(cmd, result)
		},
	}
	fieldCmd.Flags().StringVarP(&match, "match", "m", data.MatchEqual, "equal or contains")
	searchCmd.AddCommand(codeCmd, fieldCmd)
	return searchCmd
}

func (c *cli) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <code>",
		Short: "Search a code sequentially and with binary search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid code %q: %w", args[0], err)
			}
			var results []*data.SearchResult
			for _, kind := range []string{data.SearchKindSequential, data.SearchKindBinary} {
				result, err := c.logic.EmployeeRead(cmd.Context(), int32(code), kind)
				if err != nil && !errors.Is(err, logic.ErrEmployeeNotFound) {
					return err
				}
				results = append(results, result)
			}
			return c.outputComparison(cmd, results)
		},
	}
}

func (c *cli) listCommand() *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees a page at a time",
		Long:  `List employees in file order, pages start at 1.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.logic.EmployeesList(cmd.Context(), page, size)
			if err != nil {
				return err
			}
			return c.outputPage(cmd, p)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "size", 0, "page size, zero uses LOGIC_PAGE_SIZE")
	return cmd
}

func (c *cli) countCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.logic.EmployeesCount(cmd.Context())
			if err != nil {
				return err
			}
			if c.config.Format == formatJson {
				return outputJson(cmd, map[string]int64{"count": n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (c *cli) importCommand() *cobra.Command {
	var departments []string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Append employees read from the database",
		Long: `Append employees read from the database (DATABASE_* variables) whose
code follows the last stored code, in ascending order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.logic.EmployeesImport(cmd.Context(), departments...)
			if err != nil {
				return fmt.Errorf("failed to import employees (%d imported): %w", n, err)
			}
			c.printf(cmd, "Imported %d employees\n", n)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&departments, "departments", nil, "only import these departments")
	return cmd
}
