package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"

	"github.com/spf13/cobra"
)

func outputJson(cmd *cobra.Command, item any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(item)
}

func newTabWriter(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
}

func (c *cli) outputEmployee(cmd *cobra.Command, e *data.Employee) error {
	if c.config.Format == formatJson {
		return outputJson(cmd, e)
	}
	w := newTabWriter(cmd)
	defer w.Flush()

	fmt.Fprintf(w, "Code:\t%d\n", e.Code)
	fmt.Fprintf(w, "Name:\t%s\n", e.Name)
	fmt.Fprintf(w, "National Id:\t%s\n", e.NationalId)
	fmt.Fprintf(w, "Birth Date:\t%s\n", e.BirthDate)
	fmt.Fprintf(w, "Job Title:\t%s\n", e.JobTitle)
	fmt.Fprintf(w, "Department:\t%s\n", e.Department)
	fmt.Fprintf(w, "Salary:\t%.2f\n", e.Salary)
	return nil
}

func writeEmployees(w *tabwriter.Writer, employees []*data.Employee) {
	fmt.Fprintln(w, "CODE\tNAME\tNATIONAL ID\tBIRTH DATE\tJOB TITLE\tDEPARTMENT\tSALARY")
	for _, e := range employees {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			e.Code, e.Name, e.NationalId, e.BirthDate, e.JobTitle, e.Department, e.Salary)
	}
}

func (c *cli) outputResult(cmd *cobra.Command, result *data.SearchResult) error {
	if c.config.Format == formatJson {
		return outputJson(cmd, result)
	}
	w := newTabWriter(cmd)
	defer w.Flush()

	fmt.Fprintf(w, "Search:\t%s %s\n", result.Kind, result.Criterion)
	fmt.Fprintf(w, "Comparisons:\t%d\n", result.Comparisons)
	fmt.Fprintf(w, "Elapsed:\t%.6fs\n", result.Elapsed.Seconds())
	switch {
	case result.Employee != nil:
		fmt.Fprintln(w)
		writeEmployees(w, []*data.Employee{result.Employee})
	case len(result.Employees) > 0:
		fmt.Fprintf(w, "Matches:\t%d\n\n", len(result.Employees))
		writeEmployees(w, result.Employees)
	default:
		fmt.Fprintln(w, "No employees found")
	}
	return nil
}

func (c *cli) outputComparison(cmd *cobra.Command, results []*data.SearchResult) error {
	if c.config.Format == formatJson {
		return outputJson(cmd, results)
	}
	w := newTabWriter(cmd)
	defer w.Flush()

	fmt.Fprintln(w, "KIND\tCRITERION\tCOMPARISONS\tELAPSED\tFOUND")
	for _, result := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.6fs\t%t\n", result.Kind, result.Criterion,
			result.Comparisons, result.Elapsed.Seconds(), result.Found())
	}
	return nil
}

func (c *cli) outputPage(cmd *cobra.Command, page *data.Page) error {
	if c.config.Format == formatJson {
		return outputJson(cmd, page)
	}
	if len(page.Employees) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No employees on page %d of %d\n", page.Number, page.Pages())
		return nil
	}
	w := newTabWriter(cmd)
	defer w.Flush()

	writeEmployees(w, page.Employees)
	fmt.Fprintf(w, "\nPage %d of %d (%d employees)\n", page.Number, page.Pages(), page.Total)
	return nil
}
