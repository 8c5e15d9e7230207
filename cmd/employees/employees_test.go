package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(envs map[string]string, args ...string) (string, error) {
	out := &bytes.Buffer{}
	err := newCli(envs).execute(context.Background(), args, out, io.Discard)
	return out.String(), err
}

func testEnvs(t *testing.T) map[string]string {
	return map[string]string{
		"STORE_FILE":     filepath.Join(t.TempDir(), "employees.dat"),
		"GENERATOR_SEED": "1",
	}
}

func TestSortedAndSearch(t *testing.T) {
	envs := testEnvs(t)

	out, err := execute(envs, "sorted", "300")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 300 employees")
	out, err = execute(envs, "count")
	require.NoError(t, err)
	assert.Equal(t, "300\n", out)

	t.Run("Binary", func(t *testing.T) {
		out, err := execute(envs, "search", "code", "150", "--kind", "binary", "-o", "json")
		require.NoError(t, err)
		result := &data.SearchResult{}
		require.NoError(t, json.Unmarshal([]byte(out), result))
		require.NotNil(t, result.Employee)
		assert.Equal(t, int32(150), result.Employee.Code)
		assert.Equal(t, data.SearchKindBinary, result.Kind)
		assert.LessOrEqual(t, result.Comparisons, 9)
	})

	t.Run("Sequential", func(t *testing.T) {
		out, err := execute(envs, "search", "code", "150", "--kind", "sequential", "-o", "json")
		require.NoError(t, err)
		result := &data.SearchResult{}
		require.NoError(t, json.Unmarshal([]byte(out), result))
		require.NotNil(t, result.Employee)
		assert.Equal(t, 150, result.Comparisons)
	})

	t.Run("Not found", func(t *testing.T) {
		out, err := execute(envs, "search", "code", "301")
		require.NoError(t, err)
		assert.Contains(t, out, "No employees found")
		assert.Contains(t, out, "code=301")
	})

	t.Run("Invalid kind", func(t *testing.T) {
		_, err := execute(envs, "search", "code", "1", "--kind", "hash")
		assert.Error(t, err)
	})

	t.Run("Compare", func(t *testing.T) {
		out, err := execute(envs, "compare", "300", "-o", "json")
		require.NoError(t, err)
		var results []*data.SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 2)
		assert.Equal(t, 300, results[0].Comparisons)
		assert.LessOrEqual(t, results[1].Comparisons, 9)
		assert.True(t, results[0].Found())
		assert.True(t, results[1].Found())
	})
}

func TestSorted_Force(t *testing.T) {
	envs := testEnvs(t)

	_, err := execute(envs, "sorted", "10")
	require.NoError(t, err)
	_, err = execute(envs, "sorted", "5")
	assert.Error(t, err)
	_, err = execute(envs, "sorted", "5", "--force")
	require.NoError(t, err)
	out, err := execute(envs, "count")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	_, err = execute(envs, "sorted", "0")
	assert.Error(t, err)
}

func TestGenerateAndList(t *testing.T) {
	envs := testEnvs(t)

	_, err := execute(envs, "generate", "25")
	require.NoError(t, err)
	out, err := execute(envs, "generate", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "35 stored")

	out, err = execute(envs, "list", "--page", "2", "--size", "10", "-o", "json")
	require.NoError(t, err)
	page := &data.Page{}
	require.NoError(t, json.Unmarshal([]byte(out), page))
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, int64(35), page.Total)
	require.Len(t, page.Employees, 10)
	assert.Equal(t, int32(11), page.Employees[0].Code)

	out, err = execute(envs, "list", "--page", "4", "--size", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 4 of 4")
	assert.Equal(t, 5, strings.Count(out, "\n")-3)

	out, err = execute(envs, "list", "--page", "5", "--size", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "No employees on page 5 of 4")

	_, err = execute(envs, "list", "--page", "0")
	assert.Error(t, err)
}

func TestCreateAndFieldSearch(t *testing.T) {
	envs := testEnvs(t)

	out, err := execute(envs, "create", "--name", "Zeca Pagodinho", "--department", "Pesquisa",
		"--job-title", "Analista", "--salary", "4321.5", "-o", "json")
	require.NoError(t, err)
	created := &data.Employee{}
	require.NoError(t, json.Unmarshal([]byte(out), created))
	assert.Equal(t, int32(1), created.Code)
	_, err = execute(envs, "create", "--name", "Ana Silva", "--department", "pesquisa")
	require.NoError(t, err)

	out, err = execute(envs, "search", "field", "department", "PESQUISA", "-o", "json")
	require.NoError(t, err)
	result := &data.SearchResult{}
	require.NoError(t, json.Unmarshal([]byte(out), result))
	assert.Len(t, result.Employees, 2)
	assert.Equal(t, 2, result.Comparisons)

	out, err = execute(envs, "search", "field", "name", "zeca", "--match", "contains", "-o", "json")
	require.NoError(t, err)
	result = &data.SearchResult{}
	require.NoError(t, json.Unmarshal([]byte(out), result))
	require.Len(t, result.Employees, 1)
	assert.Equal(t, "Zeca Pagodinho", result.Employees[0].Name)
	assert.Equal(t, 4321.5, result.Employees[0].Salary)

	_, err = execute(envs, "search", "field", "salary", "1")
	assert.Error(t, err)
}

func TestSearchLog(t *testing.T) {
	envs := testEnvs(t)
	searchLog := filepath.Join(t.TempDir(), "searches.log")

	_, err := execute(envs, "sorted", "50")
	require.NoError(t, err)
	_, err = execute(envs, "--search-log", searchLog, "compare", "40")
	require.NoError(t, err)
	content, err := os.ReadFile(searchLog)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "| sequential | code=40 | comp=40 |")
	assert.Contains(t, lines[1], "| binary | code=40 |")
}

func TestErrors(t *testing.T) {
	_, err := execute(map[string]string{}, "count")
	assert.ErrorIs(t, err, store.ErrNotConfigured)

	envs := testEnvs(t)
	_, err = execute(envs, "count", "-o", "yaml")
	assert.Error(t, err)

	_, err = execute(envs, "generate", "many")
	assert.Error(t, err)

	_, err = execute(envs, "generate", "0")
	assert.Error(t, err)
}

func TestClosedAfterError(t *testing.T) {
	envs := testEnvs(t)

	c := newCli(envs)
	err := c.execute(context.Background(), []string{"generate", "many"}, io.Discard, io.Discard)
	assert.Error(t, err)
	assert.Nil(t, c.closers)
	assert.NotNil(t, c.store)

	out, err := execute(envs, "generate", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 5 employees")
}
