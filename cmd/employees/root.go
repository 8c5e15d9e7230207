package main

import (
	"context"
	"fmt"
	"io"
	"maps"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/generator"
	"github.com/antonio-alexander/go-blog-flatfile/internal/logic"
	"github.com/antonio-alexander/go-blog-flatfile/internal/sql"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/spf13/cobra"
)

const (
	formatTable string = "table"
	formatJson  string = "json"
)

type config struct {
	File      string
	SearchLog string
	Format    string
	Seed      string
	Quiet     bool
}

// cli holds what the commands share, it's populated by the root command's
// PersistentPreRunE and torn down once execute returns.
type cli struct {
	config    config
	envs      map[string]string
	logger    utilities.Logger
	store     store.Store
	generator generator.Generator
	logic     logic.Logic
	closers   []internal.Closer
}

func newCli(envs map[string]string) *cli {
	c := &cli{envs: envs}
	c.config.File = envs["STORE_FILE"]
	c.config.SearchLog = envs["SEARCH_LOG_FILE"]
	c.config.Seed = envs["GENERATOR_SEED"]
	return c
}

// execute runs the command line in args, whatever the root command opened
// is closed even if the command failed.
func (c *cli) execute(ctx context.Context, args []string, out, errOut io.Writer) (err error) {
	rootCmd := c.rootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	defer func() {
		if e := c.close(context.Background()); e != nil && err == nil {
			err = e
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func (c *cli) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "employees",
		Short: "Employee records kept in a fixed size binary file",
		Long: `A command-line tool to generate, search and list employee records
stored as fixed size blocks in a flat file.

Examples:
  employees --file employees.dat sorted 5000
  employees --file employees.dat search code 4000 --kind binary
  employees --file employees.dat search field department vendas
  employees --file employees.dat list --page 2 --size 20`,
		Version:           fmt.Sprintf("%s (%s) built from: %s", Version, GitCommit, GitBranch),
		SilenceUsage:      true,
		PersistentPreRunE: c.open,
	}
	rootCmd.PersistentFlags().StringVarP(&c.config.File, "file", "f", c.config.File, "path to the store file (STORE_FILE)")
	rootCmd.PersistentFlags().StringVar(&c.config.SearchLog, "search-log", c.config.SearchLog, "file each search is logged to (SEARCH_LOG_FILE)")
	rootCmd.PersistentFlags().StringVarP(&c.config.Format, "format", "o", formatTable, "output format (table or json)")
	rootCmd.PersistentFlags().StringVar(&c.config.Seed, "seed", c.config.Seed, "seed for generated employees (GENERATOR_SEED)")
	rootCmd.PersistentFlags().BoolVarP(&c.config.Quiet, "quiet", "q", false, "suppress non-essential messages")
	rootCmd.AddCommand(
		c.generateCommand(),
		c.sortedCommand(),
		c.createCommand(),
		c.searchCommand(),
		c.compareCommand(),
		c.listCommand(),
		c.countCommand(),
		c.importCommand(),
	)
	return rootCmd
}

// open creates the store and logic for every sub command, the importer is
// only created for import.
func (c *cli) open(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	switch c.config.Format {
	default:
		return fmt.Errorf("unsupported format %q", c.config.Format)
	case formatTable, formatJson:
	}
	envs := maps.Clone(c.envs)
	envs["STORE_FILE"] = c.config.File
	envs["SEARCH_LOG_FILE"] = c.config.SearchLog
	envs["GENERATOR_SEED"] = c.config.Seed

	logger := utilities.NewLogger(cmd.ErrOrStderr())
	_ = logger.Configure(envs)
	c.logger = logger

	store := store.NewStore(logger)
	if err := store.Configure(envs); err != nil {
		return err
	}
	if err := store.Open(ctx); err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	c.store, c.closers = store, append(c.closers, store)

	generator := generator.New()
	if err := generator.Configure(envs); err != nil {
		return err
	}
	c.generator = generator
	searchLog := utilities.NewSearchLog()
	if err := searchLog.Configure(envs); err != nil {
		return err
	}
	parameters := []any{store, generator, searchLog}
	if cmd.Name() == "import" {
		sql := sql.NewMySql(logger)
		if err := sql.Configure(envs); err != nil {
			return err
		}
		if err := sql.Open(ctx); err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		c.closers = append(c.closers, sql)
		parameters = append(parameters, sql)
	}
	logic := logic.NewLogic(append(parameters, logger)...)
	if err := logic.Configure(envs); err != nil {
		return err
	}
	if err := logic.Open(ctx); err != nil {
		return err
	}
	c.logic, c.closers = logic, append(c.closers, logic)
	return nil
}

func (c *cli) close(ctx context.Context) error {
	var err error

	for i := len(c.closers) - 1; i >= 0; i-- {
		if e := c.closers[i].Close(ctx); e != nil && err == nil {
			err = e
		}
	}
	c.closers = nil
	return err
}

func (c *cli) printf(cmd *cobra.Command, format string, v ...any) {
	if c.config.Quiet || c.config.Format == formatJson {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format, v...)
}
