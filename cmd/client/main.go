package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/cache"
	"github.com/antonio-alexander/go-blog-flatfile/internal/client"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/pkg/errors"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	args := os.Args[1:]
	envs := internal.Envs(os.Environ())
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

func printJson(item any) error {
	bytes, err := json.MarshalIndent(item, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bytes))
	return nil
}

func Main(args []string, envs map[string]string, osSignal chan (os.Signal)) error {
	fmt.Printf("client: go-blog-flatfile v%s (%s) built from: %s\n",
		Version, GitCommit, GitBranch)

	// create logger
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)

	//create cache
	cache := cache.NewMemory(logger)
	if err := cache.Configure(envs); err != nil {
		return err
	}
	if err := cache.Open(context.Background()); err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(context.Background()); err != nil {
			fmt.Printf("error while closing cache: %s\n", err)
		}
	}()

	//create client
	client := client.NewClient(cache, logger)
	if err := client.Configure(envs); err != nil {
		return err
	}
	if err := client.Open(context.Background()); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			fmt.Printf("error while closing client: %s\n", err)
		}
	}()

	// execute command
	ctx, command := context.Background(), envs["COMMAND"]
	code, _ := strconv.ParseInt(envs["CODE"], 10, 32)
	switch command {
	default:
		return errors.Errorf("unsupported command: %s", command)
	case "employee_read":
		result, err := client.EmployeeRead(ctx, int32(code), envs["KIND"])
		if err != nil {
			return err
		}
		return printJson(result)
	case "search":
		result, err := client.EmployeesSearch(ctx, data.EmployeeSearch{
			Kind:  data.SearchKindField,
			Field: envs["FIELD"],
			Match: envs["MATCH"],
			Value: envs["VALUE"],
		})
		if err != nil {
			return err
		}
		return printJson(result)
	case "list":
		page, _ := strconv.Atoi(envs["PAGE"])
		size, _ := strconv.Atoi(envs["PAGE_SIZE"])
		if page == 0 {
			page = 1
		}
		employees, err := client.EmployeesList(ctx, page, size)
		if err != nil {
			return err
		}
		return printJson(employees)
	case "count":
		n, err := client.EmployeesCount(ctx)
		if err != nil {
			return err
		}
		fmt.Println(n)
	case "generate":
		count, err := strconv.Atoi(envs["COUNT"])
		if err != nil {
			return errors.Wrapf(err, "invalid COUNT %q", envs["COUNT"])
		}
		n, err := client.EmployeesGenerate(ctx, count)
		if err != nil {
			return err
		}
		fmt.Printf("generated %d employees, %d stored\n", count, n)
	case "import":
		var departments []string
		if s := envs["DEPARTMENTS"]; s != "" {
			departments = strings.Split(s, ",")
		}
		n, err := client.EmployeesImport(ctx, departments...)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d employees\n", n)
	case "counters":
		counters, err := client.CacheCountersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(counters)
	case "timers":
		timers, err := client.TimersRead(ctx)
		if err != nil {
			return err
		}
		return printJson(timers)
	}
	return nil
}
