package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/cache"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/generator"
	"github.com/antonio-alexander/go-blog-flatfile/internal/logic"
	"github.com/antonio-alexander/go-blog-flatfile/internal/service"
	"github.com/antonio-alexander/go-blog-flatfile/internal/sql"
	"github.com/antonio-alexander/go-blog-flatfile/internal/store"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"
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
	pwd, _ := os.Getwd()
	args := os.Args[1:]
	envs := internal.Envs(os.Environ())
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(pwd, args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}
}

func createCache(envs map[string]string, parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	cache.Cache
} {
	switch envs["CACHE_TYPE"] {
	default:
		return nil
	case "memory":
		return cache.NewMemory(parameters...)
	case "redis":
		return cache.NewRedis(parameters...)
	case "stash-memory":
		stash := memory.New()
		_ = stash.Configure(envs)
		parameters = append(parameters, stash)
		return cache.NewStash(parameters...)
	case "stash-redis":
		stash := redis.New()
		_ = stash.Configure(envs)
		parameters = append(parameters, stash)
		return cache.NewStash(parameters...)
	}
}

func Main(pwd string, args []string, envs map[string]string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create utilities
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)
	timers := utilities.NewTimers()
	counter := utilities.NewCounter()
	searchLog := utilities.NewSearchLog()
	if err := searchLog.Configure(envs); err != nil {
		return err
	}
	generator := generator.New()
	if err := generator.Configure(envs); err != nil {
		return err
	}

	//print version info
	logger.Info(ctx, "server: go-blog-flatfile v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create store, configure and open
	store := store.NewStore(logger)
	if err := store.Configure(envs); err != nil {
		return err
	}
	if err := store.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing store: %s", err)
		}
	}()
	parameters := []any{store, generator, searchLog, counter, timers}

	//create sql (importer), only when a database is configured
	if envs["DATABASE_HOST"] != "" {
		sql := sql.NewMySql(logger)
		if err := sql.Configure(envs); err != nil {
			return err
		}
		if err := sql.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := sql.Close(context.Background()); err != nil {
				logger.Error(context.Background(), "error while closing sql: %s", err)
			}
		}()
		parameters = append(parameters, sql)
	}

	// create cache
	cache := createCache(envs, logger)
	if cache != nil {
		if err := cache.Configure(envs); err != nil {
			return err
		}
		if err := cache.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := cache.Close(context.Background()); err != nil {
				logger.Error(context.Background(), "error while closing cache: %s", err)
			}
		}()
		parameters = append(parameters, cache)
	}

	//create logic, configure and open
	logic := logic.NewLogic(append(parameters, logger)...)
	if err := logic.Configure(envs); err != nil {
		return err
	}
	if err := logic.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := logic.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing logic: %s", err)
		}
	}()

	//create service, configure and open
	service := service.NewService(logic, cache, counter, timers, logger)
	if err := service.Configure(envs); err != nil {
		return err
	}
	if err := service.Open(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	wg.Wait()
	if err := service.Close(context.Background()); err != nil {
		logger.Error(context.Background(), "error while closing service: %s", err)
	}
	return nil
}
