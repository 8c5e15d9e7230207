package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/cache"
	"github.com/antonio-alexander/go-blog-flatfile/internal/client"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"

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

func secondsFromEnv(envs map[string]string, key string, value time.Duration) time.Duration {
	if s := envs[key]; s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return value
}

// determine hit/miss ratio of concurrent searches for the same code while
// another client keeps appending employees (which invalidates the cache)
func scenarioStampedingHerd(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_stampeding_herd"
	const minClients int = 2

	var wg sync.WaitGroup

	readInterval := secondsFromEnv(envs, "SCENARIO_READ_INTERVAL", time.Second)
	updateInterval := secondsFromEnv(envs, "SCENARIO_UPDATE_INTERVAL", 2*time.Second)
	scenarioDuration := secondsFromEnv(envs, "SCENARIO_DURATION", 10*time.Second)
	kind := envs["SCENARIO_SEARCH_KIND"]
	if kind == "" {
		kind = data.SearchKindBinary
	}
	if len(clients) < minClients {
		return errors.New("not enough clients provided")
	}

	//generate context
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)

	// create the employee everyone reads using the first client
	employeeCreated, err := clients[0].EmployeeCreate(ctx, data.Employee{
		Name:       "Stampeding Herd",
		JobTitle:   "Scenario",
		Department: internal.GenerateId()[:8],
	})
	if err != nil {
		return err
	}
	code := employeeCreated.Code
	logger.Info(ctx, "created employee: %d", code)

	//generate start/stop channels
	start, stop := make(chan struct{}), make(chan struct{})

	//create writer go routine
	wg.Add(1)
	go func(ctx context.Context, client client.Client) {
		defer wg.Done()

		tUpdate := time.NewTicker(updateInterval)
		defer tUpdate.Stop()
		<-start
		for {
			select {
			case <-stop:
				return
			case <-tUpdate.C:
				if _, err := client.EmployeesGenerate(ctx, 1); err != nil {
					logger.Error(ctx, "error while generating employee: %s", err)
				}
			}
		}
	}(ctx, clients[0])

	//create reader go routines
	for i := 1; i < len(clients); i++ {
		wg.Add(1)
		go func(ctx context.Context, clientNumber int, client client.Client) {
			defer wg.Done()

			correlationId := fmt.Sprintf("scenario_stampeding_herd_%d", clientNumber)
			ctx = internal.CtxWithCorrelationId(ctx, correlationId)
			tRead := time.NewTicker(readInterval)
			defer tRead.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRead.C:
					if _, err := client.EmployeeRead(ctx, code, kind); err != nil {
						logger.Error(ctx, "error while reading employee: %s", err)
					}
				}
			}
		}(ctx, i, clients[i])
	}

	//clear cache counters and start the go routines
	if err := clients[0].CacheClear(ctx); err != nil {
		return err
	}
	if err := clients[0].CacheCountersClear(ctx); err != nil {
		return err
	}
	close(start)

	//allow go routines to run
	select {
	case <-ctx.Done():
	case <-time.After(scenarioDuration):
	}

	//stop go routines
	close(stop)
	wg.Wait()

	//use initial client to get hit/miss ratios from server
	cacheCounters, err := clients[0].CacheCountersRead(ctx)
	if err != nil {
		return err
	}
	ratio, total := cacheCounters.HitRatio(kind)
	logger.Info(ctx, "cache hit miss ratio (%d/%d): %0.2f%%",
		cacheCounters.CounterHits[kind], total, ratio*100)
	return nil
}

// compare the sequential and binary searches for codes spread over the
// store, the service must have been built sorted
func scenarioSearchComparison(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_search_comparison"

	comparisons, samples := make(map[string]int), 10
	if s := envs["SCENARIO_SAMPLES"]; s != "" {
		samples, _ = strconv.Atoi(s)
	}
	if len(clients) < 1 || samples <= 0 {
		return errors.New("no clients or samples provided")
	}
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)
	n, err := clients[0].EmployeesCount(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("no employees stored")
	}
	if err := clients[0].TimersClear(ctx); err != nil {
		return err
	}
	for i := range samples {
		code := int32(int64(i+1) * n / int64(samples))
		for _, kind := range []string{data.SearchKindSequential, data.SearchKindBinary} {
			result, err := clients[0].EmployeeRead(ctx, code, kind)
			if err != nil {
				return errors.Wrapf(err, "%s search for %d", kind, code)
			}
			comparisons[kind] += result.Comparisons
			logger.Info(ctx, "%s search for %d: %d comparisons in %s",
				kind, code, result.Comparisons, result.Elapsed)
		}
	}
	for kind, total := range comparisons {
		logger.Info(ctx, "%s search: %0.1f comparisons on average over %d employees",
			kind, float64(total)/float64(samples), n)
	}
	timers, err := clients[0].TimersRead(ctx)
	if err != nil {
		return err
	}
	for group, average := range timers.Averages {
		logger.Info(ctx, "%s: %s on average", group, time.Duration(average))
	}
	return nil
}

func Main(args []string, envs map[string]string, osSignal chan (os.Signal)) error {
	var clients []client.Client
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create logger
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)

	//print version info
	logger.Info(ctx, "scenarios: go-blog-flatfile v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	nClients, _ := strconv.Atoi(envs["N_CLIENTS"])
	for range max(nClients, 1) {
		//create cache
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
					logger.Error(ctx, "error while closing cache: %s", err)
				}
			}()
		}

		//create client
		client := client.NewClient(cache, logger)
		if err := client.Configure(envs); err != nil {
			return err
		}
		if err := client.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Error(ctx, "error while closing client: %s", err)
			}
		}()
		clients = append(clients, client)
	}

	// execute scenario
	switch scenario := envs["SCENARIO"]; scenario {
	default:
		return errors.Errorf("unsupported scenario: %s", scenario)
	case "stampeding_herd":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioStampedingHerd(ctx, envs, logger, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	case "search_comparison":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioSearchComparison(ctx, envs, logger, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	}
	cancel()
	wg.Wait()
	return nil
}
