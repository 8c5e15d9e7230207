package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
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
	var wg sync.WaitGroup

	envs := internal.Envs(os.Environ())
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	err := newCli(envs).execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	wg.Wait()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
