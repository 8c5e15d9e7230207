package internal

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

func GenerateId() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// Envs converts os.Environ style KEY=VALUE pairs into a map, the last
// occurrence of a key wins.
func Envs(environ []string) map[string]string {
	envs := make(map[string]string, len(environ))
	for _, env := range environ {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	return envs
}

// LaunchContext returns a context that's cancelled once a signal is received
// on osSignal or the returned cancel function is called.
func LaunchContext(wg *sync.WaitGroup, osSignal chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case <-ctx.Done():
		case <-osSignal:
			cancel()
		}
	}()
	return ctx, cancel
}
