package utilities

import (
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
)

// sample is one measurement, elapsed stays zero until it's stopped.
type sample struct {
	started time.Time
	elapsed time.Duration
}

type timers struct {
	sync.RWMutex
	groups map[string][]*sample
}

// Timers measures operations per group (an operation or a search kind),
// Start returns the index Stop expects.
type Timers interface {
	Start(group string) int
	Stop(group string, index int) int64
	ReadAll() *data.Timers
	Clear()
}

func NewTimers() Timers {
	return &timers{groups: make(map[string][]*sample)}
}

func (t *timers) Clear() {
	t.Lock()
	defer t.Unlock()

	clear(t.groups)
}

func (t *timers) Start(group string) int {
	t.Lock()
	defer t.Unlock()

	t.groups[group] = append(t.groups[group], &sample{started: time.Now()})
	return len(t.groups[group]) - 1
}

// Stop stops the timer started at index and returns the elapsed nanoseconds,
// or -1 if there's no such timer.
func (t *timers) Stop(group string, index int) int64 {
	t.Lock()
	defer t.Unlock()

	samples := t.groups[group]
	if index < 0 || index >= len(samples) {
		return -1
	}
	s := samples[index]
	if s.elapsed == 0 {
		s.elapsed = max(time.Since(s.started), 1)
	}
	return s.elapsed.Nanoseconds()
}

func (t *timers) ReadAll() *data.Timers {
	t.RLock()
	defer t.RUnlock()

	all := &data.Timers{
		Totals:   make(map[string]int64, len(t.groups)),
		Averages: make(map[string]int64, len(t.groups)),
	}
	for group, samples := range t.groups {
		var total time.Duration
		var stopped int64

		for _, s := range samples {
			if s.elapsed > 0 {
				total += s.elapsed
				stopped++
			}
		}
		all.Totals[group] = total.Nanoseconds()
		if stopped > 0 {
			all.Averages[group] = total.Nanoseconds() / stopped
		}
	}
	return all
}
