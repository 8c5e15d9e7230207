package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"
)

type memoryEntry struct {
	result  *data.SearchResult
	written int64
}

type memoryCache struct {
	sync.RWMutex
	sync.WaitGroup
	searches map[string]memoryEntry //map[search_key]entry
	config   struct {
		pruneInterval time.Duration
		ttl           time.Duration
	}
	ctx       context.Context
	ctxCancel context.CancelFunc
	utilities.Logger
}

func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &memoryCache{
		searches: make(map[string]memoryEntry),
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewNopLogger()
	}
	return c
}

func (c *memoryCache) launchPrune() {
	started := make(chan struct{})
	c.Add(1)
	go func() {
		defer c.Done()

		pruneFx := func() {
			c.Lock()
			defer c.Unlock()

			for key, entry := range c.searches {
				if time.Since(time.Unix(0, entry.written)) > c.config.ttl {
					delete(c.searches, key)
					c.Trace(c.ctx, "pruned cached search: %s", key)
				}
			}
		}
		tPrune := time.NewTicker(c.config.pruneInterval)
		defer tPrune.Stop()
		close(started)
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-tPrune.C:
				pruneFx()
			}
		}
	}()
	<-started
}

func (c *memoryCache) Configure(envs map[string]string) error {
	c.Lock()
	defer c.Unlock()

	if s, ok := envs["CACHE_PRUNE_INTERVAL"]; ok {
		pruneInterval, _ := strconv.Atoi(s)
		c.config.pruneInterval = time.Second * time.Duration(pruneInterval)
	}
	if c.config.pruneInterval <= 0 {
		c.config.pruneInterval = 10 * time.Second
	}
	if s, ok := envs["CACHE_TTL"]; ok {
		ttl, _ := strconv.Atoi(s)
		c.config.ttl = time.Second * time.Duration(ttl)
	}
	return nil
}

func (c *memoryCache) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.searches = make(map[string]memoryEntry)
	if c.config.ttl > 0 {
		c.ctx, c.ctxCancel = context.WithCancel(context.Background())
		c.launchPrune()
	}
	return nil
}

func (c *memoryCache) Close(ctx context.Context) error {
	if c.ctxCancel != nil {
		c.ctxCancel()
		c.Wait()
	}
	return nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.searches = make(map[string]memoryEntry)
	return nil
}

func (c *memoryCache) SearchRead(ctx context.Context, search data.EmployeeSearch) (*data.SearchResult, error) {
	c.RLock()
	defer c.RUnlock()

	searchKey, err := search.ToKey()
	if err != nil {
		return nil, err
	}
	entry, ok := c.searches[searchKey]
	if !ok {
		return nil, ErrSearchNotCached
	}
	return copySearchResult(entry.result), nil
}

func (c *memoryCache) SearchWrite(ctx context.Context, search data.EmployeeSearch, result *data.SearchResult) error {
	c.Lock()
	defer c.Unlock()

	searchKey, err := search.ToKey()
	if err != nil {
		return err
	}
	c.searches[searchKey] = memoryEntry{
		result:  copySearchResult(result),
		written: time.Now().UnixNano(),
	}
	c.Trace(ctx, "cached search: %s", searchKey)
	return nil
}

func (c *memoryCache) SearchDelete(ctx context.Context, searches ...data.EmployeeSearch) error {
	c.Lock()
	defer c.Unlock()

	for _, search := range searches {
		searchKey, err := search.ToKey()
		if err != nil {
			return err
		}
		delete(c.searches, searchKey)
	}
	return nil
}
