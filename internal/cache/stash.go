package cache

import (
	"context"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	"github.com/antonio-alexander/go-stash"
)

type stashCache struct {
	logger utilities.Logger
	stash  interface {
		stash.Configurer
		stash.Parameterizer
		stash.Initializer
		stash.Shutdowner
	}
	stash.Stasher
}

// NewStash wraps a go-stash implementation (memory or redis) given as a
// parameter.
func NewStash(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &stashCache{}
	for _, p := range parameters {
		switch p := p.(type) {
		case utilities.Logger:
			c.logger = p
		case interface {
			stash.Configurer
			stash.Parameterizer
			stash.Initializer
			stash.Shutdowner
			stash.Stasher
		}:
			c.stash = p
			c.Stasher = p
		}
	}
	if c.logger == nil {
		c.logger = utilities.NewNopLogger()
	}
	if c.stash != nil {
		c.stash.SetParameters(parameters...)
	}
	return c
}

func (c *stashCache) Configure(envs map[string]string) error {
	if c.stash != nil {
		if err := c.stash.Configure(envs); err != nil {
			return err
		}
	}
	return nil
}

func (c *stashCache) Open(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Initialize()
	}
	return nil
}

func (c *stashCache) Close(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Shutdown()
	}
	return nil
}

func (c *stashCache) Clear(ctx context.Context) error {
	return c.Stasher.Clear()
}

func (c *stashCache) SearchRead(ctx context.Context, search data.EmployeeSearch) (*data.SearchResult, error) {
	searchKey, err := search.ToKey()
	if err != nil {
		return nil, err
	}
	result := &data.SearchResult{}
	if err := c.Stasher.Read(searchKey, result); err != nil {
		c.logger.Trace(ctx, "cache miss for search: %s (%s)", searchKey, err)
		return nil, ErrSearchNotCached
	}
	c.logger.Trace(ctx, "cache hit for search: %s", searchKey)
	return result, nil
}

func (c *stashCache) SearchWrite(ctx context.Context, search data.EmployeeSearch, result *data.SearchResult) error {
	searchKey, err := search.ToKey()
	if err != nil {
		c.logger.Error(ctx, "error while creating search key: %s", err)
		return err
	}
	if _, err := c.Stasher.Write(searchKey, result); err != nil {
		c.logger.Error(ctx, "error while writing search: %s", err)
		return err
	}
	c.logger.Trace(ctx, "cached search: %s", searchKey)
	return nil
}

func (c *stashCache) SearchDelete(ctx context.Context, searches ...data.EmployeeSearch) error {
	for _, search := range searches {
		searchKey, err := search.ToKey()
		if err != nil {
			return err
		}
		if err := c.Stasher.Delete(searchKey); err != nil {
			// go-stash reports deleting a missing key as an error
			c.logger.Trace(ctx, "unable to evict search %s: %s", searchKey, err)
			continue
		}
		c.logger.Trace(ctx, "evicted cached search: %s", searchKey)
	}
	return nil
}
