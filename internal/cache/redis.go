package cache

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/antonio-alexander/go-blog-flatfile/internal"
	"github.com/antonio-alexander/go-blog-flatfile/internal/data"
	"github.com/antonio-alexander/go-blog-flatfile/internal/utilities"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const hashKeySearches string = "flatfile_searches"

type redisCache struct {
	redisClient *redis.Client
	config      struct {
		address  string
		port     string
		password string
		database int
		timeout  time.Duration
	}
	utilities.Logger
}

func NewRedis(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &redisCache{}
	c.config.address = "localhost"
	c.config.port = "6379"
	c.config.timeout = 10 * time.Second
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

func (c *redisCache) Configure(envs map[string]string) error {
	if redisAddress, ok := envs["REDIS_ADDRESS"]; ok {
		c.config.address = redisAddress
	}
	if redisPort, ok := envs["REDIS_PORT"]; ok {
		c.config.port = redisPort
	}
	if redisPassword, ok := envs["REDIS_PASSWORD"]; ok {
		c.config.password = redisPassword
	}
	if redisDatabase, ok := envs["REDIS_DATABASE"]; ok {
		i, err := strconv.ParseInt(redisDatabase, 10, 64)
		if err != nil {
			return pkgerrors.Wrapf(err, "invalid REDIS_DATABASE %q", redisDatabase)
		}
		c.config.database = int(i)
	}
	if redisTimeout, ok := envs["REDIS_TIMEOUT"]; ok {
		i, _ := strconv.ParseInt(redisTimeout, 10, 64)
		if i > 0 {
			c.config.timeout = time.Duration(i) * time.Second
		}
	}
	return nil
}

func (c *redisCache) Open(ctx context.Context) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(c.config.address, c.config.port),
		Password: c.config.password,
		DB:       c.config.database,
	})
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return err
	}
	c.redisClient = redisClient
	return nil
}

func (c *redisCache) Close(ctx context.Context) error {
	if c.redisClient == nil {
		return nil
	}
	if err := c.redisClient.Close(); err != nil {
		c.Error(ctx, "error while shutting down redis client: %s", err)
	}
	return nil
}

func (c *redisCache) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	if _, err := c.redisClient.Del(ctx, hashKeySearches).Result(); err != nil {
		return err
	}
	return nil
}

func (c *redisCache) SearchRead(ctx context.Context, search data.EmployeeSearch) (*data.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	searchKey, err := search.ToKey()
	if err != nil {
		return nil, err
	}
	value, err := c.redisClient.HGet(ctx, hashKeySearches, searchKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSearchNotCached
		}
		return nil, err
	}
	result := &data.SearchResult{}
	if err := result.UnmarshalBinary([]byte(value)); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *redisCache) SearchWrite(ctx context.Context, search data.EmployeeSearch, result *data.SearchResult) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	searchKey, err := search.ToKey()
	if err != nil {
		return pkgerrors.Wrap(err, "error while creating search key")
	}
	bytes, err := result.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := c.redisClient.HSet(ctx, hashKeySearches,
		searchKey, string(bytes)).Result(); err != nil {
		return err
	}
	c.Trace(ctx, "cached search: %s", searchKey)
	return nil
}

func (c *redisCache) SearchDelete(ctx context.Context, searches ...data.EmployeeSearch) error {
	var searchKeys []string

	if len(searches) <= 0 {
		return nil
	}
	for _, search := range searches {
		searchKey, err := search.ToKey()
		if err != nil {
			return err
		}
		searchKeys = append(searchKeys, searchKey)
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	if _, err := c.redisClient.HDel(ctx, hashKeySearches,
		searchKeys...).Result(); err != nil {
		return err
	}
	return nil
}
