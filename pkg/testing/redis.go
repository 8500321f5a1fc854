package testing

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

var (
	redisOnce     sync.Once
	redisOptions  *redis.Options
	redisSetupErr error
)

// GetRedisClient returns a client of an empty redis database. REDIS_HOST (and optionally
// REDIS_PORT, REDIS_PASS) selects an existing server; otherwise a redis container is
// started through dockertest and kept for the lifetime of the test binary.
func GetRedisClient(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	redisOnce.Do(func() {
		redisOptions, redisSetupErr = redisParams()
	})
	require.NoError(t, redisSetupErr)

	rdb := redis.NewClient(redisOptions)
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	require.NoError(t, rdb.FlushDB(ctx).Err())

	return ctx, rdb
}

func redisParams() (*redis.Options, error) {
	if host := os.Getenv("REDIS_HOST"); host != "" {
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		return &redis.Options{
			Addr:     net.JoinHostPort(host, port),
			Password: os.Getenv("REDIS_PASS"),
			DB:       0, // use default DB
		}, nil
	}

	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	redisResource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, fmt.Errorf("dockerpool run redis: %w", err)
	}
	if err := redisResource.Expire(600); err != nil {
		return nil, fmt.Errorf("set redis container expiry: %w", err)
	}

	opts := &redis.Options{
		Addr: net.JoinHostPort("localhost", redisResource.GetPort("6379/tcp")),
	}

	dockerPool.MaxWait = time.Minute
	if err := dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		return rdb.Ping(ctx).Err()
	}); err != nil {
		return nil, fmt.Errorf("wait for redis: %w", err)
	}

	return opts, nil
}
