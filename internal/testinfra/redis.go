//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultRedisImage = "redis:7-alpine"
	redisPort         = "6379"
)

// RedisContainer is a running Redis server and a client connected to it.
type RedisContainer struct {
	testcontainers.Container
	Client *redis.Client
}

// NewRedisContainer starts Redis and waits for it to answer PING.
func NewRedisContainer(ctx context.Context) (*RedisContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultRedisImage,
		ExposedPorts: []string{redisPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(redisPort+"/tcp"),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(time.Minute),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis container: %w", err)
	}
	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get endpoint: %w", err)
	}
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisContainer{Container: container, Client: client}, nil
}

// StartRedis is NewRedisContainer for tests.
func StartRedis(t *testing.T) *redis.Client {
	t.Helper()
	SkipIfNoDocker(t)
	ctx := context.Background()
	c, err := NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() {
		c.Client.Close()
		CleanupContainer(t, ctx, c.Container)
	})
	return c.Client
}
