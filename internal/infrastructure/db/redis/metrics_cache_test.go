package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCache_KeyPrefix(t *testing.T) {
	c := NewMetricsCache(nil, time.Minute)
	assert.Equal(t, "metrics:summary|c=c1", c.key("summary|c=c1"))
}

// An unreachable server surfaces as an error, never as a hit.
func TestMetricsCache_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewMetricsCache(client, time.Minute)

	_, hit, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, hit)
	assert.Error(t, c.Set(context.Background(), "k", []byte("v")))
}

func TestConnect_UnreachableServerFailsWithoutConnectLog(t *testing.T) {
	var buf bytes.Buffer
	client, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond}, zerolog.New(&buf))

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "redis ping")
	assert.NotContains(t, buf.String(), "connected to Redis")
}
