package redis_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"payflow/config"
	"payflow/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func miniredisConfig(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	host, port, ok := strings.Cut(mr.Addr(), ":")
	require.True(t, ok)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return config.RedisConfig{Host: host, Port: p}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.NewClient(context.Background(), miniredisConfig(t, mr), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	hc := redis.NewHealthCheck(client)
	assert.NoError(t, hc.Ping(context.Background()))
	assert.Equal(t, "redis", hc.Name())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := miniredisConfig(t, mr)
	mr.Close()

	_, err := redis.NewClient(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
