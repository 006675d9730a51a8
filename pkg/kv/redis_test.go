package kv

import (
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoria-api/pkg/config"
)

func TestOptions(t *testing.T) {
	opts := Options(config.RedisConfig{Host: "cache.internal", Port: 6380, Password: "pw", DB: 2, TLS: true})
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	require.NotNil(t, opts.TLSConfig)
	assert.Equal(t, "cache.internal", opts.TLSConfig.ServerName)

	assert.Nil(t, Options(config.RedisConfig{Host: "localhost", Port: 6379}).TLSConfig)
}

func TestNewRedisPings(t *testing.T) {
	srv := miniredis.RunT(t)
	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)

	client, err := NewRedis(config.RedisConfig{Host: srv.Host(), Port: port})
	require.NoError(t, err)
	defer client.Close()
}

func TestNewRedisUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	port, _ := strconv.Atoi(srv.Port())
	srv.Close()

	_, err := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: port})
	assert.Error(t, err)
}
