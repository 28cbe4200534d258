package core

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_RequiresURL(t *testing.T) {
	_, err := NewRedisClient(RedisClientOptions{})
	require.Error(t, err)
	assert.Equal(t, KindConfiguration, KindOf(err))
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(RedisClientOptions{RedisURL: "not-a-url"})
	require.Error(t, err)
	assert.Equal(t, KindConfiguration, KindOf(err))
}

func TestNewRedisClient_ConnectsToMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := NewRedisClient(RedisClientOptions{RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
}

func TestNewRedisClient_UnreachableIsServiceUnavailable(t *testing.T) {
	_, err := NewRedisClient(RedisClientOptions{RedisURL: "redis://127.0.0.1:1"})
	require.Error(t, err)
	assert.Equal(t, KindServiceUnavailable, KindOf(err))
}
