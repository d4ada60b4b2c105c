package redis_test

import (
	"crypto/tls"
	"math"
	"testing"

	"github.com/conveyorhq/conveyor/internal/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionOptionsAddr(t *testing.T) {
	options := &redis.ConnectionOptions{Host: "example.com", Port: 6380}
	assert.Equal(t, "example.com:6380", options.Addr())
}

func TestRedisOptionsPlaintext(t *testing.T) {
	options := &redis.ConnectionOptions{
		Host:     "host",
		Port:     6379,
		Username: "user",
		Password: "pass",
	}

	redisOptions := options.RedisOptions()
	assert.Equal(t, "host:6379", redisOptions.Addr)
	assert.Equal(t, "user", redisOptions.Username)
	assert.Equal(t, "pass", redisOptions.Password)
	assert.Nil(t, redisOptions.TLSConfig)
	assert.Nil(t, redisOptions.Dialer)
}

func TestRedisOptionsTLS(t *testing.T) {
	options := &redis.ConnectionOptions{
		Host: "host",
		Port: 6380,
		TLS:  &redis.TLSOptions{ServerName: "host"},
	}

	redisOptions := options.RedisOptions()
	require.NotNil(t, redisOptions.TLSConfig)
	assert.Equal(t, "host", redisOptions.TLSConfig.ServerName)
	assert.Equal(t, uint16(tls.VersionTLS12), redisOptions.TLSConfig.MinVersion)
}

func TestRedisOptionsRetryCap(t *testing.T) {
	t.Run("unlimited by default", func(t *testing.T) {
		options := &redis.ConnectionOptions{Host: "host", Port: 6379}
		assert.Equal(t, math.MaxInt32, options.RedisOptions().MaxRetries)
	})

	t.Run("explicit cap", func(t *testing.T) {
		retryCap := 5
		options := &redis.ConnectionOptions{Host: "host", Port: 6379, RetryCap: &retryCap}
		assert.Equal(t, 5, options.RedisOptions().MaxRetries)
	})

	t.Run("zero cap disables retries", func(t *testing.T) {
		// go-redis treats MaxRetries 0 as its default of 3, so a zero cap
		// must become its -1 sentinel.
		retryCap := 0
		options := &redis.ConnectionOptions{Host: "host", Port: 6379, RetryCap: &retryCap}
		assert.Equal(t, -1, options.RedisOptions().MaxRetries)
	})
}

func TestRedisOptionsDualStackDialer(t *testing.T) {
	options := &redis.ConnectionOptions{
		Host:   "host",
		Port:   6379,
		Family: redis.FamilyDualStack,
	}
	assert.NotNil(t, options.RedisOptions().Dialer)
}

func TestAddressFamilyString(t *testing.T) {
	assert.Equal(t, "default", redis.FamilyDefault.String())
	assert.Equal(t, "dual-stack", redis.FamilyDualStack.String())
}
