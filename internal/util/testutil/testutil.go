package testutil

import (
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/conveyorhq/conveyor/internal/logging"
	internalredis "github.com/conveyorhq/conveyor/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// CreateTestConnectionOptions starts an in-process Redis and returns
// connection options pointing at it.
func CreateTestConnectionOptions(t *testing.T) *internalredis.ConnectionOptions {
	mr := miniredis.RunT(t)

	t.Cleanup(func() {
		mr.Close()
	})

	port, _ := strconv.Atoi(mr.Port())
	return &internalredis.ConnectionOptions{
		Host: mr.Host(),
		Port: port,
	}
}

func CreateTestRedisClient(t *testing.T) internalredis.Client {
	mr := miniredis.RunT(t)

	t.Cleanup(func() {
		mr.Close()
	})

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func CreateTestLogger(t *testing.T) *logging.Logger {
	zapLogger := zaptest.NewLogger(t)
	logger := otelzap.New(zapLogger,
		otelzap.WithMinLevel(zap.InfoLevel),
	)
	return &logging.Logger{Logger: logger}
}
