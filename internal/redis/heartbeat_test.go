package redis_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/conveyorhq/conveyor/internal/redis"
	"github.com/conveyorhq/conveyor/internal/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartbeatStopsOnCancel(t *testing.T) {
	client := testutil.CreateTestRedisClient(t)
	t.Cleanup(func() { client.Close() })

	heartbeat := redis.NewHeartbeat(client, &captureLogger{}, 10*time.Millisecond)
	assert.Equal(t, "redis-heartbeat", heartbeat.Name())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- heartbeat.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("heartbeat did not stop")
	}
}

func TestHeartbeatLogsPingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := redis.NewClient(context.Background(), &redis.ConnectionOptions{
		Host: mr.Host(),
		Port: port,
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	mr.Close()

	logger := &captureLogger{}
	heartbeat := redis.NewHeartbeat(client, logger, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, heartbeat.Run(ctx))

	assert.NotEmpty(t, logger.entries)
	assert.Contains(t, logger.entries[0], "redis ping failed")
}