package queue

import (
	"context"

	"github.com/conveyorhq/conveyor/internal/redis"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Client enqueues tasks onto the configured queue.
type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(options *redis.ConnectionOptions, queue string) *Client {
	return &Client{
		client: asynq.NewClient(RedisConnOpt(options)),
		queue:  queue,
	}
}

// EnqueueEvent assigns the event a fresh ID and enqueues a relay task for it.
func (c *Client) EnqueueEvent(ctx context.Context, topic string, data map[string]any) (*asynq.TaskInfo, error) {
	task, err := NewEventRelayTask(EventRelayPayload{
		EventID: uuid.NewString(),
		Topic:   topic,
		Data:    data,
	})
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
}

func (c *Client) Close() error {
	return c.client.Close()
}
