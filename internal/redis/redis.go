package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/extra/redisotel/v9"
	r "github.com/redis/go-redis/v9"
)

// Reexport go-redis's Nil constant for DX purposes.
const (
	Nil = r.Nil
)

type (
	Cmdable            = r.Cmdable
	MapStringStringCmd = r.MapStringStringCmd
	Pipeliner          = r.Pipeliner
	Tx                 = r.Tx
)

type Client interface {
	Cmdable
	Close() error
}

const (
	TxFailedErr = r.TxFailedErr
)

var (
	once                sync.Once
	client              Client
	initializationError error
)

// New returns the process-wide Redis client, creating it from the resolved
// connection options on first use.
func New(ctx context.Context, options *ConnectionOptions) (r.Cmdable, error) {
	once.Do(func() {
		client, initializationError = NewClient(ctx, options)
		if initializationError == nil {
			initializationError = instrumentOpenTelemetry()
		}
	})

	// Ensure we never return nil client without an error
	if client == nil && initializationError == nil {
		initializationError = fmt.Errorf("redis client initialization failed: unexpected state")
	}

	return client, initializationError
}

// NewClient creates a new Redis client without using the singleton.
// This should be used by components that need their own Redis connection,
// such as libraries or in test scenarios where isolation is required.
func NewClient(ctx context.Context, options *ConnectionOptions) (Client, error) {
	c := r.NewClient(options.RedisOptions())

	// Test connectivity
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis client ping failed: %w", err)
	}

	return c, nil
}

func instrumentOpenTelemetry() error {
	// OpenTelemetry instrumentation requires a concrete client type for type assertions
	if concreteClient, ok := client.(*r.Client); ok {
		if err := redisotel.InstrumentTracing(concreteClient); err != nil {
			return err
		}
	}
	return nil
}
