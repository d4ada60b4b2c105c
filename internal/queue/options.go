package queue

import (
	"github.com/conveyorhq/conveyor/internal/redis"
	"github.com/hibiken/asynq"
)

// RedisConnOpt converts resolved connection options into the queue client's
// connection configuration. asynq has no per-command retry cap, so the
// unlimited-retry directive only applies to the go-redis conversion; the
// dual-stack hint maps to the plain "tcp" network, which dials both address
// families.
func RedisConnOpt(options *redis.ConnectionOptions) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Network:   "tcp",
		Addr:      options.Addr(),
		Username:  options.Username,
		Password:  options.Password,
		TLSConfig: options.TLSClientConfig(),
	}
}
