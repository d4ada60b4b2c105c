package redis

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const defaultHeartbeatInterval = 30 * time.Second

// Heartbeat periodically pings Redis so connectivity problems surface in the
// logs between task executions. It implements worker.Worker.
type Heartbeat struct {
	client   Cmdable
	logger   Logger
	interval time.Duration
}

// NewHeartbeat creates a heartbeat over an existing client. interval <= 0
// selects the default.
func NewHeartbeat(client Cmdable, logger Logger, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	return &Heartbeat{
		client:   client,
		logger:   logger,
		interval: interval,
	}
}

func (h *Heartbeat) Name() string {
	return "redis-heartbeat"
}

func (h *Heartbeat) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := h.client.Ping(ctx).Err(); err != nil {
				h.logger.Warn("redis ping failed", zap.Error(err))
			}
		}
	}
}
