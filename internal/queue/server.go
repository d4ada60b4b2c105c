package queue

import (
	"context"

	"github.com/conveyorhq/conveyor/internal/logging"
	"github.com/conveyorhq/conveyor/internal/redis"
	"github.com/hibiken/asynq"
)

// ServerConfig holds the queue consumer settings.
type ServerConfig struct {
	Queue       string
	Concurrency int
}

// Server consumes tasks from the queue. It implements worker.Worker so the
// supervisor can run it alongside other workers.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewServer(options *redis.ConnectionOptions, cfg ServerConfig, logger *logging.Logger) *Server {
	server := asynq.NewServer(RedisConnOpt(options), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			cfg.Queue: 1,
		},
		Logger:   newAsynqLogger(logger),
		LogLevel: asynq.InfoLevel,
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeEventRelay, NewEventRelayHandler(logger))

	return &Server{server: server, mux: mux}
}

func (s *Server) Name() string {
	return "queue-server"
}

// Run starts the consumer and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	s.server.Shutdown()
	return nil
}
