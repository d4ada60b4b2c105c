package worker

import "context"

// Worker represents a long-running background process.
//
// Workers should block in Run() until the context is cancelled or a fatal
// error occurs, and return nil or context.Canceled for graceful shutdown.
type Worker interface {
	// Name returns a unique identifier for this worker (e.g., "queue-server").
	Name() string

	// Run executes the worker and blocks until context is cancelled or error occurs.
	Run(ctx context.Context) error
}
