package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Logger is a minimal logging interface for structured logging with zap.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}

// Supervisor runs registered workers and tracks their health. A failed
// worker does not terminate the others; the health tracker reports it and
// the orchestrator decides whether to restart the process.
type Supervisor struct {
	workers         map[string]Worker
	health          *HealthTracker
	logger          Logger
	shutdownTimeout time.Duration // 0 means wait indefinitely
}

type SupervisorOption func(*Supervisor)

// WithShutdownTimeout bounds how long Run waits for workers to finish after
// the context is cancelled.
func WithShutdownTimeout(timeout time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.shutdownTimeout = timeout
	}
}

func NewSupervisor(logger Logger, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		workers: make(map[string]Worker),
		health:  NewHealthTracker(),
		logger:  logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Register adds a worker. Panics on duplicate names; registration happens
// during startup where a duplicate is a programming error.
func (s *Supervisor) Register(w Worker) {
	if _, exists := s.workers[w.Name()]; exists {
		panic(fmt.Sprintf("worker %s already registered", w.Name()))
	}
	s.workers[w.Name()] = w
	s.logger.Debug("worker registered", zap.String("worker", w.Name()))
}

func (s *Supervisor) HealthTracker() *HealthTracker {
	return s.health
}

// Run starts all registered workers and blocks until either all workers have
// exited or the context is cancelled. Returns an error only when workers fail
// to shut down within the configured timeout.
func (s *Supervisor) Run(ctx context.Context) error {
	if len(s.workers) == 0 {
		s.logger.Warn("no workers registered")
		return nil
	}

	s.logger.Info("starting workers", zap.Int("count", len(s.workers)))

	var wg sync.WaitGroup
	for name, w := range s.workers {
		wg.Add(1)
		go func(name string, w Worker) {
			defer wg.Done()

			s.logger.Info("worker starting", zap.String("worker", name))

			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("worker failed",
					zap.String("worker", name),
					zap.Error(err))
				s.health.MarkFailed(name)
			} else {
				s.logger.Info("worker stopped gracefully", zap.String("worker", name))
				s.health.MarkHealthy(name)
			}
		}(name, w)
	}

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, shutting down workers")

		if s.shutdownTimeout > 0 {
			return s.waitWithTimeout(&wg, s.shutdownTimeout)
		}
		wg.Wait()
		return nil
	case <-waitChan(&wg):
		// All workers exited on their own, healthy or not.
		s.logger.Warn("all workers have exited")
		return nil
	}
}

func (s *Supervisor) waitWithTimeout(wg *sync.WaitGroup, timeout time.Duration) error {
	select {
	case <-waitChan(wg):
		s.logger.Info("all workers shutdown gracefully")
		return nil
	case <-time.After(timeout):
		s.logger.Warn("shutdown timeout exceeded, some workers may still be running",
			zap.Duration("timeout", timeout))
		return fmt.Errorf("shutdown timeout exceeded (%v)", timeout)
	}
}

// waitChan converts WaitGroup.Wait() into a channel usable in select.
func waitChan(wg *sync.WaitGroup) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
