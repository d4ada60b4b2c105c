package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockWorker struct {
	name    string
	runFunc func(ctx context.Context) error
	mu      sync.Mutex
	started bool
}

func newMockWorker(name string, runFunc func(ctx context.Context) error) *mockWorker {
	return &mockWorker{name: name, runFunc: runFunc}
}

func (m *mockWorker) Name() string {
	return m.name
}

func (m *mockWorker) Run(ctx context.Context) error {
	m.mu.Lock()
	m.started = true
	m.mu.Unlock()

	if m.runFunc != nil {
		return m.runFunc(ctx)
	}
	<-ctx.Done()
	return nil
}

func (m *mockWorker) WasStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *mockLogger) log(level, msg string, fields ...zap.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf("[%s] %s", level, msg))
}

func (l *mockLogger) Info(msg string, fields ...zap.Field)  { l.log("INFO", msg, fields...) }
func (l *mockLogger) Error(msg string, fields ...zap.Field) { l.log("ERROR", msg, fields...) }
func (l *mockLogger) Debug(msg string, fields ...zap.Field) { l.log("DEBUG", msg, fields...) }
func (l *mockLogger) Warn(msg string, fields ...zap.Field)  { l.log("WARN", msg, fields...) }

func (l *mockLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, msg := range l.messages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func TestSupervisorRunsWorkers(t *testing.T) {
	logger := &mockLogger{}
	supervisor := NewSupervisor(logger)

	first := newMockWorker("first", nil)
	second := newMockWorker("second", nil)
	supervisor.Register(first)
	supervisor.Register(second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- supervisor.Run(ctx)
	}()

	require.Eventually(t, first.WasStarted, time.Second, 10*time.Millisecond)
	require.Eventually(t, second.WasStarted, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not shut down")
	}

	assert.True(t, supervisor.HealthTracker().IsHealthy())
}

func TestSupervisorRegisterDuplicatePanics(t *testing.T) {
	supervisor := NewSupervisor(&mockLogger{})
	supervisor.Register(newMockWorker("dup", nil))
	assert.Panics(t, func() {
		supervisor.Register(newMockWorker("dup", nil))
	})
}

func TestSupervisorNoWorkers(t *testing.T) {
	logger := &mockLogger{}
	supervisor := NewSupervisor(logger)

	assert.NoError(t, supervisor.Run(context.Background()))
	assert.True(t, logger.Contains("no workers registered"))
}

func TestSupervisorWorkerFailureDoesNotStopOthers(t *testing.T) {
	logger := &mockLogger{}
	supervisor := NewSupervisor(logger)

	failing := newMockWorker("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	healthy := newMockWorker("healthy", nil)
	supervisor.Register(failing)
	supervisor.Register(healthy)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- supervisor.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return logger.Contains("worker failed")
	}, time.Second, 10*time.Millisecond)
	assert.False(t, supervisor.HealthTracker().IsHealthy())
	assert.True(t, healthy.WasStarted())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervisor did not shut down")
	}
}

func TestSupervisorShutdownTimeout(t *testing.T) {
	logger := &mockLogger{}
	supervisor := NewSupervisor(logger, WithShutdownTimeout(50*time.Millisecond))

	stuck := newMockWorker("stuck", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(5 * time.Second) // ignores shutdown
		return nil
	})
	supervisor.Register(stuck)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- supervisor.Run(ctx)
	}()

	require.Eventually(t, stuck.WasStarted, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("supervisor did not honor shutdown timeout")
	}
}

func TestHealthTrackerSnapshot(t *testing.T) {
	tracker := NewHealthTracker()
	tracker.MarkHealthy("a")
	tracker.MarkFailed("b")

	snapshot := tracker.Snapshot()
	assert.Equal(t, StatusHealthy, snapshot["a"].Status)
	assert.Equal(t, StatusFailed, snapshot["b"].Status)
	assert.False(t, tracker.IsHealthy())
}
