package worker

import (
	"sync"
	"time"
)

const (
	StatusHealthy = "healthy"
	StatusFailed  = "failed"
)

// Health is the status of a single worker. Error details are intentionally
// not exposed.
type Health struct {
	Status    string    `json:"status"`
	LastCheck time.Time `json:"last_check"`
}

// HealthTracker tracks the health status of all workers.
// It is safe for concurrent use.
type HealthTracker struct {
	mu      sync.RWMutex
	workers map[string]Health
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		workers: make(map[string]Health),
	}
}

func (h *HealthTracker) MarkHealthy(name string) {
	h.mark(name, StatusHealthy)
}

func (h *HealthTracker) MarkFailed(name string) {
	h.mark(name, StatusFailed)
}

func (h *HealthTracker) mark(name, status string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.workers[name] = Health{
		Status:    status,
		LastCheck: time.Now(),
	}
}

// IsHealthy returns true if no worker has failed.
func (h *HealthTracker) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, w := range h.workers {
		if w.Status != StatusHealthy {
			return false
		}
	}
	return true
}

// Snapshot returns a copy of the per-worker health map.
func (h *HealthTracker) Snapshot() map[string]Health {
	h.mu.RLock()
	defer h.mu.RUnlock()

	workers := make(map[string]Health, len(h.workers))
	for name, w := range h.workers {
		workers[name] = w
	}
	return workers
}
