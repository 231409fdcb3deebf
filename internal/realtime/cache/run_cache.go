package cache

import (
	"sync"
	"time"

	"github.com/wonny/earnings-analyzer/backend/internal/contracts"
	"github.com/wonny/earnings-analyzer/backend/internal/realtime"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// DefaultTTL is how long a run stays fresh after its last event
const DefaultTTL = 10 * time.Minute

// RunCache is an in-memory view of recent run progress
// ⭐ SSOT: 실행 진행 상태 캐싱은 이 구조체에서만
type RunCache struct {
	mu     sync.RWMutex
	runs   map[string]*realtime.RunState
	ttl    time.Duration
	logger *logger.Logger
}

// NewRunCache creates a new run cache
func NewRunCache(ttl time.Duration, log *logger.Logger) *RunCache {
	return &RunCache{
		runs:   make(map[string]*realtime.RunState),
		ttl:    ttl,
		logger: log,
	}
}

// Publish implements realtime.Publisher
func (c *RunCache) Publish(event contracts.StageEvent) {
	c.Update(event)
}

// Update applies event to its run. Older events are rejected.
func (c *RunCache) Update(event contracts.StageEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, exists := c.runs[event.RunID]
	if !exists {
		state = realtime.NewRunState(event.RunID, event.Timestamp)
		c.runs[event.RunID] = state
	} else if event.Timestamp.Before(state.UpdatedAt) {
		c.logger.WithFields(map[string]interface{}{
			"run_id":   event.RunID,
			"type":     event.Type,
			"new_time": event.Timestamp,
			"old_time": state.UpdatedAt,
		}).Debug("Rejected older run event")
		return false
	}

	state.Apply(event)
	return true
}

// Get retrieves a copy of the run state
func (c *RunCache) Get(runID string) (*realtime.RunState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state, exists := c.runs[runID]
	if !exists {
		return nil, false
	}

	out := state.Clone()
	out.IsStale = time.Since(out.UpdatedAt) > c.ttl
	return out, true
}

// Len returns the number of runs in cache
func (c *RunCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.runs)
}

// CleanStale removes runs not updated within the TTL
func (c *RunCache) CleanStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	count := 0

	for id, state := range c.runs {
		if now.Sub(state.UpdatedAt) > c.ttl {
			delete(c.runs, id)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned stale runs from cache")
	}

	return count
}

// Stats returns cache statistics
func (c *RunCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{TotalCount: len(c.runs)}
	for _, state := range c.runs {
		if state.Phase == realtime.PhaseRunning {
			stats.RunningCount++
		} else {
			stats.FinishedCount++
		}
	}
	return stats
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalCount    int `json:"total_count"`
	RunningCount  int `json:"running_count"`
	FinishedCount int `json:"finished_count"`
}
