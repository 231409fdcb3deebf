package jobs

import (
	"context"

	"github.com/wonny/earnings-analyzer/backend/internal/realtime/cache"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
)

// RunCacheCleanupJob drops finished or abandoned runs from the progress cache
type RunCacheCleanupJob struct {
	cache  *cache.RunCache
	logger *logger.Logger
}

// NewRunCacheCleanupJob creates a new cache cleanup job
func NewRunCacheCleanupJob(runCache *cache.RunCache, log *logger.Logger) *RunCacheCleanupJob {
	return &RunCacheCleanupJob{
		cache:  runCache,
		logger: log,
	}
}

// Name returns the job name
func (j *RunCacheCleanupJob) Name() string {
	return "run_cache_cleanup"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *RunCacheCleanupJob) Schedule() string {
	return "0 */5 * * * *" // Every 5 minutes
}

// Run executes the cache cleanup
func (j *RunCacheCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled run cache cleanup")

	count := j.cache.CleanStale()

	if count > 0 {
		j.logger.WithField("removed", count).Info("Run cache cleanup completed")
	}

	return nil
}
