package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"leadflow.backend/internal/domain/entities"
	"leadflow.backend/internal/usecases"
	"leadflow.backend/pkg/logger"
)

// DefaultRefreshSpec runs the refresh once a minute
const DefaultRefreshSpec = "@every 1m"

type leadCache interface {
	Refresh(ctx context.Context) error
	Snapshot() []*entities.Lead
}

// LeadCacheRefreshJob reloads the shared lead cache on a cron schedule
type LeadCacheRefreshJob struct {
	cache   leadCache
	spec    string
	timeout time.Duration
	now     func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewLeadCacheRefreshJob(cache leadCache, spec string, timeout time.Duration) *LeadCacheRefreshJob {
	if spec == "" {
		spec = DefaultRefreshSpec
	}
	if timeout <= 0 {
		timeout = usecases.DefaultStoreTimeout
	}
	return &LeadCacheRefreshJob{
		cache:   cache,
		spec:    spec,
		timeout: timeout,
		now:     time.Now,
	}
}

// Start schedules the job. It returns an error for an invalid spec. The
// schedule stops when ctx is cancelled or Stop is called.
func (j *LeadCacheRefreshJob) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(j.spec, func() { j.refresh(ctx) }); err != nil {
		return err
	}
	c.Start()
	j.cron = c
	logger.Info(ctx, "Lead cache refresh job started", zap.String("spec", j.spec))

	go func() {
		<-ctx.Done()
		j.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (j *LeadCacheRefreshJob) Stop() {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	logger.Info(context.Background(), "Lead cache refresh job stopped")
}

func (j *LeadCacheRefreshJob) refresh(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, j.timeout)
	defer cancel()

	if err := j.cache.Refresh(ctx); err != nil {
		logger.Warn(ctx, "Lead cache refresh failed", zap.Error(err))
		return
	}

	leads := j.cache.Snapshot()
	metrics := usecases.ComputeDashboard(leads, j.now())
	logger.Info(ctx, "Lead cache refreshed",
		zap.Int("leads", len(leads)),
		zap.Int("upcoming_follow_ups", len(metrics.UpcomingFollowUps)),
	)
}
