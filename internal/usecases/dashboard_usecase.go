package usecases

import (
	"context"
	"time"

	"go.uber.org/zap"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/domain/repositories"
	"leadflow.backend/pkg/logger"
	"leadflow.backend/pkg/metrics"
)

const DefaultFollowUpLimit = 5

// DashboardUsecase serves the dashboard and pipeline views from the shared cache
type DashboardUsecase struct {
	cache         *LeadCache
	memberRepo    repositories.TeamMemberRepository
	followUpLimit int
	now           func() time.Time
}

func NewDashboardUsecase(cache *LeadCache, memberRepo repositories.TeamMemberRepository, followUpLimit int) *DashboardUsecase {
	if followUpLimit <= 0 {
		followUpLimit = DefaultFollowUpLimit
	}
	return &DashboardUsecase{
		cache:         cache,
		memberRepo:    memberRepo,
		followUpLimit: followUpLimit,
		now:           time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (u *DashboardUsecase) WithClock(now func() time.Time) *DashboardUsecase {
	u.now = now
	return u
}

// GetDashboard computes the metrics and truncates upcoming follow-ups to the
// configured limit.
func (u *DashboardUsecase) GetDashboard(ctx context.Context) (*entities.DashboardMetrics, error) {
	leads, err := u.leads(ctx)
	if err != nil {
		return nil, err
	}

	m := ComputeDashboard(leads, u.now())
	if m.UnknownStatusCount > 0 {
		metrics.RecordUnknownStatus(m.UnknownStatusCount)
		logger.Warn(ctx, "Leads with unknown status excluded from dashboard",
			zap.Int("count", m.UnknownStatusCount),
			zap.Error(domainerrors.ErrUnknownStatus),
		)
	}
	if len(m.UpcomingFollowUps) > u.followUpLimit {
		m.UpcomingFollowUps = m.UpcomingFollowUps[:u.followUpLimit]
	}
	u.addTeamStats(ctx, &m)
	return &m, nil
}

// addTeamStats fills the team counts. Every listed member counts as active.
// A failed listing leaves both at zero rather than failing the dashboard.
func (u *DashboardUsecase) addTeamStats(ctx context.Context, m *entities.DashboardMetrics) {
	if u.memberRepo == nil {
		return
	}
	members, err := u.memberRepo.List(ctx, "")
	if err != nil {
		logger.Warn(ctx, "Team stats unavailable for dashboard", zap.Error(err))
		return
	}
	m.TeamMembers = len(members)
	m.ActiveMembers = len(members)
}

// GetPipeline groups the cached leads into status columns.
func (u *DashboardUsecase) GetPipeline(ctx context.Context) ([]entities.PipelineColumn, error) {
	leads, err := u.leads(ctx)
	if err != nil {
		return nil, err
	}
	return GroupPipeline(leads), nil
}

func (u *DashboardUsecase) leads(ctx context.Context) ([]*entities.Lead, error) {
	if !u.cache.Loaded() {
		if err := u.cache.Refresh(ctx); err != nil {
			return nil, mapUsecaseError(ctx, "load leads", "lead not found", err)
		}
	}
	return u.cache.Snapshot(), nil
}
