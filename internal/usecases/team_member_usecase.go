package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/domain/repositories"
	"leadflow.backend/pkg/logger"
)

// TeamDeletePolicy decides what happens to leads owned by a deleted member
type TeamDeletePolicy string

const (
	TeamDeleteNullify TeamDeletePolicy = "nullify"
	TeamDeleteBlock   TeamDeletePolicy = "block"
)

func ParseTeamDeletePolicy(s string) TeamDeletePolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(TeamDeleteBlock)) {
		return TeamDeleteBlock
	}
	return TeamDeleteNullify
}

// TeamMemberUsecase handles team member business logic
type TeamMemberUsecase struct {
	memberRepo   repositories.TeamMemberRepository
	leadRepo     repositories.LeadRepository
	eventRepo    repositories.LeadEventRepository
	uow          repositories.UnitOfWork
	cache        *LeadCache
	policy       TeamDeletePolicy
	storeTimeout time.Duration
	now          func() time.Time
}

func NewTeamMemberUsecase(
	memberRepo repositories.TeamMemberRepository,
	leadRepo repositories.LeadRepository,
	eventRepo repositories.LeadEventRepository,
	uow repositories.UnitOfWork,
	cache *LeadCache,
	policy TeamDeletePolicy,
	storeTimeout time.Duration,
) *TeamMemberUsecase {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &TeamMemberUsecase{
		memberRepo:   memberRepo,
		leadRepo:     leadRepo,
		eventRepo:    eventRepo,
		uow:          uow,
		cache:        cache,
		policy:       policy,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (u *TeamMemberUsecase) WithClock(now func() time.Time) *TeamMemberUsecase {
	u.now = now
	return u
}

func (u *TeamMemberUsecase) ListMembers(ctx context.Context, search string) ([]*entities.TeamMember, error) {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	items, err := u.memberRepo.List(ctx, search)
	if err != nil {
		return nil, u.storeError(ctx, "list team members", err)
	}
	return items, nil
}

func (u *TeamMemberUsecase) CreateMember(ctx context.Context, input *entities.TeamMemberInput) (*entities.TeamMember, error) {
	if fields := ValidateTeamMemberInput(input); len(fields) > 0 {
		return nil, domainerrors.ValidationFailed(fields)
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	member := &entities.TeamMember{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	}
	if err := u.memberRepo.Create(ctx, member); err != nil {
		return nil, u.storeError(ctx, "create team member", err)
	}
	return member, nil
}

func (u *TeamMemberUsecase) UpdateMember(ctx context.Context, id uuid.UUID, input *entities.TeamMemberInput) (*entities.TeamMember, error) {
	if fields := ValidateTeamMemberInput(input); len(fields) > 0 {
		return nil, domainerrors.ValidationFailed(fields)
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	member, err := u.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, u.storeError(ctx, "get team member", err)
	}
	member.Name = input.Name
	member.Email = input.Email
	member.Role = input.Role
	if err := u.memberRepo.Update(ctx, member); err != nil {
		return nil, u.storeError(ctx, "update team member", err)
	}
	return member, nil
}

// DeleteMember removes a team member. Under the nullify policy the member's
// leads become unassigned in the same transaction, each with an assignment
// event; under the block policy deletion fails while leads are assigned.
func (u *TeamMemberUsecase) DeleteMember(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	if _, err := u.memberRepo.GetByID(ctx, id); err != nil {
		return u.storeError(ctx, "get team member", err)
	}

	var released []*entities.Lead
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		owned, err := u.leadRepo.ListByAssignee(txCtx, id)
		if err != nil {
			return err
		}
		if len(owned) > 0 {
			if u.policy == TeamDeleteBlock {
				return domainerrors.Conflict(domainerrors.ErrMemberHasLeads)
			}
			at := u.now()
			for _, lead := range owned {
				at = nextUpdatedAt(lead.UpdatedAt, at)
			}
			if _, err := u.leadRepo.ClearAssignee(txCtx, id, at); err != nil {
				return err
			}
			for _, lead := range owned {
				after, _ := ApplyAssignment(lead, nil, at)
				if err := u.eventRepo.Append(txCtx, assignmentEvent(txCtx, lead, after)); err != nil {
					return err
				}
				released = append(released, after)
			}
		}
		return u.memberRepo.Delete(txCtx, id)
	})
	if err != nil {
		return u.storeError(ctx, "delete team member", err)
	}

	if u.cache != nil {
		for _, lead := range released {
			u.cache.ApplyPatch(lead)
		}
	}
	logger.Info(ctx, "Team member deleted",
		zap.String("member_id", id.String()),
		zap.Int("released_leads", len(released)),
	)
	return nil
}

func (u *TeamMemberUsecase) storeError(ctx context.Context, action string, err error) error {
	return mapUsecaseError(ctx, action, "team member not found", err)
}
