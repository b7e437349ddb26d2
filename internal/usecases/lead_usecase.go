package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/domain/repositories"
	"leadflow.backend/pkg/logger"
	"leadflow.backend/pkg/metrics"
	"leadflow.backend/pkg/utils"
)

const DefaultStoreTimeout = 15 * time.Second

// LeadUsecaseConfig holds the lead lifecycle settings
type LeadUsecaseConfig struct {
	Rules        ValidationRules
	Transition   TransitionOptions
	StoreTimeout time.Duration
}

// LeadUsecase orchestrates lead mutations: validate, derive, persist together
// with the timeline event, then patch the shared cache.
type LeadUsecase struct {
	leadRepo   repositories.LeadRepository
	eventRepo  repositories.LeadEventRepository
	memberRepo repositories.TeamMemberRepository
	uow        repositories.UnitOfWork
	cache      *LeadCache
	cfg        LeadUsecaseConfig
	now        func() time.Time
}

// NewLeadUsecase creates a new lead usecase
func NewLeadUsecase(
	leadRepo repositories.LeadRepository,
	eventRepo repositories.LeadEventRepository,
	memberRepo repositories.TeamMemberRepository,
	uow repositories.UnitOfWork,
	cache *LeadCache,
	cfg LeadUsecaseConfig,
) *LeadUsecase {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = DefaultStoreTimeout
	}
	if cfg.Transition.FollowUpWindow <= 0 {
		cfg.Transition.FollowUpWindow = DefaultFollowUpWindow
	}
	if cfg.Transition.Policy == nil {
		cfg.Transition.Policy = PermitAllPolicy{}
	}
	return &LeadUsecase{
		leadRepo:   leadRepo,
		eventRepo:  eventRepo,
		memberRepo: memberRepo,
		uow:        uow,
		cache:      cache,
		cfg:        cfg,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (u *LeadUsecase) WithClock(now func() time.Time) *LeadUsecase {
	u.now = now
	return u
}

// CreateLead validates input and stores a new lead with its creation event.
func (u *LeadUsecase) CreateLead(ctx context.Context, input *entities.CreateLeadInput) (*entities.Lead, error) {
	if fields := ValidateLeadInput(input, u.cfg.Rules); len(fields) > 0 {
		logger.Debug(ctx, "Lead input rejected", zap.Any("fields", fields))
		return nil, domainerrors.ValidationFailed(fields)
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	if err := u.ensureMember(ctx, input.AssignedTo); err != nil {
		return nil, err
	}

	status := entities.LeadStatusNew
	if input.Status != "" {
		status = entities.LeadStatus(input.Status)
	}

	now := u.now()
	lead := &entities.Lead{
		ID:         utils.GenerateUUIDv7(),
		Name:       input.Name,
		Email:      input.Email,
		LeadSource: entities.LeadSource(input.LeadSource),
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if input.Phone != "" {
		lead.Phone.SetValid(input.Phone)
	}
	if input.Company != "" {
		lead.Company.SetValid(input.Company)
	}
	if input.Notes != "" {
		lead.Notes.SetValid(input.Notes)
	}
	if input.AssignedTo != nil && *input.AssignedTo != uuid.Nil {
		id := *input.AssignedTo
		lead.AssignedTo = &id
	}
	if status == entities.LeadStatusContacted {
		lead.FollowUpDate.SetValid(now.Add(u.cfg.Transition.FollowUpWindow))
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.leadRepo.Create(txCtx, lead); err != nil {
			return err
		}
		return u.eventRepo.Append(txCtx, createdEvent(txCtx, lead))
	})
	if err != nil {
		return nil, u.storeError(ctx, "create lead", err)
	}

	if u.cache != nil {
		u.cache.ApplyPatch(lead)
	}
	metrics.RecordLeadCreated()
	logger.Info(ctx, "Lead created", zap.String("lead_id", lead.ID.String()), zap.String("status", string(lead.Status)))
	return lead, nil
}

// GetLead returns a single lead
func (u *LeadUsecase) GetLead(ctx context.Context, id uuid.UUID) (*entities.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	lead, err := u.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, u.storeError(ctx, "get lead", err)
	}
	return lead, nil
}

// ListLeads lists leads from the store and applies the query engine on top,
// since the store may filter only partially.
func (u *LeadUsecase) ListLeads(ctx context.Context, q entities.LeadQuery) (*entities.LeadPage, error) {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	leads, err := u.leadRepo.List(ctx, q.Filter())
	if err != nil {
		return nil, u.storeError(ctx, "list leads", err)
	}
	page := QueryLeads(leads, q)
	return &page, nil
}

// UpdateLead applies a partial update. A status change goes through the
// transition rules; a repeated status is ignored rather than rejected.
func (u *LeadUsecase) UpdateLead(ctx context.Context, id uuid.UUID, input *entities.UpdateLeadInput) (*entities.Lead, error) {
	if fields := ValidateLeadUpdate(input, u.cfg.Rules); len(fields) > 0 {
		logger.Debug(ctx, "Lead update rejected", zap.Any("fields", fields))
		return nil, domainerrors.ValidationFailed(fields)
	}

	var assignee *uuid.UUID
	if input.AssignedTo != nil {
		parsed, err := utils.ParseOptionalUUID(*input.AssignedTo)
		if err != nil {
			return nil, domainerrors.ValidationFailed(domainerrors.FieldErrors{"assignedTo": "Invalid team member id"})
		}
		assignee = parsed
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	current, err := u.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, u.storeError(ctx, "get lead", err)
	}

	now := u.now()
	after := current.Clone()
	if input.Name != nil {
		after.Name = *input.Name
	}
	if input.Email != nil {
		after.Email = *input.Email
	}
	if input.Phone != nil {
		after.Phone = optionalString(*input.Phone)
	}
	if input.Company != nil {
		after.Company = optionalString(*input.Company)
	}
	if input.LeadSource != nil {
		after.LeadSource = entities.LeadSource(*input.LeadSource)
	}
	if input.Notes != nil {
		after.Notes = optionalString(*input.Notes)
	}
	if input.Status != nil && entities.LeadStatus(*input.Status) != current.Status {
		after, err = ApplyTransition(after, entities.LeadStatus(*input.Status), now, u.cfg.Transition)
		if err != nil {
			return nil, err
		}
	}
	if input.AssignedTo != nil {
		if err := u.ensureMember(ctx, assignee); err != nil {
			return nil, err
		}
		after, _ = ApplyAssignment(after, assignee, now)
	}
	after.UpdatedAt = nextUpdatedAt(current.UpdatedAt, now)

	return u.persist(ctx, current, after)
}

// UpdateStatus moves a lead to status. Setting the current status again is
// rejected with ErrNoOpTransition.
func (u *LeadUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.LeadStatus) (*entities.Lead, error) {
	updated, err := u.changeStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if u.cache != nil {
		u.cache.ApplyPatch(updated)
	}
	return updated, nil
}

// MoveLead is the drag-and-drop status change. The cache reflects the move
// only after the store accepted it.
func (u *LeadUsecase) MoveLead(ctx context.Context, id uuid.UUID, status entities.LeadStatus) (*entities.Lead, error) {
	if u.cache == nil {
		return u.changeStatus(ctx, id, status)
	}
	return u.cache.Move(ctx, id, func(ctx context.Context) (*entities.Lead, error) {
		return u.changeStatus(ctx, id, status)
	})
}

func (u *LeadUsecase) changeStatus(ctx context.Context, id uuid.UUID, status entities.LeadStatus) (*entities.Lead, error) {
	if !status.IsValid() {
		return nil, domainerrors.ValidationFailed(domainerrors.FieldErrors{"status": statusMessage})
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	current, err := u.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, u.storeError(ctx, "get lead", err)
	}
	after, err := ApplyTransition(current, status, u.now(), u.cfg.Transition)
	if err != nil {
		return nil, err
	}
	return u.write(ctx, current, after)
}

// AssignLead changes the lead owner. A nil assignee unassigns it.
func (u *LeadUsecase) AssignLead(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*entities.Lead, error) {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	current, err := u.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, u.storeError(ctx, "get lead", err)
	}
	if err := u.ensureMember(ctx, assignee); err != nil {
		return nil, err
	}
	after, changed := ApplyAssignment(current, assignee, u.now())
	if !changed {
		return current, nil
	}
	return u.persist(ctx, current, after)
}

// DeleteLead removes a lead. Its timeline is kept.
func (u *LeadUsecase) DeleteLead(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	if _, err := u.leadRepo.Delete(ctx, id); err != nil {
		return u.storeError(ctx, "delete lead", err)
	}
	if u.cache != nil {
		u.cache.Remove(id)
	}
	logger.Info(ctx, "Lead deleted", zap.String("lead_id", id.String()))
	return nil
}

// GetTimeline returns the lead's events oldest first.
func (u *LeadUsecase) GetTimeline(ctx context.Context, id uuid.UUID) ([]*entities.LeadEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	if _, err := u.leadRepo.GetByID(ctx, id); err != nil {
		return nil, u.storeError(ctx, "get lead", err)
	}
	events, err := u.eventRepo.ListByLead(ctx, id)
	if err != nil {
		return nil, u.storeError(ctx, "list timeline", err)
	}
	return events, nil
}

// RecordActivity appends a manual note, email or call entry.
func (u *LeadUsecase) RecordActivity(ctx context.Context, id uuid.UUID, input *entities.RecordActivityInput) (*entities.LeadEvent, error) {
	if !input.Type.IsManual() {
		return nil, domainerrors.ValidationFailed(domainerrors.FieldErrors{"type": "Activity type must be one of note, email, call"})
	}

	ctx, cancel := context.WithTimeout(ctx, u.cfg.StoreTimeout)
	defer cancel()

	lead, err := u.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, u.storeError(ctx, "get lead", err)
	}
	ev := activityEvent(ctx, lead, input, u.now())
	if err := u.eventRepo.Append(ctx, ev); err != nil {
		return nil, u.storeError(ctx, "record activity", err)
	}
	return ev, nil
}

// persist writes after and patches the cache.
func (u *LeadUsecase) persist(ctx context.Context, before, after *entities.Lead) (*entities.Lead, error) {
	updated, err := u.write(ctx, before, after)
	if err != nil {
		return nil, err
	}
	if updated != before && u.cache != nil {
		u.cache.ApplyPatch(updated)
	}
	return updated, nil
}

// write stores the diff between before and after together with its timeline
// events. An empty diff performs no write and returns before.
func (u *LeadUsecase) write(ctx context.Context, before, after *entities.Lead) (*entities.Lead, error) {
	patch := entities.DiffLead(before, after)
	if patch.IsEmpty() {
		return before, nil
	}

	var updated *entities.Lead
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = u.leadRepo.Update(txCtx, before.ID, patch)
		if err != nil {
			return err
		}
		for _, ev := range mutationEvents(txCtx, before, updated) {
			if err := u.eventRepo.Append(txCtx, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, u.storeError(ctx, "update lead", err)
	}

	if patch.Status != nil {
		metrics.RecordStatusTransition(string(*patch.Status))
		logger.Info(ctx, "Lead status changed",
			zap.String("lead_id", before.ID.String()),
			zap.String("from", string(before.Status)),
			zap.String("to", string(updated.Status)),
		)
	}
	return updated, nil
}

func (u *LeadUsecase) ensureMember(ctx context.Context, id *uuid.UUID) error {
	if id == nil || *id == uuid.Nil || u.memberRepo == nil {
		return nil
	}
	if _, err := u.memberRepo.GetByID(ctx, *id); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ValidationFailed(domainerrors.FieldErrors{"assignedTo": "Team member not found"})
		}
		return u.storeError(ctx, "get team member", err)
	}
	return nil
}

// storeError maps a store failure to the error returned to callers and logs
// the ones that are not caused by the request itself.
func (u *LeadUsecase) storeError(ctx context.Context, action string, err error) error {
	return mapUsecaseError(ctx, action, "lead not found", err)
}

func mapUsecaseError(ctx context.Context, action, notFoundMsg string, err error) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(notFoundMsg)
	}
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		if domainerrors.IsValidation(appErr) {
			logger.Debug(ctx, "Rejected "+action, zap.Any("fields", appErr.Fields))
			return appErr
		}
		if appErr.Status >= 500 {
			logger.Error(ctx, "Failed to "+action, zap.Error(err))
		}
		return appErr
	}
	logger.Error(ctx, "Failed to "+action, zap.Error(err))
	return domainerrors.PersistenceFailed(err)
}

func optionalString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}
