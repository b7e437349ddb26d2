package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/infrastructure/models"
	"leadflow.backend/pkg/utils"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) List(ctx context.Context, filter entities.LeadFilter) ([]*entities.Lead, error) {
	var ms []models.Lead
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Lead{})

	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Unassigned {
		query = query.Where("assigned_to IS NULL")
	} else if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.LeadSource != "" {
		query = query.Where("lead_source = ?", string(filter.LeadSource))
	}

	if err := query.Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, mapStoreError("list", err)
	}
	return r.toEntities(ms), nil
}

func (r *LeadRepository) ListByAssignee(ctx context.Context, memberID uuid.UUID) ([]*entities.Lead, error) {
	var ms []models.Lead
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("assigned_to = ?", memberID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, mapStoreError("list_by_assignee", err)
	}
	return r.toEntities(ms), nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Lead, error) {
	var m models.Lead
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapStoreError("get", err)
	}
	return r.toEntity(&m), nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entities.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = now
	}
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = lead.CreatedAt
	}

	m := r.toModel(lead)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return mapStoreError("create", err)
	}
	return nil
}

// Update writes only the non-nil fields of patch and returns the stored lead.
func (r *LeadRepository) Update(ctx context.Context, id uuid.UUID, patch entities.LeadPatch) (*entities.Lead, error) {
	updatedAt := patch.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	updates := map[string]interface{}{
		"updated_at": updatedAt,
	}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Phone != nil {
		updates["phone"] = nullableString(*patch.Phone)
	}
	if patch.Company != nil {
		updates["company"] = nullableString(*patch.Company)
	}
	if patch.LeadSource != nil {
		updates["lead_source"] = string(*patch.LeadSource)
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if patch.AssignedTo != nil {
		if patch.AssignedTo.Valid {
			updates["assigned_to"] = patch.AssignedTo.UUID
		} else {
			updates["assigned_to"] = nil
		}
	}
	if patch.Notes != nil {
		updates["notes"] = nullableString(*patch.Notes)
	}
	if patch.FollowUpDate != nil {
		if patch.FollowUpDate.Valid {
			updates["follow_up_date"] = patch.FollowUpDate.Time
		} else {
			updates["follow_up_date"] = nil
		}
	}

	db := GetDB(ctx, r.db).WithContext(ctx)
	result := db.Model(&models.Lead{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, mapStoreError("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).Delete(&models.Lead{}, "id = ?", id)
	if result.Error != nil {
		return false, mapStoreError("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, domainerrors.ErrNotFound
	}
	return true, nil
}

// ClearAssignee unassigns every lead owned by memberID, stamping updated_at
// with at.
func (r *LeadRepository) ClearAssignee(ctx context.Context, memberID uuid.UUID, at time.Time) (int64, error) {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Lead{}).
		Where("assigned_to = ?", memberID).
		Updates(map[string]interface{}{
			"assigned_to": nil,
			"updated_at":  at,
		})
	if result.Error != nil {
		return 0, mapStoreError("clear_assignee", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *LeadRepository) toEntities(ms []models.Lead) []*entities.Lead {
	items := make([]*entities.Lead, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items
}

func (r *LeadRepository) toEntity(m *models.Lead) *entities.Lead {
	return &entities.Lead{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        null.StringFromPtr(m.Phone),
		Company:      null.StringFromPtr(m.Company),
		LeadSource:   entities.LeadSource(m.LeadSource),
		Status:       entities.LeadStatus(m.Status),
		AssignedTo:   m.AssignedTo,
		Notes:        null.StringFromPtr(m.Notes),
		FollowUpDate: null.TimeFromPtr(m.FollowUpDate),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *LeadRepository) toModel(e *entities.Lead) *models.Lead {
	var assignedTo *uuid.UUID
	if !e.IsUnassigned() {
		id := *e.AssignedTo
		assignedTo = &id
	}
	return &models.Lead{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Phone:        e.Phone.Ptr(),
		Company:      e.Company.Ptr(),
		LeadSource:   string(e.LeadSource),
		Status:       string(e.Status),
		AssignedTo:   assignedTo,
		Notes:        e.Notes.Ptr(),
		FollowUpDate: e.FollowUpDate.Ptr(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func nullableString(s null.String) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}
