package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/infrastructure/models"
	"leadflow.backend/pkg/utils"
)

type TeamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

func (r *TeamMemberRepository) Create(ctx context.Context, member *entities.TeamMember) error {
	if member.ID == uuid.Nil {
		member.ID = utils.GenerateUUIDv7()
	}
	m := r.toModel(member)
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return mapStoreError("team_create", err)
	}
	member.CreatedAt = m.CreatedAt
	member.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TeamMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TeamMember, error) {
	var m models.TeamMember
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, mapStoreError("team_get", err)
	}
	return r.toEntity(&m), nil
}

func (r *TeamMemberRepository) List(ctx context.Context, search string) ([]*entities.TeamMember, error) {
	var ms []models.TeamMember
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.TeamMember{})
	if strings.TrimSpace(search) != "" {
		term := likeTerm(search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(role) LIKE ?", term, term, term)
	}
	if err := query.Order("name ASC, created_at ASC").Find(&ms).Error; err != nil {
		return nil, mapStoreError("team_list", err)
	}

	items := make([]*entities.TeamMember, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *TeamMemberRepository) Update(ctx context.Context, member *entities.TeamMember) error {
	updatedAt := time.Now()
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.TeamMember{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"name":       member.Name,
			"email":      member.Email,
			"role":       member.Role,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return mapStoreError("team_update", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	member.UpdatedAt = updatedAt
	return nil
}

func (r *TeamMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).Delete(&models.TeamMember{}, "id = ?", id)
	if result.Error != nil {
		return mapStoreError("team_delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TeamMemberRepository) toEntity(m *models.TeamMember) *entities.TeamMember {
	return &entities.TeamMember{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *TeamMemberRepository) toModel(e *entities.TeamMember) *models.TeamMember {
	return &models.TeamMember{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
