package repositories

import (
	"context"

	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
)

type TeamMemberRepository interface {
	Create(ctx context.Context, member *entities.TeamMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TeamMember, error)
	List(ctx context.Context, search string) ([]*entities.TeamMember, error)
	Update(ctx context.Context, member *entities.TeamMember) error
	Delete(ctx context.Context, id uuid.UUID) error
}
