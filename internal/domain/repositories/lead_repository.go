package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
)

// LeadRepository is the lead store adapter. Backend-side filtering may be
// partial; callers re-apply the query engine on the result.
type LeadRepository interface {
	List(ctx context.Context, filter entities.LeadFilter) ([]*entities.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Lead, error)
	Create(ctx context.Context, lead *entities.Lead) error
	Update(ctx context.Context, id uuid.UUID, patch entities.LeadPatch) (*entities.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListByAssignee(ctx context.Context, memberID uuid.UUID) ([]*entities.Lead, error)
	ClearAssignee(ctx context.Context, memberID uuid.UUID, at time.Time) (int64, error)
}
