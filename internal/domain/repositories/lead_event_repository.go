package repositories

import (
	"context"

	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
)

// LeadEventRepository is an append-only log of lead timeline events
type LeadEventRepository interface {
	Append(ctx context.Context, event *entities.LeadEvent) error
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]*entities.LeadEvent, error)
}
