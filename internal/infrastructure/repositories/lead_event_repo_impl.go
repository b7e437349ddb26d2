package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"leadflow.backend/internal/domain/entities"
	"leadflow.backend/internal/infrastructure/models"
	"leadflow.backend/pkg/utils"
)

type LeadEventRepository struct {
	db *gorm.DB
}

func NewLeadEventRepository(db *gorm.DB) *LeadEventRepository {
	return &LeadEventRepository{db: db}
}

func (r *LeadEventRepository) Append(ctx context.Context, event *entities.LeadEvent) error {
	if event.ID == uuid.Nil {
		event.ID = utils.GenerateUUIDv7()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	metadata := "{}"
	if len(event.Metadata) > 0 {
		raw, err := json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
		metadata = string(raw)
	}

	m := &models.LeadEvent{
		ID:         event.ID,
		LeadID:     event.LeadID,
		EventType:  string(event.Type),
		ActorID:    event.ActorID.Ptr(),
		FromStatus: string(event.FromStatus),
		ToStatus:   string(event.ToStatus),
		Notes:      event.Notes.Ptr(),
		Metadata:   metadata,
		CreatedAt:  event.Timestamp,
	}
	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		return mapStoreError("event_append", err)
	}
	return nil
}

// ListByLead returns the lead's events oldest first.
func (r *LeadEventRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]*entities.LeadEvent, error) {
	var ms []models.LeadEvent
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, mapStoreError("event_list", err)
	}

	items := make([]*entities.LeadEvent, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, nil
}

func (r *LeadEventRepository) toEntity(m *models.LeadEvent) *entities.LeadEvent {
	var metadata map[string]string
	if m.Metadata != "" && m.Metadata != "{}" {
		// Corrupt metadata is dropped rather than failing the whole timeline.
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			metadata = nil
		}
	}
	return &entities.LeadEvent{
		ID:         m.ID,
		LeadID:     m.LeadID,
		Type:       entities.LeadEventType(m.EventType),
		Timestamp:  m.CreatedAt,
		ActorID:    null.StringFromPtr(m.ActorID),
		FromStatus: entities.LeadStatus(m.FromStatus),
		ToStatus:   entities.LeadStatus(m.ToStatus),
		Notes:      null.StringFromPtr(m.Notes),
		Metadata:   metadata,
	}
}
