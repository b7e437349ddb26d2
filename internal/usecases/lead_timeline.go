package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"leadflow.backend/internal/domain/entities"
	"leadflow.backend/pkg/logger"
	"leadflow.backend/pkg/utils"
)

// actorFromContext returns the acting user set by the request middleware.
func actorFromContext(ctx context.Context) null.String {
	if actor, ok := ctx.Value(logger.ActorIDKey).(string); ok && actor != "" {
		return null.StringFrom(actor)
	}
	return null.String{}
}

func newLeadEvent(ctx context.Context, leadID uuid.UUID, eventType entities.LeadEventType, at time.Time) *entities.LeadEvent {
	return &entities.LeadEvent{
		ID:        utils.GenerateUUIDv7(),
		LeadID:    leadID,
		Type:      eventType,
		Timestamp: at,
		ActorID:   actorFromContext(ctx),
	}
}

func createdEvent(ctx context.Context, lead *entities.Lead) *entities.LeadEvent {
	ev := newLeadEvent(ctx, lead.ID, entities.LeadEventCreated, lead.CreatedAt)
	ev.ToStatus = lead.Status
	if lead.Notes.Valid {
		ev.Notes = lead.Notes
	}
	return ev
}

func statusChangeEvent(ctx context.Context, before, after *entities.Lead) *entities.LeadEvent {
	ev := newLeadEvent(ctx, after.ID, entities.LeadEventStatusChange, after.UpdatedAt)
	ev.FromStatus = before.Status
	ev.ToStatus = after.Status
	if after.FollowUpDate.Valid {
		ev.Metadata = map[string]string{"followUpDate": after.FollowUpDate.Time.UTC().Format(time.RFC3339)}
	}
	return ev
}

func assignmentEvent(ctx context.Context, before, after *entities.Lead) *entities.LeadEvent {
	ev := newLeadEvent(ctx, after.ID, entities.LeadEventAssignment, after.UpdatedAt)
	ev.Metadata = map[string]string{
		"assignedTo":       assigneeLabel(after),
		"previousAssignee": assigneeLabel(before),
	}
	return ev
}

func noteEvent(ctx context.Context, lead *entities.Lead) *entities.LeadEvent {
	ev := newLeadEvent(ctx, lead.ID, entities.LeadEventNote, lead.UpdatedAt)
	ev.Notes = lead.Notes
	return ev
}

func activityEvent(ctx context.Context, lead *entities.Lead, input *entities.RecordActivityInput, at time.Time) *entities.LeadEvent {
	ev := newLeadEvent(ctx, lead.ID, input.Type, at)
	if input.Notes != "" {
		ev.Notes = null.StringFrom(input.Notes)
	}
	if len(input.Metadata) > 0 {
		ev.Metadata = make(map[string]string, len(input.Metadata))
		for k, v := range input.Metadata {
			ev.Metadata[k] = v
		}
	}
	return ev
}

// mutationEvents returns the timeline entries describing before -> after.
func mutationEvents(ctx context.Context, before, after *entities.Lead) []*entities.LeadEvent {
	var events []*entities.LeadEvent
	if before.Status != after.Status {
		events = append(events, statusChangeEvent(ctx, before, after))
	}
	if !sameAssignee(before, after) {
		events = append(events, assignmentEvent(ctx, before, after))
	}
	if before.Notes != after.Notes && after.Notes.Valid && after.Notes.String != "" {
		events = append(events, noteEvent(ctx, after))
	}
	return events
}

func sameAssignee(a, b *entities.Lead) bool {
	if a.IsUnassigned() || b.IsUnassigned() {
		return a.IsUnassigned() == b.IsUnassigned()
	}
	return *a.AssignedTo == *b.AssignedTo
}

func assigneeLabel(l *entities.Lead) string {
	if l.IsUnassigned() {
		return "unassigned"
	}
	return l.AssignedTo.String()
}
