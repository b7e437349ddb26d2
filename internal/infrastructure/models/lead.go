package models

import (
	"time"

	"github.com/google/uuid"
)

type Lead struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Email        string     `gorm:"type:varchar(255);not null;index"`
	Phone        *string    `gorm:"type:varchar(50)"`
	Company      *string    `gorm:"type:varchar(255)"`
	LeadSource   string     `gorm:"type:varchar(50)"`
	Status       string     `gorm:"type:varchar(50);not null;index"`
	AssignedTo   *uuid.UUID `gorm:"type:uuid;index"` // Nullable, unassigned
	Notes        *string    `gorm:"type:text"`
	FollowUpDate *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"index"`
	UpdatedAt    time.Time
}

type LeadEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v7()"`
	LeadID     uuid.UUID `gorm:"type:uuid;not null;index"`
	EventType  string    `gorm:"type:varchar(50);not null"`
	ActorID    *string   `gorm:"type:varchar(255)"`
	FromStatus string    `gorm:"type:varchar(50)"`
	ToStatus   string    `gorm:"type:varchar(50)"`
	Notes      *string   `gorm:"type:text"`
	Metadata   string    `gorm:"type:jsonb;default:'{}'"`
	CreatedAt  time.Time `gorm:"index"`
}

func (LeadEvent) TableName() string {
	return "lead_events"
}
