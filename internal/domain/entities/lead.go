package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// LeadStatus represents a lead's position in the pipeline
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusQualified LeadStatus = "Qualified"
	LeadStatusWon       LeadStatus = "Won"
	LeadStatusLost      LeadStatus = "Lost"
)

// LeadStatuses lists the canonical statuses in pipeline column order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusWon,
	LeadStatusLost,
}

// IsValid reports whether s is one of the canonical statuses.
func (s LeadStatus) IsValid() bool {
	return s.Rank() >= 0
}

// Rank returns the pipeline position of s, or -1 when s is unknown.
func (s LeadStatus) Rank() int {
	for i, status := range LeadStatuses {
		if status == s {
			return i
		}
	}
	return -1
}

// LeadSource represents where a lead came from
type LeadSource string

const (
	LeadSourceWebsite       LeadSource = "Website"
	LeadSourceSocialMedia   LeadSource = "Social Media"
	LeadSourceEmailCampaign LeadSource = "Email Campaign"
	LeadSourceReferral      LeadSource = "Referral"
	LeadSourceColdCall      LeadSource = "Cold Call"
	LeadSourceTradeShow     LeadSource = "Trade Show"
	LeadSourceOther         LeadSource = "Other"
)

var LeadSources = []LeadSource{
	LeadSourceWebsite,
	LeadSourceSocialMedia,
	LeadSourceEmailCampaign,
	LeadSourceReferral,
	LeadSourceColdCall,
	LeadSourceTradeShow,
	LeadSourceOther,
}

// IsValid reports whether s is a known source. The empty source is valid (unset).
func (s LeadSource) IsValid() bool {
	if s == "" {
		return true
	}
	for _, src := range LeadSources {
		if src == s {
			return true
		}
	}
	return false
}

// Lead represents a sales prospect tracked through the pipeline
type Lead struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        null.String `json:"phone"`
	Company      null.String `json:"company"`
	LeadSource   LeadSource  `json:"leadSource,omitempty"`
	Status       LeadStatus  `json:"status"`
	AssignedTo   *uuid.UUID  `json:"assignedTo"`
	Notes        null.String `json:"notes"`
	FollowUpDate null.Time   `json:"followUpDate"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Clone returns a deep copy of the lead.
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	c := *l
	if l.AssignedTo != nil {
		id := *l.AssignedTo
		c.AssignedTo = &id
	}
	return &c
}

// IsUnassigned reports whether no team member owns the lead.
func (l *Lead) IsUnassigned() bool {
	return l.AssignedTo == nil || *l.AssignedTo == uuid.Nil
}

// CreateLeadInput represents input for creating a lead
type CreateLeadInput struct {
	Name       string     `json:"name" validate:"required"`
	Email      string     `json:"email" validate:"required,leademail"`
	Phone      string     `json:"phone" validate:"omitempty,leadphone"`
	Company    string     `json:"company"`
	LeadSource string     `json:"leadSource" validate:"omitempty,leadsource"`
	Status     string     `json:"status" validate:"omitempty,leadstatus"`
	AssignedTo *uuid.UUID `json:"assignedTo"`
	Notes      string     `json:"notes"`
}

// UpdateLeadInput represents a partial update; nil fields are left untouched.
// An empty AssignedTo string unassigns the lead.
type UpdateLeadInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Company    *string `json:"company"`
	LeadSource *string `json:"leadSource"`
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
	Notes      *string `json:"notes"`
}

// LeadPatch is the store-level patch. Only non-nil fields are written;
// UpdatedAt is always written.
type LeadPatch struct {
	Name         *string
	Email        *string
	Phone        *null.String
	Company      *null.String
	LeadSource   *LeadSource
	Status       *LeadStatus
	AssignedTo   *uuid.NullUUID
	Notes        *null.String
	FollowUpDate *null.Time
	UpdatedAt    time.Time
}

// IsEmpty reports whether the patch changes nothing besides UpdatedAt.
func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Company == nil &&
		p.LeadSource == nil && p.Status == nil && p.AssignedTo == nil &&
		p.Notes == nil && p.FollowUpDate == nil
}

// DiffLead builds the patch that turns before into after.
func DiffLead(before, after *Lead) LeadPatch {
	p := LeadPatch{UpdatedAt: after.UpdatedAt}
	if before.Name != after.Name {
		v := after.Name
		p.Name = &v
	}
	if before.Email != after.Email {
		v := after.Email
		p.Email = &v
	}
	if before.Phone != after.Phone {
		v := after.Phone
		p.Phone = &v
	}
	if before.Company != after.Company {
		v := after.Company
		p.Company = &v
	}
	if before.LeadSource != after.LeadSource {
		v := after.LeadSource
		p.LeadSource = &v
	}
	if before.Status != after.Status {
		v := after.Status
		p.Status = &v
	}
	if !sameAssignee(before.AssignedTo, after.AssignedTo) {
		v := uuid.NullUUID{}
		if after.AssignedTo != nil {
			v = uuid.NullUUID{UUID: *after.AssignedTo, Valid: true}
		}
		p.AssignedTo = &v
	}
	if before.Notes != after.Notes {
		v := after.Notes
		p.Notes = &v
	}
	if before.FollowUpDate.Valid != after.FollowUpDate.Valid ||
		!before.FollowUpDate.Time.Equal(after.FollowUpDate.Time) {
		v := after.FollowUpDate
		p.FollowUpDate = &v
	}
	return p
}

func sameAssignee(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// LeadFilter narrows a store listing. Empty fields do not filter. Free-text
// search is never pushed to the store since database case folding differs
// from the query engine's.
type LeadFilter struct {
	Status     LeadStatus
	AssignedTo *uuid.UUID
	Unassigned bool
	LeadSource LeadSource
}
