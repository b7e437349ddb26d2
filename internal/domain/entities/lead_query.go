package entities

import "github.com/google/uuid"

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sortable lead fields
const (
	SortFieldName         = "name"
	SortFieldEmail        = "email"
	SortFieldPhone        = "phone"
	SortFieldCompany      = "company"
	SortFieldNotes        = "notes"
	SortFieldStatus       = "status"
	SortFieldLeadSource   = "leadSource"
	SortFieldAssignedTo   = "assignedTo"
	SortFieldCreatedAt    = "createdAt"
	SortFieldUpdatedAt    = "updatedAt"
	SortFieldFollowUpDate = "followUpDate"

	// SortFieldStatusRank orders by pipeline position instead of status name.
	SortFieldStatusRank = "statusRank"
)

var sortFields = map[string]struct{}{
	SortFieldName:         {},
	SortFieldEmail:        {},
	SortFieldPhone:        {},
	SortFieldCompany:      {},
	SortFieldNotes:        {},
	SortFieldStatus:       {},
	SortFieldLeadSource:   {},
	SortFieldAssignedTo:   {},
	SortFieldCreatedAt:    {},
	SortFieldUpdatedAt:    {},
	SortFieldFollowUpDate: {},
	SortFieldStatusRank:   {},
}

// IsSortField reports whether field names a sortable lead column.
func IsSortField(field string) bool {
	_, ok := sortFields[field]
	return ok
}

// LeadQuery describes a filtered, sorted and paginated view over leads.
type LeadQuery struct {
	Search        string
	Status        LeadStatus
	AssignedTo    *uuid.UUID
	Unassigned    bool
	LeadSource    LeadSource
	SortField     string
	SortDirection SortDirection
	Page          int
	PageSize      int
}

// Filter returns the store-level part of the query.
func (q LeadQuery) Filter() LeadFilter {
	return LeadFilter{
		Status:     q.Status,
		AssignedTo: q.AssignedTo,
		Unassigned: q.Unassigned,
		LeadSource: q.LeadSource,
	}
}

// LeadPage is one page of a lead query.
type LeadPage struct {
	Items      []*Lead `json:"items"`
	TotalCount int     `json:"totalCount"`
	TotalPages int     `json:"totalPages"`
	Page       int     `json:"page"`
}
