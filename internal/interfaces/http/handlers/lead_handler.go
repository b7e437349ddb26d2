package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/interfaces/http/response"
	"leadflow.backend/pkg/utils"
)

// LeadService is implemented by usecases.LeadUsecase
type LeadService interface {
	CreateLead(ctx context.Context, input *entities.CreateLeadInput) (*entities.Lead, error)
	GetLead(ctx context.Context, id uuid.UUID) (*entities.Lead, error)
	ListLeads(ctx context.Context, q entities.LeadQuery) (*entities.LeadPage, error)
	UpdateLead(ctx context.Context, id uuid.UUID, input *entities.UpdateLeadInput) (*entities.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.LeadStatus) (*entities.Lead, error)
	AssignLead(ctx context.Context, id uuid.UUID, assignee *uuid.UUID) (*entities.Lead, error)
	DeleteLead(ctx context.Context, id uuid.UUID) error
	GetTimeline(ctx context.Context, id uuid.UUID) ([]*entities.LeadEvent, error)
	RecordActivity(ctx context.Context, id uuid.UUID, input *entities.RecordActivityInput) (*entities.LeadEvent, error)
}

type LeadHandler struct {
	service LeadService
}

func NewLeadHandler(service LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// ListLeads returns a filtered, sorted page of leads.
// GET /api/v1/leads
func (h *LeadHandler) ListLeads(c *gin.Context) {
	q, err := parseLeadQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.service.ListLeads(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// GetLead returns one lead.
// GET /api/v1/leads/:id
func (h *LeadHandler) GetLead(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	lead, err := h.service.GetLead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lead": lead})
}

// CreateLead creates a lead.
// POST /api/v1/leads
func (h *LeadHandler) CreateLead(c *gin.Context) {
	var input entities.CreateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	lead, err := h.service.CreateLead(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"lead": lead})
}

// UpdateLead applies a partial update.
// PATCH /api/v1/leads/:id
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	var input entities.UpdateLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	lead, err := h.service.UpdateLead(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lead": lead})
}

// UpdateStatus sets the lead status explicitly.
// PATCH /api/v1/leads/:id/status
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	lead, err := h.service.UpdateStatus(c.Request.Context(), id, entities.LeadStatus(strings.TrimSpace(input.Status)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lead": lead})
}

// AssignLead sets or clears the lead owner.
// PATCH /api/v1/leads/:id/assignee
func (h *LeadHandler) AssignLead(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	var input struct {
		AssignedTo *string `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	var assignee *uuid.UUID
	if input.AssignedTo != nil {
		parsed, err := utils.ParseOptionalUUID(*input.AssignedTo)
		if err != nil {
			response.Error(c, domainerrors.ValidationFailed(domainerrors.FieldErrors{"assignedTo": "Invalid team member"}))
			return
		}
		assignee = parsed
	}

	lead, err := h.service.AssignLead(c.Request.Context(), id, assignee)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lead": lead})
}

// DeleteLead removes a lead.
// DELETE /api/v1/leads/:id
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteLead(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetTimeline returns the lead's events oldest first.
// GET /api/v1/leads/:id/timeline
func (h *LeadHandler) GetTimeline(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	events, err := h.service.GetTimeline(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if events == nil {
		events = []*entities.LeadEvent{}
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// RecordActivity logs a note, email or call.
// POST /api/v1/leads/:id/activities
func (h *LeadHandler) RecordActivity(c *gin.Context) {
	id, ok := leadIDParam(c)
	if !ok {
		return
	}

	var input entities.RecordActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	event, err := h.service.RecordActivity(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"event": event})
}

func leadIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid lead ID"))
		return uuid.Nil, false
	}
	return id, true
}

// parseLeadQuery reads list filters. "all" or an empty value disables a
// filter; assignedTo=unassigned selects leads without an owner.
func parseLeadQuery(c *gin.Context) (entities.LeadQuery, error) {
	q := entities.LeadQuery{
		Search:        strings.TrimSpace(c.Query("search")),
		SortField:     strings.TrimSpace(c.Query("sortField")),
		SortDirection: entities.SortDirection(strings.ToLower(strings.TrimSpace(c.Query("sortDirection")))),
	}
	fields := domainerrors.FieldErrors{}

	if status := filterValue(c.Query("status")); status != "" {
		q.Status = entities.LeadStatus(status)
		if !q.Status.IsValid() {
			fields["status"] = "Unknown status"
		}
	}

	switch assignee := filterValue(c.Query("assignedTo")); {
	case assignee == "":
	case strings.EqualFold(assignee, "unassigned"):
		q.Unassigned = true
	default:
		id, err := uuid.Parse(assignee)
		if err != nil {
			fields["assignedTo"] = "Invalid team member"
		} else {
			q.AssignedTo = &id
		}
	}

	if source := filterValue(c.Query("source")); source != "" {
		q.LeadSource = entities.LeadSource(source)
		if !q.LeadSource.IsValid() {
			fields["source"] = "Unknown lead source"
		}
	}

	if q.SortField != "" && !entities.IsSortField(q.SortField) {
		fields["sortField"] = "Unknown sort field"
	}

	switch q.SortDirection {
	case "", entities.SortAsc, entities.SortDesc:
	default:
		fields["sortDirection"] = "Sort direction must be asc or desc"
	}

	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(utils.DefaultPageSize)))

	if len(fields) > 0 {
		return q, domainerrors.ValidationFailed(fields)
	}
	return q, nil
}

func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}
