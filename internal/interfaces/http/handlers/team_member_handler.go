package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/interfaces/http/response"
)

// TeamMemberService is implemented by usecases.TeamMemberUsecase
type TeamMemberService interface {
	ListMembers(ctx context.Context, search string) ([]*entities.TeamMember, error)
	CreateMember(ctx context.Context, input *entities.TeamMemberInput) (*entities.TeamMember, error)
	UpdateMember(ctx context.Context, id uuid.UUID, input *entities.TeamMemberInput) (*entities.TeamMember, error)
	DeleteMember(ctx context.Context, id uuid.UUID) error
}

type TeamMemberHandler struct {
	service TeamMemberService
}

func NewTeamMemberHandler(service TeamMemberService) *TeamMemberHandler {
	return &TeamMemberHandler{service: service}
}

// ListMembers returns team members, optionally filtered by search.
// GET /api/v1/team-members
func (h *TeamMemberHandler) ListMembers(c *gin.Context) {
	items, err := h.service.ListMembers(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []*entities.TeamMember{}
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// CreateMember creates a team member.
// POST /api/v1/team-members
func (h *TeamMemberHandler) CreateMember(c *gin.Context) {
	var input entities.TeamMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	member, err := h.service.CreateMember(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"member": member})
}

// UpdateMember replaces a team member's details.
// PUT /api/v1/team-members/:id
func (h *TeamMemberHandler) UpdateMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid team member ID"))
		return
	}

	var input entities.TeamMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	member, err := h.service.UpdateMember(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"member": member})
}

// DeleteMember removes a team member.
// DELETE /api/v1/team-members/:id
func (h *TeamMemberHandler) DeleteMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid team member ID"))
		return
	}

	if err := h.service.DeleteMember(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
