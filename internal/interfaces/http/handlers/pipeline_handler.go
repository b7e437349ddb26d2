package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leadflow.backend/internal/domain/entities"
	domainerrors "leadflow.backend/internal/domain/errors"
	"leadflow.backend/internal/interfaces/http/response"
)

// BoardService is implemented by usecases.DashboardUsecase
type BoardService interface {
	GetDashboard(ctx context.Context) (*entities.DashboardMetrics, error)
	GetPipeline(ctx context.Context) ([]entities.PipelineColumn, error)
}

// LeadMover is implemented by usecases.LeadUsecase
type LeadMover interface {
	MoveLead(ctx context.Context, id uuid.UUID, status entities.LeadStatus) (*entities.Lead, error)
}

type PipelineHandler struct {
	board BoardService
	mover LeadMover
}

func NewPipelineHandler(board BoardService, mover LeadMover) *PipelineHandler {
	return &PipelineHandler{board: board, mover: mover}
}

// GetPipeline returns the leads grouped by status column.
// GET /api/v1/pipeline
func (h *PipelineHandler) GetPipeline(c *gin.Context) {
	columns, err := h.board.GetPipeline(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"columns": columns})
}

// MoveLead handles a drag-and-drop between columns.
// POST /api/v1/pipeline/move
func (h *PipelineHandler) MoveLead(c *gin.Context) {
	var input struct {
		LeadID string `json:"leadId" binding:"required"`
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(input.LeadID))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid lead ID"))
		return
	}

	lead, err := h.mover.MoveLead(c.Request.Context(), id, entities.LeadStatus(strings.TrimSpace(input.Status)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lead": lead})
}

// GetDashboard returns the lead metrics.
// GET /api/v1/dashboard
func (h *PipelineHandler) GetDashboard(c *gin.Context) {
	metrics, err := h.board.GetDashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, metrics)
}
