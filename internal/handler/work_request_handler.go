package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/pkg/response"
)

type workRequestService interface {
	List(ctx context.Context, query dto.WorkRequestListQuery) ([]dto.WorkRequestRow, error)
	Get(ctx context.Context, id int64) (*models.WorkRequest, error)
	Create(ctx context.Context, req dto.CreateWorkRequestRequest) (*models.WorkRequest, error)
	Update(ctx context.Context, id int64, req dto.UpdateWorkRequestRequest) (*models.WorkRequest, error)
	UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) (*models.WorkRequest, error)
	Delete(ctx context.Context, id int64) error
	Move(ctx context.Context, id int64, req dto.MoveRequest) (*dto.MoveResponse, error)
}

// WorkRequestHandler exposes work request endpoints.
type WorkRequestHandler struct {
	service workRequestService
}

// NewWorkRequestHandler constructs the handler.
func NewWorkRequestHandler(svc workRequestService) *WorkRequestHandler {
	return &WorkRequestHandler{service: svc}
}

// List godoc
// @Summary List work requests
// @Description Filterable and sortable list view. An unknown program slug yields an empty list.
// @Tags WorkRequests
// @Produce json
// @Param program query string false "Program slug"
// @Param status query string false "Status filter, or All"
// @Param priority query string false "Priority filter, or All"
// @Param schoolId query string false "School ID filter, or All"
// @Param sortBy query string false "Sort column"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page number, starting at 1"
// @Param pageSize query int false "Rows per page; omitted returns every row"
// @Success 200 {object} response.Envelope
// @Router /work-requests [get]
func (h *WorkRequestHandler) List(c *gin.Context) {
	var query dto.WorkRequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	rows, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, pagination := paginate(rows, query.Page, query.PageSize)
	response.JSON(c, http.StatusOK, page, pagination)
}

// Get godoc
// @Summary Get work request
// @Tags WorkRequests
// @Produce json
// @Param id path int true "Work request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /work-requests/{id} [get]
func (h *WorkRequestHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	wr, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, wr, nil)
}

// Create godoc
// @Summary Create work request
// @Tags WorkRequests
// @Accept json
// @Produce json
// @Param payload body dto.CreateWorkRequestRequest true "Work request payload"
// @Success 201 {object} response.Envelope
// @Router /work-requests [post]
func (h *WorkRequestHandler) Create(c *gin.Context) {
	var req dto.CreateWorkRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	wr, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, wr)
}

// Update godoc
// @Summary Update work request
// @Tags WorkRequests
// @Accept json
// @Produce json
// @Param id path int true "Work request ID"
// @Param payload body dto.UpdateWorkRequestRequest true "Work request payload"
// @Success 200 {object} response.Envelope
// @Router /work-requests/{id} [put]
func (h *WorkRequestHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateWorkRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	wr, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, wr, nil)
}

// UpdateStatus godoc
// @Summary Set work request status
// @Description Direct status write without the guided board prompts.
// @Tags WorkRequests
// @Accept json
// @Produce json
// @Param id path int true "Work request ID"
// @Param payload body dto.UpdateStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /work-requests/{id}/status [patch]
func (h *WorkRequestHandler) UpdateStatus(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	wr, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, wr, nil)
}

// Delete godoc
// @Summary Delete work request
// @Tags WorkRequests
// @Param id path int true "Work request ID"
// @Success 204
// @Router /work-requests/{id} [delete]
func (h *WorkRequestHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Move godoc
// @Summary Drop a card on a board column
// @Description Moves into In Progress or On Hold open a transition modal and respond 202.
// @Tags WorkRequests
// @Accept json
// @Produce json
// @Param id path int true "Work request ID"
// @Param payload body dto.MoveRequest true "Target column"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /work-requests/{id}/move [post]
func (h *WorkRequestHandler) Move(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	result, err := h.service.Move(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Outcome == dto.MovePending {
		response.Accepted(c, result, nil)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
