package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/service"
	"github.com/noah-isme/program-workboard-api/pkg/response"
)

type transitionService interface {
	SubmitTransition(ctx context.Context, req dto.SubmitTransitionRequest) (*models.WorkRequest, error)
	CancelTransition(ctx context.Context)
}

// UIHandler exposes the shell state and the modal.
type UIHandler struct {
	ui          *service.UIService
	transitions transitionService
}

// NewUIHandler constructs the handler.
func NewUIHandler(ui *service.UIService, transitions transitionService) *UIHandler {
	return &UIHandler{ui: ui, transitions: transitions}
}

// State godoc
// @Summary UI state
// @Tags UI
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ui/state [get]
func (h *UIHandler) State(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.ui.State(c.Request.Context()), nil)
}

// UpdateState godoc
// @Summary Update sidebar or zoom
// @Tags UI
// @Accept json
// @Produce json
// @Param payload body dto.UIStateRequest true "UI state"
// @Success 200 {object} response.Envelope
// @Router /ui/state [put]
func (h *UIHandler) UpdateState(c *gin.Context) {
	var req dto.UIStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	state, err := h.ui.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// ActiveModal godoc
// @Summary Active modal
// @Tags UI
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ui/modal [get]
func (h *UIHandler) ActiveModal(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.ui.ActiveModal(c.Request.Context()), nil)
}

// OpenModal godoc
// @Summary Open a create or edit modal
// @Tags UI
// @Accept json
// @Produce json
// @Param payload body dto.OpenModalRequest true "Modal"
// @Success 200 {object} response.Envelope
// @Router /ui/modal [put]
func (h *UIHandler) OpenModal(c *gin.Context) {
	var req dto.OpenModalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	modal, err := h.ui.OpenModal(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modal, nil)
}

// SubmitTransition godoc
// @Summary Submit the pending transition modal
// @Description Completes a board move into In Progress or On Hold.
// @Tags UI
// @Accept json
// @Produce json
// @Param payload body dto.SubmitTransitionRequest true "Transition input"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /ui/modal [post]
func (h *UIHandler) SubmitTransition(c *gin.Context) {
	var req dto.SubmitTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	wr, err := h.transitions.SubmitTransition(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, wr, nil)
}

// CloseModal godoc
// @Summary Close the active modal
// @Description A pending transition is abandoned and the request keeps its status.
// @Tags UI
// @Success 204
// @Router /ui/modal [delete]
func (h *UIHandler) CloseModal(c *gin.Context) {
	h.transitions.CancelTransition(c.Request.Context())
	response.NoContent(c)
}
