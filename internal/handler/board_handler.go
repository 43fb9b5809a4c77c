package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/internal/service"
	"github.com/noah-isme/program-workboard-api/pkg/response"
)

// BoardHandler serves the derived board views.
type BoardHandler struct {
	service *service.BoardService
}

// NewBoardHandler constructs the handler.
func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{service: svc}
}

// Kanban godoc
// @Summary Kanban board
// @Tags Board
// @Produce json
// @Param program query string false "Program slug"
// @Param sort query string false "priority or date"
// @Success 200 {object} response.Envelope
// @Router /board/kanban [get]
func (h *BoardHandler) Kanban(c *gin.Context) {
	var query dto.KanbanQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	result, err := h.service.Kanban(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Hotlist godoc
// @Summary Daily hotlist
// @Tags Board
// @Produce json
// @Param program query string false "Program slug"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /board/hotlist [get]
func (h *BoardHandler) Hotlist(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.service.Hotlist(c.Request.Context(), c.Query("program"), limit), nil)
}

// Calendar godoc
// @Summary Monthly calendar
// @Tags Board
// @Produce json
// @Param program query string false "Program slug"
// @Param year query int false "Year, defaults to the current year"
// @Param month query int false "Month 1-12, defaults to the current month"
// @Success 200 {object} response.Envelope
// @Router /board/calendar [get]
func (h *BoardHandler) Calendar(c *gin.Context) {
	year, err := intQuery(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	month, err := intQuery(c, "month")
	if err != nil {
		response.Error(c, err)
		return
	}
	cal, err := h.service.Calendar(c.Request.Context(), c.Query("program"), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cal, nil)
}

// Search godoc
// @Summary Global search
// @Tags Board
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} response.Envelope
// @Router /search [get]
func (h *BoardHandler) Search(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Search(c.Request.Context(), strings.TrimSpace(c.Query("q"))), nil)
}
