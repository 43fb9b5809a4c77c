package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/program-workboard-api/internal/dto"
	"github.com/noah-isme/program-workboard-api/pkg/response"
)

type assistantService interface {
	StartChat(ctx context.Context) (*dto.ChatResponse, error)
	SendMessage(ctx context.Context, sessionID string, req dto.ChatMessageRequest) (*dto.ChatResponse, error)
	EndChat(ctx context.Context, sessionID string) error
	Summarize(ctx context.Context) (*dto.SummaryResponse, error)
}

// AssistantHandler exposes the chat assistant and the priority summary.
type AssistantHandler struct {
	service assistantService
}

// NewAssistantHandler constructs the handler.
func NewAssistantHandler(svc assistantService) *AssistantHandler {
	return &AssistantHandler{service: svc}
}

// StartChat godoc
// @Summary Start a chat session
// @Tags Assistant
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /assistant/chats [post]
func (h *AssistantHandler) StartChat(c *gin.Context) {
	chat, err := h.service.StartChat(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, chat)
}

// SendMessage godoc
// @Summary Send a chat message
// @Tags Assistant
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.ChatMessageRequest true "Message"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /assistant/chats/{id}/messages [post]
func (h *AssistantHandler) SendMessage(c *gin.Context) {
	var req dto.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	chat, err := h.service.SendMessage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chat, nil)
}

// EndChat godoc
// @Summary End a chat session
// @Tags Assistant
// @Param id path string true "Session ID"
// @Success 204
// @Router /assistant/chats/{id} [delete]
func (h *AssistantHandler) EndChat(c *gin.Context) {
	if err := h.service.EndChat(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Summarize godoc
// @Summary Summarize open work by priority
// @Tags Assistant
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /assistant/summary [post]
func (h *AssistantHandler) Summarize(c *gin.Context) {
	summary, err := h.service.Summarize(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
