package handler

import (
	"net/http"

	"Clubhouse_Hub/internal/middleware"
	"Clubhouse_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	svc *service.MessageService
}

func NewConversationHandler(svc *service.MessageService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

func (h *ConversationHandler) List(c *gin.Context) {
	list, err := h.svc.ListConversations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": list})
}

// Start 找到或创建与对方的会话
func (h *ConversationHandler) Start(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	conv, err := h.svc.StartConversation(c.Request.Context(), middleware.UserID(c), req.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func (h *ConversationHandler) Messages(c *gin.Context) {
	list, err := h.svc.ListMessages(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *ConversationHandler) Send(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	msg, err := h.svc.SendMessage(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Body)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}
