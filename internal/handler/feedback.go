package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopassist/internal/model"
	"shopassist/internal/repository"
	"shopassist/internal/service"
)

var validActions = map[string]bool{
	"click":        true,
	"view_details": true,
	"add_to_cart":  true,
}

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	chatService *service.ChatService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(chatService *service.ChatService) *FeedbackHandler {
	return &FeedbackHandler{
		chatService: chatService,
	}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return
	}

	if !validActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid action. Must be one of: click, view_details, add_to_cart"})
		return
	}

	err := h.chatService.LogFeedback(c.Request.Context(), req.ChatID, req.ProductID, req.Action)
	switch {
	case errors.Is(err, repository.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Chat not found"})
		return
	case errors.Is(err, service.ErrChatLogDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Feedback is not enabled"})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to log feedback"})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
