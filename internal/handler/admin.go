package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopassist/internal/model"
	"shopassist/internal/service"
)

const (
	defaultChatLimit = 50
	maxChatLimit     = 200
)

// ChatHistory reads back logged chats.
type ChatHistory interface {
	RecentChats(ctx context.Context, limit int) ([]model.ChatLogEntry, error)
}

// AdminHandler serves the admin-only endpoints.
type AdminHandler struct {
	authService *service.AuthService
	history     ChatHistory
}

// NewAdminHandler creates a new admin handler. history may be nil when the
// chat log is disabled.
func NewAdminHandler(authService *service.AuthService, history ChatHistory) *AdminHandler {
	return &AdminHandler{authService: authService, history: history}
}

// Users handles GET /api/admin/users
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users, "total": len(users)})
}

// Chats handles GET /api/admin/chats?limit=N
func (h *AdminHandler) Chats(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Chat log is not enabled"})
		return
	}

	limit := defaultChatLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid limit"})
			return
		}
		limit = min(n, maxChatLimit)
	}

	chats, err := h.history.RecentChats(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load chats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "chats": chats, "total": len(chats)})
}
