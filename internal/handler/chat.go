package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopassist/internal/model"
	"shopassist/internal/service"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// Chat handles POST /chat and POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	message, ok := bindMessage(c)
	if !ok {
		return
	}

	response, err := h.chatService.HandleChat(c.Request.Context(), message, userID(c))
	if err != nil {
		h.logger.Error("chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, technicalDifficulties(err.Error()))
		return
	}

	c.JSON(http.StatusOK, response)
}

// ChatStream handles POST /api/v1/chat/stream - SSE streaming chat
func (h *ChatHandler) ChatStream(c *gin.Context) {
	message, ok := bindMessage(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, technicalDifficulties("streaming not supported"))
		return
	}

	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event string, data any) error {
		if err := sendSSE(c, event, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := send("start", map[string]any{"message": message}); err != nil {
		return
	}

	response, err := h.chatService.HandleChatStream(c.Request.Context(), message, userID(c), send)
	if err != nil {
		h.logger.Warn("chat stream aborted", zap.Error(err))
		_ = send("error", technicalDifficulties(err.Error()))
		return
	}

	_ = send("results", response)
	_ = send("done", nil)
}

// bindMessage writes the 400 response itself when it returns false. An
// empty message is valid.
func bindMessage(c *gin.Context) (string, bool) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request: " + err.Error()})
		return "", false
	}
	if req.Message == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Message is required"})
		return "", false
	}
	return strings.TrimSpace(*req.Message), true
}

func userID(c *gin.Context) string {
	if claims, ok := GetClaims(c); ok {
		return claims.UserID
	}
	return ""
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) error {
	if data == nil {
		_, err := fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return err
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		_, err = fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return err
	}
	_, err = fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, jsonData)
	return err
}
