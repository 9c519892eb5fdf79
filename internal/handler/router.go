package handler

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopassist/internal/model"
)

// Routes groups everything the HTTP API serves.
type Routes struct {
	Chat           *ChatHandler
	Feedback       *FeedbackHandler
	Auth           *AuthHandler
	Admin          *AdminHandler
	Tokens         TokenValidator
	Metrics        http.Handler
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the gin engine with middleware and every API route.
// Static dashboard files are added by the caller.
func NewRouter(r Routes) *gin.Engine {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(RequestID(), Logger(logger), Recovery(logger))

	corsConfig := cors.DefaultConfig()
	if len(r.AllowedOrigins) == 0 || slices.Contains(r.AllowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = r.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "shopping-assistant",
		})
	})
	if r.Metrics != nil {
		router.GET("/metrics", gin.WrapH(r.Metrics))
	}

	// Anonymous chat, kept at the root for existing clients.
	router.POST("/chat", OptionalAuth(r.Tokens), r.Chat.Chat)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", r.Auth.Register)
		authGroup.POST("/login", r.Auth.Login)
		authGroup.GET("/me", RequireAuth(r.Tokens), r.Auth.Me)
	}

	admin := router.Group("/api/admin", RequireAuth(r.Tokens), RequireRole(model.RoleAdmin))
	{
		admin.GET("/users", r.Admin.Users)
		admin.GET("/chats", r.Admin.Chats)
	}

	apiV1 := router.Group("/api/v1", RequireAuth(r.Tokens))
	{
		apiV1.POST("/chat", r.Chat.Chat)
		apiV1.POST("/chat/stream", r.Chat.ChatStream)
		apiV1.POST("/feedback", r.Feedback.Submit)
	}

	return router
}
