//go:build !embed

package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStaticFiles serves a built dashboard from staticDir when it exists;
// otherwise unknown routes point at the separately running dev server.
func setupStaticFiles(router *gin.Engine, staticDir string, logger *zap.Logger) {
	index := filepath.Join(staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		logger.Info("Dashboard build not found, expecting a separate dev server",
			zap.String("static_dir", staticDir))
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "API endpoint not found"})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"message": "Dashboard is running separately",
				"dev_url": "http://localhost:5173",
				"hint":    "Run 'npm run dev' in the dashboard directory",
			})
		})
		return
	}

	logger.Info("Serving dashboard from filesystem", zap.String("static_dir", staticDir))
	serveSPA(router, os.DirFS(staticDir))
}
