//go:build embed

package main

import (
	"embed"
	"io/fs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed web/dist
var webDist embed.FS

// setupStaticFiles serves the dashboard bundled into the binary. staticDir
// is ignored.
func setupStaticFiles(router *gin.Engine, _ string, logger *zap.Logger) {
	logger.Info("Using embedded dashboard assets")

	distFS, err := fs.Sub(webDist, "web/dist")
	if err != nil {
		logger.Fatal("Failed to get dist subdirectory", zap.Error(err))
	}
	serveSPA(router, distFS)
}
