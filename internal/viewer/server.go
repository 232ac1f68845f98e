package viewer

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"go-htr-bench/internal/logger"
)

// ServerConfig names the directories the viewer serves from.
type ServerConfig struct {
	ViewerDir string
	ImagesDir string
}

// NewHandler builds the viewer HTTP handler: static UI files, page
// images, the exported JSON data and the usual health/metrics endpoints.
func NewHandler(cfg ServerConfig) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), browserHeaders())

	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Static("/images", cfg.ImagesDir)
	r.StaticFile("/images_list.json", cfg.ViewerDir+"/images_list.json")
	r.StaticFile("/models_list.json", cfg.ViewerDir+"/models_list.json")
	r.StaticFile("/wer_data.json", cfg.ViewerDir+"/wer_data.json")
	r.StaticFile("/", cfg.ViewerDir+"/index.html")

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "available",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
		}).Debug("Viewer request served")
	}
}

// browserHeaders allows the viewer UI to be opened from a file:// page
// during development and keeps result data out of browser caches so a
// fresh run is visible on reload.
func browserHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Cache-Control", "no-store")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
