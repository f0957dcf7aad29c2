package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/remesalabs/remesa-backend/internal/utils/logger"
	"github.com/remesalabs/remesa-backend/internal/watcher"
)

type IHandler interface {
	Basic(c *gin.Context)
	Database(c *gin.Context)
	Watches(c *gin.Context)
}

type BasicHealthResponse struct {
	Message string `json:"message"`
}

type WatchesResponse struct {
	Active int      `json:"active"`
	IDs    []string `json:"ids"`
}

type handler struct {
	db       *gorm.DB
	registry *watcher.Registry
	logger   *logger.Logger
}

func New(db *gorm.DB, registry *watcher.Registry, logger *logger.Logger) IHandler {
	return &handler{
		db:       db,
		registry: registry,
		logger:   logger,
	}
}

func (h *handler) Basic(c *gin.Context) {
	c.JSON(http.StatusOK, BasicHealthResponse{Message: "ok"})
}

func (h *handler) Database(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database connection not available"})
		return
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		h.logger.Error("[Database][PingContext]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unreachable"})
		return
	}

	c.JSON(http.StatusOK, BasicHealthResponse{Message: "ok"})
}

// Watches exposes the live watch registry for operators.
func (h *handler) Watches(c *gin.Context) {
	c.JSON(http.StatusOK, WatchesResponse{
		Active: h.registry.Count(),
		IDs:    h.registry.Active(),
	})
}
