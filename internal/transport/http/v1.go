package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/remesalabs/remesa-backend/internal/handler"
	"github.com/remesalabs/remesa-backend/internal/utils/config"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler, appConfig *config.AppConfig, logger *logger.Logger) {
	v1 := r.Group("/api/v1")

	transactions := v1.Group("/transactions")
	{
		transactions.POST("", h.TransactionHandler.Create)
		transactions.GET("/:id", h.TransactionHandler.Get)
	}

	admin := v1.Group("/admin", requireAdminKey(appConfig))
	{
		admin.GET("/transactions", h.TransactionHandler.List)
		admin.POST("/transactions/:id/retry-payout", h.TransactionHandler.RetryPayout)
	}

	health := v1.Group("/health")
	{
		health.GET("/db", h.HealthHandler.Database)
		health.GET("/watches", h.HealthHandler.Watches)
	}

	// health check
	r.GET("/healthz", h.HealthHandler.Basic)
}

// requireAdminKey guards admin routes with the static shared-secret header.
func requireAdminKey(appConfig *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Admin-Key")
		expected := appConfig.ApiServer.AdminAPIKey

		if expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
