package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Catalog  string `json:"catalog"`
}

// HealthCheck handles the health check endpoint
func HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status: "ok",
	}

	// Check database connection
	if database.Pool() != nil {
		err := database.Status(c.Request.Context())
		if err != nil {
			response.Database = "disconnected"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response.Database = "connected"
	} else {
		response.Database = "not configured"
	}

	// Check catalog freshness
	response.Catalog = "ok"
	if cached, ok := museumCatalog.(*catalog.CachedSource); ok {
		if !cached.IsHealthy(c.Request.Context()) {
			response.Catalog = "stale"
			response.Status = "degraded"
		}
	}

	c.JSON(http.StatusOK, response)
}
