package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/musemap/trip-service/internal/catalog"
	"github.com/musemap/trip-service/internal/visits"
)

// Global service instances (initialized by the application)
var (
	visitService  *visits.Service
	museumCatalog catalog.Source
)

// Init wires the handler package to its services.
// This should be called during application startup.
func Init(svc *visits.Service, source catalog.Source) {
	visitService = svc
	museumCatalog = source
}

// userID reads the caller identity forwarded by the gateway. Internal
// endpoints trust the header; end-user authentication happens upstream.
func userID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header is required"})
		return "", false
	}
	return id, true
}
