package handlers

import (
	"net/http"

	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest dependency health snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	if !status.CheckedAt.IsZero() && !status.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependencies": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": status})
}
