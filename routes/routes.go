package routes

import (
	"time"

	"hotelbooking/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers health-check and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
	if hb.Metrics != nil {
		r.GET("/metrics", hb.Metrics)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowOrigins []string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !containsWildcard(allowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
