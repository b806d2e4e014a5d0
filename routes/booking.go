package routes

import (
	"hotelbooking/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the guest booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/quote", hb.Quote)                              // Price a stay
		booking.POST("/availability", hb.CheckAvailability)           // Validate room and dates
		booking.DELETE("/availability/:formId", hb.ResetAvailability) // Supersede in-flight checks of a form
		booking.POST("", hb.SubmitBooking)                            // Create the reservation
		booking.GET("/confirmation", hb.Confirmation)                 // Poll until payment settles
		booking.GET("/confirmation/stream", hb.ConfirmationStream)    // Same, as server-sent events
		booking.GET("/number/:bookingNumber", hb.LookupByNumber)      // Lookup by booking number
	}
}
