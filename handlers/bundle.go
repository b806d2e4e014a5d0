// File: hotelbooking/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	Quote              gin.HandlerFunc
	CheckAvailability  gin.HandlerFunc
	ResetAvailability  gin.HandlerFunc
	SubmitBooking      gin.HandlerFunc
	Confirmation       gin.HandlerFunc
	ConfirmationStream gin.HandlerFunc
	LookupByNumber     gin.HandlerFunc

	// Operational endpoints
	Health  gin.HandlerFunc
	Metrics gin.HandlerFunc
}

// NewHandlerBundle wires a BookingHandler into a bundle.
func NewHandlerBundle(bh *BookingHandler, health, metrics gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		Quote:              bh.Quote,
		CheckAvailability:  bh.CheckAvailability,
		ResetAvailability:  bh.InvalidateAvailability,
		SubmitBooking:      bh.SubmitBooking,
		Confirmation:       bh.Confirmation,
		ConfirmationStream: bh.ConfirmationStream,
		LookupByNumber:     bh.LookupByNumber,
		Health:             health,
		Metrics:            metrics,
	}
}
