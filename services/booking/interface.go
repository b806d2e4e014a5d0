package booking

import (
	"context"

	"hotelbooking/models"
)

// AvailabilityAPI validates a room and stay against the backend.
type AvailabilityAPI interface {
	CheckAvailability(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResult, error)
}

// BookingCreator creates one reservation on the backend per call.
type BookingCreator interface {
	CreateBooking(ctx context.Context, req models.ReservationRequest) (*models.BookingConfirmation, error)
}

// StatusFetcher reads the current state of a booking by its internal id.
type StatusFetcher interface {
	GetBookingByID(ctx context.Context, id string) (*models.BookingConfirmation, error)
}

// BookingAPI is the backend contract consumed by the booking workflow.
type BookingAPI interface {
	AvailabilityAPI
	BookingCreator
	StatusFetcher
	GetBookingByNumber(ctx context.Context, bookingNumber string) (*models.BookingConfirmation, error)
}
