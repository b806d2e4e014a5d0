package models

// BookingStatus is the backend's booking lifecycle value. The set is open:
// values the gateway does not know are kept verbatim.
type BookingStatus string

const (
	StatusWaitingForPayment BookingStatus = "waiting_for_payment"
	StatusPaid              BookingStatus = "paid"
	StatusCancelled         BookingStatus = "cancelled"
	StatusFailed            BookingStatus = "failed"
)

// IsTerminal reports whether the backend will not move the booking any further.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// BookingConfirmation is what the backend returns for a created or fetched booking.
type BookingConfirmation struct {
	ID            string        `json:"id"`                    // Server-assigned identifier used for status polling
	BookingNumber string        `json:"bookingNumber"`         // Human-readable number shown to the guest
	Status        BookingStatus `json:"status"`                // e.g., "waiting_for_payment", "paid"
	RedirectURL   string        `json:"redirectUrl,omitempty"` // External payment page, when payment is still due
	RoomName      string        `json:"roomName,omitempty"`
	CheckIn       string        `json:"checkIn,omitempty"`  // YYYY-MM-DD
	CheckOut      string        `json:"checkOut,omitempty"` // YYYY-MM-DD
	GuestName     string        `json:"guestName,omitempty"`
	TotalPrice    float64       `json:"totalPrice,omitempty"`
}
