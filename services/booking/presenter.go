package booking

import "hotelbooking/models"

// View is what the confirmation page shows for a poll state.
type View struct {
	Phase   models.PollPhase `json:"phase"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Booking *BookingSummary  `json:"booking,omitempty"`
}

// BookingSummary is the booking detail block of a successful confirmation.
type BookingSummary struct {
	BookingNumber string  `json:"bookingNumber"`
	RoomName      string  `json:"roomName,omitempty"`
	CheckIn       string  `json:"checkIn,omitempty"`
	CheckOut      string  `json:"checkOut,omitempty"`
	GuestName     string  `json:"guestName,omitempty"`
	TotalPrice    float64 `json:"totalPrice,omitempty"`
}

// Present renders a poll state. It has no other input.
func Present(state models.PollState) View {
	switch state.Phase {
	case models.PollSuccess:
		v := View{
			Phase:   models.PollSuccess,
			Title:   "Booking confirmed",
			Message: "Thank you! Your payment has been received and your stay is confirmed.",
		}
		if c := state.Confirmation; c != nil {
			v.Booking = &BookingSummary{
				BookingNumber: c.BookingNumber,
				RoomName:      c.RoomName,
				CheckIn:       c.CheckIn,
				CheckOut:      c.CheckOut,
				GuestName:     c.GuestName,
				TotalPrice:    c.TotalPrice,
			}
		}
		return v
	case models.PollError:
		msg := state.Message
		if msg == "" {
			msg = MsgStatusUnavailable
		}
		return View{
			Phase:   models.PollError,
			Title:   "We could not confirm your booking",
			Message: msg,
		}
	default:
		phase := state.Phase
		if phase == "" {
			phase = models.PollLoading
		}
		return View{
			Phase:   phase,
			Title:   "Processing your booking",
			Message: "We are confirming your payment. This usually takes a few moments, please keep this page open.",
		}
	}
}
