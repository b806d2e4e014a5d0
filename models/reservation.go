package models

import "time"

// DateLayout is the wire format for stay dates.
const DateLayout = "2006-01-02"

// ReservationInput holds the guest's booking form as entered.
type ReservationInput struct {
	RoomID      string
	NightlyRate float64 // Rate of the selected room, per night
	CheckIn     time.Time
	CheckOut    time.Time
	Adults      int
	Children    int
	GuestName   string
	GuestEmail  string
	GuestPhone  string
	Notes       string
}

// ReservationRequest is the body sent to the backend to create a booking.
type ReservationRequest struct {
	RoomID     string  `json:"roomId"`
	CheckIn    string  `json:"checkIn"`  // YYYY-MM-DD
	CheckOut   string  `json:"checkOut"` // YYYY-MM-DD
	Adults     int     `json:"adults"`
	Children   int     `json:"children,omitempty"`
	GuestName  string  `json:"guestName"`
	GuestEmail string  `json:"guestEmail"`
	GuestPhone string  `json:"guestPhone"`
	Notes      string  `json:"notes,omitempty"`
	TotalPrice float64 `json:"totalPrice"` // Recomputed from the nightly rate, never taken from the form
	Nights     int     `json:"nights"`
}

// Quote is the price of a stay.
type Quote struct {
	Nights int     `json:"nights"`
	Total  float64 `json:"total"`
}
