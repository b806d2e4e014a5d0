package models

// AvailabilityRequest asks the backend whether a room is free for a stay.
type AvailabilityRequest struct {
	RoomID   string `json:"roomId"`
	CheckIn  string `json:"checkIn"`  // YYYY-MM-DD
	CheckOut string `json:"checkOut"` // YYYY-MM-DD
}

// AvailabilityResult is the backend's answer to an AvailabilityRequest.
type AvailabilityResult struct {
	IsAvailable bool   `json:"isAvailable"`
	Message     string `json:"message,omitempty"`
}
