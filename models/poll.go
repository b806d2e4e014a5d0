package models

// PollPhase is the position of a payment confirmation poll.
type PollPhase string

const (
	PollLoading PollPhase = "loading"
	PollPending PollPhase = "pending"
	PollSuccess PollPhase = "success"
	PollError   PollPhase = "error"
)

// IsTerminal reports whether no further automatic transition follows.
func (p PollPhase) IsTerminal() bool {
	return p == PollSuccess || p == PollError
}

// PollState is a snapshot of a payment confirmation poll.
type PollState struct {
	Phase        PollPhase            `json:"phase"`
	Attempts     int                  `json:"attempts"`               // Status fetches completed so far
	Confirmation *BookingConfirmation `json:"confirmation,omitempty"` // Last fetched booking, if any
	Message      string               `json:"message,omitempty"`      // Displayable reason for an error phase
}
