package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusIsTerminal(t *testing.T) {
	for _, s := range []BookingStatus{StatusPaid, StatusCancelled, StatusFailed} {
		assert.True(t, s.IsTerminal(), s)
	}
	for _, s := range []BookingStatus{StatusWaitingForPayment, "authorizing", ""} {
		assert.False(t, s.IsTerminal(), s)
	}
}

func TestPollPhaseIsTerminal(t *testing.T) {
	assert.True(t, PollSuccess.IsTerminal())
	assert.True(t, PollError.IsTerminal())
	assert.False(t, PollLoading.IsTerminal())
	assert.False(t, PollPending.IsTerminal())
}
