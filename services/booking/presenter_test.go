package booking

import (
	"testing"

	"hotelbooking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresent(t *testing.T) {
	t.Run("success shows booking details", func(t *testing.T) {
		v := Present(models.PollState{
			Phase: models.PollSuccess,
			Confirmation: &models.BookingConfirmation{
				BookingNumber: "HB-1001",
				RoomName:      "Garden Suite",
				CheckIn:       "2024-06-01",
				CheckOut:      "2024-06-04",
				GuestName:     "Ada Guest",
				TotalPrice:    10500,
			},
		})
		assert.Equal(t, models.PollSuccess, v.Phase)
		require.NotNil(t, v.Booking)
		assert.Equal(t, "HB-1001", v.Booking.BookingNumber)
		assert.Equal(t, "Garden Suite", v.Booking.RoomName)
		assert.InDelta(t, 10500, v.Booking.TotalPrice, 1e-9)
	})

	t.Run("error shows the state message", func(t *testing.T) {
		v := Present(models.PollState{Phase: models.PollError, Message: MsgConfirmationTimeout})
		assert.Equal(t, models.PollError, v.Phase)
		assert.Equal(t, MsgConfirmationTimeout, v.Message)
		assert.Nil(t, v.Booking)
	})

	t.Run("error without message", func(t *testing.T) {
		v := Present(models.PollState{Phase: models.PollError})
		assert.Equal(t, MsgStatusUnavailable, v.Message)
	})

	t.Run("pending and loading share the waiting view", func(t *testing.T) {
		pending := Present(models.PollState{Phase: models.PollPending, Attempts: 2})
		loading := Present(models.PollState{Phase: models.PollLoading})
		assert.Equal(t, pending.Title, loading.Title)
		assert.Equal(t, models.PollPending, pending.Phase)
		assert.Equal(t, models.PollLoading, loading.Phase)
		assert.Nil(t, pending.Booking)
	})

	t.Run("zero state is loading", func(t *testing.T) {
		assert.Equal(t, models.PollLoading, Present(models.PollState{}).Phase)
	})
}
