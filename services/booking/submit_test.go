package booking

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hotelbooking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCreator struct {
	calls atomic.Int32
	mu    sync.Mutex
	last  models.ReservationRequest
	fn    func(ctx context.Context, req models.ReservationRequest) (*models.BookingConfirmation, error)
}

func (f *fakeCreator) CreateBooking(ctx context.Context, req models.ReservationRequest) (*models.BookingConfirmation, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, req)
	}
	return &models.BookingConfirmation{
		ID:            "bk_100",
		BookingNumber: "HB-100",
		Status:        models.StatusWaitingForPayment,
		RedirectURL:   "https://pay.example.com/session/100",
	}, nil
}

func validInput() models.ReservationInput {
	return models.ReservationInput{
		RoomID:      "room-12",
		NightlyRate: 3500,
		CheckIn:     date("2024-06-01"),
		CheckOut:    date("2024-06-04"),
		Adults:      2,
		Children:    1,
		GuestName:   " Ada Guest ",
		GuestEmail:  "ada@example.com",
		GuestPhone:  "+254700000000",
		Notes:       "late arrival",
	}
}

func newTestSubmitter(api BookingCreator) *Submitter {
	return NewSubmitter(api, NewMemoryGuard(time.Minute), zap.NewNop())
}

func TestBuildReservationPricesStay(t *testing.T) {
	req, err := BuildReservation(validInput())
	require.NoError(t, err)

	assert.Equal(t, "room-12", req.RoomID)
	assert.Equal(t, "2024-06-01", req.CheckIn)
	assert.Equal(t, "2024-06-04", req.CheckOut)
	assert.Equal(t, "Ada Guest", req.GuestName)
	assert.Equal(t, 3, req.Nights)
	assert.InDelta(t, 10500, req.TotalPrice, 1e-9)
}

func TestBuildReservationValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.ReservationInput)
		field  string
	}{
		{"missing room", func(in *models.ReservationInput) { in.RoomID = " " }, "roomId"},
		{"missing name", func(in *models.ReservationInput) { in.GuestName = "" }, "guestName"},
		{"missing email", func(in *models.ReservationInput) { in.GuestEmail = "" }, "guestEmail"},
		{"invalid email", func(in *models.ReservationInput) { in.GuestEmail = "not-an-email" }, "guestEmail"},
		{"missing phone", func(in *models.ReservationInput) { in.GuestPhone = "" }, "guestPhone"},
		{"no adults", func(in *models.ReservationInput) { in.Adults = 0 }, "adults"},
		{"negative children", func(in *models.ReservationInput) { in.Children = -1 }, "children"},
		{"same day stay", func(in *models.ReservationInput) { in.CheckOut = in.CheckIn }, "checkOut"},
		{"free stay", func(in *models.ReservationInput) { in.NightlyRate = 0 }, "totalPrice"},
		{"unpriceable stay", func(in *models.ReservationInput) { in.NightlyRate = 1e308 }, "totalPrice"},
		{"infinite rate", func(in *models.ReservationInput) { in.NightlyRate = math.Inf(1) }, "totalPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(&in)

			req, err := BuildReservation(in)
			assert.Nil(t, req)
			inputErr := IsInputError(err)
			require.NotNil(t, inputErr)
			assert.Contains(t, inputErr.Fields(), tt.field)
		})
	}
}

func TestBuildReservationReportsAllFields(t *testing.T) {
	_, err := BuildReservation(models.ReservationInput{})
	inputErr := IsInputError(err)
	require.NotNil(t, inputErr)

	for _, field := range []string{"roomId", "guestName", "guestEmail", "guestPhone", "adults", "checkOut"} {
		assert.Contains(t, inputErr.Fields(), field)
	}
	assert.Contains(t, err.Error(), "guestEmail: provide your email")
}

func TestSubmitOverflowingTotalMakesNoCall(t *testing.T) {
	api := &fakeCreator{}
	s := newTestSubmitter(api)

	in := validInput()
	in.NightlyRate = 1e308
	_, err := s.Submit(context.Background(), in)

	inputErr := IsInputError(err)
	require.NotNil(t, inputErr)
	assert.Contains(t, inputErr.Fields(), "totalPrice")
	assert.NotContains(t, inputErr.Fields(), "checkOut")
	assert.Zero(t, api.calls.Load())
}

func TestSubmitInvalidInputMakesNoCall(t *testing.T) {
	api := &fakeCreator{}
	s := newTestSubmitter(api)

	in := validInput()
	in.GuestEmail = ""
	conf, err := s.Submit(context.Background(), in)

	assert.Nil(t, conf)
	require.NotNil(t, IsInputError(err))
	assert.Zero(t, api.calls.Load())
}

func TestSubmitCreatesBookingOnce(t *testing.T) {
	api := &fakeCreator{}
	s := newTestSubmitter(api)

	conf, err := s.Submit(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "bk_100", conf.ID)
	assert.Equal(t, int32(1), api.calls.Load())
	assert.InDelta(t, 10500, api.last.TotalPrice, 1e-9)
	assert.Equal(t, StepPoll, NextStep(conf))

	// The lock is released once the call returns.
	_, err = s.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.calls.Load())
}

func TestSubmitFailureIsNotRetried(t *testing.T) {
	backendErr := errors.New("payment provider unreachable")
	api := &fakeCreator{fn: func(context.Context, models.ReservationRequest) (*models.BookingConfirmation, error) {
		return nil, backendErr
	}}
	s := newTestSubmitter(api)

	conf, err := s.Submit(context.Background(), validInput())
	assert.Nil(t, conf)
	assert.ErrorIs(t, err, backendErr)
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestSubmitEmptyConfirmation(t *testing.T) {
	api := &fakeCreator{fn: func(context.Context, models.ReservationRequest) (*models.BookingConfirmation, error) {
		return &models.BookingConfirmation{}, nil
	}}
	s := newTestSubmitter(api)

	_, err := s.Submit(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrEmptyConfirmation)
}

func TestSubmitRejectsConcurrentDuplicate(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeCreator{fn: func(context.Context, models.ReservationRequest) (*models.BookingConfirmation, error) {
		close(entered)
		<-release
		return &models.BookingConfirmation{ID: "bk_1", Status: models.StatusWaitingForPayment}, nil
	}}
	s := newTestSubmitter(api)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), validInput())
		errCh <- err
	}()
	<-entered

	dup := validInput()
	dup.GuestEmail = "ADA@example.com"
	_, err := s.Submit(context.Background(), dup)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-errCh)
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestNextStep(t *testing.T) {
	assert.Equal(t, StepSuccess, NextStep(&models.BookingConfirmation{Status: models.StatusPaid}))
	assert.Equal(t, StepPoll, NextStep(&models.BookingConfirmation{Status: models.StatusWaitingForPayment}))
	assert.Equal(t, StepPoll, NextStep(&models.BookingConfirmation{Status: "pending_review"}))
	assert.Equal(t, StepError, NextStep(&models.BookingConfirmation{Status: models.StatusCancelled}))
	assert.Equal(t, StepError, NextStep(&models.BookingConfirmation{Status: models.StatusFailed}))
	assert.Equal(t, StepError, NextStep(nil))
}

func TestFingerprintIgnoresEmailCase(t *testing.T) {
	a := models.ReservationRequest{RoomID: "r1", CheckIn: "2024-06-01", CheckOut: "2024-06-04", GuestEmail: "a@example.com"}
	b := a
	b.GuestEmail = "A@Example.com"
	c := a
	c.CheckOut = "2024-06-05"

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
