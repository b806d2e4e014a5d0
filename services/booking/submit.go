package booking

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"hotelbooking/models"

	"go.uber.org/zap"
)

// Step tells the caller what follows a successful submission.
type Step string

const (
	StepSuccess Step = "success" // Already paid, show the confirmation
	StepPoll    Step = "poll"    // Hand the booking id to the Poller
	StepError   Step = "error"   // Rejected by the payment side
)

// Submitter creates reservations on the backend.
type Submitter struct {
	api    BookingCreator
	guard  SubmissionGuard
	logger *zap.Logger
}

func NewSubmitter(api BookingCreator, guard SubmissionGuard, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		api:    api,
		guard:  guard,
		logger: logger,
	}
}

// BuildReservation validates the guest form and prices the stay from the
// room's nightly rate. It never performs I/O.
func BuildReservation(input models.ReservationInput) (*models.ReservationRequest, error) {
	inputErr := newInputError()

	if strings.TrimSpace(input.RoomID) == "" {
		inputErr.addError("roomId", "select a room")
	}
	if strings.TrimSpace(input.GuestName) == "" {
		inputErr.addError("guestName", "provide your name")
	}
	if strings.TrimSpace(input.GuestEmail) == "" {
		inputErr.addError("guestEmail", "provide your email")
	} else if _, err := mail.ParseAddress(input.GuestEmail); err != nil {
		inputErr.addError("guestEmail", "provide a valid email")
	}
	if strings.TrimSpace(input.GuestPhone) == "" {
		inputErr.addError("guestPhone", "provide your phone number")
	}
	if input.Adults < 1 {
		inputErr.addError("adults", "at least one adult is required")
	}
	if input.Children < 0 {
		inputErr.addError("children", "children must not be negative")
	}

	quote := ComputePrice(input.NightlyRate, input.CheckIn, input.CheckOut)
	if NightsBetween(input.CheckIn, input.CheckOut) == 0 {
		inputErr.addError("checkOut", "check-out must be after check-in")
	} else if quote.Total <= 0 {
		inputErr.addError("totalPrice", "total price must be a positive amount")
	}

	if err := inputErr.orNil(); err != nil {
		return nil, err
	}

	return &models.ReservationRequest{
		RoomID:     strings.TrimSpace(input.RoomID),
		CheckIn:    input.CheckIn.Format(models.DateLayout),
		CheckOut:   input.CheckOut.Format(models.DateLayout),
		Adults:     input.Adults,
		Children:   input.Children,
		GuestName:  strings.TrimSpace(input.GuestName),
		GuestEmail: strings.TrimSpace(input.GuestEmail),
		GuestPhone: strings.TrimSpace(input.GuestPhone),
		Notes:      strings.TrimSpace(input.Notes),
		TotalPrice: quote.Total,
		Nights:     quote.Nights,
	}, nil
}

// Submit validates input and performs exactly one create call. A second
// Submit for the same room, stay and guest email while the first is still in
// flight fails with ErrSubmissionInFlight. Failures are never retried.
func (s *Submitter) Submit(ctx context.Context, input models.ReservationInput) (*models.BookingConfirmation, error) {
	req, err := BuildReservation(input)
	if err != nil {
		submissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	key := Fingerprint(*req)
	token, err := s.guard.Acquire(ctx, key)
	if err != nil {
		submissions.WithLabelValues("duplicate").Inc()
		return nil, err
	}
	defer func() {
		// The request context may already be gone; the lock must still go.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.guard.Release(releaseCtx, key, token); err != nil {
			s.logger.Warn("Failed to release submission lock", zap.String("key", key), zap.Error(err))
		}
	}()

	conf, err := s.api.CreateBooking(ctx, *req)
	if err != nil {
		submissions.WithLabelValues("failed").Inc()
		s.logger.Error("Booking submission failed", zap.String("roomId", req.RoomID), zap.Error(err))
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if conf == nil || conf.ID == "" {
		submissions.WithLabelValues("failed").Inc()
		return nil, ErrEmptyConfirmation
	}

	submissions.WithLabelValues("created").Inc()
	s.logger.Info("Booking created",
		zap.String("bookingId", conf.ID),
		zap.String("bookingNumber", conf.BookingNumber),
		zap.String("status", string(conf.Status)))
	return conf, nil
}

// Fingerprint identifies a reservation for double-submit protection.
func Fingerprint(req models.ReservationRequest) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		req.RoomID,
		req.CheckIn,
		req.CheckOut,
		strings.ToLower(req.GuestEmail),
	}, "|")))
	return hex.EncodeToString(sum[:])
}

// NextStep decides how the caller proceeds with a fresh confirmation.
func NextStep(conf *models.BookingConfirmation) Step {
	if conf == nil {
		return StepError
	}
	if st, ok := terminalState(conf, 0); ok {
		if st.Phase == models.PollSuccess {
			return StepSuccess
		}
		return StepError
	}
	return StepPoll
}
