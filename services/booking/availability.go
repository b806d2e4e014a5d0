package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hotelbooking/models"

	"go.uber.org/zap"
)

// AvailabilityChecker validates a room and stay before submission. Each form
// (identified by formID) keeps a request token; only the answer to its most
// recent request is ever returned.
type AvailabilityChecker struct {
	api    AvailabilityAPI
	tokens TokenSequencer
	logger *zap.Logger
}

func NewAvailabilityChecker(api AvailabilityAPI, tokens TokenSequencer, logger *zap.Logger) *AvailabilityChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityChecker{
		api:    api,
		tokens: tokens,
		logger: logger,
	}
}

// Check asks the backend once whether roomID is free from checkIn to checkOut.
// It returns ErrStaleAvailability when a newer check or Invalidate for the
// same form happened while this one was in flight, and an *AvailabilityError
// when the backend reports the room as taken.
func (ac *AvailabilityChecker) Check(ctx context.Context, formID, roomID string, checkIn, checkOut time.Time) (*models.AvailabilityResult, error) {
	inputErr := newInputError()
	if strings.TrimSpace(formID) == "" {
		inputErr.addError("formId", "a booking form id is required")
	}
	if strings.TrimSpace(roomID) == "" {
		inputErr.addError("roomId", "select a room")
	}
	if !checkOut.After(checkIn) || NightsBetween(checkIn, checkOut) == 0 {
		inputErr.addError("checkOut", "check-out must be after check-in")
	}
	if err := inputErr.orNil(); err != nil {
		return nil, err
	}

	token, err := ac.tokens.Next(ctx, formID)
	if err != nil {
		return nil, err
	}

	res, callErr := ac.api.CheckAvailability(ctx, models.AvailabilityRequest{
		RoomID:   roomID,
		CheckIn:  checkIn.Format(models.DateLayout),
		CheckOut: checkOut.Format(models.DateLayout),
	})

	latest, err := ac.tokens.Current(ctx, formID)
	if err != nil {
		return nil, err
	}
	if latest != token {
		availabilityChecks.WithLabelValues("stale").Inc()
		ac.logger.Debug("Discarding stale availability result",
			zap.String("formId", formID), zap.Int64("token", token), zap.Int64("latest", latest))
		return nil, ErrStaleAvailability
	}

	if callErr != nil {
		availabilityChecks.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("check availability: %w", callErr)
	}
	if res == nil {
		availabilityChecks.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("check availability: empty response")
	}
	if !res.IsAvailable {
		availabilityChecks.WithLabelValues("unavailable").Inc()
		return res, &AvailabilityError{RoomID: roomID, Message: res.Message}
	}

	availabilityChecks.WithLabelValues("available").Inc()
	return res, nil
}

// Invalidate marks any in-flight check for formID as stale. Callers use it
// when the room or either date changes.
func (ac *AvailabilityChecker) Invalidate(ctx context.Context, formID string) error {
	if strings.TrimSpace(formID) == "" {
		inputErr := newInputError()
		inputErr.addError("formId", "a booking form id is required")
		return inputErr
	}
	_, err := ac.tokens.Next(ctx, formID)
	return err
}
