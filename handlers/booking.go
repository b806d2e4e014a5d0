package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hotelbooking/backend"
	"hotelbooking/models"
	"hotelbooking/services/booking"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the guest booking flow.
type BookingHandler struct {
	Checker   *booking.AvailabilityChecker
	Submitter *booking.Submitter
	Poller    *booking.Poller
	API       booking.BookingAPI
}

func NewBookingHandler(checker *booking.AvailabilityChecker, submitter *booking.Submitter, poller *booking.Poller, api booking.BookingAPI) *BookingHandler {
	return &BookingHandler{
		Checker:   checker,
		Submitter: submitter,
		Poller:    poller,
		API:       api,
	}
}

type quoteInput struct {
	NightlyRate float64 `json:"nightlyRate"`
	CheckIn     string  `json:"checkIn" binding:"required"`
	CheckOut    string  `json:"checkOut" binding:"required"`
}

type availabilityInput struct {
	FormID   string `json:"formId"`
	RoomID   string `json:"roomId"`
	CheckIn  string `json:"checkIn" binding:"required"`
	CheckOut string `json:"checkOut" binding:"required"`
}

type reservationInput struct {
	FormID      string  `json:"formId"`
	RoomID      string  `json:"roomId"`
	NightlyRate float64 `json:"nightlyRate"`
	CheckIn     string  `json:"checkIn"`
	CheckOut    string  `json:"checkOut"`
	Adults      int     `json:"adults"`
	Children    int     `json:"children"`
	GuestName   string  `json:"guestName"`
	GuestEmail  string  `json:"guestEmail"`
	GuestPhone  string  `json:"guestPhone"`
	Notes       string  `json:"notes"`
}

// parseStay parses both stay dates, reporting each bad one by field.
func parseStay(checkIn, checkOut string) (time.Time, time.Time, map[string][]string) {
	fields := map[string][]string{}
	in, err := time.Parse(models.DateLayout, strings.TrimSpace(checkIn))
	if err != nil {
		fields["checkIn"] = []string{"use the YYYY-MM-DD format"}
	}
	out, err := time.Parse(models.DateLayout, strings.TrimSpace(checkOut))
	if err != nil {
		fields["checkOut"] = []string{"use the YYYY-MM-DD format"}
	}
	if len(fields) > 0 {
		return time.Time{}, time.Time{}, fields
	}
	return in, out, nil
}

// Quote prices a stay. A zero quote means there is nothing to display.
func (h *BookingHandler) Quote(c *gin.Context) {
	var input quoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	in, out, fields := parseStay(input.CheckIn, input.CheckOut)
	if fields != nil {
		utils.JSONFieldError(c, "invalid dates", fields)
		return
	}

	quote := booking.ComputePrice(input.NightlyRate, in, out)
	c.JSON(http.StatusOK, gin.H{
		"nights":  quote.Nights,
		"total":   quote.Total,
		"display": quote.Nights > 0,
	})
}

// CheckAvailability validates a room and stay for one booking form.
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	var input availabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	in, out, fields := parseStay(input.CheckIn, input.CheckOut)
	if fields != nil {
		utils.JSONFieldError(c, "invalid dates", fields)
		return
	}

	res, err := h.Checker.Check(c.Request.Context(), input.FormID, input.RoomID, in, out)
	if err != nil {
		h.availabilityError(c, input.RoomID, res, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) availabilityError(c *gin.Context, roomID string, res *models.AvailabilityResult, err error) {
	switch {
	case errors.Is(err, booking.ErrStaleAvailability):
		c.JSON(http.StatusConflict, gin.H{"stale": true, "error": err.Error()})
	case booking.IsInputError(err) != nil:
		utils.JSONFieldError(c, "invalid input", booking.IsInputError(err).Fields())
	case booking.IsAvailabilityError(err) != nil:
		c.JSON(http.StatusConflict, res)
	default:
		getLogger(c).Error("Availability check failed", zap.String("roomId", roomID), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "could not check availability, please try again", err.Error())
	}
}

// InvalidateAvailability supersedes any in-flight check for :formId. The page
// calls it whenever the room or either date changes.
func (h *BookingHandler) InvalidateAvailability(c *gin.Context) {
	if err := h.Checker.Invalidate(c.Request.Context(), c.Param("formId")); err != nil {
		if inputErr := booking.IsInputError(err); inputErr != nil {
			utils.JSONFieldError(c, "invalid input", inputErr.Fields())
			return
		}
		getLogger(c).Error("Availability invalidation failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "could not reset the availability check", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// SubmitBooking re-checks availability for the form, creates the reservation
// and tells the page what to do next. An unavailable room or a failed check
// blocks the create call.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	var input reservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	in, out, fields := parseStay(input.CheckIn, input.CheckOut)
	if fields != nil {
		utils.JSONFieldError(c, "invalid dates", fields)
		return
	}

	reservation := models.ReservationInput{
		RoomID:      input.RoomID,
		NightlyRate: input.NightlyRate,
		CheckIn:     in,
		CheckOut:    out,
		Adults:      input.Adults,
		Children:    input.Children,
		GuestName:   input.GuestName,
		GuestEmail:  input.GuestEmail,
		GuestPhone:  input.GuestPhone,
		Notes:       input.Notes,
	}
	if _, err := booking.BuildReservation(reservation); err != nil {
		h.submitError(c, err)
		return
	}

	ctx := c.Request.Context()
	if res, err := h.Checker.Check(ctx, input.FormID, input.RoomID, in, out); err != nil {
		h.availabilityError(c, input.RoomID, res, err)
		return
	}

	conf, err := h.Submitter.Submit(ctx, reservation)
	if err != nil {
		h.submitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":     conf,
		"next":        booking.NextStep(conf),
		"redirectUrl": conf.RedirectURL,
		"view":        booking.Present(booking.ConfirmationState(conf)),
	})
}

func (h *BookingHandler) submitError(c *gin.Context, err error) {
	if inputErr := booking.IsInputError(err); inputErr != nil {
		utils.JSONFieldError(c, "please correct the highlighted fields", inputErr.Fields())
		return
	}
	if errors.Is(err, booking.ErrSubmissionInFlight) {
		utils.JSONError(c, http.StatusConflict, "your booking is already being submitted", "")
		return
	}

	getLogger(c).Error("Booking submission failed", zap.Error(err))
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.IsClientError() && !errors.Is(err, backend.ErrUnauthorized) {
		msg := apiErr.Message
		if msg == "" {
			msg = "the booking was rejected"
		}
		utils.JSONError(c, http.StatusUnprocessableEntity, msg, "")
		return
	}
	utils.JSONError(c, http.StatusBadGateway, "we could not submit your booking, please try again", err.Error())
}

// Confirmation polls the booking named by ?bookingId= until it settles and
// returns the presented result.
func (h *BookingHandler) Confirmation(c *gin.Context) {
	bookingID := c.Query("bookingId")
	state, err := h.Poller.Poll(c.Request.Context(), bookingID)
	if err != nil {
		// Client went away; nobody is left to answer.
		getLogger(c).Debug("Confirmation request abandoned", zap.String("bookingId", bookingID), zap.Error(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state": state,
		"view":  booking.Present(state),
	})
}

// ConfirmationStream streams every poll state of ?bookingId= as server-sent
// events. Closing the connection tears the poll down.
func (h *BookingHandler) ConfirmationStream(c *gin.Context) {
	bookingID := c.Query("bookingId")
	ctx := c.Request.Context()

	// One loading state, at most MaxAttempts-1 pending states and one
	// terminal state: the buffer never fills.
	states := make(chan models.PollState, h.Poller.MaxAttempts()+2)
	session := h.Poller.Start(ctx, bookingID, func(st models.PollState) {
		states <- st
	})
	defer session.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case st := <-states:
			c.SSEvent(string(st.Phase), gin.H{
				"state": st,
				"view":  booking.Present(st),
			})
			return !st.Phase.IsTerminal()
		}
	})
}

// LookupByNumber fetches a booking by the number shown to the guest.
func (h *BookingHandler) LookupByNumber(c *gin.Context) {
	number := strings.TrimSpace(c.Param("bookingNumber"))
	if number == "" {
		utils.JSONError(c, http.StatusBadRequest, "booking number is required", "")
		return
	}

	conf, err := h.API.GetBookingByNumber(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, fmt.Sprintf("booking %s not found", number), "")
			return
		}
		getLogger(c).Error("Booking lookup failed", zap.String("bookingNumber", number), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "could not retrieve the booking, please try again", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking": conf,
		"view":    booking.Present(booking.ConfirmationState(conf)),
	})
}
