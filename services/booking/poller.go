package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"hotelbooking/models"

	"go.uber.org/zap"
)

const (
	DefaultPollAttempts = 5
	DefaultPollInterval = 5 * time.Second
)

// Messages shown to the guest for each way a poll can fail.
const (
	MsgMissingBookingID    = "We could not find a booking reference in this link. Please use the link from your confirmation email or contact us."
	MsgStatusUnavailable   = "We could not retrieve your booking status. Please refresh the page in a moment or contact us."
	MsgBookingCancelled    = "This booking has been cancelled. If you did not expect this, please contact us."
	MsgPaymentFailed       = "The payment for this booking did not go through. Please try again or contact us."
	MsgConfirmationTimeout = "Payment confirmation is taking longer than expected. Your payment may still be processing; please contact us with your booking number before booking again."
)

// PollerConfig bounds a payment confirmation poll.
type PollerConfig struct {
	MaxAttempts int           // Status fetches before giving up
	Interval    time.Duration // Constant delay between fetches
}

// Poller follows a booking until payment is confirmed or rejected.
type Poller struct {
	fetcher StatusFetcher
	cfg     PollerConfig
	logger  *zap.Logger
}

func NewPoller(fetcher StatusFetcher, cfg PollerConfig, logger *zap.Logger) *Poller {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultPollAttempts
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// PollSession is one running poll. It is owned by the consumer that started
// it; once the consumer calls Stop no further state is applied or reported.
type PollSession struct {
	bookingID string
	cancel    context.CancelFunc
	done      chan struct{}

	mu       sync.Mutex
	active   bool
	state    models.PollState
	onChange func(models.PollState)
}

// Start begins polling bookingID in the background. onChange, if not nil,
// receives every applied state in order; it is called with the session lock
// held and must not call back into the session. Cancelling ctx tears the
// session down like Stop.
func (p *Poller) Start(ctx context.Context, bookingID string, onChange func(models.PollState)) *PollSession {
	ctx, cancel := context.WithCancel(ctx)
	s := &PollSession{
		bookingID: strings.TrimSpace(bookingID),
		cancel:    cancel,
		done:      make(chan struct{}),
		active:    true,
		state:     models.PollState{Phase: models.PollLoading},
		onChange:  onChange,
	}
	go p.run(ctx, s)
	return s
}

// Poll runs a session to completion. It returns the context error together
// with the last applied state when ctx ends before a terminal state.
func (p *Poller) Poll(ctx context.Context, bookingID string) (models.PollState, error) {
	s := p.Start(ctx, bookingID, nil)
	<-s.Done()
	st := s.State()
	if !st.Phase.IsTerminal() {
		return st, ctx.Err()
	}
	return st, nil
}

func (p *Poller) run(ctx context.Context, s *PollSession) {
	defer close(s.done)
	defer s.cancel()

	log := p.logger.With(zap.String("bookingId", s.bookingID))

	if s.bookingID == "" {
		pollOutcomes.WithLabelValues("missing_id").Inc()
		s.apply(ctx, models.PollState{Phase: models.PollError, Message: MsgMissingBookingID})
		return
	}

	if !s.apply(ctx, models.PollState{Phase: models.PollLoading}) {
		return
	}

	attempts := 0
	for {
		pollFetches.Inc()
		conf, err := p.fetcher.GetBookingByID(ctx, s.bookingID)
		if !s.isActive(ctx) {
			pollOutcomes.WithLabelValues("abandoned").Inc()
			log.Debug("Poll torn down, dropping fetch result", zap.Int("attempt", attempts+1))
			return
		}

		if err != nil || conf == nil {
			pollOutcomes.WithLabelValues("unavailable").Inc()
			log.Warn("Booking status fetch failed", zap.Int("attempt", attempts+1), zap.Error(err))
			s.apply(ctx, models.PollState{
				Phase:    models.PollError,
				Attempts: attempts,
				Message:  MsgStatusUnavailable,
			})
			return
		}

		attempts++
		log.Debug("Booking status fetched", zap.Int("attempt", attempts), zap.String("status", string(conf.Status)))

		if st, ok := terminalState(conf, attempts); ok {
			pollOutcomes.WithLabelValues(outcomeLabel(conf.Status)).Inc()
			s.apply(ctx, st)
			return
		}

		if attempts >= p.cfg.MaxAttempts {
			pollOutcomes.WithLabelValues("timeout").Inc()
			log.Warn("Payment confirmation timed out", zap.Int("attempts", attempts), zap.String("status", string(conf.Status)))
			s.apply(ctx, models.PollState{
				Phase:        models.PollError,
				Attempts:     attempts,
				Confirmation: conf,
				Message:      MsgConfirmationTimeout,
			})
			return
		}

		if !s.apply(ctx, models.PollState{Phase: models.PollPending, Attempts: attempts, Confirmation: conf}) {
			return
		}

		timer := time.NewTimer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			pollOutcomes.WithLabelValues("abandoned").Inc()
			return
		case <-timer.C:
		}
	}
}

// ConfirmationState is the poll state a freshly received confirmation
// stands for, before any polling has happened.
func ConfirmationState(conf *models.BookingConfirmation) models.PollState {
	if conf == nil {
		return models.PollState{Phase: models.PollError, Message: MsgStatusUnavailable}
	}
	if st, ok := terminalState(conf, 0); ok {
		return st
	}
	return models.PollState{Phase: models.PollPending, Confirmation: conf}
}

// MaxAttempts is the attempt budget of every session started by p.
func (p *Poller) MaxAttempts() int {
	return p.cfg.MaxAttempts
}

// terminalState maps a fetched booking to the final poll state its status
// implies. Statuses other than paid, cancelled and failed are treated as
// still processing.
func terminalState(conf *models.BookingConfirmation, attempts int) (models.PollState, bool) {
	if !conf.Status.IsTerminal() {
		return models.PollState{}, false
	}
	switch conf.Status {
	case models.StatusPaid:
		return models.PollState{Phase: models.PollSuccess, Attempts: attempts, Confirmation: conf}, true
	case models.StatusCancelled:
		return models.PollState{Phase: models.PollError, Attempts: attempts, Confirmation: conf, Message: MsgBookingCancelled}, true
	case models.StatusFailed:
		return models.PollState{Phase: models.PollError, Attempts: attempts, Confirmation: conf, Message: MsgPaymentFailed}, true
	}
	return models.PollState{}, false
}

func outcomeLabel(status models.BookingStatus) string {
	switch status {
	case models.StatusPaid:
		return "success"
	case models.StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// apply installs next if the session is still active and reports whether it
// did. Terminal states deactivate the session.
func (s *PollSession) apply(ctx context.Context, next models.PollState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || ctx.Err() != nil {
		return false
	}
	s.state = next
	if next.Phase.IsTerminal() {
		s.active = false
	}
	if s.onChange != nil {
		s.onChange(next)
	}
	return true
}

func (s *PollSession) isActive(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active && ctx.Err() == nil
}

// Stop tears the session down: the pending delay is cancelled and no state
// is applied afterwards, even for a fetch that is still in flight.
func (s *PollSession) Stop() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
	s.cancel()
}

// State returns the last applied state.
func (s *PollSession) State() models.PollState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the session's goroutine has exited.
func (s *PollSession) Done() <-chan struct{} {
	return s.done
}

func (s *PollSession) BookingID() string {
	return s.bookingID
}
