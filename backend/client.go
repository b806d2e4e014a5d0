package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotelbooking/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

// Config configures a Client.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RPS         float64 // Outbound request budget per second
	Credentials CredentialProvider
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Client talks to the hotel booking backend.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	creds   CredentialProvider
	logger  *zap.Logger
}

func New(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: invalid base url %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	burst := 1
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
		burst = max(1, int(cfg.RPS))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		creds:   cfg.Credentials,
		logger:  logger,
	}, nil
}

// CheckAvailability calls POST /rooms/check-availability.
func (c *Client) CheckAvailability(ctx context.Context, req models.AvailabilityRequest) (*models.AvailabilityResult, error) {
	var out models.AvailabilityResult
	if err := c.do(ctx, "check_availability", http.MethodPost, "/rooms/check-availability", req, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBooking calls POST /bookings. Each call carries a fresh
// Idempotency-Key so that transport-level resends are recognizable.
func (c *Client) CreateBooking(ctx context.Context, req models.ReservationRequest) (*models.BookingConfirmation, error) {
	var out models.BookingConfirmation
	headers := map[string]string{"Idempotency-Key": uuid.New().String()}
	if err := c.do(ctx, "create_booking", http.MethodPost, "/bookings", req, &out, headers); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBookingByID calls GET /bookings/id/{id}.
func (c *Client) GetBookingByID(ctx context.Context, id string) (*models.BookingConfirmation, error) {
	var out models.BookingConfirmation
	if err := c.do(ctx, "get_booking_by_id", http.MethodGet, "/bookings/id/"+url.PathEscape(id), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBookingByNumber calls GET /bookings/{bookingNumber}.
func (c *Client) GetBookingByNumber(ctx context.Context, bookingNumber string) (*models.BookingConfirmation, error) {
	var out models.BookingConfirmation
	if err := c.do(ctx, "get_booking_by_number", http.MethodGet, "/bookings/"+url.PathEscape(bookingNumber), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping reports whether the backend answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any, headers map[string]string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", endpoint, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if err := c.authorize(ctx, req); err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		requestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		c.logger.Warn("Backend request failed",
			zap.String("endpoint", endpoint), zap.String("requestId", requestID), zap.Error(err))
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	requestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		if errors.Is(apiErr, ErrUnauthorized) && c.creds != nil {
			c.creds.Invalidate()
		}
		c.logger.Warn("Backend returned an error",
			zap.String("endpoint", endpoint),
			zap.String("requestId", requestID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message))
		return fmt.Errorf("%s: %w", endpoint, apiErr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.creds == nil {
		return nil
	}
	token, err := c.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("obtain credentials: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	return apiErr
}
