package main

import (
	"fmt"

	"hotelbooking/backend"
	"hotelbooking/config"
	"hotelbooking/services/booking"
	"hotelbooking/utils"

	"go.uber.org/zap"
)

// app holds the wired booking workflow.
type app struct {
	API       *backend.Client
	Checker   *booking.AvailabilityChecker
	Submitter *booking.Submitter
	Poller    *booking.Poller
}

func credentialsFor(cfg *config.Config, logger *zap.Logger) (backend.CredentialProvider, error) {
	switch {
	case cfg.BackendAPIToken != "":
		return backend.StaticToken(cfg.BackendAPIToken), nil
	case cfg.JWTSecret != "":
		return backend.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	default:
		logger.Warn("No backend credentials configured; calls will be unauthenticated")
		return nil, nil
	}
}

// buildApp wires the booking workflow from cfg. The returned cleanup closes
// the Redis clients when they were opened.
func buildApp(cfg *config.Config, logger *zap.Logger) (*app, func(), error) {
	creds, err := credentialsFor(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	api, err := backend.New(backend.Config{
		BaseURL:     cfg.BackendURL,
		Timeout:     cfg.BackendTimeout,
		RPS:         cfg.BackendRPS,
		Credentials: creds,
		Logger:      logger.Named("backend"),
	})
	if err != nil {
		return nil, nil, err
	}

	var (
		tokens  booking.TokenSequencer
		guard   booking.SubmissionGuard
		cleanup = func() {}
	)
	if cfg.RedisEnabled {
		if err := utils.InitRedis(); err != nil {
			return nil, nil, fmt.Errorf("init redis: %w", err)
		}
		tokens = booking.NewRedisSequencer(utils.CacheClient)
		guard = booking.NewRedisGuard(utils.LockClient, cfg.SubmitLockTTL)
		cleanup = utils.CloseRedis
	} else {
		tokens = booking.NewMemorySequencer()
		guard = booking.NewMemoryGuard(cfg.SubmitLockTTL)
	}

	return &app{
		API:       api,
		Checker:   booking.NewAvailabilityChecker(api, tokens, logger.Named("availability")),
		Submitter: booking.NewSubmitter(api, guard, logger.Named("submit")),
		Poller: booking.NewPoller(api, booking.PollerConfig{
			MaxAttempts: cfg.PollMaxAttempts,
			Interval:    cfg.PollInterval,
		}, logger.Named("poller")),
	}, cleanup, nil
}
