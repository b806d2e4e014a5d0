package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hotelbooking/config"
	"hotelbooking/handlers"
	"hotelbooking/middleware"
	"hotelbooking/routes"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the booking gateway HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

// newRouter builds the gin engine with the gateway middleware stack.
func newRouter(hb *handlers.HandlerBundle) (*gin.Engine, error) {
	logger := utils.GetLogger()

	router := gin.New()
	// Forwarded headers only count when the peer is a configured proxy.
	if err := router.SetTrustedProxies(config.AppConfig.Proxies()); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	routes.RegisterRoutes(router, hb, config.AppConfig.Origins())
	return router, nil
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.AppConfig
	logger := utils.GetLogger()
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, cleanup, err := buildApp(&cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	utils.StartHealthMonitor(ctx, 30*time.Second, a.API, utils.RedisClients())

	bookingHandler := handlers.NewBookingHandler(a.Checker, a.Submitter, a.Poller, a.API)
	hb := handlers.NewHandlerBundle(bookingHandler, handlers.HealthHandler, gin.WrapH(promhttp.Handler()))

	router, err := newRouter(hb)
	if err != nil {
		return err
	}

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Sugar().Info("main: server stopped gracefully")
	return nil
}
