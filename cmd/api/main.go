package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ITopGun/TicketSelling-Platform/internal/app"
	"github.com/ITopGun/TicketSelling-Platform/internal/clock"
	"github.com/ITopGun/TicketSelling-Platform/internal/config"
	"github.com/ITopGun/TicketSelling-Platform/internal/storage/postgres"
	transporthttp "github.com/ITopGun/TicketSelling-Platform/internal/transport/http"
	"github.com/ITopGun/TicketSelling-Platform/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect to db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", "err", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", "err", err)
		os.Exit(1)
	}

	clk := clock.NewSystem()

	reservationRepo := postgres.NewReservationRepository(pool)
	reservationSvc := app.NewReservationService(reservationRepo, clk, logger,
		app.WithHoldDuration(cfg.HoldDuration))

	catalogRepo := postgres.NewCatalogRepository(pool)
	catalogSvc := app.NewCatalogService(catalogRepo, clk,
		app.WithCatalogHoldDuration(cfg.HoldDuration))

	clientRepo := postgres.NewClientRepository(pool)
	clientSvc := app.NewClientService(clientRepo, clk)

	adminRepo := postgres.NewAdminRepository(pool)
	adminSvc := app.NewAdminService(adminRepo, clk)

	handler := transporthttp.NewRouter(transporthttp.RouterConfig{
		Reservations: transporthttp.NewReservationHandler(reservationSvc),
		Catalog:      transporthttp.NewCatalogHandler(catalogSvc),
		Clients:      transporthttp.NewClientHandler(clientSvc),
		Admin:        transporthttp.NewAdminHandler(adminSvc),
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The lazy sweep only runs on seat reads; the ticker also reclaims
	// idle holds when no traffic arrives. Off unless configured.
	if cfg.SweepInterval > 0 {
		go runSweeper(stopCtx, reservationSvc, cfg.SweepInterval, logger)
	}

	logger.Info("api listening", "port", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "err", err)
	}
	logger.Info("server stopped")
}

func runSweeper(ctx context.Context, svc *app.ReservationService, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.SweepExpired(ctx)
			if err != nil {
				logger.Warn("expiry sweep failed", "err", err)
				continue
			}
			if removed > 0 {
				logger.Info("expiry sweep", "removed", removed)
			}
		}
	}
}
