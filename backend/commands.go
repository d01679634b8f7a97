package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"printshop/m/internal/api"
	"printshop/m/internal/database"
	"printshop/m/internal/migrations"
	"printshop/m/internal/telemetry"
)

const (
	shutdownTimeout = 20 * time.Second
	version         = "0.3.0"
)

var (
	inventorySeed string
	catalogSeed   string
	seedOnStart   bool
	adminEmail    string
	adminPassword string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := migrations.Run(db); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("driver", cfg.DatabaseDriver))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the inventory CSV and product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.seed(cmd.Context())
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or reset its password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password := adminEmail, adminPassword
		if email == "" {
			email = cfg.AdminEmail
		}
		if password == "" {
			password = cfg.AdminPassword
		}
		if email == "" || password == "" {
			return fmt.Errorf("admin email and password are required")
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return a.ensureAdmin(cmd.Context(), email, password)
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	a, err := openApp(parent)
	if err != nil {
		return err
	}
	defer a.Close()

	if seedOnStart {
		if err := a.seed(parent); err != nil {
			logger.Warn("seeding skipped", zap.Error(err))
		}
	}
	if err := a.ensureAdmin(parent, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	tracing, err := telemetry.Setup(parent, telemetry.Options{
		ServiceName: "printshop",
		Version:     version,
		Exporter:    cfg.TraceExporter,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	handler := api.New(api.Config{
		Inventory:      a.inventory,
		Users:          a.users,
		Storefront:     a.storefront,
		Tokens:         a.tokens,
		Logger:         logger.Named("http"),
		CORSOrigins:    cfg.CORSOrigins,
		TracerProvider: tracing.TracerProvider(),
	})
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("driver", cfg.DatabaseDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down, waiting for pending requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server failed to shut down gracefully: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
