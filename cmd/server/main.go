// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajoker/campus-marketplace/internal/config"
	"github.com/javajoker/campus-marketplace/internal/database"
	"github.com/javajoker/campus-marketplace/internal/i18n"
	"github.com/javajoker/campus-marketplace/internal/repository"
	"github.com/javajoker/campus-marketplace/internal/router"
	"github.com/javajoker/campus-marketplace/internal/utils"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logrus.WithError(err).Fatal("Command failed")
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "campus-marketplace",
		Short:         "Campus marketplace API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and GraphQL server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "Run migrations and seed categories before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if cfg.Database.InMemory() {
				return errors.New("migrate needs DB_DRIVER=postgres")
			}

			db, err := database.Initialize(cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close(db)

			return database.RunMigrations(db)
		},
	}
}

func seedCmd() *cobra.Command {
	var admin database.AdminSeed

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create default categories and an optional admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			store, closeStore, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer closeStore()

			return database.SeedInitialData(cmd.Context(), store, &admin)
		},
	}

	cmd.Flags().StringVar(&admin.Email, "admin-email", "", "Email of the admin account to create or promote")
	cmd.Flags().StringVar(&admin.Username, "admin-username", "", "Username for a newly created admin account")
	cmd.Flags().StringVar(&admin.Password, "admin-password", os.Getenv("ADMIN_PASSWORD"), "Password for a newly created admin account")
	return cmd
}

// setup loads configuration and prepares the process wide state every
// command relies on.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	configureLogging(cfg)

	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		return nil, fmt.Errorf("failed to initialize i18n: %w", err)
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetJWTVerifyExpiration(cfg.JWT.VerifyExpiration)

	return cfg, nil
}

func configureLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	var store repository.Store
	if cfg.Database.InMemory() {
		store = repository.NewMemoryStore()
	} else {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if migrate {
			if err := database.RunMigrations(db); err != nil {
				return err
			}
		}
		store = repository.NewGormStore(db)
	}

	// The memory store always starts empty
	if migrate || cfg.Database.InMemory() {
		if err := database.SeedInitialData(ctx, store, nil); err != nil {
			return err
		}
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := router.Initialize(store, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}
	logrus.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logrus.Info("Server exited")
	return nil
}
