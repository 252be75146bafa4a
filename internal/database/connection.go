// internal/database/connection.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/campus-marketplace/internal/config"
	"github.com/javajoker/campus-marketplace/internal/models"
	"github.com/javajoker/campus-marketplace/internal/repository"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Database connection established")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Failed to get underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Failed to close database connection")
		return
	}
	logrus.Info("Database connection closed")
}

// Open returns the store selected by cfg.Driver together with a function
// releasing it. The memory driver needs no migration.
func Open(cfg config.DatabaseConfig) (repository.Store, func(), error) {
	if cfg.InMemory() {
		logrus.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := Initialize(cfg)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGormStore(db), func() { Close(db) }, nil
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Product{},
		&models.Image{},
		&models.Offer{},
		&models.Question{},
		&models.Wishlist{},
		&models.Rating{},
		&models.Report{},
		&models.AuditLog{},
		&models.AdminNotification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_listed ON products(visible, expired, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reports_profile_target ON reports(target_type, reported_profile_id)",
		"CREATE INDEX IF NOT EXISTS idx_reports_product_target ON reports(target_type, reported_product_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_admin_notifications_status ON admin_notifications(status, created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// AdminSeed describes the optional staff account created by SeedInitialData.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// SeedInitialData creates the default categories and, when admin is set, a
// staff account with admin permission. Running it twice is harmless.
func SeedInitialData(ctx context.Context, store repository.Store, admin *AdminSeed) error {
	logrus.Info("Seeding initial data")

	if err := store.EnsureCategories(ctx, models.DefaultCategories); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if admin != nil && admin.Email != "" {
		if err := seedAdmin(ctx, store, admin); err != nil {
			return err
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}

func seedAdmin(ctx context.Context, store repository.Store, seed *AdminSeed) error {
	user, err := store.FindUserByEmail(ctx, seed.Email)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		username := seed.Username
		if username == "" {
			username = models.EmailLocalPart(seed.Email)
		}
		user = &models.User{
			Username: username,
			Email:    seed.Email,
		}
		if seed.Password != "" {
			if err := user.SetPassword(seed.Password); err != nil {
				return fmt.Errorf("failed to set admin password: %w", err)
			}
		}
		if err := store.CreateAccount(ctx, user, &models.Profile{Email: seed.Email}); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	profile, err := store.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load admin profile: %w", err)
	}
	if err := store.SetPermissionLevel(ctx, profile.ID, models.PermissionAdmin); err != nil {
		return fmt.Errorf("failed to grant admin permission: %w", err)
	}

	logrus.WithField("email", seed.Email).Info("Admin account seeded")
	return nil
}
