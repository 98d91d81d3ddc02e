package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-space-backend/config"
	"campus-space-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate runs schema migrations for all persisted models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Outlet{},
		&model.Room{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}
