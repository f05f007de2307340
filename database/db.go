package database

import (
	"fmt"
	"log/slog" // use slog for structured logging
	"strings"
	"time"

	"libraryhub/internal/config"
	"libraryhub/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens the postgres database named by DATABASE_URL and brings the schema up to date.
func ConnectDB(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDevelopment() && cfg.LogLevel == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(withUTC(cfg.DatabaseURL)), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database_migrations_applied")

	log.Info("database_connected")
	return db, nil
}

// withUTC pins the session zone so date columns compare against UTC parameters.
func withUTC(dsn string) string {
	if strings.Contains(dsn, "timezone=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&timezone=UTC"
		}
		return dsn + "?timezone=UTC"
	}
	return strings.TrimSpace(dsn) + " timezone=UTC"
}

// Migrate creates or updates every table the desk uses.
// Owners come before the records that reference them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Librarian{},
		&models.Member{},
		&models.Book{},
		&models.BorrowedBook{},
		&models.Transaction{},
	)
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
