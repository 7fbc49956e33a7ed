package db

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize sets up the database connection with WAL mode for concurrency
func Initialize(dbPath string, environment string) error {
	conn, err := Open(dbPath+"?_journal_mode=WAL&_foreign_keys=1&_busy_timeout=5000", environment)
	if err != nil {
		return err
	}
	DB = conn

	zap.L().Info("Database connection established", zap.String("path", dbPath), zap.Bool("wal", true))
	return nil
}

// Open connects to the sqlite database described by dsn without touching DB.
func Open(dsn string, environment string) (*gorm.DB, error) {
	logLevel := logger.Info
	switch environment {
	case "production":
		logLevel = logger.Warn
	case "test":
		logLevel = logger.Silent
	}

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

// OpenMemory opens an isolated shared-cache in-memory database named name.
func OpenMemory(name string) (*gorm.DB, error) {
	name = strings.ReplaceAll(name, "/", "_")
	return Open("file:"+name+"?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=1", "test")
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	if err := DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	zap.L().Info("Database migrations completed", zap.Int("models", len(models)))
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
