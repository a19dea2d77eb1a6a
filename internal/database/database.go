// Package database persists coins in PostgreSQL through gorm.
package database

import (
	"fmt"
	"time"

	"github.com/wnt/memeforge/internal/config"
	"github.com/wnt/memeforge/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured PostgreSQL database and migrates the schema
func Connect(cfg config.Config) (*gorm.DB, error) {
	if cfg.DBHost == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("failed to connect to database: DB_HOST and DB_NAME are required")
	}
	return Open(postgres.Open(cfg.PostgresDSN()))
}

// Open connects through the given dialector and migrates the schema
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := migrateSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func migrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Coin{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Dashboard lists a creator's coins in creation order
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_coins_creator_created_at ON coins(creator, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}
