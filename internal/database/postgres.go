package database

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/qadha-helper/internal/config"
	"github.com/vladimiradmaev/qadha-helper/internal/database/migrations"
	"github.com/vladimiradmaev/qadha-helper/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed",
		"host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// Migrate creates the tables and then applies the SQL migrations, which
// add constraints on top of them.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.LoadEmbedded(); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
