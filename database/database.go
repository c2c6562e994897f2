package database

import (
	"fmt"

	"defi-academy/internal/domain/billing"
	"defi-academy/internal/domain/courses"
	"defi-academy/internal/domain/media"
	"defi-academy/internal/domain/plans"
	"defi-academy/internal/domain/referrals"
	"defi-academy/internal/domain/roadmap"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Models lists every persisted domain model in migration order.
func Models() []interface{} {
	return []interface{}{
		// core
		&users.User{},
		&users.VerificationToken{},
		&plans.Plan{},
		&billing.Payment{},

		// content
		&media.Image{},
		&courses.Course{},
		&courses.Lesson{},

		// engagement
		&roadmap.Item{},
		&roadmap.Vote{},
		&referrals.Commission{},
	}
}

func Connect(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = db
	return nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// InitDB connects and migrates; it exits the process on failure.
func InitDB(dsn string) {
	if err := Connect(dsn); err != nil {
		logger.L().Fatal("database unavailable", zap.Error(err))
	}
	if err := Migrate(DB); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
	logger.L().Info("connected and migrated")
}
