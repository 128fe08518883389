package database

import (
	"log"

	"github.com/vezba/fitness-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Program{},
		&models.Exercise{},
		&models.TrainingTerm{},
		&models.Enrollment{},
		&models.AuthChallenge{},
		&models.Invoice{},
		&models.AuditEntry{},
	); err != nil {
		return err
	}

	// Partial unique index: at most one non-canceled enrollment per
	// (term, user) pair; rebooking reactivates the canceled row instead.
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollment_active
		ON enrollments (term_id, user_id)
		WHERE status <> 'canceled_by_user'
	`)

	return nil
}
