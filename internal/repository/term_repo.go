package repository

import (
	"context"
	"time"

	"github.com/vezba/fitness-backend/internal/models"
	"gorm.io/gorm"
)

type TermRepository interface {
	Create(ctx context.Context, term *models.TrainingTerm) error
	FindByID(ctx context.Context, id uint) (*models.TrainingTerm, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.TrainingTerm, error)
	IncrementEnrolledIfCapacity(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	DecrementEnrolled(ctx context.Context, tx *gorm.DB, id uint) error
	SetCanceled(ctx context.Context, tx *gorm.DB, id uint) error
	ClearProgram(ctx context.Context, tx *gorm.DB, id uint) error
	SetProgram(ctx context.Context, id uint, programID uint) error
	ListUpcomingByTrainer(ctx context.Context, trainerID uint, from time.Time) ([]models.TrainingTerm, error)
	HasUpcomingWithProgram(ctx context.Context, programID uint, from time.Time) (bool, error)
	GetDB() *gorm.DB
}

type termRepository struct {
	db *gorm.DB
}

func NewTermRepository(db *gorm.DB) TermRepository {
	return &termRepository{db: db}
}

func (r *termRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *termRepository) Create(ctx context.Context, term *models.TrainingTerm) error {
	return r.db.WithContext(ctx).Create(term).Error
}

func (r *termRepository) FindByID(ctx context.Context, id uint) (*models.TrainingTerm, error) {
	var term models.TrainingTerm
	if err := r.db.WithContext(ctx).Preload("Program").First(&term, id).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

// FindByIDForUpdate acquires a row-level lock on the term within the given transaction.
func (r *termRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.TrainingTerm, error) {
	var term models.TrainingTerm
	if err := tx.WithContext(ctx).
		Set("gorm:query_option", "FOR UPDATE").
		First(&term, id).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

// IncrementEnrolledIfCapacity is the single admission primitive for bookings:
// the capacity check and the counter bump happen in one guarded UPDATE, so
// concurrent bookings can never push enrolled_count past capacity.
func (r *termRepository) IncrementEnrolledIfCapacity(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	res := tx.WithContext(ctx).
		Model(&models.TrainingTerm{}).
		Where("id = ? AND canceled = ? AND enrolled_count < capacity", id, false).
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *termRepository) DecrementEnrolled(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).
		Model(&models.TrainingTerm{}).
		Where("id = ? AND enrolled_count > 0", id).
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count - 1")).Error
}

func (r *termRepository) SetCanceled(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).
		Model(&models.TrainingTerm{}).
		Where("id = ?", id).
		Update("canceled", true).Error
}

func (r *termRepository) ClearProgram(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).
		Model(&models.TrainingTerm{}).
		Where("id = ?", id).
		Update("program_id", nil).Error
}

func (r *termRepository) SetProgram(ctx context.Context, id uint, programID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.TrainingTerm{}).
		Where("id = ?", id).
		Update("program_id", programID).Error
}

func (r *termRepository) ListUpcomingByTrainer(ctx context.Context, trainerID uint, from time.Time) ([]models.TrainingTerm, error) {
	var terms []models.TrainingTerm
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("trainer_id = ? AND canceled = ? AND start_at > ?", trainerID, false, from).
		Order("start_at ASC").
		Find(&terms).Error
	if err != nil {
		return nil, err
	}
	return terms, nil
}

func (r *termRepository) HasUpcomingWithProgram(ctx context.Context, programID uint, from time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TrainingTerm{}).
		Where("program_id = ? AND canceled = ? AND start_at > ?", programID, false, from).
		Count(&count).Error
	return count > 0, err
}
