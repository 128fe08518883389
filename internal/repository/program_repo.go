package repository

import (
	"context"

	"github.com/vezba/fitness-backend/internal/models"
	"gorm.io/gorm"
)

type ProgramRepository interface {
	Create(ctx context.Context, program *models.Program) error
	FindByID(ctx context.Context, id uint) (*models.Program, error)
	ListByTrainer(ctx context.Context, trainerID uint) ([]models.Program, error)
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id uint) error
	AddExercise(ctx context.Context, exercise *models.Exercise) error
	DeleteExercise(ctx context.Context, id uint) error
	FindExercise(ctx context.Context, id uint) (*models.Exercise, error)
}

type programRepository struct {
	db *gorm.DB
}

func NewProgramRepository(db *gorm.DB) ProgramRepository {
	return &programRepository{db: db}
}

func (r *programRepository) Create(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepository) FindByID(ctx context.Context, id uint) (*models.Program, error) {
	var p models.Program
	err := r.db.WithContext(ctx).
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *programRepository) ListByTrainer(ctx context.Context, trainerID uint) ([]models.Program, error) {
	var ps []models.Program
	err := r.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("id ASC").
		Find(&ps).Error
	if err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *programRepository) Update(ctx context.Context, program *models.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}

func (r *programRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("program_id = ?", id).Delete(&models.Exercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Program{}, id).Error
	})
}

func (r *programRepository) AddExercise(ctx context.Context, exercise *models.Exercise) error {
	return r.db.WithContext(ctx).Create(exercise).Error
}

func (r *programRepository) DeleteExercise(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Exercise{}, id).Error
}

func (r *programRepository) FindExercise(ctx context.Context, id uint) (*models.Exercise, error) {
	var e models.Exercise
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}
