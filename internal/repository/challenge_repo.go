package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vezba/fitness-backend/internal/models"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *models.AuthChallenge) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.AuthChallenge, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	Consume(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) error
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, challenge *models.AuthChallenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

func (r *challengeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AuthChallenge, error) {
	var c models.AuthChallenge
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *challengeRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.AuthChallenge{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}

// Consume marks the challenge used; the guard on consumed_at makes it
// single-shot even if two verify calls race.
func (r *challengeRepository) Consume(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.AuthChallenge{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *challengeRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.AuthChallenge{}).Error
}
