package repository

import (
	"context"

	"github.com/vezba/fitness-backend/internal/models"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
