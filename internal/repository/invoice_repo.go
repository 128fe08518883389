package repository

import (
	"context"

	"github.com/vezba/fitness-backend/internal/models"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	ExistsForUserMonth(ctx context.Context, userID uint, month string) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Invoice, error)
	ListByMonth(ctx context.Context, month string) ([]models.Invoice, error)
	MarkPaid(ctx context.Context, id uint) error
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) ExistsForUserMonth(ctx context.Context, userID uint, month string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("user_id = ? AND month = ?", userID, month).
		Count(&count).Error
	return count > 0, err
}

func (r *invoiceRepository) ListByUser(ctx context.Context, userID uint) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) ListByMonth(ctx context.Context, month string) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("month = ?", month).
		Order("user_id ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Update("status", models.InvoicePaid).Error
}
