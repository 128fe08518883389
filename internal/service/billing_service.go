package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/notify"
	"github.com/vezba/fitness-backend/internal/repository"
)

type BillingService interface {
	RunMonthlyBilling(ctx context.Context, actorID uint, month string) (int, error)
	ListInvoices(ctx context.Context, userID uint) ([]models.Invoice, error)
	ListMonth(ctx context.Context, month string) ([]models.Invoice, error)
	MarkPaid(ctx context.Context, invoiceID uint) error
}

type billingService struct {
	userRepo        repository.UserRepository
	enrollRepo      repository.EnrollmentRepository
	invoiceRepo     repository.InvoiceRepository
	notifier        notify.Notifier
	auditor         *Auditor
	pricePerSession float64
}

func NewBillingService(
	userRepo repository.UserRepository,
	enrollRepo repository.EnrollmentRepository,
	invoiceRepo repository.InvoiceRepository,
	notifier notify.Notifier,
	auditor *Auditor,
	pricePerSession float64,
) BillingService {
	return &billingService{
		userRepo:        userRepo,
		enrollRepo:      enrollRepo,
		invoiceRepo:     invoiceRepo,
		notifier:        notifier,
		auditor:         auditor,
		pricePerSession: pricePerSession,
	}
}

// RunMonthlyBilling invoices every client with at least one attended session
// in the month. Re-running the same month is safe: already-invoiced clients
// are skipped, and per-client failures do not abort the batch.
func (s *billingService) RunMonthlyBilling(ctx context.Context, actorID uint, month string) (int, error) {
	from, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, ErrBadMonth
	}
	to := from.AddDate(0, 1, 0)

	clients, err := s.userRepo.ListByRole(ctx, models.RoleClient)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, client := range clients {
		exists, err := s.invoiceRepo.ExistsForUserMonth(ctx, client.ID, month)
		if err != nil {
			log.Printf("[Billing] invoice lookup for client %d failed: %v", client.ID, err)
			continue
		}
		if exists {
			continue
		}

		count, err := s.enrollRepo.CountAttendedInRange(ctx, client.ID, from, to)
		if err != nil {
			log.Printf("[Billing] session count for client %d failed: %v", client.ID, err)
			continue
		}
		if count == 0 {
			continue
		}

		invoice := &models.Invoice{
			Number:       uuid.NewString(),
			UserID:       client.ID,
			Month:        month,
			SessionCount: int(count),
			Amount:       float64(count) * s.pricePerSession,
			Status:       models.InvoiceIssued,
			IssuedAt:     time.Now(),
		}
		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			log.Printf("[Billing] invoice for client %d failed: %v", client.ID, err)
			continue
		}
		created++

		if err := s.notifier.InvoiceIssued(client.Email, invoice.Number, month, invoice.Amount); err != nil {
			log.Printf("[Billing] invoice email to %s failed: %v", client.Email, err)
		}
	}

	s.auditor.Record(ctx, "billing", "run_monthly", actorID, "",
		fmt.Sprintf("month %s, %d invoices", month, created))
	return created, nil
}

func (s *billingService) ListInvoices(ctx context.Context, userID uint) ([]models.Invoice, error) {
	return s.invoiceRepo.ListByUser(ctx, userID)
}

func (s *billingService) ListMonth(ctx context.Context, month string) ([]models.Invoice, error) {
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, ErrBadMonth
	}
	return s.invoiceRepo.ListByMonth(ctx, month)
}

func (s *billingService) MarkPaid(ctx context.Context, invoiceID uint) error {
	return s.invoiceRepo.MarkPaid(ctx, invoiceID)
}
