package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/notify"
	"github.com/vezba/fitness-backend/internal/repository"
	"github.com/vezba/fitness-backend/pkg/cache"
	"gorm.io/gorm"
)

// bookingCutoff is the single policy constant applied symmetrically to
// booking and cancellation: inside this window before start, neither is
// allowed. Exactly 60 minutes before start still passes.
const bookingCutoff = 60 * time.Minute

type BookingService interface {
	BookTerm(ctx context.Context, userID, termID uint) (*models.Enrollment, error)
	CancelBooking(ctx context.Context, userID, termID uint) error
	ListAvailableTerms(ctx context.Context, userID uint) ([]models.TrainingTerm, error)
	MyEnrollments(ctx context.Context, userID uint) ([]models.Enrollment, error)
}

type bookingService struct {
	termRepo   repository.TermRepository
	enrollRepo repository.EnrollmentRepository
	userRepo   repository.UserRepository
	notifier   notify.Notifier
	auditor    *Auditor
	terms      cache.TermCache
}

func NewBookingService(
	termRepo repository.TermRepository,
	enrollRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
	auditor *Auditor,
	terms cache.TermCache,
) BookingService {
	return &bookingService{
		termRepo:   termRepo,
		enrollRepo: enrollRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		auditor:    auditor,
		terms:      terms,
	}
}

func (s *bookingService) BookTerm(ctx context.Context, userID, termID uint) (*models.Enrollment, error) {
	term, err := s.termRepo.FindByID(ctx, termID)
	if err != nil {
		return nil, ErrTermNotFound
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.AssignedTrainerID == nil {
		return nil, ErrNoTrainerSelected
	}
	if *user.AssignedTrainerID != term.TrainerID {
		return nil, ErrDifferentTrainer
	}

	if time.Until(term.StartAt) < bookingCutoff {
		return nil, ErrTooLate
	}
	if term.Canceled {
		return nil, ErrTermCanceled
	}

	var result *models.Enrollment

	err = s.termRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.enrollRepo.FindByUserAndTerm(ctx, tx, userID, termID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.Status != models.StatusCanceledByUser {
			return ErrAlreadyEnrolled
		}

		// Capacity admission and counter bump are one guarded UPDATE; the
		// enrollment write below rolls it back if it fails.
		ok, err := s.termRepo.IncrementEnrolledIfCapacity(ctx, tx, termID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrTermFull
		}

		if existing != nil {
			if err := s.enrollRepo.Reactivate(ctx, tx, existing.ID); err != nil {
				return err
			}
			existing.Status = models.StatusEnrolled
			existing.Rating = nil
			existing.Feedback = nil
			existing.SessionCompleted = false
			result = existing
			return nil
		}

		created, err := s.enrollRepo.CreateEnrolled(ctx, tx, termID, userID)
		if err != nil {
			return err
		}
		result = created
		return nil
	})
	if errors.Is(err, ErrTermFull) {
		s.auditor.Record(ctx, "booking", "book_term_full", userID, user.FullName(),
			fmt.Sprintf("term %d is at capacity %d", termID, term.Capacity))
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	s.terms.InvalidateTrainer(ctx, term.TrainerID)
	s.notifyTrainer(ctx, term, user, false)
	s.auditor.Record(ctx, "booking", "book_term", userID, user.FullName(),
		fmt.Sprintf("booked term %d", termID))

	return result, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, termID uint) error {
	enrollment, err := s.enrollRepo.FindActiveWithTerm(ctx, userID, termID)
	if err != nil {
		return ErrNotEnrolled
	}
	term := enrollment.Term

	if time.Until(term.StartAt) < bookingCutoff {
		return ErrTooLate
	}

	err = s.termRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Only the cancel that actually flips the row gets to decrement;
		// a racing duplicate is told it was never enrolled.
		if err := s.enrollRepo.Cancel(ctx, tx, enrollment.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotEnrolled
			}
			return err
		}
		if err := s.termRepo.DecrementEnrolled(ctx, tx, termID); err != nil {
			return err
		}
		// A cancellation releases the program the trainer set for this slot.
		return s.termRepo.ClearProgram(ctx, tx, termID)
	})
	if err != nil {
		return err
	}

	s.terms.InvalidateTrainer(ctx, term.TrainerID)

	user, uerr := s.userRepo.FindByID(ctx, userID)
	if uerr == nil {
		s.notifyTrainer(ctx, term, user, true)
		s.auditor.Record(ctx, "booking", "cancel_booking", userID, user.FullName(),
			fmt.Sprintf("canceled booking for term %d", termID))
	}

	return nil
}

func (s *bookingService) ListAvailableTerms(ctx context.Context, userID uint) ([]models.TrainingTerm, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.AssignedTrainerID == nil {
		return nil, ErrNoTrainerSelected
	}
	trainerID := *user.AssignedTrainerID

	if terms, ok := s.terms.GetTrainerTerms(ctx, trainerID); ok {
		return terms, nil
	}

	terms, err := s.termRepo.ListUpcomingByTrainer(ctx, trainerID, time.Now())
	if err != nil {
		return nil, err
	}
	s.terms.SetTrainerTerms(ctx, trainerID, terms)
	return terms, nil
}

func (s *bookingService) MyEnrollments(ctx context.Context, userID uint) ([]models.Enrollment, error) {
	return s.enrollRepo.ListByUser(ctx, userID)
}

// notifyTrainer emails the term's trainer about a booking or a client
// cancellation. Strictly best-effort: failures are logged, never surfaced.
func (s *bookingService) notifyTrainer(ctx context.Context, term *models.TrainingTerm, client *models.User, canceled bool) {
	trainer, err := s.userRepo.FindByID(ctx, term.TrainerID)
	if err != nil {
		log.Printf("[Booking] trainer %d lookup for notification failed: %v", term.TrainerID, err)
		return
	}

	title := programTitle(term)
	if canceled {
		err = s.notifier.TrainerCanceledByClient(trainer.Email, title, term.StartAt, client.FullName())
	} else {
		err = s.notifier.TrainerBooked(trainer.Email, title, term.StartAt, client.FullName())
	}
	if err != nil {
		log.Printf("[Booking] trainer notification failed: %v", err)
	}
}

func programTitle(term *models.TrainingTerm) string {
	if term.Program != nil {
		return term.Program.Title
	}
	return "training session"
}
