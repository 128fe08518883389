package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/notify"
	"github.com/vezba/fitness-backend/internal/repository"
	"github.com/vezba/fitness-backend/pkg/cache"
)

const (
	groupCapacityMin = 2
	groupCapacityMax = 30
)

type CreateTermInput struct {
	ProgramID   *uint
	Type        models.TermType
	StartAt     time.Time
	DurationMin int
	Capacity    int
}

type ScheduleService interface {
	CreateTerm(ctx context.Context, trainerID uint, input CreateTermInput) (*models.TrainingTerm, error)
	CancelTerm(ctx context.Context, trainerID, termID uint) error
	RateParticipant(ctx context.Context, trainerID, termID, userID uint, rating int, feedback *string) error
	MarkSessionCompleted(ctx context.Context, trainerID, termID, userID uint) error
	SetTermProgram(ctx context.Context, trainerID, termID, programID uint) error
	ListParticipants(ctx context.Context, trainerID, termID uint) ([]models.Enrollment, error)
	ListMyTerms(ctx context.Context, trainerID uint) ([]models.TrainingTerm, error)
}

type scheduleService struct {
	termRepo    repository.TermRepository
	enrollRepo  repository.EnrollmentRepository
	userRepo    repository.UserRepository
	programRepo repository.ProgramRepository
	notifier    notify.Notifier
	auditor     *Auditor
	terms       cache.TermCache
}

func NewScheduleService(
	termRepo repository.TermRepository,
	enrollRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	programRepo repository.ProgramRepository,
	notifier notify.Notifier,
	auditor *Auditor,
	terms cache.TermCache,
) ScheduleService {
	return &scheduleService{
		termRepo:    termRepo,
		enrollRepo:  enrollRepo,
		userRepo:    userRepo,
		programRepo: programRepo,
		notifier:    notifier,
		auditor:     auditor,
		terms:       terms,
	}
}

func (s *scheduleService) CreateTerm(ctx context.Context, trainerID uint, input CreateTermInput) (*models.TrainingTerm, error) {
	capacity := input.Capacity
	switch input.Type {
	case models.TermIndividual:
		// Individual sessions always hold exactly one client.
		capacity = 1
	case models.TermGroup:
		if capacity < groupCapacityMin || capacity > groupCapacityMax {
			return nil, ErrBadCapacity
		}
	default:
		return nil, ErrBadCapacity
	}

	if !input.StartAt.After(time.Now()) {
		return nil, ErrStartInPast
	}

	if input.ProgramID != nil {
		program, err := s.programRepo.FindByID(ctx, *input.ProgramID)
		if err != nil {
			return nil, ErrProgramNotFound
		}
		if program.TrainerID != trainerID {
			return nil, ErrNotAllowed
		}
	}

	term := &models.TrainingTerm{
		TrainerID:   trainerID,
		ProgramID:   input.ProgramID,
		Type:        input.Type,
		StartAt:     input.StartAt,
		DurationMin: input.DurationMin,
		Capacity:    capacity,
	}
	if err := s.termRepo.Create(ctx, term); err != nil {
		return nil, err
	}

	s.terms.InvalidateTrainer(ctx, trainerID)
	s.audit(ctx, trainerID, "create_term", fmt.Sprintf("term %d at %s", term.ID, term.StartAt.Format(time.RFC3339)))

	return term, nil
}

func (s *scheduleService) CancelTerm(ctx context.Context, trainerID, termID uint) error {
	term, err := s.termRepo.FindByID(ctx, termID)
	if err != nil {
		return ErrTermNotFound
	}
	if term.TrainerID != trainerID {
		return ErrNotAllowed
	}
	if term.Canceled {
		return ErrTermCanceled
	}
	if time.Until(term.StartAt) < bookingCutoff {
		return ErrCancelWithin60Min
	}

	// Snapshot the recipients before the flag flips; afterwards the
	// enrollments no longer count as active.
	userIDs, err := s.enrollRepo.ListEnrolledUserIDs(ctx, termID)
	if err != nil {
		return err
	}

	if err := s.termRepo.SetCanceled(ctx, s.termRepo.GetDB(), termID); err != nil {
		return err
	}

	s.terms.InvalidateTrainer(ctx, trainerID)

	trainer, terr := s.userRepo.FindByID(ctx, trainerID)
	trainerName := ""
	if terr == nil {
		trainerName = trainer.FullName()
	}
	title := programTitle(term)

	// Fan-out tolerates individual failures; one dead mailbox must not
	// starve the rest of the batch.
	for _, userID := range userIDs {
		client, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			log.Printf("[Schedule] client %d lookup for cancellation notice failed: %v", userID, err)
			continue
		}
		if err := s.notifier.ClientTermCanceled(client.Email, trainerName, title, term.StartAt); err != nil {
			log.Printf("[Schedule] cancellation notice to %s failed: %v", client.Email, err)
		}
	}

	s.audit(ctx, trainerID, "cancel_term", fmt.Sprintf("term %d, %d clients notified", termID, len(userIDs)))
	return nil
}

func (s *scheduleService) RateParticipant(ctx context.Context, trainerID, termID, userID uint, rating int, feedback *string) error {
	if rating < 1 || rating > 10 {
		return ErrBadRating
	}

	term, err := s.termRepo.FindByID(ctx, termID)
	if err != nil {
		return ErrTermNotFound
	}
	if term.TrainerID != trainerID {
		return ErrNotAllowed
	}
	if time.Now().Before(term.EndAt()) {
		return ErrTermNotFinished
	}

	if err := s.enrollRepo.SetRating(ctx, termID, userID, rating, feedback); err != nil {
		return err
	}

	s.audit(ctx, trainerID, "rate_participant", fmt.Sprintf("term %d user %d rating %d", termID, userID, rating))
	return nil
}

func (s *scheduleService) MarkSessionCompleted(ctx context.Context, trainerID, termID, userID uint) error {
	term, err := s.termRepo.FindByID(ctx, termID)
	if err != nil {
		return ErrTermNotFound
	}
	if term.TrainerID != trainerID {
		return ErrNotAllowed
	}
	if time.Now().Before(term.EndAt()) {
		return ErrTermNotFinished
	}

	if err := s.enrollRepo.MarkAttended(ctx, termID, userID); err != nil {
		return err
	}

	s.audit(ctx, trainerID, "mark_completed", fmt.Sprintf("term %d user %d", termID, userID))
	return nil
}

func (s *scheduleService) SetTermProgram(ctx context.Context, trainerID, termID, programID uint) error {
	term, err := s.termRepo.FindByID(ctx, termID)
	if err != nil {
		return ErrTermNotFound
	}
	if term.TrainerID != trainerID {
		return ErrNotAllowed
	}

	program, err := s.programRepo.FindByID(ctx, programID)
	if err != nil {
		return ErrProgramNotFound
	}
	if program.TrainerID != trainerID {
		return ErrNotAllowed
	}

	// A program is only assigned to slots someone actually trains in.
	hasEnrolled, err := s.enrollRepo.HasEnrolled(ctx, termID)
	if err != nil {
		return err
	}
	if !hasEnrolled {
		return ErrNotEnrolled
	}

	if err := s.termRepo.SetProgram(ctx, termID, programID); err != nil {
		return err
	}

	s.terms.InvalidateTrainer(ctx, trainerID)
	return nil
}

func (s *scheduleService) ListParticipants(ctx context.Context, trainerID, termID uint) ([]models.Enrollment, error) {
	term, err := s.termRepo.FindByID(ctx, termID)
	if err != nil {
		return nil, ErrTermNotFound
	}
	if term.TrainerID != trainerID {
		return nil, ErrNotAllowed
	}
	return s.enrollRepo.ListEnrolledByTerm(ctx, termID)
}

func (s *scheduleService) ListMyTerms(ctx context.Context, trainerID uint) ([]models.TrainingTerm, error) {
	return s.termRepo.ListUpcomingByTrainer(ctx, trainerID, time.Now())
}

func (s *scheduleService) audit(ctx context.Context, trainerID uint, action, details string) {
	name := ""
	if trainer, err := s.userRepo.FindByID(ctx, trainerID); err == nil {
		name = trainer.FullName()
	}
	s.auditor.Record(ctx, "schedule", action, trainerID, name, details)
}
