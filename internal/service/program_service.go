package service

import (
	"context"
	"time"

	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/repository"
)

type ProgramInput struct {
	Title       string
	Description string
	Level       string
}

type ExerciseInput struct {
	Name     string
	Sets     int
	Reps     int
	RestSec  int
	Position int
}

type ProgramService interface {
	Create(ctx context.Context, trainerID uint, input ProgramInput) (*models.Program, error)
	Get(ctx context.Context, trainerID, programID uint) (*models.Program, error)
	List(ctx context.Context, trainerID uint) ([]models.Program, error)
	Update(ctx context.Context, trainerID, programID uint, input ProgramInput) (*models.Program, error)
	Delete(ctx context.Context, trainerID, programID uint) error
	AddExercise(ctx context.Context, trainerID, programID uint, input ExerciseInput) (*models.Exercise, error)
	RemoveExercise(ctx context.Context, trainerID, exerciseID uint) error
}

type programService struct {
	programRepo repository.ProgramRepository
	termRepo    repository.TermRepository
}

func NewProgramService(programRepo repository.ProgramRepository, termRepo repository.TermRepository) ProgramService {
	return &programService{programRepo: programRepo, termRepo: termRepo}
}

func (s *programService) Create(ctx context.Context, trainerID uint, input ProgramInput) (*models.Program, error) {
	program := &models.Program{
		TrainerID:   trainerID,
		Title:       input.Title,
		Description: input.Description,
		Level:       input.Level,
	}
	if err := s.programRepo.Create(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Get(ctx context.Context, trainerID, programID uint) (*models.Program, error) {
	return s.owned(ctx, trainerID, programID)
}

func (s *programService) List(ctx context.Context, trainerID uint) ([]models.Program, error) {
	return s.programRepo.ListByTrainer(ctx, trainerID)
}

func (s *programService) Update(ctx context.Context, trainerID, programID uint, input ProgramInput) (*models.Program, error) {
	program, err := s.owned(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}
	program.Title = input.Title
	program.Description = input.Description
	program.Level = input.Level
	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Delete(ctx context.Context, trainerID, programID uint) error {
	if _, err := s.owned(ctx, trainerID, programID); err != nil {
		return err
	}

	// Refuse while a future term still points at the program; the trainer
	// has to detach or cancel those terms first.
	inUse, err := s.termRepo.HasUpcomingWithProgram(ctx, programID, time.Now())
	if err != nil {
		return err
	}
	if inUse {
		return ErrProgramInUse
	}

	return s.programRepo.Delete(ctx, programID)
}

func (s *programService) AddExercise(ctx context.Context, trainerID, programID uint, input ExerciseInput) (*models.Exercise, error) {
	if _, err := s.owned(ctx, trainerID, programID); err != nil {
		return nil, err
	}

	exercise := &models.Exercise{
		ProgramID: programID,
		Name:      input.Name,
		Sets:      input.Sets,
		Reps:      input.Reps,
		RestSec:   input.RestSec,
		Position:  input.Position,
	}
	if err := s.programRepo.AddExercise(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *programService) RemoveExercise(ctx context.Context, trainerID, exerciseID uint) error {
	exercise, err := s.programRepo.FindExercise(ctx, exerciseID)
	if err != nil {
		return ErrProgramNotFound
	}
	if _, err := s.owned(ctx, trainerID, exercise.ProgramID); err != nil {
		return err
	}
	return s.programRepo.DeleteExercise(ctx, exerciseID)
}

func (s *programService) owned(ctx context.Context, trainerID, programID uint) (*models.Program, error) {
	program, err := s.programRepo.FindByID(ctx, programID)
	if err != nil {
		return nil, ErrProgramNotFound
	}
	if program.TrainerID != trainerID {
		return nil, ErrNotAllowed
	}
	return program, nil
}
