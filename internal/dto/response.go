package dto

import (
	"time"

	"github.com/vezba/fitness-backend/internal/models"
)

type ChallengeResponse struct {
	ChallengeID string `json:"challenge_id"`
}

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	Role        models.Role `json:"role"`
	UserID      uint        `json:"user_id"`
}

type TermResponse struct {
	ID             uint            `json:"id"`
	TrainerID      uint            `json:"trainer_id"`
	ProgramID      *uint           `json:"program_id,omitempty"`
	ProgramTitle   string          `json:"program_title,omitempty"`
	Type           models.TermType `json:"type"`
	StartAt        time.Time       `json:"start_at"`
	DurationMin    int             `json:"duration_min"`
	Capacity       int             `json:"capacity"`
	EnrolledCount  int             `json:"enrolled_count"`
	SeatsAvailable int             `json:"seats_available"`
	Canceled       bool            `json:"canceled"`
}

type EnrollmentResponse struct {
	ID               uint                    `json:"id"`
	TermID           uint                    `json:"term_id"`
	UserID           uint                    `json:"user_id"`
	Status           models.EnrollmentStatus `json:"status"`
	Rating           *int                    `json:"rating,omitempty"`
	Feedback         *string                 `json:"feedback,omitempty"`
	SessionCompleted bool                    `json:"session_completed"`
	Term             *TermResponse           `json:"term,omitempty"`
}

type UserResponse struct {
	ID                uint        `json:"id"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	Email             string      `json:"email"`
	Role              models.Role `json:"role"`
	AssignedTrainerID *uint       `json:"assigned_trainer_id,omitempty"`
	Blocked           bool        `json:"blocked"`
}

type BillingRunResponse struct {
	Month           string `json:"month"`
	InvoicesCreated int    `json:"invoices_created"`
}

type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func ToTermResponse(t *models.TrainingTerm) TermResponse {
	resp := TermResponse{
		ID:             t.ID,
		TrainerID:      t.TrainerID,
		ProgramID:      t.ProgramID,
		Type:           t.Type,
		StartAt:        t.StartAt,
		DurationMin:    t.DurationMin,
		Capacity:       t.Capacity,
		EnrolledCount:  t.EnrolledCount,
		SeatsAvailable: t.Capacity - t.EnrolledCount,
		Canceled:       t.Canceled,
	}
	if t.Program != nil {
		resp.ProgramTitle = t.Program.Title
	}
	return resp
}

func ToEnrollmentResponse(e *models.Enrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:               e.ID,
		TermID:           e.TermID,
		UserID:           e.UserID,
		Status:           e.Status,
		Rating:           e.Rating,
		Feedback:         e.Feedback,
		SessionCompleted: e.SessionCompleted,
	}
	if e.Term != nil {
		term := ToTermResponse(e.Term)
		resp.Term = &term
	}
	return resp
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             u.Email,
		Role:              u.Role,
		AssignedTrainerID: u.AssignedTrainerID,
		Blocked:           u.Blocked,
	}
}
