package dto

import "time"

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type SelectTrainerRequest struct {
	TrainerID uint `json:"trainer_id"`
}

type CreateTermRequest struct {
	ProgramID   *uint     `json:"program_id,omitempty"`
	Type        string    `json:"type"`
	StartAt     time.Time `json:"start_at"`
	DurationMin int       `json:"duration_min"`
	Capacity    int       `json:"capacity"`
}

type RateParticipantRequest struct {
	Rating   int     `json:"rating"`
	Feedback *string `json:"feedback,omitempty"`
}

type SetTermProgramRequest struct {
	ProgramID uint `json:"program_id"`
}

type ProgramRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"`
}

type ExerciseRequest struct {
	Name     string `json:"name"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	RestSec  int    `json:"rest_sec"`
	Position int    `json:"position"`
}

type RunBillingRequest struct {
	Month string `json:"month"`
}

type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}

type AssignTrainerRequest struct {
	TrainerID uint `json:"trainer_id"`
}
