package models

import "time"

type EnrollmentStatus string

const (
	StatusEnrolled       EnrollmentStatus = "enrolled"
	StatusCanceledByUser EnrollmentStatus = "canceled_by_user"
	StatusAttended       EnrollmentStatus = "attended"
)

type Enrollment struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	TermID           uint             `gorm:"not null;index" json:"term_id"`
	UserID           uint             `gorm:"not null;index" json:"user_id"`
	Status           EnrollmentStatus `gorm:"type:varchar(20);not null;default:'enrolled'" json:"status"`
	Rating           *int             `json:"rating,omitempty"`
	Feedback         *string          `json:"feedback,omitempty"`
	SessionCompleted bool             `gorm:"not null;default:false" json:"session_completed"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	Term *TrainingTerm `gorm:"foreignKey:TermID" json:"term,omitempty"`
}
