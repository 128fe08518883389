package models

import "time"

type Role string

const (
	RoleClient  Role = "klijent"
	RoleTrainer Role = "trener"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FirstName         string    `gorm:"not null" json:"first_name"`
	LastName          string    `gorm:"not null" json:"last_name"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	Role              Role      `gorm:"type:varchar(20);not null;default:'klijent'" json:"role"`
	AssignedTrainerID *uint     `json:"assigned_trainer_id,omitempty"`
	Blocked           bool      `gorm:"not null;default:false" json:"blocked"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
