package models

import "time"

type Program struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TrainerID   uint      `gorm:"not null;index" json:"trainer_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Level       string    `gorm:"type:varchar(20)" json:"level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Exercises []Exercise `gorm:"foreignKey:ProgramID" json:"exercises,omitempty"`
}

type Exercise struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProgramID uint   `gorm:"not null;index" json:"program_id"`
	Name      string `gorm:"not null" json:"name"`
	Sets      int    `gorm:"not null" json:"sets"`
	Reps      int    `gorm:"not null" json:"reps"`
	RestSec   int    `json:"rest_sec"`
	Position  int    `gorm:"not null;default:0" json:"position"`
}
