package models

import "time"

type TermType string

const (
	TermIndividual TermType = "individual"
	TermGroup      TermType = "group"
)

type TrainingTerm struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TrainerID     uint      `gorm:"not null;index" json:"trainer_id"`
	ProgramID     *uint     `json:"program_id,omitempty"`
	Type          TermType  `gorm:"type:varchar(20);not null" json:"type"`
	StartAt       time.Time `gorm:"not null" json:"start_at"`
	DurationMin   int       `gorm:"not null" json:"duration_min"`
	Capacity      int       `gorm:"not null" json:"capacity"`
	EnrolledCount int       `gorm:"not null;default:0" json:"enrolled_count"`
	Canceled      bool      `gorm:"not null;default:false" json:"canceled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Program *Program `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// EndAt is the moment the session finishes; ratings and attendance
// may only be recorded after it.
func (t *TrainingTerm) EndAt() time.Time {
	return t.StartAt.Add(time.Duration(t.DurationMin) * time.Minute)
}
