package models

import (
	"time"

	"github.com/google/uuid"
)

type ChallengePurpose string

const (
	PurposeLogin         ChallengePurpose = "login"
	PurposePasswordReset ChallengePurpose = "password_reset"
)

// AuthChallenge is the ephemeral OTP record behind login 2FA and
// password resets. The code itself is never stored, only its bcrypt hash.
type AuthChallenge struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	Purpose    ChallengePurpose `gorm:"type:varchar(20);not null" json:"purpose"`
	CodeHash   string           `gorm:"not null" json:"-"`
	ExpiresAt  time.Time        `gorm:"not null" json:"expires_at"`
	ConsumedAt *time.Time       `json:"consumed_at,omitempty"`
	Attempts   int              `gorm:"not null;default:0" json:"attempts"`
	CreatedAt  time.Time        `json:"created_at"`
}
