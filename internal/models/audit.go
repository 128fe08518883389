package models

import "time"

type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `gorm:"type:varchar(40);not null;index" json:"category"`
	Action    string    `gorm:"type:varchar(60);not null" json:"action"`
	ActorID   uint      `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
