package models

import "time"

type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
)

type Invoice struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Number       string        `gorm:"uniqueIndex;not null" json:"number"`
	UserID       uint          `gorm:"not null;index:idx_invoice_user_month,unique" json:"user_id"`
	Month        string        `gorm:"type:varchar(7);not null;index:idx_invoice_user_month,unique" json:"month"`
	SessionCount int           `gorm:"not null" json:"session_count"`
	Amount       float64       `gorm:"not null" json:"amount"`
	Status       InvoiceStatus `gorm:"type:varchar(20);not null;default:'issued'" json:"status"`
	IssuedAt     time.Time     `json:"issued_at"`
}
