package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is one of the known invoice statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID       uuid.UUID       `gorm:"type:uuid;index" json:"buyer_id"`
	UnitID        uuid.UUID       `gorm:"type:uuid;index" json:"unit_id"`
	ProjectID     uuid.UUID       `gorm:"type:uuid;index" json:"project_id"`
	InvoiceNumber string          `gorm:"uniqueIndex" json:"invoice_number"`
	IssuedDate    time.Time       `json:"issued_date"`
	DueDate       time.Time       `json:"due_date"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(16,2)" json:"total_amount"`
	Status        InvoiceStatus   `gorm:"index" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsCancelled invoices never count toward what a buyer owes.
func (i *Invoice) IsCancelled() bool {
	return i.Status == InvoiceStatusCancelled
}
