package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// Payment is money received from a buyer. InvoiceID is nil for payments that
// are not tied to a single invoice yet.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	BuyerID       uuid.UUID       `gorm:"type:uuid;index" json:"buyer_id"`
	UnitID        *uuid.UUID      `gorm:"type:uuid" json:"unit_id,omitempty"`
	Amount        decimal.Decimal `gorm:"type:numeric(16,2)" json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Status        PaymentStatus   `gorm:"index" json:"status"`
	TransactionID string          `gorm:"uniqueIndex" json:"transaction_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsCompleted payments are the only ones that count toward amounts paid.
func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
