package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AllocationActionAuto   = "auto_allocate"
	AllocationActionManual = "manual_allocate"
)

// AllocationAuditLog records every change of the invoice a payment is applied to.
type AllocationAuditLog struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID       uuid.UUID      `gorm:"type:uuid;index" json:"payment_id"`
	Action          string         `json:"action"`
	PreviousInvoice *uuid.UUID     `gorm:"type:uuid" json:"previous_invoice,omitempty"`
	NewInvoice      *uuid.UUID     `gorm:"type:uuid" json:"new_invoice,omitempty"`
	PerformedBy     string         `json:"performed_by"`
	Details         datatypes.JSON `json:"details"`
	CreatedAt       time.Time      `json:"created_at"`
}
