package repository

import (
	"context"
	"fmt"

	"property-sales-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Expose DB if needed
func (r *PaymentRepository) DB() *gorm.DB {
	return r.db
}

// Create inserts a payment; a transaction id that is already stored leaves
// the table untouched and is reported through the returned bool.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) (bool, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	if result.Error != nil {
		return false, fmt.Errorf("create payment %s: %w", p.TransactionID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

// FindUnallocated returns a buyer's payments that are not tied to an invoice.
func (r *PaymentRepository) FindUnallocated(ctx context.Context, buyerID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND invoice_id IS NULL", buyerID).
		Order("payment_date ASC").
		Find(&payments).Error
	return payments, err
}

// HasTransaction reports whether a payment with the gateway transaction id
// is already stored.
func (r *PaymentRepository) HasTransaction(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	return count > 0, err
}

func (r *PaymentRepository) GetAll(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).Order("payment_date ASC").Find(&payments).Error
	return payments, err
}

// Allocate points a payment at an invoice and writes the audit entry in the
// same transaction.
func (r *PaymentRepository) Allocate(ctx context.Context, paymentID, invoiceID uuid.UUID, audit *models.AllocationAuditLog) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			return err
		}
		audit.PaymentID = payment.ID
		audit.PreviousInvoice = payment.InvoiceID
		audit.NewInvoice = &invoiceID
		if audit.ID == uuid.Nil {
			audit.ID = uuid.New()
		}

		if err := tx.Model(&payment).Update("invoice_id", invoiceID).Error; err != nil {
			return err
		}
		payment.InvoiceID = &invoiceID
		return tx.Create(audit).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) AuditTrail(ctx context.Context, paymentID uuid.UUID) ([]models.AllocationAuditLog, error) {
	var logs []models.AllocationAuditLog
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
