package repository

import (
	"context"
	"fmt"
	"strings"

	"property-sales-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts an invoice; a duplicate invoice number is ignored and
// reported through the returned bool.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) (bool, error) {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(inv)
	if result.Error != nil {
		return false, fmt.Errorf("create invoice %s: %w", inv.InvoiceNumber, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetByID fetch a single invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "invoice_number = ?", strings.TrimSpace(number)).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("issued_date ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) GetAll(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).Order("issued_date ASC").Find(&invoices).Error
	return invoices, err
}

// SearchInvoices used for admin search with optional filters
func (r *InvoiceRepository) SearchInvoices(ctx context.Context, query string, statuses []string) ([]models.Invoice, error) {
	var invoices []models.Invoice

	dbQuery := r.db.WithContext(ctx).Model(&models.Invoice{})

	if query != "" {
		dbQuery = dbQuery.Where("LOWER(invoice_number) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if len(statuses) > 0 {
		dbQuery = dbQuery.Where("status IN ?", statuses)
	}

	err := dbQuery.Order("issued_date DESC").Find(&invoices).Error
	return invoices, err
}
