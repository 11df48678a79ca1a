package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"property-sales-backend/internal/models"
	"property-sales-backend/internal/repository"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrBuyerMismatch   = errors.New("invoice belongs to another buyer")
	ErrInvoiceClosed   = errors.New("invoice is cancelled")
)

// PaymentSuggestions pairs an unallocated payment with its ranked invoices.
type PaymentSuggestions struct {
	Payment     models.Payment `json:"payment"`
	Suggestions []Suggestion   `json:"suggestions"`
}

// Allocator applies payments to invoices and keeps the audit trail.
type Allocator struct {
	invoiceRepo *repository.InvoiceRepository
	paymentRepo *repository.PaymentRepository
	log         *zap.Logger
	now         func() time.Time
}

func NewAllocator(invoiceRepo *repository.InvoiceRepository, paymentRepo *repository.PaymentRepository, log *zap.Logger) *Allocator {
	return &Allocator{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		log:         log.Named("matching.allocator"),
		now:         time.Now,
	}
}

func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// SuggestForBuyer ranks open invoices for every payment of the buyer that is
// not tied to an invoice.
func (a *Allocator) SuggestForBuyer(ctx context.Context, buyerID uuid.UUID) ([]PaymentSuggestions, error) {
	unallocated, err := a.paymentRepo.FindUnallocated(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("load unallocated payments: %w", err)
	}
	out := make([]PaymentSuggestions, 0, len(unallocated))
	if len(unallocated) == 0 {
		return out, nil
	}

	invoices, payments, err := a.buyerData(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	now := a.now()
	for _, p := range unallocated {
		out = append(out, PaymentSuggestions{
			Payment:     p,
			Suggestions: Suggest(p, invoices, payments, now),
		})
	}
	return out, nil
}

// Allocate ties a payment to an invoice chosen by a person.
func (a *Allocator) Allocate(ctx context.Context, paymentID, invoiceID uuid.UUID, performedBy string) (*models.Payment, error) {
	payment, err := a.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}
	inv, err := a.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if inv.BuyerID != payment.BuyerID {
		return nil, ErrBuyerMismatch
	}
	if inv.IsCancelled() {
		return nil, ErrInvoiceClosed
	}

	details := map[string]interface{}{
		"invoice_number": inv.InvoiceNumber,
		"amount":         payment.Amount.String(),
		"decision":       "manual",
	}
	return a.persist(ctx, payment.ID, inv.ID, models.AllocationActionManual, performedBy, details)
}

// AutoAllocate ties p to its best invoice when the score clears the
// auto-allocation threshold. The returned bool reports whether it did.
func (a *Allocator) AutoAllocate(ctx context.Context, p models.Payment) (Suggestion, bool, error) {
	if p.InvoiceID != nil {
		return Suggestion{}, false, nil
	}
	invoices, payments, err := a.buyerData(ctx, p.BuyerID)
	if err != nil {
		return Suggestion{}, false, err
	}

	suggestions := Suggest(p, invoices, payments, a.now())
	best, ok := Best(suggestions)
	if !ok || best.Decision != DecisionAutoAllocate {
		return best, false, nil
	}

	details := map[string]interface{}{
		"invoice_number":  best.InvoiceNumber,
		"amount":          p.Amount.String(),
		"remaining":       best.Remaining.String(),
		"amount_score":    best.AmountScore,
		"date_score":      best.DateScore,
		"ambiguity_score": best.AmbiguityScore,
		"final_score":     best.Score,
		"candidate_count": len(suggestions),
		"decision":        best.Decision,
	}
	if _, err := a.persist(ctx, p.ID, best.InvoiceID, models.AllocationActionAuto, "system", details); err != nil {
		return best, false, err
	}
	return best, true, nil
}

func (a *Allocator) persist(ctx context.Context, paymentID, invoiceID uuid.UUID, action, performedBy string, details map[string]interface{}) (*models.Payment, error) {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encode allocation details: %w", err)
	}
	audit := &models.AllocationAuditLog{
		Action:      action,
		PerformedBy: performedBy,
		Details:     datatypes.JSON(detailsJSON),
		CreatedAt:   a.now(),
	}

	payment, err := a.paymentRepo.Allocate(ctx, paymentID, invoiceID, audit)
	if err != nil {
		return nil, fmt.Errorf("allocate payment: %w", err)
	}

	a.log.Info("payment allocated",
		zap.String("payment_id", paymentID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("action", action),
		zap.String("performed_by", performedBy),
	)
	return payment, nil
}

func (a *Allocator) buyerData(ctx context.Context, buyerID uuid.UUID) ([]models.Invoice, []models.Payment, error) {
	invoices, err := a.invoiceRepo.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load invoices: %w", err)
	}
	payments, err := a.paymentRepo.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load payments: %w", err)
	}
	return invoices, payments, nil
}
