package ledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"property-sales-backend/internal/models"
)

// InvoiceDetail is everything the invoice preview and invoice PDF show.
type InvoiceDetail struct {
	Invoice      models.Invoice       `json:"invoice"`
	Status       models.InvoiceStatus `json:"status"`
	DaysUntilDue int                  `json:"days_until_due"`
	DaysOverdue  int                  `json:"days_overdue"`
	UnitLabel    string               `json:"unit_label"`
	ProjectLabel string               `json:"project_label"`
	Payments     []models.Payment     `json:"payments"`
	AmountPaid   decimal.Decimal      `json:"amount_paid"`
	Remaining    decimal.Decimal      `json:"remaining"`
}

// Settled reports whether nothing is left to pay on the invoice.
func (d InvoiceDetail) Settled() bool {
	return !d.Remaining.IsPositive()
}

// PreviewInvoice resolves an invoice's payments and status at now. Unlike
// MatchPayments, the returned payments are sorted by payment date.
func PreviewInvoice(inv models.Invoice, payments []models.Payment, lookups Lookups, now time.Time) InvoiceDetail {
	match := MatchPayments(inv, payments)
	slices.SortStableFunc(match.Payments, func(a, b models.Payment) int {
		return a.PaymentDate.Compare(b.PaymentDate)
	})

	unitID := inv.UnitID
	unitLabel, projectLabel := lookups.Labels(&unitID, inv.ProjectID)

	return InvoiceDetail{
		Invoice:      inv,
		Status:       ResolveStatus(inv, now),
		DaysUntilDue: DaysUntilDue(inv, now),
		DaysOverdue:  DaysOverdue(inv, now),
		UnitLabel:    unitLabel,
		ProjectLabel: projectLabel,
		Payments:     match.Payments,
		AmountPaid:   match.AmountPaid,
		Remaining:    match.Remaining,
	}
}
