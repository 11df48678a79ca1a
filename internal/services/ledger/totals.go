package ledger

import (
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/models"
)

// Totals summarises a set of invoices and payments.
// OutstandingBalance is always TotalInvoiced minus TotalPaid; a negative value
// is a credit in the buyer's favour.
type Totals struct {
	TotalInvoiced      decimal.Decimal `json:"total_invoiced"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	InvoiceCount       int             `json:"invoice_count"`
	PaymentCount       int             `json:"payment_count"`
}

type AccountStatus string

const (
	AccountStatusPaymentPending AccountStatus = "payment_pending"
	AccountStatusPaidInFull     AccountStatus = "paid_in_full"
)

func (s AccountStatus) Label() string {
	if s == AccountStatusPaymentPending {
		return "Active - Payment Pending"
	}
	return "Current - Paid in Full"
}

func (t Totals) AccountStatus() AccountStatus {
	if t.OutstandingBalance.IsPositive() {
		return AccountStatusPaymentPending
	}
	return AccountStatusPaidInFull
}

// AggregateTotals sums every invoice except cancelled ones and every
// completed payment. The slices are expected to belong to one buyer but the
// arithmetic does not depend on it.
func AggregateTotals(invoices []models.Invoice, payments []models.Payment) Totals {
	totals := Totals{
		TotalInvoiced: decimal.Zero,
		TotalPaid:     decimal.Zero,
	}
	for _, inv := range invoices {
		if !countsInvoice(inv.ID, inv.IsCancelled(), inv.TotalAmount) {
			continue
		}
		totals.TotalInvoiced = totals.TotalInvoiced.Add(inv.TotalAmount)
		totals.InvoiceCount++
	}
	for _, p := range payments {
		if !countsPayment(p.ID, p.IsCompleted(), p.Amount) {
			continue
		}
		totals.TotalPaid = totals.TotalPaid.Add(p.Amount)
		totals.PaymentCount++
	}
	totals.OutstandingBalance = totals.TotalInvoiced.Sub(totals.TotalPaid)
	return totals
}
