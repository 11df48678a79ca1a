package ledger

import (
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/models"
)

// PaymentMatch is what a single invoice has received.
type PaymentMatch struct {
	Payments   []models.Payment `json:"payments"`
	AmountPaid decimal.Decimal  `json:"amount_paid"`
	Remaining  decimal.Decimal  `json:"remaining"`
}

// MatchPayments collects the payments recorded against inv, in input order.
// Every matching payment is returned for display, but only completed ones add
// to AmountPaid. Remaining is not clamped: a negative value is an overpayment.
func MatchPayments(inv models.Invoice, payments []models.Payment) PaymentMatch {
	match := PaymentMatch{
		Payments:   []models.Payment{},
		AmountPaid: decimal.Zero,
	}
	for _, p := range payments {
		if p.InvoiceID == nil || *p.InvoiceID != inv.ID {
			continue
		}
		match.Payments = append(match.Payments, p)
		if countsPayment(p.ID, p.IsCompleted(), p.Amount) {
			match.AmountPaid = match.AmountPaid.Add(p.Amount)
		}
	}
	match.Remaining = inv.TotalAmount.Sub(match.AmountPaid)
	return match
}
