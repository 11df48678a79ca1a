package ledger

import (
	"time"

	"property-sales-backend/internal/format"
	"property-sales-backend/internal/models"
)

// ResolveStatus derives the status an invoice should be shown with at `now`.
// Only pending invoices are reinterpreted: one whose due date is on an earlier
// calendar day than `now` is overdue. A missing due date never makes an
// invoice overdue.
func ResolveStatus(inv models.Invoice, now time.Time) models.InvoiceStatus {
	if inv.Status != models.InvoiceStatusPending {
		return inv.Status
	}
	if inv.DueDate.IsZero() || now.IsZero() {
		return models.InvoiceStatusPending
	}
	if format.Before(inv.DueDate, now) {
		return models.InvoiceStatusOverdue
	}
	return models.InvoiceStatusPending
}

// DaysUntilDue is the calendar-day distance from now to the due date,
// negative once the due date has passed.
func DaysUntilDue(inv models.Invoice, now time.Time) int {
	if inv.DueDate.IsZero() || now.IsZero() {
		return 0
	}
	return format.DaysBetween(now, inv.DueDate)
}

// DaysOverdue is 0 unless the invoice resolves to overdue.
func DaysOverdue(inv models.Invoice, now time.Time) int {
	if ResolveStatus(inv, now) != models.InvoiceStatusOverdue {
		return 0
	}
	days := -DaysUntilDue(inv, now)
	if days < 0 {
		return 0
	}
	return days
}
