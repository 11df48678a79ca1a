package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/models"
)

type EntryKind string

const (
	KindInvoice EntryKind = "invoice"
	KindPayment EntryKind = "payment"
)

// Placeholders used while unit or project data is missing.
const (
	UnitPlaceholder    = "Unit"
	ProjectPlaceholder = "Project"
)

// Entry is one line of a buyer ledger. SignedAmount is positive for invoices
// (debits) and negative for payments (credits). Excluded entries are listed
// with their status but leave the running balance unchanged: cancelled
// invoices, payments that are not completed, and non-positive amounts.
type Entry struct {
	ID             uuid.UUID       `json:"id"`
	Kind           EntryKind       `json:"kind"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	SignedAmount   decimal.Decimal `json:"signed_amount"`
	Reference      string          `json:"reference"`
	Status         string          `json:"status"`
	Excluded       bool            `json:"excluded"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Debit is the amount shown in a debit column, zero for payments.
func (e Entry) Debit() decimal.Decimal {
	if e.SignedAmount.IsPositive() {
		return e.SignedAmount
	}
	return decimal.Zero
}

// Credit is the amount shown in a credit column, zero for invoices.
func (e Entry) Credit() decimal.Decimal {
	if e.SignedAmount.IsNegative() {
		return e.SignedAmount.Neg()
	}
	return decimal.Zero
}

// Lookups resolves the labels used in entry descriptions.
type Lookups struct {
	Units    map[uuid.UUID]models.Unit
	Projects map[uuid.UUID]models.Project
}

func IndexUnits(units []models.Unit) map[uuid.UUID]models.Unit {
	out := make(map[uuid.UUID]models.Unit, len(units))
	for _, u := range units {
		out[u.ID] = u
	}
	return out
}

func IndexProjects(projects []models.Project) map[uuid.UUID]models.Project {
	out := make(map[uuid.UUID]models.Project, len(projects))
	for _, p := range projects {
		out[p.ID] = p
	}
	return out
}

// Labels returns the unit and project names for a unit id, falling back to
// projectID when the unit itself is unknown.
func (l Lookups) Labels(unitID *uuid.UUID, projectID uuid.UUID) (string, string) {
	unitLabel, projectLabel := UnitPlaceholder, ProjectPlaceholder
	if unitID != nil {
		if u, ok := l.Units[*unitID]; ok {
			if u.UnitNumber != "" {
				unitLabel = "Unit " + u.UnitNumber
			}
			projectID = u.ProjectID
		}
	}
	if p, ok := l.Projects[projectID]; ok && p.Name != "" {
		projectLabel = p.Name
	}
	return unitLabel, projectLabel
}

// MergeTransactions turns invoices and payments into ledger entries in input
// order: invoices first, then payments. Nothing is filtered by status and
// nothing is sorted; use SortChronological before WithRunningBalance.
func MergeTransactions(
	invoices []models.Invoice,
	payments []models.Payment,
	unitsByID map[uuid.UUID]models.Unit,
	projectsByID map[uuid.UUID]models.Project,
) []Entry {
	lookups := Lookups{Units: unitsByID, Projects: projectsByID}
	return merge(invoices, payments, lookups, func(inv models.Invoice) models.InvoiceStatus {
		return inv.Status
	})
}

func merge(
	invoices []models.Invoice,
	payments []models.Payment,
	lookups Lookups,
	statusOf func(models.Invoice) models.InvoiceStatus,
) []Entry {
	entries := make([]Entry, 0, len(invoices)+len(payments))
	byID := make(map[uuid.UUID]models.Invoice, len(invoices))

	for _, inv := range invoices {
		byID[inv.ID] = inv
		unitID := inv.UnitID
		unitLabel, projectLabel := lookups.Labels(&unitID, inv.ProjectID)

		entries = append(entries, Entry{
			ID:           inv.ID,
			Kind:         KindInvoice,
			Date:         inv.IssuedDate,
			Description:  "Invoice " + inv.InvoiceNumber + " - " + unitLabel + ", " + projectLabel,
			SignedAmount: inv.TotalAmount,
			Reference:    inv.InvoiceNumber,
			Status:       string(statusOf(inv)),
			Excluded:     !countsInvoice(inv.ID, inv.IsCancelled(), inv.TotalAmount),
		})
	}

	for _, p := range payments {
		entries = append(entries, Entry{
			ID:           p.ID,
			Kind:         KindPayment,
			Date:         p.PaymentDate,
			Description:  paymentDescription(p, byID, lookups),
			SignedAmount: p.Amount.Neg(),
			Reference:    p.TransactionID,
			Status:       string(p.Status),
			Excluded:     !countsPayment(p.ID, p.IsCompleted(), p.Amount),
		})
	}

	return entries
}

func paymentDescription(p models.Payment, invoices map[uuid.UUID]models.Invoice, lookups Lookups) string {
	desc := "Payment"
	if p.PaymentMethod != "" {
		desc += " (" + p.PaymentMethod + ")"
	}

	unitID := p.UnitID
	projectID := uuid.Nil
	if p.InvoiceID != nil {
		if inv, ok := invoices[*p.InvoiceID]; ok {
			desc += " for " + inv.InvoiceNumber
			if unitID == nil {
				id := inv.UnitID
				unitID = &id
			}
			projectID = inv.ProjectID
		}
	}

	unitLabel, projectLabel := lookups.Labels(unitID, projectID)
	return desc + " - " + unitLabel + ", " + projectLabel
}
