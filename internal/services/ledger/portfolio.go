package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/models"
)

const UnassignedProject = "Unassigned"

type ProjectSummary struct {
	ProjectID   uuid.UUID `json:"project_id"`
	ProjectName string    `json:"project_name"`
	Totals      Totals    `json:"totals"`
}

// PortfolioSummary holds the admin dashboard figures across all buyers.
type PortfolioSummary struct {
	Totals            Totals           `json:"totals"`
	BuyerCount        int              `json:"buyer_count"`
	BuyersWithBalance int              `json:"buyers_with_balance"`
	PendingInvoices   int              `json:"pending_invoices"`
	OverdueInvoices   int              `json:"overdue_invoices"`
	OverdueAmount     decimal.Decimal  `json:"overdue_amount"`
	CollectionRate    decimal.Decimal  `json:"collection_rate"`
	Projects          []ProjectSummary `json:"projects"`
}

// SummarizePortfolio aggregates every buyer with the same rules as
// AggregateTotals. OverdueAmount sums what is still unpaid on overdue
// invoices, and CollectionRate is paid over invoiced as a percentage.
func SummarizePortfolio(src Source, now time.Time) PortfolioSummary {
	summary := PortfolioSummary{
		Totals:         AggregateTotals(src.Invoices, src.Payments),
		OverdueAmount:  decimal.Zero,
		CollectionRate: decimal.Zero,
		Projects:       []ProjectSummary{},
	}
	if summary.Totals.TotalInvoiced.IsPositive() {
		summary.CollectionRate = summary.Totals.TotalPaid.
			Div(summary.Totals.TotalInvoiced).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	paymentsByInvoice := make(map[uuid.UUID][]models.Payment)
	for _, p := range src.Payments {
		if p.InvoiceID != nil {
			paymentsByInvoice[*p.InvoiceID] = append(paymentsByInvoice[*p.InvoiceID], p)
		}
	}

	for _, inv := range src.Invoices {
		switch ResolveStatus(inv, now) {
		case models.InvoiceStatusPending:
			summary.PendingInvoices++
		case models.InvoiceStatusOverdue:
			summary.OverdueInvoices++
			if remaining := MatchPayments(inv, paymentsByInvoice[inv.ID]).Remaining; remaining.IsPositive() {
				summary.OverdueAmount = summary.OverdueAmount.Add(remaining)
			}
		}
	}

	summary.BuyerCount, summary.BuyersWithBalance = countBuyers(src)
	summary.Projects = summarizeProjects(src)
	return summary
}

func countBuyers(src Source) (int, int) {
	buyers := make(map[uuid.UUID]struct{})
	for _, inv := range src.Invoices {
		buyers[inv.BuyerID] = struct{}{}
	}
	for _, p := range src.Payments {
		buyers[p.BuyerID] = struct{}{}
	}

	withBalance := 0
	for id := range buyers {
		totals := AggregateTotals(InvoicesForBuyer(src.Invoices, id), PaymentsForBuyer(src.Payments, id))
		if totals.OutstandingBalance.IsPositive() {
			withBalance++
		}
	}
	return len(buyers), withBalance
}

// summarizeProjects groups invoices by their project and payments by the
// project of their invoice, or of their unit when they have no invoice.
func summarizeProjects(src Source) []ProjectSummary {
	units := IndexUnits(src.Units)
	projects := IndexProjects(src.Projects)

	invoiceProject := make(map[uuid.UUID]uuid.UUID, len(src.Invoices))
	invoicesByProject := make(map[uuid.UUID][]models.Invoice)
	for _, inv := range src.Invoices {
		projectID := inv.ProjectID
		if u, ok := units[inv.UnitID]; ok && projectID == uuid.Nil {
			projectID = u.ProjectID
		}
		invoiceProject[inv.ID] = projectID
		invoicesByProject[projectID] = append(invoicesByProject[projectID], inv)
	}

	paymentsByProject := make(map[uuid.UUID][]models.Payment)
	for _, p := range src.Payments {
		projectID := uuid.Nil
		if p.InvoiceID != nil {
			projectID = invoiceProject[*p.InvoiceID]
		}
		if projectID == uuid.Nil && p.UnitID != nil {
			if u, ok := units[*p.UnitID]; ok {
				projectID = u.ProjectID
			}
		}
		paymentsByProject[projectID] = append(paymentsByProject[projectID], p)
	}

	ids := make(map[uuid.UUID]struct{})
	for id := range invoicesByProject {
		ids[id] = struct{}{}
	}
	for id := range paymentsByProject {
		ids[id] = struct{}{}
	}

	out := make([]ProjectSummary, 0, len(ids))
	for id := range ids {
		name := UnassignedProject
		if p, ok := projects[id]; ok {
			name = p.Name
		}
		out = append(out, ProjectSummary{
			ProjectID:   id,
			ProjectName: name,
			Totals:      AggregateTotals(invoicesByProject[id], paymentsByProject[id]),
		})
	}
	slices.SortFunc(out, func(a, b ProjectSummary) int {
		if c := strings.Compare(a.ProjectName, b.ProjectName); c != 0 {
			return c
		}
		return strings.Compare(a.ProjectID.String(), b.ProjectID.String())
	})
	return out
}
