// Package ledger reconciles a buyer's invoices and payments into a single
// chronological ledger with running balances and account totals.
//
// The package is pure: callers load the collections, nothing is fetched or
// stored here, and every call works on its own copies. Renderers (JSON, PDF,
// spreadsheet) consume Ledger as is and must not recompute balances.
package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"property-sales-backend/internal/models"
)

type SortOrder string

const (
	OrderAscending  SortOrder = "asc"
	OrderDescending SortOrder = "desc"
)

// ParseSortOrder maps user input onto a SortOrder, newest first by default.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(OrderAscending)) {
		return OrderAscending
	}
	return OrderDescending
}

// Source is the already loaded data a ledger is computed from.
type Source struct {
	Invoices []models.Invoice
	Payments []models.Payment
	Units    []models.Unit
	Projects []models.Project
}

type Ledger struct {
	Totals       Totals  `json:"totals"`
	Transactions []Entry `json:"transactions"`
}

// BuildLedger computes the ledger of one buyer. Balances are always computed
// oldest first; order only decides how Transactions is presented. A buyer
// with no invoices and no payments gets zero totals and no transactions.
func BuildLedger(buyerID uuid.UUID, src Source, now time.Time, order SortOrder) Ledger {
	invoices := InvoicesForBuyer(src.Invoices, buyerID)
	payments := PaymentsForBuyer(src.Payments, buyerID)

	lookups := Lookups{
		Units:    IndexUnits(src.Units),
		Projects: IndexProjects(src.Projects),
	}
	entries := merge(invoices, payments, lookups, func(inv models.Invoice) models.InvoiceStatus {
		return ResolveStatus(inv, now)
	})
	entries = WithRunningBalance(SortChronological(entries))

	return Ledger{
		Totals:       AggregateTotals(invoices, payments),
		Transactions: Arrange(entries, order),
	}
}

// Arrange returns chronologically sorted entries in presentation order.
func Arrange(entries []Entry, order SortOrder) []Entry {
	out := slices.Clone(entries)
	if out == nil {
		out = []Entry{}
	}
	if order == OrderDescending {
		slices.Reverse(out)
	}
	return out
}

func InvoicesForBuyer(invoices []models.Invoice, buyerID uuid.UUID) []models.Invoice {
	out := []models.Invoice{}
	for _, inv := range invoices {
		if inv.BuyerID == buyerID {
			out = append(out, inv)
		}
	}
	return out
}

func PaymentsForBuyer(payments []models.Payment, buyerID uuid.UUID) []models.Payment {
	out := []models.Payment{}
	for _, p := range payments {
		if p.BuyerID == buyerID {
			out = append(out, p)
		}
	}
	return out
}
