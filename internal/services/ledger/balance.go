package ledger

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"property-sales-backend/internal/format"
)

// SortChronological returns a copy of entries ordered oldest first. Entries on
// the same calendar day put invoices before payments, then fall back to the
// full timestamp and the reference so the order is deterministic.
func SortChronological(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, compareEntries)
	return out
}

func compareEntries(a, b Entry) int {
	if c := format.CalendarDay(a.Date).Compare(format.CalendarDay(b.Date)); c != 0 {
		return c
	}
	if a.Kind != b.Kind {
		if a.Kind == KindInvoice {
			return -1
		}
		return 1
	}
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return strings.Compare(a.Reference, b.Reference)
}

// WithRunningBalance stamps the cumulative balance on a copy of entries.
// The input must already be in ascending chronological order; this is not
// checked. Excluded entries carry the previous balance.
func WithRunningBalance(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	balance := decimal.Zero
	for i, e := range entries {
		if !e.Excluded {
			balance = balance.Add(e.SignedAmount)
		}
		e.RunningBalance = balance
		out[i] = e
	}
	return out
}

// ClosingBalance is the running balance of the last entry, zero when empty.
func ClosingBalance(entries []Entry) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	return entries[len(entries)-1].RunningBalance
}
