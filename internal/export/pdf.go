// Package export renders statements and invoices as PDF and XLSX documents.
// It only formats ledger output; balances and statuses are never recomputed.
package export

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/format"
	"property-sales-backend/internal/services/ledger"
	"property-sales-backend/internal/services/statement"
)

var (
	small     = props.Text{Size: 9}
	smallBold = props.Text{Size: 9, Style: fontstyle.Bold}
	right     = props.Text{Size: 9, Align: align.Right}
	rightBold = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
)

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

// StatementPDF renders a buyer statement in the order the ledger was built.
func StatementPDF(stmt *statement.Statement, currency string) ([]byte, error) {
	if stmt == nil {
		return nil, fmt.Errorf("statement is nil")
	}
	currency = currencyCode(currency, stmt.Currency)
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, "Statement of Account", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New(stmt.Buyer.Name, props.Text{Style: fontstyle.Bold}),
			text.New(stmt.Buyer.Email, props.Text{Top: 5, Size: 9}),
			text.New(stmt.Buyer.Phone, props.Text{Top: 9, Size: 9}),
		),
		col.New(6).Add(
			text.New("Generated: "+format.Date(stmt.GeneratedAt), props.Text{Align: align.Right, Size: 9}),
			text.New("Account status: "+stmt.StatusLabel, props.Text{Top: 4, Align: align.Right, Size: 9}),
			text.New("Amounts in "+currency, props.Text{Top: 8, Align: align.Right, Size: 9}),
		),
	)

	m.AddRow(8,
		text.NewCol(3, "Total invoiced", smallBold),
		text.NewCol(3, "Total paid", smallBold),
		text.NewCol(3, "Outstanding", smallBold),
		text.NewCol(3, "Transactions", smallBold),
	)
	m.AddRow(10,
		text.NewCol(3, format.Amount(stmt.Totals.TotalInvoiced), small),
		text.NewCol(3, format.Amount(stmt.Totals.TotalPaid), small),
		text.NewCol(3, money(stmt.Totals.OutstandingBalance, currency), small),
		text.NewCol(3, fmt.Sprintf("%d", len(stmt.Transactions)), small),
	)

	m.AddRow(8,
		text.NewCol(2, "Date", smallBold),
		text.NewCol(4, "Description", smallBold),
		text.NewCol(1, "Status", smallBold),
		text.NewCol(2, "Debit", rightBold),
		text.NewCol(1, "Credit", rightBold),
		text.NewCol(2, "Balance", rightBold),
	)
	m.AddRow(2, line.NewCol(12))

	if len(stmt.Transactions) == 0 {
		m.AddRow(10, text.NewCol(12, "No transactions", small))
	}
	for _, e := range stmt.Transactions {
		m.AddRow(12,
			text.NewCol(2, format.Date(e.Date), small),
			text.NewCol(4, e.Description, small),
			text.NewCol(1, statusLabel(e.Status), small),
			text.NewCol(2, amountOrDash(e.Debit()), right),
			text.NewCol(1, amountOrDash(e.Credit()), right),
			text.NewCol(2, format.Amount(e.RunningBalance), right),
		)
	}

	m.AddRow(2, line.NewCol(12))
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Outstanding balance", smallBold),
		text.NewCol(2, format.Amount(stmt.Totals.OutstandingBalance), rightBold),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate statement pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// InvoicePDF renders one invoice with the payments applied to it.
func InvoicePDF(detail *ledger.InvoiceDetail, currency string) ([]byte, error) {
	if detail == nil {
		return nil, fmt.Errorf("invoice detail is nil")
	}
	currency = currencyCode(currency, "")
	inv := detail.Invoice
	m := newDocument()

	m.AddRow(12,
		text.NewCol(12, "Invoice", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Invoice number: "+inv.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+format.Date(inv.IssuedDate), props.Text{Top: 4}),
			text.New("Date due: "+format.Date(inv.DueDate), props.Text{Top: 8}),
			text.New("Status: "+statusLabel(string(detail.Status)), props.Text{Top: 12}),
		),
		col.New(6).Add(
			text.New(detail.ProjectLabel, props.Text{Style: fontstyle.Bold, Align: align.Right}),
			text.New(detail.UnitLabel, props.Text{Top: 5, Align: align.Right}),
			text.New(dueNote(detail), props.Text{Top: 10, Align: align.Right, Size: 9}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, money(detail.Remaining, currency)+" due", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	m.AddRow(10,
		text.NewCol(3, "Payment date", smallBold),
		text.NewCol(3, "Method", smallBold),
		text.NewCol(3, "Status", smallBold),
		text.NewCol(3, "Amount", rightBold),
	)
	m.AddRow(2, line.NewCol(12))

	if len(detail.Payments) == 0 {
		m.AddRow(10, text.NewCol(12, "No payments recorded", small))
	}
	for _, p := range detail.Payments {
		m.AddRow(10,
			text.NewCol(3, format.Date(p.PaymentDate), small),
			text.NewCol(3, p.PaymentMethod, small),
			text.NewCol(3, statusLabel(string(p.Status)), small),
			text.NewCol(3, format.Amount(p.Amount), right),
		)
	}

	m.AddRow(2, line.NewCol(12))
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", small),
		text.NewCol(2, format.Amount(inv.TotalAmount), right),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Paid", small),
		text.NewCol(2, format.Amount(detail.AmountPaid), right),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Amount due", smallBold),
		text.NewCol(2, format.Amount(detail.Remaining), rightBold),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func currencyCode(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = strings.ToUpper(strings.TrimSpace(fallback))
	}
	if code == "" {
		code = format.DefaultCurrency
	}
	return code
}

// money formats a headline amount with its currency symbol. The core PDF
// fonts are cp1252, which has no rupee sign.
func money(d decimal.Decimal, code string) string {
	if code == "INR" {
		return "Rs. " + format.Amount(d)
	}
	return format.Currency(d, code)
}

func amountOrDash(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return format.Amount(d)
}

func statusLabel(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func dueNote(d *ledger.InvoiceDetail) string {
	switch {
	case d.Settled():
		return "Settled"
	case d.DaysOverdue > 0:
		return fmt.Sprintf("%d days overdue", d.DaysOverdue)
	case d.DaysUntilDue >= 0:
		return fmt.Sprintf("Due in %d days", d.DaysUntilDue)
	default:
		return ""
	}
}
