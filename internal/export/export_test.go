package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"property-sales-backend/internal/models"
	"property-sales-backend/internal/services/ledger"
	"property-sales-backend/internal/services/statement"
)

var (
	buyerID   = uuid.New()
	projectID = uuid.New()
	unitID    = uuid.New()
	now       = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func testStatement(t *testing.T) (*statement.Statement, ledger.Source) {
	t.Helper()

	inv := models.Invoice{
		ID:            uuid.New(),
		BuyerID:       buyerID,
		UnitID:        unitID,
		ProjectID:     projectID,
		InvoiceNumber: "INV-2024-001",
		IssuedDate:    day(1, 10),
		DueDate:       day(2, 10),
		TotalAmount:   decimal.NewFromInt(702000),
		Status:        models.InvoiceStatusPending,
	}
	invID := inv.ID
	src := ledger.Source{
		Invoices: []models.Invoice{inv},
		Payments: []models.Payment{{
			ID:            uuid.New(),
			InvoiceID:     &invID,
			BuyerID:       buyerID,
			Amount:        decimal.NewFromInt(70200),
			PaymentDate:   day(1, 12),
			PaymentMethod: "bank_transfer",
			Status:        models.PaymentStatusCompleted,
		}},
		Units:    []models.Unit{{ID: unitID, ProjectID: projectID, UnitNumber: "A-101"}},
		Projects: []models.Project{{ID: projectID, Name: "Sunrise Towers"}},
	}

	l := ledger.BuildLedger(buyerID, src, now, ledger.OrderAscending)
	status := l.Totals.AccountStatus()
	return &statement.Statement{
		Buyer:         models.Buyer{ID: buyerID, Name: "Asha Rao", Email: "asha@example.com"},
		Totals:        l.Totals,
		Transactions:  l.Transactions,
		AccountStatus: status,
		StatusLabel:   status.Label(),
		Order:         ledger.OrderAscending,
		Currency:      "INR",
		GeneratedAt:   now,
	}, src
}

func TestStatementPDF(t *testing.T) {
	stmt, _ := testStatement(t)

	out, err := StatementPDF(stmt, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	stmt.Transactions = nil
	out, err = StatementPDF(stmt, "usd")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	_, err = StatementPDF(nil, "INR")
	assert.Error(t, err)
}

func TestInvoicePDF(t *testing.T) {
	_, src := testStatement(t)
	lookups := ledger.Lookups{
		Units:    ledger.IndexUnits(src.Units),
		Projects: ledger.IndexProjects(src.Projects),
	}
	detail := ledger.PreviewInvoice(src.Invoices[0], src.Payments, lookups, now)

	out, err := InvoicePDF(&detail, "INR")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = InvoicePDF(nil, "INR")
	assert.Error(t, err)
}

func TestStatementXLSX(t *testing.T) {
	stmt, _ := testStatement(t)

	out, err := StatementXLSX(stmt, "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, transactionsSheet}, f.GetSheetList())

	buyer, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", buyer)

	currency, err := f.GetCellValue(summarySheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "INR", currency)

	outstanding, err := f.GetCellValue(summarySheet, "B8", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "631800.00", outstanding)

	due, err := f.GetCellValue(summarySheet, "B11")
	require.NoError(t, err)
	assert.Equal(t, "₹631,800.00", due)

	rows, err := f.GetRows(transactionsSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Balance", rows[0][7])
	assert.Equal(t, "INV-2024-001", rows[1][2])
	assert.Equal(t, "702000.00", rows[1][7])
	assert.Equal(t, "payment", rows[2][1])
	assert.Equal(t, "631800.00", rows[2][7], "balances are copied from the ledger")
}

func TestStatementXLSX_KeepsCents(t *testing.T) {
	stmt, _ := testStatement(t)
	stmt.Totals.OutstandingBalance = decimal.RequireFromString("99999999999999.99")

	out, err := StatementXLSX(stmt, "INR")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	raw, err := f.GetCellValue(summarySheet, "B8", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "99999999999999.99", raw)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "Rs. 631,800.00", money(decimal.NewFromInt(631800), "INR"))
	assert.Equal(t, "$10.00", money(decimal.NewFromInt(10), "USD"))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Overdue", statusLabel("overdue"))
	assert.Equal(t, "-", statusLabel(""))
}
