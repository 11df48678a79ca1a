package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"property-sales-backend/internal/format"
	"property-sales-backend/internal/services/statement"
)

const (
	summarySheet      = "Summary"
	transactionsSheet = "Transactions"

	// built-in excel format #,##0.00
	numFmtAmount = 4
)

var transactionHeader = []interface{}{
	"Date", "Type", "Reference", "Description", "Status", "Debit", "Credit", "Balance",
}

// StatementXLSX writes a workbook with a summary sheet and one row per ledger
// entry, in the order the ledger was built.
func StatementXLSX(stmt *statement.Statement, currency string) ([]byte, error) {
	if stmt == nil {
		return nil, fmt.Errorf("statement is nil")
	}
	currency = currencyCode(currency, stmt.Currency)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(transactionsSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return nil, err
	}

	summary := [][]interface{}{
		{"Buyer", stmt.Buyer.Name},
		{"Email", stmt.Buyer.Email},
		{"Account status", stmt.StatusLabel},
		{"Currency", currency},
		{"Generated", format.ISODate(stmt.GeneratedAt)},
		{"Total invoiced", stmt.Totals.TotalInvoiced},
		{"Total paid", stmt.Totals.TotalPaid},
		{"Outstanding balance", stmt.Totals.OutstandingBalance},
		{"Invoices", stmt.Totals.InvoiceCount},
		{"Payments", stmt.Totals.PaymentCount},
		{"Amount due", format.Currency(stmt.Totals.OutstandingBalance, currency)},
	}
	for i, values := range summary {
		if err := setRow(f, summarySheet, i+1, values); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "B6", "B8", amountStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 30); err != nil {
		return nil, err
	}

	if err := setRow(f, transactionsSheet, 1, transactionHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(transactionsSheet, "A1", "H1", bold); err != nil {
		return nil, err
	}
	for i, e := range stmt.Transactions {
		values := []interface{}{
			format.ISODate(e.Date),
			string(e.Kind),
			e.Reference,
			e.Description,
			e.Status,
			e.Debit(),
			e.Credit(),
			e.RunningBalance,
		}
		if err := setRow(f, transactionsSheet, i+2, values); err != nil {
			return nil, err
		}
	}
	if n := len(stmt.Transactions); n > 0 {
		if err := f.SetCellStyle(transactionsSheet, "F2", fmt.Sprintf("H%d", n+1), amountStyle); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(transactionsSheet, "D", "D", 60); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write statement xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// setRow writes values from column A. Decimals are stored as exact numeric
// text so large amounts keep their cents.
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if d, ok := v.(decimal.Decimal); ok {
			err = f.SetCellDefault(sheet, cell, d.StringFixed(2))
		} else {
			err = f.SetCellValue(sheet, cell, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
