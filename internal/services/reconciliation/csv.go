package reconciliation

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/format"
	"property-sales-backend/internal/models"
)

const (
	colTransactionID = "transaction_id"
	colBuyerID       = "buyer_id"
	colInvoiceNumber = "invoice_number"
	colAmount        = "amount"
	colPaymentDate   = "payment_date"
	colPaymentMethod = "payment_method"
	colStatus        = "status"
)

var requiredColumns = []string{colBuyerID, colAmount, colPaymentDate}

var ErrMissingColumns = errors.New("missing required columns")

// Row is one parsed line of a payments file.
type Row struct {
	Line          int
	TransactionID string
	BuyerID       uuid.UUID
	InvoiceNumber string
	Amount        decimal.Decimal
	PaymentDate   time.Time
	PaymentMethod string
	Status        models.PaymentStatus
}

type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ParseRows reads a payments CSV. Columns are matched by header name so
// their order is free; comma and tab separated files are both accepted.
// Bad rows are returned as RowErrors, only an unreadable header fails the
// whole file.
func ParseRows(r io.Reader) ([]Row, []RowError, error) {
	br := bufio.NewReader(r)
	sample, _ := br.Peek(1024)

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if !bytes.Contains(sample, []byte(",")) && bytes.Contains(sample, []byte("\t")) {
		reader.Comma = '\t'
	}

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var rows []Row
	var rejected []RowError
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			rejected = append(rejected, RowError{Line: line, Reason: "malformed row"})
			continue
		}
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}

		line, _ := reader.FieldPos(0)
		row, reason := parseRecord(record, cols)
		if reason != "" {
			rejected = append(rejected, RowError{Line: line, Reason: reason})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, rejected, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.ReplaceAll(h, " ", "_")
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func parseRecord(record []string, cols map[string]int) (Row, string) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var row Row
	var err error

	if row.BuyerID, err = uuid.Parse(get(colBuyerID)); err != nil {
		return row, "invalid buyer_id"
	}

	amount := strings.ReplaceAll(get(colAmount), ",", "")
	if row.Amount, err = decimal.NewFromString(amount); err != nil {
		return row, "invalid amount"
	}
	if !row.Amount.IsPositive() {
		return row, "amount must be positive"
	}

	if row.PaymentDate, err = format.ParseDate(get(colPaymentDate)); err != nil {
		return row, "invalid payment_date"
	}

	row.Status = models.PaymentStatusCompleted
	if s := strings.ToLower(get(colStatus)); s != "" {
		row.Status = models.PaymentStatus(s)
		if !row.Status.Valid() {
			return row, "invalid status"
		}
	}

	row.TransactionID = get(colTransactionID)
	if row.TransactionID == "" {
		row.TransactionID = uuid.New().String()
	}
	row.InvoiceNumber = get(colInvoiceNumber)
	row.PaymentMethod = get(colPaymentMethod)
	return row, ""
}
