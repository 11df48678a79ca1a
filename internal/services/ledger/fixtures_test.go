package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"property-sales-backend/internal/models"
)

var (
	buyerID      = uuid.MustParse("6d1f3a52-0f4e-4c8b-9f6e-1a2b3c4d5e01")
	otherBuyerID = uuid.MustParse("6d1f3a52-0f4e-4c8b-9f6e-1a2b3c4d5e02")
	projectID    = uuid.MustParse("0b7e2d11-6a3c-4e55-8d2a-9c1f00000001")
	unitID       = uuid.MustParse("0b7e2d11-6a3c-4e55-8d2a-9c1f00000101")
	otherUnitID  = uuid.MustParse("0b7e2d11-6a3c-4e55-8d2a-9c1f00000102")

	testProject = models.Project{ID: projectID, Name: "Sunrise Towers"}
	testUnits   = []models.Unit{
		{ID: unitID, ProjectID: projectID, UnitNumber: "A-101"},
		{ID: otherUnitID, ProjectID: projectID, UnitNumber: "B-202"},
	}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newInvoice(number string, total int64, issued, due time.Time, status models.InvoiceStatus) models.Invoice {
	return models.Invoice{
		ID:            uuid.New(),
		BuyerID:       buyerID,
		UnitID:        unitID,
		ProjectID:     projectID,
		InvoiceNumber: number,
		IssuedDate:    issued,
		DueDate:       due,
		TotalAmount:   amount(total),
		Status:        status,
	}
}

func newPayment(inv *models.Invoice, paid int64, date time.Time, status models.PaymentStatus) models.Payment {
	p := models.Payment{
		ID:            uuid.New(),
		BuyerID:       buyerID,
		Amount:        amount(paid),
		PaymentDate:   date,
		PaymentMethod: "bank_transfer",
		Status:        status,
		TransactionID: "TXN-" + date.Format("20060102"),
	}
	if inv != nil {
		id := inv.ID
		p.InvoiceID = &id
	}
	return p
}

func testSource(invoices []models.Invoice, payments []models.Payment) Source {
	return Source{
		Invoices: invoices,
		Payments: payments,
		Units:    testUnits,
		Projects: []models.Project{testProject},
	}
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, amount(want).Equal(got), "want %d, got %s %v", want, got.String(), msgAndArgs)
}
