package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-sales-backend/internal/models"
)

func TestMergeTransactions(t *testing.T) {
	inv := newInvoice("INV-2023-001", 918000, day(2023, 12, 15), day(2024, 1, 15), models.InvoiceStatusPending)
	paid := newPayment(&inv, 918000, day(2023, 12, 20), models.PaymentStatusCompleted)
	pending := newPayment(&inv, 1000, day(2023, 12, 21), models.PaymentStatusPending)

	entries := MergeTransactions(
		[]models.Invoice{inv},
		[]models.Payment{paid, pending},
		IndexUnits(testUnits),
		IndexProjects([]models.Project{testProject}),
	)

	require.Len(t, entries, 3)

	invEntry := entries[0]
	assert.Equal(t, KindInvoice, invEntry.Kind)
	assert.Equal(t, inv.ID, invEntry.ID)
	assert.Equal(t, inv.IssuedDate, invEntry.Date)
	assert.Equal(t, "INV-2023-001", invEntry.Reference)
	assert.Equal(t, "Invoice INV-2023-001 - Unit A-101, Sunrise Towers", invEntry.Description)
	assert.Equal(t, "pending", invEntry.Status)
	assert.True(t, invEntry.SignedAmount.Equal(inv.TotalAmount))
	assert.False(t, invEntry.Excluded)

	payEntry := entries[1]
	assert.Equal(t, KindPayment, payEntry.Kind)
	assert.Equal(t, paid.TransactionID, payEntry.Reference)
	assert.Equal(t, "Payment (bank_transfer) for INV-2023-001 - Unit A-101, Sunrise Towers", payEntry.Description)
	assert.True(t, payEntry.SignedAmount.Equal(paid.Amount.Neg()))
	assert.False(t, payEntry.Excluded)

	assert.Equal(t, "pending", entries[2].Status, "payments are not filtered by status")
	assert.True(t, entries[2].Excluded)
}

func TestMergeTransactions_SignInvariant(t *testing.T) {
	inv1 := newInvoice("INV-1", 10, day(2024, 1, 1), day(2024, 1, 31), models.InvoiceStatusPending)
	inv2 := newInvoice("INV-2", 20, day(2024, 1, 2), day(2024, 1, 31), models.InvoiceStatusCancelled)
	payments := []models.Payment{
		newPayment(&inv1, 5, day(2024, 1, 3), models.PaymentStatusCompleted),
		newPayment(nil, 7, day(2024, 1, 4), models.PaymentStatusFailed),
	}

	for _, e := range MergeTransactions([]models.Invoice{inv1, inv2}, payments, nil, nil) {
		switch e.Kind {
		case KindInvoice:
			assert.True(t, e.SignedAmount.IsPositive(), e.Reference)
			assert.True(t, e.Credit().IsZero())
		case KindPayment:
			assert.True(t, e.SignedAmount.IsNegative(), e.Reference)
			assert.True(t, e.Debit().IsZero())
			assert.True(t, e.Credit().Equal(e.SignedAmount.Neg()))
		}
	}
}

func TestMergeTransactions_Placeholders(t *testing.T) {
	inv := newInvoice("INV-9", 100, day(2024, 1, 1), day(2024, 1, 31), models.InvoiceStatusPending)
	inv.UnitID = uuid.New()
	inv.ProjectID = uuid.New()
	orphan := newPayment(nil, 50, day(2024, 1, 2), models.PaymentStatusCompleted)
	orphan.PaymentMethod = ""

	entries := MergeTransactions([]models.Invoice{inv}, []models.Payment{orphan}, IndexUnits(testUnits), nil)

	require.Len(t, entries, 2)
	assert.Equal(t, "Invoice INV-9 - Unit, Project", entries[0].Description)
	assert.Equal(t, "Payment - Unit, Project", entries[1].Description)
}

func TestMergeTransactions_PaymentPrefersOwnUnit(t *testing.T) {
	inv := newInvoice("INV-1", 100, day(2024, 1, 1), day(2024, 1, 31), models.InvoiceStatusPending)
	p := newPayment(&inv, 100, day(2024, 1, 2), models.PaymentStatusCompleted)
	own := otherUnitID
	p.UnitID = &own

	entries := MergeTransactions([]models.Invoice{inv}, []models.Payment{p},
		IndexUnits(testUnits), IndexProjects([]models.Project{testProject}))

	require.Len(t, entries, 2)
	assert.Equal(t, "Payment (bank_transfer) for INV-1 - Unit B-202, Sunrise Towers", entries[1].Description)
}

func TestMergeTransactions_UnknownUnitFallsBackToInvoiceProject(t *testing.T) {
	inv := newInvoice("INV-1", 100, day(2024, 1, 1), day(2024, 1, 31), models.InvoiceStatusPending)
	inv.UnitID = uuid.New()

	entries := MergeTransactions([]models.Invoice{inv}, nil, IndexUnits(testUnits),
		IndexProjects([]models.Project{testProject}))

	require.Len(t, entries, 1)
	assert.Equal(t, "Invoice INV-1 - Unit, Sunrise Towers", entries[0].Description)
}
