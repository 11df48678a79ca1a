package matching

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-sales-backend/internal/models"
)

var (
	buyerID = uuid.New()
	now     = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func invoice(number string, total int64, due time.Time, status models.InvoiceStatus) models.Invoice {
	return models.Invoice{
		ID:            uuid.New(),
		BuyerID:       buyerID,
		InvoiceNumber: number,
		IssuedDate:    due.AddDate(0, -1, 0),
		DueDate:       due,
		TotalAmount:   decimal.NewFromInt(total),
		Status:        status,
	}
}

func payment(amount int64, date time.Time, inv *models.Invoice) models.Payment {
	p := models.Payment{
		ID:          uuid.New(),
		BuyerID:     buyerID,
		Amount:      decimal.NewFromInt(amount),
		PaymentDate: date,
		Status:      models.PaymentStatusCompleted,
	}
	if inv != nil {
		id := inv.ID
		p.InvoiceID = &id
	}
	return p
}

func TestSuggest_SingleExactMatch(t *testing.T) {
	inv := invoice("INV-1", 70200, day(3, 10), models.InvoiceStatusPending)
	p := payment(70200, day(3, 10), nil)

	got := Suggest(p, []models.Invoice{inv}, []models.Payment{p}, now)

	require.Len(t, got, 1)
	assert.Equal(t, inv.ID, got[0].InvoiceID)
	assert.InDelta(t, 100, got[0].Score, 0.001)
	assert.Equal(t, DecisionAutoAllocate, got[0].Decision)
}

func TestSuggest_RanksByAmountAndDate(t *testing.T) {
	older := invoice("INV-1", 100000, day(2, 10), models.InvoiceStatusPending)
	newer := invoice("INV-2", 50000, day(3, 10), models.InvoiceStatusPending)
	p := payment(50000, day(3, 9), nil)

	got := Suggest(p, []models.Invoice{older, newer}, nil, now)

	require.Len(t, got, 2)
	assert.Equal(t, "INV-2", got[0].InvoiceNumber)
	assert.InDelta(t, 98, got[0].Score, 0.001)
	assert.Equal(t, DecisionAutoAllocate, got[0].Decision)

	assert.Equal(t, "INV-1", got[1].InvoiceNumber)
	assert.InDelta(t, 50, got[1].Score, 0.001)
	assert.Equal(t, DecisionUnallocated, got[1].Decision)
}

func TestSuggest_SkipsClosedInvoices(t *testing.T) {
	cancelled := invoice("INV-C", 1000, day(3, 10), models.InvoiceStatusCancelled)
	paid := invoice("INV-P", 1000, day(3, 10), models.InvoiceStatusPaid)
	settled := invoice("INV-S", 1000, day(3, 10), models.InvoiceStatusPending)
	foreign := invoice("INV-F", 1000, day(3, 10), models.InvoiceStatusPending)
	foreign.BuyerID = uuid.New()

	p := payment(1000, day(3, 10), nil)
	payments := []models.Payment{payment(1000, day(2, 1), &settled), p}

	got := Suggest(p, []models.Invoice{cancelled, paid, settled, foreign}, payments, now)
	assert.Empty(t, got)

	_, ok := Best(got)
	assert.False(t, ok)
}

func TestSuggest_UsesRemainingBalance(t *testing.T) {
	inv := invoice("INV-1", 100000, day(2, 20), models.InvoiceStatusPending)
	partial := payment(60000, day(2, 1), &inv)
	p := payment(40000, day(2, 21), nil)

	got := Suggest(p, []models.Invoice{inv}, []models.Payment{partial, p}, now)

	require.Len(t, got, 1)
	assert.Equal(t, "40000", got[0].Remaining.String())
	assert.InDelta(t, 100, got[0].AmountScore, 0.001)
	assert.Equal(t, DecisionAutoAllocate, got[0].Decision, "overdue invoices stay open")
}

func TestDecide(t *testing.T) {
	tests := []struct {
		score float64
		want  Decision
	}{
		{100, DecisionAutoAllocate},
		{90, DecisionAutoAllocate},
		{89.99, DecisionNeedsReview},
		{60, DecisionNeedsReview},
		{59.99, DecisionUnallocated},
		{0, DecisionUnallocated},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decide(tt.score), "score %v", tt.score)
	}
}

func TestComputeAmountScore(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	assert.InDelta(t, 100, computeAmountScore(hundred, hundred), 0.001)
	assert.InDelta(t, 90, computeAmountScore(decimal.NewFromInt(110), hundred), 0.001)
	assert.InDelta(t, 50, computeAmountScore(decimal.NewFromInt(50), hundred), 0.001)
	assert.InDelta(t, 0, computeAmountScore(decimal.NewFromInt(300), hundred), 0.001)
	assert.Zero(t, computeAmountScore(hundred, decimal.Zero))
	assert.Zero(t, computeAmountScore(decimal.NewFromInt(-5), hundred))
}

func TestComputeDateScore(t *testing.T) {
	due := day(3, 10)
	tests := []struct {
		paid time.Time
		want float64
	}{
		{due, 100},
		{day(3, 7), 100},
		{day(3, 15), 80},
		{day(3, 20), 60},
		{day(2, 20), 40},
		{day(4, 30), 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, computeDateScore(tt.paid, due), tt.paid.Format("2006-01-02"))
	}
	assert.Equal(t, 20.0, computeDateScore(due, time.Time{}))
}
