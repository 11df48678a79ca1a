package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-sales-backend/internal/models"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status models.InvoiceStatus
		due    time.Time
		want   models.InvoiceStatus
	}{
		{"pending past due", models.InvoiceStatusPending, day(2024, 1, 31), models.InvoiceStatusOverdue},
		{"pending due today", models.InvoiceStatusPending, day(2024, 2, 1), models.InvoiceStatusPending},
		{"pending due later", models.InvoiceStatusPending, day(2024, 3, 1), models.InvoiceStatusPending},
		{"pending without due date", models.InvoiceStatusPending, time.Time{}, models.InvoiceStatusPending},
		{"paid past due", models.InvoiceStatusPaid, day(2023, 1, 1), models.InvoiceStatusPaid},
		{"cancelled past due", models.InvoiceStatusCancelled, day(2023, 1, 1), models.InvoiceStatusCancelled},
		{"stored overdue", models.InvoiceStatusOverdue, day(2024, 6, 1), models.InvoiceStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newInvoice("INV-1", 100, day(2024, 1, 1), tt.due, tt.status)
			assert.Equal(t, tt.want, ResolveStatus(inv, now))
		})
	}
}

func TestDaysUntilDueAndOverdue(t *testing.T) {
	now := time.Date(2024, 2, 10, 23, 0, 0, 0, time.UTC)

	late := newInvoice("INV-1", 100, day(2024, 1, 1), day(2024, 2, 1), models.InvoiceStatusPending)
	assert.Equal(t, -9, DaysUntilDue(late, now))
	assert.Equal(t, 9, DaysOverdue(late, now))

	upcoming := newInvoice("INV-2", 100, day(2024, 1, 1), day(2024, 2, 15), models.InvoiceStatusPending)
	assert.Equal(t, 5, DaysUntilDue(upcoming, now))
	assert.Equal(t, 0, DaysOverdue(upcoming, now))

	paid := newInvoice("INV-3", 100, day(2024, 1, 1), day(2024, 2, 1), models.InvoiceStatusPaid)
	assert.Equal(t, -9, DaysUntilDue(paid, now))
	assert.Equal(t, 0, DaysOverdue(paid, now))

	undated := newInvoice("INV-4", 100, day(2024, 1, 1), time.Time{}, models.InvoiceStatusPending)
	assert.Equal(t, 0, DaysUntilDue(undated, now))
	assert.Equal(t, 0, DaysOverdue(undated, now))
}

func TestResolveStatus_DueDateReadInOtherLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	inv := newInvoice("INV-1", 100, day(2024, 1, 1), day(2024, 1, 10).In(ny), models.InvoiceStatusPending)
	morning := time.Date(2024, 1, 10, 8, 0, 0, 0, ny)

	assert.Equal(t, models.InvoiceStatusPending, ResolveStatus(inv, morning))
	assert.Equal(t, 0, DaysUntilDue(inv, morning))
	assert.Equal(t, 0, DaysOverdue(inv, morning))

	nextDay := time.Date(2024, 1, 11, 8, 0, 0, 0, ny)
	assert.Equal(t, models.InvoiceStatusOverdue, ResolveStatus(inv, nextDay))
	assert.Equal(t, 1, DaysOverdue(inv, nextDay))
}
