package reconciliation

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"property-sales-backend/internal/models"
	"property-sales-backend/internal/repository"
	"property-sales-backend/internal/services/matching"
	"property-sales-backend/internal/testutil"
)

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newService(db *gorm.DB) *ReconciliationService {
	clock := func() time.Time { return now }
	invoices := repository.NewInvoiceRepository(db)
	payments := repository.NewPaymentRepository(db)
	allocator := matching.NewAllocator(invoices, payments, zap.NewNop()).WithClock(clock)
	return NewReconciliationService(
		invoices,
		payments,
		repository.NewPropertyRepository(db),
		allocator,
		zap.NewNop(),
		2,
	).WithClock(clock)
}

func row(line int, txID string, buyerID uuid.UUID, invoiceNumber string, amount int64, date time.Time, status models.PaymentStatus) Row {
	return Row{
		Line:          line,
		TransactionID: txID,
		BuyerID:       buyerID,
		InvoiceNumber: invoiceNumber,
		Amount:        decimal.NewFromInt(amount),
		PaymentDate:   date,
		PaymentMethod: "bank_transfer",
		Status:        status,
	}
}

func TestProcess(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	f.Invoice(t, db, "INV-1", 70200, testutil.Day(2024, 2, 10), testutil.Day(2024, 3, 10), models.InvoiceStatusPending)
	inv2 := f.Invoice(t, db, "INV-2", 500000, testutil.Day(2024, 3, 10), testutil.Day(2024, 4, 10), models.InvoiceStatusPending)

	other := models.Buyer{ID: uuid.New(), Name: "Vikram Shah"}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.Invoice{
		ID:            uuid.New(),
		BuyerID:       other.ID,
		UnitID:        f.Unit.ID,
		ProjectID:     f.Project.ID,
		InvoiceNumber: "INV-X",
		TotalAmount:   decimal.NewFromInt(100),
		Status:        models.InvoiceStatusPending,
	}).Error)

	rows := []Row{
		row(3, "TXN-1", f.Buyer.ID, "INV-1", 70200, testutil.Day(2024, 3, 9), models.PaymentStatusCompleted),
		row(4, "TXN-2", f.Buyer.ID, "", 500000, testutil.Day(2024, 4, 9), models.PaymentStatusCompleted),
		row(5, "TXN-1", f.Buyer.ID, "INV-1", 70200, testutil.Day(2024, 3, 9), models.PaymentStatusCompleted),
		row(6, "TXN-4", uuid.New(), "", 100, testutil.Day(2024, 3, 9), models.PaymentStatusCompleted),
		row(7, "TXN-5", f.Buyer.ID, "INV-X", 100, testutil.Day(2024, 3, 9), models.PaymentStatusCompleted),
		row(8, "TXN-6", f.Buyer.ID, "INV-404", 100, testutil.Day(2024, 3, 9), models.PaymentStatusCompleted),
		row(9, "TXN-7", f.Buyer.ID, "", 100, testutil.Day(2024, 3, 9), models.PaymentStatusPending),
	}
	parseErrors := []RowError{{Line: 2, Reason: "invalid amount"}}

	svc := newService(db)
	ctx := context.Background()
	batch, err := svc.CreateBatch(ctx, "payments.csv", len(rows)+len(parseErrors))
	require.NoError(t, err)

	p, err := svc.Process(ctx, batch.ID, rows, parseErrors)
	require.NoError(t, err)

	assert.Equal(t, Progress{
		BatchID:        batch.ID,
		Total:          8,
		ProcessedCount: 8,
		ImportedCount:  3,
		AllocatedCount: 1,
		RejectedCount:  5,
		Status:         models.ImportStatusCompleted,
	}, p)

	payments := repository.NewPaymentRepository(db)
	allocated, err := payments.FindByInvoice(ctx, inv2.ID)
	require.NoError(t, err)
	require.Len(t, allocated, 1)
	assert.Equal(t, "TXN-2", allocated[0].TransactionID)

	stored, err := svc.GetBatch(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusCompleted, stored.Status)
	assert.Equal(t, 5, stored.RejectedCount)
	require.NotNil(t, stored.CompletedAt)

	var errs []RowError
	require.NoError(t, json.Unmarshal(stored.Errors, &errs))
	require.Len(t, errs, 5)
	assert.Equal(t, RowError{Line: 2, Reason: "invalid amount"}, errs[0])
	assert.Equal(t, "duplicate transaction_id TXN-1", errs[1].Reason)
	assert.Contains(t, errs[2].Reason, "unknown buyer")
	assert.Equal(t, "invoice INV-X belongs to another buyer", errs[3].Reason)
	assert.Equal(t, "unknown invoice INV-404", errs[4].Reason)
}

func TestStartAndProgress(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)

	svc := newService(db)
	ctx := context.Background()
	batch, err := svc.CreateBatch(ctx, "payments.csv", 1)
	require.NoError(t, err)

	p, err := svc.GetProgress(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusProcessing, p.Status)

	svc.Start(batch.ID, []Row{
		row(2, "TXN-1", f.Buyer.ID, "", 2500, testutil.Day(2024, 2, 1), models.PaymentStatusCompleted),
	}, nil)
	svc.Wait()

	p, err = svc.GetProgress(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusCompleted, p.Status)
	assert.Equal(t, 1, p.ImportedCount)

	fresh := newService(db)
	p, err = fresh.GetProgress(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusCompleted, p.Status)
	assert.Equal(t, 1, p.ProcessedCount)
	assert.Equal(t, 1, p.Total)

	_, err = fresh.GetProgress(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestStart_SameFileTwiceImportsOnce(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)

	rows := []Row{
		row(2, "TXN-A", f.Buyer.ID, "", 1000, testutil.Day(2024, 2, 1), models.PaymentStatusPending),
		row(3, "TXN-B", f.Buyer.ID, "", 2000, testutil.Day(2024, 2, 2), models.PaymentStatusPending),
		row(4, "TXN-C", f.Buyer.ID, "", 3000, testutil.Day(2024, 2, 3), models.PaymentStatusPending),
	}

	svc := newService(db)
	ctx := context.Background()
	first, err := svc.CreateBatch(ctx, "payments.csv", len(rows))
	require.NoError(t, err)
	second, err := svc.CreateBatch(ctx, "payments.csv", len(rows))
	require.NoError(t, err)

	svc.Start(first.ID, rows, nil)
	svc.Start(second.ID, rows, nil)
	svc.Wait()

	p1, err := svc.GetProgress(ctx, first.ID)
	require.NoError(t, err)
	p2, err := svc.GetProgress(ctx, second.ID)
	require.NoError(t, err)

	assert.Equal(t, len(rows), p1.ImportedCount+p2.ImportedCount)
	assert.Equal(t, len(rows), p1.RejectedCount+p2.RejectedCount)

	var stored int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&stored).Error)
	assert.Equal(t, int64(len(rows)), stored)
}
