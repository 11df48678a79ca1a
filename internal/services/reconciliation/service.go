package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"property-sales-backend/internal/models"
	"property-sales-backend/internal/repository"
	"property-sales-backend/internal/services/matching"
)

const (
	progressEvery   = 100
	maxStoredErrors = 500
)

var ErrBatchNotFound = errors.New("import batch not found")

// Progress is the live state of an import batch.
type Progress struct {
	BatchID        uuid.UUID `json:"batch_id"`
	Total          int       `json:"total"`
	ProcessedCount int       `json:"processed_count"`
	ImportedCount  int       `json:"imported_count"`
	AllocatedCount int       `json:"allocated_count"`
	RejectedCount  int       `json:"rejected_count"`
	Status         string    `json:"status"`
}

// rejection is a row that was read fine but cannot be imported.
type rejection string

func (r rejection) Error() string { return string(r) }

// ReconciliationService imports payment files into the ledger and applies
// invoice-less payments to open invoices when the match is unambiguous.
type ReconciliationService struct {
	invoiceRepo  *repository.InvoiceRepository
	paymentRepo  *repository.PaymentRepository
	propertyRepo *repository.PropertyRepository
	allocator    *matching.Allocator
	db           *gorm.DB
	log          *zap.Logger

	progressCache sync.Map // batchID -> *Progress
	slots         chan struct{}
	wg            sync.WaitGroup
	now           func() time.Time
}

func NewReconciliationService(
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentRepository,
	propertyRepo *repository.PropertyRepository,
	allocator *matching.Allocator,
	log *zap.Logger,
	workers int,
) *ReconciliationService {
	if workers < 1 {
		workers = 1
	}
	return &ReconciliationService{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		propertyRepo: propertyRepo,
		allocator:    allocator,
		db:           paymentRepo.DB(),
		log:          log.Named("reconciliation.import"),
		slots:        make(chan struct{}, workers),
		now:          time.Now,
	}
}

func (s *ReconciliationService) WithClock(now func() time.Time) *ReconciliationService {
	s.now = now
	return s
}

// CreateBatch creates a new ImportBatch in DB
func (s *ReconciliationService) CreateBatch(ctx context.Context, filename string, totalRows int) (*models.ImportBatch, error) {
	now := s.now()
	batch := &models.ImportBatch{
		ID:        uuid.New(),
		Filename:  filename,
		TotalRows: totalRows,
		Status:    models.ImportStatusProcessing,
		Errors:    datatypes.JSON("[]"),
		StartedAt: now,
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, fmt.Errorf("create import batch: %w", err)
	}

	s.progressCache.Store(batch.ID, &Progress{
		BatchID: batch.ID,
		Total:   totalRows,
		Status:  models.ImportStatusProcessing,
	})
	return batch, nil
}

// Start processes the batch in the background. At most `workers` batches run
// at the same time; the rest wait for a free slot.
func (s *ReconciliationService) Start(batchID uuid.UUID, rows []Row, rejected []RowError) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.slots <- struct{}{}
		defer func() { <-s.slots }()

		if _, err := s.Process(context.Background(), batchID, rows, rejected); err != nil {
			s.log.Error("import batch failed", zap.String("batch_id", batchID.String()), zap.Error(err))
		}
	}()
}

// Wait blocks until every started batch is done.
func (s *ReconciliationService) Wait() {
	s.wg.Wait()
}

// Process imports rows one by one. Rows rejected while parsing are counted
// with the ones rejected here and stored on the batch.
func (s *ReconciliationService) Process(ctx context.Context, batchID uuid.UUID, rows []Row, rejected []RowError) (Progress, error) {
	p := Progress{
		BatchID:        batchID,
		Total:          len(rows) + len(rejected),
		ProcessedCount: len(rejected),
		RejectedCount:  len(rejected),
		Status:         models.ImportStatusProcessing,
	}
	errs := append([]RowError(nil), rejected...)

	for i, row := range rows {
		allocated, err := s.importRow(ctx, row)
		p.ProcessedCount++

		var r rejection
		switch {
		case errors.As(err, &r):
			s.log.Warn("payment row rejected",
				zap.String("batch_id", batchID.String()),
				zap.Int("line", row.Line),
				zap.String("reason", r.Error()),
			)
			p.RejectedCount++
			errs = append(errs, RowError{Line: row.Line, Reason: r.Error()})
		case err != nil:
			s.log.Error("payment row failed",
				zap.String("batch_id", batchID.String()),
				zap.Int("line", row.Line),
				zap.Error(err),
			)
			p.RejectedCount++
			errs = append(errs, RowError{Line: row.Line, Reason: "internal error"})
		default:
			p.ImportedCount++
			if allocated {
				p.AllocatedCount++
			}
		}

		s.cacheProgress(p)
		if (i+1)%progressEvery == 0 {
			if err := s.updateBatchProgress(ctx, p); err != nil {
				s.log.Warn("progress update failed", zap.String("batch_id", batchID.String()), zap.Error(err))
			}
		}
	}

	p.Status = models.ImportStatusCompleted
	if err := s.markBatchCompleted(ctx, p, errs); err != nil {
		return p, err
	}
	s.cacheProgress(p)

	s.log.Info("import batch completed",
		zap.String("batch_id", batchID.String()),
		zap.Int("imported", p.ImportedCount),
		zap.Int("allocated", p.AllocatedCount),
		zap.Int("rejected", p.RejectedCount),
	)
	return p, nil
}

func (s *ReconciliationService) importRow(ctx context.Context, row Row) (bool, error) {
	exists, err := s.paymentRepo.HasTransaction(ctx, row.TransactionID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, rejection("duplicate transaction_id " + row.TransactionID)
	}

	buyer, err := s.propertyRepo.GetBuyer(ctx, row.BuyerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, rejection("unknown buyer " + row.BuyerID.String())
	}
	if err != nil {
		return false, err
	}

	payment := &models.Payment{
		BuyerID:       buyer.ID,
		UnitID:        buyer.UnitID,
		Amount:        row.Amount,
		PaymentDate:   row.PaymentDate,
		PaymentMethod: row.PaymentMethod,
		Status:        row.Status,
		TransactionID: row.TransactionID,
		CreatedAt:     s.now(),
	}

	if row.InvoiceNumber != "" {
		inv, err := s.invoiceRepo.GetByNumber(ctx, row.InvoiceNumber)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, rejection("unknown invoice " + row.InvoiceNumber)
		}
		if err != nil {
			return false, err
		}
		if inv.BuyerID != buyer.ID {
			return false, rejection("invoice " + row.InvoiceNumber + " belongs to another buyer")
		}
		invoiceID, unitID := inv.ID, inv.UnitID
		payment.InvoiceID = &invoiceID
		payment.UnitID = &unitID
	}

	created, err := s.paymentRepo.Create(ctx, payment)
	if err != nil {
		return false, err
	}
	if !created {
		return false, rejection("duplicate transaction_id " + row.TransactionID)
	}

	if payment.InvoiceID != nil || !payment.IsCompleted() {
		return false, nil
	}
	_, allocated, err := s.allocator.AutoAllocate(ctx, *payment)
	if err != nil {
		// the payment is stored; it stays unallocated
		s.log.Warn("auto allocation failed", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		return false, nil
	}
	return allocated, nil
}

func (s *ReconciliationService) GetBatch(ctx context.Context, batchID uuid.UUID) (*models.ImportBatch, error) {
	var batch models.ImportBatch
	if err := s.db.WithContext(ctx).First(&batch, "id = ?", batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// GetProgress serves running batches from memory and finished or older ones
// from the database.
func (s *ReconciliationService) GetProgress(ctx context.Context, batchID uuid.UUID) (Progress, error) {
	if val, ok := s.progressCache.Load(batchID); ok {
		return *val.(*Progress), nil
	}
	batch, err := s.GetBatch(ctx, batchID)
	if err != nil {
		return Progress{}, err
	}
	return Progress{
		BatchID:        batch.ID,
		Total:          batch.TotalRows,
		ProcessedCount: batch.ProcessedCount,
		ImportedCount:  batch.ImportedCount,
		AllocatedCount: batch.AllocatedCount,
		RejectedCount:  batch.RejectedCount,
		Status:         batch.Status,
	}, nil
}

func (s *ReconciliationService) cacheProgress(p Progress) {
	cp := p
	s.progressCache.Store(p.BatchID, &cp)
}

// updateBatchProgress updates the counters of a running batch
func (s *ReconciliationService) updateBatchProgress(ctx context.Context, p Progress) error {
	return s.db.WithContext(ctx).Model(&models.ImportBatch{}).
		Where("id = ?", p.BatchID).
		Updates(map[string]interface{}{
			"processed_count": p.ProcessedCount,
			"imported_count":  p.ImportedCount,
			"allocated_count": p.AllocatedCount,
			"rejected_count":  p.RejectedCount,
		}).Error
}

func (s *ReconciliationService) markBatchCompleted(ctx context.Context, p Progress, errs []RowError) error {
	if len(errs) > maxStoredErrors {
		errs = errs[:maxStoredErrors]
	}
	if errs == nil {
		errs = []RowError{}
	}
	errsJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("encode row errors: %w", err)
	}

	return s.db.WithContext(ctx).Model(&models.ImportBatch{}).
		Where("id = ?", p.BatchID).
		Updates(map[string]interface{}{
			"total_rows":      p.Total,
			"processed_count": p.ProcessedCount,
			"imported_count":  p.ImportedCount,
			"allocated_count": p.AllocatedCount,
			"rejected_count":  p.RejectedCount,
			"errors":          datatypes.JSON(errsJSON),
			"status":          models.ImportStatusCompleted,
			"completed_at":    s.now(),
		}).Error
}
