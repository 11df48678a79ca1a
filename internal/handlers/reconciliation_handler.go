package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	service "property-sales-backend/internal/services/reconciliation"
)

type ReconciliationHandler struct {
	service *service.ReconciliationService
	log     *zap.Logger
}

func NewReconciliationHandler(s *service.ReconciliationService, log *zap.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{service: s, log: log.Named("handler.import")}
}

// Upload parses a payments CSV, creates a batch and imports it in background
func (h *ReconciliationHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, invalidField("file", "file required"))
		return
	}
	defer file.Close()

	rows, rejected, err := service.ParseRows(file)
	if err != nil {
		if errors.Is(err, service.ErrMissingColumns) {
			respondError(c, err)
			return
		}
		respondError(c, invalidField("file", "cannot read CSV header"))
		return
	}

	h.log.Info("payments file received",
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size),
		zap.Int("rows", len(rows)),
		zap.Int("rejected", len(rejected)),
	)

	batch, err := h.service.CreateBatch(c.Request.Context(), header.Filename, len(rows)+len(rejected))
	if err != nil {
		respondError(c, err)
		return
	}
	h.service.Start(batch.ID, rows, rejected)

	c.JSON(http.StatusAccepted, gin.H{
		"batch_id":   batch.ID.String(),
		"status":     batch.Status,
		"total_rows": batch.TotalRows,
	})
}

func (h *ReconciliationHandler) GetBatchProgress(c *gin.Context) {
	batchID, err := uuidParam(c, "batchId")
	if err != nil {
		respondError(c, err)
		return
	}
	progress, err := h.service.GetProgress(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetBatch returns the stored batch including the rejected rows.
func (h *ReconciliationHandler) GetBatch(c *gin.Context) {
	batchID, err := uuidParam(c, "batchId")
	if err != nil {
		respondError(c, err)
		return
	}
	batch, err := h.service.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}
