package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"property-sales-backend/internal/models"
	"property-sales-backend/internal/repository"
	"property-sales-backend/internal/services/matching"
)

type PaymentHandler struct {
	paymentRepo  *repository.PaymentRepository
	invoiceRepo  *repository.InvoiceRepository
	propertyRepo *repository.PropertyRepository
	allocator    *matching.Allocator
	log          *zap.Logger
}

func NewPaymentHandler(
	paymentRepo *repository.PaymentRepository,
	invoiceRepo *repository.InvoiceRepository,
	propertyRepo *repository.PropertyRepository,
	allocator *matching.Allocator,
	log *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		paymentRepo:  paymentRepo,
		invoiceRepo:  invoiceRepo,
		propertyRepo: propertyRepo,
		allocator:    allocator,
		log:          log.Named("handler.payment"),
	}
}

// CreatePayment records a payment. Completed payments without an invoice are
// offered to the allocator straight away.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var payload struct {
		BuyerID       string          `json:"buyer_id"`
		InvoiceID     string          `json:"invoice_id"`
		Amount        decimal.Decimal `json:"amount"`
		PaymentDate   string          `json:"payment_date"`
		PaymentMethod string          `json:"payment_method"`
		Status        string          `json:"status"`
		TransactionID string          `json:"transaction_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, ErrInvalidRequest)
		return
	}

	ctx := c.Request.Context()
	buyerID, err := uuid.Parse(payload.BuyerID)
	if err != nil {
		respondError(c, invalidField("buyer_id", "must be a UUID"))
		return
	}
	buyer, err := h.propertyRepo.GetBuyer(ctx, buyerID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !payload.Amount.IsPositive() {
		respondError(c, invalidField("amount", "must be positive"))
		return
	}
	date, err := parseDate("payment_date", payload.PaymentDate, time.Time{})
	if err != nil {
		respondError(c, err)
		return
	}

	status := models.PaymentStatusCompleted
	if payload.Status != "" {
		status = models.PaymentStatus(strings.ToLower(payload.Status))
		if !status.Valid() {
			respondError(c, invalidField("status", "unknown payment status"))
			return
		}
	}

	payment := &models.Payment{
		BuyerID:       buyer.ID,
		UnitID:        buyer.UnitID,
		Amount:        payload.Amount,
		PaymentDate:   date,
		PaymentMethod: strings.TrimSpace(payload.PaymentMethod),
		Status:        status,
		TransactionID: strings.TrimSpace(payload.TransactionID),
	}
	if payment.TransactionID == "" {
		payment.TransactionID = uuid.New().String()
	} else {
		exists, err := h.paymentRepo.HasTransaction(ctx, payment.TransactionID)
		if err != nil {
			respondError(c, err)
			return
		}
		if exists {
			respondError(c, fmt.Errorf("%w: transaction %s already recorded", ErrConflict, payment.TransactionID))
			return
		}
	}

	invoiceID, err := parseOptionalUUID("invoice_id", payload.InvoiceID)
	if err != nil {
		respondError(c, err)
		return
	}
	if invoiceID != nil {
		inv, err := h.invoiceRepo.GetByID(ctx, *invoiceID)
		if err != nil {
			respondError(c, err)
			return
		}
		if inv.BuyerID != buyer.ID {
			respondError(c, matching.ErrBuyerMismatch)
			return
		}
		unitID := inv.UnitID
		payment.InvoiceID = invoiceID
		payment.UnitID = &unitID
	}

	created, err := h.paymentRepo.Create(ctx, payment)
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		respondError(c, fmt.Errorf("%w: transaction %s already recorded", ErrConflict, payment.TransactionID))
		return
	}

	resp := gin.H{"message": "payment recorded", "payment": payment}
	if payment.InvoiceID == nil && payment.IsCompleted() {
		best, allocated, err := h.allocator.AutoAllocate(ctx, *payment)
		if err != nil {
			h.log.Warn("auto allocation failed", zap.String("payment_id", payment.ID.String()), zap.Error(err))
		} else if allocated {
			payment.InvoiceID = &best.InvoiceID
			resp["allocation"] = best
		} else if best.InvoiceID != uuid.Nil {
			resp["suggestion"] = best
		}
	}

	c.JSON(http.StatusCreated, resp)
}

// AllocatePayment ties a payment to an invoice picked by an operator.
func (h *PaymentHandler) AllocatePayment(c *gin.Context) {
	paymentID, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var payload struct {
		InvoiceID   string `json:"invoice_id"`
		PerformedBy string `json:"performed_by"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, ErrInvalidRequest)
		return
	}
	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		respondError(c, invalidField("invoice_id", "must be a UUID"))
		return
	}
	performedBy := strings.TrimSpace(payload.PerformedBy)
	if performedBy == "" {
		performedBy = "admin"
	}

	payment, err := h.allocator.Allocate(c.Request.Context(), paymentID, invoiceID, performedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment allocated", "payment": payment})
}

// Allocations lists the buyer's unallocated payments with ranked invoices.
func (h *PaymentHandler) Allocations(c *gin.Context) {
	buyerID, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.propertyRepo.GetBuyer(c.Request.Context(), buyerID); err != nil {
		respondError(c, err)
		return
	}

	items, err := h.allocator.SuggestForBuyer(c.Request.Context(), buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
