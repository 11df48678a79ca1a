package handler

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/export"
	"property-sales-backend/internal/models"
	"property-sales-backend/internal/repository"
	"property-sales-backend/internal/services/ledger"
	"property-sales-backend/internal/services/statement"
)

type InvoiceHandler struct {
	invoiceRepo  *repository.InvoiceRepository
	propertyRepo *repository.PropertyRepository
	statements   *statement.Service
	now          func() time.Time
}

func NewInvoiceHandler(
	invoiceRepo *repository.InvoiceRepository,
	propertyRepo *repository.PropertyRepository,
	statements *statement.Service,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceRepo:  invoiceRepo,
		propertyRepo: propertyRepo,
		statements:   statements,
		now:          time.Now,
	}
}

func (h *InvoiceHandler) WithClock(now func() time.Time) *InvoiceHandler {
	h.now = now
	return h
}

type invoiceResult struct {
	models.Invoice
	EffectiveStatus models.InvoiceStatus `json:"effective_status"`
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var payload struct {
		BuyerID       string          `json:"buyer_id"`
		UnitID        string          `json:"unit_id"`
		InvoiceNumber string          `json:"invoice_number"` // optional
		IssuedDate    string          `json:"issued_date"`
		DueDate       string          `json:"due_date"`
		TotalAmount   decimal.Decimal `json:"total_amount"`
		Status        string          `json:"status"`
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

	unitID, err := parseOptionalUUID("unit_id", payload.UnitID)
	if err != nil {
		respondError(c, err)
		return
	}
	if unitID == nil {
		unitID = buyer.UnitID
	}
	if unitID == nil {
		respondError(c, invalidField("unit_id", "is required when the buyer has no unit"))
		return
	}
	unit, err := h.propertyRepo.GetUnit(ctx, *unitID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !payload.TotalAmount.IsPositive() {
		respondError(c, invalidField("total_amount", "must be positive"))
		return
	}
	issued, err := parseDate("issued_date", payload.IssuedDate, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	due, err := parseDate("due_date", payload.DueDate, time.Time{})
	if err != nil {
		respondError(c, err)
		return
	}

	status := models.InvoiceStatusPending
	if payload.Status != "" {
		status = models.InvoiceStatus(strings.ToLower(payload.Status))
		if !status.Valid() {
			respondError(c, invalidField("status", "unknown invoice status"))
			return
		}
	}

	// Generate invoice number if missing
	number := strings.TrimSpace(payload.InvoiceNumber)
	if number == "" {
		number = "INV-" + strings.ToUpper(uuid.NewString()[:8])
	}

	invoice := &models.Invoice{
		BuyerID:       buyer.ID,
		UnitID:        unit.ID,
		ProjectID:     unit.ProjectID,
		InvoiceNumber: number,
		IssuedDate:    issued,
		DueDate:       due,
		TotalAmount:   payload.TotalAmount,
		Status:        status,
	}
	created, err := h.invoiceRepo.Create(ctx, invoice)
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		respondError(c, fmt.Errorf("%w: invoice number %s already exists", ErrConflict, number))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "invoice created", "invoice": invoice})
}

// GetInvoice returns the invoice preview: effective status, payments and
// remaining balance.
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.statements.InvoicePreview(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *InvoiceHandler) InvoicePDF(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.statements.InvoicePreview(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	doc, err := export.InvoicePDF(detail, h.statements.Currency())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+detail.Invoice.InvoiceNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

// SearchInvoices filters by invoice number and by effective status, so
// status=overdue finds invoices stored as overdue plus pending ones whose due
// date has passed.
func (h *InvoiceHandler) SearchInvoices(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	wanted := splitQuery(c.Query("status"))

	var stored []string
	for _, s := range wanted {
		status := models.InvoiceStatus(s)
		if !status.Valid() {
			respondError(c, invalidField("status", "unknown invoice status "+s))
			return
		}
		candidates := []models.InvoiceStatus{status}
		if status == models.InvoiceStatusOverdue {
			candidates = append(candidates, models.InvoiceStatusPending)
		}
		for _, c := range candidates {
			if !slices.Contains(stored, string(c)) {
				stored = append(stored, string(c))
			}
		}
	}

	invoices, err := h.invoiceRepo.SearchInvoices(c.Request.Context(), query, stored)
	if err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	items := make([]invoiceResult, 0, len(invoices))
	for _, inv := range invoices {
		effective := ledger.ResolveStatus(inv, now)
		if len(wanted) > 0 && !slices.Contains(wanted, string(effective)) {
			continue
		}
		items = append(items, invoiceResult{Invoice: inv, EffectiveStatus: effective})
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
