package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"property-sales-backend/internal/export"
	"property-sales-backend/internal/services/ledger"
	"property-sales-backend/internal/services/statement"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type StatementHandler struct {
	service      *statement.Service
	defaultOrder ledger.SortOrder
}

func NewStatementHandler(s *statement.Service, defaultOrder string) *StatementHandler {
	return &StatementHandler{service: s, defaultOrder: ledger.ParseSortOrder(defaultOrder)}
}

func (h *StatementHandler) order(c *gin.Context) ledger.SortOrder {
	if raw, ok := c.GetQuery("order"); ok {
		return ledger.ParseSortOrder(raw)
	}
	return h.defaultOrder
}

// GetStatement returns the buyer ledger with totals and account status.
func (h *StatementHandler) GetStatement(c *gin.Context) {
	buyerID, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	stmt, err := h.service.BuyerStatement(c.Request.Context(), buyerID, h.order(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stmt)
}

func (h *StatementHandler) StatementPDF(c *gin.Context) {
	buyerID, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	stmt, err := h.service.BuyerStatement(c.Request.Context(), buyerID, h.order(c))
	if err != nil {
		respondError(c, err)
		return
	}
	doc, err := export.StatementPDF(stmt, h.service.Currency())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%s.pdf"`, buyerID))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (h *StatementHandler) StatementXLSX(c *gin.Context) {
	buyerID, err := uuidParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	stmt, err := h.service.BuyerStatement(c.Request.Context(), buyerID, h.order(c))
	if err != nil {
		respondError(c, err)
		return
	}
	doc, err := export.StatementXLSX(stmt, h.service.Currency())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%s.xlsx"`, buyerID))
	c.Data(http.StatusOK, xlsxContentType, doc)
}

func (h *StatementHandler) DashboardMetrics(c *gin.Context) {
	summary, err := h.service.DashboardMetrics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currency": h.service.Currency(),
		"metrics":  summary,
	})
}
