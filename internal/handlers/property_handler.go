package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/models"
	"property-sales-backend/internal/repository"
)

// PropertyHandler creates the reference data ledgers point at.
type PropertyHandler struct {
	repo *repository.PropertyRepository
}

func NewPropertyHandler(repo *repository.PropertyRepository) *PropertyHandler {
	return &PropertyHandler{repo: repo}
}

func (h *PropertyHandler) CreateProject(c *gin.Context) {
	var payload struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, ErrInvalidRequest)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		respondError(c, invalidField("name", "is required"))
		return
	}

	project := &models.Project{
		Name:     strings.TrimSpace(payload.Name),
		Location: strings.TrimSpace(payload.Location),
	}
	if err := h.repo.CreateProject(c.Request.Context(), project); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *PropertyHandler) CreateUnit(c *gin.Context) {
	var payload struct {
		ProjectID  string          `json:"project_id"`
		UnitNumber string          `json:"unit_number"`
		UnitType   string          `json:"unit_type"`
		Price      decimal.Decimal `json:"price"`
		Status     string          `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, ErrInvalidRequest)
		return
	}
	projectID, err := uuid.Parse(payload.ProjectID)
	if err != nil {
		respondError(c, invalidField("project_id", "must be a UUID"))
		return
	}
	if strings.TrimSpace(payload.UnitNumber) == "" {
		respondError(c, invalidField("unit_number", "is required"))
		return
	}
	if payload.Price.IsNegative() {
		respondError(c, invalidField("price", "must not be negative"))
		return
	}

	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = "available"
	}
	unit := &models.Unit{
		ProjectID:  projectID,
		UnitNumber: strings.TrimSpace(payload.UnitNumber),
		UnitType:   strings.TrimSpace(payload.UnitType),
		Price:      payload.Price,
		Status:     status,
	}
	if err := h.repo.CreateUnit(c.Request.Context(), unit); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

func (h *PropertyHandler) CreateBuyer(c *gin.Context) {
	var payload struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Phone  string `json:"phone"`
		UnitID string `json:"unit_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, ErrInvalidRequest)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		respondError(c, invalidField("name", "is required"))
		return
	}
	unitID, err := parseOptionalUUID("unit_id", payload.UnitID)
	if err != nil {
		respondError(c, err)
		return
	}
	if unitID != nil {
		if _, err := h.repo.GetUnit(c.Request.Context(), *unitID); err != nil {
			respondError(c, err)
			return
		}
	}

	buyer := &models.Buyer{
		Name:   strings.TrimSpace(payload.Name),
		Email:  strings.TrimSpace(payload.Email),
		Phone:  strings.TrimSpace(payload.Phone),
		UnitID: unitID,
	}
	if err := h.repo.CreateBuyer(c.Request.Context(), buyer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buyer)
}
