package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"property-sales-backend/internal/config"
	handler "property-sales-backend/internal/handlers"
	"property-sales-backend/internal/repository"
	"property-sales-backend/internal/services/matching"
	service "property-sales-backend/internal/services/reconciliation"
	"property-sales-backend/internal/services/statement"
)

type options struct {
	now func() time.Time
}

type Option func(*options)

// WithClock replaces time.Now in every service and handler that derives
// statuses or defaults from the current date.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// RegisterRoutes wires repositories, services and handlers onto r. The
// returned import service runs uploads in the background; callers wait on it
// before shutting down.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, log *zap.Logger, opts ...Option) *service.ReconciliationService {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)

	statementService := statement.NewService(invoiceRepo, paymentRepo, propertyRepo, log, cfg.Currency).WithClock(o.now)
	allocator := matching.NewAllocator(invoiceRepo, paymentRepo, log).WithClock(o.now)
	importService := service.NewReconciliationService(
		invoiceRepo,
		paymentRepo,
		propertyRepo,
		allocator,
		log,
		cfg.ImportWorkers,
	).WithClock(o.now)

	statementHandler := handler.NewStatementHandler(statementService, cfg.StatementOrder)
	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo, propertyRepo, statementService).WithClock(o.now)
	paymentHandler := handler.NewPaymentHandler(paymentRepo, invoiceRepo, propertyRepo, allocator, log)
	importHandler := handler.NewReconciliationHandler(importService, log)
	propertyHandler := handler.NewPropertyHandler(propertyRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	buyers := api.Group("/buyers")
	buyers.POST("", propertyHandler.CreateBuyer)
	buyers.GET("/:id/statement", statementHandler.GetStatement)
	buyers.GET("/:id/statement.pdf", statementHandler.StatementPDF)
	buyers.GET("/:id/statement.xlsx", statementHandler.StatementXLSX)
	buyers.GET("/:id/allocations", paymentHandler.Allocations)

	invoices := api.Group("/invoices")
	invoices.GET("", invoiceHandler.SearchInvoices)
	invoices.POST("", invoiceHandler.CreateInvoice)
	invoices.GET("/:id", invoiceHandler.GetInvoice)
	invoices.GET("/:id/pdf", invoiceHandler.InvoicePDF)

	payments := api.Group("/payments")
	payments.POST("", paymentHandler.CreatePayment)
	payments.POST("/upload", importHandler.Upload)
	payments.GET("/imports/:batchId", importHandler.GetBatchProgress)
	payments.GET("/imports/:batchId/details", importHandler.GetBatch)
	payments.POST("/:id/allocate", paymentHandler.AllocatePayment)

	api.GET("/dashboard/metrics", statementHandler.DashboardMetrics)
	api.POST("/projects", propertyHandler.CreateProject)
	api.POST("/units", propertyHandler.CreateUnit)

	return importService
}
