package statement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"property-sales-backend/internal/models"
	"property-sales-backend/internal/repository"
	"property-sales-backend/internal/services/ledger"
)

var (
	ErrBuyerNotFound   = errors.New("buyer not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// Statement is a buyer ledger ready for the statement page and its exports.
type Statement struct {
	Buyer         models.Buyer         `json:"buyer"`
	Totals        ledger.Totals        `json:"totals"`
	Transactions  []ledger.Entry       `json:"transactions"`
	AccountStatus ledger.AccountStatus `json:"account_status"`
	StatusLabel   string               `json:"status_label"`
	Order         ledger.SortOrder     `json:"order"`
	Currency      string               `json:"currency"`
	GeneratedAt   time.Time            `json:"generated_at"`
}

// Service loads buyer data and hands it to the ledger package. It is the only
// place ledgers are computed for the HTTP and export layers.
type Service struct {
	invoiceRepo  *repository.InvoiceRepository
	paymentRepo  *repository.PaymentRepository
	propertyRepo *repository.PropertyRepository
	log          *zap.Logger
	currency     string
	now          func() time.Time
}

func NewService(
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentRepository,
	propertyRepo *repository.PropertyRepository,
	log *zap.Logger,
	currency string,
) *Service {
	return &Service{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		propertyRepo: propertyRepo,
		log:          log.Named("statement.service"),
		currency:     currency,
		now:          time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Currency() string {
	return s.currency
}

func (s *Service) BuyerStatement(ctx context.Context, buyerID uuid.UUID, order ledger.SortOrder) (*Statement, error) {
	buyer, err := s.propertyRepo.GetBuyer(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuyerNotFound
		}
		return nil, fmt.Errorf("load buyer: %w", err)
	}

	src, err := s.loadReference(ctx)
	if err != nil {
		return nil, err
	}
	if src.Invoices, err = s.invoiceRepo.FindByBuyer(ctx, buyerID); err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	if src.Payments, err = s.paymentRepo.FindByBuyer(ctx, buyerID); err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	now := s.now()
	l := ledger.BuildLedger(buyerID, src, now, order)
	status := l.Totals.AccountStatus()

	s.log.Debug("statement built",
		zap.String("buyer_id", buyerID.String()),
		zap.Int("transactions", len(l.Transactions)),
		zap.String("outstanding", l.Totals.OutstandingBalance.String()),
	)

	return &Statement{
		Buyer:         *buyer,
		Totals:        l.Totals,
		Transactions:  l.Transactions,
		AccountStatus: status,
		StatusLabel:   status.Label(),
		Order:         order,
		Currency:      s.currency,
		GeneratedAt:   now,
	}, nil
}

func (s *Service) InvoicePreview(ctx context.Context, invoiceID uuid.UUID) (*ledger.InvoiceDetail, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("load invoice: %w", err)
	}

	payments, err := s.paymentRepo.FindByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	src, err := s.loadReference(ctx)
	if err != nil {
		return nil, err
	}

	lookups := ledger.Lookups{
		Units:    ledger.IndexUnits(src.Units),
		Projects: ledger.IndexProjects(src.Projects),
	}
	detail := ledger.PreviewInvoice(*inv, payments, lookups, s.now())
	return &detail, nil
}

// DashboardMetrics summarises every buyer for the admin dashboard.
func (s *Service) DashboardMetrics(ctx context.Context) (*ledger.PortfolioSummary, error) {
	src, err := s.loadReference(ctx)
	if err != nil {
		return nil, err
	}
	if src.Invoices, err = s.invoiceRepo.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	if src.Payments, err = s.paymentRepo.GetAll(ctx); err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	summary := ledger.SummarizePortfolio(src, s.now())
	return &summary, nil
}

func (s *Service) loadReference(ctx context.Context) (ledger.Source, error) {
	var src ledger.Source
	var err error
	if src.Units, err = s.propertyRepo.Units(ctx); err != nil {
		return src, fmt.Errorf("load units: %w", err)
	}
	if src.Projects, err = s.propertyRepo.Projects(ctx); err != nil {
		return src, fmt.Errorf("load projects: %w", err)
	}
	return src, nil
}
