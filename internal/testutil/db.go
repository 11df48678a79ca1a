// Package testutil provides an in-memory database and seed data for tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"property-sales-backend/internal/config"
	"property-sales-backend/internal/models"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fixture is a project with one unit and one buyer.
type Fixture struct {
	Project models.Project
	Unit    models.Unit
	Buyer   models.Buyer
}

func Seed(t *testing.T, db *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{
		Project: models.Project{ID: uuid.New(), Name: "Sunrise Towers", Location: "Pune"},
	}
	f.Unit = models.Unit{ID: uuid.New(), ProjectID: f.Project.ID, UnitNumber: "A-101", Price: decimal.NewFromInt(1620000)}
	unitID := f.Unit.ID
	f.Buyer = models.Buyer{ID: uuid.New(), Name: "Asha Rao", Email: "asha@example.com", UnitID: &unitID}

	require.NoError(t, db.Create(&f.Project).Error)
	require.NoError(t, db.Create(&f.Unit).Error)
	require.NoError(t, db.Create(&f.Buyer).Error)
	return f
}

func (f Fixture) Invoice(t *testing.T, db *gorm.DB, number string, total int64, issued, due time.Time, status models.InvoiceStatus) models.Invoice {
	t.Helper()
	inv := models.Invoice{
		ID:            uuid.New(),
		BuyerID:       f.Buyer.ID,
		UnitID:        f.Unit.ID,
		ProjectID:     f.Project.ID,
		InvoiceNumber: number,
		IssuedDate:    issued,
		DueDate:       due,
		TotalAmount:   decimal.NewFromInt(total),
		Status:        status,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(&inv).Error)
	return inv
}

func (f Fixture) Payment(t *testing.T, db *gorm.DB, inv *models.Invoice, amount int64, date time.Time, status models.PaymentStatus) models.Payment {
	t.Helper()
	p := models.Payment{
		ID:            uuid.New(),
		BuyerID:       f.Buyer.ID,
		Amount:        decimal.NewFromInt(amount),
		PaymentDate:   date,
		PaymentMethod: "bank_transfer",
		Status:        status,
		TransactionID: "TXN-" + uuid.NewString()[:8],
	}
	if inv != nil {
		id := inv.ID
		p.InvoiceID = &id
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
