package config

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"property-sales-backend/internal/models"
)

// DSN builds the connection string for the configured driver. An explicit
// DATABASE_DSN always wins.
func (c Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}
	if c.DBDriver == DriverSQLite {
		return "file:" + c.DBName + ".db?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// InitDB opens the database and configures the connection pool.
func InitDB(c Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch c.DBDriver {
	case DriverPostgres:
		dialector = postgres.Open(c.DSN())
	case DriverSQLite:
		dialector = sqlite.Open(c.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", c.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(c.DBMaxIdleConn)
	sqlDB.SetMaxOpenConns(c.DBMaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(c.DBConnMaxLifetime) * time.Second)

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.Unit{},
		&models.Buyer{},
		&models.Invoice{},
		&models.Payment{},
		&models.ImportBatch{},
		&models.AllocationAuditLog{},
	)
}
