package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("CORS_ORIGINS", " http://a.test, ,http://b.test ")
	t.Setenv("IMPORT_WORKERS", "not-a-number")
	t.Setenv("CURRENCY", "usd")

	cfg := Load()

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 1, cfg.ImportWorkers)
	assert.Equal(t, "USD", cfg.Currency)
	assert.False(t, cfg.IsProduction())
}

func TestDSN(t *testing.T) {
	cfg := Config{DBDriver: DriverPostgres, DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())

	cfg.DatabaseDSN = "postgres://explicit"
	assert.Equal(t, "postgres://explicit", cfg.DSN())
}

func TestInitDB_SQLiteMigrates(t *testing.T) {
	cfg := Config{DBDriver: DriverSQLite, DatabaseDSN: "file::memory:", DBMaxIdleConn: 1, DBMaxOpenConn: 1, DBConnMaxLifetime: 60}

	db, err := InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable("invoices"))
	assert.True(t, db.Migrator().HasTable("payments"))
	assert.True(t, db.Migrator().HasTable("allocation_audit_logs"))
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(Config{DBDriver: "oracle"})
	assert.Error(t, err)
}
