// Package testutil provides database and fixture helpers shared by the package tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory SQLite database with every table migrated.
// The pool is limited to one connection so all queries see the same database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=private", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, persistence.AutoMigrate(db))
	return db
}

// MockDB wraps a GORM database backed by sqlmock with the postgres dialect
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a sqlmock-backed database that is closed on cleanup
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &MockDB{DB: db, Mock: mock, SqlDB: sqlDB}
}

// ExpectationsWereMet fails the test on unmet expectations
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet())
}

// Fixture is a tenant with a client, a material and a quote ready for jobs
type Fixture struct {
	TenantID uuid.UUID
	Client   *partner.Client
	Material *inventory.Material
	Quote    *trade.Quote
}

// FixtureOptions configures the seeded records
type FixtureOptions struct {
	Trigger   partner.InvoiceTrigger
	StockKg   decimal.Decimal
	MinKg     decimal.Decimal
	Rate      *decimal.Decimal
	QuoteLine []trade.QuoteItem
}

// Seed inserts a client, a material and (when lines are given) a quote
func Seed(t *testing.T, db *gorm.DB, opts FixtureOptions) *Fixture {
	t.Helper()
	ctx := context.Background()
	tenantID := uuid.New()

	client, err := partner.NewClient(tenantID, "Ferronnerie Martin")
	require.NoError(t, err)
	client.Email = "contact@ferronnerie-martin.fr"
	trigger := opts.Trigger
	if trigger == "" {
		trigger = partner.InvoiceTriggerManual
	}
	require.NoError(t, client.SetInvoiceTrigger(trigger))
	require.NoError(t, persistence.NewGormClientRepository(db).Save(ctx, client))

	material, err := inventory.NewMaterial(tenantID, "RAL9005", "Noir foncé satiné", opts.StockKg)
	require.NoError(t, err)
	material.MinStockKg = opts.MinKg
	material.SetConsumptionRate(opts.Rate)
	require.NoError(t, persistence.NewGormMaterialRepository(db).Save(ctx, material))

	f := &Fixture{TenantID: tenantID, Client: client, Material: material}
	if len(opts.QuoteLine) > 0 {
		quote, err := trade.NewQuote(tenantID, client.ID, "DEV-2026-0001", opts.QuoteLine)
		require.NoError(t, err)
		require.NoError(t, persistence.NewGormQuoteRepository(db).Save(ctx, quote))
		f.Quote = quote
	}
	return f
}

// NewJob inserts a job for the fixture client in the given status
func (f *Fixture) NewJob(t *testing.T, db *gorm.DB, number string, status production.JobStatus, geometry []production.GeometryItem) *production.Job {
	t.Helper()

	job, err := production.NewJob(f.TenantID, f.Client.ID, number)
	require.NoError(t, err)
	job.SetMaterial(f.Material.ID)
	if f.Quote != nil {
		job.SetQuote(f.Quote.ID)
	}
	job.GeometryItems = geometry
	job.Status = status
	job.WorkflowStep = status.WorkflowStep()
	require.NoError(t, persistence.NewGormJobRepository(db).Save(context.Background(), job))
	return job
}
