//go:build integration

package persistence_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	appbilling "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/billing"
	appinventory "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/inventory"
	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/migration"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/persistence"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/lib/pq"
)

// newPostgresDB starts a postgres container and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("thermogestion_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db
}

func TestPostgres_ConcurrentMarkerClaims(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{StockKg: decimal.NewFromInt(10)})
	job := f.NewJob(t, db, "OF-2026-0201", production.JobStatusReady, nil)
	repo := persistence.NewGormJobRepository(db)

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.ClaimInvoiceMarker(ctx, f.TenantID, job.ID, time.Now())
			assert.NoError(t, err)
			if claimed {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestPostgres_ConcurrentCuringBooksOnce(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{StockKg: decimal.NewFromInt(10)})
	job := f.NewJob(t, db, "OF-2026-0202", production.JobStatusInProgress, nil)
	ledger := appinventory.NewStockLedger(persistence.NewGormStockScope(db), zap.NewNop())

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ledger.BookCuringConsumption(ctx, appproduction.ConsumptionBooking{
				TenantID:   f.TenantID,
				MaterialID: f.Material.ID,
				JobID:      job.ID,
				Quantity:   decimal.RequireFromString("0.5"),
			})
		}()
	}
	wg.Wait()

	movements, err := persistence.NewGormStockMovementRepository(db).FindByJob(ctx, f.TenantID, job.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 1)

	material, err := persistence.NewGormMaterialRepository(db).FindByIDForTenant(ctx, f.TenantID, f.Material.ID)
	require.NoError(t, err)
	assert.True(t, material.StockRealKg.Equal(decimal.RequireFromString("9.5")))
}

func TestPostgres_ConcurrentAutoInvoiceCreatesOne(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{
		Trigger: partner.InvoiceTriggerOnReady,
		StockKg: decimal.NewFromInt(10),
		QuoteLine: []trade.QuoteItem{{
			Designation: "Balustrade",
			Quantity:    1,
			UnitPriceHT: decimal.NewFromInt(240),
			VATRate:     decimal.NewFromInt(20),
		}},
	})
	job := f.NewJob(t, db, "OF-2026-0203", production.JobStatusReady, nil)
	gen := appbilling.NewInvoiceAutoGenerator(
		persistence.NewGormBillingScope(db), nil, appbilling.DefaultGeneratorConfig(), zap.NewNop(),
	)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := gen.Create(ctx, job, f.Client, f.Quote, nil)
			if err != nil || !res.Created {
				return
			}
			mu.Lock()
			created++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	count, err := persistence.NewGormInvoiceRepository(db).CountByJob(ctx, f.TenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPostgres_StatusCheckConstraint(t *testing.T) {
	db := newPostgresDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{StockKg: decimal.NewFromInt(1)})
	job := f.NewJob(t, db, "OF-2026-0204", production.JobStatusQuote, nil)

	err := db.Exec("UPDATE jobs SET status = 'lost' WHERE id = ?", job.ID).Error
	assert.Error(t, err)
}
