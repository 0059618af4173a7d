package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/infrastructure/persistence"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) (*testutil.Fixture, *persistence.GormJobRepository, *production.Job) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{StockKg: decimal.NewFromInt(10)})
	job := f.NewJob(t, db, "OF-2026-001", production.JobStatusInProgress, []production.GeometryItem{
		{Designation: "Portail", SurfaceM2: decimal.NewFromFloat(2.5), Quantity: 1},
	})
	return f, persistence.NewGormJobRepository(db), job
}

func TestGormJobRepository_RoundTrip(t *testing.T) {
	f, repo, job := seed(t)

	loaded, err := repo.FindByIDForTenant(context.Background(), f.TenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Number, loaded.Number)
	assert.Equal(t, production.JobStatusInProgress, loaded.Status)
	assert.Equal(t, 1, loaded.WorkflowStep)
	require.Len(t, loaded.GeometryItems, 1)
	assert.True(t, loaded.GeometryItems[0].SurfaceM2.Equal(decimal.NewFromFloat(2.5)))
	require.NotNil(t, loaded.MaterialID)
	assert.Equal(t, f.Material.ID, *loaded.MaterialID)

	t.Run("other tenant sees nothing", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(context.Background(), uuid.New(), job.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormJobRepository_UpdateStatus(t *testing.T) {
	f, repo, job := seed(t)
	ctx := context.Background()

	previous, err := job.ApplyStatus(production.JobStatusCuring, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, job, previous))

	loaded, err := repo.FindByIDForTenant(ctx, f.TenantID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, production.JobStatusCuring, loaded.Status)
	assert.Equal(t, 2, loaded.WorkflowStep)

	t.Run("stale expected status is a conflict", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, job, production.JobStatusInProgress)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormJobRepository_ClaimMarkers(t *testing.T) {
	f, repo, job := seed(t)
	ctx := context.Background()
	now := time.Now()

	claimed, err := repo.ClaimConsumptionMarker(ctx, f.TenantID, job.ID, now)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimConsumptionMarker(ctx, f.TenantID, job.ID, now)
	require.NoError(t, err)
	assert.False(t, claimed, "second claim must lose")

	claimed, err = repo.ClaimInvoiceMarker(ctx, f.TenantID, job.ID, now)
	require.NoError(t, err)
	assert.True(t, claimed, "markers are independent")

	loaded, err := repo.FindByIDForTenant(ctx, f.TenantID, job.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsConsumptionBooked())
	assert.True(t, loaded.IsInvoiced())
}

func TestGormJobRepository_ClaimMarkerSQL(t *testing.T) {
	m := testutil.NewMockDB(t)
	repo := persistence.NewGormJobRepository(m.DB)
	tenantID, jobID := uuid.New(), uuid.New()

	m.Mock.ExpectExec(`UPDATE "jobs" SET "consumption_marker"=\$1,"updated_at"=\$2 WHERE tenant_id = \$3 AND id = \$4 AND consumption_marker IS NULL`).
		WillReturnResult(sqlmockResult(0))

	claimed, err := repo.ClaimConsumptionMarker(context.Background(), tenantID, jobID, time.Now())
	require.NoError(t, err)
	assert.False(t, claimed)
	m.ExpectationsWereMet(t)
}

func TestGormJobRepository_TranslatesDriverErrors(t *testing.T) {
	duplicate := errors.New(`pq: duplicate key value violates unique constraint "jobs_pkey"`)
	ctx := context.Background()

	t.Run("update status", func(t *testing.T) {
		m := testutil.NewMockDB(t)
		repo := persistence.NewGormJobRepository(m.DB)
		job := &production.Job{Status: production.JobStatusCuring}
		job.ID = uuid.New()
		job.TenantID = uuid.New()

		m.Mock.ExpectExec(`UPDATE "jobs" SET .* WHERE tenant_id = \$\d+ AND id = \$\d+ AND status = \$\d+`).
			WillReturnError(duplicate)

		err := repo.UpdateStatus(ctx, job, production.JobStatusInProgress)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		m.ExpectationsWereMet(t)
	})

	t.Run("claim marker", func(t *testing.T) {
		m := testutil.NewMockDB(t)
		repo := persistence.NewGormJobRepository(m.DB)

		m.Mock.ExpectExec(`UPDATE "jobs" SET "invoice_marker"`).WillReturnError(duplicate)

		claimed, err := repo.ClaimInvoiceMarker(ctx, uuid.New(), uuid.New(), time.Now())
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.False(t, claimed)
		m.ExpectationsWereMet(t)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		m := testutil.NewMockDB(t)
		repo := persistence.NewGormJobRepository(m.DB)
		down := errors.New("connection reset by peer")

		m.Mock.ExpectExec(`UPDATE "jobs" SET "consumption_marker"`).WillReturnError(down)

		_, err := repo.ClaimConsumptionMarker(ctx, uuid.New(), uuid.New(), time.Now())
		assert.ErrorIs(t, err, down)
		m.ExpectationsWereMet(t)
	})
}

func TestGormAuditLogRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{})
	job := f.NewJob(t, db, "OF-2026-002", production.JobStatusQuote, nil)
	repo := persistence.NewGormAuditLogRepository(db)
	ctx := context.Background()

	_, err := job.ApplyStatus(production.JobStatusDelivered, time.Now())
	require.NoError(t, err)
	entry := production.NewAuditLogEntry(job, production.JobStatusQuote, nil, time.Now())
	entry.Fired(production.AutomationAutoInvoice)
	entry.Warnings = []string{"notification: queue down"}
	require.NoError(t, repo.Append(ctx, entry))

	entries, err := repo.FindByJob(ctx, f.TenantID, job.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, production.TransitionNonLinear, entries[0].Kind)
	assert.Equal(t, []string{production.AutomationAutoInvoice}, entries[0].FiredAutomations)
	assert.Equal(t, []string{"notification: queue down"}, entries[0].Warnings)
	assert.Equal(t, 0, entries[0].OldStep)
	assert.Equal(t, 5, entries[0].NewStep)
}

func TestGormMaterialRepository_SaveWithLock(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{StockKg: decimal.NewFromInt(10)})
	repo := persistence.NewGormMaterialRepository(db)
	ctx := context.Background()

	material, err := repo.FindByIDForTenant(ctx, f.TenantID, f.Material.ID)
	require.NoError(t, err)
	stale, err := repo.FindByIDForTenant(ctx, f.TenantID, f.Material.ID)
	require.NoError(t, err)

	_, err = material.Consume(decimal.NewFromFloat(0.9), uuid.New(), nil, "Cuisson OF-1")
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, material))

	_, err = stale.Consume(decimal.NewFromInt(1), uuid.New(), nil, "Cuisson OF-2")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)

	reloaded, err := repo.FindByIDForTenant(ctx, f.TenantID, f.Material.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.StockRealKg.Equal(decimal.NewFromFloat(9.1)), reloaded.StockRealKg.String())
}

func TestGormStockMovementRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{StockKg: decimal.NewFromInt(1)})
	repo := persistence.NewGormStockMovementRepository(db)
	ctx := context.Background()
	jobID := uuid.New()

	mv, err := inventory.NewConsumptionMovement(f.TenantID, f.Material.ID, jobID,
		decimal.NewFromInt(2), decimal.NewFromInt(1), decimal.Zero, nil, "Cuisson OF-3")
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, mv))

	byJob, err := repo.FindByJob(ctx, f.TenantID, jobID)
	require.NoError(t, err)
	require.Len(t, byJob, 1)
	assert.True(t, byJob[0].Clamped())
	assert.Equal(t, inventory.MovementTypeConsumption, byJob[0].MovementType)

	byMaterial, err := repo.FindByMaterial(ctx, f.TenantID, f.Material.ID)
	require.NoError(t, err)
	assert.Len(t, byMaterial, 1)
}

func TestGormQuoteRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{QuoteLine: []trade.QuoteItem{
		{Designation: "Garde-corps", LengthMM: decimal.NewFromInt(2000), WidthMM: decimal.NewFromInt(1000), Quantity: 2,
			UnitPriceHT: decimal.NewFromInt(50), VATRate: decimal.NewFromInt(20), TotalHT: decimal.NewFromInt(100)},
		{Designation: "Main courante", SurfaceM2: decimal.NewFromFloat(0.5), Quantity: 1,
			UnitPriceHT: decimal.NewFromInt(30), VATRate: decimal.NewFromInt(20), TotalHT: decimal.NewFromInt(30)},
	}})

	quote, err := persistence.NewGormQuoteRepository(db).FindByIDForTenant(context.Background(), f.TenantID, f.Quote.ID)
	require.NoError(t, err)
	require.Len(t, quote.Items, 2)
	assert.Equal(t, "Garde-corps", quote.Items[0].Designation)
	assert.Equal(t, "Main courante", quote.Items[1].Designation)
	assert.True(t, quote.TotalHT.Equal(decimal.NewFromInt(130)))
}

func newInvoice(t *testing.T, tenantID, clientID, jobID uuid.UUID, number string) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewAutoInvoice(billing.AutoInvoiceParams{
		TenantID: tenantID,
		ClientID: clientID,
		JobID:    jobID,
		Number:   number,
		Items: []billing.InvoiceItem{{
			Designation: "Thermolaquage",
			Quantity:    decimal.NewFromInt(1),
			UnitPriceHT: decimal.NewFromInt(100),
			VATRate:     decimal.NewFromInt(20),
			TotalHT:     decimal.NewFromInt(100),
		}},
		IssuedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return inv
}

func TestGormInvoiceRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := testutil.Seed(t, db, testutil.FixtureOptions{})
	repo := persistence.NewGormInvoiceRepository(db)
	ctx := context.Background()
	jobA, jobB, jobC := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, newInvoice(t, f.TenantID, f.Client.ID, jobA, "FA-2026-00009")))
	require.NoError(t, repo.Create(ctx, newInvoice(t, f.TenantID, f.Client.ID, jobB, "FA-2026-00010")))

	t.Run("latest number sorts numerically", func(t *testing.T) {
		latest, err := repo.FindLatestNumber(ctx, f.TenantID, "FA-2026-")
		require.NoError(t, err)
		assert.Equal(t, "FA-2026-00010", latest)

		none, err := repo.FindLatestNumber(ctx, f.TenantID, "FA-2027-")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("second invoice for a job is rejected", func(t *testing.T) {
		err := repo.Create(ctx, newInvoice(t, f.TenantID, f.Client.ID, jobA, "FA-2026-00011"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		count, err := repo.CountByJob(ctx, f.TenantID, jobA)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("number is unique per tenant", func(t *testing.T) {
		err := repo.Create(ctx, newInvoice(t, f.TenantID, f.Client.ID, jobC, "FA-2026-00010"))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		_, err = repo.FindByJob(ctx, f.TenantID, jobC)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		otherTenant := uuid.New()
		require.NoError(t, repo.Create(ctx, newInvoice(t, otherTenant, f.Client.ID, uuid.New(), "FA-2026-00010")))
	})

	t.Run("find by job loads items and totals", func(t *testing.T) {
		inv, err := repo.FindByJob(ctx, f.TenantID, jobB)
		require.NoError(t, err)
		assert.Equal(t, "FA-2026-00010", inv.Number)
		require.Len(t, inv.Items, 1)
		assert.True(t, inv.TotalTTC.Equal(decimal.NewFromInt(120)))
		assert.True(t, inv.AutoCreated)
		assert.Equal(t, billing.InvoiceStatusDraft, inv.Status)

		_, err = repo.FindByJob(ctx, f.TenantID, jobC)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
