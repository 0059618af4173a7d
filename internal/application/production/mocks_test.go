package production

import (
	"context"
	"time"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockJobRepo struct{ mock.Mock }

func (m *mockJobRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Job, error) {
	args := m.Called(ctx, tenantID, id)
	if j := args.Get(0); j != nil {
		return j.(*production.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockJobRepo) Save(ctx context.Context, job *production.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *mockJobRepo) UpdateStatus(ctx context.Context, job *production.Job, expected production.JobStatus) error {
	return m.Called(ctx, job, expected).Error(0)
}

func (m *mockJobRepo) ClaimConsumptionMarker(ctx context.Context, tenantID, jobID uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, jobID, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockJobRepo) ClaimInvoiceMarker(ctx context.Context, tenantID, jobID uuid.UUID, at time.Time) (bool, error) {
	args := m.Called(ctx, tenantID, jobID, at)
	return args.Bool(0), args.Error(1)
}

type mockClientRepo struct{ mock.Mock }

func (m *mockClientRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if c := args.Get(0); c != nil {
		return c.(*partner.Client), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClientRepo) Save(ctx context.Context, client *partner.Client) error {
	return m.Called(ctx, client).Error(0)
}

type mockMaterialRepo struct{ mock.Mock }

func (m *mockMaterialRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Material, error) {
	args := m.Called(ctx, tenantID, id)
	if v := args.Get(0); v != nil {
		return v.(*inventory.Material), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMaterialRepo) Save(ctx context.Context, material *inventory.Material) error {
	return m.Called(ctx, material).Error(0)
}

func (m *mockMaterialRepo) SaveWithLock(ctx context.Context, material *inventory.Material) error {
	return m.Called(ctx, material).Error(0)
}

type mockQuoteRepo struct{ mock.Mock }

func (m *mockQuoteRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Quote, error) {
	args := m.Called(ctx, tenantID, id)
	if q := args.Get(0); q != nil {
		return q.(*trade.Quote), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQuoteRepo) Save(ctx context.Context, quote *trade.Quote) error {
	return m.Called(ctx, quote).Error(0)
}

type mockBooker struct{ mock.Mock }

func (m *mockBooker) BookCuringConsumption(ctx context.Context, req ConsumptionBooking) (*ConsumptionOutcome, error) {
	args := m.Called(ctx, req)
	if o := args.Get(0); o != nil {
		return o.(*ConsumptionOutcome), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockInvoiceCreator struct{ mock.Mock }

func (m *mockInvoiceCreator) CreateForJob(ctx context.Context, req InvoiceRequest) (*InvoiceOutcome, error) {
	args := m.Called(ctx, req)
	if o := args.Get(0); o != nil {
		return o.(*InvoiceOutcome), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDispatcher struct{ mock.Mock }

func (m *mockDispatcher) Notify(ctx context.Context, tenantID uuid.UUID, payload NotificationPayload, targetUserIDs ...uuid.UUID) error {
	return m.Called(ctx, tenantID, payload).Error(0)
}

type mockAuditSink struct{ mock.Mock }

func (m *mockAuditSink) Append(ctx context.Context, entry *production.AuditLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) RecordTransition(ctx context.Context, tenantID uuid.UUID, from, to production.JobStatus, kind production.TransitionKind) {
	m.Called(ctx, tenantID, from, to, kind)
}

func (m *mockMetrics) RecordAutomation(ctx context.Context, tenantID uuid.UUID, automation, outcome string) {
	m.Called(ctx, tenantID, automation, outcome)
}

func (m *mockMetrics) RecordConsumption(ctx context.Context, tenantID uuid.UUID, material *inventory.Material, kg decimal.Decimal) {
	m.Called(ctx, tenantID, material, kg)
}
