package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/production"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GeneratorConfig holds the invoicing defaults
type GeneratorConfig struct {
	Prefix          string
	PaymentTermDays int
	DefaultVATRate  decimal.Decimal
}

// DefaultGeneratorConfig returns the standard invoicing defaults
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Prefix:          billing.DefaultInvoicePrefix,
		PaymentTermDays: billing.DefaultPaymentTermDays,
		DefaultVATRate:  billing.DefaultVATRate,
	}
}

// CreateResult is the invoice linked to the job and whether this call created it
type CreateResult struct {
	Invoice *billing.Invoice
	Created bool
}

// InvoiceAutoGenerator issues at most one automatic invoice per job
type InvoiceAutoGenerator struct {
	scope     TransactionScope
	numbering InvoiceNumberingService
	publisher shared.EventPublisher
	cfg       GeneratorConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewInvoiceAutoGenerator creates the generator. numbering may be nil, in which case
// every number comes from the scan fallback.
func NewInvoiceAutoGenerator(scope TransactionScope, numbering InvoiceNumberingService, cfg GeneratorConfig, logger *zap.Logger) *InvoiceAutoGenerator {
	if cfg.Prefix == "" {
		cfg.Prefix = billing.DefaultInvoicePrefix
	}
	if cfg.PaymentTermDays <= 0 {
		cfg.PaymentTermDays = billing.DefaultPaymentTermDays
	}
	if !cfg.DefaultVATRate.IsPositive() {
		cfg.DefaultVATRate = billing.DefaultVATRate
	}
	return &InvoiceAutoGenerator{
		scope:     scope,
		numbering: numbering,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// WithEventPublisher publishes InvoiceAutoCreated after commit
func (g *InvoiceAutoGenerator) WithEventPublisher(publisher shared.EventPublisher) *InvoiceAutoGenerator {
	g.publisher = publisher
	return g
}

// WithClock overrides the time source
func (g *InvoiceAutoGenerator) WithClock(now func() time.Time) *InvoiceAutoGenerator {
	g.now = now
	return g
}

// Create issues the draft invoice for a job. When the job is already invoiced it
// returns the existing invoice (if any) with Created=false.
func (g *InvoiceAutoGenerator) Create(ctx context.Context, job *production.Job, client *partner.Client, quote *trade.Quote, actorID *uuid.UUID) (*CreateResult, error) {
	if job == nil || client == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Job and client are required")
	}

	result, err := g.attempt(ctx, job, client, quote, actorID, false)
	if errors.Is(err, shared.ErrAlreadyExists) {
		result, err = g.resolveConflict(ctx, job, client, quote, actorID)
	}
	if err != nil {
		g.logger.Warn("auto invoice failed",
			zap.String("tenant_id", job.TenantID.String()),
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	if result.Created {
		g.logger.Info("invoice auto-created",
			zap.String("job_id", job.ID.String()),
			zap.String("invoice_id", result.Invoice.ID.String()),
			zap.String("number", result.Invoice.Number),
			zap.String("total_ttc", result.Invoice.TotalTTC.String()),
		)
		g.publishEvents(ctx, result.Invoice)
	}
	return result, nil
}

// attempt runs one claim-and-insert transaction. rescan skips the counter service and
// numbers from the latest stored invoice.
func (g *InvoiceAutoGenerator) attempt(ctx context.Context, job *production.Job, client *partner.Client, quote *trade.Quote, actorID *uuid.UUID, rescan bool) (*CreateResult, error) {
	var result *CreateResult
	err := g.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		now := g.now()

		claimed, err := repos.JobRepo().ClaimInvoiceMarker(ctx, job.TenantID, job.ID, now)
		if err != nil {
			return fmt.Errorf("claim invoice marker: %w", err)
		}

		existing, err := repos.InvoiceRepo().FindByJob(ctx, job.TenantID, job.ID)
		switch {
		case err == nil:
			result = &CreateResult{Invoice: existing}
			return nil
		case !errors.Is(err, shared.ErrNotFound):
			return fmt.Errorf("find invoice for job: %w", err)
		}

		if !claimed {
			result = &CreateResult{}
			return nil
		}

		var number string
		if rescan {
			number, err = NextNumberFromLatest(ctx, repos.InvoiceRepo(), job.TenantID, g.cfg.Prefix, now.Year())
		} else {
			number, err = g.nextNumber(ctx, repos.InvoiceRepo(), job.TenantID, now)
		}
		if err != nil {
			return err
		}

		var quoteID *uuid.UUID
		if quote != nil {
			id := quote.ID
			quoteID = &id
		}
		invoice, err := billing.NewAutoInvoice(billing.AutoInvoiceParams{
			TenantID:        job.TenantID,
			ClientID:        client.ID,
			JobID:           job.ID,
			QuoteID:         quoteID,
			Number:          number,
			Items:           g.buildItems(job, quote),
			IssuedAt:        now,
			PaymentTermDays: g.cfg.PaymentTermDays,
			CreatedBy:       actorID,
		})
		if err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Create(ctx, invoice); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		result = &CreateResult{Invoice: invoice, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveConflict handles a duplicate key on insert. Either another caller invoiced the
// job first, or the number was already taken because the counter lags behind the stored
// invoices. A taken number is retried once from the latest stored invoice and the
// counter is moved past it.
func (g *InvoiceAutoGenerator) resolveConflict(ctx context.Context, job *production.Job, client *partner.Client, quote *trade.Quote, actorID *uuid.UUID) (*CreateResult, error) {
	inv, err := g.findExisting(ctx, job)
	if err == nil {
		return &CreateResult{Invoice: inv}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("load existing invoice: %w", err)
	}

	g.logger.Warn("invoice number collision, renumbering from the latest stored invoice",
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("job_id", job.ID.String()),
	)
	result, err := g.attempt(ctx, job, client, quote, actorID, true)
	if errors.Is(err, shared.ErrAlreadyExists) {
		if inv, findErr := g.findExisting(ctx, job); findErr == nil {
			return &CreateResult{Invoice: inv}, nil
		}
		return nil, fmt.Errorf("create invoice: %w", ErrInvoiceNumberCollision)
	}
	if err != nil {
		return nil, err
	}
	if result.Created {
		g.resyncCounter(ctx, result.Invoice)
	}
	return result, nil
}

// CreateForJob adapts Create to the coordinator's port
func (g *InvoiceAutoGenerator) CreateForJob(ctx context.Context, req appproduction.InvoiceRequest) (*appproduction.InvoiceOutcome, error) {
	res, err := g.Create(ctx, req.Job, req.Client, req.Quote, req.ActorID)
	if err != nil {
		return nil, err
	}
	return &appproduction.InvoiceOutcome{Invoice: res.Invoice, Created: res.Created}, nil
}

func (g *InvoiceAutoGenerator) findExisting(ctx context.Context, job *production.Job) (*billing.Invoice, error) {
	var inv *billing.Invoice
	err := g.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.InvoiceRepo().FindByJob(ctx, job.TenantID, job.ID)
		if err != nil {
			return err
		}
		inv = found
		return nil
	})
	return inv, err
}

func (g *InvoiceAutoGenerator) resyncCounter(ctx context.Context, inv *billing.Invoice) {
	if g.numbering == nil {
		return
	}
	seq, ok := billing.ParseInvoiceSequence(inv.Number)
	if !ok {
		return
	}
	if err := g.numbering.Resync(ctx, inv.TenantID, inv.IssueDate, seq); err != nil {
		g.logger.Warn("failed to resync invoice counter",
			zap.String("tenant_id", inv.TenantID.String()),
			zap.String("number", inv.Number),
			zap.Error(err),
		)
	}
}

// nextNumber asks the counter service and falls back to scanning the latest number
func (g *InvoiceAutoGenerator) nextNumber(ctx context.Context, repo billing.InvoiceRepository, tenantID uuid.UUID, now time.Time) (string, error) {
	if g.numbering != nil {
		number, err := g.numbering.NextNumber(ctx, repo, tenantID, now)
		if err == nil {
			return number, nil
		}
		g.logger.Warn("invoice counter unavailable, scanning latest number",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	}
	return NextNumberFromLatest(ctx, repo, tenantID, g.cfg.Prefix, now.Year())
}

// buildItems copies the quote lines, or prices the job geometry at the job's m² rate
func (g *InvoiceAutoGenerator) buildItems(job *production.Job, quote *trade.Quote) []billing.InvoiceItem {
	if quote.HasItems() {
		items := make([]billing.InvoiceItem, 0, len(quote.Items))
		for _, qi := range quote.Items {
			qty := decimal.NewFromInt(int64(max(qi.Quantity, 1)))
			vat := qi.VATRate
			if vat.IsNegative() || vat.IsZero() {
				vat = g.cfg.DefaultVATRate
			}
			unit := qi.UnitPriceHT
			if unit.IsZero() && !qi.TotalHT.IsZero() {
				unit = qi.TotalHT.Div(qty).Round(2)
			}
			items = append(items, billing.InvoiceItem{
				Designation: qi.Designation,
				Quantity:    qty,
				UnitPriceHT: unit,
				VATRate:     vat,
				TotalHT:     qi.TotalHT,
			})
		}
		return items
	}

	items := make([]billing.InvoiceItem, 0, len(job.GeometryItems))
	for _, gi := range job.GeometryItems {
		qty := decimal.NewFromInt(int64(max(gi.Quantity, 1)))
		total := gi.Surface().Mul(job.PricePerM2).Round(2)
		designation := gi.Designation
		if designation == "" {
			designation = fmt.Sprintf("Thermolaquage %s", job.Number)
		}
		items = append(items, billing.InvoiceItem{
			Designation: designation,
			Quantity:    qty,
			UnitPriceHT: total.Div(qty).Round(2),
			VATRate:     g.cfg.DefaultVATRate,
			TotalHT:     total,
		})
	}
	if len(items) == 0 {
		items = append(items, billing.InvoiceItem{
			Designation: fmt.Sprintf("Thermolaquage %s", job.Number),
			Quantity:    decimal.NewFromInt(1),
			UnitPriceHT: decimal.Zero,
			VATRate:     g.cfg.DefaultVATRate,
			TotalHT:     decimal.Zero,
		})
	}
	return items
}

func (g *InvoiceAutoGenerator) publishEvents(ctx context.Context, inv *billing.Invoice) {
	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	if g.publisher == nil || len(events) == 0 {
		return
	}
	if err := g.publisher.Publish(ctx, events...); err != nil {
		g.logger.Warn("failed to publish invoice events",
			zap.String("invoice_id", inv.ID.String()),
			zap.Error(err),
		)
	}
}

var _ appproduction.InvoiceCreator = (*InvoiceAutoGenerator)(nil)
