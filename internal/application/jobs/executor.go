// Package jobs maps scheduled background jobs onto the application
// services that carry them out.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	propertyapp "github.com/square15/backend/internal/application/property"
	"github.com/square15/backend/internal/domain/identity"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/scheduler"
	"github.com/square15/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// BillingRunner raises the monthly invoices for one tenant
type BillingRunner interface {
	RunMonthlyBilling(ctx context.Context, tenantID uuid.UUID, periodStart time.Time) (*propertyapp.BillingRunResult, error)
}

// OverdueSweeper marks sent invoices past their due date as overdue
type OverdueSweeper interface {
	RunOverdueSweep(ctx context.Context, asOf time.Time) (int, error)
}

// QuotationExpirer expires sent quotations past their validity date
type QuotationExpirer interface {
	RunExpirySweep(ctx context.Context, asOf time.Time) (int, error)
}

// Executor dispatches scheduler jobs to the application services
type Executor struct {
	billingRuns BillingRunner
	invoices    OverdueSweeper
	quotations  QuotationExpirer
	tenantRepo  identity.TenantRepository
	logger      *zap.Logger
}

// NewExecutor creates a new job executor
func NewExecutor(
	billingRuns BillingRunner,
	invoices OverdueSweeper,
	quotations QuotationExpirer,
	tenantRepo identity.TenantRepository,
	logger *zap.Logger,
) *Executor {
	return &Executor{
		billingRuns: billingRuns,
		invoices:    invoices,
		quotations:  quotations,
		tenantRepo:  tenantRepo,
		logger:      logger,
	}
}

// Execute runs a single scheduled job. Jobs run outside any HTTP request,
// so the span opened here is the root of the job's trace.
func (e *Executor) Execute(ctx context.Context, job *scheduler.Job) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "jobs", string(job.Type),
		telemetry.WithAttribute("job_id", job.ID.String()))
	defer span.End()

	if err := e.dispatch(ctx, job); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetOK(span)
	return nil
}

func (e *Executor) dispatch(ctx context.Context, job *scheduler.Job) error {
	log := e.logger.With(zap.String("trace_id", telemetry.GetTraceID(ctx)))

	switch job.Type {
	case scheduler.JobTypeBillingRun:
		return e.executeBillingRun(ctx, job)

	case scheduler.JobTypeOverdueSweep:
		count, err := e.invoices.RunOverdueSweep(ctx, job.PeriodEnd)
		if err != nil {
			return fmt.Errorf("overdue sweep: %w", err)
		}
		log.Info("Overdue sweep finished", zap.Int("marked_overdue", count))
		return nil

	case scheduler.JobTypeQuotationExpiry:
		count, err := e.quotations.RunExpirySweep(ctx, job.PeriodEnd)
		if err != nil {
			return fmt.Errorf("quotation expiry sweep: %w", err)
		}
		log.Info("Quotation expiry sweep finished", zap.Int("expired", count))
		return nil
	}

	return fmt.Errorf("unknown job type %q", job.Type)
}

// executeBillingRun runs the monthly billing for one tenant, or for every
// tenant when the job carries no tenant ID. A failing tenant does not stop
// the remaining tenants; the job fails afterwards so the retry picks up the
// stragglers (already invoiced registrations are skipped on rerun).
func (e *Executor) executeBillingRun(ctx context.Context, job *scheduler.Job) error {
	if job.TenantID != nil {
		return e.runTenantBilling(ctx, *job.TenantID, job)
	}

	tenants, err := e.tenantRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return fmt.Errorf("list tenants for billing run: %w", err)
	}

	failed := 0
	for i := range tenants {
		if err := e.runTenantBilling(ctx, tenants[i].ID, job); err != nil {
			e.logger.Error("Tenant billing run failed",
				zap.String("tenant_code", tenants[i].Code),
				zap.Error(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("billing run failed for %d of %d tenants", failed, len(tenants))
	}
	return nil
}

func (e *Executor) runTenantBilling(ctx context.Context, tenantID uuid.UUID, job *scheduler.Job) error {
	result, err := e.billingRuns.RunMonthlyBilling(ctx, tenantID, job.PeriodStart)
	if err != nil {
		return err
	}
	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "tenant_billing_completed",
		"tenant_id", tenantID.String(),
		"period", result.Period,
		"invoiced", result.Invoiced,
		"skipped", result.Skipped,
		"failed", result.Failed)
	e.logger.Info("Billing run finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("period", result.Period),
		zap.Int("invoiced", result.Invoiced),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	if result.Failed > 0 {
		return fmt.Errorf("billing run raised %d of %d invoices", result.Invoiced, result.Invoiced+result.Failed)
	}
	return nil
}

var _ scheduler.JobExecutor = (*Executor)(nil)
