package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the management backend.
// It tracks invoicing, payment-request processing, campaign sends and the
// maintenance workload.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counters
	invoiceIssuedTotal     *Counter
	invoiceAmountTotal     *Counter
	paymentRequestTotal    *Counter
	campaignEmailTotal     *Counter
	maintenanceOpenedTotal *Counter

	// Gauges, refreshed by the periodic collector
	overdueInvoiceCount  *Gauge
	openMaintenanceCount *Gauge

	// Collector lifecycle
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	receivablesProvider ReceivablesMetricsProvider
}

// ReceivablesMetricsProvider provides billing and maintenance workload data
// for periodic metrics collection. The interface keeps the telemetry layer
// from depending on the billing and property domains directly.
type ReceivablesMetricsProvider interface {
	// GetOverdueInvoiceCount returns the number of overdue invoices for a tenant
	GetOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID) (int64, error)

	// GetOpenMaintenanceCount returns the number of open maintenance requests for a tenant
	GetOpenMaintenanceCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig carries the meter and the data providers the
// collector samples from.
type BusinessMetricsConfig struct {
	Meter               metric.Meter
	Logger              *zap.Logger
	CollectInterval     time.Duration
	ReceivablesProvider ReceivablesMetricsProvider
}

// NewBusinessMetrics registers every business instrument on the meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:               cfg.Meter,
		logger:              logger,
		stopChan:            make(chan struct{}),
		receivablesProvider: cfg.ReceivablesProvider,
	}

	var err error

	// Invoice metrics
	bm.invoiceIssuedTotal, err = NewCounter(
		cfg.Meter,
		"square15_invoice_issued_total",
		"Total number of invoices issued",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.invoiceAmountTotal, err = NewCounter(
		cfg.Meter,
		"square15_invoice_amount_total",
		"Total invoiced amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Payment request metrics
	bm.paymentRequestTotal, err = NewCounter(
		cfg.Meter,
		"square15_payment_request_total",
		"Total number of payment request decisions",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	// Campaign metrics
	bm.campaignEmailTotal, err = NewCounter(
		cfg.Meter,
		"square15_campaign_email_total",
		"Total number of campaign emails dispatched",
		"{emails}",
	)
	if err != nil {
		return nil, err
	}

	// Maintenance metrics
	bm.maintenanceOpenedTotal, err = NewCounter(
		cfg.Meter,
		"square15_maintenance_opened_total",
		"Total number of maintenance requests opened",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	// Receivables gauge metrics
	bm.overdueInvoiceCount, err = NewGauge(
		cfg.Meter,
		"square15_invoice_overdue_count",
		"Current number of overdue invoices",
		"{invoices}",
	)
	if err != nil {
		return nil, err
	}

	bm.openMaintenanceCount, err = NewGauge(
		cfg.Meter,
		"square15_maintenance_open_count",
		"Current number of open maintenance requests",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Invoice Metrics
// =============================================================================

// RecordInvoiceIssued counts one invoice leaving DRAFT.
func (bm *BusinessMetrics) RecordInvoiceIssued(ctx context.Context, tenantID uuid.UUID) {
	bm.invoiceIssuedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordInvoiceAmount adds the invoiced total, in cents.
func (bm *BusinessMetrics) RecordInvoiceAmount(ctx context.Context, tenantID uuid.UUID, amountCents int64) {
	bm.invoiceAmountTotal.Add(ctx, amountCents,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordInvoiceIssuedWithAmount records the count and the amount together.
func (bm *BusinessMetrics) RecordInvoiceIssuedWithAmount(ctx context.Context, tenantID uuid.UUID, total decimal.Decimal) {
	bm.RecordInvoiceIssued(ctx, tenantID)

	amountCents := total.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordInvoiceAmount(ctx, tenantID, amountCents)
}

// =============================================================================
// Payment Request Metrics
// =============================================================================

// PaymentRequestOutcome is the decision taken on a payment request.
type PaymentRequestOutcome string

const (
	PaymentRequestApproved PaymentRequestOutcome = "approved"
	PaymentRequestDeclined PaymentRequestOutcome = "declined"
	PaymentRequestPaid     PaymentRequestOutcome = "paid"
)

// RecordPaymentRequest counts one payment request decision.
func (bm *BusinessMetrics) RecordPaymentRequest(ctx context.Context, tenantID uuid.UUID, outcome PaymentRequestOutcome) {
	bm.paymentRequestTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrOutcome.String(string(outcome)),
	)
}

// =============================================================================
// Campaign Metrics
// =============================================================================

// EmailOutcome is the delivery result of one campaign email.
type EmailOutcome string

const (
	EmailOutcomeSent   EmailOutcome = "sent"
	EmailOutcomeFailed EmailOutcome = "failed"
)

// RecordCampaignEmail counts one campaign email dispatch attempt.
func (bm *BusinessMetrics) RecordCampaignEmail(ctx context.Context, tenantID uuid.UUID, outcome EmailOutcome) {
	bm.campaignEmailTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrOutcome.String(string(outcome)),
	)
}

// =============================================================================
// Maintenance Metrics
// =============================================================================

// RecordMaintenanceOpened counts a newly opened maintenance request.
func (bm *BusinessMetrics) RecordMaintenanceOpened(ctx context.Context, tenantID uuid.UUID, priority string) {
	bm.maintenanceOpenedTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPriority.String(priority),
	)
}

// =============================================================================
// Receivables Gauges
// =============================================================================

// RecordOverdueInvoiceCount sets the overdue invoice gauge for a tenant.
func (bm *BusinessMetrics) RecordOverdueInvoiceCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.overdueInvoiceCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// RecordOpenMaintenanceCount sets the open maintenance gauge for a tenant.
func (bm *BusinessMetrics) RecordOpenMaintenanceCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.openMaintenanceCount.Record(ctx, count,
		AttrTenantID.String(tenantID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider lists the tenants whose gauges get refreshed.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection launches the gauge refresh loop in the
// background. A non-positive interval falls back to five minutes; the
// loop runs until Stop or context cancellation.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First sample right away rather than waiting a full interval
	bm.collectReceivablesMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Business metrics collector stopping")
			return
		case <-ctx.Done():
			bm.logger.Info("Business metrics collector cancelled")
			return
		case <-ticker.C:
			bm.collectReceivablesMetrics(ctx, tenantProvider)
		}
	}
}

func (bm *BusinessMetrics) collectReceivablesMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.receivablesProvider == nil {
		bm.logger.Debug("Receivables gauges skipped, no provider configured")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Tenant list unavailable for gauge refresh", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantReceivablesMetrics(ctx, tenantID)
	}
}

func (bm *BusinessMetrics) collectTenantReceivablesMetrics(ctx context.Context, tenantID uuid.UUID) {
	overdueCount, err := bm.receivablesProvider.GetOverdueInvoiceCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Overdue invoice count unavailable",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOverdueInvoiceCount(ctx, tenantID, overdueCount)
	}

	openCount, err := bm.receivablesProvider.GetOpenMaintenanceCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Open maintenance count unavailable",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordOpenMaintenanceCount(ctx, tenantID, openCount)
	}
}

// Stop shuts the refresh loop down. Idempotent.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil rejects construction without a meter.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError is an instrument registration failure.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
