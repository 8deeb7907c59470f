package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/square15/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap/zaptest"
)

func disabledMetricsConfig() telemetry.MetricsConfig {
	return telemetry.MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    time.Minute,
		ServiceName:       "square15-backend-test",
	}
}

func newDisabledMeterProvider(t *testing.T) *telemetry.MeterProvider {
	t.Helper()
	mp, err := telemetry.NewMeterProvider(context.Background(), disabledMetricsConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return mp
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp := newDisabledMeterProvider(t)

	assert.False(t, mp.IsEnabled())

	cfg := mp.GetConfig()
	assert.Equal(t, "square15-backend-test", cfg.ServiceName)
	assert.False(t, cfg.Enabled)

	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMeterProvider_DisabledMeterIsNoop(t *testing.T) {
	mp := newDisabledMeterProvider(t)

	meter := mp.Meter("billing")
	require.NotNil(t, meter)

	counter, err := telemetry.NewCounter(meter, "invoices_sent_total", "Invoices sent", "{invoice}")
	require.NoError(t, err)
	counter.Inc(context.Background())
}

func TestMeterProvider_DisabledForceFlushAndShutdown(t *testing.T) {
	mp := newDisabledMeterProvider(t)

	assert.NoError(t, mp.ForceFlush(context.Background()))

	// A cancelled context must not trip the disabled path.
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, mp.Shutdown(cancelled))
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	meter := newDisabledMeterProvider(t).Meter("billing")

	counter, err := telemetry.NewCounter(meter, "payment_requests_total", "Payment requests issued", "{request}")
	require.NoError(t, err)
	require.NotNil(t, counter)

	counter.Add(ctx, 5, telemetry.AttrOutcome.String("paid"))
	counter.Add(ctx, 2, telemetry.AttrOutcome.String("expired"))
	counter.Inc(ctx)
	counter.Inc(ctx, telemetry.AttrTenantID.String("tenant-1"))
}

func TestHistogram(t *testing.T) {
	ctx := context.Background()
	meter := newDisabledMeterProvider(t).Meter("billing")

	h, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "billing_run_duration_seconds",
		Description: "Monthly billing run duration",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	require.NoError(t, err)
	require.NotNil(t, h)

	h.Record(ctx, 0.12)
	h.Record(ctx, 2.5, telemetry.AttrTenantID.String("tenant-1"))
	h.RecordDuration(ctx, 340*time.Millisecond, telemetry.AttrOutcome.String("completed"))
}

func TestHistogram_DefaultBoundaries(t *testing.T) {
	meter := newDisabledMeterProvider(t).Meter("billing")

	// No explicit boundaries means the SDK defaults apply.
	h, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "pdf_render_duration_seconds",
		Description: "Invoice PDF render duration",
		Unit:        "s",
	})
	require.NoError(t, err)

	h.Record(context.Background(), 1.5)
}

func TestGauges(t *testing.T) {
	ctx := context.Background()
	meter := newDisabledMeterProvider(t).Meter("finance")

	open, err := telemetry.NewGauge(meter, "invoices_open", "Open invoices", "{invoice}")
	require.NoError(t, err)
	open.Record(ctx, 42)
	open.Record(ctx, 7, telemetry.AttrInvoiceStatus.String("OVERDUE"))

	outstanding, err := telemetry.NewFloatGauge(meter, "receivables_outstanding_rand", "Outstanding receivables", "ZAR")
	require.NoError(t, err)
	outstanding.Record(ctx, 125640.50)
	outstanding.Record(ctx, 8900.00, telemetry.AttrTenantID.String("tenant-1"))
}

func TestAttributeKeys(t *testing.T) {
	cases := map[attribute.Key]string{
		telemetry.AttrTenantID:       "tenant_id",
		telemetry.AttrUserID:         "user_id",
		telemetry.AttrHTTPMethod:     "http.method",
		telemetry.AttrHTTPStatusCode: "http.status_code",
		telemetry.AttrHTTPRoute:      "http.route",
		telemetry.AttrDBOperation:    "db.operation",
		telemetry.AttrDBTable:        "db.table",
		telemetry.AttrDBState:        "db.pool.state",
		telemetry.AttrOutcome:        "outcome",
		telemetry.AttrPriority:       "priority",
		telemetry.AttrInvoiceStatus:  "invoice_status",
		telemetry.AttrCampaignID:     "campaign_id",
	}
	for key, want := range cases {
		assert.Equal(t, want, string(key))
	}
}

func TestBucketBoundariesAscending(t *testing.T) {
	for name, buckets := range map[string][]float64{
		"http":  telemetry.HTTPDurationBuckets,
		"db":    telemetry.DBDurationBuckets,
		"small": telemetry.SmallDurationBuckets,
	} {
		require.NotEmpty(t, buckets, name)
		for i := 1; i < len(buckets); i++ {
			assert.Greater(t, buckets[i], buckets[i-1], "%s bucket %d", name, i)
		}
	}
}

func TestNewMeterProvider_Enabled(t *testing.T) {
	// Needs a collector on localhost:14317, run via make otel-up.
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := disabledMetricsConfig()
	cfg.Enabled = true
	cfg.Insecure = true
	cfg.ExportInterval = time.Second

	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = mp.Shutdown(ctx) }()

	assert.True(t, mp.IsEnabled())

	counter, err := telemetry.NewCounter(mp.Meter("billing"), "invoices_sent_total", "Invoices sent", "{invoice}")
	require.NoError(t, err)
	counter.Inc(ctx, telemetry.AttrTenantID.String("tenant-1"))

	assert.NoError(t, mp.ForceFlush(ctx))
}

func TestNewMeterProvider_DefaultExportInterval(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := disabledMetricsConfig()
	cfg.Enabled = true
	cfg.Insecure = true
	cfg.ExportInterval = 0

	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.NoError(t, mp.Shutdown(ctx))
}
