package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans swaps the global tracer provider for one backed by an
// in-memory recorder for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	return recorder
}

func endedSpan(t *testing.T, recorder *tracetest.SpanRecorder) sdktrace.ReadOnlySpan {
	t.Helper()
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	return spans[0]
}

func attributeMap(attrs []attribute.KeyValue) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs))
	for _, attr := range attrs {
		out[string(attr.Key)] = attr.Value.AsInterface()
	}
	return out
}

func TestStartSpan(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "invoice.send")
	require.NotNil(t, span)
	span.End()

	recorded := endedSpan(t, recorder)
	assert.Equal(t, "invoice.send", recorded.Name())
	assert.Equal(t, trace.SpanKindInternal, recorded.SpanKind())
}

func TestStartSpan_Options(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "pdf.render",
		telemetry.WithAttribute("document_type", "invoice"),
		telemetry.WithSpanKind(trace.SpanKindClient),
	)
	span.End()

	recorded := endedSpan(t, recorder)
	assert.Equal(t, trace.SpanKindClient, recorded.SpanKind())
	assert.Equal(t, "invoice", attributeMap(recorded.Attributes())["document_type"])
}

func TestStartServiceSpan_NamingConvention(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "registration", "billing-run")
	span.End()

	assert.Equal(t, "registration.billing-run", endedSpan(t, recorder).Name())
}

func TestSetAttributes(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "invoice.mark-paid")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrInvoiceNumber, "INV-202608-00001",
		telemetry.SpanAttrAmount, "12564.50",
		"line_count", 3,
		"emailed", true,
	)
	span.End()

	attrs := attributeMap(endedSpan(t, recorder).Attributes())
	assert.Equal(t, "INV-202608-00001", attrs[telemetry.SpanAttrInvoiceNumber])
	assert.Equal(t, "12564.50", attrs[telemetry.SpanAttrAmount])
	assert.Equal(t, int64(3), attrs["line_count"])
	assert.Equal(t, true, attrs["emailed"])
}

func TestSetAttributes_SkipsMalformedPairs(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "campaign.launch")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrCampaignID, "camp-42",
		7, "non-string key",
		telemetry.SpanAttrAudience, "owners",
		"trailing key without value",
	)
	span.End()

	attrs := attributeMap(endedSpan(t, recorder).Attributes())
	assert.Len(t, attrs, 2)
	assert.Equal(t, "camp-42", attrs[telemetry.SpanAttrCampaignID])
	assert.Equal(t, "owners", attrs[telemetry.SpanAttrAudience])
}

func TestSetAttribute_StringerValue(t *testing.T) {
	recorder := recordSpans(t)
	registrationID := uuid.New()

	_, span := telemetry.StartSpan(context.Background(), "registration.create")
	telemetry.SetAttribute(span, telemetry.SpanAttrRegistrationID, registrationID)
	span.End()

	attrs := attributeMap(endedSpan(t, recorder).Attributes())
	assert.Equal(t, registrationID.String(), attrs[telemetry.SpanAttrRegistrationID])
}

func TestAttributeValueTypes(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "payroll.run")
	telemetry.SetAttributes(span,
		"period", "2026-08",
		"employees", 14,
		"gross_cents", int64(184250075),
		"paye_rate", 0.26,
		"finalised", true,
		"unit_codes", []string{"A101", "B202"},
		"counts", []int{3, 1},
		"ids", []int64{10, 20},
		"rates", []float64{0.15, 0.26},
		"flags", []bool{true, false},
		"fallback", struct{ X int }{X: 1},
	)
	span.End()

	attrs := endedSpan(t, recorder).Attributes()
	assert.Len(t, attrs, 11)
	assert.Equal(t, "{1}", attributeMap(attrs)["fallback"])
}

func TestRecordError(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "invoice.send")
	telemetry.RecordError(span, errors.New("invoice already paid"))
	span.End()

	recorded := endedSpan(t, recorder)
	assert.Equal(t, codes.Error, recorded.Status().Code)
	assert.Equal(t, "invoice already paid", recorded.Status().Description)

	events := recorded.Events()
	require.NotEmpty(t, events)
	assert.Equal(t, "exception", events[0].Name)
}

func TestRecordError_NilErrorLeavesStatusUnset(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "invoice.send")
	telemetry.RecordError(span, nil)
	span.End()

	recorded := endedSpan(t, recorder)
	assert.Equal(t, codes.Unset, recorded.Status().Code)
	assert.Empty(t, recorded.Events())
}

func TestSetOK(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "jobs.billing_run")
	telemetry.SetOK(span)
	span.End()

	assert.Equal(t, codes.Ok, endedSpan(t, recorder).Status().Code)
}

func TestAddEvent(t *testing.T) {
	recorder := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "jobs.billing_run")
	telemetry.AddEvent(span, "tenant_billing_completed",
		"tenant_id", "tenant-1",
		"period", "2026-08",
		"invoiced", 12,
	)
	span.End()

	events := endedSpan(t, recorder).Events()
	require.Len(t, events, 1)
	assert.Equal(t, "tenant_billing_completed", events[0].Name)

	attrs := attributeMap(events[0].Attributes)
	assert.Equal(t, "tenant-1", attrs["tenant_id"])
	assert.Equal(t, int64(12), attrs["invoiced"])
}

func TestNilSpanHelpersAreNoops(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.SetAttributes(nil, telemetry.SpanAttrInvoiceID, "x")
		telemetry.SetAttribute(nil, telemetry.SpanAttrUnitCode, "A101")
		telemetry.RecordError(nil, errors.New("boom"))
		telemetry.SetOK(nil)
		telemetry.AddEvent(nil, "ignored")
	})
}

func TestSpanFromContext(t *testing.T) {
	recordSpans(t)

	background := telemetry.SpanFromContext(context.Background())
	require.NotNil(t, background)
	assert.False(t, background.SpanContext().IsValid())

	ctx, span := telemetry.StartSpan(context.Background(), "invoice.send")
	defer span.End()

	assert.Equal(t, span.SpanContext().SpanID(),
		telemetry.SpanFromContext(ctx).SpanContext().SpanID())
}

func TestTraceAndSpanIDs(t *testing.T) {
	recordSpans(t)

	assert.Empty(t, telemetry.GetTraceID(context.Background()))
	assert.Empty(t, telemetry.GetSpanID(context.Background()))

	ctx, span := telemetry.StartSpan(context.Background(), "invoice.send")
	defer span.End()

	assert.Len(t, telemetry.GetTraceID(ctx), 32)
	assert.Len(t, telemetry.GetSpanID(ctx), 16)
}

func TestNestedSpansShareTrace(t *testing.T) {
	recorder := recordSpans(t)

	ctx, parent := telemetry.StartServiceSpan(context.Background(), "jobs", "billing_run")
	_, child := telemetry.StartServiceSpan(ctx, "invoice", "create")
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	byName := make(map[string]sdktrace.ReadOnlySpan, 2)
	for _, s := range spans {
		byName[s.Name()] = s
	}
	parentSpan, ok := byName["jobs.billing_run"]
	require.True(t, ok)
	childSpan, ok := byName["invoice.create"]
	require.True(t, ok)

	assert.Equal(t, parentSpan.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
	assert.Equal(t, parentSpan.SpanContext().SpanID(), childSpan.Parent().SpanID())
}
