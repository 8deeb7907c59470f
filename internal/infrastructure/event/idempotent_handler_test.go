package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingStore simulates an unreachable idempotency backend
type failingStore struct{}

func (s *failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("store unavailable")
}

func (s *failingStore) IsProcessed(context.Context, string) (bool, error) {
	return false, errors.New("store unavailable")
}

func (s *failingStore) Close() error { return nil }

func newIdempotencyTestStore(t *testing.T) shared.IdempotencyStore {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIdempotentHandler_HandlesFirstDelivery(t *testing.T) {
	inner := &recordingHandler{types: []string{"InvoiceOverdue"}}
	handler := NewIdempotentHandler(inner, newIdempotencyTestStore(t), zap.NewNop())

	err := handler.Handle(context.Background(), newTestEvent("InvoiceOverdue"))

	require.NoError(t, err)
	assert.Equal(t, 1, inner.count())
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().Processed)
}

func TestIdempotentHandler_SkipsRedelivery(t *testing.T) {
	inner := &recordingHandler{types: []string{"InvoiceOverdue"}}
	handler := NewIdempotentHandler(inner, newIdempotencyTestStore(t), zap.NewNop())
	event := newTestEvent("InvoiceOverdue")

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Equal(t, 1, inner.count())
	stats := handler.GetMetrics().Stats()
	assert.Equal(t, int64(1), stats.Processed)
	assert.Equal(t, int64(1), stats.Duplicates)
}

func TestIdempotentHandler_DistinctEventsBothHandled(t *testing.T) {
	inner := &recordingHandler{types: []string{"InvoiceOverdue"}}
	handler := NewIdempotentHandler(inner, newIdempotencyTestStore(t), zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), newTestEvent("InvoiceOverdue")))
	require.NoError(t, handler.Handle(context.Background(), newTestEvent("InvoiceOverdue")))

	assert.Equal(t, 2, inner.count())
}

func TestIdempotentHandler_StoreFailureStillHandles(t *testing.T) {
	inner := &recordingHandler{types: []string{"InvoiceOverdue"}}
	handler := NewIdempotentHandler(inner, &failingStore{}, zap.NewNop())

	err := handler.Handle(context.Background(), newTestEvent("InvoiceOverdue"))

	require.NoError(t, err)
	assert.Equal(t, 1, inner.count())
}

func TestIdempotentHandler_PropagatesHandlerError(t *testing.T) {
	inner := &recordingHandler{types: []string{"InvoiceOverdue"}, err: errors.New("boom")}
	handler := NewIdempotentHandler(inner, newIdempotencyTestStore(t), zap.NewNop())

	err := handler.Handle(context.Background(), newTestEvent("InvoiceOverdue"))

	assert.Error(t, err)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().Failed)
}

func TestIdempotentHandler_FailedEventNotRetriedWithinTTL(t *testing.T) {
	inner := &recordingHandler{types: []string{"InvoiceOverdue"}, err: errors.New("boom")}
	handler := NewIdempotentHandler(inner, newIdempotencyTestStore(t), zap.NewNop())
	event := newTestEvent("InvoiceOverdue")

	require.Error(t, handler.Handle(context.Background(), event))

	// The key stays set after the failure, so immediate redelivery is skipped
	err := handler.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().Duplicates)
}

func TestIdempotentHandler_DisabledConfigBypassesStore(t *testing.T) {
	inner := &recordingHandler{types: []string{"InvoiceOverdue"}}
	handler := NewIdempotentHandler(inner, &failingStore{}, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}),
	)
	event := newTestEvent("InvoiceOverdue")

	require.NoError(t, handler.Handle(context.Background(), event))
	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Equal(t, 2, inner.count())
}

func TestIdempotentHandler_DelegatesEventTypes(t *testing.T) {
	inner := &recordingHandler{types: []string{"InvoiceOverdue", "InvoicePaid"}}
	handler := NewIdempotentHandler(inner, newIdempotencyTestStore(t), zap.NewNop())

	assert.Equal(t, []string{"InvoiceOverdue", "InvoicePaid"}, handler.EventTypes())
}

func TestIdempotentHandler_SharedMetrics(t *testing.T) {
	metrics := &IdempotencyMetrics{}
	store := newIdempotencyTestStore(t)
	first := NewIdempotentHandler(&recordingHandler{types: []string{"InvoiceOverdue"}}, store, zap.NewNop(),
		WithIdempotencyMetrics(metrics))
	second := NewIdempotentHandler(&recordingHandler{types: []string{"InvoicePaid"}}, store, zap.NewNop(),
		WithIdempotencyMetrics(metrics))

	require.NoError(t, first.Handle(context.Background(), newTestEvent("InvoiceOverdue")))
	require.NoError(t, second.Handle(context.Background(), newTestEvent("InvoicePaid")))

	assert.Equal(t, int64(2), metrics.Stats().Processed)
}
