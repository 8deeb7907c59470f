package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/square15/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Invoice", uuid.New(), uuid.New()),
	}
}

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	seen   []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.seen = append(h.seen, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_DeliversToSubscribedHandler(t *testing.T) {
	bus := startedBus(t)
	handler := &recordingHandler{types: []string{"InvoiceOverdue"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("InvoiceOverdue"))

	require.NoError(t, err)
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_UsesHandlerEventTypes(t *testing.T) {
	bus := startedBus(t)
	handler := &recordingHandler{types: []string{"InvoicePaid", "InvoiceCancelled"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("InvoicePaid"),
		newTestEvent("InvoiceCancelled"),
		newTestEvent("InvoiceSent"),
	))

	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := startedBus(t)
	handler := &recordingHandler{types: []string{"InvoicePaid"}}
	bus.Subscribe(handler, "InvoiceSent")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("InvoicePaid")))
	assert.Equal(t, 0, handler.count())

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("InvoiceSent")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := startedBus(t)
	failing := &recordingHandler{types: []string{"InvoiceOverdue"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"InvoiceOverdue"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("InvoiceOverdue"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_RecoversFromHandlerPanic(t *testing.T) {
	bus := startedBus(t)
	panicking := &recordingHandler{types: []string{"InvoiceOverdue"}, panics: true}
	healthy := &recordingHandler{types: []string{"InvoiceOverdue"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("InvoiceOverdue"))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_PublishBeforeStartFails(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	err := bus.Publish(context.Background(), newTestEvent("InvoiceOverdue"))

	assert.Error(t, err)
}

func TestInMemoryEventBus_PublishAfterStopFails(t *testing.T) {
	bus := startedBus(t)
	require.NoError(t, bus.Stop(context.Background()))

	err := bus.Publish(context.Background(), newTestEvent("InvoiceOverdue"))

	assert.Error(t, err)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)
	handler := &recordingHandler{types: []string{"InvoiceOverdue"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("InvoiceOverdue")))

	assert.Equal(t, 0, handler.count())
}

func TestInMemoryEventBus_NoHandlersIsANoop(t *testing.T) {
	bus := startedBus(t)

	err := bus.Publish(context.Background(), newTestEvent("InvoiceOverdue"))

	assert.NoError(t, err)
}
