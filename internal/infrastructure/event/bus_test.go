package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/event"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
}

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.received = append(h.received, e)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

type panicHandler struct{}

func (panicHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panicHandler) EventTypes() []string                             { return nil }

func newEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New())
	return &e
}

func newStartedBus(t *testing.T) *event.InMemoryEventBus {
	t.Helper()
	bus := event.NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := newStartedBus(t)

	debtHandler := &recordingHandler{types: []string{"DebtApproved"}}
	allHandler := &recordingHandler{}
	bus.Subscribe(debtHandler)
	bus.Subscribe(allHandler)

	require.NoError(t, bus.Publish(context.Background(), newEvent("DebtApproved"), newEvent("AgentRegistered")))

	assert.Len(t, debtHandler.received, 1)
	assert.Equal(t, "DebtApproved", debtHandler.received[0].EventType())
	assert.Len(t, allHandler.received, 2)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := newStartedBus(t)

	failing := &recordingHandler{types: []string{"DebtRejected"}, err: errors.New("db down")}
	healthy := &recordingHandler{types: []string{"DebtRejected"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newEvent("DebtRejected")))
	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_RecoversFromPanic(t *testing.T) {
	bus := newStartedBus(t)

	bus.Subscribe(panicHandler{})
	after := &recordingHandler{}
	bus.Subscribe(after)

	require.NoError(t, bus.Publish(context.Background(), newEvent("DebtCreated")))
	assert.Len(t, after.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := newStartedBus(t)

	h := &recordingHandler{types: []string{"DebtCreated"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newEvent("DebtCreated")))
	assert.Empty(t, h.received)
}

func TestInMemoryEventBus_RejectsPublishWhenStopped(t *testing.T) {
	bus := event.NewInMemoryEventBus(zap.NewNop())

	h := &recordingHandler{types: []string{"DebtCreated"}}
	bus.Subscribe(h)

	// Not started yet
	err := bus.Publish(context.Background(), newEvent("DebtCreated"))
	assert.ErrorIs(t, err, event.ErrBusNotRunning)
	assert.Empty(t, h.received)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newEvent("DebtCreated")))
	assert.Len(t, h.received, 1)

	require.NoError(t, bus.Stop(context.Background()))
	err = bus.Publish(context.Background(), newEvent("DebtCreated"))
	assert.ErrorIs(t, err, event.ErrBusNotRunning)
	assert.Len(t, h.received, 1)
}
