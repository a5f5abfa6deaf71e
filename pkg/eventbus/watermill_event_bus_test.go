package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/graphdesk/pkg/channels/gochannel"
	"github.com/dukex/graphdesk/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub, watermill.NopLogger{})
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_DeliversTypedEvents(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *events.SubWorkflowSynced, 1)

	require.NoError(t, bus.Handle(events.SubWorkflowSyncedEvent, func(_ context.Context, event interface{}) error {
		received <- event.(*events.SubWorkflowSynced)

		return nil
	}))

	err := bus.Publish(ctx, "sw", events.SubWorkflowSynced{
		BaseEvent:     events.NewBaseEvent(events.SubWorkflowSyncedEvent, "sw"),
		SubWorkflowID: "sw",
		Documents:     []string{"main"},
		Instances:     1,
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	select {
	case event := <-received:
		assert.Equal(t, "sw", event.SubWorkflowID)
		assert.Equal(t, []string{"main"}, event.Documents)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_UnhandledEventsAreAcked(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.EventType, 2)

	require.NoError(t, bus.Handle(events.TabClosedEvent, func(_ context.Context, event interface{}) error {
		received <- event.(*events.TabClosed).GetType()

		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "t1", events.TabSelected{BaseEvent: events.NewBaseEvent(events.TabSelectedEvent, "t1")}))
	require.NoError(t, bus.Publish(ctx, "t1", events.TabClosed{BaseEvent: events.NewBaseEvent(events.TabClosedEvent, "t1")}))
	require.NoError(t, bus.Subscribe(ctx))

	select {
	case got := <-received:
		assert.Equal(t, events.TabClosedEvent, got)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_HandlerErrorNacks(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := make(chan struct{}, 4)

	require.NoError(t, bus.Handle(events.TabDirtyEvent, func(_ context.Context, _ interface{}) error {
		select {
		case attempts <- struct{}{}:
		default:
		}

		return errors.New("listener failed")
	}))

	require.NoError(t, bus.Publish(ctx, "t1", events.TabDirty{BaseEvent: events.NewBaseEvent(events.TabDirtyEvent, "t1")}))
	require.NoError(t, bus.Subscribe(ctx))

	select {
	case <-attempts:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not called")
	}
}

func TestWatermillEventBus_RunsEveryHandler(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 2)

	for _, name := range []string{"first", "second"} {
		require.NoError(t, bus.Handle(events.ProjectImportedEvent, func(_ context.Context, event interface{}) error {
			_, ok := event.(*events.ProjectImported)
			assert.True(t, ok)

			received <- name

			return nil
		}))
	}

	require.NoError(t, bus.Publish(ctx, "demo", events.ProjectImported{BaseEvent: events.NewBaseEvent(events.ProjectImportedEvent, "")}))
	require.NoError(t, bus.Subscribe(ctx))

	var got []string

	for range 2 {
		select {
		case name := <-received:
			got = append(got, name)
		case <-time.After(2 * time.Second):
			t.Fatal("event was not delivered to every handler")
		}
	}

	assert.Equal(t, []string{"first", "second"}, got)
}
