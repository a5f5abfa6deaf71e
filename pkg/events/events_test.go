package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypes(t *testing.T) {
	tests := []struct {
		event interface{ GetType() EventType }
		want  EventType
	}{
		{HistoryCommitted{}, HistoryCommittedEvent},
		{HistoryRestored{}, HistoryRestoredEvent},
		{TabSelected{}, TabSelectedEvent},
		{TabClosed{}, TabClosedEvent},
		{TabDirty{}, TabDirtyEvent},
		{SubWorkflowSynced{}, SubWorkflowSyncedEvent},
		{ProjectImported{}, ProjectImportedEvent},
		{ProjectExported{}, ProjectExportedEvent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.GetType())
	}
}

func TestSubWorkflowSynced_JSON(t *testing.T) {
	event := SubWorkflowSynced{
		BaseEvent:         NewBaseEvent(SubWorkflowSyncedEvent, "sw"),
		SubWorkflowID:     "sw",
		Documents:         []string{"main"},
		Instances:         2,
		PrunedConnections: 1,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "subworkflow.synced", raw["type"])
	assert.Equal(t, "sw", raw["tab_id"])
	assert.Equal(t, "sw", raw["subworkflow_id"])
	assert.InDelta(t, 1, raw["pruned_connections"], 0)
	assert.NotEmpty(t, raw["id"])
}

func TestDecode(t *testing.T) {
	payload, err := json.Marshal(TabClosed{BaseEvent: NewBaseEvent(TabClosedEvent, "t1"), ActiveTabID: "t2"})
	require.NoError(t, err)

	event, err := Decode(TabClosedEvent, payload)
	require.NoError(t, err)

	closed, ok := event.(*TabClosed)
	require.True(t, ok)
	assert.Equal(t, "t1", closed.TabID)
	assert.Equal(t, "t2", closed.ActiveTabID)

	_, err = Decode("tab.moved", payload)
	require.ErrorIs(t, err, ErrUnknownEventType)

	_, err = Decode(TabClosedEvent, []byte("not json"))
	assert.Error(t, err)
}
