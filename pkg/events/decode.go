package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownEventType = errors.New("unknown event type")

var constructors = map[EventType]func() any{
	HistoryCommittedEvent:  func() any { return &HistoryCommitted{} },
	HistoryRestoredEvent:   func() any { return &HistoryRestored{} },
	TabSelectedEvent:       func() any { return &TabSelected{} },
	TabClosedEvent:         func() any { return &TabClosed{} },
	TabDirtyEvent:          func() any { return &TabDirty{} },
	SubWorkflowSyncedEvent: func() any { return &SubWorkflowSynced{} },
	ProjectImportedEvent:   func() any { return &ProjectImported{} },
	ProjectExportedEvent:   func() any { return &ProjectExported{} },
}

// Decode reads a published payload back into a pointer to its event struct.
func Decode(eventType EventType, payload []byte) (any, error) {
	newEvent, ok := constructors[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}

	event := newEvent()
	if err := json.Unmarshal(payload, event); err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", eventType, err)
	}

	return event, nil
}
