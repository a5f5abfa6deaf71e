// Package events defines the notifications the editor publishes when its
// documents change.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const Topic = "graphdesk.editor.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Timeline events.
	HistoryCommittedEvent EventType = "history.committed"
	HistoryRestoredEvent  EventType = "history.restored"

	// Tab lifecycle events.
	TabSelectedEvent EventType = "tab.selected"
	TabClosedEvent   EventType = "tab.closed"
	TabDirtyEvent    EventType = "tab.dirty"

	SubWorkflowSyncedEvent EventType = "subworkflow.synced"

	// Project events.
	ProjectImportedEvent EventType = "project.imported"
	ProjectExportedEvent EventType = "project.exported"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	TabID     string         `json:"tab_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event of the given type.
func NewBaseEvent(eventType EventType, tabID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		TabID:     tabID,
	}
}

type HistoryCommitted struct {
	BaseEvent

	EntryID     string `json:"entry_id"`
	ActionType  string `json:"action_type"`
	Description string `json:"description"`
	Length      int    `json:"length"`
}

func (e HistoryCommitted) GetType() EventType {
	return HistoryCommittedEvent
}

// Restore kinds.
const (
	RestoreUndo = "undo"
	RestoreRedo = "redo"
	RestoreJump = "jump"
)

type HistoryRestored struct {
	BaseEvent

	EntryID string `json:"entry_id"`
	Cursor  int    `json:"cursor"`
	Kind    string `json:"kind"`
}

func (e HistoryRestored) GetType() EventType {
	return HistoryRestoredEvent
}

type TabSelected struct {
	BaseEvent

	PreviousTabID string `json:"previous_tab_id,omitempty"`
}

func (e TabSelected) GetType() EventType {
	return TabSelectedEvent
}

type TabClosed struct {
	BaseEvent

	ActiveTabID string `json:"active_tab_id,omitempty"`
}

func (e TabClosed) GetType() EventType {
	return TabClosedEvent
}

type TabDirty struct {
	BaseEvent
}

func (e TabDirty) GetType() EventType {
	return TabDirtyEvent
}

type SubWorkflowSynced struct {
	BaseEvent

	SubWorkflowID     string   `json:"subworkflow_id"`
	Documents         []string `json:"documents"`
	Instances         int      `json:"instances"`
	PrunedConnections int      `json:"pruned_connections"`
}

func (e SubWorkflowSynced) GetType() EventType {
	return SubWorkflowSyncedEvent
}

type ProjectImported struct {
	BaseEvent

	Name string `json:"name"`
	Tabs int    `json:"tabs"`
}

func (e ProjectImported) GetType() EventType {
	return ProjectImportedEvent
}

type ProjectExported struct {
	BaseEvent

	Name string `json:"name"`
	Tabs int    `json:"tabs"`
}

func (e ProjectExported) GetType() EventType {
	return ProjectExportedEvent
}
