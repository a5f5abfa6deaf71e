package editor

import (
	"context"

	"github.com/dukex/graphdesk/pkg/events"
)

// Undo restores the previous timeline entry of the active document.
func (e *Editor) Undo(ctx context.Context) bool {
	if !e.history.Undo() {
		return false
	}

	e.restored(ctx, events.RestoreUndo)

	return true
}

// Redo restores the next timeline entry of the active document.
func (e *Editor) Redo(ctx context.Context) bool {
	if !e.history.Redo() {
		return false
	}

	e.restored(ctx, events.RestoreRedo)

	return true
}

// RestoreHistory jumps to any entry of the active document's timeline.
func (e *Editor) RestoreHistory(ctx context.Context, entryID string) error {
	if !e.history.RestoreByID(entryID) {
		return newError("RestoreHistory", ErrEntryNotFound, entryID)
	}

	e.restored(ctx, events.RestoreJump)

	return nil
}

// restored runs after the live document was overwritten from the timeline.
// Interface changes are propagated but never recorded, so the redo branch
// survives.
func (e *Editor) restored(ctx context.Context, kind string) {
	e.markDirty(ctx, e.tabs.ActiveID())
	e.syncSubWorkflow(ctx, false)

	event := events.HistoryRestored{
		BaseEvent: events.NewBaseEvent(events.HistoryRestoredEvent, e.tabs.ActiveID()),
		Cursor:    e.history.Cursor(),
		Kind:      kind,
	}

	if entry := e.history.Current(); entry != nil {
		event.EntryID = entry.ID
	}

	e.publish(ctx, event)
}
