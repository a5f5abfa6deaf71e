package editor

import (
	"context"

	"github.com/dukex/graphdesk/pkg/events"
	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/tabs"
)

// OpenTab opens a document. Opening an id that is already open selects it.
func (e *Editor) OpenTab(ctx context.Context, opts tabs.Options) *models.Tab {
	previous := e.tabs.ActiveID()
	tab := e.tabs.AddTab(opts)

	e.switched(ctx, previous)

	return tab
}

// SelectTab makes a tab the active document.
func (e *Editor) SelectTab(ctx context.Context, id string) error {
	previous := e.tabs.ActiveID()

	if !e.tabs.SelectTab(id) {
		return newError("SelectTab", ErrTabNotFound, id)
	}

	e.switched(ctx, previous)

	return nil
}

// CloseTab closes a tab. When it was active, its neighbor becomes active.
func (e *Editor) CloseTab(ctx context.Context, id string) error {
	previous := e.tabs.ActiveID()

	if !e.tabs.CloseTab(id) {
		return newError("CloseTab", ErrTabNotFound, id)
	}

	e.publish(ctx, events.TabClosed{
		BaseEvent:   events.NewBaseEvent(events.TabClosedEvent, id),
		ActiveTabID: e.tabs.ActiveID(),
	})

	e.switched(ctx, previous)

	return nil
}

// MarkSaved clears a tab's unsaved flag, typically after its document was
// written somewhere.
func (e *Editor) MarkSaved(id string) bool {
	return e.tabs.MarkSaved(id)
}

// switched runs after the active tab may have changed. The loaded document is
// taken as already in sync.
func (e *Editor) switched(ctx context.Context, previous string) {
	e.syncedRevision = e.store.NodesRevision()

	active := e.tabs.ActiveID()
	if active == previous || active == "" {
		return
	}

	e.logger.Debug("active tab changed", "tab_id", active, "previous_tab_id", previous)

	e.publish(ctx, events.TabSelected{
		BaseEvent:     events.NewBaseEvent(events.TabSelectedEvent, active),
		PreviousTabID: previous,
	})
}
