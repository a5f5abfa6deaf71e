// Package history records significant editor actions as full document
// snapshots and replays them for undo, redo and direct restore.
//
// The timeline is ordered most recent first. The cursor is the index of the
// entry currently shown: 0 is the tip, and every undo moves it one entry
// further into the past. Committing while the cursor is away from the tip
// discards the abandoned redo branch before the new entry is prepended.
package history

import (
	"log/slog"
	"time"

	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/store"
)

// Manager is the timeline of the document held by a store.
type Manager struct {
	store  *store.Store
	logger *slog.Logger

	now           func() time.Time
	newID         func() string
	moveThreshold float64
	maxEntries    int
}

// NewManager creates a timeline manager over the live store.
func NewManager(s *store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:         s,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
		newID:         func() string { return models.NewID("hist") },
		moveThreshold: DefaultMoveThreshold,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Commit records an action that has already been applied to the live store.
// It returns false when the action is not significant enough to record.
func (m *Manager) Commit(action models.ActionType, data ActionData) (*models.HistoryEntry, bool) {
	if !action.Valid() {
		m.logger.Debug("ignoring unknown action type", "action", action)

		return nil, false
	}

	if !m.significant(action, data) {
		m.logger.Debug("action not significant, skipping commit", "action", action)

		return nil, false
	}

	description, details := m.describe(action, data)

	entry := &models.HistoryEntry{
		ID:          m.newID(),
		Timestamp:   m.now(),
		ActionType:  action,
		Description: description,
		Details:     details,
		Snapshot:    m.store.Snapshot(),
	}

	entries, cursor := m.store.History()

	kept := entries[cursor:]
	next := make([]*models.HistoryEntry, 0, len(kept)+1)
	next = append(next, entry)
	next = append(next, kept...)

	if m.maxEntries > 0 && len(next) > m.maxEntries {
		next = next[:m.maxEntries]
	}

	m.store.SetHistory(next, 0)

	m.logger.Debug("history entry committed",
		"action", action,
		"entry_id", entry.ID,
		"discarded", cursor,
		"length", len(next))

	return entry, true
}

// CanUndo reports whether an older entry exists.
func (m *Manager) CanUndo() bool {
	entries, cursor := m.store.History()

	return cursor+1 < len(entries)
}

// CanRedo reports whether the cursor is away from the tip.
func (m *Manager) CanRedo() bool {
	_, cursor := m.store.History()

	return cursor > 0
}

// Undo restores the next older entry.
func (m *Manager) Undo() bool {
	if !m.CanUndo() {
		return false
	}

	_, cursor := m.store.History()

	return m.restoreAt(cursor + 1)
}

// Redo restores the next newer entry.
func (m *Manager) Redo() bool {
	if !m.CanRedo() {
		return false
	}

	_, cursor := m.store.History()

	return m.restoreAt(cursor - 1)
}

// RestoreByID moves the cursor to the entry with the given id and restores
// its snapshot. Unknown ids are ignored.
func (m *Manager) RestoreByID(entryID string) bool {
	entries, _ := m.store.History()

	for i, e := range entries {
		if e.ID == entryID {
			return m.restoreAt(i)
		}
	}

	m.logger.Debug("history entry not found", "entry_id", entryID)

	return false
}

// Entries returns the timeline, most recent first.
func (m *Manager) Entries() []*models.HistoryEntry {
	entries, _ := m.store.History()

	return entries
}

// Cursor returns the index of the displayed entry.
func (m *Manager) Cursor() int {
	_, cursor := m.store.History()

	return cursor
}

// Current returns the displayed entry, or nil on an empty timeline.
func (m *Manager) Current() *models.HistoryEntry {
	entries, cursor := m.store.History()
	if len(entries) == 0 {
		return nil
	}

	return entries[cursor]
}

func (m *Manager) restoreAt(index int) bool {
	entries, _ := m.store.History()
	if index < 0 || index >= len(entries) {
		return false
	}

	m.store.Restore(entries[index].Snapshot)
	m.store.SetHistory(entries, index)

	m.logger.Debug("history restored",
		"entry_id", entries[index].ID,
		"action", entries[index].ActionType,
		"cursor", index)

	return true
}
