// Package tabs keeps one graph document per open tab and swaps documents in
// and out of the single live store.
//
// When a tab becomes active its state is resolved in this order:
//
//  1. a state handed to AddTab for a just-created tab (consumed once)
//  2. a snapshot handed to AddTab, with an empty timeline (consumed once)
//  3. the dirty-state cache of a tab marked unsaved
//  4. the state kept for a closed tab that has no file behind it
//  5. the canonical state map
//  6. a blank document
//
// Loading always overwrites every live sub-state.
package tabs

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/store"
)

// Options describes a tab to open.
type Options struct {
	ID            string
	Title         string
	Kind          models.TabKind
	SubWorkflowID string
	FilePath      string

	// State seeds a just-created tab with a full document and timeline.
	State *models.WorkflowState
	// Snapshot seeds the tab with a document and an empty timeline.
	Snapshot *models.Snapshot
	// Background opens the tab without activating it.
	Background bool
}

// Patch replaces parts of a stored document. Nil fields are left alone.
type Patch struct {
	Nodes             []*models.Node
	Connections       []*models.Connection
	LogicalInterfaces []*models.LogicalInterface
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// Manager is the document switchboard.
type Manager struct {
	store  *store.Store
	logger *slog.Logger

	tabs     []*models.Tab
	activeID string

	states         map[string]*models.WorkflowState
	unsaved        map[string]*models.WorkflowState
	closedInternal map[string]*models.WorkflowState
	pending        map[string]*models.Snapshot
	justCreated    map[string]*models.WorkflowState
}

// NewManager creates a switchboard over the live store.
func NewManager(s *store.Store, opts ...Option) *Manager {
	m := &Manager{
		store:          s,
		logger:         slog.New(slog.DiscardHandler),
		states:         map[string]*models.WorkflowState{},
		unsaved:        map[string]*models.WorkflowState{},
		closedInternal: map[string]*models.WorkflowState{},
		pending:        map[string]*models.Snapshot{},
		justCreated:    map[string]*models.WorkflowState{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AddTab opens a tab and, unless it is opened in the background, activates
// it. A subworkflow tab without an explicit id takes the definition id. Adding
// an id that is already open only selects it.
func (m *Manager) AddTab(opts Options) *models.Tab {
	id := opts.ID
	if id == "" && opts.Kind == models.TabKindSubWorkflow {
		id = opts.SubWorkflowID
	}

	if id == "" {
		id = models.NewID("tab")
	}

	if existing := m.find(id); existing != nil {
		if !opts.Background {
			m.SelectTab(id)
		}

		return existing.Clone()
	}

	kind := opts.Kind
	if kind == "" {
		kind = models.TabKindWorkflow
	}

	tab := &models.Tab{
		ID:            id,
		Title:         opts.Title,
		Kind:          kind,
		SubWorkflowID: opts.SubWorkflowID,
		FilePath:      opts.FilePath,
	}

	m.tabs = append(m.tabs, tab)

	switch {
	case opts.State != nil:
		m.justCreated[id] = opts.State.Clone()
	case opts.Snapshot != nil:
		m.pending[id] = opts.Snapshot.Clone()
	}

	m.logger.Debug("tab added", "tab_id", id, "kind", kind, "background", opts.Background)

	if !opts.Background {
		m.SelectTab(id)
	}

	return tab.Clone()
}

// SelectTab saves the outgoing tab and loads the incoming one.
func (m *Manager) SelectTab(id string) bool {
	if m.find(id) == nil {
		m.logger.Debug("select of unknown tab ignored", "tab_id", id)

		return false
	}

	if id == m.activeID {
		return true
	}

	m.saveActive()

	state := m.resolve(id, true)
	m.store.Load(state)
	m.activeID = id
	m.states[id] = state.Clone()

	m.logger.Debug("tab selected", "tab_id", id)

	return true
}

// CloseTab closes a tab and discards its live caches. The canonical state is
// kept so that definitions stay resolvable; Forget removes it.
func (m *Manager) CloseTab(id string) bool {
	idx := slices.IndexFunc(m.tabs, func(t *models.Tab) bool { return t.ID == id })
	if idx < 0 {
		return false
	}

	tab := m.tabs[idx]
	wasActive := id == m.activeID

	if wasActive {
		m.saveActive()
	}

	// A background tab that was never selected only has its document in the
	// creation caches.
	if _, ok := m.states[id]; !ok {
		_, pending := m.pending[id]
		_, created := m.justCreated[id]

		if pending || created {
			m.states[id] = m.resolve(id, false).Clone()
		}
	}

	delete(m.unsaved, id)
	delete(m.pending, id)
	delete(m.justCreated, id)

	if tab.FilePath == "" {
		if state, ok := m.states[id]; ok {
			m.closedInternal[id] = state.Clone()
		}
	}

	m.tabs = slices.Delete(m.tabs, idx, idx+1)

	m.logger.Debug("tab closed", "tab_id", id)

	if !wasActive {
		return true
	}

	m.activeID = ""

	if len(m.tabs) == 0 {
		m.store.Reset()

		return true
	}

	next := min(idx, len(m.tabs)-1)
	m.SelectTab(m.tabs[next].ID)

	return true
}

// Forget drops every stored state of a document whose tab is not open.
func (m *Manager) Forget(id string) bool {
	if m.find(id) != nil {
		return false
	}

	_, known := m.states[id]
	_, closed := m.closedInternal[id]

	delete(m.states, id)
	delete(m.closedInternal, id)

	return known || closed
}

// StateByID returns a copy of a document's current state. The active tab is
// read from the live store.
func (m *Manager) StateByID(id string) (*models.WorkflowState, bool) {
	if id != "" && id == m.activeID {
		return m.store.State(), true
	}

	if !m.known(id) {
		return nil, false
	}

	return m.resolve(id, false).Clone(), true
}

// GraphDefinition resolves a subworkflow document by its definition id.
func (m *Manager) GraphDefinition(workflowID string) (*models.WorkflowState, bool) {
	return m.StateByID(workflowID)
}

// UpdateStateInternal patches a stored document and marks its tab unsaved.
// Every stored copy of the document is patched so that no resolution level
// can bring back the old content. If the document is active the patch goes to
// the live store instead.
func (m *Manager) UpdateStateInternal(id string, patch Patch) bool {
	if id != "" && id == m.activeID {
		applyToStore(m.store, patch)
		m.MarkUnsaved(id)

		return true
	}

	if !m.known(id) {
		m.logger.Debug("internal update of unknown document ignored", "tab_id", id)

		return false
	}

	if _, ok := m.states[id]; !ok {
		m.states[id] = m.resolve(id, false).Clone()
	}

	for _, cache := range []map[string]*models.WorkflowState{m.states, m.unsaved, m.closedInternal, m.justCreated} {
		if state, ok := cache[id]; ok {
			applyToSnapshot(&state.Snapshot, patch)
		}
	}

	if snap, ok := m.pending[id]; ok {
		applyToSnapshot(snap, patch)
	}

	m.MarkUnsaved(id)

	return true
}

// MarkUnsaved flags a tab as dirty.
func (m *Manager) MarkUnsaved(id string) bool {
	tab := m.find(id)
	if tab == nil {
		return false
	}

	tab.Unsaved = true

	return true
}

// MarkSaved clears the dirty flag and the dirty-state cache.
func (m *Manager) MarkSaved(id string) bool {
	tab := m.find(id)
	if tab == nil {
		return false
	}

	tab.Unsaved = false
	delete(m.unsaved, id)

	return true
}

// UnsavedTabs lists the ids of dirty tabs in tab order.
func (m *Manager) UnsavedTabs() []string {
	ids := []string{}

	for _, t := range m.tabs {
		if t.Unsaved {
			ids = append(ids, t.ID)
		}
	}

	return ids
}

// Tabs returns copies of the open tabs in order.
func (m *Manager) Tabs() []*models.Tab {
	out := make([]*models.Tab, 0, len(m.tabs))
	for _, t := range m.tabs {
		out = append(out, t.Clone())
	}

	return out
}

// Tab returns a copy of an open tab.
func (m *Manager) Tab(id string) (*models.Tab, bool) {
	t := m.find(id)
	if t == nil {
		return nil, false
	}

	return t.Clone(), true
}

// ActiveID returns the id of the active tab, or "".
func (m *Manager) ActiveID() string {
	return m.activeID
}

// ActiveTab returns a copy of the active tab.
func (m *Manager) ActiveTab() (*models.Tab, bool) {
	return m.Tab(m.activeID)
}

// DocumentIDs lists every document the switchboard can resolve, open or not,
// in sorted order.
func (m *Manager) DocumentIDs() []string {
	set := map[string]struct{}{}

	for _, t := range m.tabs {
		set[t.ID] = struct{}{}
	}

	for id := range m.states {
		set[id] = struct{}{}
	}

	for id := range m.closedInternal {
		set[id] = struct{}{}
	}

	return slices.Sorted(maps.Keys(set))
}

// SaveActive writes the live store back to the active tab's storage.
func (m *Manager) SaveActive() {
	m.saveActive()
}

// Snapshots returns the current document of every open tab.
func (m *Manager) Snapshots() map[string]*models.Snapshot {
	out := make(map[string]*models.Snapshot, len(m.tabs))

	for _, t := range m.tabs {
		if state, ok := m.StateByID(t.ID); ok {
			out[t.ID] = &state.Snapshot
		}
	}

	return out
}

// Replace drops every tab and stored state, then opens the given tabs with
// their documents and activates activeID (or the first tab).
func (m *Manager) Replace(tabs []*models.Tab, snapshots map[string]*models.Snapshot, activeID string) {
	m.tabs = nil
	m.activeID = ""
	clear(m.states)
	clear(m.unsaved)
	clear(m.closedInternal)
	clear(m.pending)
	clear(m.justCreated)

	for _, t := range tabs {
		tab := t.Clone()
		m.tabs = append(m.tabs, tab)

		if snap, ok := snapshots[t.ID]; ok {
			m.states[t.ID] = models.WorkflowStateFrom(snap)
		}
	}

	if m.find(activeID) == nil && len(m.tabs) > 0 {
		activeID = m.tabs[0].ID
	}

	if activeID == "" {
		m.store.Reset()

		return
	}

	m.SelectTab(activeID)
}

// StoreDocument puts a document into the canonical map without opening a tab.
func (m *Manager) StoreDocument(id string, state *models.WorkflowState) {
	if id == m.activeID {
		m.store.Load(state)

		return
	}

	m.states[id] = state.Clone()
}

func (m *Manager) saveActive() {
	if m.activeID == "" {
		return
	}

	state := m.store.State()
	m.states[m.activeID] = state

	if tab := m.find(m.activeID); tab != nil && tab.Unsaved {
		m.unsaved[m.activeID] = state.Clone()
	}
}

// resolve walks the resolution order. With consume set, one-shot states are
// removed once used.
func (m *Manager) resolve(id string, consume bool) *models.WorkflowState {
	if state, ok := m.justCreated[id]; ok {
		if consume {
			delete(m.justCreated, id)
			delete(m.pending, id)
		}

		return state
	}

	if snap, ok := m.pending[id]; ok {
		if consume {
			delete(m.pending, id)
		}

		return models.WorkflowStateFrom(snap)
	}

	tab := m.find(id)

	if tab != nil && tab.Unsaved {
		if state, ok := m.unsaved[id]; ok {
			return state
		}
	}

	if tab == nil || tab.FilePath == "" {
		if state, ok := m.closedInternal[id]; ok {
			if consume {
				delete(m.closedInternal, id)
			}

			return state
		}
	}

	if state, ok := m.states[id]; ok {
		return state
	}

	return models.NewWorkflowState()
}

func (m *Manager) known(id string) bool {
	if m.find(id) != nil {
		return true
	}

	_, ok := m.states[id]
	if ok {
		return true
	}

	_, ok = m.closedInternal[id]

	return ok
}

func (m *Manager) find(id string) *models.Tab {
	for _, t := range m.tabs {
		if t.ID == id {
			return t
		}
	}

	return nil
}

func applyToStore(s *store.Store, patch Patch) {
	if patch.Nodes != nil {
		s.SetNodes(models.CloneNodes(patch.Nodes))
	}

	if patch.Connections != nil {
		s.SetConnections(models.CloneConnections(patch.Connections))
	}

	if patch.LogicalInterfaces != nil {
		s.SetLogicalInterfaces(models.CloneLogicalInterfaces(patch.LogicalInterfaces))
	}
}

func applyToSnapshot(snap *models.Snapshot, patch Patch) {
	if patch.Nodes != nil {
		snap.Nodes = models.CloneNodes(patch.Nodes)
	}

	if patch.Connections != nil {
		snap.Connections = models.CloneConnections(patch.Connections)
	}

	if patch.LogicalInterfaces != nil {
		snap.LogicalInterfaces = models.CloneLogicalInterfaces(patch.LogicalInterfaces)
	}
}
