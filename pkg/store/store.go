// Package store holds the live graph document of the active tab.
//
// The store exposes direct getters and setters instead of incremental deltas.
// Getters return the live values; callers that keep them beyond the current
// action must copy them. The store is not safe for concurrent use: every
// mutation happens on the single editor event loop.
package store

import (
	"slices"

	"github.com/dukex/graphdesk/pkg/models"
)

// Store is the live graph document.
type Store struct {
	doc     *models.Snapshot
	history []*models.HistoryEntry
	cursor  int

	nodesRevision uint64
}

// New creates a store holding a blank document.
func New() *Store {
	return &Store{doc: models.NewSnapshot()}
}

// Nodes returns the live node list.
func (s *Store) Nodes() []*models.Node {
	return s.doc.Nodes
}

// SetNodes replaces the node list.
func (s *Store) SetNodes(nodes []*models.Node) {
	if nodes == nil {
		nodes = []*models.Node{}
	}

	s.doc.Nodes = nodes
	s.nodesRevision++
}

// Node finds a live node by id.
func (s *Store) Node(id string) *models.Node {
	return s.doc.Node(id)
}

// NodesRevision increases every time the node list is replaced.
func (s *Store) NodesRevision() uint64 {
	return s.nodesRevision
}

// Connections returns the live connection list.
func (s *Store) Connections() []*models.Connection {
	return s.doc.Connections
}

// SetConnections replaces the connection list.
func (s *Store) SetConnections(conns []*models.Connection) {
	if conns == nil {
		conns = []*models.Connection{}
	}

	s.doc.Connections = conns
}

// DefinedAreas returns the live defined areas.
func (s *Store) DefinedAreas() []*models.DefinedArea {
	return s.doc.DefinedAreas
}

// SetDefinedAreas replaces the defined areas.
func (s *Store) SetDefinedAreas(areas []*models.DefinedArea) {
	if areas == nil {
		areas = []*models.DefinedArea{}
	}

	s.doc.DefinedAreas = areas
}

// LogicalInterfaces returns the live logical interface list.
func (s *Store) LogicalInterfaces() []*models.LogicalInterface {
	return s.doc.LogicalInterfaces
}

// SetLogicalInterfaces replaces the logical interface list.
func (s *Store) SetLogicalInterfaces(items []*models.LogicalInterface) {
	if items == nil {
		items = []*models.LogicalInterface{}
	}

	s.doc.LogicalInterfaces = items
}

// Camera returns the pan offset and zoom scale.
func (s *Store) Camera() (models.Point, float64) {
	return s.doc.Pan, s.doc.Scale
}

// SetCamera replaces the camera transform. Non-positive scales are ignored.
func (s *Store) SetCamera(pan models.Point, scale float64) {
	s.doc.Pan = pan
	if scale > 0 {
		s.doc.Scale = scale
	}
}

// SelectedNodeIDs returns the selected node ids.
func (s *Store) SelectedNodeIDs() []string {
	return s.doc.SelectedNodeIDs
}

// SetSelectedNodeIDs replaces the node selection.
func (s *Store) SetSelectedNodeIDs(ids []string) {
	if ids == nil {
		ids = []string{}
	}

	s.doc.SelectedNodeIDs = ids
}

// SelectedConnectionID returns the selected connection id, or "".
func (s *Store) SelectedConnectionID() string {
	return s.doc.SelectedConnectionID
}

// SetSelectedConnectionID replaces the selected connection.
func (s *Store) SetSelectedConnectionID(id string) {
	s.doc.SelectedConnectionID = id
}

// ExecutionStates returns the live node execution states.
func (s *Store) ExecutionStates() models.ExecutionStates {
	return s.doc.NodeExecutionStates
}

// SetExecutionStates replaces the node execution states.
func (s *Store) SetExecutionStates(states models.ExecutionStates) {
	if states == nil {
		states = models.ExecutionStates{}
	}

	s.doc.NodeExecutionStates = states
}

// NodeTypeToPlace returns the pending placement tool, or "".
func (s *Store) NodeTypeToPlace() string {
	return s.doc.NodeTypeToPlace
}

// SetNodeTypeToPlace replaces the pending placement tool.
func (s *Store) SetNodeTypeToPlace(nodeType string) {
	s.doc.NodeTypeToPlace = nodeType
}

// History returns the timeline, most recent first, and the cursor.
func (s *Store) History() ([]*models.HistoryEntry, int) {
	return s.history, s.cursor
}

// SetHistory replaces the timeline and cursor. The cursor is clamped to the list.
func (s *Store) SetHistory(entries []*models.HistoryEntry, cursor int) {
	s.history = entries
	s.cursor = clampCursor(cursor, len(entries))
}

// Snapshot deep-copies the live document.
func (s *Store) Snapshot() *models.Snapshot {
	return s.doc.Clone()
}

// Restore overwrites every live sub-state with a copy of the snapshot. The
// timeline is left untouched.
func (s *Store) Restore(snapshot *models.Snapshot) {
	if snapshot == nil {
		snapshot = models.NewSnapshot()
	}

	s.doc = snapshot.Clone()
	s.nodesRevision++
}

// State copies the live document together with its timeline.
func (s *Store) State() *models.WorkflowState {
	return &models.WorkflowState{
		Snapshot:      *s.doc.Clone(),
		History:       slices.Clone(s.history),
		HistoryCursor: s.cursor,
	}
}

// Load overwrites the live document and its timeline with a copy of the state.
func (s *Store) Load(state *models.WorkflowState) {
	if state == nil {
		state = models.NewWorkflowState()
	}

	s.Restore(&state.Snapshot)
	s.SetHistory(slices.Clone(state.History), state.HistoryCursor)
}

// Reset replaces the live document with a blank one and clears the timeline.
func (s *Store) Reset() {
	s.Load(nil)
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}

	if cursor >= n {
		return n - 1
	}

	return cursor
}
