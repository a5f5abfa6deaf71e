// Package models defines the core document models for the graph editor.
package models

import "slices"

// DefaultScale is the camera zoom of a blank document.
const DefaultScale = 1.0

// Snapshot is a complete, serializable copy of a graph document. It is the unit
// of undo/redo, tab storage and export.
type Snapshot struct {
	Nodes                []*Node             `json:"nodes"                validate:"dive"`
	Connections          []*Connection       `json:"connections"          validate:"dive"`
	DefinedAreas         []*DefinedArea      `json:"definedAreas"         validate:"dive"`
	LogicalInterfaces    []*LogicalInterface `json:"logicalInterfaces"    validate:"dive"`
	Pan                  Point               `json:"pan"`
	Scale                float64             `json:"scale"                validate:"gt=0"`
	SelectedNodeIDs      []string            `json:"selectedNodeIds"`
	SelectedConnectionID string              `json:"selectedConnectionId"`
	NodeExecutionStates  ExecutionStates     `json:"nodeExecutionStates"`
	NodeTypeToPlace      string              `json:"nodeTypeToPlace"`
}

// NewSnapshot returns the blank document template.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Nodes:               []*Node{},
		Connections:         []*Connection{},
		DefinedAreas:        []*DefinedArea{},
		LogicalInterfaces:   []*LogicalInterface{},
		Scale:               DefaultScale,
		SelectedNodeIDs:     []string{},
		NodeExecutionStates: ExecutionStates{},
	}
}

// Node finds a node by id.
func (s *Snapshot) Node(id string) *Node {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n
		}
	}

	return nil
}

// Clone deep-copies the snapshot. Nil slices come back as empty slices so the
// copy always serializes as a complete document.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}

	c := &Snapshot{
		Nodes:                CloneNodes(s.Nodes),
		Connections:          CloneConnections(s.Connections),
		DefinedAreas:         CloneAreas(s.DefinedAreas),
		LogicalInterfaces:    CloneLogicalInterfaces(s.LogicalInterfaces),
		Pan:                  s.Pan,
		Scale:                s.Scale,
		SelectedNodeIDs:      slices.Clone(s.SelectedNodeIDs),
		SelectedConnectionID: s.SelectedConnectionID,
		NodeExecutionStates:  s.NodeExecutionStates.Clone(),
		NodeTypeToPlace:      s.NodeTypeToPlace,
	}

	c.normalize()

	return c
}

func (s *Snapshot) normalize() {
	if s.Nodes == nil {
		s.Nodes = []*Node{}
	}

	if s.Connections == nil {
		s.Connections = []*Connection{}
	}

	if s.DefinedAreas == nil {
		s.DefinedAreas = []*DefinedArea{}
	}

	if s.LogicalInterfaces == nil {
		s.LogicalInterfaces = []*LogicalInterface{}
	}

	if s.SelectedNodeIDs == nil {
		s.SelectedNodeIDs = []string{}
	}

	if s.NodeExecutionStates == nil {
		s.NodeExecutionStates = ExecutionStates{}
	}

	if s.Scale <= 0 {
		s.Scale = DefaultScale
	}
}

// WorkflowState is the full per-tab document: the snapshot plus its timeline.
type WorkflowState struct {
	Snapshot

	History       []*HistoryEntry `json:"history,omitempty"`
	HistoryCursor int             `json:"historyCursor"`
}

// NewWorkflowState returns a blank document with an empty timeline.
func NewWorkflowState() *WorkflowState {
	return &WorkflowState{Snapshot: *NewSnapshot()}
}

// WorkflowStateFrom wraps a snapshot in a fresh state with an empty timeline.
func WorkflowStateFrom(snapshot *Snapshot) *WorkflowState {
	if snapshot == nil {
		return NewWorkflowState()
	}

	return &WorkflowState{Snapshot: *snapshot.Clone()}
}

// Clone copies the state. History entries are immutable and shared.
func (ws *WorkflowState) Clone() *WorkflowState {
	if ws == nil {
		return nil
	}

	return &WorkflowState{
		Snapshot:      *ws.Snapshot.Clone(),
		History:       slices.Clone(ws.History),
		HistoryCursor: ws.HistoryCursor,
	}
}
