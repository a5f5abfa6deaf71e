package editor

import (
	"context"
	"maps"
	"slices"

	"github.com/dukex/graphdesk/pkg/history"
	"github.com/dukex/graphdesk/pkg/layout"
	"github.com/dukex/graphdesk/pkg/models"
)

// AddNode places a node of a registered type at the given position and
// consumes the pending placement tool.
func (e *Editor) AddNode(ctx context.Context, nodeType string, x, y float64) (*models.Node, error) {
	if nodeType == models.NodeTypeSubWorkflow {
		return nil, newError("AddNode", ErrUnknownNodeType, "use AddSubWorkflowInstance for subworkflow nodes")
	}

	def, ok := e.registry.NodeDefinition(nodeType)
	if !ok {
		return nil, newError("AddNode", ErrUnknownNodeType, nodeType)
	}

	node := def.Instantiate(x, y, e.height(len(def.Inputs), len(def.Outputs)))
	if node.Width == 0 {
		node.Width = layout.DefaultNodeWidth
	}

	e.insertNodes(ctx, []*models.Node{node}, nil)
	e.store.SetNodeTypeToPlace("")

	e.record(ctx, models.ActionAddNode, history.ActionData{NodeID: node.ID, Title: node.Title})

	return node.Clone(), nil
}

// DeleteNodes removes nodes, every connection touching them and their
// execution states. Unknown ids are ignored. It reports whether anything was
// removed.
func (e *Editor) DeleteNodes(ctx context.Context, nodeIDs []string) bool {
	removed := e.removeNodes(nodeIDs)
	if len(removed) == 0 {
		return false
	}

	if len(removed) == 1 {
		e.record(ctx, models.ActionDeleteNode, history.ActionData{NodeID: removed[0].ID, Title: removed[0].Title})
	} else {
		ids := make([]string, 0, len(removed))
		for _, n := range removed {
			ids = append(ids, n.ID)
		}

		e.record(ctx, models.ActionDeleteNodes, history.ActionData{NodeIDs: ids})
	}

	return true
}

// MoveNodes sets each node to the target position of its move. A single move
// is recorded as move-node, several as multi-move; moves shorter than the
// timeline threshold are applied but not recorded.
func (e *Editor) MoveNodes(ctx context.Context, moves []history.Move) bool {
	applied := make([]history.Move, 0, len(moves))
	nodes := models.CloneNodes(e.store.Nodes())

	for _, mv := range moves {
		for _, n := range nodes {
			if n.ID != mv.NodeID {
				continue
			}

			n.X, n.Y = mv.To.X, mv.To.Y
			applied = append(applied, mv)

			break
		}
	}

	if len(applied) == 0 {
		return false
	}

	e.store.SetNodes(nodes)

	action := models.ActionMultiMove
	if len(applied) == 1 {
		action = models.ActionMoveNode
	}

	return e.record(ctx, action, history.ActionData{Moves: applied})
}

// UpdateNodeData sets one key of a node's data bag.
func (e *Editor) UpdateNodeData(ctx context.Context, nodeID, key string, value any) bool {
	found := false

	e.updateNode(nodeID, func(n *models.Node) {
		if n.Data == nil {
			n.Data = map[string]any{}
		}

		n.Data[key] = value
		found = true
	})

	if !found {
		return false
	}

	e.record(ctx, models.ActionUpdateNodeData, history.ActionData{NodeID: nodeID, DataKey: key})

	return true
}

// RenameNode changes a node's title. Renaming to the same title changes
// nothing and is not recorded.
func (e *Editor) RenameNode(ctx context.Context, nodeID, title string) bool {
	n := e.store.Node(nodeID)
	if n == nil {
		return false
	}

	oldTitle := n.Title
	if oldTitle == title {
		return false
	}

	e.updateNode(nodeID, func(n *models.Node) {
		n.Title = title
	})

	e.record(ctx, models.ActionRenameNode, history.ActionData{NodeID: nodeID, OldTitle: oldTitle, NewTitle: title})

	return true
}

// Connect links an output port to an input port of another node. Duplicate
// links are rejected.
func (e *Editor) Connect(ctx context.Context, sourceNodeID, sourcePortID, targetNodeID, targetPortID string) (*models.Connection, error) {
	if sourceNodeID == targetNodeID {
		return nil, newError("Connect", ErrInvalidConnection, "a node cannot connect to itself")
	}

	source := e.store.Node(sourceNodeID)
	target := e.store.Node(targetNodeID)

	if source == nil || target == nil {
		return nil, newError("Connect", ErrNodeNotFound, "")
	}

	sourcePort, ok := source.Port(models.PortSideOutput, sourcePortID)
	if !ok {
		return nil, newError("Connect", ErrPortNotFound, sourcePortID)
	}

	if _, ok := target.Port(models.PortSideInput, targetPortID); !ok {
		return nil, newError("Connect", ErrPortNotFound, targetPortID)
	}

	for _, c := range e.store.Connections() {
		if c.Source.NodeID == sourceNodeID && c.Source.PortID == sourcePortID &&
			c.Target.NodeID == targetNodeID && c.Target.PortID == targetPortID {
			return nil, newError("Connect", ErrInvalidConnection, "ports are already connected")
		}
	}

	conn := models.NewConnection(sourceNodeID, sourcePortID, targetNodeID, targetPortID, models.PortColor(sourcePort.DataType))
	e.store.SetConnections(append(slices.Clone(e.store.Connections()), conn))

	e.record(ctx, models.ActionAddConnection, history.ActionData{ConnectionID: conn.ID})

	return conn.Clone(), nil
}

// DeleteConnection removes a connection and clears it from the selection.
func (e *Editor) DeleteConnection(ctx context.Context, connectionID string) bool {
	conns := e.store.Connections()

	idx := slices.IndexFunc(conns, func(c *models.Connection) bool { return c.ID == connectionID })
	if idx < 0 {
		return false
	}

	e.store.SetConnections(slices.Delete(slices.Clone(conns), idx, idx+1))

	if e.store.SelectedConnectionID() == connectionID {
		e.store.SetSelectedConnectionID("")
	}

	e.record(ctx, models.ActionDeleteConnection, history.ActionData{ConnectionID: connectionID})

	return true
}

// AddDefinedArea adds an annotation rectangle. An empty id is minted.
func (e *Editor) AddDefinedArea(ctx context.Context, area models.DefinedArea) *models.DefinedArea {
	if area.ID == "" {
		area.ID = models.NewID("area")
	}

	e.store.SetDefinedAreas(append(models.CloneAreas(e.store.DefinedAreas()), &area))
	e.record(ctx, models.ActionAddDefinedArea, history.ActionData{AreaID: area.ID, Title: area.Title})

	c := area

	return &c
}

// UpdateDefinedArea replaces the area with the same id.
func (e *Editor) UpdateDefinedArea(ctx context.Context, area models.DefinedArea) bool {
	areas := models.CloneAreas(e.store.DefinedAreas())

	idx := slices.IndexFunc(areas, func(a *models.DefinedArea) bool { return a.ID == area.ID })
	if idx < 0 {
		return false
	}

	areas[idx] = &area
	e.store.SetDefinedAreas(areas)
	e.record(ctx, models.ActionUpdateDefinedArea, history.ActionData{AreaID: area.ID, Title: area.Title})

	return true
}

// DeleteDefinedArea removes an annotation rectangle.
func (e *Editor) DeleteDefinedArea(ctx context.Context, areaID string) bool {
	areas := e.store.DefinedAreas()

	idx := slices.IndexFunc(areas, func(a *models.DefinedArea) bool { return a.ID == areaID })
	if idx < 0 {
		return false
	}

	title := areas[idx].Title
	e.store.SetDefinedAreas(slices.Delete(models.CloneAreas(areas), idx, idx+1))
	e.record(ctx, models.ActionDeleteDefinedArea, history.ActionData{AreaID: areaID, Title: title})

	return true
}

// SelectNodes replaces the node selection and clears the connection
// selection. Unknown ids are dropped.
func (e *Editor) SelectNodes(ctx context.Context, nodeIDs []string) bool {
	previous := slices.Clone(e.store.SelectedNodeIDs())

	selected := make([]string, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if e.store.Node(id) != nil && !slices.Contains(selected, id) {
			selected = append(selected, id)
		}
	}

	e.store.SetSelectedNodeIDs(selected)
	e.store.SetSelectedConnectionID("")

	return e.record(ctx, models.ActionMultiSelect, history.ActionData{PreviousSelection: previous})
}

// SelectConnection selects one connection and clears the node selection.
// An empty id clears the connection selection. Selection of a connection is
// not recorded on the timeline.
func (e *Editor) SelectConnection(connectionID string) bool {
	if connectionID != "" && !slices.ContainsFunc(e.store.Connections(), func(c *models.Connection) bool {
		return c.ID == connectionID
	}) {
		return false
	}

	e.store.SetSelectedConnectionID(connectionID)

	if connectionID != "" {
		e.store.SetSelectedNodeIDs(nil)
	}

	return true
}

// SetCamera moves the viewport. Camera changes are not recorded.
func (e *Editor) SetCamera(pan models.Point, scale float64) {
	e.store.SetCamera(pan, scale)
}

// SetNodeTypeToPlace arms the placement tool. An empty type disarms it.
func (e *Editor) SetNodeTypeToPlace(nodeType string) bool {
	if nodeType != "" {
		if _, ok := e.registry.NodeDefinition(nodeType); !ok {
			return false
		}
	}

	e.store.SetNodeTypeToPlace(nodeType)

	return true
}

// insertNodes appends nodes and connections to the live document.
func (e *Editor) insertNodes(_ context.Context, nodes []*models.Node, conns []*models.Connection) {
	e.store.SetNodes(append(slices.Clone(e.store.Nodes()), models.CloneNodes(nodes)...))

	if len(conns) > 0 {
		e.store.SetConnections(append(slices.Clone(e.store.Connections()), models.CloneConnections(conns)...))
	}
}

// removeNodes deletes nodes and everything that refers to them: connections,
// execution states and selection. It returns the removed nodes.
func (e *Editor) removeNodes(nodeIDs []string) []*models.Node {
	ids := map[string]bool{}
	for _, id := range nodeIDs {
		ids[id] = true
	}

	var removed []*models.Node

	kept := make([]*models.Node, 0, len(e.store.Nodes()))
	for _, n := range e.store.Nodes() {
		if ids[n.ID] {
			removed = append(removed, n)

			continue
		}

		kept = append(kept, n)
	}

	if len(removed) == 0 {
		return nil
	}

	gone := map[string]bool{}
	for _, n := range removed {
		gone[n.ID] = true
	}

	e.store.SetNodes(kept)

	selectedConn := e.store.SelectedConnectionID()
	conns := slices.DeleteFunc(slices.Clone(e.store.Connections()), func(c *models.Connection) bool {
		if !c.TouchesAny(gone) {
			return false
		}

		if c.ID == selectedConn {
			e.store.SetSelectedConnectionID("")
		}

		return true
	})
	e.store.SetConnections(conns)

	states := maps.Clone(e.store.ExecutionStates())
	maps.DeleteFunc(states, func(id string, _ *models.ExecutionState) bool { return gone[id] })
	e.store.SetExecutionStates(states)

	e.store.SetSelectedNodeIDs(slices.DeleteFunc(slices.Clone(e.store.SelectedNodeIDs()), func(id string) bool {
		return gone[id]
	}))

	return removed
}

// updateNode replaces one node with a modified copy.
func (e *Editor) updateNode(nodeID string, fn func(*models.Node)) {
	nodes := slices.Clone(e.store.Nodes())

	for i, n := range nodes {
		if n.ID != nodeID {
			continue
		}

		c := n.Clone()
		fn(c)
		nodes[i] = c
		e.store.SetNodes(nodes)

		return
	}
}
