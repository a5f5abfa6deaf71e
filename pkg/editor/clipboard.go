package editor

import (
	"context"
	"slices"

	"github.com/dukex/graphdesk/pkg/clone"
	"github.com/dukex/graphdesk/pkg/history"
	"github.com/dukex/graphdesk/pkg/models"
)

// Copy puts the given nodes and their internal connections on the clipboard.
// Copying is not recorded on the timeline.
func (e *Editor) Copy(nodeIDs []string) bool {
	content, ok := clone.Copy(nodeIDs, e.store.Nodes(), e.store.Connections())
	if !ok {
		return false
	}

	e.clipboard.Set(content)
	e.logger.Debug("nodes copied", "nodes", len(content.Nodes), "connections", len(content.Connections))

	return true
}

// Cut copies the nodes to the clipboard, then deletes them together with
// every connection touching them. The clipboard can be pasted once.
func (e *Editor) Cut(ctx context.Context, nodeIDs []string) bool {
	content, touching, ok := clone.Cut(nodeIDs, e.store.Nodes(), e.store.Connections())
	if !ok {
		return false
	}

	e.clipboard.Set(content)

	drop := map[string]bool{}
	for _, id := range touching {
		drop[id] = true
	}

	e.store.SetConnections(slices.DeleteFunc(slices.Clone(e.store.Connections()), func(c *models.Connection) bool {
		return drop[c.ID]
	}))

	removed := e.removeNodes(nodeIDs)

	ids := make([]string, 0, len(removed))
	for _, n := range removed {
		ids = append(ids, n.ID)
	}

	e.store.SetSelectedNodeIDs(nil)
	e.store.SetSelectedConnectionID("")

	e.record(ctx, models.ActionCut, history.ActionData{NodeIDs: ids})

	return true
}

// Paste places the clipboard content centered on the anchor with fresh ids
// and selects the pasted nodes.
func (e *Editor) Paste(ctx context.Context, anchorX, anchorY float64) (*clone.PasteResult, error) {
	content, ok := e.clipboard.Take()
	if !ok {
		return nil, newError("Paste", ErrEmptyClipboard, "")
	}

	result, ok := clone.Paste(content, anchorX, anchorY)
	if !ok {
		return nil, newError("Paste", ErrEmptyClipboard, "")
	}

	if !e.admit(result) {
		// Nothing was placed, so a cut can still be pasted elsewhere.
		if content.FromCut {
			e.clipboard.Set(content)
		}

		return nil, newError("Paste", ErrRecursiveSubWorkflow, "")
	}

	e.place(ctx, models.ActionPaste, result, "")

	return result, nil
}

// SaveNodeGroup stores the given nodes and their internal connections in the
// group library.
func (e *Editor) SaveNodeGroup(ctx context.Context, name, description string, nodeIDs []string) (*models.NodeGroupDefinition, error) {
	group, ok := clone.SaveGroup(name, description, nodeIDs, e.store.Nodes(), e.store.Connections())
	if !ok {
		return nil, newError("SaveNodeGroup", ErrEmptySelection, "")
	}

	e.groups = append(e.groups, group)

	ids := make([]string, 0, len(group.Nodes))
	for _, n := range group.Nodes {
		ids = append(ids, n.OriginalID)
	}

	e.record(ctx, models.ActionCreateNodeGroup, history.ActionData{NodeIDs: ids, GroupName: name})

	return group.Clone(), nil
}

// DropNodeGroup places a copy of a library group centered on the anchor.
func (e *Editor) DropNodeGroup(ctx context.Context, groupID string, anchorX, anchorY float64) (*clone.PasteResult, error) {
	idx := slices.IndexFunc(e.groups, func(g *models.NodeGroupDefinition) bool { return g.ID == groupID })
	if idx < 0 {
		return nil, newError("DropNodeGroup", ErrGroupNotFound, groupID)
	}

	group := e.groups[idx]

	result, ok := clone.DropGroup(group, anchorX, anchorY)
	if !ok {
		return nil, newError("DropNodeGroup", ErrEmptySelection, "group has no nodes")
	}

	if !e.admit(result) {
		return nil, newError("DropNodeGroup", ErrRecursiveSubWorkflow, group.Name)
	}

	e.place(ctx, models.ActionDropNodeGroup, result, group.Name)

	return result, nil
}

// NodeGroups returns copies of the group library.
func (e *Editor) NodeGroups() []*models.NodeGroupDefinition {
	out := make([]*models.NodeGroupDefinition, 0, len(e.groups))
	for _, g := range e.groups {
		out = append(out, g.Clone())
	}

	return out
}

// DeleteNodeGroup removes a group from the library.
func (e *Editor) DeleteNodeGroup(groupID string) bool {
	n := len(e.groups)
	e.groups = slices.DeleteFunc(e.groups, func(g *models.NodeGroupDefinition) bool { return g.ID == groupID })

	return len(e.groups) != n
}

// admit prepares pasted nodes for the active document. Inside a subworkflow
// document, instances of that same subworkflow are left out. Remaining
// instances take the current ports of their definitions. It reports whether
// any node is left to place.
func (e *Editor) admit(result *clone.PasteResult) bool {
	if tab, ok := e.tabs.ActiveTab(); ok && tab.IsSubWorkflow() {
		dropped := map[string]bool{}

		result.Nodes = slices.DeleteFunc(result.Nodes, func(n *models.Node) bool {
			if n.ReferencesSubWorkflow(tab.SubWorkflowID) {
				dropped[n.ID] = true

				return true
			}

			return false
		})

		result.Connections = slices.DeleteFunc(result.Connections, func(c *models.Connection) bool {
			return c.TouchesAny(dropped)
		})
	}

	result.Nodes, result.Connections, _ = e.subworkflows.Conform(result.Nodes, result.Connections)

	return len(result.Nodes) > 0
}

// place inserts admitted nodes, selects them and records the action.
func (e *Editor) place(ctx context.Context, action models.ActionType, result *clone.PasteResult, groupName string) {
	e.insertNodes(ctx, result.Nodes, result.Connections)

	ids := make([]string, 0, len(result.Nodes))
	for _, n := range result.Nodes {
		ids = append(ids, n.ID)
	}

	e.store.SetSelectedNodeIDs(ids)
	e.store.SetSelectedConnectionID("")

	e.record(ctx, action, history.ActionData{NodeIDs: ids, GroupName: groupName})
}
