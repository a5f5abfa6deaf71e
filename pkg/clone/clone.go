// Package clone copies node subgraphs and remaps their identities for
// copy, cut, paste and node group templates.
//
// Every function is pure: inputs are never modified and results never alias them.
package clone

import (
	"github.com/dukex/graphdesk/pkg/models"
)

// PasteResult holds the nodes and connections to add to the live document.
type PasteResult struct {
	Nodes       []*models.Node
	Connections []*models.Connection
	IDMap       map[string]string // original node id -> pasted node id
}

// Bounds returns the bounding box of the given nodes.
func Bounds(nodes []*models.Node) (models.Rect, bool) {
	return models.BoundingBox(nodes)
}

// Copy clones the requested nodes and the connections strictly internal to
// them. It returns false when none of the ids match a node.
func Copy(nodeIDs []string, nodes []*models.Node, conns []*models.Connection) (*models.ClipboardContent, bool) {
	selected := idSet(nodeIDs)

	picked := make([]*models.Node, 0, len(nodeIDs))
	for _, n := range nodes {
		if selected[n.ID] {
			picked = append(picked, n)
		}
	}

	bounds, ok := Bounds(picked)
	if !ok {
		return nil, false
	}

	content := &models.ClipboardContent{
		Nodes:       make([]*models.Node, 0, len(picked)),
		Connections: []*models.Connection{},
		Bounds:      bounds,
	}

	present := make(map[string]bool, len(picked))
	for _, n := range picked {
		c := n.Clone()
		c.OriginalID = n.ID
		content.Nodes = append(content.Nodes, c)
		present[n.ID] = true
	}

	for _, c := range conns {
		if c.Internal(present) {
			content.Connections = append(content.Connections, c.Clone())
		}
	}

	return content, true
}

// Cut behaves like Copy and also returns the id of every connection touching a
// cut node, internal or not, so the caller can delete them all.
func Cut(nodeIDs []string, nodes []*models.Node, conns []*models.Connection) (*models.ClipboardContent, []string, bool) {
	content, ok := Copy(nodeIDs, nodes, conns)
	if !ok {
		return nil, nil, false
	}

	content.FromCut = true

	present := make(map[string]bool, len(content.Nodes))
	for _, n := range content.Nodes {
		present[n.OriginalID] = true
	}

	touching := []string{}

	for _, c := range conns {
		if c.TouchesAny(present) {
			touching = append(touching, c.ID)
		}
	}

	return content, touching, true
}

// Paste mints fresh identities for the clipboard nodes and positions the group
// so that its bounding-box center lands on the anchor. Internal connections are
// remapped to the new ids; a connection whose endpoint cannot be remapped is
// dropped.
func Paste(content *models.ClipboardContent, anchorX, anchorY float64) (*PasteResult, bool) {
	if content == nil || len(content.Nodes) == 0 {
		return nil, false
	}

	center := content.Bounds.Center()

	result := &PasteResult{
		Nodes:       make([]*models.Node, 0, len(content.Nodes)),
		Connections: make([]*models.Connection, 0, len(content.Connections)),
		IDMap:       make(map[string]string, len(content.Nodes)),
	}

	for _, n := range content.Nodes {
		origID := n.OriginalID
		if origID == "" {
			origID = n.ID
		}

		c := n.Clone()
		c.ID = models.NewID("node")
		c.OriginalID = ""
		c.ExecutionStateID = ""
		c.X = anchorX + (n.X - center.X)
		c.Y = anchorY + (n.Y - center.Y)

		result.IDMap[origID] = c.ID
		result.Nodes = append(result.Nodes, c)
	}

	for _, conn := range content.Connections {
		src, srcOK := result.IDMap[conn.Source.NodeID]
		tgt, tgtOK := result.IDMap[conn.Target.NodeID]

		if !srcOK || !tgtOK {
			continue
		}

		c := conn.Clone()
		c.ID = models.NewID("conn")
		c.Source.NodeID = src
		c.Target.NodeID = tgt
		result.Connections = append(result.Connections, c)
	}

	return result, true
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set
}
