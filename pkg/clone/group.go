package clone

import "github.com/dukex/graphdesk/pkg/models"

// SaveGroup captures the nodes and their internal connections as a reusable
// template. Nodes keep their internal ids until the group is dropped.
func SaveGroup(
	name, description string,
	nodeIDs []string,
	nodes []*models.Node,
	conns []*models.Connection,
) (*models.NodeGroupDefinition, bool) {
	content, ok := Copy(nodeIDs, nodes, conns)
	if !ok {
		return nil, false
	}

	return &models.NodeGroupDefinition{
		ID:          models.NewID("group"),
		Name:        name,
		Description: description,
		Nodes:       content.Nodes,
		Connections: content.Connections,
		Bounds:      content.Bounds,
	}, true
}

// DropGroup instantiates a group centered on the anchor with fresh ids.
func DropGroup(group *models.NodeGroupDefinition, anchorX, anchorY float64) (*PasteResult, bool) {
	if group == nil {
		return nil, false
	}

	return Paste(&models.ClipboardContent{
		Nodes:       group.Nodes,
		Connections: group.Connections,
		Bounds:      group.Bounds,
	}, anchorX, anchorY)
}
