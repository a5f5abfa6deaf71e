package models

// ClipboardContent is a deep-cloned subgraph ready to be pasted.
type ClipboardContent struct {
	Nodes       []*Node       `json:"nodes"`       // Each clone carries OriginalID
	Connections []*Connection `json:"connections"` // Only connections internal to Nodes
	Bounds      Rect          `json:"bounds"`
	FromCut     bool          `json:"fromCut"`
}

// NodeGroupDefinition is a reusable template of nodes and their internal
// connections, kept in the project's group library.
type NodeGroupDefinition struct {
	ID          string        `json:"id"          validate:"required"`
	Name        string        `json:"name"        validate:"required"`
	Description string        `json:"description"`
	Nodes       []*Node       `json:"nodes"       validate:"dive"`
	Connections []*Connection `json:"connections" validate:"dive"`
	Bounds      Rect          `json:"bounds"`
}

// Clone deep-copies the group.
func (g *NodeGroupDefinition) Clone() *NodeGroupDefinition {
	if g == nil {
		return nil
	}

	c := *g
	c.Nodes = CloneNodes(g.Nodes)
	c.Connections = CloneConnections(g.Connections)

	return &c
}
