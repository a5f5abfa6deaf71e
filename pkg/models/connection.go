package models

// Endpoint is one end of a connection.
type Endpoint struct {
	NodeID string   `json:"nodeId" validate:"required"`
	PortID string   `json:"portId" validate:"required"`
	Side   PortSide `json:"side"   validate:"omitempty,oneof=input output"`
}

// Connection links an output port to an input port inside one document.
type Connection struct {
	ID     string   `json:"id"     validate:"required"`
	Source Endpoint `json:"source"`
	Target Endpoint `json:"target"`
	Color  string   `json:"color,omitempty"` // Cached at creation time
}

// NewConnection creates a connection from an output port to an input port.
func NewConnection(sourceNodeID, sourcePortID, targetNodeID, targetPortID, color string) *Connection {
	return &Connection{
		ID:     NewID("conn"),
		Source: Endpoint{NodeID: sourceNodeID, PortID: sourcePortID, Side: PortSideOutput},
		Target: Endpoint{NodeID: targetNodeID, PortID: targetPortID, Side: PortSideInput},
		Color:  color,
	}
}

// Touches reports whether either endpoint belongs to the node.
func (c *Connection) Touches(nodeID string) bool {
	return c.Source.NodeID == nodeID || c.Target.NodeID == nodeID
}

// TouchesAny reports whether either endpoint belongs to one of the nodes.
func (c *Connection) TouchesAny(nodeIDs map[string]bool) bool {
	return nodeIDs[c.Source.NodeID] || nodeIDs[c.Target.NodeID]
}

// Internal reports whether both endpoints belong to the node set.
func (c *Connection) Internal(nodeIDs map[string]bool) bool {
	return nodeIDs[c.Source.NodeID] && nodeIDs[c.Target.NodeID]
}

// TouchesPort reports whether either endpoint is the given port of the given node.
func (c *Connection) TouchesPort(nodeID, portID string) bool {
	return (c.Source.NodeID == nodeID && c.Source.PortID == portID) ||
		(c.Target.NodeID == nodeID && c.Target.PortID == portID)
}

// Clone returns a copy of the connection.
func (c *Connection) Clone() *Connection {
	if c == nil {
		return nil
	}

	cc := *c

	return &cc
}

// CloneConnections copies a connection list.
func CloneConnections(conns []*Connection) []*Connection {
	if conns == nil {
		return nil
	}

	out := make([]*Connection, len(conns))
	for i, c := range conns {
		out[i] = c.Clone()
	}

	return out
}

// DanglingConnections returns the connections whose endpoints do not resolve to
// an existing port on a live node of the same document.
func DanglingConnections(nodes []*Node, conns []*Connection) []*Connection {
	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	var dangling []*Connection

	for _, c := range conns {
		src, ok := byID[c.Source.NodeID]
		if !ok {
			dangling = append(dangling, c)

			continue
		}

		tgt, ok := byID[c.Target.NodeID]
		if !ok {
			dangling = append(dangling, c)

			continue
		}

		_, srcOK := src.Port(PortSideOutput, c.Source.PortID)
		_, tgtOK := tgt.Port(PortSideInput, c.Target.PortID)

		if !srcOK || !tgtOK {
			dangling = append(dangling, c)
		}
	}

	return dangling
}
