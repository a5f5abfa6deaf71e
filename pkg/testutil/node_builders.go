// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/dukex/graphdesk/pkg/models"
	"github.com/google/uuid"
)

// Port ids every node built by CreateTestNode carries.
const (
	InputPortID  = "in"
	OutputPortID = "out"
)

// CreateTestNode creates a test Node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		ID:      uuid.New().String(),
		Type:    "log",
		Title:   "Test Node",
		X:       100,
		Y:       200,
		Width:   100,
		Height:  50,
		Inputs:  []*models.Port{models.NewPort(InputPortID, "input", models.DataTypeAny, false)},
		Outputs: []*models.Port{models.NewPort(OutputPortID, "output", models.DataTypeAny, false)},
		Data:    map[string]any{"message": "test", "level": "info"},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node ID.
func WithID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.ID = id
	}
}

// WithTitle sets the node title.
func WithTitle(title string) func(*models.Node) {
	return func(n *models.Node) {
		n.Title = title
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = nodeType
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.Node) {
	return func(n *models.Node) {
		n.X = x
		n.Y = y
	}
}

// WithSize sets the node size.
func WithSize(width, height float64) func(*models.Node) {
	return func(n *models.Node) {
		n.Width = width
		n.Height = height
	}
}

// WithData sets the node data bag.
func WithData(data map[string]any) func(*models.Node) {
	return func(n *models.Node) {
		n.Data = data
	}
}

// WithInputs replaces the input ports.
func WithInputs(ports ...*models.Port) func(*models.Node) {
	return func(n *models.Node) {
		n.Inputs = ports
	}
}

// WithOutputs replaces the output ports.
func WithOutputs(ports ...*models.Port) func(*models.Node) {
	return func(n *models.Node) {
		n.Outputs = ports
	}
}

// CreateInterfaceNode creates an interface declaration node with a populated data bag.
func CreateInterfaceNode(
	id string,
	direction models.InterfaceDirection,
	name string,
	dataType models.DataType,
	required bool,
) *models.Node {
	node := CreateTestNode(
		WithID(id),
		WithTitle(name),
		WithData(map[string]any{
			models.DataKeyInterfaceName: name,
			models.DataKeyDataType:      string(dataType),
			models.DataKeyRequired:      required,
		}),
	)

	port := models.NewPort("value", name, dataType, required)

	if direction == models.InterfaceInput {
		node.Type = models.NodeTypeInterfaceInput
		node.Inputs = []*models.Port{}
		node.Outputs = []*models.Port{port}
	} else {
		node.Type = models.NodeTypeInterfaceOutput
		node.Inputs = []*models.Port{port}
		node.Outputs = []*models.Port{}
	}

	return node
}

// CreateSnapshot creates a blank snapshot holding the given nodes and connections.
func CreateSnapshot(nodes []*models.Node, conns []*models.Connection) *models.Snapshot {
	snap := models.NewSnapshot()
	snap.Nodes = nodes
	snap.Connections = conns

	return snap
}

// CreateTestConnection creates a connection from the default output port of the
// source node to the default input port of the target node.
func CreateTestConnection(sourceNodeID, targetNodeID string) *models.Connection {
	return &models.Connection{
		ID:     uuid.New().String(),
		Source: models.Endpoint{NodeID: sourceNodeID, PortID: OutputPortID, Side: models.PortSideOutput},
		Target: models.Endpoint{NodeID: targetNodeID, PortID: InputPortID, Side: models.PortSideInput},
	}
}

// CreatePortConnection creates a connection between explicit ports.
func CreatePortConnection(sourceNodeID, sourcePortID, targetNodeID, targetPortID string) *models.Connection {
	return &models.Connection{
		ID:     uuid.New().String(),
		Source: models.Endpoint{NodeID: sourceNodeID, PortID: sourcePortID, Side: models.PortSideOutput},
		Target: models.Endpoint{NodeID: targetNodeID, PortID: targetPortID, Side: models.PortSideInput},
	}
}
