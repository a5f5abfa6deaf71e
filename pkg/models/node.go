// Package models defines the graph document model shared by the editor core.
package models

import (
	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
)

// Built-in node types the core gives meaning to.
const (
	NodeTypeInterfaceInput  = "interface:input"      // Declares one input of a subworkflow document
	NodeTypeInterfaceOutput = "interface:output"     // Declares one output of a subworkflow document
	NodeTypeSubWorkflow     = "subworkflow:instance" // Placeholder standing in for a whole subworkflow
)

// Data bag keys read and written by the core.
const (
	DataKeyInterfaceName = "interfaceName"
	DataKeyDataType      = "dataType"
	DataKeyRequired      = "required"
	DataKeySubWorkflowID = "subWorkflowId"
	DataKeyPortMapping   = "portMapping"
)

// NewID mints a fresh identity with a readable prefix.
func NewID(prefix string) string {
	if prefix == "" {
		return uuid.New().String()
	}

	return prefix + "-" + uuid.New().String()
}

// Point is a world-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a typed vertex of a graph document.
type Node struct {
	ID               string         `json:"id"                         validate:"required"`
	Type             string         `json:"type"                       validate:"required"`
	Title            string         `json:"title"`
	X                float64        `json:"x"`
	Y                float64        `json:"y"`
	Width            float64        `json:"width"                      validate:"gte=0"`
	Height           float64        `json:"height"                     validate:"gte=0"`
	Inputs           []*Port        `json:"inputs"                     validate:"dive"`
	Outputs          []*Port        `json:"outputs"                    validate:"dive"`
	Data             map[string]any `json:"data,omitempty"`
	ExecutionStateID string         `json:"executionStateId,omitempty"`

	// OriginalID is only set on clipboard and group clones; it records the
	// identity the node had before it was cloned.
	OriginalID string `json:"originalId,omitempty"`
}

// Bounds returns the node rectangle.
func (n *Node) Bounds() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// IsInterfaceNode reports whether the node declares a subworkflow input or output.
func (n *Node) IsInterfaceNode() bool {
	return n.Type == NodeTypeInterfaceInput || n.Type == NodeTypeInterfaceOutput
}

// InterfaceDirection returns the direction an interface node declares.
func (n *Node) InterfaceDirection() (InterfaceDirection, bool) {
	switch n.Type {
	case NodeTypeInterfaceInput:
		return InterfaceInput, true
	case NodeTypeInterfaceOutput:
		return InterfaceOutput, true
	default:
		return "", false
	}
}

// IsSubWorkflowInstance reports whether the node is a placeholder for a subworkflow.
func (n *Node) IsSubWorkflowInstance() bool {
	return n.Type == NodeTypeSubWorkflow
}

// Port looks up a port by id on the given side.
func (n *Node) Port(side PortSide, portID string) (*Port, bool) {
	ports := n.Inputs
	if side == PortSideOutput {
		ports = n.Outputs
	}

	for _, p := range ports {
		if p.ID == portID {
			return p, true
		}
	}

	return nil, false
}

// PortIDs returns the ids of every input and output port.
func (n *Node) PortIDs() []string {
	ids := make([]string, 0, len(n.Inputs)+len(n.Outputs))
	for _, p := range n.Inputs {
		ids = append(ids, p.ID)
	}

	for _, p := range n.Outputs {
		ids = append(ids, p.ID)
	}

	return ids
}

// Clone returns a deep copy of the node, including its data bag.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := *n
	c.Inputs = ClonePorts(n.Inputs)
	c.Outputs = ClonePorts(n.Outputs)

	if n.Data != nil {
		c.Data = deepcopy.Copy(n.Data).(map[string]any)
	}

	return &c
}

// CloneNodes deep-copies a node list.
func CloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}

	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}

	return out
}

// NodeStatus defines the possible states of a node execution.
type NodeStatus string

const (
	NodeStatusIdle    NodeStatus = "idle"
	NodeStatusPending NodeStatus = "pending"
	NodeStatusRunning NodeStatus = "running"
	NodeStatusSuccess NodeStatus = "success"
	NodeStatusError   NodeStatus = "error"
)
