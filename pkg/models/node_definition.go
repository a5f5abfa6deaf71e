package models

import (
	"context"

	"github.com/mohae/deepcopy"
)

// ExecuteFunc runs a node type. It is never serialized.
type ExecuteFunc func(ctx context.Context, inputs map[string]any) (map[string]any, error)

// PortTemplate describes a port every node of a type starts with.
type PortTemplate struct {
	Label    string   `json:"label"    validate:"required"`
	DataType DataType `json:"dataType"`
	Required bool     `json:"required"`
}

// NodeDefinition describes a node type available in the palette.
type NodeDefinition struct {
	Type         string         `json:"type"                  validate:"required"`
	Title        string         `json:"title"                 validate:"required"`
	Category     string         `json:"category"`
	Description  string         `json:"description"`
	Inputs       []PortTemplate `json:"inputs"                validate:"dive"`
	Outputs      []PortTemplate `json:"outputs"               validate:"dive"`
	DefaultWidth float64        `json:"defaultWidth"`
	DefaultData  map[string]any `json:"defaultData,omitempty"`
	Custom       bool           `json:"custom"`

	Execute ExecuteFunc `json:"-"`
}

// Instantiate builds a node of this type with fresh port ids.
func (d *NodeDefinition) Instantiate(x, y, height float64) *Node {
	node := &Node{
		ID:      NewID("node"),
		Type:    d.Type,
		Title:   d.Title,
		X:       x,
		Y:       y,
		Width:   d.DefaultWidth,
		Height:  height,
		Inputs:  make([]*Port, 0, len(d.Inputs)),
		Outputs: make([]*Port, 0, len(d.Outputs)),
		Data:    map[string]any{},
	}

	for _, t := range d.Inputs {
		node.Inputs = append(node.Inputs, NewPort(NewID("in"), t.Label, t.DataType, t.Required))
	}

	for _, t := range d.Outputs {
		node.Outputs = append(node.Outputs, NewPort(NewID("out"), t.Label, t.DataType, t.Required))
	}

	if d.DefaultData != nil {
		node.Data = deepcopy.Copy(d.DefaultData).(map[string]any)
	}

	return node
}

// Stripped returns a copy without the executable part, suitable for export.
func (d *NodeDefinition) Stripped() *NodeDefinition {
	c := *d
	c.Execute = nil

	return &c
}
