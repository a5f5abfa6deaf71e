package models

import (
	"cmp"
	"slices"
)

// InterfaceDirection marks an interface item as an input or an output.
type InterfaceDirection string

const (
	InterfaceInput  InterfaceDirection = "input"
	InterfaceOutput InterfaceDirection = "output"
)

// LogicalInterface is an interface item listed in a subworkflow document's side
// panel. Logical items have no canvas node yet; derived items mirror one.
type LogicalInterface struct {
	ID        string             `json:"id"        validate:"required"`
	Name      string             `json:"name"      validate:"required"`
	DataType  DataType           `json:"dataType"`
	Required  bool               `json:"required"`
	Direction InterfaceDirection `json:"direction" validate:"oneof=input output"`
	Logical   bool               `json:"logical"`
	NodeID    string             `json:"nodeId,omitempty"`
}

// CloneLogicalInterfaces copies a logical interface list.
func CloneLogicalInterfaces(items []*LogicalInterface) []*LogicalInterface {
	if items == nil {
		return nil
	}

	out := make([]*LogicalInterface, len(items))
	for i, it := range items {
		c := *it
		out[i] = &c
	}

	return out
}

// InterfaceDefinition is one declared input or output of a subworkflow.
type InterfaceDefinition struct {
	Name     string   `json:"name"`
	DataType DataType `json:"dataType"`
	Required bool     `json:"required"`
	NodeID   string   `json:"nodeId"` // Interface node it originates from
}

// CompareInterfaces is the deterministic sort order used to diff interface lists.
func CompareInterfaces(a, b InterfaceDefinition) int {
	return cmp.Or(
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.DataType, b.DataType),
		cmp.Compare(a.NodeID, b.NodeID),
	)
}

// SortInterfaces orders an interface list in place with CompareInterfaces.
func SortInterfaces(list []InterfaceDefinition) {
	slices.SortStableFunc(list, CompareInterfaces)
}

// SubWorkflowDefinition describes a reusable subworkflow and its interface.
type SubWorkflowDefinition struct {
	ID          string                `json:"id"          validate:"required"`
	Name        string                `json:"name"        validate:"required"`
	Description string                `json:"description"`
	Inputs      []InterfaceDefinition `json:"inputs"`
	Outputs     []InterfaceDefinition `json:"outputs"`
}

// Clone copies the definition.
func (d *SubWorkflowDefinition) Clone() *SubWorkflowDefinition {
	if d == nil {
		return nil
	}

	c := *d
	c.Inputs = slices.Clone(d.Inputs)
	c.Outputs = slices.Clone(d.Outputs)

	return &c
}

// InterfaceNodeData is the typed view of an interface node's data bag.
type InterfaceNodeData struct {
	Name     string   `mapstructure:"interfaceName"`
	DataType DataType `mapstructure:"dataType"`
	Required *bool    `mapstructure:"required"`
}

// InstanceNodeData is the typed view of a subworkflow instance node's data bag.
type InstanceNodeData struct {
	SubWorkflowID string              `mapstructure:"subWorkflowId"`
	PortMapping   map[string][]string `mapstructure:"portMapping"`
}
