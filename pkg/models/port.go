package models

import "encoding/json"

// PortSide tells whether a port receives or emits data.
type PortSide string

const (
	PortSideInput  PortSide = "input"
	PortSideOutput PortSide = "output"
)

// DataType tags the kind of value a port carries.
type DataType string

const (
	DataTypeAny     DataType = "any"
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeBoolean DataType = "boolean"
	DataTypeObject  DataType = "object"
	DataTypeArray   DataType = "array"
	DataTypeImage   DataType = "image"
)

// PortShape is the visual marker of a port. It is always derived, never set.
type PortShape string

const (
	PortShapeCircle  PortShape = "circle"  // Required
	PortShapeDiamond PortShape = "diamond" // Optional
	PortShapeSquare  PortShape = "square"  // Optional and untyped
)

// ShapeFor derives a port shape from required-ness and data type.
func ShapeFor(required bool, dataType DataType) PortShape {
	switch {
	case required:
		return PortShapeCircle
	case dataType == DataTypeAny || dataType == "":
		return PortShapeSquare
	default:
		return PortShapeDiamond
	}
}

// Port represents a connection point on a node.
type Port struct {
	ID       string   `json:"id"       validate:"required"` // Unique within the owning node
	Label    string   `json:"label"`
	DataType DataType `json:"dataType"`
	Required bool     `json:"required"`
}

// NewPort creates a port.
func NewPort(id, label string, dataType DataType, required bool) *Port {
	return &Port{ID: id, Label: label, DataType: dataType, Required: required}
}

// Shape returns the derived shape of the port.
func (p *Port) Shape() PortShape {
	return ShapeFor(p.Required, p.DataType)
}

type portJSON struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	DataType DataType  `json:"dataType"`
	Required bool      `json:"required"`
	Shape    PortShape `json:"shape"`
}

// MarshalJSON writes the derived shape alongside the port fields.
func (p Port) MarshalJSON() ([]byte, error) {
	return json.Marshal(portJSON{
		ID:       p.ID,
		Label:    p.Label,
		DataType: p.DataType,
		Required: p.Required,
		Shape:    p.Shape(),
	})
}

// UnmarshalJSON reads a port and drops any stored shape.
func (p *Port) UnmarshalJSON(data []byte) error {
	var raw portJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.ID
	p.Label = raw.Label
	p.DataType = raw.DataType
	p.Required = raw.Required

	return nil
}

// ClonePorts copies a port list.
func ClonePorts(ports []*Port) []*Port {
	if ports == nil {
		return nil
	}

	out := make([]*Port, len(ports))
	for i, p := range ports {
		c := *p
		out[i] = &c
	}

	return out
}

// PortColor returns the display color cached on connections leaving a port of this type.
func PortColor(dataType DataType) string {
	switch dataType {
	case DataTypeString:
		return "#4f9dde"
	case DataTypeNumber:
		return "#e0a030"
	case DataTypeBoolean:
		return "#c94f4f"
	case DataTypeObject:
		return "#8e5cc9"
	case DataTypeArray:
		return "#3bb38a"
	case DataTypeImage:
		return "#d15fa8"
	default:
		return "#9aa0a6"
	}
}
