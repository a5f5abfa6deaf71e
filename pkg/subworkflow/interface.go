package subworkflow

import (
	"net/url"
	"slices"

	"github.com/dukex/graphdesk/pkg/models"
)

// DeriveInterface reads the declared inputs and outputs from the interface
// nodes of a subworkflow document. A node whose data bag is not populated yet
// falls back to its single port. Both lists come back in CompareInterfaces order.
func DeriveInterface(nodes []*models.Node) (inputs, outputs []models.InterfaceDefinition) {
	inputs = []models.InterfaceDefinition{}
	outputs = []models.InterfaceDefinition{}

	for _, n := range nodes {
		direction, ok := n.InterfaceDirection()
		if !ok {
			continue
		}

		def := deriveOne(n, direction)

		if direction == models.InterfaceInput {
			inputs = append(inputs, def)
		} else {
			outputs = append(outputs, def)
		}
	}

	models.SortInterfaces(inputs)
	models.SortInterfaces(outputs)

	return inputs, outputs
}

func deriveOne(n *models.Node, direction models.InterfaceDirection) models.InterfaceDefinition {
	data := n.InterfaceData()

	// An input declaration exposes its value on an output port and vice versa.
	ports := n.Outputs
	if direction == models.InterfaceOutput {
		ports = n.Inputs
	}

	var port *models.Port
	if len(ports) == 1 {
		port = ports[0]
	}

	def := models.InterfaceDefinition{
		Name:     data.Name,
		DataType: data.DataType,
		NodeID:   n.ID,
	}

	if def.Name == "" && port != nil {
		def.Name = port.Label
	}

	if def.Name == "" {
		def.Name = n.Title
	}

	if def.DataType == "" && port != nil {
		def.DataType = port.DataType
	}

	if def.DataType == "" {
		def.DataType = models.DataTypeAny
	}

	switch {
	case data.Required != nil:
		def.Required = *data.Required
	case port != nil:
		def.Required = port.Required
	}

	return def
}

// InstancePortID is the port id an instance node uses for every interface
// entry sharing the name and data type. It is stable across regenerations, so
// only renames and retypes invalidate existing connections. The name is
// query-escaped so a ':' inside it cannot make two groups share an id.
func InstancePortID(direction models.InterfaceDirection, name string, dataType models.DataType) string {
	prefix := "in"
	if direction == models.InterfaceOutput {
		prefix = "out"
	}

	return prefix + ":" + url.QueryEscape(name) + ":" + url.QueryEscape(string(dataType))
}

// GenerateInstancePorts groups the definition's interface entries by name and
// data type. Each group becomes one instance port mapped to every interface
// node in it; the port is required when any member is required.
func GenerateInstancePorts(def *models.SubWorkflowDefinition) (inputs, outputs []*models.Port, mapping map[string][]string) {
	mapping = map[string][]string{}
	inputs = groupPorts(models.InterfaceInput, def.Inputs, mapping)
	outputs = groupPorts(models.InterfaceOutput, def.Outputs, mapping)

	return inputs, outputs, mapping
}

func groupPorts(
	direction models.InterfaceDirection,
	entries []models.InterfaceDefinition,
	mapping map[string][]string,
) []*models.Port {
	sorted := slices.Clone(entries)
	models.SortInterfaces(sorted)

	ports := []*models.Port{}
	byID := map[string]*models.Port{}

	for _, e := range sorted {
		id := InstancePortID(direction, e.Name, e.DataType)

		port, ok := byID[id]
		if !ok {
			port = models.NewPort(id, e.Name, e.DataType, false)
			byID[id] = port
			ports = append(ports, port)
		}

		port.Required = port.Required || e.Required

		if e.NodeID != "" {
			mapping[id] = append(mapping[id], e.NodeID)
		}
	}

	return ports
}
