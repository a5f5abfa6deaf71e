package subworkflow

import (
	"slices"

	"github.com/dukex/graphdesk/pkg/models"
)

// InsertLogicalInterface adds an item to a side-panel list kept as the input
// block followed by the output block. A new input goes to the head of the
// list; a new output goes after the last output. The input slice is not
// modified.
func InsertLogicalInterface(items []*models.LogicalInterface, item *models.LogicalInterface) []*models.LogicalInterface {
	out := make([]*models.LogicalInterface, 0, len(items)+1)

	if item.Direction == models.InterfaceInput {
		out = append(out, item)
		out = append(out, items...)

		return out
	}

	out = append(out, items...)

	return append(out, item)
}

// NewLogicalInterface creates a side-panel item with no canvas node behind it.
func NewLogicalInterface(
	direction models.InterfaceDirection,
	name string,
	dataType models.DataType,
	required bool,
) *models.LogicalInterface {
	if dataType == "" {
		dataType = models.DataTypeAny
	}

	return &models.LogicalInterface{
		ID:        models.NewID("iface"),
		Name:      name,
		DataType:  dataType,
		Required:  required,
		Direction: direction,
		Logical:   true,
	}
}

// ReconcileLogicalInterfaces lines the side-panel list up with the interface
// nodes on the canvas. A logical item whose name, data type and direction
// match a canvas node becomes derived from it. Derived items follow their
// node and are dropped with it. Canvas nodes without an item get one, placed
// by the insertion rule. It reports whether anything changed.
func ReconcileLogicalInterfaces(
	items []*models.LogicalInterface,
	nodes []*models.Node,
) ([]*models.LogicalInterface, bool) {
	type declared struct {
		direction models.InterfaceDirection
		def       models.InterfaceDefinition
	}

	byNode := map[string]declared{}
	order := []string{}

	for _, n := range nodes {
		direction, ok := n.InterfaceDirection()
		if !ok {
			continue
		}

		byNode[n.ID] = declared{direction: direction, def: deriveOne(n, direction)}
		order = append(order, n.ID)
	}

	claimed := map[string]bool{}
	out := make([]*models.LogicalInterface, 0, len(items))

	for _, it := range items {
		c := *it

		if !c.Logical {
			d, ok := byNode[c.NodeID]
			if !ok || claimed[c.NodeID] {
				continue
			}

			c.Name, c.DataType, c.Required = d.def.Name, d.def.DataType, d.def.Required
			claimed[c.NodeID] = true
			out = append(out, &c)

			continue
		}

		for _, id := range order {
			d := byNode[id]
			if claimed[id] || d.direction != c.Direction || d.def.Name != c.Name || d.def.DataType != c.DataType {
				continue
			}

			c.Logical = false
			c.NodeID = id
			c.Required = d.def.Required
			claimed[id] = true

			break
		}

		out = append(out, &c)
	}

	for _, id := range order {
		if claimed[id] {
			continue
		}

		d := byNode[id]
		item := &models.LogicalInterface{
			ID:        models.NewID("iface"),
			Name:      d.def.Name,
			DataType:  d.def.DataType,
			Required:  d.def.Required,
			Direction: d.direction,
			NodeID:    id,
		}
		out = InsertLogicalInterface(out, item)
	}

	changed := !slices.EqualFunc(items, out, func(a, b *models.LogicalInterface) bool { return *a == *b })

	return out, changed
}
