package registry

import (
	"github.com/dukex/graphdesk/pkg/layout"
	"github.com/dukex/graphdesk/pkg/models"
)

// RegisterDefaultNodes registers all built-in node types with the registry.
func (r *Registry) RegisterDefaultNodes() {
	// Subworkflow interface declarations
	r.Register(&models.NodeDefinition{
		Type:         models.NodeTypeInterfaceInput,
		Title:        "Input",
		Category:     "subworkflow",
		Description:  "Declares an input of the subworkflow",
		Outputs:      []models.PortTemplate{{Label: "value", DataType: models.DataTypeAny}},
		DefaultWidth: layout.DefaultNodeWidth,
		DefaultData: map[string]any{
			models.DataKeyInterfaceName: "input",
			models.DataKeyDataType:      string(models.DataTypeAny),
			models.DataKeyRequired:      false,
		},
	})
	r.Register(&models.NodeDefinition{
		Type:         models.NodeTypeInterfaceOutput,
		Title:        "Output",
		Category:     "subworkflow",
		Description:  "Declares an output of the subworkflow",
		Inputs:       []models.PortTemplate{{Label: "value", DataType: models.DataTypeAny}},
		DefaultWidth: layout.DefaultNodeWidth,
		DefaultData: map[string]any{
			models.DataKeyInterfaceName: "output",
			models.DataKeyDataType:      string(models.DataTypeAny),
			models.DataKeyRequired:      false,
		},
	})

	// Instance ports are generated from the definition
	r.Register(&models.NodeDefinition{
		Type:         models.NodeTypeSubWorkflow,
		Title:        "Subworkflow",
		Category:     "subworkflow",
		Description:  "Runs a subworkflow",
		DefaultWidth: layout.DefaultNodeWidth,
	})

	r.Register(&models.NodeDefinition{
		Type:         "httprequest",
		Title:        "HTTP Request",
		Category:     "network",
		Description:  "Performs an HTTP request",
		Inputs:       []models.PortTemplate{{Label: "url", DataType: models.DataTypeString, Required: true}, {Label: "body", DataType: models.DataTypeObject}},
		Outputs:      []models.PortTemplate{{Label: "response", DataType: models.DataTypeObject}, {Label: "error", DataType: models.DataTypeString}},
		DefaultWidth: layout.DefaultNodeWidth,
		DefaultData:  map[string]any{"method": "GET", "retries": 0},
	})

	r.Register(&models.NodeDefinition{
		Type:         "transform",
		Title:        "Transform",
		Category:     "data",
		Description:  "Reshapes data with an expression",
		Inputs:       []models.PortTemplate{{Label: "input", DataType: models.DataTypeAny, Required: true}},
		Outputs:      []models.PortTemplate{{Label: "output", DataType: models.DataTypeAny}},
		DefaultWidth: layout.DefaultNodeWidth,
		DefaultData:  map[string]any{"expression": ""},
	})

	r.Register(&models.NodeDefinition{
		Type:         "log",
		Title:        "Log",
		Category:     "utility",
		Description:  "Writes a message to the run log",
		Inputs:       []models.PortTemplate{{Label: "input", DataType: models.DataTypeAny}},
		Outputs:      []models.PortTemplate{{Label: "output", DataType: models.DataTypeAny}},
		DefaultWidth: layout.DefaultNodeWidth,
		DefaultData:  map[string]any{"message": "", "level": "info"},
	})

	r.Register(&models.NodeDefinition{
		Type:        "conditional",
		Title:       "Conditional",
		Category:    "control",
		Description: "Routes on a boolean condition",
		Inputs:      []models.PortTemplate{{Label: "input", DataType: models.DataTypeAny, Required: true}},
		Outputs: []models.PortTemplate{
			{Label: "true", DataType: models.DataTypeAny},
			{Label: "false", DataType: models.DataTypeAny},
		},
		DefaultWidth: layout.DefaultNodeWidth,
		DefaultData:  map[string]any{"condition": ""},
	})

	r.Register(&models.NodeDefinition{
		Type:        "switch",
		Title:       "Switch",
		Category:    "control",
		Description: "Routes on the first matching case",
		Inputs:      []models.PortTemplate{{Label: "input", DataType: models.DataTypeAny, Required: true}},
		Outputs: []models.PortTemplate{
			{Label: "matched", DataType: models.DataTypeAny},
			{Label: "default", DataType: models.DataTypeAny},
		},
		DefaultWidth: layout.DefaultNodeWidth,
		DefaultData:  map[string]any{"value": "", "cases": []any{}},
	})

	r.Register(&models.NodeDefinition{
		Type:        "merge",
		Title:       "Merge",
		Category:    "control",
		Description: "Combines several inputs into one object",
		Inputs: []models.PortTemplate{
			{Label: "a", DataType: models.DataTypeAny},
			{Label: "b", DataType: models.DataTypeAny},
		},
		Outputs:      []models.PortTemplate{{Label: "merged", DataType: models.DataTypeObject}},
		DefaultWidth: layout.DefaultNodeWidth,
		DefaultData:  map[string]any{"mode": "all"},
	})
}
