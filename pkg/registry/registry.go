// Package registry resolves node types to their definitions.
package registry

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/dukex/graphdesk/pkg/models"
)

type Registry struct {
	logger      *slog.Logger
	definitions map[string]*models.NodeDefinition
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:      log,
		definitions: make(map[string]*models.NodeDefinition),
	}
}

// Register adds or replaces a node definition.
func (r *Registry) Register(def *models.NodeDefinition) {
	if _, exists := r.definitions[def.Type]; exists {
		r.logger.Debug("replacing node definition", "type", def.Type)
	}

	r.definitions[def.Type] = def
}

// RegisterCustom registers user-defined node types, as carried by a project file.
func (r *Registry) RegisterCustom(defs []*models.NodeDefinition) {
	for _, d := range defs {
		c := *d
		c.Custom = true
		r.Register(&c)
	}
}

// NodeDefinition looks up the definition of a node type.
func (r *Registry) NodeDefinition(nodeType string) (*models.NodeDefinition, bool) {
	def, ok := r.definitions[nodeType]

	return def, ok
}

// Types returns every registered node type in sorted order.
func (r *Registry) Types() []string {
	return slices.Sorted(maps.Keys(r.definitions))
}

// CustomDefinitions returns the custom definitions without their executable
// part, ready for export.
func (r *Registry) CustomDefinitions() []*models.NodeDefinition {
	out := []*models.NodeDefinition{}

	for _, t := range r.Types() {
		if d := r.definitions[t]; d.Custom {
			out = append(out, d.Stripped())
		}
	}

	return out
}

// ClearCustom removes every custom definition.
func (r *Registry) ClearCustom() {
	maps.DeleteFunc(r.definitions, func(_ string, d *models.NodeDefinition) bool {
		return d.Custom
	})
}
