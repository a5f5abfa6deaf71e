// Package subworkflow keeps subworkflow definitions in step with the interface
// nodes of their documents and pushes interface changes to every instance
// node, in every document, that references them.
package subworkflow

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/dukex/graphdesk/pkg/layout"
	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/otelhelper"
	"github.com/dukex/graphdesk/pkg/store"
	"github.com/dukex/graphdesk/pkg/tabs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Result summarizes one propagation.
type Result struct {
	DefinitionID      string
	Documents         []string // Documents that had at least one instance updated
	Instances         int
	PrunedConnections int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer sets the tracer used for propagation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithHeightFunc sets the layout collaborator used to size instance nodes.
func WithHeightFunc(fn layout.HeightFunc) Option {
	return func(s *Service) {
		s.height = fn
	}
}

// Service owns the subworkflow definitions.
type Service struct {
	store  *store.Store
	tabs   *tabs.Manager
	logger *slog.Logger
	tracer trace.Tracer
	height layout.HeightFunc

	definitions map[string]*models.SubWorkflowDefinition
}

// NewService creates a synchronization service writing to the live store and,
// for inactive documents, through the switchboard.
func NewService(s *store.Store, t *tabs.Manager, opts ...Option) *Service {
	svc := &Service{
		store:       s,
		tabs:        t,
		logger:      slog.New(slog.DiscardHandler),
		tracer:      otelhelper.NoopTracer(),
		height:      layout.DefaultHeight,
		definitions: map[string]*models.SubWorkflowDefinition{},
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// Define adds or replaces a definition.
func (s *Service) Define(def *models.SubWorkflowDefinition) {
	c := def.Clone()
	models.SortInterfaces(c.Inputs)
	models.SortInterfaces(c.Outputs)
	s.definitions[def.ID] = c
}

// Definition returns a copy of a definition.
func (s *Service) Definition(id string) (*models.SubWorkflowDefinition, bool) {
	def, ok := s.definitions[id]
	if !ok {
		return nil, false
	}

	return def.Clone(), true
}

// Definitions returns copies of every definition ordered by id.
func (s *Service) Definitions() []*models.SubWorkflowDefinition {
	out := make([]*models.SubWorkflowDefinition, 0, len(s.definitions))
	for _, id := range slices.Sorted(maps.Keys(s.definitions)) {
		out = append(out, s.definitions[id].Clone())
	}

	return out
}

// Remove drops a definition. Instance nodes keep their last ports.
func (s *Service) Remove(id string) bool {
	_, ok := s.definitions[id]
	delete(s.definitions, id)

	return ok
}

// Replace swaps the whole definition set.
func (s *Service) Replace(defs []*models.SubWorkflowDefinition) {
	clear(s.definitions)

	for _, d := range defs {
		s.Define(d)
	}
}

// NewInstanceNode builds an instance node for a definition at the given position.
func (s *Service) NewInstanceNode(definitionID string, x, y float64) (*models.Node, bool) {
	def, ok := s.definitions[definitionID]
	if !ok {
		return nil, false
	}

	inputs, outputs, mapping := GenerateInstancePorts(def)

	return &models.Node{
		ID:      models.NewID("node"),
		Type:    models.NodeTypeSubWorkflow,
		Title:   def.Name,
		X:       x,
		Y:       y,
		Width:   layout.DefaultNodeWidth,
		Height:  s.height(len(inputs), len(outputs)),
		Inputs:  inputs,
		Outputs: outputs,
		Data: map[string]any{
			models.DataKeySubWorkflowID: def.ID,
			models.DataKeyPortMapping:   mapping,
		},
	}, true
}

// Sync runs when the active tab is a subworkflow document whose nodes have
// changed. It reconciles the side-panel interface list and, when the declared
// interface differs from the definition, propagates it. It reports whether the
// definition's interface changed.
func (s *Service) Sync(ctx context.Context) (*Result, bool) {
	tab, ok := s.tabs.ActiveTab()
	if !ok || !tab.IsSubWorkflow() {
		return nil, false
	}

	if items, changed := ReconcileLogicalInterfaces(s.store.LogicalInterfaces(), s.store.Nodes()); changed {
		s.store.SetLogicalInterfaces(items)
	}

	return s.refresh(ctx, tab.SubWorkflowID, s.store.Nodes())
}

// Refresh re-derives a definition's interface from its stored document and
// propagates it if it changed. It reports whether the interface changed.
func (s *Service) Refresh(ctx context.Context, definitionID string) (*Result, bool) {
	state, ok := s.tabs.GraphDefinition(definitionID)
	if !ok {
		return nil, false
	}

	return s.refresh(ctx, definitionID, state.Nodes)
}

func (s *Service) refresh(ctx context.Context, definitionID string, nodes []*models.Node) (*Result, bool) {
	def, ok := s.definitions[definitionID]
	if !ok {
		s.logger.Debug("no definition for subworkflow document", "subworkflow_id", definitionID)

		return nil, false
	}

	inputs, outputs := DeriveInterface(nodes)
	if slices.Equal(inputs, def.Inputs) && slices.Equal(outputs, def.Outputs) {
		return nil, false
	}

	def.Inputs = inputs
	def.Outputs = outputs

	s.logger.Info("subworkflow interface changed",
		"subworkflow_id", definitionID,
		"inputs", len(inputs),
		"outputs", len(outputs))

	result, _ := s.Propagate(ctx, definitionID)

	return result, true
}

// PropagateAll pushes every definition to its instances.
func (s *Service) PropagateAll(ctx context.Context) []*Result {
	results := []*Result{}

	for _, id := range slices.Sorted(maps.Keys(s.definitions)) {
		if r, ok := s.Propagate(ctx, id); ok {
			results = append(results, r)
		}
	}

	return results
}

// Propagate regenerates the ports of every instance of a definition in every
// document. Connections to ports that no longer exist are deleted before the
// new ports are applied. Inactive documents are written through the
// switchboard; the active document is written to the live store.
func (s *Service) Propagate(ctx context.Context, definitionID string) (*Result, bool) {
	def, ok := s.definitions[definitionID]
	if !ok {
		return nil, false
	}

	_, span := otelhelper.StartSpan(ctx, s.tracer, "subworkflow.propagate",
		attribute.String(otelhelper.SubWorkflowIDKey, definitionID))
	defer span.End()

	inputs, outputs, mapping := GenerateInstancePorts(def)
	result := &Result{DefinitionID: definitionID, Documents: []string{}}

	for _, docID := range s.tabs.DocumentIDs() {
		if docID == definitionID {
			continue
		}

		state, ok := s.tabs.StateByID(docID)
		if !ok {
			continue
		}

		nodes, conns, instances, pruned := s.updateInstances(state.Nodes, state.Connections, def, inputs, outputs, mapping)
		if instances == 0 {
			continue
		}

		if docID == s.tabs.ActiveID() {
			s.store.SetNodes(nodes)
			s.store.SetConnections(conns)
			s.tabs.MarkUnsaved(docID)
		} else {
			s.tabs.UpdateStateInternal(docID, tabs.Patch{Nodes: nodes, Connections: conns})
		}

		result.Documents = append(result.Documents, docID)
		result.Instances += instances
		result.PrunedConnections += pruned

		s.logger.Debug("subworkflow instances updated",
			"subworkflow_id", definitionID,
			"document_id", docID,
			"instances", instances,
			"pruned_connections", pruned)
	}

	span.SetAttributes(
		attribute.Int(otelhelper.InstanceCountKey, result.Instances),
		attribute.Int(otelhelper.PrunedCountKey, result.PrunedConnections),
	)

	if result.Instances == 0 {
		return result, false
	}

	s.logger.Info("subworkflow interface propagated",
		"subworkflow_id", definitionID,
		"documents", len(result.Documents),
		"instances", result.Instances,
		"pruned_connections", result.PrunedConnections)

	return result, true
}

// Conform brings instance nodes that are about to enter a document in line
// with their current definitions. Connections to ports the definitions no
// longer expose are dropped. Instances of unknown definitions are kept as they
// are. It returns the number of instances it rewrote.
func (s *Service) Conform(nodes []*models.Node, conns []*models.Connection) ([]*models.Node, []*models.Connection, int) {
	referenced := map[string]bool{}

	for _, n := range nodes {
		if d, ok := n.InstanceData(); ok && d.SubWorkflowID != "" {
			referenced[d.SubWorkflowID] = true
		}
	}

	total := 0

	for _, id := range slices.Sorted(maps.Keys(referenced)) {
		def, ok := s.definitions[id]
		if !ok {
			continue
		}

		inputs, outputs, mapping := GenerateInstancePorts(def)

		var instances int
		nodes, conns, instances, _ = s.updateInstances(nodes, conns, def, inputs, outputs, mapping)
		total += instances
	}

	return nodes, conns, total
}

func (s *Service) updateInstances(
	nodes []*models.Node,
	conns []*models.Connection,
	def *models.SubWorkflowDefinition,
	inputs, outputs []*models.Port,
	mapping map[string][]string,
) ([]*models.Node, []*models.Connection, int, int) {
	instances, pruned := 0, 0

	nextNodes := slices.Clone(nodes)

	for i, n := range nodes {
		if !n.ReferencesSubWorkflow(def.ID) {
			continue
		}

		height := s.height(len(inputs), len(outputs))
		if upToDate(n, inputs, outputs, height, mapping) {
			continue
		}

		updated := n.Clone()
		updated.Inputs = models.ClonePorts(inputs)
		updated.Outputs = models.ClonePorts(outputs)
		updated.Height = height

		if updated.Data == nil {
			updated.Data = map[string]any{}
		}

		updated.Data[models.DataKeyPortMapping] = cloneMapping(mapping)

		live := map[string]bool{}
		for _, id := range updated.PortIDs() {
			live[id] = true
		}

		for _, id := range n.PortIDs() {
			if live[id] {
				continue
			}

			before := len(conns)
			conns = slices.DeleteFunc(slices.Clone(conns), func(c *models.Connection) bool {
				return c.TouchesPort(n.ID, id)
			})
			pruned += before - len(conns)
		}

		nextNodes[i] = updated
		instances++
	}

	return nextNodes, conns, instances, pruned
}

// upToDate compares by content, so an instance read back from a project file,
// whose data bag holds generic JSON values, is not taken as changed.
func upToDate(n *models.Node, inputs, outputs []*models.Port, height float64, mapping map[string][]string) bool {
	if n.Height != height || !samePorts(n.Inputs, inputs) || !samePorts(n.Outputs, outputs) {
		return false
	}

	d, _ := n.InstanceData()

	return maps.EqualFunc(d.PortMapping, mapping, func(a, b []string) bool { return slices.Equal(a, b) })
}

func samePorts(a, b []*models.Port) bool {
	return slices.EqualFunc(a, b, func(x, y *models.Port) bool { return *x == *y })
}

func cloneMapping(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}

	return out
}
