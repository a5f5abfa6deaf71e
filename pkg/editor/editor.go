// Package editor coordinates the graph editor core. Every user action goes
// through the same steps: the mutation is applied to the live store, the
// timeline records it, subworkflow interfaces are synchronized when the
// active tab is a subworkflow document, and an event is published.
//
// Rules such as "selecting a connection clears the node selection" live here
// and nowhere else. The editor is not safe for concurrent use.
package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukex/graphdesk/pkg/clone"
	"github.com/dukex/graphdesk/pkg/eventbus"
	"github.com/dukex/graphdesk/pkg/events"
	"github.com/dukex/graphdesk/pkg/history"
	"github.com/dukex/graphdesk/pkg/layout"
	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/otelhelper"
	"github.com/dukex/graphdesk/pkg/registry"
	"github.com/dukex/graphdesk/pkg/store"
	"github.com/dukex/graphdesk/pkg/subworkflow"
	"github.com/dukex/graphdesk/pkg/tabs"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Editor.
type Option func(*config)

type config struct {
	logger         *slog.Logger
	tracer         trace.Tracer
	publisher      eventbus.EventPublisher
	registry       *registry.Registry
	height         layout.HeightFunc
	now            func() time.Time
	historyOptions []history.Option
}

// WithLogger sets the logger shared by the editor and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracer sets the tracer for import, export and propagation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithPublisher sets where editor events are published. Without one, events
// are dropped.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(c *config) {
		c.publisher = publisher
	}
}

// WithRegistry sets the node type registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithHeightFunc sets the layout collaborator used whenever ports change.
func WithHeightFunc(fn layout.HeightFunc) Option {
	return func(c *config) {
		c.height = fn
	}
}

// WithClock sets the time source for exports.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithHistoryOptions passes options to the timeline manager.
func WithHistoryOptions(opts ...history.Option) Option {
	return func(c *config) {
		c.historyOptions = append(c.historyOptions, opts...)
	}
}

// Editor owns the live store and the components working on it.
type Editor struct {
	store        *store.Store
	history      *history.Manager
	tabs         *tabs.Manager
	subworkflows *subworkflow.Service
	registry     *registry.Registry

	logger    *slog.Logger
	tracer    trace.Tracer
	publisher eventbus.EventPublisher
	height    layout.HeightFunc
	now       func() time.Time

	clipboard clone.Clipboard
	groups    []*models.NodeGroupDefinition

	settings       map[string]any
	customTools    []map[string]any
	aiModelConfigs []map[string]any

	// Node revision last seen by the subworkflow sync.
	syncedRevision uint64
}

// New creates an editor with no open tabs.
func New(opts ...Option) *Editor {
	cfg := &config{
		logger: slog.New(slog.DiscardHandler),
		tracer: otelhelper.NoopTracer(),
		height: layout.DefaultHeight,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.registry == nil {
		cfg.registry = registry.NewRegistry(cfg.logger)
		cfg.registry.RegisterDefaultNodes()
	}

	s := store.New()
	t := tabs.NewManager(s, tabs.WithLogger(cfg.logger.With("module", "tabs")))

	historyOpts := append([]history.Option{history.WithLogger(cfg.logger.With("module", "history"))}, cfg.historyOptions...)

	e := &Editor{
		store:   s,
		history: history.NewManager(s, historyOpts...),
		tabs:    t,
		subworkflows: subworkflow.NewService(s, t,
			subworkflow.WithLogger(cfg.logger.With("module", "subworkflow")),
			subworkflow.WithTracer(cfg.tracer),
			subworkflow.WithHeightFunc(cfg.height)),
		registry:  cfg.registry,
		logger:    cfg.logger.With("module", "editor"),
		tracer:    cfg.tracer,
		publisher: cfg.publisher,
		height:    cfg.height,
		now:       cfg.now,
		settings:  map[string]any{},
	}

	e.syncedRevision = s.NodesRevision()

	return e
}

// Store returns the live document. Callers must not mutate it directly.
func (e *Editor) Store() *store.Store {
	return e.store
}

// History returns the timeline of the active document.
func (e *Editor) History() *history.Manager {
	return e.history
}

// Tabs returns the document switchboard.
func (e *Editor) Tabs() *tabs.Manager {
	return e.tabs
}

// SubWorkflows returns the subworkflow definitions service.
func (e *Editor) SubWorkflows() *subworkflow.Service {
	return e.subworkflows
}

// Registry returns the node type registry.
func (e *Editor) Registry() *registry.Registry {
	return e.registry
}

// Settings returns the project settings.
func (e *Editor) Settings() map[string]any {
	return e.settings
}

// SetSetting stores one project setting.
func (e *Editor) SetSetting(key string, value any) {
	e.settings[key] = value
}

// record commits an action that has just been applied to the live store and
// then runs the subworkflow sync. The action's own entry already holds the
// interface change, so a separate interface entry is only committed when the
// action itself was not recorded.
func (e *Editor) record(ctx context.Context, action models.ActionType, data history.ActionData) bool {
	e.reconcileLogicalInterfaces()

	entry, ok := e.history.Commit(action, data)
	if ok {
		e.markDirty(ctx, e.tabs.ActiveID())

		entries := e.history.Entries()
		e.publish(ctx, events.HistoryCommitted{
			BaseEvent:   events.NewBaseEvent(events.HistoryCommittedEvent, e.tabs.ActiveID()),
			EntryID:     entry.ID,
			ActionType:  string(entry.ActionType),
			Description: entry.Description,
			Length:      len(entries),
		})
	}

	e.syncSubWorkflow(ctx, !ok)

	return ok
}

// reconcileLogicalInterfaces keeps the side-panel list of a subworkflow
// document in line with its canvas before the document is snapshotted.
func (e *Editor) reconcileLogicalInterfaces() {
	if !e.activeIsSubWorkflow() || e.store.NodesRevision() == e.syncedRevision {
		return
	}

	if items, changed := subworkflow.ReconcileLogicalInterfaces(e.store.LogicalInterfaces(), e.store.Nodes()); changed {
		e.store.SetLogicalInterfaces(items)
	}
}

// syncSubWorkflow pushes interface changes of the active subworkflow document
// to its instances. With commit set, an interface change is recorded as its
// own timeline entry.
func (e *Editor) syncSubWorkflow(ctx context.Context, commit bool) {
	revision := e.store.NodesRevision()
	if revision == e.syncedRevision {
		return
	}

	e.syncedRevision = revision

	tab, ok := e.tabs.ActiveTab()
	if !ok || !tab.IsSubWorkflow() {
		return
	}

	result, changed := e.subworkflows.Sync(ctx)

	// Propagation skips the definition's own document.
	e.syncedRevision = e.store.NodesRevision()

	if !changed {
		return
	}

	if commit {
		def, _ := e.subworkflows.Definition(tab.SubWorkflowID)
		title := tab.SubWorkflowID

		if def != nil {
			title = def.Name
		}

		if entry, ok := e.history.Commit(models.ActionUpdateSubWorkflowInterface, history.ActionData{
			SubWorkflowID: tab.SubWorkflowID,
			Title:         title,
		}); ok {
			e.publish(ctx, events.HistoryCommitted{
				BaseEvent:   events.NewBaseEvent(events.HistoryCommittedEvent, tab.ID),
				EntryID:     entry.ID,
				ActionType:  string(entry.ActionType),
				Description: entry.Description,
				Length:      len(e.history.Entries()),
			})
		}
	}

	if result != nil {
		e.publishSynced(ctx, result)
	}
}

func (e *Editor) publishSynced(ctx context.Context, result *subworkflow.Result) {
	for _, doc := range result.Documents {
		e.publish(ctx, events.TabDirty{BaseEvent: events.NewBaseEvent(events.TabDirtyEvent, doc)})
	}

	e.publish(ctx, events.SubWorkflowSynced{
		BaseEvent:         events.NewBaseEvent(events.SubWorkflowSyncedEvent, e.tabs.ActiveID()),
		SubWorkflowID:     result.DefinitionID,
		Documents:         result.Documents,
		Instances:         result.Instances,
		PrunedConnections: result.PrunedConnections,
	})
}

// markDirty flags a tab unsaved and announces the first transition.
func (e *Editor) markDirty(ctx context.Context, id string) {
	tab, ok := e.tabs.Tab(id)
	if !ok || tab.Unsaved {
		return
	}

	e.tabs.MarkUnsaved(id)
	e.publish(ctx, events.TabDirty{BaseEvent: events.NewBaseEvent(events.TabDirtyEvent, id)})
}

func (e *Editor) activeIsSubWorkflow() bool {
	tab, ok := e.tabs.ActiveTab()

	return ok && tab.IsSubWorkflow()
}

func (e *Editor) publish(ctx context.Context, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, e.tabs.ActiveID(), event); err != nil {
		e.logger.Warn("failed to publish editor event", "event_type", event.GetType(), "error", err)
	}
}
