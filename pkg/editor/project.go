package editor

import (
	"context"

	"github.com/dukex/graphdesk/pkg/events"
	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/otelhelper"
	"github.com/dukex/graphdesk/pkg/project"
	"github.com/mohae/deepcopy"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ExportProject captures every open document, the documents of subworkflows
// whose tab is closed, and the project libraries.
func (e *Editor) ExportProject(ctx context.Context) *project.File {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "project.export")
	defer span.End()

	e.tabs.SaveActive()

	states := e.tabs.Snapshots()

	for _, def := range e.subworkflows.Definitions() {
		if _, ok := states[def.ID]; ok {
			continue
		}

		if state, ok := e.tabs.GraphDefinition(def.ID); ok {
			states[def.ID] = &state.Snapshot
		}
	}

	f := project.Export(project.Contents{
		Settings:       e.settings,
		Tabs:           e.tabs.Tabs(),
		ActiveTabID:    e.tabs.ActiveID(),
		States:         states,
		SubWorkflows:   e.subworkflows.Definitions(),
		NodeGroups:     e.groups,
		CustomNodes:    e.registry.CustomDefinitions(),
		CustomTools:    e.customTools,
		AIModelConfigs: e.aiModelConfigs,
	}, e.now())

	span.SetAttributes(
		attribute.String(otelhelper.ProjectNameKey, f.Name()),
		attribute.String(otelhelper.ProjectVersionKey, f.Version),
		attribute.Int(otelhelper.ProjectTabCountKey, len(f.Tabs)),
	)

	e.logger.Info("project exported", "name", f.Name(), "tabs", len(f.Tabs), "documents", len(f.TabWorkflowStates))

	e.publish(ctx, events.ProjectExported{
		BaseEvent: events.NewBaseEvent(events.ProjectExportedEvent, e.tabs.ActiveID()),
		Name:      f.Name(),
		Tabs:      len(f.Tabs),
	})

	return f
}

// ImportProject decodes a project file and replaces the whole editor state
// with it. A file that fails any check is rejected as a whole and the editor
// is left untouched.
func (e *Editor) ImportProject(ctx context.Context, data []byte) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "project.import")
	defer span.End()

	f, err := project.Decode(data)
	if err != nil {
		otelhelper.SetError(span, err)
		e.logger.Warn("project import rejected", "error", err)

		return err
	}

	e.apply(ctx, f)
	span.SetAttributes(
		attribute.String(otelhelper.ProjectNameKey, f.Name()),
		attribute.Int(otelhelper.ProjectTabCountKey, len(f.Tabs)),
	)
	span.SetStatus(codes.Ok, "")

	return nil
}

// LoadProject replaces the editor state with an already decoded project file
// after validating it.
func (e *Editor) LoadProject(ctx context.Context, f *project.File) error {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "project.load")
	defer span.End()

	if err := project.Validate(f); err != nil {
		otelhelper.SetError(span, err)
		e.logger.Warn("project load rejected", "error", err)

		return err
	}

	e.apply(ctx, f)

	return nil
}

func (e *Editor) apply(ctx context.Context, f *project.File) {
	e.settings = map[string]any{}
	if f.ProjectSettings != nil {
		e.settings = deepcopy.Copy(f.ProjectSettings).(map[string]any)
	}

	e.registry.ClearCustom()
	e.registry.RegisterCustom(f.CustomNodeDefinitions)

	e.subworkflows.Replace(f.SubWorkflowDefinitions)

	e.groups = make([]*models.NodeGroupDefinition, 0, len(f.NodeGroupDefinitions))
	for _, g := range f.NodeGroupDefinitions {
		e.groups = append(e.groups, g.Clone())
	}

	e.customTools = cloneMaps(f.CustomTools)
	e.aiModelConfigs = cloneMaps(f.EditableAIModelConfigs)

	e.clipboard.Clear()

	openTabs := make([]*models.Tab, 0, len(f.Tabs))
	open := map[string]bool{}

	for _, t := range f.Tabs {
		tab := t.Clone()
		tab.Unsaved = false
		openTabs = append(openTabs, tab)
		open[tab.ID] = true
	}

	e.tabs.Replace(openTabs, f.TabWorkflowStates, f.ActiveTabID)

	// Documents without a tab, such as subworkflows whose tab was closed.
	for id, snap := range f.TabWorkflowStates {
		if !open[id] {
			e.tabs.StoreDocument(id, models.WorkflowStateFrom(snap))
		}
	}

	e.syncedRevision = e.store.NodesRevision()

	e.logger.Info("project imported",
		"name", f.Name(),
		"tabs", len(f.Tabs),
		"subworkflows", len(f.SubWorkflowDefinitions),
		"groups", len(f.NodeGroupDefinitions))

	e.publish(ctx, events.ProjectImported{
		BaseEvent: events.NewBaseEvent(events.ProjectImportedEvent, e.tabs.ActiveID()),
		Name:      f.Name(),
		Tabs:      len(f.Tabs),
	})
}

func cloneMaps(in []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, m := range in {
		out = append(out, deepcopy.Copy(m).(map[string]any))
	}

	return out
}
