package editor

import (
	"context"

	"github.com/dukex/graphdesk/pkg/history"
	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/subworkflow"
	"github.com/dukex/graphdesk/pkg/tabs"
)

// CreateSubWorkflow defines an empty subworkflow and opens its document in a
// new active tab.
func (e *Editor) CreateSubWorkflow(ctx context.Context, name, description string) *models.SubWorkflowDefinition {
	def := &models.SubWorkflowDefinition{
		ID:          models.NewID("subworkflow"),
		Name:        name,
		Description: description,
		Inputs:      []models.InterfaceDefinition{},
		Outputs:     []models.InterfaceDefinition{},
	}

	e.subworkflows.Define(def)

	e.OpenTab(ctx, tabs.Options{
		Title:         name,
		Kind:          models.TabKindSubWorkflow,
		SubWorkflowID: def.ID,
	})

	e.logger.Info("subworkflow created", "subworkflow_id", def.ID, "name", name)

	return def.Clone()
}

// AddSubWorkflowInstance places a node standing in for a subworkflow. Its
// ports are generated from the definition's current interface.
func (e *Editor) AddSubWorkflowInstance(ctx context.Context, definitionID string, x, y float64) (*models.Node, error) {
	if tab, ok := e.tabs.ActiveTab(); ok && tab.IsSubWorkflow() && tab.SubWorkflowID == definitionID {
		return nil, newError("AddSubWorkflowInstance", ErrRecursiveSubWorkflow, definitionID)
	}

	node, ok := e.subworkflows.NewInstanceNode(definitionID, x, y)
	if !ok {
		return nil, newError("AddSubWorkflowInstance", ErrSubWorkflowNotFound, definitionID)
	}

	e.insertNodes(ctx, []*models.Node{node}, nil)
	e.store.SetNodeTypeToPlace("")

	e.record(ctx, models.ActionAddNode, history.ActionData{NodeID: node.ID, Title: node.Title})

	return node.Clone(), nil
}

// AddLogicalInterface lists an interface item in the active subworkflow's side
// panel without placing a node for it. It becomes part of the definition once
// a matching interface node is placed on the canvas.
func (e *Editor) AddLogicalInterface(
	ctx context.Context,
	direction models.InterfaceDirection,
	name string,
	dataType models.DataType,
	required bool,
) (*models.LogicalInterface, error) {
	tab, ok := e.tabs.ActiveTab()
	if !ok || !tab.IsSubWorkflow() {
		return nil, newError("AddLogicalInterface", ErrNotSubWorkflow, "")
	}

	item := subworkflow.NewLogicalInterface(direction, name, dataType, required)
	e.store.SetLogicalInterfaces(subworkflow.InsertLogicalInterface(e.store.LogicalInterfaces(), item))

	title := tab.Title
	if def, ok := e.subworkflows.Definition(tab.SubWorkflowID); ok {
		title = def.Name
	}

	e.record(ctx, models.ActionUpdateSubWorkflowInterface, history.ActionData{
		SubWorkflowID: tab.SubWorkflowID,
		Title:         title,
		Extra:         map[string]any{"interfaceId": item.ID, "direction": string(direction)},
	})

	c := *item

	return &c, nil
}

// DeleteSubWorkflow removes a definition and its document. It is refused while
// any document still holds an instance of it.
func (e *Editor) DeleteSubWorkflow(ctx context.Context, definitionID string) error {
	if _, ok := e.subworkflows.Definition(definitionID); !ok {
		return newError("DeleteSubWorkflow", ErrSubWorkflowNotFound, definitionID)
	}

	e.tabs.SaveActive()

	for _, id := range e.tabs.DocumentIDs() {
		state, ok := e.tabs.StateByID(id)
		if !ok {
			continue
		}

		for _, n := range state.Nodes {
			if n.ReferencesSubWorkflow(definitionID) {
				return newError("DeleteSubWorkflow", ErrSubWorkflowInUse, id)
			}
		}
	}

	if _, open := e.tabs.Tab(definitionID); open {
		if err := e.CloseTab(ctx, definitionID); err != nil {
			return err
		}
	}

	e.tabs.Forget(definitionID)
	e.subworkflows.Remove(definitionID)

	e.logger.Info("subworkflow deleted", "subworkflow_id", definitionID)

	return nil
}

// SyncAll re-derives every definition from its stored document and pushes it
// to every instance, whether or not the interface changed.
func (e *Editor) SyncAll(ctx context.Context) []*subworkflow.Result {
	e.tabs.SaveActive()

	results := []*subworkflow.Result{}

	for _, def := range e.subworkflows.Definitions() {
		result, changed := e.subworkflows.Refresh(ctx, def.ID)
		if !changed {
			result, _ = e.subworkflows.Propagate(ctx, def.ID)
		}

		if result == nil || result.Instances == 0 {
			continue
		}

		results = append(results, result)
		e.publishSynced(ctx, result)
	}

	e.syncedRevision = e.store.NodesRevision()

	return results
}
