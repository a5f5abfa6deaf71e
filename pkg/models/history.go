package models

import "time"

// ActionType is the closed set of actions the timeline records.
type ActionType string

const (
	ActionAddNode                    ActionType = "add-node"
	ActionDeleteNode                 ActionType = "delete-node"
	ActionDeleteNodes                ActionType = "delete-nodes"
	ActionMoveNode                   ActionType = "move-node"
	ActionMultiMove                  ActionType = "multi-move"
	ActionRenameNode                 ActionType = "rename-node"
	ActionUpdateNodeData             ActionType = "update-node-data"
	ActionAddConnection              ActionType = "add-connection"
	ActionDeleteConnection           ActionType = "delete-connection"
	ActionMultiSelect                ActionType = "multi-select"
	ActionCut                        ActionType = "cut"
	ActionPaste                      ActionType = "paste"
	ActionAddDefinedArea             ActionType = "add-defined-area"
	ActionUpdateDefinedArea          ActionType = "update-defined-area"
	ActionDeleteDefinedArea          ActionType = "delete-defined-area"
	ActionCreateNodeGroup            ActionType = "create-node-group"
	ActionDropNodeGroup              ActionType = "drop-node-group"
	ActionUpdateSubWorkflowInterface ActionType = "update-subworkflow-interface"
)

// ActionTypes lists every recordable action.
var ActionTypes = []ActionType{
	ActionAddNode,
	ActionDeleteNode,
	ActionDeleteNodes,
	ActionMoveNode,
	ActionMultiMove,
	ActionRenameNode,
	ActionUpdateNodeData,
	ActionAddConnection,
	ActionDeleteConnection,
	ActionMultiSelect,
	ActionCut,
	ActionPaste,
	ActionAddDefinedArea,
	ActionUpdateDefinedArea,
	ActionDeleteDefinedArea,
	ActionCreateNodeGroup,
	ActionDropNodeGroup,
	ActionUpdateSubWorkflowInterface,
}

// Valid reports whether the action type belongs to the closed set.
func (a ActionType) Valid() bool {
	for _, t := range ActionTypes {
		if t == a {
			return true
		}
	}

	return false
}

// HistoryEntry is an immutable record of one significant action and the
// document as it was right after the action.
type HistoryEntry struct {
	ID          string         `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	ActionType  ActionType     `json:"actionType"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
	Snapshot    *Snapshot      `json:"snapshot"`
}
