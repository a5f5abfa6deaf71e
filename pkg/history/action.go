package history

import (
	"fmt"
	"math"

	"github.com/dukex/graphdesk/pkg/models"
)

// Move is the net displacement of one node during a drag.
type Move struct {
	NodeID string
	From   models.Point
	To     models.Point
}

// Distance is the length of the displacement.
func (m Move) Distance() float64 {
	return math.Hypot(m.To.X-m.From.X, m.To.Y-m.From.Y)
}

// ActionData is the raw payload of an applied action. Each action type reads
// only the fields it needs; everything else may be left empty.
type ActionData struct {
	NodeID       string
	NodeIDs      []string
	ConnectionID string
	AreaID       string

	// Title of a node or area that no longer exists in the live store.
	Title string

	Moves []Move

	PreviousSelection []string

	OldTitle string
	NewTitle string

	DataKey string

	GroupName string

	SubWorkflowID string

	Extra map[string]any
}

func (m *Manager) significant(action models.ActionType, data ActionData) bool {
	switch action {
	case models.ActionMoveNode, models.ActionMultiMove:
		for _, mv := range data.Moves {
			if mv.Distance() >= m.moveThreshold {
				return true
			}
		}

		return false
	case models.ActionMultiSelect:
		return len(m.store.SelectedNodeIDs()) > 0 || len(data.PreviousSelection) > 0
	case models.ActionRenameNode:
		return data.OldTitle != data.NewTitle
	default:
		return true
	}
}

func (m *Manager) describe(action models.ActionType, data ActionData) (string, map[string]any) {
	details := map[string]any{}

	for k, v := range data.Extra {
		details[k] = v
	}

	var description string

	switch action {
	case models.ActionAddNode:
		title := m.nodeTitle(data.NodeID, data.Title)
		details["nodeId"] = data.NodeID
		details["nodeType"] = m.nodeType(data.NodeID)
		description = fmt.Sprintf("Added node %q", title)

	case models.ActionDeleteNode:
		details["nodeId"] = data.NodeID
		description = fmt.Sprintf("Deleted node %q", fallback(data.Title, data.NodeID))

	case models.ActionDeleteNodes:
		details["nodeIds"] = data.NodeIDs
		description = fmt.Sprintf("Deleted %s", plural(len(data.NodeIDs), "node"))

	case models.ActionMoveNode:
		mv := firstMove(data.Moves)
		details["nodeId"] = mv.NodeID
		details["from"] = mv.From
		details["to"] = mv.To
		description = fmt.Sprintf("Moved node %q", m.nodeTitle(mv.NodeID, data.Title))

	case models.ActionMultiMove:
		ids := make([]string, 0, len(data.Moves))
		for _, mv := range data.Moves {
			ids = append(ids, mv.NodeID)
		}

		details["nodeIds"] = ids
		description = fmt.Sprintf("Moved %s", plural(len(data.Moves), "node"))

	case models.ActionRenameNode:
		details["nodeId"] = data.NodeID
		details["oldTitle"] = data.OldTitle
		details["newTitle"] = data.NewTitle
		description = fmt.Sprintf("Renamed %q to %q", data.OldTitle, data.NewTitle)

	case models.ActionUpdateNodeData:
		details["nodeId"] = data.NodeID
		details["key"] = data.DataKey
		title := m.nodeTitle(data.NodeID, data.Title)

		if data.DataKey != "" {
			description = fmt.Sprintf("Updated %s of %q", data.DataKey, title)
		} else {
			description = fmt.Sprintf("Updated %q", title)
		}

	case models.ActionAddConnection:
		details["connectionId"] = data.ConnectionID
		description = m.describeConnection("Connected", data.ConnectionID)

	case models.ActionDeleteConnection:
		details["connectionId"] = data.ConnectionID
		description = "Deleted connection"

	case models.ActionMultiSelect:
		selected := m.store.SelectedNodeIDs()
		details["nodeIds"] = selected
		details["previous"] = data.PreviousSelection

		if len(selected) == 0 {
			description = "Cleared selection"
		} else {
			description = fmt.Sprintf("Selected %s", plural(len(selected), "node"))
		}

	case models.ActionCut:
		details["nodeIds"] = data.NodeIDs
		description = fmt.Sprintf("Cut %s", plural(len(data.NodeIDs), "node"))

	case models.ActionPaste:
		details["nodeIds"] = data.NodeIDs
		description = fmt.Sprintf("Pasted %s", plural(len(data.NodeIDs), "node"))

	case models.ActionAddDefinedArea:
		details["areaId"] = data.AreaID
		description = fmt.Sprintf("Added area %q", m.areaTitle(data.AreaID, data.Title))

	case models.ActionUpdateDefinedArea:
		details["areaId"] = data.AreaID
		description = fmt.Sprintf("Updated area %q", m.areaTitle(data.AreaID, data.Title))

	case models.ActionDeleteDefinedArea:
		details["areaId"] = data.AreaID
		description = fmt.Sprintf("Deleted area %q", fallback(data.Title, data.AreaID))

	case models.ActionCreateNodeGroup:
		details["nodeIds"] = data.NodeIDs
		details["groupName"] = data.GroupName
		description = fmt.Sprintf("Created node group %q", data.GroupName)

	case models.ActionDropNodeGroup:
		details["nodeIds"] = data.NodeIDs
		details["groupName"] = data.GroupName
		description = fmt.Sprintf("Dropped node group %q", data.GroupName)

	case models.ActionUpdateSubWorkflowInterface:
		details["subWorkflowId"] = data.SubWorkflowID
		description = fmt.Sprintf("Updated interface of %q", fallback(data.Title, data.SubWorkflowID))
	}

	return description, details
}

func (m *Manager) nodeTitle(nodeID, hint string) string {
	if n := m.store.Node(nodeID); n != nil && n.Title != "" {
		return n.Title
	}

	return fallback(hint, "unknown node")
}

func (m *Manager) nodeType(nodeID string) string {
	if n := m.store.Node(nodeID); n != nil {
		return n.Type
	}

	return ""
}

func (m *Manager) areaTitle(areaID, hint string) string {
	for _, a := range m.store.DefinedAreas() {
		if a.ID == areaID && a.Title != "" {
			return a.Title
		}
	}

	return fallback(hint, "untitled")
}

func (m *Manager) describeConnection(verb, connectionID string) string {
	for _, c := range m.store.Connections() {
		if c.ID != connectionID {
			continue
		}

		return fmt.Sprintf("%s %q to %q", verb,
			m.nodeTitle(c.Source.NodeID, c.Source.NodeID),
			m.nodeTitle(c.Target.NodeID, c.Target.NodeID))
	}

	return verb + " nodes"
}

func firstMove(moves []Move) Move {
	if len(moves) == 0 {
		return Move{}
	}

	return moves[0]
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}

	return value
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return fmt.Sprintf("%d %ss", n, noun)
}
