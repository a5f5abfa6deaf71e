package editor

import (
	"context"
	"testing"

	"github.com/dukex/graphdesk/pkg/eventbus"
	"github.com/dukex/graphdesk/pkg/events"
	"github.com/dukex/graphdesk/pkg/history"
	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/tabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, key string, event eventbus.Event) error {
	args := m.Called(ctx, key, event)

	return args.Error(0)
}

func (m *mockPublisher) types() []events.EventType {
	out := []events.EventType{}

	for _, call := range m.Calls {
		out = append(out, call.Arguments.Get(2).(eventbus.Event).GetType())
	}

	return out
}

func newTestEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()

	e := New(opts...)
	e.OpenTab(t.Context(), tabs.Options{ID: "main", Title: "Main"})

	return e
}

func addNode(t *testing.T, e *Editor, nodeType string, x, y float64) *models.Node {
	t.Helper()

	n, err := e.AddNode(t.Context(), nodeType, x, y)
	require.NoError(t, err)

	return n
}

func TestAddNode(t *testing.T) {
	e := newTestEditor(t)
	require.True(t, e.SetNodeTypeToPlace("transform"))

	n := addNode(t, e, "transform", 10, 20)

	assert.Equal(t, "transform", n.Type)
	assert.Equal(t, 10.0, n.X)
	require.Len(t, n.Inputs, 1)
	require.Len(t, n.Outputs, 1)
	assert.Positive(t, n.Height)
	assert.Empty(t, e.Store().NodeTypeToPlace())

	require.Len(t, e.History().Entries(), 1)
	assert.Equal(t, models.ActionAddNode, e.History().Current().ActionType)
	assert.Equal(t, `Added node "Transform"`, e.History().Current().Description)

	tab, _ := e.Tabs().Tab("main")
	assert.True(t, tab.Unsaved)
}

func TestAddNode_Rejected(t *testing.T) {
	e := newTestEditor(t)

	_, err := e.AddNode(t.Context(), "nope", 0, 0)
	assert.ErrorIs(t, err, ErrUnknownNodeType)
	assert.False(t, IsNotFound(err))

	_, err = e.AddNode(t.Context(), models.NodeTypeSubWorkflow, 0, 0)
	assert.ErrorIs(t, err, ErrUnknownNodeType)

	assert.Empty(t, e.Store().Nodes())
	assert.Empty(t, e.History().Entries())
}

func TestUndoRedo(t *testing.T) {
	e := newTestEditor(t)

	a := addNode(t, e, "transform", 0, 0)
	addNode(t, e, "log", 300, 0)
	require.Len(t, e.Store().Nodes(), 2)

	require.True(t, e.Undo(t.Context()))
	require.Len(t, e.Store().Nodes(), 1)
	assert.Equal(t, a.ID, e.Store().Nodes()[0].ID)
	assert.True(t, e.History().CanRedo())

	// The oldest entry is the floor: there is nothing before it to restore.
	assert.False(t, e.Undo(t.Context()))

	require.True(t, e.Redo(t.Context()))
	assert.Len(t, e.Store().Nodes(), 2)
	assert.False(t, e.Redo(t.Context()))
}

func TestRestoreHistory(t *testing.T) {
	e := newTestEditor(t)

	addNode(t, e, "transform", 0, 0)
	first := e.History().Current()
	addNode(t, e, "log", 300, 0)
	addNode(t, e, "merge", 600, 0)

	require.NoError(t, e.RestoreHistory(t.Context(), first.ID))
	assert.Len(t, e.Store().Nodes(), 1)
	assert.Equal(t, 2, e.History().Cursor())

	err := e.RestoreHistory(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.True(t, IsNotFound(err))
}

func TestDeleteNodes(t *testing.T) {
	e := newTestEditor(t)

	a := addNode(t, e, "transform", 0, 0)
	b := addNode(t, e, "log", 300, 0)
	c := addNode(t, e, "log", 600, 0)

	ab, err := e.Connect(t.Context(), a.ID, a.Outputs[0].ID, b.ID, b.Inputs[0].ID)
	require.NoError(t, err)
	_, err = e.Connect(t.Context(), b.ID, b.Outputs[0].ID, c.ID, c.Inputs[0].ID)
	require.NoError(t, err)

	e.Store().SetExecutionStates(models.ExecutionStates{
		b.ID: {Status: models.NodeStatusSuccess},
		c.ID: {Status: models.NodeStatusIdle},
	})
	e.SelectNodes(t.Context(), []string{a.ID, b.ID})
	require.True(t, e.SelectConnection(ab.ID))

	require.True(t, e.DeleteNodes(t.Context(), []string{b.ID, "missing"}))

	assert.Len(t, e.Store().Nodes(), 2)
	assert.Empty(t, e.Store().Connections())
	assert.Empty(t, e.Store().SelectedConnectionID())
	assert.NotContains(t, e.Store().ExecutionStates(), b.ID)
	assert.Contains(t, e.Store().ExecutionStates(), c.ID)
	assert.Equal(t, `Deleted node "Log"`, e.History().Current().Description)

	require.True(t, e.DeleteNodes(t.Context(), []string{a.ID, c.ID}))
	assert.Equal(t, "Deleted 2 nodes", e.History().Current().Description)

	assert.False(t, e.DeleteNodes(t.Context(), []string{"missing"}))
}

func TestMoveNodes(t *testing.T) {
	e := newTestEditor(t)
	a := addNode(t, e, "transform", 0, 0)
	b := addNode(t, e, "log", 300, 0)

	// Below the threshold: applied, not recorded.
	recorded := e.MoveNodes(t.Context(), []history.Move{{NodeID: a.ID, From: models.Point{}, To: models.Point{X: 2, Y: 1}}})
	assert.False(t, recorded)
	assert.Equal(t, 2.0, e.Store().Node(a.ID).X)
	assert.Len(t, e.History().Entries(), 2)

	recorded = e.MoveNodes(t.Context(), []history.Move{{NodeID: a.ID, From: models.Point{X: 2, Y: 1}, To: models.Point{X: 100, Y: 1}}})
	assert.True(t, recorded)
	assert.Equal(t, models.ActionMoveNode, e.History().Current().ActionType)

	recorded = e.MoveNodes(t.Context(), []history.Move{
		{NodeID: a.ID, From: models.Point{X: 100, Y: 1}, To: models.Point{X: 100, Y: 100}},
		{NodeID: b.ID, From: models.Point{X: 300}, To: models.Point{X: 300, Y: 100}},
		{NodeID: "missing", To: models.Point{X: 9}},
	})
	assert.True(t, recorded)
	assert.Equal(t, "Moved 2 nodes", e.History().Current().Description)

	assert.False(t, e.MoveNodes(t.Context(), []history.Move{{NodeID: "missing"}}))
}

func TestRenameAndUpdateData(t *testing.T) {
	e := newTestEditor(t)
	a := addNode(t, e, "transform", 0, 0)

	assert.False(t, e.RenameNode(t.Context(), a.ID, "Transform"))
	assert.True(t, e.RenameNode(t.Context(), a.ID, "Shape"))
	assert.Equal(t, "Shape", e.Store().Node(a.ID).Title)
	assert.Equal(t, `Renamed "Transform" to "Shape"`, e.History().Current().Description)

	assert.True(t, e.UpdateNodeData(t.Context(), a.ID, "expression", "$.name"))
	assert.Equal(t, "$.name", e.Store().Node(a.ID).Data["expression"])
	assert.Equal(t, `Updated expression of "Shape"`, e.History().Current().Description)

	assert.False(t, e.RenameNode(t.Context(), "missing", "x"))
	assert.False(t, e.UpdateNodeData(t.Context(), "missing", "k", 1))

	// Earlier entries keep the data they were taken with.
	require.True(t, e.Undo(t.Context()))
	assert.Empty(t, e.Store().Node(a.ID).Data["expression"])
}

func TestConnect(t *testing.T) {
	e := newTestEditor(t)
	a := addNode(t, e, "transform", 0, 0)
	b := addNode(t, e, "log", 300, 0)

	conn, err := e.Connect(t.Context(), a.ID, a.Outputs[0].ID, b.ID, b.Inputs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.PortSideOutput, conn.Source.Side)
	assert.Equal(t, models.PortColor(models.DataTypeAny), conn.Color)
	assert.Equal(t, `Connected "Transform" to "Log"`, e.History().Current().Description)

	tests := []struct {
		name       string
		source     string
		sourcePort string
		target     string
		targetPort string
		want       error
	}{
		{"duplicate", a.ID, a.Outputs[0].ID, b.ID, b.Inputs[0].ID, ErrInvalidConnection},
		{"self", a.ID, a.Outputs[0].ID, a.ID, a.Inputs[0].ID, ErrInvalidConnection},
		{"missing node", "missing", "out", b.ID, b.Inputs[0].ID, ErrNodeNotFound},
		{"input used as source", a.ID, a.Inputs[0].ID, b.ID, b.Inputs[0].ID, ErrPortNotFound},
		{"missing target port", a.ID, a.Outputs[0].ID, b.ID, "nope", ErrPortNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Connect(t.Context(), tt.source, tt.sourcePort, tt.target, tt.targetPort)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Len(t, e.Store().Connections(), 1)

	require.True(t, e.DeleteConnection(t.Context(), conn.ID))
	assert.Empty(t, e.Store().Connections())
	assert.False(t, e.DeleteConnection(t.Context(), conn.ID))
}

func TestDefinedAreas(t *testing.T) {
	e := newTestEditor(t)

	area := e.AddDefinedArea(t.Context(), models.DefinedArea{Title: "Inputs", Width: 100, Height: 100})
	require.NotEmpty(t, area.ID)
	assert.Equal(t, `Added area "Inputs"`, e.History().Current().Description)

	area.Title = "Sources"
	require.True(t, e.UpdateDefinedArea(t.Context(), *area))
	assert.Equal(t, "Sources", e.Store().DefinedAreas()[0].Title)

	assert.False(t, e.UpdateDefinedArea(t.Context(), models.DefinedArea{ID: "missing"}))

	require.True(t, e.DeleteDefinedArea(t.Context(), area.ID))
	assert.Empty(t, e.Store().DefinedAreas())
	assert.Equal(t, `Deleted area "Sources"`, e.History().Current().Description)
	assert.False(t, e.DeleteDefinedArea(t.Context(), area.ID))
}

func TestSelection(t *testing.T) {
	e := newTestEditor(t)
	a := addNode(t, e, "transform", 0, 0)
	b := addNode(t, e, "log", 300, 0)
	conn, err := e.Connect(t.Context(), a.ID, a.Outputs[0].ID, b.ID, b.Inputs[0].ID)
	require.NoError(t, err)

	entries := len(e.History().Entries())

	// Clearing an empty selection is not worth an entry.
	assert.False(t, e.SelectNodes(t.Context(), nil))
	assert.Len(t, e.History().Entries(), entries)

	require.True(t, e.SelectConnection(conn.ID))
	assert.Equal(t, conn.ID, e.Store().SelectedConnectionID())

	assert.True(t, e.SelectNodes(t.Context(), []string{a.ID, a.ID, "missing", b.ID}))
	assert.Equal(t, []string{a.ID, b.ID}, e.Store().SelectedNodeIDs())
	assert.Empty(t, e.Store().SelectedConnectionID())
	assert.Equal(t, "Selected 2 nodes", e.History().Current().Description)

	require.True(t, e.SelectConnection(conn.ID))
	assert.Empty(t, e.Store().SelectedNodeIDs())

	assert.False(t, e.SelectConnection("missing"))
	assert.True(t, e.SelectConnection(""))
	assert.Empty(t, e.Store().SelectedConnectionID())
}

func TestCameraAndPlacement(t *testing.T) {
	e := newTestEditor(t)

	e.SetCamera(models.Point{X: 10, Y: -5}, 2)
	pan, scale := e.Store().Camera()
	assert.Equal(t, models.Point{X: 10, Y: -5}, pan)
	assert.Equal(t, 2.0, scale)
	assert.Empty(t, e.History().Entries())

	assert.False(t, e.SetNodeTypeToPlace("nope"))
	assert.True(t, e.SetNodeTypeToPlace("log"))
	assert.Equal(t, "log", e.Store().NodeTypeToPlace())
	assert.True(t, e.SetNodeTypeToPlace(""))
	assert.Empty(t, e.Store().NodeTypeToPlace())
}

func TestTabs(t *testing.T) {
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	e := newTestEditor(t, WithPublisher(publisher))
	a := addNode(t, e, "transform", 0, 0)

	e.OpenTab(t.Context(), tabs.Options{ID: "second", Title: "Second"})
	assert.Equal(t, "second", e.Tabs().ActiveID())
	assert.Empty(t, e.Store().Nodes())

	require.NoError(t, e.SelectTab(t.Context(), "main"))
	require.NotNil(t, e.Store().Node(a.ID))
	assert.Len(t, e.History().Entries(), 1)

	err := e.SelectTab(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrTabNotFound)

	require.NoError(t, e.CloseTab(t.Context(), "main"))
	assert.Equal(t, "second", e.Tabs().ActiveID())
	assert.ErrorIs(t, e.CloseTab(t.Context(), "main"), ErrTabNotFound)

	assert.True(t, e.MarkSaved("second"))

	assert.Contains(t, publisher.types(), events.TabSelectedEvent)
	assert.Contains(t, publisher.types(), events.TabClosedEvent)
	assert.Contains(t, publisher.types(), events.HistoryCommittedEvent)
	assert.Contains(t, publisher.types(), events.TabDirtyEvent)
}

func TestPublishFailureDoesNotBlockEdits(t *testing.T) {
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	e := newTestEditor(t, WithPublisher(publisher))

	addNode(t, e, "transform", 0, 0)
	assert.Len(t, e.Store().Nodes(), 1)
	publisher.AssertCalled(t, "Publish", mock.Anything, "main", mock.Anything)
}

func TestHistoryOptions(t *testing.T) {
	e := newTestEditor(t, WithHistoryOptions(history.WithMaxEntries(2), history.WithMoveThreshold(0)))

	for i := range 4 {
		addNode(t, e, "log", float64(i*100), 0)
	}

	assert.Len(t, e.History().Entries(), 2)
}
