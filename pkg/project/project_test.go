package project

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContents() Contents {
	a := testutil.CreateTestNode(testutil.WithID("a"))
	b := testutil.CreateTestNode(testutil.WithID("b"))
	snap := testutil.CreateSnapshot([]*models.Node{a, b}, []*models.Connection{testutil.CreateTestConnection("a", "b")})
	snap.NodeExecutionStates = models.ExecutionStates{"a": {Status: models.NodeStatusSuccess}}

	iface := testutil.CreateInterfaceNode("i1", models.InterfaceInput, "text", models.DataTypeString, true)

	return Contents{
		Settings: map[string]any{"name": "demo"},
		Tabs: []*models.Tab{
			{ID: "main", Title: "Main", Kind: models.TabKindWorkflow, FilePath: "/tmp/main.json"},
			{ID: "sw", Title: "Sub", Kind: models.TabKindSubWorkflow, SubWorkflowID: "sw"},
		},
		ActiveTabID: "main",
		States: map[string]*models.Snapshot{
			"main": snap,
			"sw":   testutil.CreateSnapshot([]*models.Node{iface}, nil),
		},
		SubWorkflows: []*models.SubWorkflowDefinition{{
			ID:     "sw",
			Name:   "Sub",
			Inputs: []models.InterfaceDefinition{{Name: "text", DataType: models.DataTypeString, Required: true, NodeID: "i1"}},
		}},
		NodeGroups: []*models.NodeGroupDefinition{{ID: "g1", Name: "pair", Nodes: []*models.Node{a}}},
		CustomNodes: []*models.NodeDefinition{{
			Type:  "custom:echo",
			Title: "Echo",
			Execute: func(_ context.Context, in map[string]any) (map[string]any, error) {
				return in, nil
			},
		}},
		CustomTools:    []map[string]any{{"name": "search"}},
		AIModelConfigs: []map[string]any{{"model": "small"}},
	}
}

func encode(t *testing.T, f *File) []byte {
	t.Helper()

	data, err := Marshal(f)
	require.NoError(t, err)

	return data
}

// mutate decodes raw JSON into a generic map, applies fn and re-encodes it.
func mutate(t *testing.T, data []byte, fn func(map[string]any)) []byte {
	t.Helper()

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	fn(raw)

	out, err := json.Marshal(raw)
	require.NoError(t, err)

	return out
}

func TestExport_StripsHandlesAndFunctions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := Export(sampleContents(), now)

	assert.Equal(t, Version, f.Version)
	assert.Equal(t, now, f.ExportedAt)
	assert.Equal(t, "demo", f.Name())
	assert.Empty(t, f.Tabs[0].FilePath)
	assert.Nil(t, f.CustomNodeDefinitions[0].Execute)

	data := encode(t, f)
	assert.NotContains(t, string(data), "/tmp/main.json")
	assert.Contains(t, string(data), `"nodeExecutionStates": [`)
	assert.Contains(t, string(data), `"shape": "circle"`)
}

func TestDecode_RoundTrip(t *testing.T) {
	f := Export(sampleContents(), time.Now())

	got, err := Decode(encode(t, f))
	require.NoError(t, err)

	assert.Equal(t, "main", got.ActiveTabID)
	require.Len(t, got.Tabs, 2)
	assert.Equal(t, "sw", got.Tabs[1].SubWorkflowID)
	require.Contains(t, got.TabWorkflowStates, "main")
	assert.Len(t, got.TabWorkflowStates["main"].Connections, 1)
	assert.Equal(t, models.NodeStatusSuccess, got.TabWorkflowStates["main"].NodeExecutionStates["a"].Status)
	assert.Len(t, got.SubWorkflowDefinitions, 1)
	assert.Len(t, got.CustomTools, 1)
}

func TestDecode_Rejects(t *testing.T) {
	valid := encode(t, Export(sampleContents(), time.Now()))

	tests := []struct {
		name  string
		data  []byte
		op    string
		field string
	}{
		{
			name: "not json",
			data: []byte("{"),
			op:   "schema",
		},
		{
			name: "missing top-level field",
			data: mutate(t, valid, func(m map[string]any) { delete(m, "customTools") }),
			op:   "schema",
		},
		{
			name: "tabs is not an array",
			data: mutate(t, valid, func(m map[string]any) { m["tabs"] = map[string]any{} }),
			op:   "schema",
		},
		{
			name: "state without nodes",
			data: mutate(t, valid, func(m map[string]any) {
				delete(m["tabWorkflowStates"].(map[string]any)["main"].(map[string]any), "nodes")
			}),
			op: "schema",
		},
		{
			name: "execution states not pairs",
			data: mutate(t, valid, func(m map[string]any) {
				m["tabWorkflowStates"].(map[string]any)["main"].(map[string]any)["nodeExecutionStates"] = []any{[]any{"a"}}
			}),
			op: "schema",
		},
		{
			name: "unsupported version",
			data: mutate(t, valid, func(m map[string]any) { m["version"] = "2.0.0" }),
			op:   "validate",
			field: "version",
		},
		{
			name: "unknown active tab",
			data: mutate(t, valid, func(m map[string]any) { m["activeTabId"] = "ghost" }),
			op:   "validate",
			field: "activeTabId",
		},
		{
			name: "subworkflow tab without definition",
			data: mutate(t, valid, func(m map[string]any) { m["subWorkflowDefinitions"] = []any{} }),
			op:   "validate",
			field: "tabs",
		},
		{
			name: "dangling connection",
			data: mutate(t, valid, func(m map[string]any) {
				state := m["tabWorkflowStates"].(map[string]any)["main"].(map[string]any)
				state["nodes"] = state["nodes"].([]any)[:1]
			}),
			op:    "validate",
			field: "tabWorkflowStates.main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(tt.data)

			require.Error(t, err)
			assert.Nil(t, f)
			assert.True(t, IsInvalidProject(err))

			var ie *ImportError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.op, ie.Op)

			if tt.field != "" {
				assert.Equal(t, tt.field, ie.Field)
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	assert.True(t, IsInvalidProject(err))
}

func TestImportError_Message(t *testing.T) {
	err := newImportError("validate", "tabs", "duplicate tab id \"x\"")
	assert.Equal(t, `import validate: tabs: duplicate tab id "x"`, err.Error())

	err = newImportError("schema", "", "bad")
	assert.Equal(t, "import schema: bad", err.Error())
}

func TestExport_FillsNilLists(t *testing.T) {
	node := testutil.CreateTestNode(testutil.WithID("a"))
	node.Inputs = nil

	f := Export(Contents{
		Tabs:   []*models.Tab{{ID: "main", Kind: models.TabKindWorkflow}},
		States: map[string]*models.Snapshot{"main": {Nodes: []*models.Node{node}}},
	}, time.Now())

	got, err := Decode(encode(t, f))
	require.NoError(t, err)

	snap := got.TabWorkflowStates["main"]
	assert.NotNil(t, snap.Connections)
	assert.NotNil(t, snap.SelectedNodeIDs)
	assert.NotNil(t, snap.Nodes[0].Inputs)
	assert.Equal(t, models.DefaultScale, snap.Scale)

	// The caller's document is left as it was.
	assert.Nil(t, node.Inputs)
}
