package subworkflow

import (
	"slices"
	"testing"

	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveInterface_ReadsDataBagAndSorts(t *testing.T) {
	nodes := []*models.Node{
		testutil.CreateInterfaceNode("i2", models.InterfaceInput, "zeta", models.DataTypeNumber, false),
		testutil.CreateInterfaceNode("i1", models.InterfaceInput, "alpha", models.DataTypeString, true),
		testutil.CreateInterfaceNode("o1", models.InterfaceOutput, "result", models.DataTypeObject, false),
		testutil.CreateTestNode(testutil.WithID("plain")),
	}

	inputs, outputs := DeriveInterface(nodes)

	assert.Equal(t, []models.InterfaceDefinition{
		{Name: "alpha", DataType: models.DataTypeString, Required: true, NodeID: "i1"},
		{Name: "zeta", DataType: models.DataTypeNumber, NodeID: "i2"},
	}, inputs)
	assert.Equal(t, []models.InterfaceDefinition{
		{Name: "result", DataType: models.DataTypeObject, NodeID: "o1"},
	}, outputs)
}

func TestDeriveInterface_FallsBackToPort(t *testing.T) {
	n := testutil.CreateInterfaceNode("i1", models.InterfaceInput, "fromPort", models.DataTypeBoolean, true)
	n.Data = map[string]any{}

	inputs, _ := DeriveInterface([]*models.Node{n})

	require.Len(t, inputs, 1)
	assert.Equal(t, "fromPort", inputs[0].Name)
	assert.Equal(t, models.DataTypeBoolean, inputs[0].DataType)
	assert.True(t, inputs[0].Required)
}

func TestDeriveInterface_WeaklyTypedData(t *testing.T) {
	n := testutil.CreateInterfaceNode("i1", models.InterfaceInput, "flag", models.DataTypeBoolean, false)
	n.Data[models.DataKeyRequired] = "true"

	inputs, _ := DeriveInterface([]*models.Node{n})

	require.Len(t, inputs, 1)
	assert.True(t, inputs[0].Required)
}

func TestGenerateInstancePorts_GroupsByNameAndType(t *testing.T) {
	def := &models.SubWorkflowDefinition{
		ID: "sw",
		Inputs: []models.InterfaceDefinition{
			{Name: "text", DataType: models.DataTypeString, NodeID: "b", Required: false},
			{Name: "text", DataType: models.DataTypeString, NodeID: "a", Required: true},
			{Name: "text", DataType: models.DataTypeNumber, NodeID: "c"},
		},
		Outputs: []models.InterfaceDefinition{
			{Name: "out", DataType: models.DataTypeAny, NodeID: "d"},
		},
	}

	inputs, outputs, mapping := GenerateInstancePorts(def)

	require.Len(t, inputs, 2)
	assert.Equal(t, "in:text:number", inputs[0].ID)
	assert.Equal(t, "in:text:string", inputs[1].ID)
	assert.True(t, inputs[1].Required, "required wins inside a group")
	assert.Equal(t, models.ShapeFor(true, models.DataTypeString), inputs[1].Shape())

	require.Len(t, outputs, 1)
	assert.Equal(t, "out:out:any", outputs[0].ID)

	assert.Equal(t, []string{"a", "b"}, mapping["in:text:string"])
	assert.Equal(t, []string{"c"}, mapping["in:text:number"])
	assert.Equal(t, []string{"d"}, mapping["out:out:any"])
}

func TestInstancePortID_EscapesName(t *testing.T) {
	assert.Equal(t, "in:text:string", InstancePortID(models.InterfaceInput, "text", models.DataTypeString))
	assert.Equal(t, "out:say+hello:any", InstancePortID(models.InterfaceOutput, "say hello", models.DataTypeAny))

	colon := InstancePortID(models.InterfaceInput, "a:string", models.DataTypeAny)
	assert.Equal(t, "in:a%3Astring:any", colon)
	assert.NotEqual(t, colon, InstancePortID(models.InterfaceInput, "a", "string:any"))

	inputs, _, mapping := GenerateInstancePorts(&models.SubWorkflowDefinition{
		ID: "sw",
		Inputs: []models.InterfaceDefinition{
			{Name: "a:string", DataType: models.DataTypeAny, NodeID: "i1"},
			{Name: "a", DataType: "string:any", NodeID: "i2"},
		},
	})
	require.Len(t, inputs, 2)
	assert.Len(t, mapping, 2)
	assert.Equal(t, "a:string", inputs[slices.IndexFunc(inputs, func(p *models.Port) bool { return p.ID == colon })].Label)
}

func TestInsertLogicalInterface(t *testing.T) {
	in1 := NewLogicalInterface(models.InterfaceInput, "in1", "", false)
	out1 := NewLogicalInterface(models.InterfaceOutput, "out1", models.DataTypeString, false)
	items := []*models.LogicalInterface{in1, out1}

	in2 := NewLogicalInterface(models.InterfaceInput, "in2", models.DataTypeNumber, true)
	out2 := NewLogicalInterface(models.InterfaceOutput, "out2", models.DataTypeString, false)

	got := InsertLogicalInterface(items, in2)
	got = InsertLogicalInterface(got, out2)

	assert.Equal(t, []*models.LogicalInterface{in2, in1, out1, out2}, got)
	assert.Len(t, items, 2)
	assert.Equal(t, models.DataTypeAny, in1.DataType)
	assert.True(t, in1.Logical)
}

func TestReconcileLogicalInterfaces(t *testing.T) {
	logical := NewLogicalInterface(models.InterfaceInput, "text", models.DataTypeString, false)
	unmatched := NewLogicalInterface(models.InterfaceOutput, "later", models.DataTypeAny, false)
	items := []*models.LogicalInterface{logical, unmatched}

	nodes := []*models.Node{
		testutil.CreateInterfaceNode("n1", models.InterfaceInput, "text", models.DataTypeString, true),
		testutil.CreateInterfaceNode("n2", models.InterfaceInput, "extra", models.DataTypeNumber, false),
	}

	got, changed := ReconcileLogicalInterfaces(items, nodes)
	require.True(t, changed)
	require.Len(t, got, 3)

	assert.Equal(t, "extra", got[0].Name, "new derived input goes to the head")
	assert.False(t, got[0].Logical)
	assert.Equal(t, "n2", got[0].NodeID)

	assert.Equal(t, logical.ID, got[1].ID)
	assert.False(t, got[1].Logical)
	assert.Equal(t, "n1", got[1].NodeID)
	assert.True(t, got[1].Required)

	assert.Equal(t, unmatched.ID, got[2].ID)
	assert.True(t, got[2].Logical)

	again, changed := ReconcileLogicalInterfaces(got, nodes)
	assert.False(t, changed)
	assert.Equal(t, got, again)

	pruned, changed := ReconcileLogicalInterfaces(got, nodes[:1])
	assert.True(t, changed)
	assert.Len(t, pruned, 2)
}
