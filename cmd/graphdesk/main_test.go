package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/graphdesk/pkg/editor"
	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/persistence/file"
	"github.com/dukex/graphdesk/pkg/project"
	"github.com/dukex/graphdesk/pkg/tabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard

	err := app.Run(t.Context(), append([]string{"graphdesk", "--log-level", "error"}, args...))

	return out.String(), err
}

// writeProject exports a project with one subworkflow and one instance of it
// in the "main" tab. A stale project has an instance without ports.
func writeProject(t *testing.T, dir string, stale bool) string {
	t.Helper()

	e := editor.New()
	def := e.CreateSubWorkflow(t.Context(), "Greeter", "")

	_, err := e.AddNode(t.Context(), models.NodeTypeInterfaceInput, 0, 0)
	require.NoError(t, err)

	e.OpenTab(t.Context(), tabs.Options{ID: "main", Title: "Main"})

	instance, err := e.AddSubWorkflowInstance(t.Context(), def.ID, 100, 100)
	require.NoError(t, err)

	f := e.ExportProject(t.Context())

	if stale {
		for _, n := range f.TabWorkflowStates["main"].Nodes {
			if n.ID == instance.ID {
				n.Inputs = []*models.Port{}
			}
		}
	}

	data, err := project.Marshal(f)
	require.NoError(t, err)

	path := filepath.Join(dir, "greeter.json")
	require.NoError(t, os.WriteFile(path, data, 0600))

	return path
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	valid := writeProject(t, dir, false)

	invalid := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"version": "1.0.0"}`), 0600))

	out, err := run(t, "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, valid+": ok (2 tabs, 1 subworkflows)")

	out, err = run(t, "validate", valid, invalid)
	require.Error(t, err)
	assert.Contains(t, out, invalid+": invalid:")

	_, err = run(t, "validate")
	assert.ErrorIs(t, err, errMissingArgument)
}

func TestInspect(t *testing.T) {
	path := writeProject(t, t.TempDir(), true)

	out, err := run(t, "inspect", "--format", "json", path)
	require.NoError(t, err)

	var s summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))

	assert.Equal(t, "main", s.ActiveTab)
	require.Len(t, s.Tabs, 2)
	require.Len(t, s.SubWorkflows, 1)
	assert.Equal(t, []string{"input: any"}, s.SubWorkflows[0].Inputs)
	assert.Equal(t, 1, s.SubWorkflows[0].Instances)
	assert.Len(t, s.Problems, 1)

	out, err = run(t, "inspect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "name: Greeter")
}

func TestConvert_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, false)
	yamlPath := filepath.Join(dir, "greeter.yaml")

	_, err := run(t, "convert", "-o", yamlPath, path)
	require.NoError(t, err)

	fromYAML, err := readProjectFile(yamlPath)
	require.NoError(t, err)

	original, err := readProjectFile(path)
	require.NoError(t, err)

	assert.Equal(t, original.ActiveTabID, fromYAML.ActiveTabID)
	assert.Equal(t, original.SubWorkflowDefinitions, fromYAML.SubWorkflowDefinitions)
	assert.Len(t, fromYAML.TabWorkflowStates, len(original.TabWorkflowStates))

	out, err := run(t, "convert", yamlPath)
	require.NoError(t, err)

	back, err := project.Decode([]byte(out))
	require.NoError(t, err)
	assert.Len(t, back.Tabs, 2)
}

func TestImportListSync(t *testing.T) {
	dir := t.TempDir()
	projects := filepath.Join(dir, "store")
	path := writeProject(t, dir, true)

	out, err := run(t, "--projects-dir", projects, "import", "--name", "demo", path)
	require.NoError(t, err)
	assert.Equal(t, "stored demo\n", out)

	out, err = run(t, "--projects-dir", projects, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "demo\t")

	out, err = run(t, "--projects-dir", projects, "sync", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "demo: updated 1 instances in 1 documents (dry run)\n", out)

	out, err = run(t, "--projects-dir", projects, "sync", "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo: updated 1 instances in 1 documents\n", out)

	stored, err := file.NewPersistence(projects).LoadProject(t.Context(), "demo")
	require.NoError(t, err)

	for _, n := range stored.TabWorkflowStates["main"].Nodes {
		if n.IsSubWorkflowInstance() {
			require.Len(t, n.Inputs, 1)
			assert.Equal(t, "in:input:any", n.Inputs[0].ID)
		}
	}

	for _, tab := range stored.Tabs {
		assert.False(t, tab.Unsaved)
	}

	out, err = run(t, "--projects-dir", projects, "sync", "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo: up to date\n", out)

	_, err = run(t, "--projects-dir", projects, "sync", "missing")
	assert.Error(t, err)
}
