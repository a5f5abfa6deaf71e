package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukex/graphdesk/pkg/models"
	"github.com/dukex/graphdesk/pkg/persistence"
	"github.com/dukex/graphdesk/pkg/project"
	"github.com/dukex/graphdesk/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject(name string) *project.File {
	a := testutil.CreateTestNode(testutil.WithID("a"))

	return project.Export(project.Contents{
		Settings:    map[string]any{"name": name},
		Tabs:        []*models.Tab{{ID: "main", Title: "Main", Kind: models.TabKindWorkflow}},
		ActiveTabID: "main",
		States:      map[string]*models.Snapshot{"main": testutil.CreateSnapshot([]*models.Node{a}, nil)},
	}, time.Now())
}

func TestNewPersistence(t *testing.T) {
	p := NewPersistence("/tmp/test")
	fp := p.(*Persistence)
	assert.Equal(t, "/tmp/test", fp.root)

	p = NewPersistence("file:///tmp/test")
	fp = p.(*Persistence)
	assert.Equal(t, "/tmp/test", fp.root)
}

func TestPersistence_Close(t *testing.T) {
	p := NewPersistence("./test-data")
	assert.NoError(t, p.Close(t.Context()))
}

func TestPersistence_HealthCheck(t *testing.T) {
	assert.NoError(t, NewPersistence(t.TempDir()).HealthCheck(t.Context()))
	assert.ErrorIs(t, NewPersistence(filepath.Join(t.TempDir(), "missing")).HealthCheck(t.Context()), os.ErrNotExist)
}

func TestPersistence_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := NewPersistence(dir)

	require.NoError(t, p.SaveProject(t.Context(), "demo", sampleProject("demo")))

	_, err := os.Stat(filepath.Join(dir, "projects", "demo.json"))
	require.NoError(t, err)

	leftovers, err := filepath.Glob(filepath.Join(dir, "projects", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	loaded, err := p.LoadProject(t.Context(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.Name())
	assert.Equal(t, "main", loaded.ActiveTabID)
	assert.Len(t, loaded.TabWorkflowStates["main"].Nodes, 1)

	// Overwrite keeps a single file.
	require.NoError(t, p.SaveProject(t.Context(), "demo", sampleProject("demo v2")))
	loaded, err = p.LoadProject(t.Context(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo v2", loaded.Name())
}

func TestPersistence_LoadMissing(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.LoadProject(t.Context(), "nope")
	assert.True(t, persistence.IsProjectNotFound(err))
}

func TestPersistence_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "projects"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "bad.json"), []byte(`{"version":"1.0.0"}`), 0600))

	_, err := NewPersistence(dir).LoadProject(t.Context(), "bad")

	require.Error(t, err)
	assert.True(t, project.IsInvalidProject(err))
	assert.False(t, persistence.IsProjectNotFound(err))
}

func TestPersistence_ListAndDelete(t *testing.T) {
	p := NewPersistence(t.TempDir())

	infos, err := p.ListProjects(t.Context())
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, p.SaveProject(t.Context(), "beta", sampleProject("beta")))
	require.NoError(t, p.SaveProject(t.Context(), "alpha", sampleProject("alpha")))

	infos, err = p.ListProjects(t.Context())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Positive(t, infos[0].Size)

	require.NoError(t, p.DeleteProject(t.Context(), "alpha"))
	assert.True(t, persistence.IsProjectNotFound(p.DeleteProject(t.Context(), "alpha")))

	infos, err = p.ListProjects(t.Context())
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestPersistence_RejectsUnsafeNames(t *testing.T) {
	p := NewPersistence(t.TempDir())

	err := p.SaveProject(t.Context(), "../escape", sampleProject("x"))
	assert.ErrorIs(t, err, persistence.ErrInvalidProjectName)

	_, err = p.LoadProject(t.Context(), "")
	assert.ErrorIs(t, err, persistence.ErrInvalidProjectName)
}
