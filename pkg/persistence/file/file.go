// Package file provides file-based persistence for project files.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dukex/graphdesk/pkg/persistence"
	"github.com/dukex/graphdesk/pkg/project"
)

const projectsDir = "projects"

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root string
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks if the file persistence layer is healthy by verifying the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// SaveProject writes the project atomically: a temp file in the same
// directory is renamed over the target.
func (fp *Persistence) SaveProject(_ context.Context, name string, file *project.File) error {
	if err := persistence.ValidateName(name); err != nil {
		return persistence.NewProjectError("Save", name, err)
	}

	data, err := project.Marshal(file)
	if err != nil {
		return persistence.NewProjectError("Save", name, err)
	}

	dir := filepath.Join(fp.root, projectsDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return persistence.NewProjectError("Save", name, err)
	}

	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return persistence.NewProjectError("Save", name, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return persistence.NewProjectError("Save", name, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return persistence.NewProjectError("Save", name, err)
	}

	if err := os.Rename(tmpName, fp.path(name)); err != nil {
		_ = os.Remove(tmpName)

		return persistence.NewProjectError("Save", name, err)
	}

	return nil
}

// LoadProject reads and validates a stored project.
func (fp *Persistence) LoadProject(_ context.Context, name string) (*project.File, error) {
	if err := persistence.ValidateName(name); err != nil {
		return nil, persistence.NewProjectError("Load", name, err)
	}

	data, err := os.ReadFile(fp.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.NewProjectError("Load", name, persistence.ErrProjectNotFound)
		}

		return nil, persistence.NewProjectError("Load", name, err)
	}

	file, err := project.Decode(data)
	if err != nil {
		return nil, &persistence.ProjectError{Op: "Load", Name: name, Err: err, Message: "stored file is not a valid project"}
	}

	return file, nil
}

// ListProjects returns the stored projects sorted by name.
func (fp *Persistence) ListProjects(_ context.Context) ([]persistence.ProjectInfo, error) {
	matches, err := fs.Glob(os.DirFS(filepath.Join(fp.root, projectsDir)), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}

	infos := make([]persistence.ProjectInfo, 0, len(matches))

	for _, m := range matches {
		stat, err := os.Stat(filepath.Join(fp.root, projectsDir, m))
		if err != nil {
			continue
		}

		infos = append(infos, persistence.ProjectInfo{
			Name:       strings.TrimSuffix(m, ".json"),
			ModifiedAt: stat.ModTime(),
			Size:       stat.Size(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })

	return infos, nil
}

// DeleteProject removes a stored project.
func (fp *Persistence) DeleteProject(_ context.Context, name string) error {
	if err := persistence.ValidateName(name); err != nil {
		return persistence.NewProjectError("Delete", name, err)
	}

	err := os.Remove(fp.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return persistence.NewProjectError("Delete", name, persistence.ErrProjectNotFound)
	}

	if err != nil {
		return persistence.NewProjectError("Delete", name, err)
	}

	return nil
}

func (fp *Persistence) path(name string) string {
	return filepath.Join(fp.root, projectsDir, name+".json")
}
