// Package persistence stores exported project files.
package persistence

import (
	"context"
	"time"

	"github.com/dukex/graphdesk/pkg/project"
)

// ProjectInfo describes a stored project without loading it.
type ProjectInfo struct {
	Name       string
	ModifiedAt time.Time
	Size       int64
}

type Persistence interface {
	SaveProject(ctx context.Context, name string, file *project.File) error
	LoadProject(ctx context.Context, name string) (*project.File, error)
	ListProjects(ctx context.Context) ([]ProjectInfo, error)
	DeleteProject(ctx context.Context, name string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
