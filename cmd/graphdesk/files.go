package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukex/graphdesk/pkg/project"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// formatOf picks the encoding from a file extension. Anything that is not
// YAML is read as JSON.
func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// readProjectFile reads and validates a project file in either encoding.
func readProjectFile(path string) (*project.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if formatOf(path) == formatYAML {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return project.Decode(data)
}

// encodeProject renders a project file in the requested encoding. YAML keeps
// the JSON field names.
func encodeProject(f *project.File, format string) ([]byte, error) {
	data, err := project.Marshal(f)
	if err != nil {
		return nil, err
	}

	switch format {
	case formatJSON:
		return append(data, '\n'), nil
	case formatYAML:
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to re-read project: %w", err)
		}

		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml cannot be expressed as json: %w", err)
	}

	return out, nil
}

func projectNameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
