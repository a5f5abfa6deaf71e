// Package project exports and imports whole-project files: every open tab,
// its document, and the project libraries.
package project

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dukex/graphdesk/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/mohae/deepcopy"
	"github.com/xeipuuv/gojsonschema"
)

// Version is written into every exported file.
const Version = "1.0.0"

//go:embed schema.json
var schemaJSON []byte

var (
	schema   = gojsonschema.NewBytesLoader(schemaJSON)
	validate = validator.New(validator.WithRequiredStructEnabled())
)

// File is the project export format. Tabs never carry their native file handle
// and custom node definitions never carry their executable part.
type File struct {
	Version                string                          `json:"version"                validate:"required"`
	ExportedAt             time.Time                       `json:"exportedAt"`
	ProjectSettings        map[string]any                  `json:"projectSettings"`
	Tabs                   []*models.Tab                   `json:"tabs"                   validate:"dive,required"`
	ActiveTabID            string                          `json:"activeTabId"`
	TabWorkflowStates      map[string]*models.Snapshot     `json:"tabWorkflowStates"      validate:"dive,required"`
	SubWorkflowDefinitions []*models.SubWorkflowDefinition `json:"subWorkflowDefinitions" validate:"dive,required"`
	NodeGroupDefinitions   []*models.NodeGroupDefinition   `json:"nodeGroupDefinitions"   validate:"dive,required"`
	CustomNodeDefinitions  []*models.NodeDefinition        `json:"customNodeDefinitions"  validate:"dive,required"`
	CustomTools            []map[string]any                `json:"customTools"`
	EditableAIModelConfigs []map[string]any                `json:"editableAiModelConfigs"`
}

// Name returns the project name from the settings, or "".
func (f *File) Name() string {
	name, _ := f.ProjectSettings["name"].(string)

	return name
}

// Contents is everything a project export captures.
type Contents struct {
	Settings       map[string]any
	Tabs           []*models.Tab
	ActiveTabID    string
	States         map[string]*models.Snapshot
	SubWorkflows   []*models.SubWorkflowDefinition
	NodeGroups     []*models.NodeGroupDefinition
	CustomNodes    []*models.NodeDefinition
	CustomTools    []map[string]any
	AIModelConfigs []map[string]any
}

// Export builds a detached project file from the given contents.
func Export(c Contents, now time.Time) *File {
	f := &File{
		Version:                Version,
		ExportedAt:             now.UTC(),
		ProjectSettings:        map[string]any{},
		Tabs:                   make([]*models.Tab, 0, len(c.Tabs)),
		ActiveTabID:            c.ActiveTabID,
		TabWorkflowStates:      make(map[string]*models.Snapshot, len(c.States)),
		SubWorkflowDefinitions: make([]*models.SubWorkflowDefinition, 0, len(c.SubWorkflows)),
		NodeGroupDefinitions:   make([]*models.NodeGroupDefinition, 0, len(c.NodeGroups)),
		CustomNodeDefinitions:  make([]*models.NodeDefinition, 0, len(c.CustomNodes)),
		CustomTools:            cloneMaps(c.CustomTools),
		EditableAIModelConfigs: cloneMaps(c.AIModelConfigs),
	}

	if c.Settings != nil {
		f.ProjectSettings = deepcopy.Copy(c.Settings).(map[string]any)
	}

	for _, t := range c.Tabs {
		tab := t.Clone()
		tab.FilePath = ""
		f.Tabs = append(f.Tabs, tab)
	}

	for id, s := range c.States {
		snap := s.Clone()
		snap.Nodes = normalizeNodes(snap.Nodes)
		f.TabWorkflowStates[id] = snap
	}

	for _, d := range c.SubWorkflows {
		def := d.Clone()
		def.Inputs = emptyIfNil(def.Inputs)
		def.Outputs = emptyIfNil(def.Outputs)
		f.SubWorkflowDefinitions = append(f.SubWorkflowDefinitions, def)
	}

	for _, g := range c.NodeGroups {
		group := g.Clone()
		group.Nodes = normalizeNodes(group.Nodes)
		group.Connections = emptyIfNil(group.Connections)
		f.NodeGroupDefinitions = append(f.NodeGroupDefinitions, group)
	}

	for _, d := range c.CustomNodes {
		def := d.Stripped()
		def.Inputs = emptyIfNil(def.Inputs)
		def.Outputs = emptyIfNil(def.Outputs)
		f.CustomNodeDefinitions = append(f.CustomNodeDefinitions, def)
	}

	return f
}

// Marshal encodes a project file as indented JSON.
func Marshal(f *File) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}

	return data, nil
}

// Decode parses and validates a project file. Any structural or semantic
// problem rejects the whole file with an *ImportError.
func Decode(data []byte) (*File, error) {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &ImportError{Op: "schema", Message: err.Error(), Err: errors.Join(ErrInvalidProject, err)}
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}

		ie := newImportError("schema", result.Errors()[0].Field(), strings.Join(descriptions, "; "))

		return nil, ie
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &ImportError{Op: "decode", Message: err.Error(), Err: errors.Join(ErrInvalidProject, err)}
	}

	if err := Validate(&f); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks a decoded project for consistency.
func Validate(f *File) error {
	if f == nil {
		return newImportError("validate", "", "project is empty")
	}

	if major, _, _ := strings.Cut(f.Version, "."); major != "1" {
		return &ImportError{
			Op:      "validate",
			Field:   "version",
			Message: fmt.Sprintf("version %q is not supported", f.Version),
			Err:     errors.Join(ErrInvalidProject, ErrUnsupportedVersion),
		}
	}

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return newImportError("validate", verrs[0].Namespace(), verrs[0].Error())
		}

		return newImportError("validate", "", err.Error())
	}

	tabIDs := map[string]bool{}

	for _, t := range f.Tabs {
		if tabIDs[t.ID] {
			return newImportError("validate", "tabs", fmt.Sprintf("duplicate tab id %q", t.ID))
		}

		tabIDs[t.ID] = true
	}

	if f.ActiveTabID != "" && !tabIDs[f.ActiveTabID] {
		return newImportError("validate", "activeTabId", fmt.Sprintf("tab %q does not exist", f.ActiveTabID))
	}

	definitions := map[string]bool{}
	for _, d := range f.SubWorkflowDefinitions {
		definitions[d.ID] = true
	}

	for _, t := range f.Tabs {
		if t.IsSubWorkflow() && !definitions[t.SubWorkflowID] {
			return newImportError("validate", "tabs",
				fmt.Sprintf("tab %q references unknown subworkflow %q", t.ID, t.SubWorkflowID))
		}
	}

	for id, s := range f.TabWorkflowStates {
		if err := validateConnections(s); err != nil {
			return newImportError("validate", "tabWorkflowStates."+id, err.Error())
		}
	}

	return nil
}

func validateConnections(s *models.Snapshot) error {
	dangling := models.DanglingConnections(s.Nodes, s.Connections)
	if len(dangling) > 0 {
		return fmt.Errorf("connection %q references a missing port", dangling[0].ID)
	}

	return nil
}

// normalizeNodes replaces nil port lists so that the file passes its own
// schema.
func normalizeNodes(nodes []*models.Node) []*models.Node {
	for _, n := range nodes {
		n.Inputs = emptyIfNil(n.Inputs)
		n.Outputs = emptyIfNil(n.Outputs)
	}

	return emptyIfNil(nodes)
}

// emptyIfNil keeps list fields serializing as arrays rather than null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func cloneMaps(in []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, m := range in {
		out = append(out, deepcopy.Copy(m).(map[string]any))
	}

	return out
}
