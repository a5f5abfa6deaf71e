package models

// TabKind distinguishes top-level workflows from subworkflow definition documents.
type TabKind string

const (
	TabKindWorkflow    TabKind = "workflow"
	TabKindSubWorkflow TabKind = "subworkflow"
)

// Tab is one open document.
type Tab struct {
	ID            string  `json:"id"                      validate:"required"`
	Title         string  `json:"title"`
	Kind          TabKind `json:"kind"                    validate:"oneof=workflow subworkflow"`
	SubWorkflowID string  `json:"subWorkflowId,omitempty" validate:"required_if=Kind subworkflow"`
	Unsaved       bool    `json:"unsaved"`

	// FilePath is the native file handle backing the tab. It never leaves the process.
	FilePath string `json:"-"`
}

// IsSubWorkflow reports whether the tab edits a subworkflow definition.
func (t *Tab) IsSubWorkflow() bool {
	return t.Kind == TabKindSubWorkflow
}

// Clone copies the tab.
func (t *Tab) Clone() *Tab {
	if t == nil {
		return nil
	}

	c := *t

	return &c
}
