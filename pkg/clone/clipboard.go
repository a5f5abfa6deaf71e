package clone

import "github.com/dukex/graphdesk/pkg/models"

// Clipboard holds at most one ClipboardContent. Content that came from a cut
// can be taken once; copied content can be taken any number of times.
type Clipboard struct {
	content *models.ClipboardContent
}

// Set replaces the clipboard content.
func (c *Clipboard) Set(content *models.ClipboardContent) {
	c.content = content
}

// Take returns a copy of the content for pasting. Cut content is cleared.
func (c *Clipboard) Take() (*models.ClipboardContent, bool) {
	if c.content == nil {
		return nil, false
	}

	out := cloneContent(c.content)

	if c.content.FromCut {
		c.content = nil
	}

	return out, true
}

// Empty reports whether there is nothing to paste.
func (c *Clipboard) Empty() bool {
	return c.content == nil
}

// Clear drops the content.
func (c *Clipboard) Clear() {
	c.content = nil
}

func cloneContent(content *models.ClipboardContent) *models.ClipboardContent {
	return &models.ClipboardContent{
		Nodes:       models.CloneNodes(content.Nodes),
		Connections: models.CloneConnections(content.Connections),
		Bounds:      content.Bounds,
		FromCut:     content.FromCut,
	}
}
