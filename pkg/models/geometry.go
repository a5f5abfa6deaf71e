package models

// Rect is an axis-aligned world-space rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// BoundingBox returns the smallest rectangle containing every node.
// An empty list yields the zero rectangle and false.
func BoundingBox(nodes []*Node) (Rect, bool) {
	if len(nodes) == 0 {
		return Rect{}, false
	}

	minX, minY := nodes[0].X, nodes[0].Y
	maxX, maxY := nodes[0].X+nodes[0].Width, nodes[0].Y+nodes[0].Height

	for _, n := range nodes[1:] {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X+n.Width)
		maxY = max(maxY, n.Y+n.Height)
	}

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// DefinedArea is a purely visual annotation rectangle on the canvas.
type DefinedArea struct {
	ID          string  `json:"id"                    validate:"required"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"                 validate:"gte=0"`
	Height      float64 `json:"height"                validate:"gte=0"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	BorderStyle string  `json:"borderStyle,omitempty"`
	ZIndex      int     `json:"zIndex"`
}

// Bounds returns the area rectangle.
func (a *DefinedArea) Bounds() Rect {
	return Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
}

// CloneAreas copies a defined area list.
func CloneAreas(areas []*DefinedArea) []*DefinedArea {
	if areas == nil {
		return nil
	}

	out := make([]*DefinedArea, len(areas))
	for i, a := range areas {
		c := *a
		out[i] = &c
	}

	return out
}
