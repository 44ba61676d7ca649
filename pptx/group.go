package pptx

// GroupShape represents a named group of shapes. Children use slide
// coordinates; the group's bounds are recomputed as children are added.
type GroupShape struct {
	BaseShape
	shapes []Shape
}

func (g *GroupShape) GetType() ShapeType { return ShapeTypeGroup }

// NewGroupShape creates a new empty group.
func NewGroupShape() *GroupShape {
	return &GroupShape{
		shapes: make([]Shape, 0),
	}
}

// AddShape adds a shape to the group and grows the group bounds to cover it.
func (g *GroupShape) AddShape(s Shape) *GroupShape {
	if len(g.shapes) == 0 {
		g.offsetX, g.offsetY = s.GetOffsetX(), s.GetOffsetY()
		g.width, g.height = s.GetWidth(), s.GetHeight()
	} else {
		minX := min(g.offsetX, s.GetOffsetX())
		minY := min(g.offsetY, s.GetOffsetY())
		maxX := max(g.offsetX+g.width, s.GetOffsetX()+s.GetWidth())
		maxY := max(g.offsetY+g.height, s.GetOffsetY()+s.GetHeight())
		g.offsetX, g.offsetY = minX, minY
		g.width, g.height = maxX-minX, maxY-minY
	}
	g.shapes = append(g.shapes, s)
	return g
}

// GetShapes returns all shapes in the group.
func (g *GroupShape) GetShapes() []Shape {
	return g.shapes
}

// GetShapeCount returns the number of shapes in the group.
func (g *GroupShape) GetShapeCount() int {
	return len(g.shapes)
}
