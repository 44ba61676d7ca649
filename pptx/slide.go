package pptx

import (
	"slices"
	"strings"
)

// Slide is one slide of a presentation: an ordered list of shapes drawn
// back to front over an optional solid background.
type Slide struct {
	name       string
	shapes     []Shape
	background *Fill
	skipped    []string
}

func newSlide() *Slide {
	return &Slide{shapes: make([]Shape, 0)}
}

// NewSlide creates a detached slide that can later be added with
// Presentation.AddSlide.
func NewSlide() *Slide {
	return newSlide()
}

// GetName returns the slide name.
func (s *Slide) GetName() string { return s.name }

// SetName sets the slide name.
func (s *Slide) SetName(name string) { s.name = name }

// GetShapes returns all shapes in drawing order.
func (s *Slide) GetShapes() []Shape { return s.shapes }

// GetShapeCount returns the number of top-level shapes.
func (s *Slide) GetShapeCount() int { return len(s.shapes) }

// AddShape appends a shape.
func (s *Slide) AddShape(shape Shape) {
	s.shapes = append(s.shapes, shape)
}

// CreateRichTextShape creates a text box and adds it to the slide.
func (s *Slide) CreateRichTextShape() *RichTextShape {
	shape := NewRichTextShape()
	s.shapes = append(s.shapes, shape)
	return shape
}

// CreateAutoShape creates a rectangle auto shape and adds it to the slide.
func (s *Slide) CreateAutoShape() *AutoShape {
	shape := NewAutoShape()
	s.shapes = append(s.shapes, shape)
	return shape
}

// CreateLineShape creates a line and adds it to the slide.
func (s *Slide) CreateLineShape() *LineShape {
	shape := NewLineShape()
	s.shapes = append(s.shapes, shape)
	return shape
}

// CreateGroupShape creates an empty group and adds it to the slide.
func (s *Slide) CreateGroupShape() *GroupShape {
	shape := NewGroupShape()
	s.shapes = append(s.shapes, shape)
	return shape
}

// GetBackground returns the slide background fill, or nil.
func (s *Slide) GetBackground() *Fill { return s.background }

// SetBackground sets the slide background fill.
func (s *Slide) SetBackground(f *Fill) { s.background = f }

// Clone returns a deep copy of the slide. Template slides are cloned before
// drawing so the source stays untouched.
func (s *Slide) Clone() *Slide {
	c := &Slide{name: s.name, shapes: make([]Shape, 0, len(s.shapes)), skipped: slices.Clone(s.skipped)}
	if s.background != nil {
		bg := *s.background
		c.background = &bg
	}
	for _, shape := range s.shapes {
		c.shapes = append(c.shapes, cloneShape(shape))
	}
	return c
}

// Skipped returns the names of elements read from the file that the slide
// cannot hold, such as "pic" or "graphicFrame". They are not written back.
func (s *Slide) Skipped() []string {
	return s.skipped
}

// ExtractText returns the text of every shape on the slide, one line per
// paragraph, in drawing order.
func (s *Slide) ExtractText() string {
	return joinNonEmpty(shapesText(s.shapes), "\n")
}

func shapesText(shapes []Shape) []string {
	var parts []string
	for _, shape := range shapes {
		switch v := shape.(type) {
		case *RichTextShape:
			parts = append(parts, extractParagraphsText(v.paragraphs)...)
		case *AutoShape:
			parts = append(parts, extractParagraphsText(v.paragraphs)...)
		case *GroupShape:
			parts = append(parts, shapesText(v.shapes)...)
		}
	}
	return parts
}

func extractParagraphsText(paragraphs []*Paragraph) []string {
	var parts []string
	for _, para := range paragraphs {
		var sb strings.Builder
		for _, elem := range para.elements {
			if tr, ok := elem.(*TextRun); ok {
				sb.WriteString(tr.text)
			}
		}
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
		}
	}
	return parts
}

func joinNonEmpty(parts []string, sep string) string {
	var result []string
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return strings.Join(result, sep)
}
