package pptx

// Shape is the interface that all shapes implement.
type Shape interface {
	GetType() ShapeType
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	// base returns the underlying BaseShape (unexported, internal use only).
	base() *BaseShape
}

// ShapeType represents the type of shape.
type ShapeType int

const (
	ShapeTypeRichText ShapeType = iota
	ShapeTypeAutoShape
	ShapeTypeLine
	ShapeTypeGroup
)

// BaseShape contains common shape properties.
type BaseShape struct {
	name           string
	description    string
	offsetX        int64 // in EMU
	offsetY        int64 // in EMU
	width          int64 // in EMU
	height         int64 // in EMU
	flipHorizontal bool
	flipVertical   bool
	fill           *Fill
	border         *Border
	shadow         *Shadow
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetName(n string) *BaseShape { b.name = n; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

// SetFlipHorizontal controls horizontal flipping.
func (b *BaseShape) SetFlipHorizontal(flip bool) *BaseShape {
	b.flipHorizontal = flip
	return b
}

// GetFlipHorizontal returns whether the shape is flipped horizontally.
func (b *BaseShape) GetFlipHorizontal() bool { return b.flipHorizontal }

// SetFlipVertical controls vertical flipping.
func (b *BaseShape) SetFlipVertical(flip bool) *BaseShape {
	b.flipVertical = flip
	return b
}

// GetFlipVertical returns whether the shape is flipped vertically.
func (b *BaseShape) GetFlipVertical() bool { return b.flipVertical }

func (b *BaseShape) GetDescription() string  { return b.description }
func (b *BaseShape) SetDescription(d string) { b.description = d }

func (b *BaseShape) GetFill() *Fill {
	if b.fill == nil {
		b.fill = NewFill()
	}
	return b.fill
}

func (b *BaseShape) SetFill(f *Fill) { b.fill = f }

func (b *BaseShape) GetBorder() *Border {
	if b.border == nil {
		b.border = NewBorder()
	}
	return b.border
}

func (b *BaseShape) SetBorder(border *Border) { b.border = border }

func (b *BaseShape) GetShadow() *Shadow {
	if b.shadow == nil {
		b.shadow = NewShadow()
	}
	return b.shadow
}

func (b *BaseShape) SetShadow(s *Shadow) { b.shadow = s }

// cloneBase copies the value fields and duplicates the style pointers.
func (b *BaseShape) cloneBase() BaseShape {
	c := *b
	if b.fill != nil {
		f := *b.fill
		c.fill = &f
	}
	if b.border != nil {
		br := *b.border
		c.border = &br
	}
	if b.shadow != nil {
		s := *b.shadow
		c.shadow = &s
	}
	return c
}

// RichTextShape represents a text box.
type RichTextShape struct {
	BaseShape
	paragraphs      []*Paragraph
	activeParagraph int
	wordWrap        bool
	textAnchor      TextAnchorType
	// Text insets in EMU; only written when insetsSet is true.
	insetLeft   int64
	insetRight  int64
	insetTop    int64
	insetBottom int64
	insetsSet   bool
}

// TextAnchorType represents the text anchoring type within a shape.
type TextAnchorType string

const (
	TextAnchorTop    TextAnchorType = "t"
	TextAnchorMiddle TextAnchorType = "ctr"
	TextAnchorBottom TextAnchorType = "b"
	TextAnchorNone   TextAnchorType = ""
)

func (r *RichTextShape) GetType() ShapeType { return ShapeTypeRichText }

// NewRichTextShape creates a new rich text shape.
func NewRichTextShape() *RichTextShape {
	return &RichTextShape{
		paragraphs: []*Paragraph{NewParagraph()},
		wordWrap:   true,
	}
}

// GetActiveParagraph returns the active paragraph.
func (r *RichTextShape) GetActiveParagraph() *Paragraph {
	if len(r.paragraphs) == 0 {
		r.paragraphs = append(r.paragraphs, NewParagraph())
	}
	return r.paragraphs[r.activeParagraph]
}

// CreateParagraph creates a new paragraph and makes it active.
func (r *RichTextShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	r.paragraphs = append(r.paragraphs, p)
	r.activeParagraph = len(r.paragraphs) - 1
	return p
}

// GetParagraphs returns all paragraphs.
func (r *RichTextShape) GetParagraphs() []*Paragraph {
	return r.paragraphs
}

// CreateTextRun creates a text run in the active paragraph.
func (r *RichTextShape) CreateTextRun(text string) *TextRun {
	return r.GetActiveParagraph().CreateTextRun(text)
}

// SetWordWrap sets word wrap.
func (r *RichTextShape) SetWordWrap(wrap bool) { r.wordWrap = wrap }

// GetWordWrap returns word wrap setting.
func (r *RichTextShape) GetWordWrap() bool { return r.wordWrap }

// SetTextAnchor sets the vertical position of text within the shape.
func (r *RichTextShape) SetTextAnchor(anchor TextAnchorType) { r.textAnchor = anchor }

// GetTextAnchor returns the text anchoring type.
func (r *RichTextShape) GetTextAnchor() TextAnchorType { return r.textAnchor }

// SetInsets sets the text insets in EMU.
func (r *RichTextShape) SetInsets(left, top, right, bottom int64) {
	r.insetLeft, r.insetTop, r.insetRight, r.insetBottom = left, top, right, bottom
	r.insetsSet = true
}

// GetInsets returns the text insets in EMU and whether they were set.
func (r *RichTextShape) GetInsets() (left, top, right, bottom int64, ok bool) {
	return r.insetLeft, r.insetTop, r.insetRight, r.insetBottom, r.insetsSet
}

// Text returns the concatenated text of all paragraphs, one line per paragraph.
func (r *RichTextShape) Text() string {
	return joinNonEmpty(extractParagraphsText(r.paragraphs), "\n")
}

// Paragraph represents a text paragraph.
type Paragraph struct {
	elements  []ParagraphElement
	alignment *Alignment
}

// ParagraphElement is the interface for paragraph content.
type ParagraphElement interface {
	GetElementType() string
}

// NewParagraph creates a new paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{
		elements:  make([]ParagraphElement, 0),
		alignment: NewAlignment(),
	}
}

// GetAlignment returns the paragraph alignment.
func (p *Paragraph) GetAlignment() *Alignment { return p.alignment }

// SetAlignment sets the paragraph alignment.
func (p *Paragraph) SetAlignment(a *Alignment) { p.alignment = a }

// GetElements returns all paragraph elements.
func (p *Paragraph) GetElements() []ParagraphElement { return p.elements }

// CreateTextRun creates a new text run.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{
		text: text,
		font: NewFont(),
	}
	p.elements = append(p.elements, tr)
	return tr
}

// CreateBreak creates a line break element.
func (p *Paragraph) CreateBreak() *BreakElement {
	br := &BreakElement{}
	p.elements = append(p.elements, br)
	return br
}

func (p *Paragraph) clone() *Paragraph {
	c := &Paragraph{elements: make([]ParagraphElement, 0, len(p.elements))}
	if p.alignment != nil {
		a := *p.alignment
		c.alignment = &a
	}
	for _, e := range p.elements {
		switch el := e.(type) {
		case *TextRun:
			f := *el.font
			c.elements = append(c.elements, &TextRun{text: el.text, font: &f})
		case *BreakElement:
			c.elements = append(c.elements, &BreakElement{})
		}
	}
	return c
}

func cloneParagraphs(ps []*Paragraph) []*Paragraph {
	out := make([]*Paragraph, len(ps))
	for i, p := range ps {
		out[i] = p.clone()
	}
	return out
}

// TextRun represents a run of text with formatting.
type TextRun struct {
	text string
	font *Font
}

func (tr *TextRun) GetElementType() string { return "textrun" }

// GetText returns the text content.
func (tr *TextRun) GetText() string { return tr.text }

// SetText sets the text content.
func (tr *TextRun) SetText(text string) { tr.text = text }

// GetFont returns the font properties.
func (tr *TextRun) GetFont() *Font { return tr.font }

// SetFont sets the font properties.
func (tr *TextRun) SetFont(f *Font) { tr.font = f }

// BreakElement represents a line break.
type BreakElement struct{}

func (br *BreakElement) GetElementType() string { return "break" }

// AutoShape represents a preset geometry (rectangle, ellipse, etc.) that may
// carry text.
type AutoShape struct {
	BaseShape
	shapeType  AutoShapeType
	paragraphs []*Paragraph
	textAnchor TextAnchorType
}

// AutoShapeType represents the DrawingML preset geometry name.
type AutoShapeType string

const (
	AutoShapeRectangle   AutoShapeType = "rect"
	AutoShapeRoundedRect AutoShapeType = "roundRect"
	AutoShapeEllipse     AutoShapeType = "ellipse"
	AutoShapeStar5       AutoShapeType = "star5"
	AutoShapeDiamond     AutoShapeType = "diamond"
)

func (a *AutoShape) GetType() ShapeType { return ShapeTypeAutoShape }

// NewAutoShape creates a new rectangle auto shape.
func NewAutoShape() *AutoShape {
	return &AutoShape{shapeType: AutoShapeRectangle}
}

// SetAutoShapeType sets the preset geometry.
func (a *AutoShape) SetAutoShapeType(t AutoShapeType) *AutoShape {
	a.shapeType = t
	return a
}

// GetAutoShapeType returns the preset geometry.
func (a *AutoShape) GetAutoShapeType() AutoShapeType { return a.shapeType }

// SetSolidFill sets a solid fill on the auto shape.
func (a *AutoShape) SetSolidFill(c Color) *AutoShape {
	a.GetFill().SetSolid(c)
	return a
}

// CreateTextRun appends a run to the last paragraph, creating one if needed.
func (a *AutoShape) CreateTextRun(text string) *TextRun {
	if len(a.paragraphs) == 0 {
		a.paragraphs = append(a.paragraphs, NewParagraph())
	}
	return a.paragraphs[len(a.paragraphs)-1].CreateTextRun(text)
}

// CreateParagraph appends a new paragraph.
func (a *AutoShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	a.paragraphs = append(a.paragraphs, p)
	return p
}

// GetParagraphs returns the text paragraphs (if any).
func (a *AutoShape) GetParagraphs() []*Paragraph { return a.paragraphs }

// SetTextAnchor sets the vertical text anchor.
func (a *AutoShape) SetTextAnchor(anchor TextAnchorType) { a.textAnchor = anchor }

// GetTextAnchor returns the vertical text anchor.
func (a *AutoShape) GetTextAnchor() TextAnchorType { return a.textAnchor }

// Text returns the concatenated text of all paragraphs.
func (a *AutoShape) Text() string {
	return joinNonEmpty(extractParagraphsText(a.paragraphs), "\n")
}

// LineShape represents a straight connector.
type LineShape struct {
	BaseShape
	lineStyle    BorderStyle
	lineWidthEMU int64
	lineColor    Color
	headEnd      *LineEnd
	tailEnd      *LineEnd
}

func (l *LineShape) GetType() ShapeType { return ShapeTypeLine }

// NewLineShape creates a new 1pt solid black line.
func NewLineShape() *LineShape {
	return &LineShape{
		lineStyle:    BorderSolid,
		lineWidthEMU: emuPerPoint,
		lineColor:    ColorBlack,
	}
}

// SetEndpoints positions the line between two points given in EMU. The
// bounding box is normalized and the flip flags record the direction.
func (l *LineShape) SetEndpoints(x1, y1, x2, y2 int64) *LineShape {
	l.offsetX, l.width, l.flipHorizontal = span(x1, x2)
	l.offsetY, l.height, l.flipVertical = span(y1, y2)
	return l
}

// Endpoints returns the start and end points in EMU, honoring flips.
func (l *LineShape) Endpoints() (x1, y1, x2, y2 int64) {
	x1, x2 = l.offsetX, l.offsetX+l.width
	y1, y2 = l.offsetY, l.offsetY+l.height
	if l.flipHorizontal {
		x1, x2 = x2, x1
	}
	if l.flipVertical {
		y1, y2 = y2, y1
	}
	return x1, y1, x2, y2
}

func span(a, b int64) (off, ext int64, flipped bool) {
	if b < a {
		return b, a - b, true
	}
	return a, b - a, false
}

// SetLineStyle sets the dash style.
func (l *LineShape) SetLineStyle(s BorderStyle) *LineShape {
	l.lineStyle = s
	return l
}

// GetLineStyle returns the dash style.
func (l *LineShape) GetLineStyle() BorderStyle { return l.lineStyle }

// SetLineWidthEMU sets the stroke width in EMU.
func (l *LineShape) SetLineWidthEMU(w int64) *LineShape {
	l.lineWidthEMU = w
	return l
}

// GetLineWidthEMU returns the stroke width in EMU.
func (l *LineShape) GetLineWidthEMU() int64 { return l.lineWidthEMU }

// SetLineColor sets the line color.
func (l *LineShape) SetLineColor(c Color) *LineShape {
	l.lineColor = c
	return l
}

// GetLineColor returns the line color.
func (l *LineShape) GetLineColor() Color { return l.lineColor }

// SetHeadEnd sets the arrowhead at the start of the line.
func (l *LineShape) SetHeadEnd(e *LineEnd) *LineShape {
	l.headEnd = e
	return l
}

// GetHeadEnd returns the head end.
func (l *LineShape) GetHeadEnd() *LineEnd { return l.headEnd }

// SetTailEnd sets the arrowhead at the end of the line.
func (l *LineShape) SetTailEnd(e *LineEnd) *LineShape {
	l.tailEnd = e
	return l
}

// GetTailEnd returns the tail end.
func (l *LineShape) GetTailEnd() *LineEnd { return l.tailEnd }

// cloneShape returns a deep copy of s.
func cloneShape(s Shape) Shape {
	switch v := s.(type) {
	case *RichTextShape:
		c := *v
		c.BaseShape = v.cloneBase()
		c.paragraphs = cloneParagraphs(v.paragraphs)
		return &c
	case *AutoShape:
		c := *v
		c.BaseShape = v.cloneBase()
		c.paragraphs = cloneParagraphs(v.paragraphs)
		return &c
	case *LineShape:
		c := *v
		c.BaseShape = v.cloneBase()
		if v.headEnd != nil {
			h := *v.headEnd
			c.headEnd = &h
		}
		if v.tailEnd != nil {
			t := *v.tailEnd
			c.tailEnd = &t
		}
		return &c
	case *GroupShape:
		c := &GroupShape{BaseShape: v.cloneBase(), shapes: make([]Shape, 0, len(v.shapes))}
		for _, child := range v.shapes {
			c.shapes = append(c.shapes, cloneShape(child))
		}
		return c
	}
	return s
}
