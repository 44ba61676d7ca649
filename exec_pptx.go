package studiomap

import (
	"math"

	"github.com/pkg/errors"

	"github.com/VantageDataChat/studiomap/pptx"
)

// PPTXExecutor turns a composed map into native slide shapes, one group per
// layer so the layers stay selectable in PowerPoint.
type PPTXExecutor struct {
	Font   string // latin typeface
	FontEA string // east asian typeface
	// Fonts measures label boxes when set; otherwise widths are estimated.
	Fonts Measurer
}

// NewPPTXExecutor returns an executor using the configured font families.
func NewPPTXExecutor(cfg *Config) *PPTXExecutor {
	return &PPTXExecutor{Font: cfg.Fonts.Family, FontEA: cfg.Fonts.FamilyEA}
}

// Apply appends m's layers to slide. The map background is used only when
// the slide has none of its own. Empty layers are skipped.
func (e *PPTXExecutor) Apply(slide *pptx.Slide, m *Map) error {
	if m.Background != "" && slide.GetBackground() == nil {
		bg, err := parseColor(m.Background)
		if err != nil {
			return errors.Wrap(err, "background")
		}
		slide.SetBackground(pptx.NewFill().SetSolid(bg))
	}
	for _, layer := range m.Layers {
		if len(layer.Commands) == 0 {
			continue
		}
		group := pptx.NewGroupShape()
		for i, c := range layer.Commands {
			shape, err := e.shape(c)
			if err != nil {
				return errors.Wrapf(err, "layer %s: command %d", layer.Name, i)
			}
			group.AddShape(shape)
		}
		group.SetName(layer.Name)
		slide.AddShape(group)
	}
	return nil
}

func (e *PPTXExecutor) shape(c Command) (pptx.Shape, error) {
	switch c := c.(type) {
	case Rect:
		return e.rect(c)
	case Line:
		return e.line(c)
	case Dot:
		return e.dot(c)
	case Label:
		return e.label(c)
	}
	return nil, errors.Errorf("unsupported command %T", c)
}

func (e *PPTXExecutor) rect(r Rect) (pptx.Shape, error) {
	s := pptx.NewAutoShape()
	if r.Rounded {
		s.SetAutoShapeType(pptx.AutoShapeRoundedRect)
	}
	s.SetPosition(pptx.Point(r.X), pptx.Point(r.Y))
	s.SetSize(pptx.Point(r.W), pptx.Point(r.H))
	if r.Name != "" {
		s.SetName(r.Name)
	}
	fill := pptx.NewFill()
	if r.Fill != "" {
		c, err := parseColor(r.Fill)
		if err != nil {
			return nil, err
		}
		fill.SetSolid(c)
	}
	s.SetFill(fill)
	border, err := toBorder(r.Stroke)
	if err != nil {
		return nil, err
	}
	s.SetBorder(border)
	return s, nil
}

func (e *PPTXExecutor) line(l Line) (pptx.Shape, error) {
	c, err := parseColor(l.Stroke.Color)
	if err != nil {
		return nil, err
	}
	s := pptx.NewLineShape()
	s.SetEndpoints(pptx.Point(l.X1), pptx.Point(l.Y1), pptx.Point(l.X2), pptx.Point(l.Y2))
	s.SetLineColor(c)
	s.SetLineWidthEMU(pptx.Point(l.Stroke.Width))
	if l.Stroke.Dash {
		s.SetLineStyle(pptx.BorderDash)
	}
	if l.Arrow {
		s.SetTailEnd(pptx.NewLineEnd(pptx.ArrowTriangle))
	}
	if l.Studio != "" {
		s.SetDescription(l.Studio)
	}
	return s, nil
}

func (e *PPTXExecutor) dot(d Dot) (pptx.Shape, error) {
	c, err := parseColor(d.Fill)
	if err != nil {
		return nil, err
	}
	s := pptx.NewAutoShape()
	switch d.Marker {
	case MarkerStar:
		s.SetAutoShapeType(pptx.AutoShapeStar5)
	case MarkerDiamond:
		s.SetAutoShapeType(pptx.AutoShapeDiamond)
	default:
		s.SetAutoShapeType(pptx.AutoShapeEllipse)
	}
	s.SetPosition(pptx.Point(d.CX-d.D/2), pptx.Point(d.CY-d.D/2))
	s.SetSize(pptx.Point(d.D), pptx.Point(d.D))
	s.SetSolidFill(c.WithOpacity(dotOpacity(d.Opacity)))
	border, err := toBorder(d.Outline)
	if err != nil {
		return nil, err
	}
	s.SetBorder(border)
	if d.Shadow {
		s.SetShadow(pptx.NewShadow().SetVisible(true).
			SetDistance(1).SetDirection(45).SetBlurRadius(2).SetAlpha(25))
	}
	if d.Studio != "" {
		s.SetName(d.Studio)
		s.SetDescription(d.Studio)
	}
	return s, nil
}

func (e *PPTXExecutor) label(l Label) (pptx.Shape, error) {
	c, err := parseColor(l.Color)
	if err != nil {
		return nil, err
	}
	x, y, w, h := l.Box(e.Fonts, e.FontEA)
	// PowerPoint's own metrics differ slightly from ours; pad so the
	// unwrapped text never touches the box edge.
	pad := l.Size * 0.4
	switch l.Anchor {
	case AnchorMiddle:
		x -= pad / 2
	case AnchorEnd:
		x -= pad
	}
	w += pad

	s := pptx.NewRichTextShape()
	s.SetPosition(pptx.Point(x), pptx.Point(y))
	s.SetSize(pptx.Point(w), pptx.Point(h))
	s.SetWordWrap(false)
	s.SetInsets(0, 0, 0, 0)
	s.SetTextAnchor(pptx.TextAnchorMiddle)
	if l.Studio != "" {
		s.SetDescription(l.Studio)
	}

	align := pptx.HorizontalLeft
	switch l.Anchor {
	case AnchorMiddle:
		align = pptx.HorizontalCenter
	case AnchorEnd:
		align = pptx.HorizontalRight
	}
	size := int(math.Round(l.Size))
	for i, line := range l.Lines() {
		p := s.GetActiveParagraph()
		if i > 0 {
			p = s.CreateParagraph()
		}
		p.SetAlignment(pptx.NewAlignment().SetHorizontal(align))
		run := p.CreateTextRun(line)
		run.SetFont(pptx.NewFont().
			SetName(e.Font).SetNameEA(e.FontEA).
			SetSize(size).SetBold(l.Bold).SetColor(c))
	}
	return s, nil
}

func toBorder(s *Stroke) (*pptx.Border, error) {
	b := pptx.NewBorder()
	if s == nil || s.Width <= 0 {
		return b, nil
	}
	c, err := parseColor(s.Color)
	if err != nil {
		return nil, err
	}
	b.SetSolid(pptx.Point(s.Width), c)
	if s.Dash {
		b.Style = pptx.BorderDash
	}
	return b, nil
}

func parseColor(s string) (pptx.Color, error) {
	c, ok := pptx.ParseColor(s)
	if !ok {
		return pptx.Color{}, errors.Errorf("invalid color %q", s)
	}
	return c, nil
}

// dotOpacity treats the zero value as fully opaque.
func dotOpacity(o float64) float64 {
	if o <= 0 {
		return 1
	}
	return min(o, 1)
}
