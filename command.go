package studiomap

import (
	"strings"

	"golang.org/x/text/width"
)

// Command is one drawing primitive in canvas points. Colors are "#RRGGBB".
type Command interface {
	command()
}

// Stroke describes an outline or line.
type Stroke struct {
	Color string
	Width float64
	Dash  bool
}

// Rect is an axis-aligned rectangle. An empty Fill leaves it unfilled.
type Rect struct {
	X, Y, W, H float64
	Fill       string
	Stroke     *Stroke
	Rounded    bool
	Name       string
}

// Line runs from (X1,Y1) to (X2,Y2). Arrow puts a head at the end point.
type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         Stroke
	Arrow          bool
	Studio         string
}

// Marker is the glyph drawn for a Dot.
type Marker int

const (
	MarkerCircle Marker = iota
	MarkerStar
	MarkerDiamond
)

// Dot is a marker centered on (CX,CY) with diameter D.
type Dot struct {
	CX, CY, D float64
	Marker    Marker
	Fill      string
	Opacity   float64 // 0..1
	Outline   *Stroke
	Shadow    bool
	Studio    string
}

// TextAnchor is the horizontal alignment of a Label relative to its X.
type TextAnchor int

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

// Label is text whose block is vertically centered on Y. Newlines start new
// lines.
type Label struct {
	X, Y   float64
	Text   string
	Size   float64
	Color  string
	Bold   bool
	Anchor TextAnchor
	Studio string
}

func (Rect) command()  {}
func (Line) command()  {}
func (Dot) command()   {}
func (Label) command() {}

// Layer is a named group of commands drawn in order.
type Layer struct {
	Name     string
	Commands []Command
}

// lineHeight is the advance between label lines as a multiple of the size.
const lineHeight = 1.25

// Lines splits the label text into lines.
func (l Label) Lines() []string {
	return strings.Split(l.Text, "\n")
}

// Height is the height of the text block in points.
func (l Label) Height() float64 {
	return float64(len(l.Lines())) * l.Size * lineHeight
}

// TextWidth estimates the advance of text set at size points. Wide and
// fullwidth runes (kana, kanji, fullwidth forms) take a full em; everything
// else takes 0.55 em.
func TextWidth(text string, size float64) float64 {
	em := 0.0
	for _, r := range text {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			em += 1
		default:
			em += 0.55
		}
	}
	return em * size
}

// Measurer measures text in a concrete font; pptx.FontCache implements it.
type Measurer interface {
	TextWidth(font string, sizePt float64, text string) (float64, bool)
}

// measure uses m when it knows the font and falls back to TextWidth.
func measure(m Measurer, font, text string, size float64) float64 {
	if m != nil {
		if w, ok := m.TextWidth(font, size, text); ok {
			return w
		}
	}
	return TextWidth(text, size)
}

// blockWidth is the widest line of a multi-line label.
func blockWidth(m Measurer, font string, l Label) float64 {
	w := 0.0
	for _, line := range l.Lines() {
		w = max(w, measure(m, font, line, l.Size))
	}
	return w
}

// Box returns the bounding box of the label text.
func (l Label) Box(m Measurer, font string) (x, y, w, h float64) {
	w = blockWidth(m, font, l)
	h = l.Height()
	switch l.Anchor {
	case AnchorMiddle:
		x = l.X - w/2
	case AnchorEnd:
		x = l.X - w
	default:
		x = l.X
	}
	return x, l.Y - h/2, w, h
}
