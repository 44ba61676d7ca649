package pptx

import (
	"math"
	"strings"
)

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack = Color{ARGB: "FF000000"}
	ColorWhite = Color{ARGB: "FFFFFFFF"}
	ColorGray  = Color{ARGB: "FF808080"}
)

// NewColor creates a new Color from a hex string.
// Accepts 6-char RGB (e.g. "3498DB") or 8-char ARGB (e.g. "FF3498DB").
// A leading "#" is stripped automatically. Invalid input yields black.
func NewColor(argb string) Color {
	argb = strings.ToUpper(strings.TrimPrefix(argb, "#"))
	if len(argb) == 6 {
		argb = "FF" + argb
	}
	if !isValidARGB(argb) {
		return ColorBlack
	}
	return Color{ARGB: argb}
}

// ParseColor is like NewColor but reports whether the input was valid.
func ParseColor(s string) (Color, bool) {
	s = strings.ToUpper(strings.TrimPrefix(s, "#"))
	if len(s) == 6 {
		s = "FF" + s
	}
	if !isValidARGB(s) {
		return Color{}, false
	}
	return Color{ARGB: s}, true
}

// WithOpacity returns a copy of c whose alpha channel is set from an
// opacity in [0,1]. Values outside the range are clamped.
func (c Color) WithOpacity(opacity float64) Color {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	a := uint8(math.Round(opacity * 255))
	rgb := colorRGB(c)
	return Color{ARGB: hexByte(a) + rgb}
}

// Opacity returns the alpha channel as a fraction in [0,1].
func (c Color) Opacity() float64 {
	return float64(c.GetAlpha()) / 255
}

// isValidARGB checks that s is exactly 8 upper-case hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// GetRed returns the red component (0-255).
func (c Color) GetRed() uint8 { return parseHexByte(c.ARGB, 2) }

// GetGreen returns the green component (0-255).
func (c Color) GetGreen() uint8 { return parseHexByte(c.ARGB, 4) }

// GetBlue returns the blue component (0-255).
func (c Color) GetBlue() uint8 { return parseHexByte(c.ARGB, 6) }

// GetAlpha returns the alpha component (0-255).
func (c Color) GetAlpha() uint8 { return parseHexByte(c.ARGB, 0) }

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

func hexByte(b uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0x0F]})
}

// Font represents text font properties.
type Font struct {
	Name   string // latin typeface
	NameEA string // east asian typeface, used for kana and kanji runs
	Size   int    // in points
	Bold   bool
	Italic bool
	Color  Color
}

// NewFont creates a new Font with defaults.
func NewFont() *Font {
	return &Font{
		Name:  "Calibri",
		Size:  10,
		Color: ColorBlack,
	}
}

// SetBold sets the bold property and returns the font for chaining.
func (f *Font) SetBold(bold bool) *Font {
	f.Bold = bold
	return f
}

// SetItalic sets the italic property.
func (f *Font) SetItalic(italic bool) *Font {
	f.Italic = italic
	return f
}

// SetSize sets the font size in points (clamped to 1–4000).
func (f *Font) SetSize(size int) *Font {
	if size < 1 {
		size = 1
	}
	if size > 4000 {
		size = 4000
	}
	f.Size = size
	return f
}

// SetColor sets the font color.
func (f *Font) SetColor(color Color) *Font {
	f.Color = color
	return f
}

// SetName sets the latin font name.
func (f *Font) SetName(name string) *Font {
	f.Name = name
	return f
}

// SetNameEA sets the east asian font name.
func (f *Font) SetNameEA(name string) *Font {
	f.NameEA = name
	return f
}

// Alignment represents paragraph alignment.
type Alignment struct {
	Horizontal HorizontalAlignment
	Vertical   VerticalAlignment
}

// HorizontalAlignment represents horizontal text alignment.
type HorizontalAlignment string

const (
	HorizontalLeft   HorizontalAlignment = "l"
	HorizontalCenter HorizontalAlignment = "ctr"
	HorizontalRight  HorizontalAlignment = "r"
)

// VerticalAlignment represents vertical text alignment.
type VerticalAlignment string

const (
	VerticalTop    VerticalAlignment = "t"
	VerticalMiddle VerticalAlignment = "ctr"
	VerticalBottom VerticalAlignment = "b"
)

// NewAlignment creates a new Alignment with defaults.
func NewAlignment() *Alignment {
	return &Alignment{
		Horizontal: HorizontalLeft,
		Vertical:   VerticalTop,
	}
}

// SetHorizontal sets horizontal alignment.
func (a *Alignment) SetHorizontal(h HorizontalAlignment) *Alignment {
	a.Horizontal = h
	return a
}

// Fill represents a shape fill.
type Fill struct {
	Type  FillType
	Color Color
}

// FillType represents the type of fill.
type FillType int

const (
	FillNone FillType = iota
	FillSolid
)

// NewFill creates a new Fill with no fill.
func NewFill() *Fill {
	return &Fill{Type: FillNone}
}

// SetSolid sets a solid fill.
func (f *Fill) SetSolid(color Color) *Fill {
	f.Type = FillSolid
	f.Color = color
	return f
}

// Border represents a shape outline.
type Border struct {
	Style BorderStyle
	Width int64 // in EMU
	Color Color
}

// BorderStyle represents the outline dash style.
type BorderStyle string

const (
	BorderNone  BorderStyle = "none"
	BorderSolid BorderStyle = "solid"
	BorderDash  BorderStyle = "dash"
	BorderDot   BorderStyle = "dot"
)

// NewBorder creates a new Border with no border.
func NewBorder() *Border {
	return &Border{Style: BorderNone}
}

// SetSolid sets a solid outline of the given width in EMU.
func (b *Border) SetSolid(width int64, color Color) *Border {
	b.Style = BorderSolid
	b.Width = width
	b.Color = color
	return b
}

// Shadow represents an outer drop shadow.
type Shadow struct {
	Visible    bool
	Direction  int // in degrees
	Distance   int // in points
	BlurRadius int // in points
	Color      Color
	Alpha      int // 0-100
}

// NewShadow creates a new invisible Shadow.
func NewShadow() *Shadow {
	return &Shadow{
		Color: ColorBlack,
		Alpha: 50,
	}
}

// SetVisible sets shadow visibility.
func (s *Shadow) SetVisible(v bool) *Shadow {
	s.Visible = v
	return s
}

// SetDirection sets shadow direction in degrees (normalized to 0–359).
func (s *Shadow) SetDirection(d int) *Shadow {
	s.Direction = ((d % 360) + 360) % 360
	return s
}

// SetDistance sets shadow distance in points (clamped to >= 0).
func (s *Shadow) SetDistance(d int) *Shadow {
	if d < 0 {
		d = 0
	}
	s.Distance = d
	return s
}

// SetBlurRadius sets the blur radius in points (clamped to >= 0).
func (s *Shadow) SetBlurRadius(r int) *Shadow {
	if r < 0 {
		r = 0
	}
	s.BlurRadius = r
	return s
}

// SetAlpha sets the shadow opacity in percent (clamped to 0–100).
func (s *Shadow) SetAlpha(a int) *Shadow {
	if a < 0 {
		a = 0
	}
	if a > 100 {
		a = 100
	}
	s.Alpha = a
	return s
}

// LineEnd describes an arrowhead at one end of a line.
type LineEnd struct {
	Type   ArrowType
	Width  ArrowSize
	Length ArrowSize
}

// ArrowType is the DrawingML line end type.
type ArrowType string

const (
	ArrowNone     ArrowType = "none"
	ArrowTriangle ArrowType = "triangle"
	ArrowStealth  ArrowType = "stealth"
	ArrowOval     ArrowType = "oval"
)

// ArrowSize is the DrawingML line end width or length.
type ArrowSize string

const (
	ArrowSizeSmall  ArrowSize = "sm"
	ArrowSizeMedium ArrowSize = "med"
	ArrowSizeLarge  ArrowSize = "lg"
)

// NewLineEnd creates a medium sized arrowhead of the given type.
func NewLineEnd(t ArrowType) *LineEnd {
	return &LineEnd{Type: t, Width: ArrowSizeMedium, Length: ArrowSizeMedium}
}
