package pptx

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageFormat represents the output image format.
type ImageFormat int

const (
	ImageFormatPNG ImageFormat = iota
	ImageFormatJPEG
)

// RenderOptions configures slide-to-image rendering.
type RenderOptions struct {
	// Width is the output image width in pixels. Height follows the slide
	// aspect ratio. Default: 1280.
	Width int
	// Format is the output image format (PNG or JPEG).
	Format ImageFormat
	// JPEGQuality is the JPEG quality (1-100). Default: 90.
	JPEGQuality int
	// BackgroundColor overrides the slide background. Nil means use slide background or white.
	BackgroundColor *color.NRGBA
	// FontDirs specifies additional directories to search for TrueType/OpenType fonts.
	FontDirs []string
	// FontCache allows sharing a pre-configured FontCache across renders.
	// If nil, a new FontCache is created using FontDirs.
	FontCache *FontCache
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Width:       1280,
		Format:      ImageFormatPNG,
		JPEGQuality: 90,
	}
}

// SlideToImage renders a single slide to an image.
func (p *Presentation) SlideToImage(slideIndex int, opts *RenderOptions) (image.Image, error) {
	if slideIndex < 0 || slideIndex >= len(p.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", slideIndex, len(p.slides)-1)
	}
	if opts == nil {
		opts = DefaultRenderOptions()
	}
	imgW := opts.Width
	if imgW <= 0 {
		imgW = 1280
	}

	slide := p.slides[slideIndex]
	slideW := float64(p.layout.CX)
	slideH := float64(p.layout.CY)
	imgH := int(math.Round(float64(imgW) * slideH / slideW))

	img := image.NewRGBA(image.Rect(0, 0, imgW, imgH))

	bg := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if opts.BackgroundColor != nil {
		bg = *opts.BackgroundColor
	} else if slide.background != nil && slide.background.Type == FillSolid {
		bg = toNRGBA(slide.background.Color)
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	r := &renderer{
		img:       img,
		scale:     float64(imgW) / slideW,
		fontCache: opts.FontCache,
	}
	if r.fontCache == nil {
		r.fontCache = NewFontCache(opts.FontDirs...)
	}

	for _, shape := range slide.shapes {
		r.renderShape(shape)
	}
	return img, nil
}

// SaveSlideAsImage renders a slide and saves it to a file.
func (p *Presentation) SaveSlideAsImage(slideIndex int, path string, opts *RenderOptions) error {
	img, err := p.SlideToImage(slideIndex, opts)
	if err != nil {
		return err
	}
	return saveImage(img, path, opts)
}

// SaveSlidesAsImages renders all slides and saves them to files.
// The pattern should contain %d for the slide number (1-based), e.g. "slide_%d.png".
func (p *Presentation) SaveSlidesAsImages(pattern string, opts *RenderOptions) ([]string, error) {
	if opts == nil {
		opts = DefaultRenderOptions()
	}
	if opts.FontCache == nil {
		opts.FontCache = NewFontCache(opts.FontDirs...)
	}
	paths := make([]string, 0, len(p.slides))
	for i := range p.slides {
		path := fmt.Sprintf(pattern, i+1)
		if err := p.SaveSlideAsImage(i, path, opts); err != nil {
			return paths, fmt.Errorf("slide %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func saveImage(img image.Image, path string, opts *RenderOptions) error {
	if opts == nil {
		opts = DefaultRenderOptions()
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	switch opts.Format {
	case ImageFormatJPEG:
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(f, img)
	}
}

// --- renderer ---

type renderer struct {
	img       *image.RGBA
	scale     float64 // pixels per EMU
	fontCache *FontCache
}

func (r *renderer) renderShape(shape Shape) {
	switch s := shape.(type) {
	case *RichTextShape:
		r.renderRichText(s)
	case *AutoShape:
		r.renderAutoShape(s)
	case *LineShape:
		r.renderLine(s)
	case *GroupShape:
		for _, gs := range s.shapes {
			r.renderShape(gs)
		}
	}
}

func (r *renderer) px(emu int64) int {
	return int(math.Round(float64(emu) * r.scale))
}

func (r *renderer) pxf(emu int64) float64 {
	return float64(emu) * r.scale
}

func toNRGBA(c Color) color.NRGBA {
	return color.NRGBA{
		R: c.GetRed(),
		G: c.GetGreen(),
		B: c.GetBlue(),
		A: c.GetAlpha(),
	}
}

func (r *renderer) shapeRect(b *BaseShape) image.Rectangle {
	x, y := r.px(b.offsetX), r.px(b.offsetY)
	return image.Rect(x, y, x+r.px(b.width), y+r.px(b.height))
}

// --- Shape rendering ---

func (r *renderer) renderRichText(s *RichTextShape) {
	rect := r.shapeRect(&s.BaseShape)
	r.renderShadow(&s.BaseShape, rect, false)
	if s.fill != nil && s.fill.Type == FillSolid {
		r.fillRect(rect, toNRGBA(s.fill.Color))
	}
	r.renderOutline(s.border, rect, false)

	inL, inT, inR, inB := int64(91440), int64(45720), int64(91440), int64(45720)
	if s.insetsSet {
		inL, inT, inR, inB = s.insetLeft, s.insetTop, s.insetRight, s.insetBottom
	}
	text := image.Rect(rect.Min.X+r.px(inL), rect.Min.Y+r.px(inT), rect.Max.X-r.px(inR), rect.Max.Y-r.px(inB))
	r.drawParagraphs(s.paragraphs, text, s.textAnchor, s.wordWrap)
}

func (r *renderer) renderAutoShape(s *AutoShape) {
	rect := r.shapeRect(&s.BaseShape)
	ellipse := s.shapeType == AutoShapeEllipse
	r.renderShadow(&s.BaseShape, rect, ellipse)

	if s.fill != nil && s.fill.Type == FillSolid {
		c := toNRGBA(s.fill.Color)
		if ellipse {
			r.fillEllipse(rect, c)
		} else {
			r.fillRect(rect, c)
		}
	}
	r.renderOutline(s.border, rect, ellipse)

	if len(s.paragraphs) > 0 {
		anchor := s.textAnchor
		if anchor == TextAnchorNone {
			anchor = TextAnchorMiddle
		}
		inset := image.Rect(rect.Min.X+r.px(45720), rect.Min.Y+r.px(22860), rect.Max.X-r.px(45720), rect.Max.Y-r.px(22860))
		r.drawParagraphs(s.paragraphs, inset, anchor, true)
	}
}

func (r *renderer) renderShadow(b *BaseShape, rect image.Rectangle, ellipse bool) {
	s := b.shadow
	if s == nil || !s.Visible {
		return
	}
	dist := r.pxf(int64(s.Distance) * emuPerPoint)
	if dist < 1 {
		dist = 1
	}
	rad := float64(s.Direction) * math.Pi / 180
	dx := int(math.Round(dist * math.Cos(rad)))
	dy := int(math.Round(dist * math.Sin(rad)))
	c := toNRGBA(s.Color)
	c.A = uint8(s.Alpha * 255 / 100)
	shifted := rect.Add(image.Pt(dx, dy))
	if ellipse {
		r.fillEllipse(shifted, c)
	} else {
		r.fillRect(shifted, c)
	}
}

func (r *renderer) renderOutline(b *Border, rect image.Rectangle, ellipse bool) {
	if b == nil || b.Style == BorderNone {
		return
	}
	c := toNRGBA(b.Color)
	w := r.pxf(b.Width)
	if w < 1 {
		w = 1
	}
	if ellipse {
		r.strokeEllipse(rect, c, w)
		return
	}
	x0, y0 := float64(rect.Min.X), float64(rect.Min.Y)
	x1, y1 := float64(rect.Max.X), float64(rect.Max.Y)
	dash := dashPattern(b.Style, w)
	r.strokeLine(x0, y0, x1, y0, c, w, dash)
	r.strokeLine(x1, y0, x1, y1, c, w, dash)
	r.strokeLine(x1, y1, x0, y1, c, w, dash)
	r.strokeLine(x0, y1, x0, y0, c, w, dash)
}

func (r *renderer) renderLine(s *LineShape) {
	x1, y1, x2, y2 := s.Endpoints()
	w := r.pxf(s.lineWidthEMU)
	if w < 1 {
		w = 1
	}
	c := toNRGBA(s.lineColor)
	fx1, fy1, fx2, fy2 := r.pxf(x1), r.pxf(y1), r.pxf(x2), r.pxf(y2)
	r.strokeLine(fx1, fy1, fx2, fy2, c, w, dashPattern(s.lineStyle, w))
	if s.tailEnd != nil && s.tailEnd.Type != ArrowNone {
		r.drawArrowHead(fx1, fy1, fx2, fy2, c, w)
	}
	if s.headEnd != nil && s.headEnd.Type != ArrowNone {
		r.drawArrowHead(fx2, fy2, fx1, fy1, c, w)
	}
}

// dashPattern returns the on/off run lengths in pixels, or nil for solid.
func dashPattern(style BorderStyle, width float64) []float64 {
	switch style {
	case BorderDash:
		return []float64{4 * width, 3 * width}
	case BorderDot:
		return []float64{width, width}
	}
	return nil
}

// --- Drawing primitives ---

// blendPixel composites c over the destination pixel using straight alpha.
func (r *renderer) blendPixel(x, y int, c color.NRGBA) {
	if !image.Pt(x, y).In(r.img.Bounds()) || c.A == 0 {
		return
	}
	if c.A == 255 {
		r.img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		return
	}
	dst := r.img.RGBAAt(x, y)
	a := float64(c.A) / 255
	mix := func(s, d uint8) uint8 {
		return uint8(math.Round(float64(s)*a + float64(d)*(1-a)))
	}
	r.img.SetRGBA(x, y, color.RGBA{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: 255})
}

func (r *renderer) fillRect(rect image.Rectangle, c color.NRGBA) {
	rect = rect.Intersect(r.img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r.blendPixel(x, y, c)
		}
	}
}

func (r *renderer) fillEllipse(rect image.Rectangle, c color.NRGBA) {
	rx := float64(rect.Dx()) / 2
	ry := float64(rect.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	cx := float64(rect.Min.X) + rx
	cy := float64(rect.Min.Y) + ry
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for px := rect.Min.X; px < rect.Max.X; px++ {
			dx := (float64(px) + 0.5 - cx) / rx
			dy := (float64(py) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1.0 {
				r.blendPixel(px, py, c)
			}
		}
	}
}

func (r *renderer) strokeEllipse(rect image.Rectangle, c color.NRGBA, width float64) {
	rx := float64(rect.Dx()) / 2
	ry := float64(rect.Dy()) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	cx := float64(rect.Min.X) + rx
	cy := float64(rect.Min.Y) + ry
	half := width / 2
	pad := int(math.Ceil(half))
	for py := rect.Min.Y - pad; py < rect.Max.Y+pad; py++ {
		for px := rect.Min.X - pad; px < rect.Max.X+pad; px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			// distance to the ellipse approximated along the radial direction
			d := math.Hypot(dx/rx, dy/ry)
			if d == 0 {
				continue
			}
			radial := math.Hypot(dx, dy)
			if math.Abs(radial-radial/d) <= half {
				r.blendPixel(px, py, c)
			}
		}
	}
}

// strokeLine draws a line of the given pixel width, optionally dashed.
func (r *renderer) strokeLine(x1, y1, x2, y2 float64, c color.NRGBA, width float64, dash []float64) {
	length := math.Hypot(x2-x1, y2-y1)
	half := width / 2
	if length == 0 {
		r.fillRect(image.Rect(int(x1-half), int(y1-half), int(math.Ceil(x1+half)), int(math.Ceil(y1+half))), c)
		return
	}
	ux, uy := (x2-x1)/length, (y2-y1)/length
	minX := int(math.Floor(math.Min(x1, x2) - half))
	maxX := int(math.Ceil(math.Max(x1, x2) + half))
	minY := int(math.Floor(math.Min(y1, y2) - half))
	maxY := int(math.Ceil(math.Max(y1, y2) + half))
	period := 0.0
	for _, d := range dash {
		period += d
	}
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			vx := float64(px) + 0.5 - x1
			vy := float64(py) + 0.5 - y1
			along := vx*ux + vy*uy
			if along < 0 || along > length {
				continue
			}
			if math.Abs(vx*uy-vy*ux) > half {
				continue
			}
			if period > 0 && math.Mod(along, period) >= dash[0] {
				continue
			}
			r.blendPixel(px, py, c)
		}
	}
}

// drawArrowHead fills a triangle at (x2, y2) pointing away from (x1, y1).
func (r *renderer) drawArrowHead(x1, y1, x2, y2 float64, c color.NRGBA, width float64) {
	length := math.Hypot(x2-x1, y2-y1)
	if length == 0 {
		return
	}
	size := math.Max(3*width, 6)
	ux, uy := (x2-x1)/length, (y2-y1)/length
	bx, by := x2-ux*size, y2-uy*size
	ax, ay := bx-uy*size/2, by+ux*size/2
	cx, cy := bx+uy*size/2, by-ux*size/2
	minX := int(math.Floor(math.Min(x2, math.Min(ax, cx))))
	maxX := int(math.Ceil(math.Max(x2, math.Max(ax, cx))))
	minY := int(math.Floor(math.Min(y2, math.Min(ay, cy))))
	maxY := int(math.Ceil(math.Max(y2, math.Max(ay, cy))))
	sign := func(px, py, qx, qy, rx, ry float64) float64 {
		return (px-rx)*(qy-ry) - (qx-rx)*(py-ry)
	}
	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			fx, fy := float64(px)+0.5, float64(py)+0.5
			d1 := sign(fx, fy, x2, y2, ax, ay)
			d2 := sign(fx, fy, ax, ay, cx, cy)
			d3 := sign(fx, fy, cx, cy, x2, y2)
			neg := d1 < 0 || d2 < 0 || d3 < 0
			pos := d1 > 0 || d2 > 0 || d3 > 0
			if !(neg && pos) {
				r.blendPixel(px, py, c)
			}
		}
	}
}

// --- Text rendering ---

// fallbackFonts are tried in order when a run's typeface is not installed.
var fallbackFonts = []string{
	"noto sans cjk jp", "noto sans jp", "ipagothic", "meiryo", "yu gothic",
	"arial", "helvetica", "dejavu sans", "liberation sans", "noto sans",
}

// getFace returns a TrueType font.Face for the given Font, falling back to basicfont.
func (r *renderer) getFace(f *Font, text string) font.Face {
	if f == nil {
		f = NewFont()
	}
	sizePt := float64(f.Size)
	if sizePt <= 0 {
		sizePt = 10
	}
	sizePx := sizePt * emuPerPoint * r.scale

	var names []string
	if f.NameEA != "" && !isASCII(text) {
		names = append(names, f.NameEA)
	}
	if f.Name != "" {
		names = append(names, f.Name)
	}
	names = append(names, fallbackFonts...)
	for _, name := range names {
		if face := r.fontCache.GetFace(name, sizePx, f.Bold, f.Italic); face != nil {
			return face
		}
	}
	return basicfont.Face7x13
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// textRun holds rendering info for a single text run.
type textRun struct {
	text  string
	face  font.Face
	color color.NRGBA
}

// textLine holds a wrapped line of text runs.
type textLine struct {
	runs      []textRun
	width     int
	height    int
	ascent    int
	alignment HorizontalAlignment
}

func buildTextLine(runs []textRun, align HorizontalAlignment) textLine {
	line := textLine{runs: runs, alignment: align}
	for _, r := range runs {
		line.width += font.MeasureString(r.face, r.text).Ceil()
		m := r.face.Metrics()
		line.height = max(line.height, m.Height.Ceil())
		line.ascent = max(line.ascent, m.Ascent.Ceil())
	}
	if line.height <= 0 {
		line.height = 14
	}
	return line
}

func (r *renderer) drawParagraphs(paragraphs []*Paragraph, box image.Rectangle, anchor TextAnchorType, wrap bool) {
	var lines []textLine

	for _, para := range paragraphs {
		align := HorizontalLeft
		if para.alignment != nil && para.alignment.Horizontal != "" {
			align = para.alignment.Horizontal
		}

		var runs []textRun
		for _, elem := range para.elements {
			switch e := elem.(type) {
			case *TextRun:
				c := color.NRGBA{A: 255}
				if e.font != nil {
					c = toNRGBA(e.font.Color)
				}
				runs = append(runs, textRun{text: e.text, face: r.getFace(e.font, e.text), color: c})
			case *BreakElement:
				lines = append(lines, buildTextLine(runs, align))
				runs = nil
			}
		}
		lines = append(lines, buildTextLine(runs, align))
	}

	w := box.Dx()
	if wrap && w > 0 {
		var wrapped []textLine
		for _, line := range lines {
			if line.width <= w || len(line.runs) == 0 {
				wrapped = append(wrapped, line)
				continue
			}
			wrapped = append(wrapped, wrapRunLine(line, w)...)
		}
		lines = wrapped
	}

	total := 0
	for _, line := range lines {
		total += line.height
	}
	curY := box.Min.Y
	switch anchor {
	case TextAnchorMiddle:
		curY = box.Min.Y + (box.Dy()-total)/2
	case TextAnchorBottom:
		curY = box.Max.Y - total
	}

	for _, line := range lines {
		baseline := curY + line.ascent
		curY += line.height

		drawX := box.Min.X
		switch line.alignment {
		case HorizontalCenter:
			drawX = box.Min.X + (w-line.width)/2
		case HorizontalRight:
			drawX = box.Max.X - line.width
		}

		for _, run := range line.runs {
			d := &font.Drawer{
				Dst:  r.img,
				Src:  &image.Uniform{run.color},
				Face: run.face,
				Dot:  fixed.P(drawX, baseline),
			}
			d.DrawString(run.text)
			drawX += font.MeasureString(run.face, run.text).Ceil()
		}
	}
}

// wrapRunLine wraps a textLine into multiple lines that fit within maxWidth.
// Words are split on spaces; text without spaces (kana, kanji) wraps per rune.
func wrapRunLine(line textLine, maxWidth int) []textLine {
	type styledWord struct {
		word  string
		face  font.Face
		color color.NRGBA
	}

	var words []styledWord
	for _, run := range line.runs {
		if isASCII(run.text) {
			for i, w := range strings.Fields(run.text) {
				if i > 0 {
					w = " " + w
				}
				words = append(words, styledWord{word: w, face: run.face, color: run.color})
			}
			continue
		}
		for _, ch := range run.text {
			words = append(words, styledWord{word: string(ch), face: run.face, color: run.color})
		}
	}

	if len(words) == 0 {
		return []textLine{line}
	}

	var result []textLine
	var curRuns []textRun
	curWidth := 0

	for _, sw := range words {
		ww := font.MeasureString(sw.face, sw.word).Ceil()
		if curWidth+ww > maxWidth && curWidth > 0 {
			result = append(result, buildTextLine(curRuns, line.alignment))
			curRuns = nil
			curWidth = 0
			sw.word = strings.TrimLeft(sw.word, " ")
			ww = font.MeasureString(sw.face, sw.word).Ceil()
		}
		curRuns = append(curRuns, textRun{text: sw.word, face: sw.face, color: sw.color})
		curWidth += ww
	}
	if len(curRuns) > 0 {
		result = append(result, buildTextLine(curRuns, line.alignment))
	}
	return result
}
