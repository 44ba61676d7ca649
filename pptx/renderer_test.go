package pptx

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

// noFonts returns a cache that finds no system fonts so text falls back to
// basicfont and tests stay deterministic.
func noFonts(t *testing.T) *FontCache {
	t.Helper()
	fc := NewFontCache()
	fc.dirs = nil
	return fc
}

func renderOpts(t *testing.T, width int) *RenderOptions {
	opts := DefaultRenderOptions()
	opts.Width = width
	opts.FontCache = noFonts(t)
	return opts
}

func rgbaAt(t *testing.T, p *Presentation, opts *RenderOptions, x, y int) color.RGBA {
	t.Helper()
	img, err := p.SlideToImage(0, opts)
	if err != nil {
		t.Fatalf("SlideToImage: %v", err)
	}
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestSlideToImage_BlankSlide(t *testing.T) {
	p := New()
	img, err := p.SlideToImage(0, renderOpts(t, 960))
	if err != nil {
		t.Fatalf("SlideToImage: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 960 || b.Dy() != 540 {
		t.Errorf("expected 960x540 for 16:9, got %dx%d", b.Dx(), b.Dy())
	}
	if c := rgbaAt(t, p, renderOpts(t, 960), 10, 10); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("background = %v, want white", c)
	}
}

func TestSlideToImage_OutOfRange(t *testing.T) {
	p := New()
	if _, err := p.SlideToImage(5, nil); err == nil {
		t.Error("expected error for out-of-range slide index")
	}
}

func TestSlideToImage_SlideBackground(t *testing.T) {
	p := New()
	firstSlide(t, p).SetBackground(NewFill().SetSolid(NewColor("102030")))
	if c := rgbaAt(t, p, renderOpts(t, 320), 5, 5); c != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Errorf("background = %v", c)
	}
}

func TestRenderEllipseAlpha(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Point(100), Point(100))
	dot := firstSlide(t, p).CreateAutoShape()
	dot.SetAutoShapeType(AutoShapeEllipse)
	dot.SetPosition(Point(20), Point(20))
	dot.SetSize(Point(60), Point(60))
	dot.SetSolidFill(NewColor("FF0000").WithOpacity(0.4))

	opts := renderOpts(t, 100)
	center := rgbaAt(t, p, opts, 50, 50)
	if center.R != 255 || center.G < 150 || center.G > 156 {
		t.Errorf("blended center = %v, want about (255,153,153)", center)
	}
	corner := rgbaAt(t, p, opts, 22, 22)
	if corner != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel outside ellipse = %v, want white", corner)
	}
}

func TestRenderLineInsideGroup(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Point(100), Point(100))
	g := firstSlide(t, p).CreateGroupShape()
	l := NewLineShape()
	l.SetEndpoints(Point(90), Point(50), Point(10), Point(50))
	l.SetLineWidthEMU(Point(2)).SetLineColor(NewColor("0000FF"))
	g.AddShape(l)

	c := rgbaAt(t, p, renderOpts(t, 100), 50, 50)
	if c.B != 255 || c.R != 0 {
		t.Errorf("line pixel = %v, want blue", c)
	}
}

func TestRenderDashedLeavesGaps(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Point(200), Point(20))
	l := firstSlide(t, p).CreateLineShape()
	l.SetEndpoints(Point(0), Point(10), Point(200), Point(10))
	l.SetLineWidthEMU(Point(2)).SetLineColor(ColorBlack).SetLineStyle(BorderDash)

	img, err := p.SlideToImage(0, renderOpts(t, 200))
	if err != nil {
		t.Fatal(err)
	}
	var on, off int
	for x := 0; x < 200; x++ {
		r, _, _, _ := img.At(x, 10).RGBA()
		if r == 0 {
			on++
		} else {
			off++
		}
	}
	if on == 0 || off == 0 {
		t.Errorf("dashed line should mix ink and gaps: on=%d off=%d", on, off)
	}
}

func TestSaveSlidesAsImages(t *testing.T) {
	p := New()
	p.CreateSlide()
	dir := t.TempDir()
	paths, err := p.SaveSlidesAsImages(filepath.Join(dir, "out", "slide_%d.png"), renderOpts(t, 160))
	if err != nil {
		t.Fatalf("SaveSlidesAsImages: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %d", len(paths))
	}
	for _, path := range paths {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", path, err)
		}
	}
}

func TestSaveSlideAsJPEG(t *testing.T) {
	p := New()
	firstSlide(t, p).CreateRichTextShape().CreateTextRun("preview")
	opts := renderOpts(t, 160)
	opts.Format = ImageFormatJPEG
	path := filepath.Join(t.TempDir(), "slide.jpg")
	if err := p.SaveSlideAsImage(0, path, opts); err != nil {
		t.Fatalf("SaveSlideAsImage: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("output is not a JPEG")
	}
}

func TestFontCacheAliases(t *testing.T) {
	fc := noFonts(t)
	if fc.Has("メイリオ") {
		t.Error("no fonts are loaded, alias lookup should fail")
	}
	if _, ok := fc.TextWidth("Meiryo", 10, "abc"); ok {
		t.Error("TextWidth should report a missing font")
	}
	if japaneseFontAliases["メイリオ"] != "meiryo" {
		t.Error("missing Meiryo alias")
	}
}
