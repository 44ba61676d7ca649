package pptx

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnsupportedContent is returned by OpenTemplate when the template slide
// holds pictures, tables, charts or other elements a Slide cannot keep.
var ErrUnsupportedContent = errors.New("unsupported slide content")

// Open reads a PPTX file from disk and returns a Presentation.
func Open(path string) (*Presentation, error) {
	reader, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	return reader.Read(path)
}

// ReadFrom reads a PPTX from an io.ReaderAt with the given size.
func ReadFrom(r io.ReaderAt, size int64) (*Presentation, error) {
	reader, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	return reader.ReadFromReader(r, size)
}

// OpenTemplate opens a PPTX file and returns a detached copy of the slide at
// index together with the source slide size. A slide that would lose content
// when copied fails with ErrUnsupportedContent.
func OpenTemplate(path string, index int) (*Slide, *DocumentLayout, error) {
	pres, err := Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open template: %w", err)
	}
	slide, err := pres.GetSlide(index)
	if err != nil {
		return nil, nil, fmt.Errorf("template %s: %w", path, err)
	}
	if skipped := slide.Skipped(); len(skipped) > 0 {
		return nil, nil, fmt.Errorf("template %s slide %d has %s: %w",
			path, index+1, strings.Join(skipped, ", "), ErrUnsupportedContent)
	}
	layout := *pres.layout
	return slide.Clone(), &layout, nil
}

// Save writes the presentation to a PPTX file.
func (p *Presentation) Save(path string) error {
	writer, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return writer.Save(path)
}

// WriteTo writes the presentation to a writer in PPTX format.
func (p *Presentation) WriteTo(w io.Writer) error {
	writer, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return writer.WriteTo(w)
}

// ExtractText returns all text content from the presentation as a single string.
func (p *Presentation) ExtractText() string {
	var parts []string
	for _, slide := range p.slides {
		parts = append(parts, slide.ExtractText())
	}
	return joinNonEmpty(parts, "\n")
}
