package studiomap

import (
	"context"
	"path/filepath"

	"github.com/VantageDataChat/studiomap/pptx"
)

// TemplateLoader supplies the base slide for a deck step, with the slide size
// of the file it came from. The size is nil for blank slides.
type TemplateLoader interface {
	LoadTemplate(ctx context.Context, path string) (*pptx.Slide, *pptx.DocumentLayout, error)
}

// FileTemplateLoader reads template slides from .pptx files. Relative paths
// resolve against BaseDir. Index selects the slide within each file.
type FileTemplateLoader struct {
	BaseDir string
	Index   int
}

// LoadTemplate returns a detached copy of the template slide. An empty path
// yields a blank slide. Slides with pictures, tables or charts are refused
// with pptx.ErrUnsupportedContent.
func (l FileTemplateLoader) LoadTemplate(ctx context.Context, path string) (*pptx.Slide, *pptx.DocumentLayout, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if path == "" {
		return pptx.NewSlide(), nil, nil
	}
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	return pptx.OpenTemplate(path, l.Index)
}

// TemplateLoaderFunc adapts a function to TemplateLoader.
type TemplateLoaderFunc func(ctx context.Context, path string) (*pptx.Slide, *pptx.DocumentLayout, error)

func (f TemplateLoaderFunc) LoadTemplate(ctx context.Context, path string) (*pptx.Slide, *pptx.DocumentLayout, error) {
	return f(ctx, path)
}
