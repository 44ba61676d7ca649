package studiomap

import (
	"context"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/VantageDataChat/studiomap/pptx"
)

// SlideSpec is one deck step: a template slide, optionally with a map drawn
// over it. Title becomes the map title, or a plain heading without a map.
type SlideSpec struct {
	Template string   `yaml:"template,omitempty"`
	Title    string   `yaml:"title,omitempty"`
	Map      *MapView `yaml:"map,omitempty"`
}

// DeckSpec describes a whole deck.
type DeckSpec struct {
	Output string      `yaml:"output"`
	Title  string      `yaml:"title,omitempty"`
	Author string      `yaml:"author,omitempty"`
	Slides []SlideSpec `yaml:"slides"`
}

// ParseDeckSpec decodes a YAML deck description.
func ParseDeckSpec(data []byte) (*DeckSpec, error) {
	var spec DeckSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "parse deck")
	}
	if len(spec.Slides) == 0 {
		return nil, errors.New("deck has no slides")
	}
	return &spec, nil
}

// LoadDeckSpec reads a deck description from disk.
func LoadDeckSpec(path string) (*DeckSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read deck %s", path)
	}
	spec, err := ParseDeckSpec(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return spec, nil
}

// Views returns the map views of the deck in slide order, keyed by position
// when they have no key of their own.
func (s *DeckSpec) Views() []MapView {
	var views []MapView
	for i, step := range s.Slides {
		if step.Map == nil {
			continue
		}
		v := *step.Map
		if v.Title == "" {
			v.Title = step.Title
		}
		if v.Key == "" {
			v.Key = "slide-" + strconv.Itoa(i+1)
		}
		views = append(views, v)
	}
	return views
}

// Assembler builds decks from a dataset and a configuration.
type Assembler struct {
	Dataset   *Dataset
	Config    *Config
	Templates TemplateLoader
	Executor  *PPTXExecutor
	Measurer  Measurer
	Logger    *zap.Logger
	// Progress, when set, is called after each completed step.
	Progress func(done, total int)
}

// NewAssembler returns an assembler with file templates under baseDir and
// a no-op logger.
func NewAssembler(d *Dataset, cfg *Config, baseDir string) *Assembler {
	return &Assembler{
		Dataset:   d,
		Config:    cfg,
		Templates: FileTemplateLoader{BaseDir: baseDir},
		Executor:  NewPPTXExecutor(cfg),
		Logger:    zap.NewNop(),
	}
}

func (a *Assembler) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Build runs every step in order and returns the finished presentation.
// The first failing step aborts the build.
func (a *Assembler) Build(ctx context.Context, spec *DeckSpec) (*pptx.Presentation, error) {
	log := a.logger().With(zap.String("run", uuid.NewString()))
	cfg := a.Config

	pres := pptx.NewEmpty()
	pres.GetLayout().SetCustomLayout(pptx.Point(cfg.Canvas.Width), pptx.Point(cfg.Canvas.Height))
	props := pres.GetDocumentProperties()
	if spec.Title != "" {
		props.Title = spec.Title
	}
	if spec.Author != "" {
		props.Creator = spec.Author
		props.LastModifiedBy = spec.Author
	}
	pres.SetAccentColors(
		pptx.NewColor(cfg.Palette.Domestic),
		pptx.NewColor(cfg.Palette.International),
		pptx.NewColor(cfg.Palette.Highlight),
	)

	exec := a.Executor
	if exec == nil {
		exec = NewPPTXExecutor(cfg)
	}
	if exec.Fonts == nil {
		exec.Fonts = a.Measurer
	}

	total := len(spec.Slides)
	for i, step := range spec.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slideLog := log.With(zap.Int("slide", i+1), zap.String("template", step.Template))

		slide, size, err := a.Templates.LoadTemplate(ctx, step.Template)
		if err != nil {
			return nil, &TemplateLoadError{Slide: i + 1, Path: step.Template, Err: err}
		}
		if layout := pres.GetLayout(); size != nil && (size.CX != layout.CX || size.CY != layout.CY) {
			slideLog.Warn("template slide size differs from the canvas; shapes keep their positions",
				zap.Float64("template_width", pptx.EMUToPoint(size.CX)),
				zap.Float64("template_height", pptx.EMUToPoint(size.CY)),
				zap.Float64("canvas_width", cfg.Canvas.Width),
				zap.Float64("canvas_height", cfg.Canvas.Height))
		}

		m, err := a.stepMap(step)
		if err != nil {
			return nil, errors.Wrapf(err, "slide %d", i+1)
		}
		if m != nil {
			if err := exec.Apply(slide, m); err != nil {
				return nil, errors.Wrapf(err, "slide %d", i+1)
			}
			slideLog.Debug("rendered map", zap.Int("commands", m.CommandCount()))
		}
		pres.AddSlide(slide)
		slideLog.Debug("slide done")
		if a.Progress != nil {
			a.Progress(i+1, total)
		}
	}
	log.Info("deck built", zap.Int("slides", pres.GetSlideCount()))
	return pres, nil
}

// stepMap composes the map for step, or a heading-only map, or nil.
func (a *Assembler) stepMap(step SlideSpec) (*Map, error) {
	if step.Map == nil {
		if step.Title == "" {
			return nil, nil
		}
		return a.headingMap(step.Title), nil
	}
	view := *step.Map
	if view.Title == "" {
		view.Title = step.Title
	}
	if unknown := view.Trajectories.Unknown(a.Dataset); len(unknown) > 0 {
		a.logger().Warn("trajectory names match no studio", zap.Strings("names", unknown))
	}
	return Compose(a.Dataset, a.Config, view, a.Measurer)
}

func (a *Assembler) headingMap(title string) *Map {
	cfg := a.Config
	return &Map{
		Title:  title,
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
		Layers: []Layer{{Name: LayerTitle, Commands: []Command{Label{
			X: cfg.Canvas.Width / 2, Y: cfg.Plot.Y / 2,
			Text: title, Size: cfg.Fonts.Title, Color: cfg.Palette.Text,
			Bold: true, Anchor: AnchorMiddle,
		}}}},
	}
}

// Assemble builds the deck and saves it to spec.Output. The file appears
// only when every step and the write succeeded.
func (a *Assembler) Assemble(ctx context.Context, spec *DeckSpec) error {
	if spec.Output == "" {
		return &ArtifactWriteError{Path: spec.Output, Err: errors.New("no output path")}
	}
	pres, err := a.Build(ctx, spec)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pres.Save(spec.Output); err != nil {
		return &ArtifactWriteError{Path: spec.Output, Err: err}
	}
	a.logger().Info("deck saved", zap.String("path", spec.Output))
	return nil
}
