package studiomap

import (
	"github.com/pkg/errors"
)

// MapView selects what one map shows. ColorBy switches markers from region
// colors to a category scheme; RegionMarkers then tells regions apart by
// marker shape. StartYears labels trajectory start markers with the
// founding year.
type MapView struct {
	Key           string              `yaml:"key,omitempty"`
	Title         string              `yaml:"title,omitempty"`
	Field         SizeField           `yaml:"field"`
	Labels        bool                `yaml:"labels"`
	YearLabels    bool                `yaml:"year_labels,omitempty"`
	HidePoints    bool                `yaml:"hide_points,omitempty"`
	Faded         bool                `yaml:"faded,omitempty"`
	ColorBy       ColorBy             `yaml:"color_by,omitempty"`
	RegionMarkers bool                `yaml:"region_markers,omitempty"`
	StartYears    bool                `yaml:"start_years,omitempty"`
	Legend        bool                `yaml:"legend"`
	Proposal      *Proposal           `yaml:"proposal,omitempty"`
	Trajectories  TrajectorySelection `yaml:"trajectories,omitempty"`
	Callouts      []Callout           `yaml:"callouts,omitempty"`
}

// Layer names in drawing order.
const (
	LayerTitle        = "Title"
	LayerAxes         = "Axes"
	LayerPoints       = "Points"
	LayerTrajectories = "Trajectories"
	LayerProposal     = "Proposal"
	LayerCallouts     = "Callouts"
	LayerLegend       = "Legend"
)

// Map is a composed view ready for an executor.
type Map struct {
	Key           string
	Title         string
	Width, Height float64
	Background    string
	Layers        []Layer
}

// CommandCount returns the number of commands across all layers.
func (m *Map) CommandCount() int {
	n := 0
	for _, l := range m.Layers {
		n += len(l.Commands)
	}
	return n
}

// Layer returns the named layer, or nil.
func (m *Map) Layer(name string) *Layer {
	for i := range m.Layers {
		if m.Layers[i].Name == name {
			return &m.Layers[i]
		}
	}
	return nil
}

// Compose runs the renderers for view in drawing order. m measures label
// text and may be nil.
func Compose(d *Dataset, cfg *Config, view MapView, m Measurer) (*Map, error) {
	space, err := cfg.PlotSpace()
	if err != nil {
		return nil, err
	}
	out := &Map{
		Key:        view.Key,
		Title:      view.Title,
		Width:      cfg.Canvas.Width,
		Height:     cfg.Canvas.Height,
		Background: cfg.Palette.Background,
	}
	add := func(name string, cmds []Command) {
		out.Layers = append(out.Layers, Layer{Name: name, Commands: cmds})
	}

	if view.Title != "" {
		add(LayerTitle, []Command{Label{
			X: cfg.Canvas.Width / 2, Y: space.Top() / 2,
			Text: view.Title, Size: cfg.Fonts.Title, Color: cfg.Palette.Text,
			Bold: true, Anchor: AnchorMiddle,
		}})
	}

	axes, err := RenderAxes(space, AxisOptionsFromConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "axes")
	}
	add(LayerAxes, axes)

	records := d.Records()
	if !view.HidePoints {
		opts := PointOptionsFromConfig(cfg, view.Field, view.Labels)
		opts.YearLabels = view.YearLabels
		opts.RegionMarkers = view.RegionMarkers
		if view.ColorBy.Categorical() {
			scheme := cfg.ColorScheme(view.ColorBy)
			opts.Scheme = &scheme
		}
		if view.Faded {
			opts.Opacity = cfg.Markers.StartOpacity
			opts.Diameter = cfg.Markers.StartDiameter
		}
		points, err := RenderPoints(records, space, opts)
		if err != nil {
			return nil, errors.Wrap(err, "points")
		}
		add(LayerPoints, points)
	}

	if !view.Trajectories.Empty() {
		opts := TrajectoryOptionsFromConfig(cfg)
		opts.StartYears = view.StartYears
		traj, err := RenderTrajectories(records, space, view.Trajectories, opts)
		if err != nil {
			return nil, errors.Wrap(err, "trajectories")
		}
		add(LayerTrajectories, traj)
	}

	if view.Proposal != nil {
		prop, err := RenderProposal(space, *view.Proposal, ProposalOptionsFromConfig(cfg))
		if err != nil {
			return nil, err
		}
		add(LayerProposal, prop)
	}

	if len(view.Callouts) > 0 {
		opts := CalloutOptionsFromConfig(cfg)
		opts.Measurer = m
		callouts, err := RenderCallouts(space, view.Callouts, opts)
		if err != nil {
			return nil, err
		}
		add(LayerCallouts, callouts)
	}

	if view.Legend {
		opts := LegendOptionsFromConfig(cfg)
		opts.Measurer = m
		if view.ColorBy.Categorical() {
			opts.Entries = CategoryLegendEntries(cfg, cfg.ColorScheme(view.ColorBy), records, view.RegionMarkers)
		}
		add(LayerLegend, RenderLegend(opts))
	}
	return out, nil
}

// DefaultViews returns the views of the interactive page: all studios at
// founding, all studios today, the growth trajectories, and today's map
// colored by AI adoption, ownership and main streaming platform.
func DefaultViews() []MapView {
	return []MapView{
		{
			Key:    "founded",
			Title:  "設立時マップ：設立時の規模でプロット",
			Field:  SizeFounded,
			Labels: true,
			Legend: true,
		},
		{
			Key:    "current",
			Title:  "現在マップ：現在の規模でプロット",
			Field:  SizeCurrent,
			Labels: true,
			Legend: true,
		},
		{
			Key:          "growth",
			Title:        "成長軌跡マップ：設立時→現在",
			Field:        SizeFounded,
			HidePoints:   true,
			Legend:       true,
			Trajectories: TrajectorySelection{AllGrowth: true},
			StartYears:   true,
		},
		{
			Key:           "ai_adoption",
			Title:         "AI活用度マップ：オリジナルスコア × 人数規模",
			Field:         SizeCurrent,
			Labels:        true,
			Legend:        true,
			ColorBy:       ColorByAIAdoption,
			RegionMarkers: true,
		},
		{
			Key:     "ownership",
			Title:   "所有構造マップ：オリジナルスコア × 人数規模",
			Field:   SizeCurrent,
			Labels:  true,
			Legend:  true,
			ColorBy: ColorByOwnership,
			Callouts: []Callout{{
				Text:   "2024: 東宝→SARU買収",
				At:     [2]float64{0.64, 0.42},
				Target: &DomainPoint{Score: 0.5, Size: 100},
			}},
		},
		{
			Key:     "platform",
			Title:   "配信PF関係マップ：オリジナルスコア × 人数規模",
			Field:   SizeCurrent,
			Labels:  true,
			Legend:  true,
			ColorBy: ColorByPlatform,
		},
	}
}
