package studiomap

import (
	"fmt"
	"math"
	"slices"

	"github.com/hashicorp/go-set/v2"

	"github.com/VantageDataChat/studiomap/pptx"
)

// TrajectorySelection names the studios, per region, whose growth is drawn.
// A name only matches a record of its own region. AllGrowth selects every
// studio whose team size changed.
type TrajectorySelection struct {
	Domestic      []string `yaml:"domestic,omitempty"`
	International []string `yaml:"international,omitempty"`
	AllGrowth     bool     `yaml:"all_growth,omitempty"`
}

// Empty reports whether the selection can match nothing.
func (s TrajectorySelection) Empty() bool {
	return !s.AllGrowth && len(s.Domestic) == 0 && len(s.International) == 0
}

// Matcher compiles the selection into a predicate.
func (s TrajectorySelection) Matcher() func(StudioRecord) bool {
	domestic := set.From(s.Domestic)
	international := set.From(s.International)
	all := s.AllGrowth
	return func(r StudioRecord) bool {
		if all && r.Grew() {
			return true
		}
		switch r.Region {
		case RegionDomestic:
			return domestic.Contains(r.Name)
		case RegionInternational:
			return international.Contains(r.Name)
		}
		return false
	}
}

// Matches reports whether r is selected.
func (s TrajectorySelection) Matches(r StudioRecord) bool {
	return s.Matcher()(r)
}

// Unknown lists selected names that match no record of the right region, sorted.
func (s TrajectorySelection) Unknown(d *Dataset) []string {
	domestic := set.New[string](len(d.records))
	international := set.New[string](len(d.records))
	for _, r := range d.records {
		if r.Region == RegionDomestic {
			domestic.Insert(r.Name)
		} else {
			international.Insert(r.Name)
		}
	}
	missing := set.New[string](0)
	for _, n := range s.Domestic {
		if !domestic.Contains(n) {
			missing.Insert(n)
		}
	}
	for _, n := range s.International {
		if !international.Contains(n) {
			missing.Insert(n)
		}
	}
	out := missing.Slice()
	slices.Sort(out)
	return out
}

// TrajectoryOptions configures RenderTrajectories.
type TrajectoryOptions struct {
	Palette       Palette
	StartDiameter float64
	EndDiameter   float64
	StartOpacity  float64
	LineWidth     float64
	LabelSize     float64
	LabelOffset   float64
	LabelMaxRunes int
	StartYears    bool // label start markers with "(founded)"
}

// TrajectoryOptionsFromConfig builds trajectory options for cfg.
func TrajectoryOptionsFromConfig(cfg *Config) TrajectoryOptions {
	return TrajectoryOptions{
		Palette:       cfg.Palette,
		StartDiameter: cfg.Markers.StartDiameter,
		EndDiameter:   cfg.Markers.Diameter,
		StartOpacity:  cfg.Markers.StartOpacity,
		LineWidth:     cfg.Markers.TrajectoryWidth,
		LabelSize:     cfg.Fonts.Label,
		LabelOffset:   cfg.Labels.Offset,
		LabelMaxRunes: cfg.Labels.MaxRunes,
	}
}

// RenderTrajectories draws, for every selected record, a faded start marker
// at the founded size, a dashed connector, the end marker at the current size
// and the name next to the end marker. With StartYears the start marker also
// gets the founding year, in the faded start color, for records that have
// one. Start and end share the record's x. Equal sizes yield a zero-length
// connector.
func RenderTrajectories(records []StudioRecord, space PlotSpace, sel TrajectorySelection, opts TrajectoryOptions) ([]Command, error) {
	match := sel.Matcher()
	var cmds []Command
	for _, r := range records {
		if !match(r) {
			continue
		}
		start, err := space.Map(r, SizeFounded)
		if err != nil {
			return nil, err
		}
		end, err := space.Map(r, SizeCurrent)
		if err != nil {
			return nil, err
		}
		color := opts.Palette.RegionColor(r.Region)
		cmds = append(cmds,
			Dot{
				CX: start.X, CY: start.Y, D: opts.StartDiameter,
				Fill: color, Opacity: opts.StartOpacity, Studio: r.Name,
			},
			Line{
				X1: start.X, Y1: start.Y, X2: end.X, Y2: end.Y,
				Stroke: Stroke{Color: color, Width: opts.LineWidth, Dash: true},
				Studio: r.Name,
			},
			Dot{
				CX: end.X, CY: end.Y, D: opts.EndDiameter,
				Fill: color, Opacity: 1,
				Outline: &Stroke{Color: "#FFFFFF", Width: 0.75},
				Studio:  r.Name,
			},
			Label{
				X: end.X + opts.EndDiameter/2 + opts.LabelOffset, Y: end.Y,
				Text: shortLabel(r.Name, opts.LabelMaxRunes), Size: opts.LabelSize,
				Color: color, Studio: r.Name,
			},
		)
		if opts.StartYears && r.Founded != 0 {
			cmds = append(cmds, Label{
				X: start.X + opts.StartDiameter/2 + opts.LabelOffset, Y: start.Y,
				Text: fmt.Sprintf("(%d)", r.Founded), Size: opts.LabelSize,
				Color: fadedColor(color, opts.StartOpacity), Studio: r.Name,
			})
		}
	}
	return cmds, nil
}

// fadedColor blends a "#RRGGBB" color toward white so text reads like the
// faded marker it labels. Malformed colors are returned unchanged.
func fadedColor(color string, opacity float64) string {
	c, ok := pptx.ParseColor(color)
	if !ok || opacity >= 1 {
		return color
	}
	opacity = max(opacity, 0)
	blend := func(v uint8) uint8 {
		return uint8(math.Round(255 - (255-float64(v))*opacity))
	}
	return fmt.Sprintf("#%02X%02X%02X", blend(c.GetRed()), blend(c.GetGreen()), blend(c.GetBlue()))
}
