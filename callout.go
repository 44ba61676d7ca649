package studiomap

import (
	"github.com/pkg/errors"
)

// DomainPoint is a position on the map in domain values.
type DomainPoint struct {
	Score float64 `yaml:"score"`
	Size  float64 `yaml:"size"`
}

// Callout is an annotation box. At places the box center as fractions of the
// plot rectangle (0,0 is top-left). Target, when set, draws a pointer from
// the box to that map position.
type Callout struct {
	Text   string       `yaml:"text"`
	At     [2]float64   `yaml:"at"`
	Target *DomainPoint `yaml:"target,omitempty"`
	Color  string       `yaml:"color,omitempty"`
}

// CalloutOptions configures RenderCallouts.
type CalloutOptions struct {
	FontSize  float64
	Fill      string
	Border    string
	TextColor string
	Padding   float64
	Measurer  Measurer
	Font      string
}

// CalloutOptionsFromConfig builds callout options for cfg.
func CalloutOptionsFromConfig(cfg *Config) CalloutOptions {
	return CalloutOptions{
		FontSize:  cfg.Fonts.Callout,
		Fill:      cfg.Callout.Fill,
		Border:    cfg.Callout.Border,
		TextColor: cfg.Palette.Text,
		Padding:   cfg.Callout.Padding,
		Font:      cfg.Fonts.FamilyEA,
	}
}

// RenderCallouts draws each callout as its pointer line, then the rounded
// box, then the text, so the box hides the pointer's inner end.
func RenderCallouts(space PlotSpace, callouts []Callout, opts CalloutOptions) ([]Command, error) {
	var cmds []Command
	for i, c := range callouts {
		fx, fy := c.At[0], c.At[1]
		if !finite(fx) || !finite(fy) || fx < 0 || fx > 1 || fy < 0 || fy > 1 {
			return nil, errors.Wrapf(invalidValue("position %v outside the plot", c.At), "callout %d", i+1)
		}
		cx := space.X + fx*space.W
		cy := space.Y + fy*space.H

		border := opts.Border
		if c.Color != "" {
			if !isHexColor(c.Color) {
				return nil, errors.Wrapf(invalidValue("color %q", c.Color), "callout %d", i+1)
			}
			border = c.Color
		}
		label := Label{
			X: cx, Y: cy, Text: c.Text,
			Size: opts.FontSize, Color: opts.TextColor, Anchor: AnchorMiddle,
		}
		bx, by, bw, bh := label.Box(opts.Measurer, opts.Font)

		if c.Target != nil {
			tx, err := space.MapScoreToX(c.Target.Score)
			if err != nil {
				return nil, errors.Wrapf(err, "callout %d target", i+1)
			}
			ty, err := space.MapSizeToY(c.Target.Size)
			if err != nil {
				return nil, errors.Wrapf(err, "callout %d target", i+1)
			}
			cmds = append(cmds, Line{
				X1: cx, Y1: cy, X2: tx, Y2: ty,
				Stroke: Stroke{Color: border, Width: 0.75},
				Arrow:  true,
			})
		}
		cmds = append(cmds,
			Rect{
				X: bx - opts.Padding, Y: by - opts.Padding,
				W: bw + 2*opts.Padding, H: bh + 2*opts.Padding,
				Fill:    opts.Fill,
				Stroke:  &Stroke{Color: border, Width: 0.75},
				Rounded: true,
				Name:    "callout",
			},
			label,
		)
	}
	return cmds, nil
}

// Proposal is the highlighted "our proposal" position.
type Proposal struct {
	Label string  `yaml:"label"`
	Score float64 `yaml:"score"`
	Size  float64 `yaml:"size"`
}

// ProposalOptions configures RenderProposal.
type ProposalOptions struct {
	Color     string
	Diameter  float64
	FontSize  float64
	TextColor string
	Offset    float64
}

// ProposalOptionsFromConfig builds proposal options for cfg.
func ProposalOptionsFromConfig(cfg *Config) ProposalOptions {
	return ProposalOptions{
		Color:     cfg.Palette.Highlight,
		Diameter:  cfg.Markers.ProposalDiameter,
		FontSize:  cfg.Fonts.Label + 1,
		TextColor: cfg.Palette.Text,
		Offset:    cfg.Labels.Offset,
	}
}

// RenderProposal draws the proposal marker with a bold label.
func RenderProposal(space PlotSpace, p Proposal, opts ProposalOptions) ([]Command, error) {
	x, err := space.MapScoreToX(p.Score)
	if err != nil {
		return nil, errors.Wrap(err, "proposal")
	}
	y, err := space.MapSizeToY(p.Size)
	if err != nil {
		return nil, errors.Wrap(err, "proposal")
	}
	cmds := []Command{Dot{
		CX: x, CY: y, D: opts.Diameter,
		Marker:  MarkerStar,
		Fill:    opts.Color,
		Opacity: 1,
		Outline: &Stroke{Color: "#FFFFFF", Width: 0.75},
		Shadow:  true,
	}}
	if p.Label != "" {
		cmds = append(cmds, Label{
			X: x + opts.Diameter/2 + opts.Offset, Y: y,
			Text: p.Label, Size: opts.FontSize, Color: opts.TextColor, Bold: true,
		})
	}
	return cmds, nil
}
