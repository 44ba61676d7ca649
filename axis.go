package studiomap

import (
	"math"

	"github.com/dustin/go-humanize"
)

// AxisOptions configures RenderAxes.
type AxisOptions struct {
	Ticks       []float64 // team sizes; ticks outside the plot are dropped
	CenterLines bool
	XLabelLeft  string
	XLabelRight string
	YTitle      string
	GridColor   string
	AxisColor   string
	TextColor   string
	TickSize    float64
	AxisSize    float64
}

// AxisOptionsFromConfig builds the axis options for cfg.
func AxisOptionsFromConfig(cfg *Config) AxisOptions {
	return AxisOptions{
		Ticks:       cfg.Plot.Ticks,
		CenterLines: cfg.Plot.CenterLines,
		XLabelLeft:  cfg.Text.XLabelLeft,
		XLabelRight: cfg.Text.XLabelRight,
		YTitle:      cfg.Text.YTitle,
		GridColor:   cfg.Palette.Grid,
		AxisColor:   cfg.Palette.Axis,
		TextColor:   cfg.Palette.Text,
		TickSize:    cfg.Fonts.Tick,
		AxisSize:    cfg.Fonts.Axis,
	}
}

// RenderAxes draws the plot frame, center lines, tick gridlines with labels,
// the qualitative x axis end labels and the y axis title.
func RenderAxes(space PlotSpace, opts AxisOptions) ([]Command, error) {
	cmds := []Command{
		Rect{
			X: space.X, Y: space.Y, W: space.W, H: space.H,
			Stroke: &Stroke{Color: opts.AxisColor, Width: 1},
			Name:   "plot-frame",
		},
	}

	if opts.CenterLines {
		midX := space.X + space.W/2
		midY := space.Y + space.H/2
		center := Stroke{Color: opts.AxisColor, Width: 0.75, Dash: true}
		cmds = append(cmds,
			Line{X1: midX, Y1: space.Top(), X2: midX, Y2: space.Bottom(), Stroke: center},
			Line{X1: space.Left(), Y1: midY, X2: space.Right(), Y2: midY, Stroke: center},
		)
	}

	for _, tick := range opts.Ticks {
		y, err := space.MapSizeToY(tick)
		if err != nil {
			return nil, err
		}
		// below the floor a tick would be clamped onto the bottom edge
		if tick < space.SizeFloor || !space.ContainsY(y) {
			continue
		}
		cmds = append(cmds,
			Line{
				X1: space.Left(), Y1: y, X2: space.Right(), Y2: y,
				Stroke: Stroke{Color: opts.GridColor, Width: 0.5},
			},
			Label{
				X: space.Left() - 6, Y: y,
				Text:   tickLabel(tick),
				Size:   opts.TickSize,
				Color:  opts.TextColor,
				Anchor: AnchorEnd,
			},
		)
	}

	below := space.Bottom() + opts.AxisSize
	if opts.XLabelLeft != "" {
		cmds = append(cmds, Label{
			X: space.Left(), Y: below, Text: opts.XLabelLeft,
			Size: opts.AxisSize, Color: opts.TextColor, Anchor: AnchorStart,
		})
	}
	if opts.XLabelRight != "" {
		cmds = append(cmds, Label{
			X: space.Right(), Y: below, Text: opts.XLabelRight,
			Size: opts.AxisSize, Color: opts.TextColor, Anchor: AnchorEnd,
		})
	}
	if opts.YTitle != "" {
		cmds = append(cmds, Label{
			X: space.Left(), Y: space.Top() - opts.AxisSize, Text: opts.YTitle,
			Size: opts.AxisSize, Color: opts.TextColor, Anchor: AnchorEnd,
		})
	}
	return cmds, nil
}

// tickLabel formats a team size with thousands separators.
func tickLabel(v float64) string {
	if v == math.Trunc(v) {
		return humanize.Comma(int64(v))
	}
	return humanize.FormatFloat("#,###.#", v)
}
