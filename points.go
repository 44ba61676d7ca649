package studiomap

import (
	"fmt"

	"github.com/aquilax/truncate"
)

// PointOptions configures RenderPoints.
type PointOptions struct {
	Field         SizeField
	ShowLabels    bool
	YearLabels    bool // label with the founding year instead of the name
	Palette       Palette
	Scheme        *ColorScheme // colors by category instead of region when set
	RegionMarkers bool         // international studios as diamonds
	Diameter      float64
	Opacity       float64
	Shadow        bool
	LabelSize     float64
	LabelOffset   float64
	LabelMaxRunes int
}

// PointOptionsFromConfig builds point options for cfg and a size field.
func PointOptionsFromConfig(cfg *Config, field SizeField, labels bool) PointOptions {
	return PointOptions{
		Field:         field,
		ShowLabels:    labels,
		Palette:       cfg.Palette,
		Diameter:      cfg.Markers.Diameter,
		Opacity:       1,
		Shadow:        cfg.Markers.Shadow,
		LabelSize:     cfg.Fonts.Label,
		LabelOffset:   cfg.Labels.Offset,
		LabelMaxRunes: cfg.Labels.MaxRunes,
	}
}

// RenderPoints draws one marker per record, plus its label when enabled.
// Labels sit right of the marker and may overlap each other.
func RenderPoints(records []StudioRecord, space PlotSpace, opts PointOptions) ([]Command, error) {
	var dots, labels []Command
	for _, r := range records {
		p, err := space.Map(r, opts.Field)
		if err != nil {
			return nil, err
		}
		color := opts.Palette.RegionColor(r.Region)
		if opts.Scheme != nil {
			color = opts.Scheme.Classify(r).Color
		}
		marker := MarkerCircle
		if opts.RegionMarkers {
			marker = regionMarker(r.Region)
		}
		dots = append(dots, Dot{
			CX: p.X, CY: p.Y, D: opts.Diameter,
			Marker:  marker,
			Fill:    color,
			Opacity: opts.Opacity,
			Outline: &Stroke{Color: "#FFFFFF", Width: 0.75},
			Shadow:  opts.Shadow,
			Studio:  r.Name,
		})
		if !opts.ShowLabels {
			continue
		}
		text := shortLabel(r.Name, opts.LabelMaxRunes)
		if opts.YearLabels {
			if r.Founded == 0 {
				continue
			}
			text = fmt.Sprintf("(%d)", r.Founded)
		}
		labels = append(labels, Label{
			X: p.X + opts.Diameter/2 + opts.LabelOffset, Y: p.Y,
			Text:   text,
			Size:   opts.LabelSize,
			Color:  color,
			Studio: r.Name,
		})
	}
	// labels after all markers so no marker covers a label
	return append(dots, labels...), nil
}

// shortLabel truncates names longer than maxRunes with an ellipsis. Zero
// means unlimited.
func shortLabel(name string, maxRunes int) string {
	if maxRunes <= 0 {
		return name
	}
	return truncate.Truncate(name, maxRunes, "…", truncate.PositionEnd)
}
