package studiomap

// LegendEntry is one legend row: a swatch and its text.
type LegendEntry struct {
	Text   string
	Color  string
	Marker Marker
}

// LegendOptions configures RenderLegend.
type LegendOptions struct {
	X, Y       float64 // top-left corner
	Entries    []LegendEntry
	TextColor  string
	FontSize   float64
	Swatch     float64
	Background string
	Border     string
	Measurer   Measurer
	Font       string
}

// LegendOptionsFromConfig builds legend options for cfg with the region and
// proposal entries.
func LegendOptionsFromConfig(cfg *Config) LegendOptions {
	return LegendOptions{
		X: cfg.Legend.X,
		Y: cfg.Legend.Y,
		Entries: []LegendEntry{
			{Text: cfg.Text.LegendDomestic, Color: cfg.Palette.Domestic},
			{Text: cfg.Text.LegendInternational, Color: cfg.Palette.International},
			proposalEntry(cfg),
		},
		TextColor:  cfg.Palette.Text,
		FontSize:   cfg.Fonts.Legend,
		Swatch:     cfg.Markers.Diameter,
		Background: cfg.Palette.Background,
		Border:     cfg.Palette.Grid,
		Font:       cfg.Fonts.FamilyEA,
	}
}

// CategoryLegendEntries lists the categories of scheme that occur in records,
// then the region markers when regionMarkers is set, then the proposal.
func CategoryLegendEntries(cfg *Config, scheme ColorScheme, records []StudioRecord, regionMarkers bool) []LegendEntry {
	var entries []LegendEntry
	for _, c := range scheme.Present(records) {
		entries = append(entries, LegendEntry{Text: c.Label, Color: c.Color})
	}
	if regionMarkers {
		entries = append(entries,
			LegendEntry{Text: RegionDomestic.Label(), Color: cfg.Palette.Axis, Marker: regionMarker(RegionDomestic)},
			LegendEntry{Text: RegionInternational.Label(), Color: cfg.Palette.Axis, Marker: regionMarker(RegionInternational)},
		)
	}
	return append(entries, proposalEntry(cfg))
}

func proposalEntry(cfg *Config) LegendEntry {
	return LegendEntry{Text: cfg.Text.LegendProposal, Color: cfg.Palette.Highlight, Marker: MarkerStar}
}

// RenderLegend draws the legend panel with every entry, in order.
func RenderLegend(opts LegendOptions) []Command {
	const pad = 6
	row := max(opts.FontSize, opts.Swatch) * 1.5

	textW := 0.0
	for _, e := range opts.Entries {
		textW = max(textW, measure(opts.Measurer, opts.Font, e.Text, opts.FontSize))
	}
	w := pad + opts.Swatch + pad + textW + pad
	h := pad*2 + row*float64(len(opts.Entries))

	cmds := []Command{Rect{
		X: opts.X, Y: opts.Y, W: w, H: h,
		Fill:   opts.Background,
		Stroke: &Stroke{Color: opts.Border, Width: 0.75},
		Name:   "legend",
	}}

	for i, e := range opts.Entries {
		cy := opts.Y + pad + row*(float64(i)+0.5)
		cx := opts.X + pad + opts.Swatch/2
		cmds = append(cmds,
			Dot{CX: cx, CY: cy, D: opts.Swatch, Marker: e.Marker, Fill: e.Color, Opacity: 1},
			Label{
				X: cx + opts.Swatch/2 + pad, Y: cy,
				Text: e.Text, Size: opts.FontSize, Color: opts.TextColor,
			},
		)
	}
	return cmds
}
