package studiomap

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/VantageDataChat/studiomap/pptx"
)

// Config holds every adjustable constant of the map. Canvas units are points.
type Config struct {
	Canvas  CanvasConfig  `yaml:"canvas"`
	Plot    PlotConfig    `yaml:"plot"`
	Palette Palette       `yaml:"palette"`
	Markers MarkerConfig  `yaml:"markers"`
	Fonts   FontConfig    `yaml:"fonts"`
	Text    TextConfig    `yaml:"text"`
	Labels  LabelConfig   `yaml:"labels"`
	Legend  LegendConfig  `yaml:"legend"`
	Callout CalloutConfig `yaml:"callout"`

	Categories CategoryConfig `yaml:"categories"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PlotConfig struct {
	X           float64   `yaml:"x"`
	Y           float64   `yaml:"y"`
	Width       float64   `yaml:"width"`
	Height      float64   `yaml:"height"`
	ScoreMin    float64   `yaml:"score_min"`
	ScoreMax    float64   `yaml:"score_max"`
	SizeFloor   float64   `yaml:"size_floor"`
	SizeCeiling float64   `yaml:"size_ceiling"`
	Ticks       []float64 `yaml:"ticks"`
	CenterLines bool      `yaml:"center_lines"`
}

// Palette holds the map colors as "#RRGGBB".
type Palette struct {
	Domestic      string `yaml:"domestic"`
	International string `yaml:"international"`
	Highlight     string `yaml:"highlight"`
	Grid          string `yaml:"grid"`
	Axis          string `yaml:"axis"`
	Text          string `yaml:"text"`
	Background    string `yaml:"background"`
}

// RegionColor returns the marker color for a region.
func (p Palette) RegionColor(r Region) string {
	if r == RegionDomestic {
		return p.Domestic
	}
	return p.International
}

type MarkerConfig struct {
	Diameter         float64 `yaml:"diameter"`
	StartDiameter    float64 `yaml:"start_diameter"`
	ProposalDiameter float64 `yaml:"proposal_diameter"`
	StartOpacity     float64 `yaml:"start_opacity"`
	Shadow           bool    `yaml:"shadow"`
	TrajectoryWidth  float64 `yaml:"trajectory_width"`
}

type FontConfig struct {
	Family   string  `yaml:"family"`
	FamilyEA string  `yaml:"family_ea"`
	Title    float64 `yaml:"title"`
	Axis     float64 `yaml:"axis"`
	Tick     float64 `yaml:"tick"`
	Label    float64 `yaml:"label"`
	Legend   float64 `yaml:"legend"`
	Callout  float64 `yaml:"callout"`
}

type TextConfig struct {
	XLabelLeft          string `yaml:"x_label_left"`
	XLabelRight         string `yaml:"x_label_right"`
	YTitle              string `yaml:"y_title"`
	LegendDomestic      string `yaml:"legend_domestic"`
	LegendInternational string `yaml:"legend_international"`
	LegendProposal      string `yaml:"legend_proposal"`
}

type LabelConfig struct {
	Offset   float64 `yaml:"offset"`
	MaxRunes int     `yaml:"max_runes"`
}

type LegendConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type CalloutConfig struct {
	Fill    string  `yaml:"fill"`
	Border  string  `yaml:"border"`
	Padding float64 `yaml:"padding"`
}

// CategoryConfig lists, per categorical field, the known values in legend
// order. Other catches missing and unlisted values.
type CategoryConfig struct {
	AIAdoption []Category `yaml:"ai_adoption"`
	Ownership  []Category `yaml:"ownership"`
	Platform   []Category `yaml:"platform"`
	Other      Category   `yaml:"other"`
}

// DefaultConfig returns the settings used for the report deck: a 16:9 slide
// with the palette and marker sizes of the original interactive map.
func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{Width: 960, Height: 540},
		Plot: PlotConfig{
			X: 90, Y: 70, Width: 810, Height: 400,
			ScoreMin: -0.05, ScoreMax: 1.05,
			SizeFloor: 1.5, SizeCeiling: 4000,
			Ticks:       []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
			CenterLines: true,
		},
		Palette: Palette{
			Domestic:      "#3498DB",
			International: "#E74C3C",
			Highlight:     "#F39C12",
			Grid:          "#DDDDDD",
			Axis:          "#7F8C8D",
			Text:          "#2C3E50",
			Background:    "#FFFFFF",
		},
		Markers: MarkerConfig{
			Diameter:         10,
			StartDiameter:    7,
			ProposalDiameter: 16,
			StartOpacity:     0.4,
			Shadow:           true,
			TrajectoryWidth:  1.25,
		},
		Fonts: FontConfig{
			Family:   "Arial",
			FamilyEA: "Meiryo",
			Title:    16,
			Axis:     12,
			Tick:     9,
			Label:    9,
			Legend:   10,
			Callout:  10,
		},
		Text: TextConfig{
			XLabelLeft:          "← 受託",
			XLabelRight:         "オリジナル →",
			YTitle:              "人数規模（人）",
			LegendDomestic:      "国内スタジオ",
			LegendInternational: "海外スタジオ",
			LegendProposal:      "提案",
		},
		Labels:  LabelConfig{Offset: 4},
		Legend:  LegendConfig{X: 100, Y: 80},
		Callout: CalloutConfig{Fill: "#FFFFFF", Border: "#95A5A6", Padding: 5},
		Categories: CategoryConfig{
			AIAdoption: []Category{
				{Key: "none", Label: "なし", Color: "#BDBDBD"},
				{Key: "experimental", Label: "実験的", Color: "#FFC107"},
				{Key: "production", Label: "本番導入", Color: "#4CAF50"},
				{Key: "core", Label: "コア技術", Color: "#FFD700"},
			},
			Ownership: []Category{
				{Key: "independent", Label: "独立系", Color: "#27AE60"},
				{Key: "subsidiary", Label: "子会社", Color: "#2980B9"},
				{Key: "group_company", Label: "グループ会社", Color: "#8E44AD"},
			},
			Platform: []Category{
				{Key: "Netflix", Label: "Netflix", Color: "#E50914"},
				{Key: "Crunchyroll", Label: "Crunchyroll", Color: "#F47521"},
				{Key: "Amazon", Label: "Amazon", Color: "#00A8E1"},
				{Key: "Disney+", Label: "Disney+", Color: "#113CCF"},
				{Key: "Bilibili", Label: "Bilibili", Color: "#00A1D6"},
			},
			Other: Category{Key: "other", Label: "その他", Color: "#95A5A6"},
		},
	}
}

// LoadConfig decodes a YAML file over DefaultConfig. An empty path returns
// the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %v", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %v", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %v", path)
	}
	return cfg, nil
}

// Validate reports every problem found in the configuration at once.
func (c *Config) Validate() error {
	var errs []string
	add := func(format string, args ...any) { errs = append(errs, fmt.Sprintf(format, args...)) }

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		add("canvas: size %vx%v must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := c.PlotSpace(); err != nil {
		add("%v", err)
	}
	if c.Plot.X+c.Plot.Width > c.Canvas.Width || c.Plot.Y+c.Plot.Height > c.Canvas.Height {
		add("plot: rectangle exceeds the canvas")
	}
	for _, t := range c.Plot.Ticks {
		if !finite(t) || t < 0 {
			add("plot.ticks: invalid tick %v", t)
		}
	}
	colors := map[string]string{
		"palette.domestic":      c.Palette.Domestic,
		"palette.international": c.Palette.International,
		"palette.highlight":     c.Palette.Highlight,
		"palette.grid":          c.Palette.Grid,
		"palette.axis":          c.Palette.Axis,
		"palette.text":          c.Palette.Text,
		"palette.background":    c.Palette.Background,
		"callout.fill":          c.Callout.Fill,
		"callout.border":        c.Callout.Border,
	}
	for _, key := range slices.Sorted(maps.Keys(colors)) {
		if !isHexColor(colors[key]) {
			add("%s: %q is not a #RRGGBB color", key, colors[key])
		}
	}
	if c.Markers.Diameter <= 0 || c.Markers.StartDiameter <= 0 || c.Markers.ProposalDiameter <= 0 {
		add("markers: diameters must be positive")
	} else if c.Markers.StartDiameter >= c.Markers.Diameter {
		add("markers.start_diameter: %v must be smaller than markers.diameter %v",
			c.Markers.StartDiameter, c.Markers.Diameter)
	}
	if c.Markers.StartOpacity < 0 || c.Markers.StartOpacity > 1 {
		add("markers.start_opacity: %v outside [0,1]", c.Markers.StartOpacity)
	}
	fonts := []struct {
		name string
		size float64
	}{
		{"title", c.Fonts.Title}, {"axis", c.Fonts.Axis}, {"tick", c.Fonts.Tick},
		{"label", c.Fonts.Label}, {"legend", c.Fonts.Legend}, {"callout", c.Fonts.Callout},
	}
	for _, f := range fonts {
		if f.size < 1 {
			add("fonts.%s: size %v must be at least 1", f.name, f.size)
		}
	}
	groups := []struct {
		name string
		list []Category
	}{
		{"ai_adoption", c.Categories.AIAdoption},
		{"ownership", c.Categories.Ownership},
		{"platform", c.Categories.Platform},
		{"other", []Category{c.Categories.Other}},
	}
	for _, g := range groups {
		seen := map[string]bool{}
		for i, cat := range g.list {
			if cat.Key == "" {
				add("categories.%s[%d]: key is empty", g.name, i)
			} else if seen[cat.Key] {
				add("categories.%s: duplicate key %q", g.name, cat.Key)
			}
			seen[cat.Key] = true
			if !isHexColor(cat.Color) {
				add("categories.%s.%s: %q is not a #RRGGBB color", g.name, cat.Key, cat.Color)
			}
		}
	}
	if c.Labels.MaxRunes < 0 {
		add("labels.max_runes: %d must not be negative", c.Labels.MaxRunes)
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Errorf("invalid configuration:\n  %s", strings.Join(errs, "\n  "))
}

// ColorScheme returns the category scheme for a categorical coloring.
func (c *Config) ColorScheme(by ColorBy) ColorScheme {
	s := ColorScheme{By: by, Other: c.Categories.Other}
	switch by {
	case ColorByAIAdoption:
		s.Categories = c.Categories.AIAdoption
	case ColorByOwnership:
		s.Categories = c.Categories.Ownership
	case ColorByPlatform:
		s.Categories = c.Categories.Platform
	}
	return s
}

// isHexColor reports whether s is a "#RRGGBB" color.
func isHexColor(s string) bool {
	_, ok := pptx.ParseColor(s)
	return ok && strings.HasPrefix(s, "#") && len(s) == 7
}

// PlotSpace builds the plot space described by the configuration.
func (c *Config) PlotSpace() (PlotSpace, error) {
	p := c.Plot
	return NewPlotSpace(p.X, p.Y, p.Width, p.Height, p.ScoreMin, p.ScoreMax, p.SizeFloor, p.SizeCeiling)
}
