package studiomap

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ColorBy selects what decides a marker's color.
type ColorBy string

const (
	ColorByRegion     ColorBy = "region"
	ColorByAIAdoption ColorBy = "ai_adoption"
	ColorByOwnership  ColorBy = "ownership"
	ColorByPlatform   ColorBy = "platform"
)

// UnmarshalText accepts the color_by names used in deck files. Empty means
// region.
func (c *ColorBy) UnmarshalText(b []byte) error {
	switch v := ColorBy(strings.ToLower(strings.TrimSpace(string(b)))); v {
	case "", ColorByRegion:
		*c = ColorByRegion
	case ColorByAIAdoption, ColorByOwnership, ColorByPlatform:
		*c = v
	default:
		return errors.Errorf("unknown color_by %q", string(b))
	}
	return nil
}

// Categorical reports whether markers are colored by a category scheme
// rather than by region.
func (c ColorBy) Categorical() bool {
	return c != "" && c != ColorByRegion
}

// Category is one value of a categorical field with its legend label and color.
type Category struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

// ColorScheme classifies records into categories. Records whose value is
// missing or not listed fall into Other.
type ColorScheme struct {
	By         ColorBy
	Categories []Category
	Other      Category
}

// value returns the record's raw value for the scheme's field. Only the
// first, main platform counts.
func (s ColorScheme) value(r StudioRecord) string {
	switch s.By {
	case ColorByAIAdoption:
		return r.AIAdoption
	case ColorByOwnership:
		return r.Ownership
	case ColorByPlatform:
		if len(r.Platforms) > 0 {
			return r.Platforms[0]
		}
	}
	return ""
}

// Classify returns the category of r.
func (s ColorScheme) Classify(r StudioRecord) Category {
	v := s.value(r)
	if c, ok := lo.Find(s.Categories, func(c Category) bool { return c.Key == v }); ok && v != "" {
		return c
	}
	return s.Other
}

// Present returns the categories that occur in records, in scheme order,
// with Other last when any record falls into it.
func (s ColorScheme) Present(records []StudioRecord) []Category {
	seen := lo.SliceToMap(records, func(r StudioRecord) (string, bool) {
		return s.Classify(r).Key, true
	})
	out := lo.Filter(s.Categories, func(c Category, _ int) bool { return seen[c.Key] })
	if seen[s.Other.Key] && !lo.ContainsBy(out, func(c Category) bool { return c.Key == s.Other.Key }) {
		out = append(out, s.Other)
	}
	return out
}

// categoryLabel returns the label of key in cats, or key itself when it is
// not listed.
func categoryLabel(cats []Category, key string) string {
	if c, ok := lo.Find(cats, func(c Category) bool { return c.Key == key }); ok {
		return c.Label
	}
	return key
}

// regionMarker is the glyph that tells regions apart when color is taken.
func regionMarker(r Region) Marker {
	if r == RegionInternational {
		return MarkerDiamond
	}
	return MarkerCircle
}
