package studiomap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	ps, err := cfg.PlotSpace()
	require.NoError(t, err)
	assert.Equal(t, 90.0, ps.Left())
	assert.Equal(t, 470.0, ps.Bottom())
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
palette:
  domestic: "#112233"
plot:
  size_ceiling: 10000
labels:
  max_runes: 8
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	want := DefaultConfig()
	want.Palette.Domestic = "#112233"
	want.Plot.SizeCeiling = 10000
	want.Labels.MaxRunes = 8
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plot:\n  size_floor: 0\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size floor")
	assert.Contains(t, err.Error(), path)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Palette.Grid = "blue"
	cfg.Markers.StartOpacity = 2
	cfg.Fonts.Tick = 0
	cfg.Plot.Ticks = append(cfg.Plot.Ticks, -5)

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `palette.grid: "blue" is not a #RRGGBB color`)
	assert.Contains(t, msg, "markers.start_opacity")
	assert.Contains(t, msg, "fonts.tick")
	assert.Contains(t, msg, "plot.ticks: invalid tick -5")
}

func TestValidateStartMarkerSmallerThanEndMarker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Markers.StartDiameter = cfg.Markers.Diameter
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markers.start_diameter: 10 must be smaller than markers.diameter 10")

	cfg.Markers.StartDiameter = 12
	assert.Error(t, cfg.Validate())

	cfg.Markers.StartDiameter = 6
	assert.NoError(t, cfg.Validate())
}

func TestValidateCategories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories.Ownership = append(cfg.Categories.Ownership, Category{Key: "independent", Label: "x", Color: "#000000"})
	cfg.Categories.Platform[0].Color = "red"
	cfg.Categories.AIAdoption[1].Key = ""
	cfg.Categories.Other.Color = ""

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `categories.ownership: duplicate key "independent"`)
	assert.Contains(t, msg, `categories.platform.Netflix: "red" is not a #RRGGBB color`)
	assert.Contains(t, msg, "categories.ai_adoption[1]: key is empty")
	assert.Contains(t, msg, `categories.other.other: "" is not a #RRGGBB color`)
}

func TestLoadConfigReplacesCategoryList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  platform:
    - {key: U-NEXT, label: U-NEXT, color: "#000000"}
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []Category{{Key: "U-NEXT", Label: "U-NEXT", Color: "#000000"}}, cfg.Categories.Platform)
	assert.Equal(t, DefaultConfig().Categories.Ownership, cfg.Categories.Ownership)
}

func TestRegionColor(t *testing.T) {
	p := DefaultConfig().Palette
	assert.Equal(t, "#3498DB", p.RegionColor(RegionDomestic))
	assert.Equal(t, "#E74C3C", p.RegionColor(RegionInternational))
}
