package studiomap

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoverLines(t *testing.T) {
	d := testDataset(t)
	cfg := DefaultConfig()

	ghibli, _ := d.Lookup("スタジオジブリ")
	assert.Equal(t, []string{
		"スタジオジブリ (Studio Ghibli)",
		"分類: 国内",
		"設立: 1985年",
		"人数: 30人 → 150人",
		"オリジナルスコア: 0.95",
		"代表作: となりのトトロ、千と千尋の神隠し、もののけ姫",
	}, HoverLines(ghibli, cfg))

	laika, _ := d.Lookup("Laika")
	assert.Equal(t, []string{
		"Laika",
		"分類: 海外",
		"設立: 2005年",
		"人数: 350人",
		"オリジナルスコア: 0.90",
		"代表作: Coraline",
	}, HoverLines(laika, cfg))

	big := StudioRecord{Name: "Big", Region: RegionInternational, OriginalityScore: 1, FoundedTeamSize: 1200, CurrentTeamSize: 1200}
	assert.Equal(t, []string{"Big", "分類: 海外", "人数: 1,200人", "オリジナルスコア: 1.00"}, HoverLines(big, cfg))

	big.Ownership = "subsidiary"
	big.AIAdoption = "production"
	big.AIDetail = "背景美術"
	big.Platforms = []string{"Netflix", "Crunchyroll"}
	assert.Equal(t, []string{
		"Big", "分類: 海外", "人数: 1,200人", "オリジナルスコア: 1.00",
		"所有形態: 子会社",
		"AI活用: 本番導入 (背景美術)",
		"主要PF: Netflix, Crunchyroll",
	}, HoverLines(big, cfg))

	big.AIAdoption, big.Ownership = "none", "joint_venture"
	lines := HoverLines(big, cfg)
	assert.Contains(t, lines, "所有形態: joint_venture")
	assert.NotContains(t, strings.Join(lines, "\n"), "AI活用")
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, testDataset(t), DefaultConfig(), PageOptions{}))
	page := buf.String()

	assert.Contains(t, page, "<title>アニメスタジオ ポジショニングマップ</title>")
	assert.Equal(t, 6, strings.Count(page, "<svg xmlns="))
	for _, key := range []string{"founded", "current", "growth", "ai_adoption", "ownership", "platform"} {
		assert.Contains(t, page, `id="view-`+key+`"`)
		assert.Contains(t, page, `data-view="`+key+`"`)
	}
	assert.Contains(t, page, `"name":"MAPPA"`)
	assert.Contains(t, page, `"region":"international"`)
	assert.Contains(t, page, `data-studio="Laika"`)
	assert.Contains(t, page, `fill="#3498DB"`)
	assert.Contains(t, page, `<g id="growth-layer-trajectories">`)
	assert.Contains(t, page, "Netflix, Crunchyroll")
}

func TestRenderPageRejectsMarkupInCalloutColor(t *testing.T) {
	opts := PageOptions{Views: []MapView{{
		Key:      "current",
		Field:    SizeCurrent,
		Callouts: []Callout{{Text: "note", At: [2]float64{0.5, 0.5}, Color: `red" onmouseover="alert(1)`}},
	}}}
	var buf bytes.Buffer
	err := RenderPage(&buf, testDataset(t), DefaultConfig(), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
	assert.Contains(t, err.Error(), "callout 1")
	assert.NotContains(t, buf.String(), "onmouseover")
}

func TestRenderPageCustomViews(t *testing.T) {
	var buf bytes.Buffer
	opts := PageOptions{
		Title: "Deck views",
		Views: []MapView{{Title: "only", Field: SizeCurrent, Labels: true}},
	}
	require.NoError(t, RenderPage(&buf, testDataset(t), DefaultConfig(), opts))
	page := buf.String()
	assert.Contains(t, page, "<h1>Deck views</h1>")
	assert.Equal(t, 1, strings.Count(page, "<svg xmlns="))
	assert.Contains(t, page, `id="view-view-1"`)
}

func TestRenderPagePropagatesDomainErrors(t *testing.T) {
	opts := PageOptions{Views: []MapView{{Key: "bad", Proposal: &Proposal{Score: 7, Size: 1}}}}
	err := RenderPage(&bytes.Buffer{}, testDataset(t), DefaultConfig(), opts)
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
	assert.Contains(t, err.Error(), "view bad")
}

func TestWritePageFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.html")
	require.NoError(t, WritePageFile(path, testDataset(t), DefaultConfig(), PageOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("<!DOCTYPE html>")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	err = WritePageFile(filepath.Join(dir, "missing", "map.html"), testDataset(t), DefaultConfig(), PageOptions{})
	var awe *ArtifactWriteError
	require.True(t, errors.As(err, &awe))
}
