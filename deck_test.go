package studiomap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/VantageDataChat/studiomap/pptx"
)

const testDeckYAML = `output: deck.pptx
title: Positioning
author: Strategy team
slides:
  - title: Opening
  - title: 現在の規模
    map:
      field: current
      labels: true
      legend: true
      proposal: {label: 提案, score: 0.7, size: 60}
      callouts:
        - text: note
          at: [0.5, 0.5]
  - map:
      key: growth
      field: founded
      hide_points: true
      color_by: Ownership
      start_years: true
      trajectories:
        domestic: [MAPPA]
        international: [Laika]
`

func testDeck(t *testing.T, dir string) *DeckSpec {
	t.Helper()
	spec, err := ParseDeckSpec([]byte(testDeckYAML))
	require.NoError(t, err)
	spec.Output = filepath.Join(dir, spec.Output)
	return spec
}

func TestParseDeckSpec(t *testing.T) {
	spec, err := ParseDeckSpec([]byte(testDeckYAML))
	require.NoError(t, err)
	require.Len(t, spec.Slides, 3)
	assert.Nil(t, spec.Slides[0].Map)

	m := spec.Slides[1].Map
	require.NotNil(t, m)
	assert.Equal(t, SizeCurrent, m.Field)
	require.NotNil(t, m.Proposal)
	assert.Equal(t, 0.7, m.Proposal.Score)
	assert.Equal(t, [2]float64{0.5, 0.5}, m.Callouts[0].At)
	assert.Equal(t, []string{"MAPPA"}, spec.Slides[2].Map.Trajectories.Domestic)
	assert.Equal(t, SizeFounded, spec.Slides[2].Map.Field)
	assert.Equal(t, ColorByOwnership, spec.Slides[2].Map.ColorBy)
	assert.True(t, spec.Slides[2].Map.StartYears)
	assert.False(t, m.ColorBy.Categorical())

	_, err = ParseDeckSpec([]byte("slides:\n  - map: {color_by: revenue}\n"))
	assert.ErrorContains(t, err, `unknown color_by "revenue"`)

	views := spec.Views()
	require.Len(t, views, 2)
	assert.Equal(t, "slide-2", views[0].Key)
	assert.Equal(t, "現在の規模", views[0].Title)
	assert.Equal(t, "growth", views[1].Key)

	_, err = ParseDeckSpec([]byte("output: x.pptx\n"))
	assert.EqualError(t, err, "deck has no slides")
}

func TestBuildOneSlidePerStep(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAssembler(testDataset(t), cfg, t.TempDir())
	var progress [][2]int
	a.Progress = func(done, total int) { progress = append(progress, [2]int{done, total}) }

	pres, err := a.Build(context.Background(), testDeck(t, t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, 3, pres.GetSlideCount())
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
	assert.Equal(t, pptx.Point(960), pres.GetLayout().CX)
	assert.Equal(t, pptx.Point(540), pres.GetLayout().CY)
	assert.Equal(t, "Positioning", pres.GetDocumentProperties().Title)
	assert.Equal(t, "Strategy team", pres.GetDocumentProperties().Creator)

	slides := pres.GetAllSlides()
	// heading only
	require.Equal(t, 1, slides[0].GetShapeCount())
	assert.Equal(t, "Opening", slides[0].ExtractText())
	// title, axes, points, proposal, callouts, legend
	assert.Equal(t, 6, slides[1].GetShapeCount())
	// axes and trajectories
	assert.Equal(t, 2, slides[2].GetShapeCount())
}

func TestAssembleWritesDeck(t *testing.T) {
	dir := t.TempDir()
	spec := testDeck(t, dir)
	a := NewAssembler(testDataset(t), DefaultConfig(), dir)
	require.NoError(t, a.Assemble(context.Background(), spec))

	pres, err := pptx.Open(spec.Output)
	require.NoError(t, err)
	assert.Equal(t, 3, pres.GetSlideCount())
	assert.Contains(t, pres.ExtractText(), "MAPPA")
}

func TestAssembleUsesTemplateSlides(t *testing.T) {
	dir := t.TempDir()
	tmpl := pptx.New()
	slide, err := tmpl.GetSlide(0)
	require.NoError(t, err)
	slide.CreateRichTextShape().CreateTextRun("Company header")
	require.NoError(t, tmpl.Save(filepath.Join(dir, "header.pptx")))

	spec := &DeckSpec{
		Output: filepath.Join(dir, "out", "deck.pptx"),
		Slides: []SlideSpec{{Template: "header.pptx", Map: &DefaultViews()[1]}},
	}
	a := NewAssembler(testDataset(t), DefaultConfig(), dir)
	require.NoError(t, a.Assemble(context.Background(), spec))

	pres, err := pptx.Open(spec.Output)
	require.NoError(t, err)
	text := pres.ExtractText()
	assert.Contains(t, text, "Company header")
	assert.Contains(t, text, "スタジオジブリ")
}

func TestAssembleTemplateFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	spec := testDeck(t, dir)
	spec.Slides[1].Template = "missing.pptx"

	a := NewAssembler(testDataset(t), DefaultConfig(), dir)
	err := a.Assemble(context.Background(), spec)
	require.Error(t, err)

	var tle *TemplateLoadError
	require.True(t, errors.As(err, &tle))
	assert.Equal(t, 2, tle.Slide)
	assert.Equal(t, "missing.pptx", tle.Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildStopsAtFailingLoader(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	a := NewAssembler(testDataset(t), DefaultConfig(), "")
	a.Templates = TemplateLoaderFunc(func(ctx context.Context, path string) (*pptx.Slide, *pptx.DocumentLayout, error) {
		calls++
		if calls == 1 {
			return nil, nil, boom
		}
		return pptx.NewSlide(), nil, nil
	})
	_, err := a.Build(context.Background(), testDeck(t, t.TempDir()))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestAssembleUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	spec := testDeck(t, dir)
	spec.Output = filepath.Join(blocker, "deck.pptx")
	a := NewAssembler(testDataset(t), DefaultConfig(), dir)
	err := a.Assemble(context.Background(), spec)

	var awe *ArtifactWriteError
	require.True(t, errors.As(err, &awe))
	assert.Equal(t, spec.Output, awe.Path)
}

func TestAssembleDomainErrorAborts(t *testing.T) {
	dir := t.TempDir()
	spec := testDeck(t, dir)
	spec.Slides[1].Map.Proposal.Score = 1.5

	err := NewAssembler(testDataset(t), DefaultConfig(), dir).Assemble(context.Background(), spec)
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
	assert.Contains(t, err.Error(), "slide 2")
	_, statErr := os.Stat(spec.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuildHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAssembler(testDataset(t), DefaultConfig(), "").Build(ctx, testDeck(t, t.TempDir()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileTemplateLoaderBlank(t *testing.T) {
	slide, size, err := FileTemplateLoader{}.LoadTemplate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, slide.GetShapeCount())
	assert.Nil(t, size)
}

func TestAssembleRefusesTemplateWithPicture(t *testing.T) {
	dir := t.TempDir()
	tmpl := pptx.New()
	slide, err := tmpl.GetSlide(0)
	require.NoError(t, err)
	slide.CreateRichTextShape().CreateTextRun("Company header")
	path := filepath.Join(dir, "logo.pptx")
	require.NoError(t, tmpl.Save(path))
	insertIntoSlide(t, path, picXML)

	spec := &DeckSpec{
		Output: filepath.Join(dir, "deck.pptx"),
		Slides: []SlideSpec{{Title: "Opening"}, {Template: "logo.pptx", Map: &DefaultViews()[1]}},
	}
	err = NewAssembler(testDataset(t), DefaultConfig(), dir).Assemble(context.Background(), spec)

	var tle *TemplateLoadError
	require.True(t, errors.As(err, &tle))
	assert.Equal(t, 2, tle.Slide)
	assert.ErrorIs(t, err, pptx.ErrUnsupportedContent)
	_, statErr := os.Stat(spec.Output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuildWarnsOnTemplateSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	tmpl := pptx.New()
	tmpl.GetLayout().SetLayout(pptx.LayoutScreen4x3)
	require.NoError(t, tmpl.Save(filepath.Join(dir, "old.pptx")))

	core, logs := observer.New(zap.WarnLevel)
	a := NewAssembler(testDataset(t), DefaultConfig(), dir)
	a.Logger = zap.New(core)
	spec := &DeckSpec{Slides: []SlideSpec{{Template: "old.pptx"}, {Title: "blank"}}}
	_, err := a.Build(context.Background(), spec)
	require.NoError(t, err)

	warned := logs.FilterMessageSnippet("slide size differs").All()
	require.Len(t, warned, 1)
	fields := warned[0].ContextMap()
	assert.Equal(t, int64(1), fields["slide"])
	assert.Equal(t, 720.0, fields["template_width"])
	assert.Equal(t, 960.0, fields["canvas_width"])
}
