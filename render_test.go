package studiomap

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAxesDropsTicksOutsidePlot(t *testing.T) {
	cfg := DefaultConfig()
	ps := testSpace(t)

	cmds, err := RenderAxes(ps, AxisOptionsFromConfig(cfg))
	require.NoError(t, err)

	frame, ok := cmds[0].(Rect)
	require.True(t, ok)
	assert.Equal(t, "plot-frame", frame.Name)

	// 1 is below the floor and 5000 above the ceiling
	tickLabels := lo.FilterMap(commandsOf[Label](cmds), func(l Label, _ int) (string, bool) {
		return l.Text, l.Anchor == AnchorEnd && l.X == ps.Left()-6
	})
	assert.Equal(t, []string{"5", "10", "50", "100", "500", "1,000"}, tickLabels)

	grid := lo.Filter(commandsOf[Line](cmds), func(l Line, _ int) bool { return !l.Stroke.Dash })
	assert.Len(t, grid, 6)
	for _, l := range grid {
		assert.True(t, ps.ContainsY(l.Y1))
		assert.Equal(t, l.Y1, l.Y2)
	}

	dashed := lo.Filter(commandsOf[Line](cmds), func(l Line, _ int) bool { return l.Stroke.Dash })
	assert.Len(t, dashed, 2)
}

func TestRenderAxesWithoutCenterLines(t *testing.T) {
	opts := AxisOptionsFromConfig(DefaultConfig())
	opts.CenterLines = false
	opts.Ticks = nil
	cmds, err := RenderAxes(testSpace(t), opts)
	require.NoError(t, err)
	assert.Empty(t, commandsOf[Line](cmds))
	assert.Len(t, commandsOf[Label](cmds), 3)
}

func TestRenderAxesRejectsNegativeTick(t *testing.T) {
	opts := AxisOptionsFromConfig(DefaultConfig())
	opts.Ticks = []float64{10, -1}
	_, err := RenderAxes(testSpace(t), opts)
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
}

func TestTickLabel(t *testing.T) {
	assert.Equal(t, "5,000", tickLabel(5000))
	assert.Equal(t, "2.5", tickLabel(2.5))
}

func TestRenderPoints(t *testing.T) {
	cfg := DefaultConfig()
	ps := testSpace(t)
	records := testDataset(t).Records()

	cmds, err := RenderPoints(records, ps, PointOptionsFromConfig(cfg, SizeCurrent, true))
	require.NoError(t, err)
	require.Len(t, cmds, 6)

	dots := commandsOf[Dot](cmds)
	labels := commandsOf[Label](cmds)
	require.Len(t, dots, 3)
	require.Len(t, labels, 3)
	for i := range 3 {
		_, isDot := cmds[i].(Dot)
		assert.True(t, isDot, "markers come before labels")
	}

	assert.Equal(t, "#3498DB", dots[0].Fill)
	assert.Equal(t, "#E74C3C", dots[2].Fill)
	assert.Equal(t, "Laika", dots[2].Studio)

	p, err := ps.Map(records[1], SizeCurrent)
	require.NoError(t, err)
	assert.Equal(t, p.X, dots[1].CX)
	assert.Equal(t, p.Y, dots[1].CY)
	assert.Equal(t, p.X+5+4, labels[1].X)
	assert.Equal(t, p.Y, labels[1].Y)
	assert.Equal(t, "MAPPA", labels[1].Text)
}

func TestRenderPointsWithoutLabels(t *testing.T) {
	cmds, err := RenderPoints(testDataset(t).Records(), testSpace(t), PointOptionsFromConfig(DefaultConfig(), SizeFounded, false))
	require.NoError(t, err)
	assert.Len(t, cmds, 3)
	assert.Empty(t, commandsOf[Label](cmds))
}

func TestRenderPointsYearLabels(t *testing.T) {
	records := testDataset(t).Records()
	records[1].Founded = 0

	opts := PointOptionsFromConfig(DefaultConfig(), SizeFounded, true)
	opts.YearLabels = true
	cmds, err := RenderPoints(records, testSpace(t), opts)
	require.NoError(t, err)

	texts := lo.Map(commandsOf[Label](cmds), func(l Label, _ int) string { return l.Text })
	assert.Equal(t, []string{"(1985)", "(2005)"}, texts)
}

func TestRenderPointsPropagatesInvalidRecord(t *testing.T) {
	records := []StudioRecord{{Name: "broken", OriginalityScore: 1.5, CurrentTeamSize: 3}}
	_, err := RenderPoints(records, testSpace(t), PointOptionsFromConfig(DefaultConfig(), SizeCurrent, true))
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
}

func TestShortLabel(t *testing.T) {
	assert.Equal(t, "MAPPA", shortLabel("MAPPA", 0))
	assert.Equal(t, "MAPPA", shortLabel("MAPPA", 10))

	got := shortLabel("Cartoon Saloon", 7)
	assert.True(t, strings.HasPrefix(got, "Cart"), got)
	assert.True(t, strings.HasSuffix(got, "…"), got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 8)
}

func TestRenderLegend(t *testing.T) {
	cfg := DefaultConfig()
	cmds := RenderLegend(LegendOptionsFromConfig(cfg))
	require.Len(t, cmds, 7)

	panel, ok := cmds[0].(Rect)
	require.True(t, ok)
	assert.Equal(t, "legend", panel.Name)
	assert.Equal(t, cfg.Legend.X, panel.X)

	dots := commandsOf[Dot](cmds)
	require.Len(t, dots, 3)
	assert.Equal(t, []string{"#3498DB", "#E74C3C", "#F39C12"}, []string{dots[0].Fill, dots[1].Fill, dots[2].Fill})
	assert.Equal(t, MarkerStar, dots[2].Marker)

	labels := commandsOf[Label](cmds)
	assert.Equal(t, "国内スタジオ", labels[0].Text)
	for _, l := range labels {
		_, _, w, _ := l.Box(nil, "")
		assert.LessOrEqual(t, l.X+w, panel.X+panel.W)
		assert.Less(t, panel.Y, l.Y)
		assert.Less(t, l.Y, panel.Y+panel.H)
	}
}

func TestCategoryLegendEntries(t *testing.T) {
	cfg := DefaultConfig()
	records := testDataset(t).Records()

	entries := CategoryLegendEntries(cfg, cfg.ColorScheme(ColorByAIAdoption), records, true)
	assert.Equal(t, []LegendEntry{
		{Text: "なし", Color: "#BDBDBD"},
		{Text: "実験的", Color: "#FFC107"},
		{Text: "その他", Color: "#95A5A6"},
		{Text: "国内", Color: cfg.Palette.Axis, Marker: MarkerCircle},
		{Text: "海外", Color: cfg.Palette.Axis, Marker: MarkerDiamond},
		{Text: cfg.Text.LegendProposal, Color: cfg.Palette.Highlight, Marker: MarkerStar},
	}, entries)

	entries = CategoryLegendEntries(cfg, cfg.ColorScheme(ColorByPlatform), records[1:2], false)
	assert.Equal(t, []string{"Netflix", cfg.Text.LegendProposal}, lo.Map(entries, func(e LegendEntry, _ int) string { return e.Text }))

	cmds := RenderLegend(LegendOptions{Entries: entries, FontSize: 9, Swatch: 10})
	assert.Len(t, commandsOf[Dot](cmds), 2)
}

func TestRenderPointsColorScheme(t *testing.T) {
	cfg := DefaultConfig()
	scheme := cfg.ColorScheme(ColorByAIAdoption)
	opts := PointOptionsFromConfig(cfg, SizeCurrent, false)
	opts.Scheme = &scheme
	opts.RegionMarkers = true

	cmds, err := RenderPoints(testDataset(t).Records(), testSpace(t), opts)
	require.NoError(t, err)
	dots := commandsOf[Dot](cmds)
	require.Len(t, dots, 3)
	assert.Equal(t, []string{"#BDBDBD", "#FFC107", "#95A5A6"}, lo.Map(dots, func(d Dot, _ int) string { return d.Fill }))
	assert.Equal(t, []Marker{MarkerCircle, MarkerCircle, MarkerDiamond}, lo.Map(dots, func(d Dot, _ int) Marker { return d.Marker }))
}

type fixedMeasurer float64

func (m fixedMeasurer) TextWidth(_ string, sizePt float64, text string) (float64, bool) {
	return float64(m) * sizePt * float64(utf8.RuneCountInString(text)), true
}

func TestLegendUsesMeasurer(t *testing.T) {
	opts := LegendOptionsFromConfig(DefaultConfig())
	narrow := RenderLegend(opts)[0].(Rect)
	opts.Measurer = fixedMeasurer(3)
	wide := RenderLegend(opts)[0].(Rect)
	assert.Greater(t, wide.W, narrow.W)
}

func TestRenderCallouts(t *testing.T) {
	ps := testSpace(t)
	opts := CalloutOptionsFromConfig(DefaultConfig())

	cmds, err := RenderCallouts(ps, []Callout{
		{Text: "少人数でも\nオリジナル中心", At: [2]float64{0.5, 0.5}, Target: &DomainPoint{Score: 0.9, Size: 40}},
		{Text: "受託", At: [2]float64{0.1, 0.1}, Color: "#123456"},
	}, opts)
	require.NoError(t, err)
	require.Len(t, cmds, 5)

	pointer, ok := cmds[0].(Line)
	require.True(t, ok)
	assert.True(t, pointer.Arrow)
	assert.Equal(t, ps.X+0.5*ps.W, pointer.X1)
	tx, _ := ps.MapScoreToX(0.9)
	assert.Equal(t, tx, pointer.X2)

	box := cmds[1].(Rect)
	label := cmds[2].(Label)
	assert.True(t, box.Rounded)
	assert.Equal(t, "callout", box.Name)
	lx, ly, lw, lh := label.Box(nil, "")
	assert.InDelta(t, lx-opts.Padding, box.X, 1e-9)
	assert.InDelta(t, ly-opts.Padding, box.Y, 1e-9)
	assert.InDelta(t, lw+2*opts.Padding, box.W, 1e-9)
	assert.InDelta(t, lh+2*opts.Padding, box.H, 1e-9)
	assert.Len(t, label.Lines(), 2)

	colored := cmds[3].(Rect)
	assert.Equal(t, "#123456", colored.Stroke.Color)
}

func TestRenderCalloutsRejectsOutsidePosition(t *testing.T) {
	_, err := RenderCallouts(testSpace(t), []Callout{{Text: "x", At: [2]float64{1.2, 0.5}}}, CalloutOptionsFromConfig(DefaultConfig()))
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
	assert.Contains(t, err.Error(), "callout 1")

	_, err = RenderCallouts(testSpace(t), []Callout{{Text: "x", At: [2]float64{0.5, 0.5}, Target: &DomainPoint{Score: 3, Size: 10}}}, CalloutOptionsFromConfig(DefaultConfig()))
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
}

func TestRenderCalloutsRejectsBadColor(t *testing.T) {
	for _, color := range []string{`red" onmouseover="alert(1)`, "tomato", "#12345"} {
		_, err := RenderCallouts(testSpace(t), []Callout{
			{Text: "ok", At: [2]float64{0.5, 0.5}},
			{Text: "x", At: [2]float64{0.5, 0.5}, Color: color},
		}, CalloutOptionsFromConfig(DefaultConfig()))
		require.Error(t, err, color)
		assert.ErrorIs(t, err, ErrInvalidDomainValue)
		assert.Contains(t, err.Error(), "callout 2")
	}
}

func TestRenderProposal(t *testing.T) {
	ps := testSpace(t)
	cmds, err := RenderProposal(ps, Proposal{Label: "提案", Score: 0.75, Size: 60}, ProposalOptionsFromConfig(DefaultConfig()))
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	star := cmds[0].(Dot)
	assert.Equal(t, MarkerStar, star.Marker)
	assert.Equal(t, "#F39C12", star.Fill)
	x, _ := ps.MapScoreToX(0.75)
	assert.Equal(t, x, star.CX)

	label := cmds[1].(Label)
	assert.True(t, label.Bold)
	assert.Equal(t, 10.0, label.Size)

	_, err = RenderProposal(ps, Proposal{Score: 0.5, Size: -1}, ProposalOptionsFromConfig(DefaultConfig()))
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
}

func TestRenderTrajectories(t *testing.T) {
	ps := testSpace(t)
	records := testDataset(t).Records()
	sel := TrajectorySelection{Domestic: []string{"MAPPA"}}

	cmds, err := RenderTrajectories(records, ps, sel, TrajectoryOptionsFromConfig(DefaultConfig()))
	require.NoError(t, err)
	require.Len(t, cmds, 4)

	start := cmds[0].(Dot)
	line := cmds[1].(Line)
	end := cmds[2].(Dot)
	label := cmds[3].(Label)

	assert.Equal(t, 0.4, start.Opacity)
	assert.Equal(t, 7.0, start.D)
	assert.Equal(t, 10.0, end.D)
	assert.True(t, line.Stroke.Dash)
	assert.Equal(t, start.CX, end.CX)
	assert.Equal(t, end.CY-start.CY, line.Y2-line.Y1)
	assert.Less(t, line.Y2-line.Y1, 0.0, "growth points up")
	assert.Equal(t, "MAPPA", label.Text)
}

func TestRenderTrajectoriesStartYears(t *testing.T) {
	ps := testSpace(t)
	records := testDataset(t).Records()
	records[0].Founded = 0
	opts := TrajectoryOptionsFromConfig(DefaultConfig())
	opts.StartYears = true

	cmds, err := RenderTrajectories(records, ps, TrajectorySelection{AllGrowth: true}, opts)
	require.NoError(t, err)
	require.Len(t, cmds, 9)

	year := cmds[8].(Label)
	start := cmds[4].(Dot)
	assert.Equal(t, "(2011)", year.Text)
	assert.Equal(t, "MAPPA", year.Studio)
	assert.Equal(t, start.CY, year.Y)
	assert.Equal(t, start.CX+3.5+4, year.X)
	// #3498DB at 0.4 opacity over white
	assert.Equal(t, "#AED6F1", year.Color)
}

func TestFadedColor(t *testing.T) {
	assert.Equal(t, "#3498DB", fadedColor("#3498DB", 1))
	assert.Equal(t, "#FFFFFF", fadedColor("#000000", 0))
	assert.Equal(t, "tomato", fadedColor("tomato", 0.5))
}

func TestTrajectoryWithoutGrowth(t *testing.T) {
	records := testDataset(t).Records()
	sel := TrajectorySelection{International: []string{"Laika"}}

	cmds, err := RenderTrajectories(records, testSpace(t), sel, TrajectoryOptionsFromConfig(DefaultConfig()))
	require.NoError(t, err)
	line := commandsOf[Line](cmds)
	require.Len(t, line, 1)
	assert.Equal(t, line[0].X1, line[0].X2)
	assert.Equal(t, line[0].Y1, line[0].Y2)
}

func TestTrajectorySelectionMatchesOwnRegionOnly(t *testing.T) {
	d := testDataset(t)
	sel := TrajectorySelection{International: []string{"MAPPA"}, Domestic: []string{"Laika", "Pixar"}}

	cmds, err := RenderTrajectories(d.Records(), testSpace(t), sel, TrajectoryOptionsFromConfig(DefaultConfig()))
	require.NoError(t, err)
	assert.Empty(t, cmds)
	assert.Equal(t, []string{"Laika", "MAPPA", "Pixar"}, sel.Unknown(d))
}

func TestTrajectorySelectionAllGrowth(t *testing.T) {
	d := testDataset(t)
	sel := TrajectorySelection{AllGrowth: true}
	assert.False(t, sel.Empty())
	assert.True(t, TrajectorySelection{}.Empty())

	matched := lo.Filter(d.Records(), func(r StudioRecord, _ int) bool { return sel.Matches(r) })
	assert.Equal(t, []string{"スタジオジブリ", "MAPPA"}, lo.Map(matched, func(r StudioRecord, _ int) string { return r.Name }))
	assert.Empty(t, sel.Unknown(d))
}
