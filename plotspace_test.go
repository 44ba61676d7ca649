package studiomap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapScoreToXEdges(t *testing.T) {
	ps := testSpace(t)

	x, err := ps.MapScoreToX(0)
	require.NoError(t, err)
	assert.Equal(t, ps.Left(), x)

	x, err = ps.MapScoreToX(1)
	require.NoError(t, err)
	assert.Equal(t, ps.Right(), x)
}

func TestMapSizeToYLiteral(t *testing.T) {
	ps := testSpace(t)

	y, err := ps.MapSizeToY(10)
	require.NoError(t, err)
	want := 70 + 400*(1-(math.Log10(10)-math.Log10(1.5))/(math.Log10(4000)-math.Log10(1.5)))
	assert.InDelta(t, want, y, 1e-9)

	y, err = ps.MapSizeToY(4000)
	require.NoError(t, err)
	assert.InDelta(t, ps.Top(), y, 1e-9)
}

func TestMappingIsMonotonic(t *testing.T) {
	ps := testSpace(t)

	prev := math.Inf(-1)
	for i := 0; i <= 100; i++ {
		x, err := ps.MapScoreToX(float64(i) / 100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, x, prev)
		prev = x
	}

	prev = math.Inf(1)
	for size := 0.0; size <= 10000; size += 7 {
		y, err := ps.MapSizeToY(size)
		require.NoError(t, err)
		assert.LessOrEqual(t, y, prev, "size %v", size)
		prev = y
	}
}

func TestSizeFloorInvariance(t *testing.T) {
	ps := testSpace(t)
	floor, err := ps.MapSizeToY(ps.SizeFloor)
	require.NoError(t, err)
	assert.Equal(t, ps.Bottom(), floor)

	for _, size := range []float64{0, 0.5, 1, 1.49} {
		y, err := ps.MapSizeToY(size)
		require.NoError(t, err)
		assert.Equal(t, floor, y, "size %v", size)
	}
}

func TestSizeAboveCeilingExtrapolates(t *testing.T) {
	ps := testSpace(t)
	y, err := ps.MapSizeToY(8000)
	require.NoError(t, err)
	assert.Less(t, y, ps.Top())
	assert.False(t, ps.ContainsY(y))
}

func TestInverseRoundTrip(t *testing.T) {
	ps := testSpace(t)
	for _, score := range []float64{0, 0.13, 0.5, 0.87, 1} {
		for _, size := range []int{2, 3, 42, 999, 4000} {
			p, err := ps.Map(StudioRecord{Name: "x", OriginalityScore: score, CurrentTeamSize: size}, SizeCurrent)
			require.NoError(t, err)
			assert.InDelta(t, score, ps.InverseX(p.X), 1e-9)
			assert.InDelta(t, math.Log10(float64(size)), ps.InverseY(p.Y), 1e-9)
		}
	}
}

func TestInvalidDomainValues(t *testing.T) {
	ps := testSpace(t)
	for _, score := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		_, err := ps.MapScoreToX(score)
		assert.ErrorIs(t, err, ErrInvalidDomainValue, "score %v", score)
	}
	for _, size := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := ps.MapSizeToY(size)
		assert.ErrorIs(t, err, ErrInvalidDomainValue, "size %v", size)
	}

	_, err := ps.Map(StudioRecord{Name: "bad", OriginalityScore: 2, CurrentTeamSize: 10}, SizeCurrent)
	assert.ErrorIs(t, err, ErrInvalidDomainValue)
	assert.Contains(t, err.Error(), `studio "bad"`)
}

func TestNewPlotSpaceRejectsBadBounds(t *testing.T) {
	cases := map[string][8]float64{
		"zero width":      {0, 0, 0, 100, 0, 1, 1, 10},
		"reversed x":      {0, 0, 100, 100, 1, 0, 1, 10},
		"zero floor":      {0, 0, 100, 100, 0, 1, 0, 10},
		"ceiling < floor": {0, 0, 100, 100, 0, 1, 10, 5},
		"nan":             {0, 0, 100, math.NaN(), 0, 1, 1, 10},
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPlotSpace(b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7])
			assert.Error(t, err)
		})
	}
}
