package studiomap

import (
	"math"

	"github.com/pkg/errors"
)

// PlotSpace is the plot rectangle on the canvas (in points) together with the
// domain bounds mapped onto it. Scores map linearly onto the x axis; team
// sizes map onto the y axis in log10 space, larger sizes rendering higher.
type PlotSpace struct {
	X, Y, W, H  float64
	XMin, XMax  float64
	SizeFloor   float64
	SizeCeiling float64
}

// NewPlotSpace validates the bounds and returns the plot space.
func NewPlotSpace(x, y, w, h, xMin, xMax, sizeFloor, sizeCeiling float64) (PlotSpace, error) {
	ps := PlotSpace{X: x, Y: y, W: w, H: h, XMin: xMin, XMax: xMax, SizeFloor: sizeFloor, SizeCeiling: sizeCeiling}
	for _, v := range []float64{x, y, w, h, xMin, xMax, sizeFloor, sizeCeiling} {
		if !finite(v) {
			return PlotSpace{}, errors.Errorf("plot space: non-finite bound %v", v)
		}
	}
	switch {
	case w <= 0 || h <= 0:
		return PlotSpace{}, errors.Errorf("plot space: size %vx%v must be positive", w, h)
	case xMax <= xMin:
		return PlotSpace{}, errors.Errorf("plot space: x max %v must exceed x min %v", xMax, xMin)
	case sizeFloor <= 0:
		return PlotSpace{}, errors.Errorf("plot space: size floor %v must be positive", sizeFloor)
	case sizeCeiling <= sizeFloor:
		return PlotSpace{}, errors.Errorf("plot space: size ceiling %v must exceed floor %v", sizeCeiling, sizeFloor)
	}
	return ps, nil
}

// YMin is log10 of the size floor.
func (ps PlotSpace) YMin() float64 { return math.Log10(ps.SizeFloor) }

// YMax is log10 of the size ceiling.
func (ps PlotSpace) YMax() float64 { return math.Log10(ps.SizeCeiling) }

// Left, Right, Top and Bottom return the plot rectangle edges.
func (ps PlotSpace) Left() float64   { return ps.X }
func (ps PlotSpace) Right() float64  { return ps.X + ps.W }
func (ps PlotSpace) Top() float64    { return ps.Y }
func (ps PlotSpace) Bottom() float64 { return ps.Y + ps.H }

// MapScoreToX maps an originality score in [0,1] onto the x axis.
func (ps PlotSpace) MapScoreToX(score float64) (float64, error) {
	if !finite(score) || score < 0 || score > 1 {
		return 0, invalidValue("score %v outside [0,1]", score)
	}
	return ps.X + (score-ps.XMin)/(ps.XMax-ps.XMin)*ps.W, nil
}

// MapSizeToY maps a team size onto the y axis. Sizes below the floor are
// raised to it; sizes above the ceiling extrapolate past the plot top.
func (ps PlotSpace) MapSizeToY(size float64) (float64, error) {
	if !finite(size) || size < 0 {
		return 0, invalidValue("team size %v", size)
	}
	ly := math.Log10(math.Max(size, ps.SizeFloor))
	yMin := ps.YMin()
	return ps.Y + ps.H*(1-(ly-yMin)/(ps.YMax()-yMin)), nil
}

// InverseX returns the score that maps to canvas x.
func (ps PlotSpace) InverseX(x float64) float64 {
	return ps.XMin + (x-ps.X)/ps.W*(ps.XMax-ps.XMin)
}

// InverseY returns log10 of the team size that maps to canvas y.
func (ps PlotSpace) InverseY(y float64) float64 {
	yMin := ps.YMin()
	return yMin + (1-(y-ps.Y)/ps.H)*(ps.YMax()-yMin)
}

// ContainsY reports whether y lies within the plot rectangle vertically.
func (ps PlotSpace) ContainsY(y float64) bool {
	return y >= ps.Top() && y <= ps.Bottom()
}

// MappedPoint is a record's position on the canvas.
type MappedPoint struct {
	X, Y float64
}

// Map places a record using the chosen team size snapshot.
func (ps PlotSpace) Map(r StudioRecord, field SizeField) (MappedPoint, error) {
	x, err := ps.MapScoreToX(r.OriginalityScore)
	if err != nil {
		return MappedPoint{}, errors.Wrapf(err, "studio %q", r.Name)
	}
	y, err := ps.MapSizeToY(float64(r.Size(field)))
	if err != nil {
		return MappedPoint{}, errors.Wrapf(err, "studio %q", r.Name)
	}
	return MappedPoint{X: x, Y: y}, nil
}
