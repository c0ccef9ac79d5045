package geometry

import (
	"errors"
	"math"
)

var ErrEmptyPolyline = errors.New("polyline has no points")

// Point is a pixel coordinate with the origin at the top-left corner and y growing downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// AngleDeg is the direction of p taken as a vector, in degrees.
func (p Point) AngleDeg() float64 {
	return math.Atan2(p.Y, p.X) * 180 / math.Pi
}

// Polyline is an ordered list of samples along a curve. Samples keep the
// order they were produced in and are not sorted by x.
type Polyline []Point

// SampleYAtX returns the y of the sample whose x is nearest to x. It is a
// nearest-sample lookup, not an interpolation. Ties go to the earliest sample.
func SampleYAtX(line Polyline, x float64) (float64, error) {
	if len(line) == 0 {
		return 0, ErrEmptyPolyline
	}

	best := 0
	bestDist := math.Abs(line[0].X - x)
	for i := 1; i < len(line); i++ {
		if d := math.Abs(line[i].X - x); d < bestDist {
			best, bestDist = i, d
		}
	}

	return line[best].Y, nil
}

// VerticalGap is SampleYAtX(line, x) - yRef. Positive means the curve lies below the reference.
func VerticalGap(line Polyline, x, yRef float64) (float64, error) {
	y, err := SampleYAtX(line, x)
	if err != nil {
		return 0, err
	}
	return y - yRef, nil
}

// ColumnX interpolates between the x coordinates of a and b. fraction may
// leave [0,1] to extrapolate.
func ColumnX(a, b Point, fraction float64) float64 {
	return a.X + fraction*(b.X-a.X)
}

// Angle returns the angle in degrees of the vector from -> to.
func Angle(from, to Point) float64 {
	return to.Sub(from).AngleDeg()
}

// TrapezoidArea integrates upper[i].Y - lower[i].Y over the shared index
// range with unit spacing.
func TrapezoidArea(upper, lower Polyline) (float64, error) {
	if len(upper) == 0 || len(lower) == 0 {
		return 0, ErrEmptyPolyline
	}

	n := len(upper)
	if len(lower) < n {
		n = len(lower)
	}

	var area float64
	for i := 1; i < n; i++ {
		prev := upper[i-1].Y - lower[i-1].Y
		curr := upper[i].Y - lower[i].Y
		area += (prev + curr) / 2
	}

	return area, nil
}

// MinY returns the sample with the smallest y, i.e. the highest point in the image.
func MinY(line Polyline) (Point, error) {
	if len(line) == 0 {
		return Point{}, ErrEmptyPolyline
	}

	top := line[0]
	for _, p := range line[1:] {
		if p.Y < top.Y {
			top = p
		}
	}
	return top, nil
}
