package inkwell

import (
	"math"

	"github.com/gogpu/gg"
)

// FrameTime maps a frame index to wall-clock seconds: frame / fps.
func FrameTime(frame, fps int) float64 {
	return float64(frame) / float64(fps)
}

// FrameCount maps a duration in seconds to a frame count at the given rate.
func FrameCount(seconds float64, fps int) int {
	return int(seconds * float64(fps))
}

// LinearInterpolate returns steps values easing linearly from start to end.
func LinearInterpolate(start, end float64, steps int) []float64 {
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = start
		return out
	}
	for i := range out {
		t := float64(i) / float64(steps-1)
		out[i] = start + (end-start)*t
	}
	return out
}

// SinInterpolate returns steps values easing from start to end along a
// sinusoidal curve: slow at both ends, fastest in the middle.
func SinInterpolate(start, end float64, steps int) []float64 {
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = start
		return out
	}
	for i := range out {
		x := -math.Pi/2 + math.Pi*float64(i)/float64(steps-1)
		t := (math.Sin(x) + 1) / 2
		out[i] = start + (end-start)*t
	}
	return out
}

// Interpolate is the default easing used by animation helpers.
var Interpolate = SinInterpolate

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Angle returns the angle from p1 to p2 in radians. Angles follow screen
// coordinates: 0 points right, pi/2 points down.
func Angle(p1, p2 gg.Point) float64 {
	return math.Atan2(p2.Y-p1.Y, p2.X-p1.X)
}

// AnglePositive returns the angle from p1 to p2 normalized to [0, 2*pi).
func AnglePositive(p1, p2 gg.Point) float64 {
	a := Angle(p1, p2)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Distance returns the Euclidean distance between two points.
func Distance(p1, p2 gg.Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// DistanceSquared returns the squared distance between two points.
func DistanceSquared(p1, p2 gg.Point) float64 {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	return dx*dx + dy*dy
}

// Midpoint returns the point halfway between p1 and p2.
func Midpoint(p1, p2 gg.Point) gg.Point {
	return gg.Pt((p1.X+p2.X)/2, (p1.Y+p2.Y)/2)
}

// Slope returns the slope of the line through p1 and p2.
func Slope(p1, p2 gg.Point) float64 {
	return (p2.Y - p1.Y) / (p2.X - p1.X)
}

// PolarToCartesian converts (rho, phi) to (x, y).
func PolarToCartesian(rho, phi float64) (float64, float64) {
	return rho * math.Cos(phi), rho * math.Sin(phi)
}

// CartesianToPolar converts (x, y) to (rho, phi).
func CartesianToPolar(x, y float64) (float64, float64) {
	return math.Hypot(x, y), math.Atan2(y, x)
}

// EllipsePoints returns n points on the perimeter of an ellipse.
func EllipsePoints(center gg.Point, radiusX, radiusY float64, n int) []gg.Point {
	points := make([]gg.Point, n)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(n)
		points[i] = gg.Pt(center.X+radiusX*math.Cos(a), center.Y+radiusY*math.Sin(a))
	}
	return points
}

// EllipticalArcPoints returns n points along an elliptical arc from angle a1
// to a2.
func EllipticalArcPoints(center gg.Point, radiusX, radiusY, a1, a2 float64, n int) []gg.Point {
	points := make([]gg.Point, n)
	for i := range points {
		a := a1 + (a2-a1)*float64(i)/float64(n)
		points[i] = gg.Pt(center.X+radiusX*math.Cos(a), center.Y+radiusY*math.Sin(a))
	}
	return points
}

// ClosestPointOnLine returns the point on segment [a, b] closest to p.
func ClosestPointOnLine(p, a, b gg.Point) gg.Point {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		return a
	}
	if t > 1 {
		return b
	}
	return a.Add(ab.Mul(t))
}

// ClosestPointOnCircle returns the point on the circle closest to p.
// For p at the exact center the point directly right of center is returned.
func ClosestPointOnCircle(p, center gg.Point, radius float64) gg.Point {
	d := p.Sub(center)
	n := d.Length()
	if n == 0 {
		return gg.Pt(center.X+radius, center.Y)
	}
	return center.Add(d.Mul(radius / n))
}

// TangentPoints returns the two points where lines through p touch the
// circle around c with the given radius. ok is false when p lies inside the
// circle; for p exactly on the circle both points equal p.
func TangentPoints(p, c gg.Point, radius float64) (t1, t2 gg.Point, ok bool) {
	d := Distance(p, c)
	switch {
	case d > radius:
		th := math.Acos(radius / d)
		base := math.Atan2(p.Y-c.Y, p.X-c.X)
		t1 = gg.Pt(c.X+radius*math.Cos(base+th), c.Y+radius*math.Sin(base+th))
		t2 = gg.Pt(c.X+radius*math.Cos(base-th), c.Y+radius*math.Sin(base-th))
		return t1, t2, true
	case d == radius:
		return p, p, true
	default:
		return gg.Point{}, gg.Point{}, false
	}
}
