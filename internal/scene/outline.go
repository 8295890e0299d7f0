package scene

import (
	"math"

	"drawboard/internal/geom"
)

const circleSegments = 32

// Outline returns the closed polygon drawn for a shape of the given kind
// inscribed in r. Circles are approximated by a polygon.
func Outline(kind ShapeKind, r geom.Rect) []geom.Point {
	x, y, w, h := r.Min.X, r.Min.Y, r.W(), r.H()
	c := r.Center()
	switch kind {
	case ShapeCircle:
		return ellipse(c, w/2, h/2, circleSegments, 0)
	case ShapeTriangle:
		return []geom.Point{{X: c.X, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	case ShapeDiamond:
		return []geom.Point{{X: c.X, Y: y}, {X: x + w, Y: c.Y}, {X: c.X, Y: y + h}, {X: x, Y: c.Y}}
	case ShapeHexagon:
		return []geom.Point{
			{X: x + w/4, Y: y}, {X: x + 3*w/4, Y: y}, {X: x + w, Y: c.Y},
			{X: x + 3*w/4, Y: y + h}, {X: x + w/4, Y: y + h}, {X: x, Y: c.Y},
		}
	case ShapeStar:
		outer := ellipse(c, w/2, h/2, 5, -math.Pi/2)
		inner := ellipse(c, w/5, h/5, 5, -math.Pi/2+math.Pi/5)
		pts := make([]geom.Point, 0, 10)
		for i := range outer {
			pts = append(pts, outer[i], inner[i])
		}
		return pts
	default:
		return []geom.Point{r.Min, {X: x + w, Y: y}, r.Max, {X: x, Y: y + h}}
	}
}

func ellipse(c geom.Point, rx, ry float64, n int, start float64) []geom.Point {
	pts := make([]geom.Point, n)
	for i := range pts {
		a := start + 2*math.Pi*float64(i)/float64(n)
		pts[i] = geom.Pt(c.X+rx*math.Cos(a), c.Y+ry*math.Sin(a))
	}
	return pts
}
