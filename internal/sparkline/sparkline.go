// Package sparkline turns an ordered numeric series into a compact, smooth
// vector path sized for an inline chart. Anchor points are snapped to whole
// pixels before the curve is fitted, so small renderings stay crisp.
package sparkline

import (
	"math"
	"strconv"
	"strings"
)

// Default canvas size for an inline trend.
const (
	DefaultWidth  = 90
	DefaultHeight = 14
)

// tension divides neighbour spans when deriving Bézier control points from
// Catmull-Rom tangents.
const tension = 6

// Point is a 2D coordinate in pixel space, origin at the top left.
type Point struct {
	X, Y float64
}

// Op is a path drawing command.
type Op byte

const (
	MoveTo  Op = 'M'
	LineTo  Op = 'L'
	CurveTo Op = 'C'
)

// Segment is a single drawing command. MoveTo and LineTo carry one point;
// CurveTo carries the two control points followed by the end point.
type Segment struct {
	Op  Op
	Pts []Point
}

// Path is an ordered list of drawing commands. The zero value is an empty
// path that draws nothing.
type Path []Segment

// Render converts data into a path confined to a 1px inset of a w x h canvas.
// An empty series yields an empty path. One or two samples yield a straight
// move+line; three or more yield cubic segments through every sample.
func Render(data []float64, w, h float64) Path {
	if len(data) == 0 {
		return nil
	}
	pts := Snap(Normalize(data), w, h)

	if len(pts) <= 2 {
		return Path{
			{Op: MoveTo, Pts: []Point{pts[0]}},
			{Op: LineTo, Pts: []Point{pts[len(pts)-1]}},
		}
	}

	box := insetBox(w, h)
	last := len(pts) - 1
	path := make(Path, 0, len(pts))
	path = append(path, Segment{Op: MoveTo, Pts: []Point{pts[0]}})
	for i := 0; i < last; i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, last)]

		c1 := Point{
			X: p1.X + (p2.X-p0.X)/tension,
			Y: p1.Y + (p2.Y-p0.Y)/tension,
		}
		c2 := Point{
			X: p2.X - (p3.X-p1.X)/tension,
			Y: p2.Y - (p3.Y-p1.Y)/tension,
		}
		path = append(path, Segment{
			Op:  CurveTo,
			Pts: []Point{box.clamp(c1), box.clamp(c2), p2},
		})
	}
	return path
}

// RenderDefault renders data at DefaultWidth x DefaultHeight.
func RenderDefault(data []float64) Path {
	return Render(data, DefaultWidth, DefaultHeight)
}

// Normalize rescales data into [0, 1] against its own min and max.
// A flat series maps every sample to 0.5.
func Normalize(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	lo, hi := data[0], data[0]
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	spread := hi - lo
	norm := make([]float64, len(data))
	for i, v := range data {
		if spread == 0 {
			norm[i] = 0.5
			continue
		}
		norm[i] = (v - lo) / spread
	}
	return norm
}

// Snap maps normalized samples to whole-pixel points with a 1px inset.
// Samples are spaced uniformly across the width; a lone sample is centered.
// Higher values map to smaller rows.
func Snap(norm []float64, w, h float64) []Point {
	n := len(norm)
	pts := make([]Point, n)
	for i, y := range norm {
		x := 0.5
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		pts[i] = Point{
			X: roundHalfUp(x*(w-2)) + 1,
			Y: roundHalfUp((1-y)*(h-2)) + 1,
		}
	}
	return pts
}

// roundHalfUp rounds .5 toward positive infinity for every sign.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

type box struct {
	minX, maxX, minY, maxY float64
}

func insetBox(w, h float64) box {
	return box{minX: 1, maxX: w - 1, minY: 1, maxY: h - 1}
}

// clamp pulls p into the box. A collapsed axis (canvas under 2px) is left alone.
func (b box) clamp(p Point) Point {
	if b.maxX >= b.minX {
		p.X = math.Min(math.Max(p.X, b.minX), b.maxX)
	}
	if b.maxY >= b.minY {
		p.Y = math.Min(math.Max(p.Y, b.minY), b.maxY)
	}
	return p
}

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool {
	return len(p) == 0
}

// Points returns the anchor points of the path in drawing order, excluding
// control points.
func (p Path) Points() []Point {
	pts := make([]Point, 0, len(p))
	for _, seg := range p {
		if len(seg.Pts) == 0 {
			continue
		}
		pts = append(pts, seg.Pts[len(seg.Pts)-1])
	}
	return pts
}

// Flatten approximates the path with a polyline. Each cubic segment is
// sampled steps times; straight segments contribute their end point.
func (p Path) Flatten(steps int) []Point {
	if steps < 1 {
		steps = 1
	}
	var out []Point
	var cur Point
	for _, seg := range p {
		switch seg.Op {
		case MoveTo, LineTo:
			cur = seg.Pts[0]
			out = append(out, cur)
		case CurveTo:
			c1, c2, end := seg.Pts[0], seg.Pts[1], seg.Pts[2]
			for k := 1; k <= steps; k++ {
				out = append(out, cubicAt(cur, c1, c2, end, float64(k)/float64(steps)))
			}
			cur = end
		}
	}
	return out
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// String encodes the path as an SVG path data attribute, e.g.
// "M1,13 C4.67,12.5 15.67,11 23,10". An empty path encodes as "".
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte(seg.Op))
		for j, pt := range seg.Pts {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatCoord(pt.X))
			sb.WriteByte(',')
			sb.WriteString(formatCoord(pt.Y))
		}
	}
	return sb.String()
}

// formatCoord prints integers bare and anything else with at most two
// decimals.
func formatCoord(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
