// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements the 2-D polygon primitives used to describe
// conductors and dielectrics: point-in-polygon, outward offset,
// self-intersection, segment distance and winding.
package geom

import (
	"math"

	"github.com/cpmech/gosl/utl"
)

// Point is a 2-D point in world coordinates (metres).
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y) }

// Unit returns p normalized to unit length; the zero vector if p is zero.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Polygon is an ordered sequence of vertices; the edge from the last
// vertex back to the first is implied, there is no repeated closing
// vertex.
type Polygon []Point

// Rect is a world-space bounding rectangle, top-left and bottom-right.
type Rect struct {
	TopLeft, BottomRight Point
}

// Width returns the rectangle's horizontal extent.
func (r Rect) Width() float64 { return r.BottomRight.X - r.TopLeft.X }

// Height returns the rectangle's vertical extent.
func (r Rect) Height() float64 { return r.TopLeft.Y - r.BottomRight.Y }

// Contains reports whether p lies within r (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.TopLeft.X && p.X <= r.BottomRight.X &&
		p.Y <= r.TopLeft.Y && p.Y >= r.BottomRight.Y
}

// Bounds returns the axis-aligned bounding rectangle of the polygon's
// vertices. Returns the zero Rect for an empty polygon.
func (poly Polygon) Bounds() Rect {
	if len(poly) == 0 {
		return Rect{}
	}
	minX, maxX := poly[0].X, poly[0].X
	minY, maxY := poly[0].Y, poly[0].Y
	for _, v := range poly[1:] {
		minX = utl.Min(minX, v.X)
		maxX = utl.Max(maxX, v.X)
		minY = utl.Min(minY, v.Y)
		maxY = utl.Max(maxY, v.Y)
	}
	return Rect{TopLeft: Point{minX, maxY}, BottomRight: Point{maxX, minY}}
}

// Contains implements the odd-even point-in-polygon rule with the
// last-to-first edge included. Points that fall exactly on an edge
// resolve through the half-open crossing convention below; any
// consistent tie-break is sufficient for boundary-condition
// assignment.
func (poly Polygon) Contains(p Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := poly[i], poly[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SignedArea returns the signed area of the polygon (positive
// for counter-clockwise winding in a standard y-up frame, negative for
// clockwise).
func (poly Polygon) SignedArea() float64 {
	n := len(poly)
	if n < 3 {
		return 0
	}
	sum := 0.0
	j := n - 1
	for i := 0; i < n; i++ {
		sum += (poly[j].X + poly[i].X) * (poly[i].Y - poly[j].Y)
		j = i
	}
	return sum / 2
}

// Area returns the unsigned area enclosed by the polygon.
func (poly Polygon) Area() float64 { return math.Abs(poly.SignedArea()) }

// IsClockwise reports whether the polygon winds clockwise in a
// standard y-up frame.
func (poly Polygon) IsClockwise() bool { return poly.SignedArea() < 0 }

// DistanceToSegment returns the Euclidean distance from p to the
// segment a-b.
func DistanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	proj := a.Add(ab.Scale(t))
	return p.Sub(proj).Len()
}

// SelfIntersects reports whether any two non-adjacent edges of the
// polygon cross. O(n^2) segment-pair test, used as a pre-calculation
// validation gate.
func (poly Polygon) SelfIntersects() bool {
	n := len(poly)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := poly[i], poly[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1, b2 := poly[j], poly[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := cross(p4.Sub(p3), p1.Sub(p3))
	d2 := cross(p4.Sub(p3), p2.Sub(p3))
	d3 := cross(p2.Sub(p1), p3.Sub(p1))
	d4 := cross(p2.Sub(p1), p4.Sub(p1))
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func cross(a, b Point) float64 { return a.X*b.Y - a.Y*b.X }

func onSegment(a, b, p Point) bool {
	return utl.Min(a.X, b.X) <= p.X && p.X <= utl.Max(a.X, b.X) &&
		utl.Min(a.Y, b.Y) <= p.Y && p.Y <= utl.Max(a.Y, b.Y)
}

// Overlaps reports whether two polygons share any area or crossing
// edge, a coarse check used by scene validation (Ground/Trace and
// Trace/Trace overlap detection). It combines an edge-crossing test
// with a containment test so that one polygon fully inside the other
// is also flagged.
func (poly Polygon) Overlaps(other Polygon) bool {
	n, m := len(poly), len(other)
	if n < 3 || m < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := poly[i], poly[(i+1)%n]
		for j := 0; j < m; j++ {
			b1, b2 := other[j], other[(j+1)%m]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	if poly.Contains(other[0]) || other.Contains(poly[0]) {
		return true
	}
	return false
}

// Offset returns a new polygon whose edges are translated outward by
// signed distance d along their outward normal, then reconnected at
// vertices by intersecting consecutive offset lines. Used by the
// Gauss integrator to build an integration contour enclosing exactly
// one conductor without touching it.
func (poly Polygon) Offset(d float64) Polygon {
	n := len(poly)
	if n < 3 || d == 0 {
		return append(Polygon(nil), poly...)
	}
	clockwise := poly.IsClockwise()
	type line struct{ a, n Point } // point on line, outward unit normal
	lines := make([]line, n)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		edge := b.Sub(a)
		u := edge.Unit()
		// interior lies left of the edge for counter-clockwise
		// winding, right of it for clockwise
		var normal Point
		if clockwise {
			normal = Point{-u.Y, u.X}
		} else {
			normal = Point{u.Y, -u.X}
		}
		lines[i] = line{a: a.Add(normal.Scale(d)), n: normal}
	}
	out := make(Polygon, n)
	for i := 0; i < n; i++ {
		prev := lines[(i-1+n)%n]
		cur := lines[i]
		// direction vectors of the two offset lines (perpendicular to normals)
		d1 := Point{-prev.n.Y, prev.n.X}
		d2 := Point{-cur.n.Y, cur.n.X}
		p, ok := intersectLines(prev.a, d1, cur.a, d2)
		if !ok {
			// parallel edges: fall back to the simple offset point
			p = cur.a
		}
		out[i] = p
	}
	return out
}

// intersectLines finds the intersection of line p+t*d and q+s*e.
func intersectLines(p, d, q, e Point) (Point, bool) {
	denom := d.X*e.Y - d.Y*e.X
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	t := ((q.X-p.X)*e.Y - (q.Y-p.Y)*e.X) / denom
	return p.Add(d.Scale(t)), true
}
