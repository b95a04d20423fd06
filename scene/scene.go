// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene implements the ordered collection of tagged polygons
// (dielectrics and conductors) that the lattice builder and the Gauss
// integrator read from. The scene is owned by the front-end; the
// solver only ever reads it through the BoundaryWeight capability
// (see package lattice).
package scene

import (
	"github.com/cpmech/fieldcalc/geom"
	"github.com/cpmech/gosl/chk"
)

// Tag identifies the role an Element plays in the cross-section.
type Tag int

const (
	// Dielectric marks a bulk dielectric region with a relative
	// permittivity; it never fixes a boundary condition.
	Dielectric Tag = iota
	// PositiveTrace is a conductor held at +1 V.
	PositiveTrace
	// NegativeTrace is a conductor held at -1 V.
	NegativeTrace
	// Ground is a conductor held at 0 V.
	Ground
)

// String returns a human-readable tag name.
func (t Tag) String() string {
	switch t {
	case Dielectric:
		return "Dielectric"
	case PositiveTrace:
		return "Trace+"
	case NegativeTrace:
		return "Trace-"
	case Ground:
		return "GND"
	default:
		return "Unknown"
	}
}

// IsConductor reports whether the tag participates in boundary
// conditions rather than bulk permittivity.
func (t Tag) IsConductor() bool { return t != Dielectric }

// Element is a polygon paired with a role tag and, for dielectrics,
// a relative permittivity.
type Element struct {
	Name    string
	Polygon geom.Polygon
	Tag     Tag
	Er      float64 // relative permittivity; only meaningful for Dielectric
}

// Condition is a lattice boundary condition.
type Condition int

const (
	// Unset means no boundary/weight query has been made yet.
	Unset Condition = iota
	// None means the cell is a free interior cell.
	None
	// Neumann marks a mirror cell (not iterated).
	Neumann
	// Dirichlet fixes the cell's potential.
	Dirichlet
)

// Scene is an ordered sequence of Elements. Dielectric overlap is
// resolved first-wins; conductors always override dielectrics at the
// same point.
type Scene []Element

// PermittivityAt returns the relative permittivity of the first
// Dielectric Element containing p, or 1.0 if none contains it.
// Conductors never contribute: they are boundaries, not bulk media.
func (s Scene) PermittivityAt(p geom.Point) float64 {
	for _, el := range s {
		if el.Tag != Dielectric {
			continue
		}
		if el.Polygon.Contains(p) {
			return el.Er
		}
	}
	return 1.0
}

// BoundaryAt resolves the boundary condition at p for lattice
// construction: if p lies on the outer bounding rectangle and
// groundedBorders is set, it is Dirichlet 0; otherwise Elements are
// scanned in order, skipping Dielectrics, and the first conductor
// containing p wins. Returns (None, 0) when nothing constrains p.
func (s Scene) BoundaryAt(p geom.Point, bounds geom.Rect, groundedBorders bool) (Condition, float64) {
	if groundedBorders && onBorder(p, bounds) {
		return Dirichlet, 0
	}
	for _, el := range s {
		if el.Tag == Dielectric {
			continue
		}
		if !el.Polygon.Contains(p) {
			continue
		}
		switch el.Tag {
		case Ground:
			return Dirichlet, 0
		case PositiveTrace:
			return Dirichlet, 1
		case NegativeTrace:
			return Dirichlet, -1
		}
	}
	return None, 0
}

func onBorder(p geom.Point, bounds geom.Rect) bool {
	const eps = 1e-9
	return p.X <= bounds.TopLeft.X+eps || p.X >= bounds.BottomRight.X-eps ||
		p.Y >= bounds.TopLeft.Y-eps || p.Y <= bounds.BottomRight.Y+eps
}

// ElementAt returns the element at index i. An out-of-range index is
// reported through ok, never through a silent zero value.
func (s Scene) ElementAt(i int) (el Element, ok bool) {
	if i >= 0 && i < len(s) {
		return s[i], true
	}
	return Element{}, false
}

// Warning describes a non-fatal validation finding (dielectric
// overlap, resolved by first-wins policy).
type Warning struct {
	Message string
}

func (w Warning) Error() string { return w.Message }

// Validate runs the pre-calculation checks: self-intersection and
// conductor/conductor overlap are fatal (returned as err);
// Dielectric/Dielectric overlap is reported as warnings only, since
// the first-wins policy already resolves it.
func (s Scene) Validate() (warnings []Warning, err error) {
	for _, el := range s {
		if len(el.Polygon) < 1 {
			return nil, chk.Err("element %q has no vertices", el.Name)
		}
		if len(el.Polygon) >= 3 && el.Polygon.SelfIntersects() {
			return nil, chk.Err("element %q is self-intersecting", el.Name)
		}
	}
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			a, b := s[i], s[j]
			if len(a.Polygon) < 3 || len(b.Polygon) < 3 {
				continue
			}
			if !a.Polygon.Overlaps(b.Polygon) {
				continue
			}
			switch {
			case a.Tag == Dielectric && b.Tag == Dielectric:
				warnings = append(warnings, Warning{
					Message: "dielectric overlap between " + a.Name + " and " + b.Name + "; first-wins policy applies",
				})
			case a.Tag.IsConductor() && b.Tag.IsConductor():
				return warnings, chk.Err("conductor overlap between %q and %q", a.Name, b.Name)
			}
		}
	}
	return warnings, nil
}
