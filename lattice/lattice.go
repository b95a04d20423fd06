// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lattice builds and stores the weighted finite-difference
// grid the solver relaxes. A Lattice owns a dense (W+3)x(H+3) array
// of Cells: a one-cell-thick Neumann ring on every side lets interior
// cells look up their neighbours without bounds checks. Neighbour
// offsets are derived from (i, j) and the row stride rather than
// stored per cell, so a Cell carries only its state, condition and
// stencil class.
package lattice

import (
	"math"
	"sync/atomic"

	"github.com/cpmech/fieldcalc/geom"
	"github.com/cpmech/fieldcalc/stencil"
	"github.com/cpmech/gosl/chk"
)

// Condition mirrors scene.Condition so that package lattice does not
// need to import scene directly; BoundaryWeight implementations
// translate between the two.
type Condition int

const (
	Unset Condition = iota
	None
	Neumann
	Dirichlet
)

// BoundaryWeight is the capability a lattice is built from: an
// explicit interface implemented by a scene wrapper, queried once per
// cell during construction.
type BoundaryWeight interface {
	// BoundaryAt returns the boundary condition and, for Dirichlet,
	// the fixed potential at world position p.
	BoundaryAt(p geom.Point) (Condition, float64)
	// WeightAt returns the relative permittivity at p.
	WeightAt(p geom.Point) float64
}

// Cell is one lattice site.
type Cell struct {
	I, J    int
	X, Y    float64
	V       float64
	W       float64
	Cond    Condition
	Stencil stencil.Class
}

// Lattice is a fixed-size dense grid of Cells. W and H are the
// resolved interior dimensions; the backing array is (W+3)x(H+3).
//
// Cell (i, j) is stored at flat index i*(H+3)+j for i, j in
// [0, W+2]x[0, H+2]; the world interior starts at stored index 1 and
// the outermost index on each side is the Neumann ring. The extra
// column and row beyond the nominal interior keep the index-offset
// arithmetic (world position from i-1) consistent with the stencil
// neighbour lookups.
type Lattice struct {
	W, H   int
	Pitch  float64
	Bounds geom.Rect
	Cells  []Cell

	abort int32
}

// RequestAbort asks every worker to exit at its next sweep boundary.
func (lat *Lattice) RequestAbort() { atomic.StoreInt32(&lat.abort, 1) }

// AbortRequested reports whether RequestAbort has been called.
func (lat *Lattice) AbortRequested() bool { return atomic.LoadInt32(&lat.abort) == 1 }

func (lat *Lattice) rowStride() int { return lat.H + 3 }

// At returns the cell at stored index (i, j), i, j in [0, W+2]x[0, H+2].
func (lat *Lattice) At(i, j int) *Cell {
	return &lat.Cells[i*lat.rowStride()+j]
}

// New constructs a lattice over bounds with grid pitch h, querying bw
// for each interior cell's boundary condition and weight. Cell
// weights are sqrt(er), or 1 everywhere when ignoreDielectric is set.
func New(bounds geom.Rect, h float64, bw BoundaryWeight, ignoreDielectric bool) (*Lattice, error) {
	if h <= 0 {
		return nil, chk.Err("grid pitch must be positive, got %g", h)
	}
	width := bounds.Width()
	height := bounds.Height()
	w := int(math.Floor(width / h))
	hh := int(math.Floor(height / h))
	if w == 0 || hh == 0 {
		return nil, chk.Err("lattice creation failed: degenerate interior (W=%d, H=%d)", w, hh)
	}

	lat := &Lattice{W: w, H: hh, Pitch: h, Bounds: bounds}
	stride := hh + 3
	lat.Cells = make([]Cell, (w+3)*stride)

	for i := 0; i < w+3; i++ {
		for j := 0; j < stride; j++ {
			c := lat.At(i, j)
			c.I, c.J = i, j
			// world position from index-offset i-1 so the interior
			// begins at stored index 1
			c.X = bounds.TopLeft.X + float64(i-1)*h
			c.Y = bounds.TopLeft.Y - float64(j-1)*h

			onOuterRing := i == 0 || i == w+2 || j == 0 || j == stride-1
			if onOuterRing {
				c.Cond = Neumann
				continue
			}

			cond, v := bw.BoundaryAt(geom.Point{X: c.X, Y: c.Y})
			if cond == Dirichlet {
				c.Cond = Dirichlet
				c.V = v
			} else {
				c.Cond = None
				c.V = 0
			}
		}
	}

	for i := 0; i < w+3; i++ {
		for j := 0; j < stride; j++ {
			c := lat.At(i, j)
			if ignoreDielectric {
				c.W = 1
			} else {
				c.W = math.Sqrt(bw.WeightAt(geom.Point{X: c.X, Y: c.Y}))
			}
		}
	}

	for i := 1; i < w+2; i++ {
		for j := 1; j < stride-1; j++ {
			c := lat.At(i, j)
			if c.Cond == Dirichlet || c.Cond == Neumann {
				continue
			}
			c.Stencil = stencil.Select(lat.neumannPattern(i, j))
		}
	}

	return lat, nil
}

// neumannPattern reports, for cell (i,j), which of its four adjacent
// (order N,S,W,E) and four diagonal (order NW,NE,SW,SE) neighbours
// are Neumann.
func (lat *Lattice) neumannPattern(i, j int) (adjacent, diagonal [4]bool) {
	adjacent[0] = lat.At(i, j+1).Cond == Neumann   // N (+y)
	adjacent[1] = lat.At(i, j-1).Cond == Neumann   // S (-y)
	adjacent[2] = lat.At(i-1, j).Cond == Neumann   // W (-x)
	adjacent[3] = lat.At(i+1, j).Cond == Neumann   // E (+x)
	diagonal[0] = lat.At(i-1, j+1).Cond == Neumann // NW
	diagonal[1] = lat.At(i+1, j+1).Cond == Neumann // NE
	diagonal[2] = lat.At(i-1, j-1).Cond == Neumann // SW
	diagonal[3] = lat.At(i+1, j-1).Cond == Neumann // SE
	return
}

// Potential returns the potential at world point p using a
// nearest-cell lookup (round()). Returns NaN when p falls outside the
// lattice's interior.
func (lat *Lattice) Potential(p geom.Point) float64 {
	i, j, ok := lat.nearestIndex(p)
	if !ok {
		return math.NaN()
	}
	return lat.At(i, j).V
}

// Gradient returns the forward-difference gradient at p in volts per
// cell (callers needing volts per metre scale by 1/h). The Y
// component follows the grid's j axis, which points down in world
// space. Returns the zero vector outside the lattice.
func (lat *Lattice) Gradient(p geom.Point) geom.Point {
	i, j, ok := lat.floorIndex(p)
	if !ok {
		return geom.Point{}
	}
	v00 := lat.At(i, j).V
	v10 := lat.At(i+1, j).V
	v01 := lat.At(i, j+1).V
	return geom.Point{X: v10 - v00, Y: v01 - v00}
}

func (lat *Lattice) worldToGrid(p geom.Point) (x, y float64) {
	x = (p.X-lat.Bounds.TopLeft.X)/lat.Pitch + 1
	y = (lat.Bounds.TopLeft.Y-p.Y)/lat.Pitch + 1
	return
}

func (lat *Lattice) nearestIndex(p geom.Point) (i, j int, ok bool) {
	x, y := lat.worldToGrid(p)
	i = int(math.Round(x))
	j = int(math.Round(y))
	if i < 1 || i > lat.W+1 || j < 1 || j > lat.H+1 {
		return 0, 0, false
	}
	return i, j, true
}

func (lat *Lattice) floorIndex(p geom.Point) (i, j int, ok bool) {
	x, y := lat.worldToGrid(p)
	i = int(math.Floor(x))
	j = int(math.Floor(y))
	if i < 1 || i >= lat.W+1 || j < 1 || j >= lat.H+1 {
		return 0, 0, false
	}
	return i, j, true
}
