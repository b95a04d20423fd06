// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stencil implements the thirteen 5-point finite-difference
// update formulas a lattice cell can be assigned, selected from the
// Neumann-neighbour pattern of its four adjacent and four diagonal
// neighbours. The formulas discretise div(eps grad(phi)) = 0 with
// homogeneous Neumann boundaries handled by image reflection.
//
// A cell stores only a Class (it fits in 4 bits); Apply is the single
// dispatcher over the thirteen arithmetic cases, keeping indirect
// calls out of the solver's inner loop.
package stencil

// Class identifies one of the thirteen update formulas.
type Class uint8

const (
	Middle Class = iota
	Side1          // opposite of N doubled (adjacent Neumann: N)
	Side2          // opposite of S doubled (adjacent Neumann: S)
	Side3          // opposite of W doubled (adjacent Neumann: W)
	Side4          // opposite of E doubled (adjacent Neumann: E)
	Corner1        // two opposite-corner Neumanns: N,W Neumann -> S,E remain
	Corner2        // S,E Neumann -> N,W remain
	Corner3        // N,E Neumann -> S,W remain
	Corner4        // S,W Neumann -> N,E remain
	InvCorner1     // single diagonal Neumann: NW (S,E doubled)
	InvCorner2     // NE (S,W doubled)
	InvCorner3     // SW (N,E doubled)
	InvCorner4     // SE (N,W doubled)
)

// neighbour indices into the [4]float64 arrays passed to Apply,
// in the order N, S, W, E.
const (
	idxN = 0
	idxS = 1
	idxW = 2
	idxE = 3
)

// Select chooses a stencil class from the Neumann pattern of a cell's
// four adjacent neighbours (order N,S,W,E) and four diagonal
// neighbours (order NW,NE,SW,SE).
//
// The rule:
//   - no adjacent Neumann, no diagonal Neumann          -> Middle
//   - no adjacent Neumann, exactly one diagonal Neumann -> InvCorner 1..4
//   - exactly one adjacent Neumann                      -> Side 1..4
//   - two opposite-corner adjacent Neumanns              -> Corner 1..4
//   - anything else                                      -> Middle (fallback)
func Select(adjacent [4]bool, diagonal [4]bool) Class {
	nAdj := count(adjacent)

	if nAdj == 0 {
		nDiag := count(diagonal)
		if nDiag == 1 {
			switch {
			case diagonal[0]: // NW
				return InvCorner1
			case diagonal[1]: // NE
				return InvCorner2
			case diagonal[2]: // SW
				return InvCorner3
			default: // SE
				return InvCorner4
			}
		}
		return Middle
	}

	if nAdj == 1 {
		switch {
		case adjacent[idxN]:
			return Side1
		case adjacent[idxS]:
			return Side2
		case adjacent[idxW]:
			return Side3
		default:
			return Side4
		}
	}

	if nAdj == 2 {
		switch {
		case adjacent[idxN] && adjacent[idxW]:
			return Corner1
		case adjacent[idxS] && adjacent[idxE]:
			return Corner2
		case adjacent[idxN] && adjacent[idxE]:
			return Corner3
		case adjacent[idxS] && adjacent[idxW]:
			return Corner4
		}
	}

	return Middle
}

func count(a [4]bool) int {
	n := 0
	for _, v := range a {
		if v {
			n++
		}
	}
	return n
}

// Apply evaluates the chosen stencil given the four adjacent
// potentials v (order N,S,W,E) and their weights w (same order),
// returning the new value for the cell.
//
// Each inverse-corner case doubles the adjacent pair on the far side
// of the Neumann diagonal: reflecting the missing diagonal across the
// cell lands on its opposite corner, so the two adjacents touching
// that corner absorb the folded-back contribution, each carrying its
// own weight (v*w, not an additive correction).
func Apply(class Class, v, w [4]float64) float64 {
	switch class {
	case Middle:
		return bulk(v, w)
	case Side1:
		return side(v, w, idxN, idxS)
	case Side2:
		return side(v, w, idxS, idxN)
	case Side3:
		return side(v, w, idxW, idxE)
	case Side4:
		return side(v, w, idxE, idxW)
	case Corner1:
		return corner(v, w, idxS, idxE)
	case Corner2:
		return corner(v, w, idxN, idxW)
	case Corner3:
		return corner(v, w, idxS, idxW)
	case Corner4:
		return corner(v, w, idxN, idxE)
	case InvCorner1:
		return invCorner(v, w, idxS, idxE)
	case InvCorner2:
		return invCorner(v, w, idxS, idxW)
	case InvCorner3:
		return invCorner(v, w, idxN, idxE)
	case InvCorner4:
		return invCorner(v, w, idxN, idxW)
	default:
		return bulk(v, w)
	}
}

// bulk is the MIDDLE formula: a weighted average of all four adjacent
// potentials.
func bulk(v, w [4]float64) float64 {
	num := v[0]*w[0] + v[1]*w[1] + v[2]*w[2] + v[3]*w[3]
	den := w[0] + w[1] + w[2] + w[3]
	if den == 0 {
		return 0
	}
	return num / den
}

// side handles the "exactly one adjacent Neumann" case: the missing
// neighbour is at idxMissing, its opposite neighbour idxOpp is
// doubled in both numerator and denominator.
func side(v, w [4]float64, idxMissing, idxOpp int) float64 {
	num, den := 0.0, 0.0
	for k := 0; k < 4; k++ {
		if k == idxMissing {
			continue
		}
		if k == idxOpp {
			num += 2 * v[k] * w[k]
			den += 2 * w[k]
			continue
		}
		num += v[k] * w[k]
		den += w[k]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// corner handles the "two opposite-corner adjacent Neumanns" case:
// only the two remaining neighbours idxA, idxB participate, averaged
// by their own weights.
func corner(v, w [4]float64, idxA, idxB int) float64 {
	den := w[idxA] + w[idxB]
	if den == 0 {
		return 0
	}
	return (v[idxA]*w[idxA] + v[idxB]*w[idxB]) / den
}

// invCorner handles the "single diagonal Neumann" case: the two
// adjacent neighbours opposite that diagonal, idxA and idxB, are each
// doubled in numerator and denominator.
func invCorner(v, w [4]float64, idxA, idxB int) float64 {
	num, den := 0.0, 0.0
	for k := 0; k < 4; k++ {
		if k == idxA || k == idxB {
			num += 2 * v[k] * w[k]
			den += 2 * w[k]
			continue
		}
		num += v[k] * w[k]
		den += w[k]
	}
	if den == 0 {
		return 0
	}
	return num / den
}
