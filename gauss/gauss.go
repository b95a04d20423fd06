// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gauss implements the Gauss-law line integral that extracts
// the charge enclosed by a conductor from a solved potential field:
// an offset integration contour is built around the conductor's
// polygon, the solver's gradient is sampled along it, and the outward
// flux is accumulated. From two such integrals (with and without
// dielectric weighting) the caller derives per-unit-length
// capacitance, inductance and characteristic impedance.
package gauss

import (
	"math"

	"github.com/cpmech/fieldcalc/geom"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
)

// Field is the capability the integrator samples: a solved potential
// field exposing its gradient (in volts per cell) at a world point.
// Both *lattice.Lattice and *engine.Engine satisfy it.
type Field interface {
	Gradient(p geom.Point) geom.Point
}

// PermittivityField optionally weights each sample by the local
// relative permittivity; scene.Scene satisfies it.
type PermittivityField interface {
	PermittivityAt(p geom.Point) float64
}

// Integrate builds the offset contour around conductor, samples
// field's gradient at the midpoint of each sub-edge, and returns the
// accumulated flux (proportional to enclosed charge; multiply by ε0
// for capacitance). If weights is non-nil, each sample is scaled by
// weights.PermittivityAt(sample); pass nil to compute the air-only
// (vacuum) integral.
func Integrate(field Field, weights PermittivityField, conductor geom.Polygon, h, offset float64) (float64, error) {
	if h <= 0 {
		return 0, chk.Err("gauss: grid pitch must be positive, got %g", h)
	}
	if len(conductor) < 3 {
		return 0, chk.Err("gauss: conductor polygon needs >= 3 vertices, got %d", len(conductor))
	}
	contour := conductor.Offset(offset)
	n := len(contour)

	total := 0.0
	for i := 0; i < n; i++ {
		pPrev := contour[i]
		pCur := contour[(i+1)%n]
		edge := pCur.Sub(pPrev)
		length := edge.Len()
		if length == 0 {
			continue
		}
		u := edge.Unit()

		nSamples := int(math.Ceil(length / h))
		if nSamples < 1 {
			nSamples = 1
		}
		step := length / float64(nSamples)

		for j := 0; j < nSamples; j++ {
			t := (float64(j) + 0.5) * step
			sample := pPrev.Add(u.Scale(t))
			g := field.Gradient(sample)
			if weights != nil {
				er := weights.PermittivityAt(sample)
				g = g.Scale(er)
			}
			// normal component of the sampled gradient. The lattice
			// gradient's Y follows the grid's j axis, which points
			// down in world space, hence the + on the second term.
			flux := g.X*u.Y + g.Y*u.X
			total += flux * (step / h)
		}
	}

	// negate the total for a counter-clockwise contour so a positive
	// charge yields positive flux regardless of input winding.
	// fun.Sign(-SignedArea) is +1 for a clockwise contour (negative
	// signed area) and -1 for counter-clockwise.
	sign := fun.Sign(-contour.SignedArea())
	if sign == 0 {
		sign = 1
	}
	return total * sign, nil
}

// Magnitudes returns the gradient magnitude sampled at each of the
// contour's vertices, as a diagnostic: a caller can compare the
// magnitude profile around the contour to spot a badly placed offset
// (too close to the conductor, or crossing into a neighbour).
func Magnitudes(field Field, conductor geom.Polygon, offset float64) []float64 {
	contour := conductor.Offset(offset)
	mags := make([]float64, len(contour))
	for i, p := range contour {
		g := field.Gradient(p)
		mags[i] = la.VecNorm([]float64{g.X, g.Y})
	}
	return mags
}

// Epsilon0 is the vacuum permittivity in farads per metre.
const Epsilon0 = 8.8541878128e-12

// SpeedOfLight is c in metres per second.
const SpeedOfLight = 299792458.0

// DeriveParameters turns the two Gauss integrals (computed with
// dielectric weighting and with it ignored) into per-unit-length
// capacitance, inductance and characteristic impedance:
// C = eps0*|qDielectric|, Cair = eps0*|qAir|, L = 1/(c^2 * Cair),
// Z = sqrt(L/C). The magnitudes make a negative-trace charge (held at
// -1 V) yield the same positive self-capacitance as its mirror image.
func DeriveParameters(qAir, qDielectric float64) (c, l, z float64) {
	cAir := Epsilon0 * math.Abs(qAir)
	c = Epsilon0 * math.Abs(qDielectric)
	if cAir == 0 {
		return c, math.Inf(1), math.Inf(1)
	}
	l = 1.0 / (SpeedOfLight * SpeedOfLight * cAir)
	if c == 0 {
		return c, l, math.Inf(1)
	}
	z = math.Sqrt(l / c)
	return c, l, z
}

// Differential returns the differential impedance Zdiff = Z+ + Z-.
func Differential(zPos, zNeg float64) float64 { return zPos + zNeg }
