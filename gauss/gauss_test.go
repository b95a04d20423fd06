// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gauss

import (
	"math"
	"testing"

	"github.com/cpmech/fieldcalc/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// radialField is a synthetic Field whose potential falls off radially
// from the origin with constant gradient magnitude g0, mimicking the
// field around a long, thin positive conductor for a closed-form flux
// check. Like the lattice gradient, its Y component follows the grid's
// j axis (pointing down in world space), so the world-space gradient
// points inward and the returned Y is its negation.
type radialField struct{ g0 float64 }

func (f radialField) Gradient(p geom.Point) geom.Point {
	r := p.Len()
	if r == 0 {
		return geom.Point{}
	}
	u := p.Unit()
	return geom.Point{X: -u.X * f.g0, Y: u.Y * f.g0}
}

func square(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func TestIntegrateRadialFieldPositiveFlux(t *testing.T) {
	field := radialField{g0: 1.0}
	conductor := square(-1, -1, 1, 1)
	q, err := Integrate(field, nil, conductor, 0.01, 0.5)
	require.NoError(t, err)
	assert.Greater(t, q, 0.0)
}

func TestIntegrateSignIndependentOfWinding(t *testing.T) {
	field := radialField{g0: 1.0}
	cw := square(-1, -1, 1, 1)
	ccw := geom.Polygon{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}

	qCW, err := Integrate(field, nil, cw, 0.01, 0.5)
	require.NoError(t, err)
	qCCW, err := Integrate(field, nil, ccw, 0.01, 0.5)
	require.NoError(t, err)

	assert.InDelta(t, qCW, qCCW, 1e-6*math.Abs(qCW)+1e-9)
}

func TestIntegrateRejectsBadInputs(t *testing.T) {
	field := radialField{g0: 1.0}
	_, err := Integrate(field, nil, square(0, 0, 1, 1), 0, 0.1)
	assert.Error(t, err)

	_, err = Integrate(field, nil, geom.Polygon{{0, 0}, {1, 1}}, 0.1, 0.1)
	assert.Error(t, err)
}

func TestDeriveParametersVacuumIdentity(t *testing.T) {
	// with no dielectric (qAir == qDielectric), L*C*c^2 should be ~1
	// (TEM vacuum identity)
	c, l, z := DeriveParameters(10.0, 10.0)
	assert.InDelta(t, 1.0, l*c*SpeedOfLight*SpeedOfLight, 1e-9)
	assert.Greater(t, z, 0.0)
}

func TestDifferentialImpedanceSums(t *testing.T) {
	assert.InDelta(t, 100.0, Differential(45.0, 55.0), 1e-12)
}
