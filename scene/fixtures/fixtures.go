// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fixtures supplies built-in scenario scenes (microstrip,
// differential stripline, all-vacuum trace) with their bounding
// rectangles, for tests and for drivers that want a ready-made
// cross-section instead of authoring a project file.
package fixtures

import (
	"github.com/cpmech/fieldcalc/geom"
	"github.com/cpmech/fieldcalc/scene"
)

func rect(x0, y0, x1, y1 float64) geom.Polygon {
	return geom.Polygon{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Microstrip returns a classic 50-Ohm microstrip cross-section: a
// ground plane, an FR4-like dielectric slab (er=4.3, 0.2 mm thick),
// and a single 0.5 mm wide, 35 um thick positive trace on top of it.
// Dimensions are in metres.
func Microstrip() (scene.Scene, geom.Rect) {
	bounds := geom.Rect{TopLeft: geom.Point{-3e-3, 3e-3}, BottomRight: geom.Point{3e-3, -1e-3}}
	s := scene.Scene{
		{Name: "gnd", Polygon: rect(-3e-3, -1e-3, 3e-3, 0), Tag: scene.Ground},
		{Name: "fr4", Polygon: rect(-3e-3, 0, 3e-3, 0.2e-3), Tag: scene.Dielectric, Er: 4.3},
		{Name: "trace", Polygon: rect(-0.25e-3, 0.2e-3, 0.25e-3, 0.235e-3), Tag: scene.PositiveTrace},
	}
	return s, bounds
}

// DifferentialStripline returns a symmetric positive/negative trace
// pair centred between two ground planes in a homogeneous dielectric.
func DifferentialStripline() (scene.Scene, geom.Rect) {
	bounds := geom.Rect{TopLeft: geom.Point{-5e-3, 2e-3}, BottomRight: geom.Point{5e-3, -2e-3}}
	s := scene.Scene{
		{Name: "gnd-top", Polygon: rect(-5e-3, 1.8e-3, 5e-3, 2e-3), Tag: scene.Ground},
		{Name: "gnd-bot", Polygon: rect(-5e-3, -2e-3, 5e-3, -1.8e-3), Tag: scene.Ground},
		{Name: "fill", Polygon: rect(-5e-3, -1.8e-3, 5e-3, 1.8e-3), Tag: scene.Dielectric, Er: 4.0},
		{Name: "trace+", Polygon: rect(-0.6e-3, -0.1e-3, -0.1e-3, 0.1e-3), Tag: scene.PositiveTrace},
		{Name: "trace-", Polygon: rect(0.1e-3, -0.1e-3, 0.6e-3, 0.1e-3), Tag: scene.NegativeTrace},
	}
	return s, bounds
}

// VacuumTrace returns a single positive trace over a ground plane
// with no dielectric present, useful as a TEM sanity check
// (L*C*c^2 == 1 in vacuum).
func VacuumTrace() (scene.Scene, geom.Rect) {
	bounds := geom.Rect{TopLeft: geom.Point{-3e-3, 3e-3}, BottomRight: geom.Point{3e-3, -1e-3}}
	s := scene.Scene{
		{Name: "gnd", Polygon: rect(-3e-3, -1e-3, 3e-3, 0), Tag: scene.Ground},
		{Name: "trace", Polygon: rect(-0.25e-3, 0.5e-3, 0.25e-3, 0.535e-3), Tag: scene.PositiveTrace},
	}
	return s, bounds
}
