// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project defines the persisted layout of a project file: a
// JSON document the core engine never reads or writes itself, but
// that cmd/fieldcalc loads and converts into a scene.Scene +
// engine.Config pair. Editor-only fields (display grid, view flags,
// per-element names) are carried as inert metadata so a round trip
// through the solver does not strip them.
package project

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/cpmech/fieldcalc/engine"
	"github.com/cpmech/fieldcalc/geom"
	"github.com/cpmech/fieldcalc/scene"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ElementData is one entry of the "elements" array: a polygon plus
// its role tag and, for dielectrics, a relative permittivity.
type ElementData struct {
	Name     string       `json:"name"`     // label shown by the editor; inert to the core
	Type     string       `json:"type"`     // one of "Dielectric", "GND", "Trace+", "Trace-"
	Er       float64      `json:"e_r"`      // relative permittivity; only meaningful for "Dielectric"
	Vertices []VertexData `json:"vertices"` // ordered polygon vertices, world coordinates (metres)
}

// VertexData is one polygon vertex.
type VertexData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// File is the top-level persisted document.
type File struct {
	XLeft   float64 `json:"xleft"`   // world-space bounding rectangle, metres
	XRight  float64 `json:"xright"`
	YTop    float64 `json:"ytop"`
	YBottom float64 `json:"ybottom"`

	ViewGrid      float64 `json:"viewGrid"`      // editor display grid pitch; inert to the core
	ShowPotential bool    `json:"showPotential"` // inert to the core
	ShowGrid      bool    `json:"showGrid"`      // inert to the core
	SnapToGrid    bool    `json:"snapToGrid"`    // inert to the core
	ViewMode      string  `json:"viewMode"`      // editor view mode label; inert to the core

	SimulationGrid float64 `json:"simulationGrid"` // solver grid pitch h, metres
	GaussDistance  float64 `json:"gaussDistance"`  // Gauss contour offset distance d, metres
	Tolerance      float64 `json:"tolerance"`      // convergence threshold, volts
	Threads        int     `json:"threads"`        // worker thread count
	BorderIsGND    bool    `json:"borderIsGND"`    // grounded-borders flag

	Elements []ElementData `json:"elements"`
}

// Load reads and decodes a project file from path.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("project: cannot read %q: %v", path, err)
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, chk.Err("project: cannot unmarshal %q: %v", path, err)
	}
	return &f, nil
}

// tagFromType maps the file format's string tag
// ("Dielectric", "GND", "Trace+", "Trace-") to a scene.Tag.
func tagFromType(s string) (scene.Tag, error) {
	switch s {
	case "Dielectric":
		return scene.Dielectric, nil
	case "GND":
		return scene.Ground, nil
	case "Trace+":
		return scene.PositiveTrace, nil
	case "Trace-":
		return scene.NegativeTrace, nil
	default:
		return 0, chk.Err("project: unknown element type %q", s)
	}
}

// Scene converts f's "elements" array into a scene.Scene, the form
// the core engine actually consumes.
func (f *File) Scene() (scene.Scene, error) {
	sc := make(scene.Scene, 0, len(f.Elements))
	for _, ed := range f.Elements {
		tag, err := tagFromType(ed.Type)
		if err != nil {
			return nil, err
		}
		poly := make(geom.Polygon, len(ed.Vertices))
		for i, v := range ed.Vertices {
			poly[i] = geom.Point{X: v.X, Y: v.Y}
		}
		sc = append(sc, scene.Element{Name: ed.Name, Polygon: poly, Tag: tag, Er: ed.Er})
	}
	return sc, nil
}

// EngineConfig converts the solver-relevant fields of f into an
// engine.Config. ignoreDielectric is not part of the persisted
// layout; the caller supplies it (e.g. a CLI flag).
func (f *File) EngineConfig(ignoreDielectric bool) engine.Config {
	return engine.Config{
		Bounds: geom.Rect{
			TopLeft:     geom.Point{X: f.XLeft, Y: f.YTop},
			BottomRight: geom.Point{X: f.XRight, Y: f.YBottom},
		},
		Grid:             f.SimulationGrid,
		Threads:          f.Threads,
		Threshold:        f.Tolerance,
		GroundedBorders:  f.BorderIsGND,
		IgnoreDielectric: ignoreDielectric,
	}
}

// Save encodes f as indented JSON and writes it to path.
func Save(path string, f *File) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return chk.Err("project: cannot marshal: %v", err)
	}
	var buf bytes.Buffer
	buf.Write(b)
	io.WriteFile(path, &buf)
	return nil
}
