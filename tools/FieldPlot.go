// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore
// +build ignore

// FieldPlot is an optional post-processing tool: it loads a project
// file, solves it to completion, then plots the scene outline and a
// horizontal scan-line of the solved potential via
// github.com/cpmech/gosl/plt.
package main

import (
	"flag"
	"time"

	"github.com/cpmech/fieldcalc/engine"
	"github.com/cpmech/fieldcalc/geom"
	"github.com/cpmech/fieldcalc/project"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

func main() {
	flag.Parse()
	if len(flag.Args()) < 1 {
		chk.Panic("please provide a project filename")
	}
	fnamepath := flag.Arg(0)

	f, err := project.Load(fnamepath)
	if err != nil {
		chk.Panic("%v", err)
	}
	sc, err := f.Scene()
	if err != nil {
		chk.Panic("%v", err)
	}

	cfg := f.EngineConfig(false)
	eng := engine.New(cfg, engine.NopListener{})
	started, err := eng.Start(sc)
	if err != nil || !started {
		chk.Panic("cannot start solve: %v", err)
	}
	for eng.State() == engine.Running {
		time.Sleep(10 * time.Millisecond)
	}
	if eng.State() != engine.Done {
		chk.Panic("solve did not converge")
	}

	plt.Reset()
	plt.SetForPng(0.75, 500, 150)

	for _, el := range sc {
		xs := make([]float64, len(el.Polygon)+1)
		ys := make([]float64, len(el.Polygon)+1)
		for i, v := range el.Polygon {
			xs[i], ys[i] = v.X, v.Y
		}
		xs[len(el.Polygon)] = el.Polygon[0].X
		ys[len(el.Polygon)] = el.Polygon[0].Y
		plt.Plot(xs, ys, io.Sf("'k-', label='%s'", el.Name))
	}

	midY := (f.YTop + f.YBottom) / 2
	n := 200
	xs := make([]float64, n)
	vs := make([]float64, n)
	for i := 0; i < n; i++ {
		x := f.XLeft + (f.XRight-f.XLeft)*float64(i)/float64(n-1)
		xs[i] = x
		vs[i] = eng.Potential(geom.Point{X: x, Y: midY})
	}
	plt.Plot(xs, vs, "'r-', label='V(x) at mid-height'")

	plt.Gll("x [m]", "potential [V] / y [m]", "")
	plt.SaveD("/tmp", "fieldplot.png")
	io.Pf("> field plot written to /tmp/fieldplot.png\n")
}
