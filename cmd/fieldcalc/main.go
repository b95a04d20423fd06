// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fieldcalc loads a project file and runs one
// transmission-line solve to completion, printing the resulting
// capacitance, inductance and characteristic impedance per conductor.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/cpmech/fieldcalc/engine"
	"github.com/cpmech/fieldcalc/gauss"
	"github.com/cpmech/fieldcalc/project"
	"github.com/cpmech/fieldcalc/scene"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// message
	io.PfWhite("\nfieldcalc -- transmission-line field solver\n\n")

	// options
	jsonLog := flag.Bool("json-log", false, "emit structured progress lines instead of colored text")
	ignoreDielectric := flag.Bool("ignore-dielectric", false, "ignore dielectric weighting (vacuum solve)")
	flag.Parse()

	if *jsonLog {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var fnamepath string
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("please provide a project filename. Ex.: microstrip.json")
	}

	if err := run(fnamepath, *ignoreDielectric, *jsonLog); err != nil {
		chk.Panic("run failed: %v", err)
	}
}

// cliListener mirrors the engine's events to the console, either as
// colored text or as structured zerolog lines when --json-log is set.
type cliListener struct {
	engine.NopListener
	json bool
}

func (l cliListener) Info(msg string) {
	if l.json {
		log.Info().Str("event", "info").Msg(msg)
		return
	}
	io.Pforan("> %s\n", msg)
}

func (l cliListener) Warning(msg string) {
	if l.json {
		log.Warn().Str("event", "warning").Msg(msg)
		return
	}
	io.Pfyel("> warning: %s\n", msg)
}

func (l cliListener) Error(msg string) {
	if l.json {
		log.Error().Str("event", "error").Msg(msg)
		return
	}
	io.PfRed("> error: %s\n", msg)
}

func (l cliListener) Percentage(pct float64) {
	if l.json {
		log.Info().Str("event", "percentage").Float64("pct", pct).Msg("progress")
		return
	}
	io.Pfgrey("> %.1f%%\n", pct)
}

func run(fnamepath string, ignoreDielectric, jsonLog bool) error {
	f, err := project.Load(fnamepath)
	if err != nil {
		return err
	}

	sc, err := f.Scene()
	if err != nil {
		return err
	}

	cfg := f.EngineConfig(ignoreDielectric)
	cfg.ShowMsg = !jsonLog

	listener := cliListener{json: jsonLog}
	eng := engine.New(cfg, listener)

	started, err := eng.Start(sc)
	if err != nil {
		return err
	}
	if !started {
		return chk.Err("engine refused to start (already running)")
	}

	for eng.State() == engine.Running {
		time.Sleep(10 * time.Millisecond)
	}
	if eng.State() != engine.Done {
		return chk.Err("solve did not converge (state=%v)", eng.State())
	}

	reportParameters(eng, sc, f)
	return nil
}

// reportParameters integrates the Gauss contour around every
// conductor twice (with and without dielectric weighting) and prints
// C, L, Z per conductor plus Zdiff for the first positive/negative
// pair found.
func reportParameters(eng *engine.Engine, sc scene.Scene, f *project.File) {
	type result struct {
		name    string
		tag     scene.Tag
		c, l, z float64
	}
	var results []result

	for _, el := range sc {
		if !el.Tag.IsConductor() {
			continue
		}
		qAir, err := gauss.Integrate(eng, nil, el.Polygon, f.SimulationGrid, f.GaussDistance)
		if err != nil {
			io.PfRed("> %s: %v\n", el.Name, err)
			continue
		}
		qDielectric, err := gauss.Integrate(eng, sc, el.Polygon, f.SimulationGrid, f.GaussDistance)
		if err != nil {
			io.PfRed("> %s: %v\n", el.Name, err)
			continue
		}
		c, l, z := gauss.DeriveParameters(qAir, qDielectric)
		results = append(results, result{name: el.Name, tag: el.Tag, c: c, l: l, z: z})
		io.Pfgreen("> %-12s %-7s C=%.6g F/m  L=%.6g H/m  Z0=%.4g Ohm\n", el.Name, el.Tag, c, l, z)
	}

	var zPos, zNeg float64
	var havePos, haveNeg bool
	for _, r := range results {
		switch {
		case r.tag == scene.PositiveTrace && !havePos:
			zPos, havePos = r.z, true
		case r.tag == scene.NegativeTrace && !haveNeg:
			zNeg, haveNeg = r.z, true
		}
	}
	if havePos && haveNeg {
		io.Pfcyan("> Zdiff = %.4g Ohm\n", gauss.Differential(zPos, zNeg))
	}
}
