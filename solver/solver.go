// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver implements the parallel relaxation that solves the
// discrete Laplace equation on a lattice.Lattice: horizontal-stripe
// partitioning, round barriers, convergence detection and cooperative
// abort.
package solver

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cpmech/fieldcalc/lattice"
	"github.com/cpmech/fieldcalc/stencil"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Config holds the relaxation tunables.
type Config struct {
	Threads        int     // 0 => runtime.GOMAXPROCS(0)
	SweepsPerRound int     // sweeps between barriers; must be >= 1, default 10
	Threshold      float64 // convergence threshold in volts, default 1e-6
	ShowMsg        bool    // print the stripe layout and the final round via gosl/io
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{Threads: 0, SweepsPerRound: 10, Threshold: 1e-6}
}

func (c Config) normalize() Config {
	if c.Threads <= 0 {
		c.Threads = runtime.GOMAXPROCS(0)
	}
	if c.SweepsPerRound < 1 {
		c.SweepsPerRound = 10
	}
	if c.Threshold <= 0 {
		c.Threshold = 1e-6
	}
	return c
}

// Status is the outcome of a solve.
type Status int

const (
	Converged Status = iota
	Aborted
)

// Outcome summarizes a finished solve.
type Outcome struct {
	Status Status
	Rounds int
	Diff   float64 // final global diff
}

// Progress is called after every round with the current global diff.
// onProgress may be nil.
type Progress func(diff float64)

// clampThreads caps the worker count at floor(H/5): a stripe must be
// at least 5 rows wide so its own update never needs data outside
// itself plus its two immediate neighbour rows.
func clampThreads(threads, h int) int {
	if threads < 1 {
		threads = 1
	}
	maxByHeight := h / 5
	if maxByHeight < 1 {
		maxByHeight = 1
	}
	if threads > maxByHeight {
		threads = maxByHeight
	}
	return threads
}

// stripe is the half-open row range [Lo, Hi) of interior row indices
// (1-based, i.e. stored rows 1..H+1 inside the Neumann ring) owned by
// one worker.
type stripe struct {
	Lo, Hi int
}

func partitionStripes(h, workers int) []stripe {
	if workers < 1 {
		workers = 1
	}
	rows := h
	base := rows / workers
	rem := rows % workers
	stripes := make([]stripe, workers)
	row := 1
	for w := 0; w < workers; w++ {
		n := base
		if w < rem {
			n++
		}
		stripes[w] = stripe{Lo: row, Hi: row + n}
		row += n
	}
	return stripes
}

// Run relaxes lat until the global diff drops to cfg.Threshold or the
// context is cancelled / an abort is requested on lat. Workers
// advance in rounds: each performs cfg.SweepsPerRound sweeps of its
// stripe, then meets the others at a barrier. Between barriers a
// worker reads only its own stripe plus the boundary rows of its two
// neighbours, so a cross-stripe read is at most one round stale.
//
// onProgress, if non-nil, is invoked once per round with the raw
// global diff; mapping it to a percentage is the caller's concern.
func Run(ctx context.Context, lat *lattice.Lattice, cfg Config, onProgress Progress) (Outcome, error) {
	cfg = cfg.normalize()
	if lat == nil {
		return Outcome{}, chk.Err("solver: nil lattice")
	}

	workers := clampThreads(cfg.Threads, lat.H)
	stripes := partitionStripes(lat.H+1, workers)
	if cfg.ShowMsg {
		io.Pf("> solver: %d stripe(s) over %d interior rows\n", workers, lat.H)
	}

	var aborted int32
	round := 0
	for {
		var wg sync.WaitGroup
		diffs := make([]float64, len(stripes))

		for wi, st := range stripes {
			wg.Add(1)
			go func(wi int, st stripe) {
				defer wg.Done()
				diffs[wi] = sweepStripe(lat, st, cfg.SweepsPerRound)
			}(wi, st)
		}
		wg.Wait()
		round++

		globalDiff := 0.0
		for _, d := range diffs {
			if d > globalDiff {
				globalDiff = d
			}
		}

		select {
		case <-ctx.Done():
			atomic.StoreInt32(&aborted, 1)
		default:
		}
		if lat.AbortRequested() {
			atomic.StoreInt32(&aborted, 1)
		}

		if atomic.LoadInt32(&aborted) == 1 {
			if cfg.ShowMsg {
				io.Pfyel("> solver: aborted at round %d, diff=%g\n", round, globalDiff)
			}
			return Outcome{Status: Aborted, Rounds: round, Diff: globalDiff}, nil
		}

		if onProgress != nil {
			onProgress(globalDiff)
		}

		if globalDiff <= cfg.Threshold {
			if cfg.ShowMsg {
				io.Pfgreen("> solver: converged at round %d, diff=%g\n", round, globalDiff)
			}
			return Outcome{Status: Converged, Rounds: round, Diff: globalDiff}, nil
		}
	}
}

// sweepStripe performs `sweeps` full passes over the interior rows
// [st.Lo, st.Hi) of the lattice (columns 1..W+1), in row-major order within the
// stripe, and returns the maximum |new - old| seen across all of
// them. Cells are read and written in place, so convergence follows
// Gauss-Seidel behaviour.
func sweepStripe(lat *lattice.Lattice, st stripe, sweeps int) float64 {
	maxDiff := 0.0
	for s := 0; s < sweeps; s++ {
		if lat.AbortRequested() {
			return maxDiff
		}
		for j := st.Lo; j < st.Hi; j++ {
			for i := 1; i <= lat.W+1; i++ {
				c := lat.At(i, j)
				if c.Cond == lattice.Dirichlet || c.Cond == lattice.Neumann {
					continue
				}
				n := lat.At(i, j+1)
				sVal := lat.At(i, j-1)
				w := lat.At(i-1, j)
				e := lat.At(i+1, j)
				v := [4]float64{n.V, sVal.V, w.V, e.V}
				ws := [4]float64{n.W, sVal.W, w.W, e.W}
				newV := stencil.Apply(c.Stencil, v, ws)
				d := newV - c.V
				if d < 0 {
					d = -d
				}
				if d > maxDiff {
					maxDiff = d
				}
				c.V = newV
			}
		}
	}
	return maxDiff
}

// PercentDone maps a global diff (decaying from ~1 toward threshold)
// to a monotone-non-decreasing percentage:
//
//	end = (-ln threshold)^6, cur = (-ln diff)^6
//	pct = clamp(cur*100/end, lastPercent, 100)
//
// The non-decreasing clamp prevents apparent regressions during the
// noisy late phase of the decay.
func PercentDone(diff, threshold, lastPercent float64) float64 {
	if diff <= 0 {
		return 100
	}
	end := pow6(-logSafe(threshold))
	cur := pow6(-logSafe(diff))
	pct := cur * 100 / end
	if pct < lastPercent {
		pct = lastPercent
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

func pow6(x float64) float64 { x2 := x * x; x3 := x2 * x; return x3 * x3 }

func logSafe(x float64) float64 {
	if x <= 0 {
		x = 1e-300
	}
	return math.Log(x)
}
