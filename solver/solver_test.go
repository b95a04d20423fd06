// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"context"
	"math"
	"testing"

	"github.com/cpmech/fieldcalc/geom"
	"github.com/cpmech/fieldcalc/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// platesBW is a fake lattice.BoundaryWeight modelling two horizontal
// plates held at 0V (y=0) and 1V (y=1), with a margin of free space
// above and below so both plates fall on interior lattice rows
// instead of the lattice's own forced-Neumann outer ring. Because
// neither plate's value depends on x, the exact electrostatic
// solution between them is the linear profile V(y) = y regardless of
// what lies beyond the plates, making it a precise convergence check.
type platesBW struct{}

func (platesBW) BoundaryAt(pt geom.Point) (lattice.Condition, float64) {
	const eps = 1e-9
	if math.Abs(pt.Y-1) < eps {
		return lattice.Dirichlet, 1
	}
	if math.Abs(pt.Y) < eps {
		return lattice.Dirichlet, 0
	}
	return lattice.None, 0
}

func (platesBW) WeightAt(pt geom.Point) float64 { return 1 }

func buildPlates(t *testing.T, h float64) *lattice.Lattice {
	t.Helper()
	bounds := geom.Rect{TopLeft: geom.Point{X: 0, Y: 1.2}, BottomRight: geom.Point{X: 1, Y: -0.2}}
	lat, err := lattice.New(bounds, h, platesBW{}, true)
	require.NoError(t, err)
	return lat
}

func TestClampThreadsRespectsStripeMinimum(t *testing.T) {
	assert.Equal(t, 1, clampThreads(8, 4))  // H=4 -> floor(4/5)=0 -> clamped to 1
	assert.Equal(t, 2, clampThreads(8, 10)) // floor(10/5)=2
	assert.Equal(t, 1, clampThreads(0, 50)) // threads<1 clamped to 1
}

func TestPartitionStripesCoversAllRows(t *testing.T) {
	stripes := partitionStripes(17, 4)
	require.Len(t, stripes, 4)
	assert.Equal(t, 1, stripes[0].Lo)
	assert.Equal(t, 18, stripes[len(stripes)-1].Hi)
	for i := 1; i < len(stripes); i++ {
		assert.Equal(t, stripes[i-1].Hi, stripes[i].Lo, "stripes must be contiguous")
	}
}

func TestPercentDoneIsMonotoneNonDecreasing(t *testing.T) {
	threshold := 1e-6
	last := 0.0
	for _, diff := range []float64{0.5, 0.2, 0.05, 0.3, 0.001, 1e-5, 1e-6} {
		pct := PercentDone(diff, threshold, last)
		assert.GreaterOrEqual(t, pct, last)
		assert.LessOrEqual(t, pct, 100.0)
		last = pct
	}
	assert.InDelta(t, 100.0, last, 1e-6)
}

func TestRunConvergesOnParallelPlates(t *testing.T) {
	lat := buildPlates(t, 0.05) // W=20, H=27
	cfg := Config{Threads: 2, SweepsPerRound: 10, Threshold: 1e-6}

	outcome, err := Run(context.Background(), lat, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, Converged, outcome.Status)
	assert.LessOrEqual(t, outcome.Diff, cfg.Threshold)

	// linear potential profile between the plates
	mid := lat.Potential(geom.Point{X: 0.5, Y: 0.5})
	assert.InDelta(t, 0.5, mid, 0.02)
}

func TestRunAbortsOnContextCancel(t *testing.T) {
	lat := buildPlates(t, 0.01)
	cfg := Config{Threads: 1, SweepsPerRound: 1, Threshold: 1e-15}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel before the first round completes

	outcome, err := Run(ctx, lat, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, Aborted, outcome.Status)
}

func TestRunAbortsOnLatticeFlag(t *testing.T) {
	lat := buildPlates(t, 0.01)
	lat.RequestAbort()
	cfg := Config{Threads: 1, SweepsPerRound: 1, Threshold: 1e-15}

	outcome, err := Run(context.Background(), lat, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, Aborted, outcome.Status)
}

func TestRunRejectsNilLattice(t *testing.T) {
	_, err := Run(context.Background(), nil, DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestDirichletCellsNeverChange(t *testing.T) {
	lat := buildPlates(t, 0.05)
	topBefore := lat.Potential(geom.Point{X: 0.5, Y: 1})
	botBefore := lat.Potential(geom.Point{X: 0.5, Y: 0})
	require.Equal(t, 1.0, topBefore)
	require.Equal(t, 0.0, botBefore)

	cfg := Config{Threads: 1, SweepsPerRound: 10, Threshold: 1e-6}
	_, err := Run(context.Background(), lat, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, topBefore, lat.Potential(geom.Point{X: 0.5, Y: 1}))
	assert.Equal(t, botBefore, lat.Potential(geom.Point{X: 0.5, Y: 0}))
}

func TestSingleThreadIsDeterministic(t *testing.T) {
	run := func() *lattice.Lattice {
		lat := buildPlates(t, 0.05)
		cfg := Config{Threads: 1, SweepsPerRound: 10, Threshold: 1e-8}
		_, err := Run(context.Background(), lat, cfg, nil)
		require.NoError(t, err)
		return lat
	}
	a := run()
	b := run()
	require.Equal(t, len(a.Cells), len(b.Cells))
	for k := range a.Cells {
		if a.Cells[k].V != b.Cells[k].V {
			t.Fatalf("cell %d differs between identical single-thread runs: %v vs %v",
				k, a.Cells[k].V, b.Cells[k].V)
		}
	}
}

func TestRoundDiffsTrendDownward(t *testing.T) {
	lat := buildPlates(t, 0.02)
	cfg := Config{Threads: 2, SweepsPerRound: 10, Threshold: 1e-7}
	var diffs []float64
	_, err := Run(context.Background(), lat, cfg, func(d float64) { diffs = append(diffs, d) })
	require.NoError(t, err)
	require.Greater(t, len(diffs), 2)

	// in-place sweeps may jitter locally; the trend must still decay
	violations := 0
	for i := 1; i < len(diffs); i++ {
		if diffs[i] > diffs[i-1]*1.01 {
			violations++
		}
	}
	assert.LessOrEqual(t, violations, len(diffs)/100+1)
	assert.Less(t, diffs[len(diffs)-1], diffs[0])
}

func TestProgressCallbackReceivesDecayingDiff(t *testing.T) {
	lat := buildPlates(t, 0.1)
	cfg := Config{Threads: 1, SweepsPerRound: 5, Threshold: 1e-6}
	var diffs []float64
	_, err := Run(context.Background(), lat, cfg, func(d float64) { diffs = append(diffs, d) })
	require.NoError(t, err)
	require.NotEmpty(t, diffs)
	assert.False(t, math.IsNaN(diffs[len(diffs)-1]))
}
