// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine is the façade in front of the numerical core: it
// holds solver configuration, launches the workers, delivers progress
// events through an explicit Listener, and exposes the
// potential/gradient queries the front-end and the gauss integrator
// read once a solve is Done.
package engine

import (
	"context"
	"math"
	"sync"

	"github.com/cpmech/fieldcalc/geom"
	"github.com/cpmech/fieldcalc/lattice"
	"github.com/cpmech/fieldcalc/scene"
	"github.com/cpmech/fieldcalc/solver"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// State is one of the engine's four lifecycle states.
type State int

const (
	Idle State = iota
	Running
	Done
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Done:
		return "Done"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Listener receives the engine's events: info/warning/error messages,
// a completion percentage, and the two terminal transitions. It is
// passed explicitly to New rather than registered with a global
// emitter; embed NopListener to only override the events you care
// about. Events are delivered in emission order within one run.
type Listener interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	Percentage(pct float64)
	Done()
	Aborted()
}

// NopListener implements Listener with no-ops.
type NopListener struct{}

func (NopListener) Info(string)        {}
func (NopListener) Warning(string)     {}
func (NopListener) Error(string)       {}
func (NopListener) Percentage(float64) {}
func (NopListener) Done()              {}
func (NopListener) Aborted()           {}

// Config holds the solve parameters installed by the setter group:
// SetArea, SetGrid, SetThreads, SetThreshold, SetGroundedBorders,
// SetIgnoreDielectric.
type Config struct {
	Bounds           geom.Rect
	Grid             float64 // pitch h, metres; h > 0
	Threads          int     // 0 => runtime.GOMAXPROCS(0)
	Threshold        float64 // convergence threshold, volts; default 1e-6
	GroundedBorders  bool
	IgnoreDielectric bool
	ShowMsg          bool // print a start line and the solver's messages via gosl/io
}

// DefaultConfig returns a config with the default threshold; Bounds
// and Grid must still be set before Start.
func DefaultConfig() Config {
	return Config{Threshold: 1e-6}
}

// Engine is the state machine Idle -> Running -> (Done | Aborted) ->
// Idle. The lattice and last result live as long as the engine is in
// Done; InvalidateResult (or a new Start) returns it to Idle.
type Engine struct {
	cfg      Config
	listener Listener

	mu      sync.Mutex
	state   State
	lattice *lattice.Lattice
	outcome solver.Outcome
	lastPct float64

	cancel context.CancelFunc
}

// New returns an Idle engine with cfg and listener. Pass
// NopListener{} (or nil) if events are not needed.
func New(cfg Config, listener Listener) *Engine {
	if listener == nil {
		listener = NopListener{}
	}
	return &Engine{cfg: cfg, listener: listener, state: Idle}
}

// SetArea installs the world-space bounding rectangle. Only effective
// before the next Start.
func (e *Engine) SetArea(topLeft, bottomRight geom.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Bounds = geom.Rect{TopLeft: topLeft, BottomRight: bottomRight}
}

// SetGrid installs the grid pitch h in metres; h must be > 0.
func (e *Engine) SetGrid(h float64) { e.mu.Lock(); e.cfg.Grid = h; e.mu.Unlock() }

// SetThreads installs the worker-thread count.
func (e *Engine) SetThreads(n int) { e.mu.Lock(); e.cfg.Threads = n; e.mu.Unlock() }

// SetThreshold installs the convergence threshold in volts.
func (e *Engine) SetThreshold(t float64) { e.mu.Lock(); e.cfg.Threshold = t; e.mu.Unlock() }

// SetGroundedBorders toggles whether the outer bounding rectangle is
// treated as a grounded Dirichlet boundary.
func (e *Engine) SetGroundedBorders(b bool) { e.mu.Lock(); e.cfg.GroundedBorders = b; e.mu.Unlock() }

// SetIgnoreDielectric toggles whether lattice weights ignore
// dielectric permittivity.
func (e *Engine) SetIgnoreDielectric(b bool) { e.mu.Lock(); e.cfg.IgnoreDielectric = b; e.mu.Unlock() }

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// IsResultReady reports whether Potential/Gradient return meaningful
// values; true only in Done.
func (e *Engine) IsResultReady() bool { return e.State() == Done }

// boundaryWeight adapts a scene.Scene to the lattice.BoundaryWeight
// capability.
type boundaryWeight struct {
	s                scene.Scene
	bounds           geom.Rect
	groundedBorders  bool
	ignoreDielectric bool
}

func (b boundaryWeight) BoundaryAt(p geom.Point) (lattice.Condition, float64) {
	cond, v := b.s.BoundaryAt(p, b.bounds, b.groundedBorders)
	return lattice.Condition(cond), v
}

func (b boundaryWeight) WeightAt(p geom.Point) float64 {
	if b.ignoreDielectric {
		return 1
	}
	return b.s.PermittivityAt(p)
}

// Start validates sc, builds a lattice and launches the solver in a
// background goroutine. Returns false without side effects if a solve
// is already Running. The call returns immediately after spawning;
// the front-end never blocks inside solver code.
func (e *Engine) Start(sc scene.Scene) (bool, error) {
	e.mu.Lock()
	if e.state == Running {
		e.mu.Unlock()
		return false, nil
	}
	cfg := e.cfg
	e.state = Running
	e.lastPct = 0
	e.mu.Unlock()

	fail := func(err error, msg string) (bool, error) {
		e.mu.Lock()
		e.state = Idle
		e.lattice = nil
		e.mu.Unlock()
		e.listener.Error(msg)
		return false, err
	}

	warnings, err := sc.Validate()
	if err != nil {
		return fail(err, err.Error())
	}
	for _, w := range warnings {
		e.listener.Warning(w.Message)
	}

	bw := boundaryWeight{s: sc, bounds: cfg.Bounds, groundedBorders: cfg.GroundedBorders, ignoreDielectric: cfg.IgnoreDielectric}
	lat, err := lattice.New(cfg.Bounds, cfg.Grid, bw, cfg.IgnoreDielectric)
	if err != nil {
		return fail(chk.Err("engine: lattice creation failed: %v", err), "Lattice creation failed: "+err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	e.lattice = lat
	e.cancel = cancel
	e.mu.Unlock()

	if cfg.ShowMsg {
		io.Pf("> engine: starting solve (%dx%d interior cells)\n", lat.W, lat.H)
	}
	e.listener.Info("solve started")

	solverCfg := solver.Config{Threads: cfg.Threads, SweepsPerRound: 10, Threshold: cfg.Threshold, ShowMsg: cfg.ShowMsg}
	go e.run(ctx, lat, solverCfg)

	return true, nil
}

func (e *Engine) run(ctx context.Context, lat *lattice.Lattice, cfg solver.Config) {
	onProgress := func(diff float64) {
		e.mu.Lock()
		pct := solver.PercentDone(diff, cfg.Threshold, e.lastPct)
		e.lastPct = pct
		e.mu.Unlock()
		e.listener.Percentage(pct)
	}

	outcome, err := solver.Run(ctx, lat, cfg, onProgress)

	e.mu.Lock()
	e.outcome = outcome
	if err != nil {
		e.state = Idle
		e.mu.Unlock()
		e.listener.Error(err.Error())
		return
	}
	switch outcome.Status {
	case solver.Converged:
		e.state = Done
	case solver.Aborted:
		e.state = Aborted
	}
	e.mu.Unlock()

	switch outcome.Status {
	case solver.Converged:
		e.listener.Percentage(100)
		e.listener.Done()
	case solver.Aborted:
		e.listener.Aborted()
	}
}

// Abort requests cooperative cancellation: every worker exits at its
// next sweep boundary, no partial results are exposed, and the engine
// transitions to Aborted. The lattice is retained so a subsequent
// Start can release it.
func (e *Engine) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Running {
		return
	}
	if e.lattice != nil {
		e.lattice.RequestAbort()
	}
	if e.cancel != nil {
		e.cancel()
	}
}

// InvalidateResult returns the engine to Idle, as any scene edit
// must: the result-ready predicate becomes false again.
func (e *Engine) InvalidateResult() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Idle
	e.lattice = nil
}

// Potential returns the solved potential at p, or NaN if no result is
// ready.
func (e *Engine) Potential(p geom.Point) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Done || e.lattice == nil {
		return math.NaN()
	}
	return e.lattice.Potential(p)
}

// Gradient returns the solved gradient at p, or the zero vector if no
// result is ready.
func (e *Engine) Gradient(p geom.Point) geom.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Done || e.lattice == nil {
		return geom.Point{}
	}
	return e.lattice.Gradient(p)
}

// Outcome returns the most recent solver.Outcome (rounds, final
// diff). Valid once the engine has left Running.
func (e *Engine) Outcome() solver.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome
}
