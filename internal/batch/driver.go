// Package batch drives a render over a materialized camera array: fixed
// order, deterministic file naming, skip-existing resume, per-frame failure
// isolation, and cooperative cancellation between frames.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/camarray/internal/render"
	"github.com/Faultbox/camarray/internal/rig"
	"github.com/Faultbox/camarray/internal/scene"
)

// ErrRunActive is returned when Run is called while another run on the same
// driver is still in progress. Interleaved runs over one output directory
// would corrupt the skip-existing invariant, so the driver refuses instead
// of queueing.
var ErrRunActive = errors.New("batch: a render run is already active")

// ProgressFunc is called after every item with the number of processed
// items and the total.
type ProgressFunc func(processed, total int)

// Config holds the parameters of one batch run.
type Config struct {
	OutputDir       string
	Format          render.Format
	ResolutionScale float32

	// SkipExisting resumes an interrupted run: frames whose output file
	// already exists are skipped without calling the renderer.
	SkipExisting bool

	// HideTarget hides TargetName in the scene for the duration of the run
	// and restores its original visibility on every exit path.
	HideTarget bool
	TargetName string
}

// Driver runs batch renders. A Driver holds the run token that the original
// tool kept as a hidden global: at most one run is active at a time.
type Driver struct {
	sc       scene.Scene
	renderFn render.Func
	log      *zap.Logger
	active   atomic.Bool
}

// NewDriver creates a batch driver over the given scene and render
// collaborator.
func NewDriver(sc scene.Scene, renderFn render.Func, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{sc: sc, renderFn: renderFn, log: log}
}

// Run renders every rig in order. Individual render failures are recorded
// in the returned State and never abort the run; only environment failures
// (unwritable output directory, errors wrapping render.ErrEnvironment) do.
// Cancellation is polled between items via ctx; frames already on disk stay
// there.
func (d *Driver) Run(ctx context.Context, rigs []rig.Rig, cfg Config, progress ProgressFunc) (State, error) {
	if !d.active.CompareAndSwap(false, true) {
		return State{}, ErrRunActive
	}
	defer d.active.Store(false)

	opts := render.Options{
		Format:          cfg.Format,
		ResolutionScale: cfg.ResolutionScale,
		HideTarget:      cfg.HideTarget,
	}
	if err := opts.Validate(); err != nil {
		return State{}, fmt.Errorf("batch: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return State{}, fmt.Errorf("%w: creating output directory %s: %w", render.ErrEnvironment, cfg.OutputDir, err)
	}

	restore, err := d.acquireVisibility(cfg)
	if err != nil {
		return State{}, err
	}
	defer restore()

	state := State{Total: len(rigs)}
	for _, r := range rigs {
		if ctx.Err() != nil {
			state.Cancelled = true
			break
		}

		path := PathFor(cfg.OutputDir, r.Index, cfg.Format)

		if cfg.SkipExisting && fileExists(path) {
			state.Skipped++
			d.log.Debug("frame exists, skipping", zap.String("path", path))
			report(progress, &state)
			continue
		}

		if err := d.renderFn(ctx, r, path, opts); err != nil {
			// Never leave a half-written file attributed to this index.
			_ = os.Remove(path)

			if errors.Is(err, render.ErrEnvironment) {
				return state, err
			}
			if ctx.Err() != nil {
				state.Cancelled = true
				break
			}
			state.Failed = append(state.Failed, Failure{Index: r.Index, Reason: err.Error()})
			d.log.Warn("frame render failed",
				zap.Int("index", r.Index),
				zap.String("camera", r.Name),
				zap.Error(err),
			)
			report(progress, &state)
			continue
		}

		state.Completed++
		d.log.Debug("frame rendered", zap.Int("index", r.Index), zap.String("path", path))
		report(progress, &state)
	}

	return state, nil
}

// acquireVisibility hides the target when configured and returns the
// release function restoring the original visibility. The release runs on
// every exit path, including failures and cancellation.
func (d *Driver) acquireVisibility(cfg Config) (func(), error) {
	if !cfg.HideTarget || cfg.TargetName == "" {
		return func() {}, nil
	}

	visible, err := d.sc.Visible(cfg.TargetName)
	if err != nil {
		return nil, fmt.Errorf("%w: reading visibility of %q: %w", render.ErrEnvironment, cfg.TargetName, err)
	}
	if err := d.sc.SetVisible(cfg.TargetName, false); err != nil {
		return nil, fmt.Errorf("%w: hiding %q: %w", render.ErrEnvironment, cfg.TargetName, err)
	}

	return func() {
		if err := d.sc.SetVisible(cfg.TargetName, visible); err != nil {
			d.log.Warn("restoring target visibility failed",
				zap.String("target", cfg.TargetName), zap.Error(err))
		}
	}, nil
}

func report(progress ProgressFunc, s *State) {
	if progress != nil {
		progress(s.Processed(), s.Total)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
