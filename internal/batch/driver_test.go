package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/camarray/internal/arraygen"
	"github.com/Faultbox/camarray/internal/render"
	"github.com/Faultbox/camarray/internal/rig"
	"github.com/Faultbox/camarray/internal/scene"
	"github.com/Faultbox/camarray/pkg/math"
)

func makeRigs(n int) []rig.Rig {
	rigs := make([]rig.Rig, n)
	for i := range rigs {
		rigs[i] = rig.Rig{
			Index: i + 1,
			Name:  rig.Name(rig.DefaultPrefix, i+1),
			Pose:  arraygen.Pose{Position: math.Vec3{X: float32(i + 1)}, Forward: math.Vec3{X: -1}, Up: math.Vec3{Z: 1}},
		}
	}
	return rigs
}

func targetScene(t *testing.T) *scene.Memory {
	t.Helper()
	sc := scene.NewMemory()
	sc.AddObject(scene.Object{
		Name: "statue",
		Kind: scene.KindMesh,
		Min:  math.Vec3{X: -1, Y: -1, Z: 0},
		Max:  math.Vec3{X: 1, Y: 1, Z: 2},
	})
	return sc
}

// writeFrame is a render.Func that writes a placeholder file and counts calls.
func writeFrame(calls *int) render.Func {
	return func(ctx context.Context, r rig.Rig, outputPath string, opts render.Options) error {
		*calls++
		return os.WriteFile(outputPath, []byte(r.Name), 0644)
	}
}

func baseConfig(dir string) Config {
	return Config{
		OutputDir:       dir,
		Format:          render.PNG,
		ResolutionScale: 1,
		SkipExisting:    true,
	}
}

func TestRunRendersAll(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	d := NewDriver(targetScene(t), writeFrame(&calls), nil)

	state, err := d.Run(context.Background(), makeRigs(5), baseConfig(dir), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if state.Completed != 5 || state.Skipped != 0 || len(state.Failed) != 0 {
		t.Errorf("state = %+v, want 5 completed", state)
	}
	if calls != 5 {
		t.Errorf("render calls = %d, want 5", calls)
	}
	for i := 1; i <= 5; i++ {
		path := PathFor(dir, i, render.PNG)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing frame %s: %v", path, err)
		}
	}
}

func TestRunResumeIdempotence(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	d := NewDriver(targetScene(t), writeFrame(&calls), nil)
	rigs := makeRigs(4)
	cfg := baseConfig(dir)

	first, err := d.Run(context.Background(), rigs, cfg, nil)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if first.Completed+first.Skipped != first.Total {
		t.Errorf("first run: completed+skipped = %d, want %d", first.Completed+first.Skipped, first.Total)
	}

	calls = 0
	second, err := d.Run(context.Background(), rigs, cfg, nil)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("second run made %d render calls, want 0", calls)
	}
	if second.Skipped != 4 || second.Completed != 0 {
		t.Errorf("second run state = %+v, want 4 skipped", second)
	}
	if second.Completed+second.Skipped != second.Total {
		t.Errorf("second run: completed+skipped = %d, want %d", second.Completed+second.Skipped, second.Total)
	}
}

func TestRunPartialFailureIsolation(t *testing.T) {
	dir := t.TempDir()
	failIndex := 3
	fn := func(ctx context.Context, r rig.Rig, outputPath string, opts render.Options) error {
		if r.Index == failIndex {
			// Simulate a partial write before the failure.
			_ = os.WriteFile(outputPath, []byte("partial"), 0644)
			return errors.New("GPU out of memory")
		}
		return os.WriteFile(outputPath, []byte(r.Name), 0644)
	}
	d := NewDriver(targetScene(t), fn, nil)

	state, err := d.Run(context.Background(), makeRigs(6), baseConfig(dir), nil)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (per-frame failures are data)", err)
	}
	if len(state.Failed) != 1 || state.Failed[0].Index != failIndex {
		t.Fatalf("Failed = %+v, want one entry for index %d", state.Failed, failIndex)
	}
	if state.Completed+state.Skipped != state.Total-1 {
		t.Errorf("completed+skipped = %d, want %d", state.Completed+state.Skipped, state.Total-1)
	}
	// The half-written file must not survive attributed to a failed index.
	if _, err := os.Stat(PathFor(dir, failIndex, render.PNG)); err == nil {
		t.Error("half-written frame of failed index still on disk")
	}
}

func TestRunCancellation(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	d := NewDriver(targetScene(t), writeFrame(&calls), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const stopAfter = 3
	progress := func(processed, total int) {
		if processed == stopAfter {
			cancel()
		}
	}
	state, err := d.Run(ctx, makeRigs(10), baseConfig(dir), progress)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !state.Cancelled {
		t.Error("state.Cancelled = false, want true")
	}
	if state.Processed() != stopAfter || calls != stopAfter {
		t.Errorf("processed %d items with %d render calls, want %d", state.Processed(), calls, stopAfter)
	}
	// Frames rendered before cancellation stay on disk.
	for i := 1; i <= stopAfter; i++ {
		if _, err := os.Stat(PathFor(dir, i, render.PNG)); err != nil {
			t.Errorf("frame %d missing after cancellation: %v", i, err)
		}
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	dir := t.TempDir()
	var d *Driver
	var nested error
	fn := func(ctx context.Context, r rig.Rig, outputPath string, opts render.Options) error {
		_, nested = d.Run(ctx, makeRigs(1), baseConfig(dir), nil)
		return os.WriteFile(outputPath, nil, 0644)
	}
	d = NewDriver(targetScene(t), fn, nil)

	if _, err := d.Run(context.Background(), makeRigs(1), baseConfig(dir), nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !errors.Is(nested, ErrRunActive) {
		t.Errorf("nested Run() error = %v, want ErrRunActive", nested)
	}

	// The token is released after the run, so a new run works.
	if _, err := d.Run(context.Background(), makeRigs(1), baseConfig(dir), nil); err != nil {
		t.Errorf("follow-up Run() error = %v", err)
	}
}

func TestRunHideTargetScoped(t *testing.T) {
	dir := t.TempDir()
	sc := targetScene(t)
	var seenHidden bool
	fn := func(ctx context.Context, r rig.Rig, outputPath string, opts render.Options) error {
		vis, _ := sc.Visible("statue")
		seenHidden = !vis
		return os.WriteFile(outputPath, nil, 0644)
	}
	d := NewDriver(sc, fn, nil)
	cfg := baseConfig(dir)
	cfg.HideTarget = true
	cfg.TargetName = "statue"

	if _, err := d.Run(context.Background(), makeRigs(2), cfg, nil); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !seenHidden {
		t.Error("target was visible during render")
	}
	if vis, _ := sc.Visible("statue"); !vis {
		t.Error("target visibility not restored after run")
	}
}

func TestRunHideTargetRestoredOnFatalError(t *testing.T) {
	dir := t.TempDir()
	sc := targetScene(t)
	fn := func(ctx context.Context, r rig.Rig, outputPath string, opts render.Options) error {
		return fmt.Errorf("%w: output volume unmounted", render.ErrEnvironment)
	}
	d := NewDriver(sc, fn, nil)
	cfg := baseConfig(dir)
	cfg.HideTarget = true
	cfg.TargetName = "statue"

	if _, err := d.Run(context.Background(), makeRigs(2), cfg, nil); !errors.Is(err, render.ErrEnvironment) {
		t.Fatalf("Run() error = %v, want ErrEnvironment", err)
	}
	if vis, _ := sc.Visible("statue"); !vis {
		t.Error("target visibility not restored after fatal error")
	}
}

func TestRunEnvironmentFailureAborts(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	fn := func(ctx context.Context, r rig.Rig, outputPath string, opts render.Options) error {
		calls++
		if r.Index == 2 {
			return fmt.Errorf("%w: renderer crashed", render.ErrEnvironment)
		}
		return os.WriteFile(outputPath, nil, 0644)
	}
	d := NewDriver(targetScene(t), fn, nil)

	state, err := d.Run(context.Background(), makeRigs(5), baseConfig(dir), nil)
	if !errors.Is(err, render.ErrEnvironment) {
		t.Fatalf("Run() error = %v, want ErrEnvironment", err)
	}
	if calls != 2 {
		t.Errorf("render calls = %d, want 2 (abort on fatal)", calls)
	}
	if state.Completed != 1 {
		t.Errorf("completed = %d, want 1", state.Completed)
	}
}

func TestRunUnwritableOutputDir(t *testing.T) {
	// A file standing where the output directory should be is an
	// environment failure before any rendering starts.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "frames")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	calls := 0
	d := NewDriver(targetScene(t), writeFrame(&calls), nil)

	cfg := baseConfig(blocker)
	if _, err := d.Run(context.Background(), makeRigs(2), cfg, nil); !errors.Is(err, render.ErrEnvironment) {
		t.Fatalf("Run() error = %v, want ErrEnvironment", err)
	}
	if calls != 0 {
		t.Errorf("render calls = %d, want 0", calls)
	}
}

func TestRunRejectsBadResolutionScale(t *testing.T) {
	d := NewDriver(targetScene(t), writeFrame(new(int)), nil)
	cfg := baseConfig(t.TempDir())
	cfg.ResolutionScale = 3
	if _, err := d.Run(context.Background(), makeRigs(3), cfg, nil); err == nil {
		t.Error("Run() succeeded with resolution scale 3, want error")
	}
}

func TestRunProgressReporting(t *testing.T) {
	dir := t.TempDir()
	d := NewDriver(targetScene(t), writeFrame(new(int)), nil)

	var reports []int
	progress := func(processed, total int) {
		if total != 4 {
			t.Errorf("progress total = %d, want 4", total)
		}
		reports = append(reports, processed)
	}
	if _, err := d.Run(context.Background(), makeRigs(4), baseConfig(dir), progress); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []int{1, 2, 3, 4}
	if len(reports) != len(want) {
		t.Fatalf("progress reports = %v, want %v", reports, want)
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("report %d = %d, want %d", i, reports[i], want[i])
		}
	}
}
