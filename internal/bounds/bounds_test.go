package bounds

import (
	"errors"
	"testing"

	"github.com/Faultbox/camarray/internal/scene"
	"github.com/Faultbox/camarray/pkg/math"
)

func TestAnalyze(t *testing.T) {
	obj := scene.Object{
		Name: "statue",
		Kind: scene.KindMesh,
		Min:  math.Vec3{X: -1, Y: -2, Z: 0},
		Max:  math.Vec3{X: 1, Y: 2, Z: 4},
	}

	b, err := Analyze(obj)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if b.Center != (math.Vec3{X: 0, Y: 0, Z: 2}) {
		t.Errorf("Center = %v, want {0 0 2}", b.Center)
	}
	if b.Dimensions != (math.Vec3{X: 2, Y: 4, Z: 4}) {
		t.Errorf("Dimensions = %v, want {2 4 4}", b.Dimensions)
	}
	if b.MaxDimension != 4 {
		t.Errorf("MaxDimension = %v, want 4", b.MaxDimension)
	}
	if d := b.Distance(1.5); d != 6 {
		t.Errorf("Distance(1.5) = %v, want 6", d)
	}
}

func TestAnalyzeRejectsNonMesh(t *testing.T) {
	obj := scene.Object{Name: "lamp", Kind: scene.KindLight, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	if _, err := Analyze(obj); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Analyze(light) error = %v, want ErrInvalidTarget", err)
	}
}

func TestAnalyzeRejectsMissing(t *testing.T) {
	if _, err := Analyze(scene.Object{}); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Analyze(empty) error = %v, want ErrInvalidTarget", err)
	}
}

func TestAnalyzeRejectsDegenerate(t *testing.T) {
	obj := scene.Object{Name: "point", Kind: scene.KindMesh}
	if _, err := Analyze(obj); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Analyze(zero volume) error = %v, want ErrInvalidTarget", err)
	}
}

func TestAnalyzeFlatObjectAllowed(t *testing.T) {
	// A plane is flat in one axis but still has a usable max dimension.
	obj := scene.Object{
		Name: "plane",
		Kind: scene.KindMesh,
		Min:  math.Vec3{X: -2, Y: -2, Z: 0},
		Max:  math.Vec3{X: 2, Y: 2, Z: 0},
	}
	b, err := Analyze(obj)
	if err != nil {
		t.Fatalf("Analyze(flat) error = %v", err)
	}
	if b.MaxDimension != 4 {
		t.Errorf("MaxDimension = %v, want 4", b.MaxDimension)
	}
}
