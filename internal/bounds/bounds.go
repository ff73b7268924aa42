// Package bounds derives an object's center and characteristic size from
// its world-space bounding box. The largest dimension drives the default
// camera distance, so degenerate boxes are rejected here rather than
// producing cameras on top of the target.
package bounds

import (
	"errors"
	"fmt"

	"github.com/Faultbox/camarray/internal/scene"
	"github.com/Faultbox/camarray/pkg/math"
)

// ErrInvalidTarget is returned for absent, non-mesh, or zero-volume targets.
var ErrInvalidTarget = errors.New("bounds: invalid target")

// ObjectBounds describes a target object's bounding geometry. It is derived
// once per generation call and never mutated afterwards.
type ObjectBounds struct {
	Center       math.Vec3
	Dimensions   math.Vec3
	MaxDimension float32
}

// Distance returns the camera distance for the given distance factor.
func (b ObjectBounds) Distance(factor float32) float32 {
	return b.MaxDimension * factor
}

// Analyze computes ObjectBounds for a scene object.
func Analyze(obj scene.Object) (ObjectBounds, error) {
	if obj.Name == "" {
		return ObjectBounds{}, fmt.Errorf("%w: no object selected", ErrInvalidTarget)
	}
	if obj.Kind != scene.KindMesh {
		return ObjectBounds{}, fmt.Errorf("%w: %q is a %s object, not a mesh", ErrInvalidTarget, obj.Name, obj.Kind)
	}

	dim := obj.Max.Sub(obj.Min)
	if dim.X < 0 || dim.Y < 0 || dim.Z < 0 {
		return ObjectBounds{}, fmt.Errorf("%w: %q has inverted bounds", ErrInvalidTarget, obj.Name)
	}

	maxDim := dim.X
	if dim.Y > maxDim {
		maxDim = dim.Y
	}
	if dim.Z > maxDim {
		maxDim = dim.Z
	}
	if maxDim <= 0 {
		return ObjectBounds{}, fmt.Errorf("%w: %q has degenerate bounds", ErrInvalidTarget, obj.Name)
	}

	return ObjectBounds{
		Center:       obj.Min.Add(obj.Max).Scale(0.5),
		Dimensions:   dim,
		MaxDimension: maxDim,
	}, nil
}
