// Package scene defines the host-scene capability the capture pipeline
// depends on. The pipeline only ever reads object bounds and mesh faces,
// creates named camera entities, and toggles object visibility; everything
// else about the host scene is opaque.
package scene

import (
	"errors"

	"github.com/Faultbox/camarray/pkg/math"
)

// ErrNotFound is returned when a named object does not exist in the scene.
var ErrNotFound = errors.New("scene: object not found")

// Kind classifies scene objects. Only mesh objects can be capture targets.
type Kind int

const (
	KindMesh Kind = iota
	KindEmpty
	KindLight
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindEmpty:
		return "empty"
	case KindLight:
		return "light"
	default:
		return "unknown"
	}
}

// Face is a mesh face reduced to its center and outward unit normal.
type Face struct {
	Center math.Vec3
	Normal math.Vec3
}

// Object is a scene object as seen by the pipeline: a name, a kind, and a
// world-space axis-aligned bounding box. Faces are populated only for mesh
// objects whose host exposes per-face data.
type Object struct {
	Name  string
	Kind  Kind
	Min   math.Vec3
	Max   math.Vec3
	Faces []Face
}

// Camera is a camera entity to be materialized in the host scene.
type Camera struct {
	Name     string
	Position math.Vec3
	Forward  math.Vec3
	Up       math.Vec3
}

// Scene is the injected host-scene capability.
//
// Implementations are not required to be safe for concurrent use; the
// pipeline is single-threaded by design and calls the scene only from the
// control thread that owns it.
type Scene interface {
	// Object returns the named object, or ErrNotFound.
	Object(name string) (Object, error)

	// Faces returns the mesh faces of the named object. The slice may be
	// empty for meshes whose host does not expose face data.
	Faces(name string) ([]Face, error)

	// AddCamera inserts a camera entity into the scene.
	AddCamera(cam Camera) error

	// RemoveCameras removes every camera whose name starts with prefix and
	// returns how many were removed.
	RemoveCameras(prefix string) int

	// Visible reports whether the named object is visible.
	Visible(name string) (bool, error)

	// SetVisible sets the named object's visibility.
	SetVisible(name string, visible bool) error
}
