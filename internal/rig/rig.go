// Package rig materializes generated camera poses as named camera entities
// in the host scene. This is the only point where generation mutates host
// state.
package rig

import (
	"fmt"

	"github.com/Faultbox/camarray/internal/arraygen"
	"github.com/Faultbox/camarray/internal/scene"
)

// DefaultPrefix is the camera name prefix used when none is configured.
const DefaultPrefix = "ArrayCam"

// Rig is a scene-resident camera created from a generated pose. Index is
// 1-based and fixes the render order and the output file order.
type Rig struct {
	Index int
	Name  string
	Pose  arraygen.Pose
}

// Name returns the deterministic rig name for a prefix and 1-based index.
func Name(prefix string, index int) string {
	return fmt.Sprintf("%s_%03d", prefix, index)
}

// Materialize creates one named camera entity per pose, in pose order.
//
// Re-materializing with the same prefix replaces the previous set: existing
// cameras with the prefix are removed first, so repeated generation never
// accumulates duplicates. If inserting a camera fails partway, the cameras
// added by this call are removed again; the scene never holds a partial
// sequence.
func Materialize(sc scene.Scene, poses []arraygen.Pose, prefix string) ([]Rig, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	sc.RemoveCameras(prefix)

	rigs := make([]Rig, 0, len(poses))
	for i, pose := range poses {
		r := Rig{
			Index: i + 1,
			Name:  Name(prefix, i+1),
			Pose:  pose,
		}
		cam := scene.Camera{
			Name:     r.Name,
			Position: pose.Position,
			Forward:  pose.Forward,
			Up:       pose.Up,
		}
		if err := sc.AddCamera(cam); err != nil {
			sc.RemoveCameras(prefix)
			return nil, fmt.Errorf("adding camera %s: %w", r.Name, err)
		}
		rigs = append(rigs, r)
	}
	return rigs, nil
}
