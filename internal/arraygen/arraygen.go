// Package arraygen generates ordered camera pose sequences around a target
// object. It is pure pose math: no scene access, no side effects, so every
// topology is testable without a host scene.
package arraygen

import (
	"errors"
	"fmt"
)

// Topology is the geometric pattern governing camera placement.
type Topology int

const (
	Sphere Topology = iota
	Hemisphere
	Cylinder
	Grid
	MeshFace
)

var topologyNames = map[Topology]string{
	Sphere:     "sphere",
	Hemisphere: "hemisphere",
	Cylinder:   "cylinder",
	Grid:       "grid",
	MeshFace:   "mesh-face",
}

// String returns the topology name.
func (t Topology) String() string {
	if name, ok := topologyNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseTopology parses a topology name as used in config files and flags.
func ParseTopology(s string) (Topology, error) {
	for t, name := range topologyNames {
		if s == name {
			return t, nil
		}
	}
	return Sphere, fmt.Errorf("%w: unknown topology %q", ErrInvalidConfig, s)
}

// ErrInvalidConfig is returned for out-of-range or contradictory array
// parameters. Validation happens before any pose math runs.
var ErrInvalidConfig = errors.New("arraygen: invalid config")

// Count limits for the non-mesh-face topologies.
const (
	MinCount = 3
	MaxCount = 100
)

// Config holds the array generation parameters.
//
// Count is ignored in mesh-face mode, where the pose count equals the
// number of supplied faces. ElevationMin/Max apply to sphere and hemisphere
// only; hemisphere additionally clamps the range into [0,90].
type Config struct {
	Topology       Topology
	Count          int
	DistanceFactor float32
	HeightLevels   int
	ElevationMin   float32 // degrees, -90..90
	ElevationMax   float32 // degrees, -90..90
}

// DefaultConfig returns the default capture array: a 24-camera sphere on
// three rings between -30 and 60 degrees at 1.5x the object size.
func DefaultConfig() Config {
	return Config{
		Topology:       Sphere,
		Count:          24,
		DistanceFactor: 1.5,
		HeightLevels:   3,
		ElevationMin:   -30,
		ElevationMax:   60,
	}
}

// Validate checks cfg against the parameter ranges. faceCount is the number
// of supplied mesh faces, consulted only in mesh-face mode.
func Validate(cfg Config, faceCount int) error {
	if cfg.Topology == MeshFace {
		if faceCount == 0 {
			return fmt.Errorf("%w: mesh-face mode requires at least one face", ErrInvalidConfig)
		}
	} else if cfg.Count < MinCount || cfg.Count > MaxCount {
		return fmt.Errorf("%w: count %d outside [%d,%d]", ErrInvalidConfig, cfg.Count, MinCount, MaxCount)
	}
	if cfg.DistanceFactor <= 0 {
		return fmt.Errorf("%w: distance factor %g must be > 0", ErrInvalidConfig, cfg.DistanceFactor)
	}
	if cfg.HeightLevels < 1 {
		return fmt.Errorf("%w: height levels %d must be >= 1", ErrInvalidConfig, cfg.HeightLevels)
	}
	if cfg.ElevationMin < -90 || cfg.ElevationMin > 90 || cfg.ElevationMax < -90 || cfg.ElevationMax > 90 {
		return fmt.Errorf("%w: elevation range [%g,%g] outside [-90,90]", ErrInvalidConfig, cfg.ElevationMin, cfg.ElevationMax)
	}
	if cfg.ElevationMin > cfg.ElevationMax {
		return fmt.Errorf("%w: elevation min %g > max %g", ErrInvalidConfig, cfg.ElevationMin, cfg.ElevationMax)
	}
	return nil
}
