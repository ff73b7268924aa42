package arraygen

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/camarray/internal/bounds"
	"github.com/Faultbox/camarray/internal/scene"
	"github.com/Faultbox/camarray/pkg/math"
)

// Pose is a generated camera pose. Forward is a unit vector from Position
// toward the look target; Up is orthonormal to Forward.
type Pose struct {
	Position math.Vec3
	Forward  math.Vec3
	Up       math.Vec3
}

const degToRad = math32.Pi / 180

// Generate produces the ordered pose sequence for cfg around the analyzed
// bounds. faces is consulted in mesh-face mode only; there the result has
// one pose per face and cfg.Count is ignored. For every other topology the
// result has exactly cfg.Count poses.
func Generate(cfg Config, b bounds.ObjectBounds, faces []scene.Face) ([]Pose, error) {
	if err := Validate(cfg, len(faces)); err != nil {
		return nil, err
	}

	switch cfg.Topology {
	case Sphere:
		return ringArray(cfg, b, cfg.ElevationMin, cfg.ElevationMax), nil
	case Hemisphere:
		return ringArray(cfg, b, clampElevation(cfg.ElevationMin), clampElevation(cfg.ElevationMax)), nil
	case Cylinder:
		return cylinderArray(cfg, b), nil
	case Grid:
		return gridArray(cfg, b), nil
	case MeshFace:
		return meshFaceArray(cfg, b, faces)
	default:
		return nil, fmt.Errorf("%w: unknown topology %d", ErrInvalidConfig, cfg.Topology)
	}
}

// ringArray places cameras on rings of a sphere around the bounds center.
// Count is split across the rings as evenly as possible with the remainder
// going to the first rings; ring elevations interpolate linearly from
// elevMin to elevMax (a single ring sits at the midpoint). Odd rings are
// rotated by half an azimuth step so cameras do not stack vertically.
func ringArray(cfg Config, b bounds.ObjectBounds, elevMin, elevMax float32) []Pose {
	distance := b.Distance(cfg.DistanceFactor)
	counts := splitCount(cfg.Count, cfg.HeightLevels)

	poses := make([]Pose, 0, cfg.Count)
	for ring, ringCount := range counts {
		if ringCount == 0 {
			continue
		}
		t := float32(0.5)
		if cfg.HeightLevels > 1 {
			t = float32(ring) / float32(cfg.HeightLevels-1)
		}
		elev := math.Lerp(elevMin, elevMax, t)
		step := 360 / float32(ringCount)
		phase := float32(0)
		if ring%2 == 1 {
			phase = step / 2
		}
		for i := 0; i < ringCount; i++ {
			az := phase + float32(i)*step
			pos := b.Center.Add(sphericalOffset(distance, elev, az))
			poses = append(poses, lookAt(pos, b.Center))
		}
	}
	return poses
}

// cylinderArray places rings at evenly spaced heights spanning the bounds'
// vertical extent, bottom to top inclusive. Each camera looks horizontally
// at the vertical axis through the center at its own height, which keeps
// the viewing direction level instead of converging on the centroid.
func cylinderArray(cfg Config, b bounds.ObjectBounds) []Pose {
	distance := b.Distance(cfg.DistanceFactor)
	bottom := b.Center.Z - b.Dimensions.Z/2
	top := b.Center.Z + b.Dimensions.Z/2
	counts := splitCount(cfg.Count, cfg.HeightLevels)

	poses := make([]Pose, 0, cfg.Count)
	for ring, ringCount := range counts {
		if ringCount == 0 {
			continue
		}
		z := b.Center.Z
		if cfg.HeightLevels > 1 {
			z = math.Lerp(bottom, top, float32(ring)/float32(cfg.HeightLevels-1))
		}
		step := 360 / float32(ringCount)
		for i := 0; i < ringCount; i++ {
			az := float32(i) * step * degToRad
			pos := math.Vec3{
				X: b.Center.X + distance*math32.Cos(az),
				Y: b.Center.Y + distance*math32.Sin(az),
				Z: z,
			}
			target := math.Vec3{X: b.Center.X, Y: b.Center.Y, Z: z}
			poses = append(poses, lookAt(pos, target))
		}
	}
	return poses
}

// gridSpacing scales the gap between adjacent grid cameras to the object's
// largest dimension, so coverage grows with object size.
const gridSpacing = 0.5

// gridArray lays cameras out on the smallest rows x cols rectangle holding
// count, on a vertical plane at distance along -Y from the center, every
// camera looking at the center. Slots beyond count are truncated row-major.
func gridArray(cfg Config, b bounds.ObjectBounds) []Pose {
	distance := b.Distance(cfg.DistanceFactor)
	rows := int(math32.Ceil(math32.Sqrt(float32(cfg.Count))))
	cols := (cfg.Count + rows - 1) / rows
	spacing := b.MaxDimension * gridSpacing

	poses := make([]Pose, 0, cfg.Count)
	for row := 0; row < rows && len(poses) < cfg.Count; row++ {
		for col := 0; col < cols && len(poses) < cfg.Count; col++ {
			pos := math.Vec3{
				X: b.Center.X + (float32(col)-float32(cols-1)/2)*spacing,
				Y: b.Center.Y - distance,
				Z: b.Center.Z + (float32(rows-1)/2-float32(row))*spacing,
			}
			poses = append(poses, lookAt(pos, b.Center))
		}
	}
	return poses
}

// meshFaceArray places one camera per face at distance along the outward
// normal, looking back at the face center.
func meshFaceArray(cfg Config, b bounds.ObjectBounds, faces []scene.Face) ([]Pose, error) {
	distance := b.Distance(cfg.DistanceFactor)
	poses := make([]Pose, 0, len(faces))
	for i, face := range faces {
		n := face.Normal.Normalize()
		if n == (math.Vec3{}) {
			return nil, fmt.Errorf("%w: face %d has a zero-length normal", ErrInvalidConfig, i)
		}
		pos := face.Center.Add(n.Scale(distance))
		poses = append(poses, lookAt(pos, face.Center))
	}
	return poses, nil
}

// sphericalOffset returns the offset from center for a camera at the given
// distance, elevation and azimuth (both in degrees, Z-up, elevation 0 at
// the equator).
func sphericalOffset(distance, elevDeg, azDeg float32) math.Vec3 {
	elev := elevDeg * degToRad
	az := azDeg * degToRad
	return math.Vec3{
		X: distance * math32.Cos(elev) * math32.Cos(az),
		Y: distance * math32.Cos(elev) * math32.Sin(az),
		Z: distance * math32.Sin(elev),
	}
}

// lookAt builds a pose at pos facing target, with Up orthonormalized
// against world +Z. Looking straight up or down falls back to +Y so the
// basis stays well defined at the poles.
func lookAt(pos, target math.Vec3) Pose {
	forward := target.Sub(pos).Normalize()
	worldUp := math.Vec3{Z: 1}
	if math32.Abs(forward.Dot(worldUp)) > 0.999 {
		worldUp = math.Vec3{Y: 1}
	}
	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward).Normalize()
	return Pose{Position: pos, Forward: forward, Up: up}
}

// splitCount distributes total across rings as evenly as possible, with the
// remainder going to the first rings.
func splitCount(total, rings int) []int {
	counts := make([]int, rings)
	base := total / rings
	rem := total % rings
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}
	return counts
}

// clampElevation clamps an elevation into the hemisphere range [0,90].
func clampElevation(deg float32) float32 {
	if deg < 0 {
		return 0
	}
	if deg > 90 {
		return 90
	}
	return deg
}
