// Package config handles capture configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/camarray/internal/arraygen"
	"github.com/Faultbox/camarray/internal/render"
	"github.com/Faultbox/camarray/internal/scene"
	"github.com/Faultbox/camarray/pkg/math"
)

// Config holds all capture settings.
type Config struct {
	Target  TargetConfig  `yaml:"target"`
	Array   ArrayConfig   `yaml:"array"`
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// TargetConfig identifies the capture target. The bounding box is given
// explicitly because the real scene lives in the external renderer; faces
// are only needed for mesh-face mode.
type TargetConfig struct {
	Name  string       `yaml:"name"`
	Min   [3]float32   `yaml:"min"`
	Max   [3]float32   `yaml:"max"`
	Faces []FaceConfig `yaml:"faces,omitempty"`
}

// FaceConfig is one mesh face for mesh-face mode.
type FaceConfig struct {
	Center [3]float32 `yaml:"center"`
	Normal [3]float32 `yaml:"normal"`
}

// ArrayConfig holds the camera array parameters.
type ArrayConfig struct {
	Topology       string  `yaml:"topology"`
	Count          int     `yaml:"count"`
	DistanceFactor float32 `yaml:"distance_factor"`
	HeightLevels   int     `yaml:"height_levels"`
	ElevationMin   float32 `yaml:"elevation_min"`
	ElevationMax   float32 `yaml:"elevation_max"`
	NamePrefix     string  `yaml:"name_prefix"`
}

// RenderConfig holds batch render parameters. Command is the external
// renderer argv with per-frame placeholders; when empty the CLI runs a dry
// run that only lists the generated poses.
type RenderConfig struct {
	Command         []string `yaml:"command"`
	Format          string   `yaml:"format"`
	ResolutionScale float32  `yaml:"resolution_scale"`
	SkipExisting    bool     `yaml:"skip_existing"`
	HideTarget      bool     `yaml:"hide_target"`
}

// OutputConfig holds output file settings.
type OutputConfig struct {
	Directory    string `yaml:"directory"`
	ContactSheet bool   `yaml:"contact_sheet"`
	SheetPath    string `yaml:"sheet_path"`
	SheetColumns int    `yaml:"sheet_columns"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	gen := arraygen.DefaultConfig()
	return &Config{
		Array: ArrayConfig{
			Topology:       gen.Topology.String(),
			Count:          gen.Count,
			DistanceFactor: gen.DistanceFactor,
			HeightLevels:   gen.HeightLevels,
			ElevationMin:   gen.ElevationMin,
			ElevationMax:   gen.ElevationMax,
			NamePrefix:     "ArrayCam",
		},
		Render: RenderConfig{
			Format:          "png",
			ResolutionScale: 1.0,
			SkipExisting:    true,
			HideTarget:      false,
		},
		Output: OutputConfig{
			Directory:    "renders",
			ContactSheet: false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Generator converts the array section into a generator config.
func (c *Config) Generator() (arraygen.Config, error) {
	topology, err := arraygen.ParseTopology(c.Array.Topology)
	if err != nil {
		return arraygen.Config{}, err
	}
	return arraygen.Config{
		Topology:       topology,
		Count:          c.Array.Count,
		DistanceFactor: c.Array.DistanceFactor,
		HeightLevels:   c.Array.HeightLevels,
		ElevationMin:   c.Array.ElevationMin,
		ElevationMax:   c.Array.ElevationMax,
	}, nil
}

// Format converts the render format name into a render.Format.
func (c *Config) Format() (render.Format, error) {
	return render.ParseFormat(c.Render.Format)
}

// Object converts the target section into a scene object.
func (c *Config) Object() (scene.Object, error) {
	if c.Target.Name == "" {
		return scene.Object{}, fmt.Errorf("no target object configured")
	}
	obj := scene.Object{
		Name: c.Target.Name,
		Kind: scene.KindMesh,
		Min:  vec3(c.Target.Min),
		Max:  vec3(c.Target.Max),
	}
	for _, f := range c.Target.Faces {
		obj.Faces = append(obj.Faces, scene.Face{
			Center: vec3(f.Center),
			Normal: vec3(f.Normal),
		})
	}
	return obj, nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
