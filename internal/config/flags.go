package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagTarget   = flag.String("target", "", "Target object name")
	flagTopology = flag.String("topology", "", "Array topology (sphere, hemisphere, cylinder, grid, mesh-face)")
	flagCount    = flag.Int("count", 0, "Number of cameras")
	flagDistance = flag.Float64("distance-factor", 0, "Camera distance as a multiple of object size")
	flagOutput   = flag.String("output", "", "Output directory")
	flagFormat   = flag.String("format", "", "Output image format (png, jpg, tif, exr)")
	flagNoSkip   = flag.Bool("no-skip", false, "Re-render frames that already exist")
	flagHide     = flag.Bool("hide-target", false, "Hide the target object while rendering")
	flagSheet    = flag.Bool("contact-sheet", false, "Assemble a contact sheet after rendering")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTarget != "" {
		cfg.Target.Name = *flagTarget
	}
	if *flagTopology != "" {
		cfg.Array.Topology = *flagTopology
	}
	if *flagCount > 0 {
		cfg.Array.Count = *flagCount
	}
	if *flagDistance > 0 {
		cfg.Array.DistanceFactor = float32(*flagDistance)
	}
	if *flagOutput != "" {
		cfg.Output.Directory = *flagOutput
	}
	if *flagFormat != "" {
		cfg.Render.Format = *flagFormat
	}
	if *flagNoSkip {
		cfg.Render.SkipExisting = false
	}
	if *flagHide {
		cfg.Render.HideTarget = true
	}
	if *flagSheet {
		cfg.Output.ContactSheet = true
	}
}
