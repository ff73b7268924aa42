// Package render defines the contract between the batch driver and the
// render collaborator. The module never rasterizes anything itself; a
// render.Func is an opaque callback that turns a camera rig into pixels at
// a path, and Exec adapts an external renderer command to that contract.
package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/Faultbox/camarray/internal/rig"
)

// ErrEnvironment marks unrecoverable environment failures (missing renderer
// binary, unwritable output). The batch driver aborts the whole run on
// errors wrapping it; every other render error is an isolated per-frame
// failure.
var ErrEnvironment = errors.New("render: environment failure")

// Format is the output image format.
type Format int

const (
	PNG Format = iota
	JPEG
	TIFF
	EXR
)

var formatExts = map[Format]string{
	PNG:  "png",
	JPEG: "jpg",
	TIFF: "tif",
	EXR:  "exr",
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if ext, ok := formatExts[f]; ok {
		return ext
	}
	return "png"
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	case EXR:
		return "EXR"
	default:
		return "unknown"
	}
}

// ParseFormat parses a format name as used in config files and flags.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png", "PNG":
		return PNG, nil
	case "jpg", "jpeg", "JPEG":
		return JPEG, nil
	case "tif", "tiff", "TIFF":
		return TIFF, nil
	case "exr", "EXR":
		return EXR, nil
	default:
		return PNG, fmt.Errorf("unknown image format %q", s)
	}
}

// MaxResolutionScale bounds Options.ResolutionScale.
const MaxResolutionScale = 2.0

// Options are the per-run render parameters threaded through to the
// collaborator. HideTarget is the collaborator's concern; the driver only
// passes it along and handles scene-side visibility itself.
type Options struct {
	Format          Format
	ResolutionScale float32
	HideTarget      bool
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.ResolutionScale <= 0 || o.ResolutionScale > MaxResolutionScale {
		return fmt.Errorf("resolution scale %g outside (0,%g]", o.ResolutionScale, float32(MaxResolutionScale))
	}
	return nil
}

// Func renders one frame from the given rig to outputPath. A nil return
// means the file at outputPath is complete. Implementations should honor
// ctx cancellation where they can, and wrap fatal errors in ErrEnvironment.
type Func func(ctx context.Context, r rig.Rig, outputPath string, opts Options) error
