package batch

import (
	"fmt"
	"path/filepath"

	"github.com/Faultbox/camarray/internal/render"
)

// FilePrefix is the fixed stem of every output frame. Keeping it stable
// across runs is what makes skip-existing resume correct.
const FilePrefix = "ArrayCam"

// PathFor returns the output path for a frame index. Pure: the same
// (dir, index, format) always yields the same path.
func PathFor(outputDir string, index int, format render.Format) string {
	return filepath.Join(outputDir, fmt.Sprintf("%s_%03d.%s", FilePrefix, index, format.Ext()))
}
