// Package sheet assembles rendered frames into a single contact-sheet
// image for quick capture QA: one thumbnail per frame, laid out in a grid
// in frame order.
package sheet

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// ErrNoFrames is returned when none of the given frame files could be read.
var ErrNoFrames = errors.New("sheet: no readable frames")

// Options control the contact-sheet layout.
type Options struct {
	// Columns in the grid; 0 picks the squarest layout.
	Columns int
	// Thumbnail cell size in pixels. Frames are scaled to fit, preserving
	// aspect ratio.
	CellWidth  int
	CellHeight int
	// Padding between cells in pixels.
	Padding int
}

// DefaultOptions returns the default contact-sheet layout.
func DefaultOptions() Options {
	return Options{
		CellWidth:  320,
		CellHeight: 240,
		Padding:    4,
	}
}

// Build composes a contact sheet from the frame files in order. Frames
// that cannot be decoded (missing files, formats without a decoder such as
// EXR) are skipped and returned in the second result. Build fails only
// when no frame is usable.
func Build(paths []string, opts Options) (*image.RGBA, []string, error) {
	if opts.CellWidth <= 0 || opts.CellHeight <= 0 {
		return nil, nil, fmt.Errorf("sheet: invalid cell size %dx%d", opts.CellWidth, opts.CellHeight)
	}

	var frames []image.Image
	var skipped []string
	for _, path := range paths {
		img, err := decode(path)
		if err != nil {
			skipped = append(skipped, path)
			continue
		}
		frames = append(frames, img)
	}
	if len(frames) == 0 {
		return nil, skipped, fmt.Errorf("%w (%d files skipped)", ErrNoFrames, len(skipped))
	}

	cols := opts.Columns
	if cols <= 0 {
		cols = squareColumns(len(frames))
	}
	rows := (len(frames) + cols - 1) / cols

	cellW, cellH, pad := opts.CellWidth, opts.CellHeight, opts.Padding
	sheetW := cols*cellW + (cols+1)*pad
	sheetH := rows*cellH + (rows+1)*pad
	dst := image.NewRGBA(image.Rect(0, 0, sheetW, sheetH))
	fill(dst, color.RGBA{32, 32, 32, 255})

	for i, frame := range frames {
		col := i % cols
		row := i / cols
		cell := image.Rect(
			pad+col*(cellW+pad),
			pad+row*(cellH+pad),
			pad+col*(cellW+pad)+cellW,
			pad+row*(cellH+pad)+cellH,
		)
		drawFitted(dst, cell, frame)
	}
	return dst, skipped, nil
}

// Write builds the contact sheet and writes it as PNG to outPath. It
// returns the skipped frame paths.
func Write(outPath string, paths []string, opts Options) ([]string, error) {
	img, skipped, err := Build(paths, opts)
	if err != nil {
		return skipped, err
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return skipped, fmt.Errorf("creating sheet directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return skipped, fmt.Errorf("creating sheet file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return skipped, fmt.Errorf("encoding sheet: %w", err)
	}
	return skipped, nil
}

// decode reads a frame by extension. EXR has no decoder here; those frames
// are reported as skipped by Build.
func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(f)
	case ".jpg", ".jpeg":
		return jpeg.Decode(f)
	case ".tif", ".tiff":
		return tiff.Decode(f)
	default:
		return nil, fmt.Errorf("no decoder for %s", filepath.Ext(path))
	}
}

// drawFitted scales src into cell preserving aspect ratio, centered.
func drawFitted(dst *image.RGBA, cell image.Rectangle, src image.Image) {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	sx := float64(cell.Dx()) / float64(sb.Dx())
	sy := float64(cell.Dy()) / float64(sb.Dy())
	scale := sx
	if sy < sx {
		scale = sy
	}
	w := int(float64(sb.Dx()) * scale)
	h := int(float64(sb.Dy()) * scale)
	x0 := cell.Min.X + (cell.Dx()-w)/2
	y0 := cell.Min.Y + (cell.Dy()-h)/2
	target := image.Rect(x0, y0, x0+w, y0+h)
	draw.CatmullRom.Scale(dst, target, src, sb, draw.Over, nil)
}

func fill(dst *image.RGBA, c color.RGBA) {
	for y := dst.Rect.Min.Y; y < dst.Rect.Max.Y; y++ {
		for x := dst.Rect.Min.X; x < dst.Rect.Max.X; x++ {
			dst.SetRGBA(x, y, c)
		}
	}
}

// squareColumns returns the column count of the squarest grid for n cells.
func squareColumns(n int) int {
	cols := 1
	for cols*cols < n {
		cols++
	}
	return cols
}
