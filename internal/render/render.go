// Package render rasterizes a VIC-II display state and its memory snapshot
// into an RGB image.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/retroenv/vicsnap/internal/palette"
	"github.com/retroenv/vicsnap/internal/snapshot"
	"github.com/retroenv/vicsnap/internal/vic"
	"golang.org/x/image/draw"
)

// ErrInvalidOptions is returned for render options out of range.
var ErrInvalidOptions = errors.New("invalid render options")

// Display geometry.
const (
	Columns  = 40
	Rows     = 25
	CellSize = 8
	Width    = Columns * CellSize
	Height   = Rows * CellSize

	BorderSize = 32 // border width on each side when the border is included

	MinScale     = 1
	MaxScale     = 4
	DefaultScale = 2
)

// Options controls the output geometry of a render.
type Options struct {
	Scale  int  // integer scale factor, 1-4
	Border bool // include the border around the display area
}

// DefaultOptions returns the default render options.
func DefaultOptions() Options {
	return Options{
		Scale:  DefaultScale,
		Border: true,
	}
}

// Validate checks that the options are in range.
func (o Options) Validate() error {
	if o.Scale < MinScale || o.Scale > MaxScale {
		return fmt.Errorf("%w: scale %d is not in range %d-%d", ErrInvalidOptions, o.Scale, MinScale, MaxScale)
	}
	return nil
}

// Size returns the dimensions of the image rendered with the options.
func (o Options) Size() (width, height int) {
	border := 0
	if o.Border {
		border = BorderSize
	}
	return (Width + 2*border) * o.Scale, (Height + 2*border) * o.Scale
}

// Render draws the active mode of the state.
func Render(st vic.State, snap *snapshot.Snapshot, opts Options) (*image.RGBA, error) {
	return RenderMode(st.Mode(), st, snap, opts)
}

// RenderMode draws the state in the given mode, independent of the mode
// flags of the state. The returned image is complete, no partially drawn
// image is ever returned.
func RenderMode(mode vic.Mode, st vic.State, snap *snapshot.Snapshot, opts Options) (*image.RGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := snap.Require(mode); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", mode, err)
	}

	display := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fill(display, st.Background[0])

	switch mode {
	case vic.StandardText:
		drawStandardText(display, st, snap)
	case vic.MulticolorText:
		drawMulticolorText(display, st, snap)
	case vic.ExtendedBackgroundColor:
		drawExtendedColorText(display, st, snap)
	case vic.StandardBitmap:
		drawStandardBitmap(display, snap)
	case vic.MulticolorBitmap:
		drawMulticolorBitmap(display, st, snap)
	default:
		// unsupported flag combinations show the plain background
	}

	return compose(display, st.BorderColor, opts), nil
}

// compose surrounds the display area with the border and scales the result.
func compose(display *image.RGBA, borderColor uint8, opts Options) *image.RGBA {
	frame := display
	if opts.Border {
		frame = image.NewRGBA(image.Rect(0, 0, Width+2*BorderSize, Height+2*BorderSize))
		fill(frame, borderColor)
		target := image.Rect(BorderSize, BorderSize, BorderSize+Width, BorderSize+Height)
		draw.Draw(frame, target, display, image.Point{}, draw.Src)
	}

	if opts.Scale == 1 {
		return frame
	}

	bounds := frame.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*opts.Scale, bounds.Dy()*opts.Scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), frame, bounds, draw.Src, nil)
	return scaled
}

func fill(img *image.RGBA, index uint8) {
	draw.Draw(img, img.Bounds(), &image.Uniform{C: palette.RGBA(index)}, image.Point{}, draw.Src)
}
