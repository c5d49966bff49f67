// Package snapshot plans the memory reads of a screen capture and holds the
// fetched memory regions that the renderer consumes.
package snapshot

import (
	"errors"
	"fmt"

	"github.com/retroenv/vicsnap/internal/vic"
)

// ErrMalformed is returned when a region of a snapshot does not have the
// size the renderer requires.
var ErrMalformed = errors.New("malformed snapshot")

// CharSource describes where the character data of a snapshot came from.
type CharSource int

// Character data sources.
const (
	CharSourceNone CharSource = iota // no character data, bitmap modes only
	CharSourceROM                    // built-in character ROM copy
	CharSourceRAM                    // read from device memory
)

func (c CharSource) String() string {
	switch c {
	case CharSourceROM:
		return "ROM"
	case CharSourceRAM:
		return "RAM"
	default:
		return "none"
	}
}

// Snapshot holds copies of the memory regions of one capture. It is not
// modified after creation, the slices returned by its accessors must be
// treated as read only.
type Snapshot struct {
	screen     []byte
	color      []byte
	bitmap     []byte
	chars      []byte
	charSource CharSource
}

// New creates a snapshot from copies of the given regions. The screen and
// color map are required, bitmap and character data may be nil.
func New(screen, color, bitmap, chars []byte, source CharSource) (*Snapshot, error) {
	if err := checkLength("screen map", screen, vic.ScreenMapSize); err != nil {
		return nil, err
	}
	if err := checkLength("color map", color, vic.ColorMapSize); err != nil {
		return nil, err
	}
	if bitmap != nil {
		if err := checkLength("bitmap", bitmap, vic.BitmapDataSize); err != nil {
			return nil, err
		}
	}
	if chars != nil {
		if err := checkLength("character data", chars, vic.CharDataSize); err != nil {
			return nil, err
		}
	}
	if chars == nil {
		source = CharSourceNone
	}

	return &Snapshot{
		screen:     clone(screen),
		color:      clone(color),
		bitmap:     clone(bitmap),
		chars:      clone(chars),
		charSource: source,
	}, nil
}

// Screen returns the screen map.
func (s *Snapshot) Screen() []byte { return s.screen }

// Color returns the color map.
func (s *Snapshot) Color() []byte { return s.color }

// Bitmap returns the bitmap data or nil if it was not fetched.
func (s *Snapshot) Bitmap() []byte { return s.bitmap }

// Chars returns the character data or nil if it was not fetched.
func (s *Snapshot) Chars() []byte { return s.chars }

// CharSource returns where the character data came from.
func (s *Snapshot) CharSource() CharSource { return s.charSource }

// Require checks that the snapshot contains all regions needed to render
// the mode.
func (s *Snapshot) Require(mode vic.Mode) error {
	if s == nil {
		return fmt.Errorf("%w: no snapshot", ErrMalformed)
	}
	if err := checkLength("screen map", s.screen, vic.ScreenMapSize); err != nil {
		return err
	}
	if err := checkLength("color map", s.color, vic.ColorMapSize); err != nil {
		return err
	}

	switch {
	case !mode.IsValid():
		return nil
	case mode.IsBitmap():
		return checkLength("bitmap", s.bitmap, vic.BitmapDataSize)
	default:
		return checkLength("character data", s.chars, vic.CharDataSize)
	}
}

func checkLength(name string, data []byte, want int) error {
	if len(data) != want {
		return fmt.Errorf("%w: %s has %d bytes, expected %d", ErrMalformed, name, len(data), want)
	}
	return nil
}

func clone(data []byte) []byte {
	if data == nil {
		return nil
	}
	c := make([]byte, len(data))
	copy(c, data)
	return c
}
