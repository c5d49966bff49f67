package render

import (
	"errors"
	"image"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-test/deep"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/vicsnap/internal/chargen"
	"github.com/retroenv/vicsnap/internal/palette"
	"github.com/retroenv/vicsnap/internal/snapshot"
	"github.com/retroenv/vicsnap/internal/vic"
)

var unscaled = Options{Scale: 1}

type testScreen struct {
	screen []byte
	color  []byte
	bitmap []byte
	chars  []byte
}

func newTestScreen() *testScreen {
	return &testScreen{
		screen: make([]byte, vic.ScreenMapSize),
		color:  make([]byte, vic.ColorMapSize),
		bitmap: make([]byte, vic.BitmapDataSize),
		chars:  make([]byte, vic.CharDataSize),
	}
}

func (s *testScreen) snapshot(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	snap, err := snapshot.New(s.screen, s.color, s.bitmap, s.chars, snapshot.CharSourceRAM)
	assert.NoError(t, err)
	return snap
}

func testState(mode vic.Mode, border uint8, background ...uint8) vic.State {
	st := vic.State{BorderColor: border}
	copy(st.Background[:], background)
	return st.WithMode(mode)
}

func pixelIndex(t *testing.T, img *image.RGBA, x, y int) uint8 {
	t.Helper()
	idx, ok := palette.Index(img.RGBAAt(x, y))
	if !ok {
		t.Fatalf("pixel %d,%d is not a palette color: %v", x, y, img.RGBAAt(x, y))
	}
	return idx
}

func rowIndexes(t *testing.T, img *image.RGBA, x, y, count int) []uint8 {
	t.Helper()
	indexes := make([]uint8, count)
	for i := range indexes {
		indexes[i] = pixelIndex(t, img, x+i, y)
	}
	return indexes
}

func TestOptionsSize(t *testing.T) {
	tests := []struct {
		opts          Options
		width, height int
	}{
		{Options{Scale: 1}, 320, 200},
		{Options{Scale: 1, Border: true}, 384, 264},
		{Options{Scale: 2, Border: true}, 768, 528},
		{Options{Scale: 4}, 1280, 800},
	}

	s := newTestScreen()
	for _, tt := range tests {
		w, h := tt.opts.Size()
		assert.Equal(t, tt.width, w)
		assert.Equal(t, tt.height, h)

		img, err := Render(testState(vic.StandardText, 0), s.snapshot(t), tt.opts)
		assert.NoError(t, err)
		assert.Equal(t, tt.width, img.Bounds().Dx())
		assert.Equal(t, tt.height, img.Bounds().Dy())
	}
}

func TestInvalidOptions(t *testing.T) {
	s := newTestScreen()
	for _, scale := range []int{0, 5, -1} {
		_, err := Render(testState(vic.StandardText, 0), s.snapshot(t), Options{Scale: scale})
		assert.True(t, errors.Is(err, ErrInvalidOptions))
	}
}

func TestMalformedSnapshot(t *testing.T) {
	ok := make([]byte, 1000)
	snap, err := snapshot.New(ok, ok, nil, nil, snapshot.CharSourceNone)
	assert.NoError(t, err)

	_, err = Render(testState(vic.StandardBitmap, 0), snap, unscaled)
	assert.True(t, errors.Is(err, snapshot.ErrMalformed))
	_, err = Render(testState(vic.StandardText, 0), snap, unscaled)
	assert.True(t, errors.Is(err, snapshot.ErrMalformed))
	_, err = Render(testState(vic.InvalidEcmBmm, 0), snap, unscaled)
	assert.NoError(t, err)
}

func TestStandardTextBlankGlyph(t *testing.T) {
	s := newTestScreen()
	for i := range s.color {
		s.color[i] = palette.White
	}

	img, err := Render(testState(vic.StandardText, palette.LightBlue, palette.Blue), s.snapshot(t), unscaled)
	assert.NoError(t, err)

	want := image.NewRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			want.SetRGBA(x, y, palette.RGBA(palette.Blue))
		}
	}
	if diff := deep.Equal(img, want); diff != nil {
		t.Errorf("images differ: %v", diff)
	}
}

func TestStandardTextGlyph(t *testing.T) {
	s := newTestScreen()
	rom := chargen.ROM(chargen.Uppercase)
	s.chars = rom[:]
	s.screen[41] = 1 // A in second row, second column
	s.color[41] = 0xF7

	img, err := Render(testState(vic.StandardText, 0, palette.Blue), s.snapshot(t), unscaled)
	assert.NoError(t, err)

	y, b, x := uint8(palette.Yellow), uint8(palette.Blue), 8
	assert.Equal(t, []uint8{b, b, b, y, y, b, b, b}, rowIndexes(t, img, x, 8, 8))  // 0x18
	assert.Equal(t, []uint8{b, y, y, y, y, y, y, b}, rowIndexes(t, img, x, 11, 8)) // 0x7E
	assert.Equal(t, []uint8{b, b, b, b, b, b, b, b}, rowIndexes(t, img, x, 15, 8)) // 0x00
	// character 0 is @ in the ROM
	assert.Equal(t, []uint8{b, b, 0, 0, 0, 0, b, b}, rowIndexes(t, img, 0, 0, 8))
}

func TestMulticolorText(t *testing.T) {
	s := newTestScreen()
	s.chars[8] = 0b11100100 // character 1, first row
	s.chars[16] = 0b10000001
	s.screen[0] = 1
	s.color[0] = 0x08 | palette.Green // multicolor, color RAM part 5
	s.screen[1] = 2
	s.color[1] = palette.Red // hires cell

	st := testState(vic.MulticolorText, 0, palette.Blue, palette.White, palette.Orange)
	img, err := Render(st, s.snapshot(t), unscaled)
	assert.NoError(t, err)

	// groups 11 10 01 00 -> color&7, bg2, bg1, bg0
	assert.Equal(t, []uint8{5, 5, 8, 8, 1, 1, 6, 6}, rowIndexes(t, img, 0, 0, 8))
	assert.Equal(t, []uint8{2, 6, 6, 6, 6, 6, 6, 2}, rowIndexes(t, img, 8, 0, 8))
}

func TestMulticolorTextUsesLowColorBits(t *testing.T) {
	s := newTestScreen()
	s.chars[8] = 0xFF
	s.screen[0] = 1
	s.color[0] = palette.LightGrey // 15: multicolor flag set, low bits 7

	img, err := Render(testState(vic.MulticolorText, 0), s.snapshot(t), unscaled)
	assert.NoError(t, err)
	assert.Equal(t, uint8(palette.Yellow), pixelIndex(t, img, 0, 0))
}

func TestExtendedBackgroundColor(t *testing.T) {
	s := newTestScreen()
	s.chars[3*8] = 0xF0
	for i := 0; i < 4; i++ {
		s.screen[i] = byte(i<<6) | 3 // same glyph, different background
		s.color[i] = palette.White
	}

	st := testState(vic.ExtendedBackgroundColor, 0, palette.Black, palette.Red, palette.Green, palette.Blue)
	img, err := Render(st, s.snapshot(t), unscaled)
	assert.NoError(t, err)

	for i, bg := range []uint8{palette.Black, palette.Red, palette.Green, palette.Blue} {
		assert.Equal(t, []uint8{1, 1, 1, 1, bg, bg, bg, bg}, rowIndexes(t, img, i*8, 0, 8))
		assert.Equal(t, bg, pixelIndex(t, img, i*8, 1))
	}
}

func TestStandardBitmap(t *testing.T) {
	s := newTestScreen()
	cell := 2*Columns + 3
	s.screen[cell] = 0x72 // yellow on red
	s.bitmap[cell*8+5] = 0b10100101
	s.color[cell] = palette.White // not used in hires bitmap mode

	img, err := Render(testState(vic.StandardBitmap, 0, palette.Blue), s.snapshot(t), unscaled)
	assert.NoError(t, err)

	y, r := uint8(palette.Yellow), uint8(palette.Red)
	assert.Equal(t, []uint8{y, r, y, r, r, y, r, y}, rowIndexes(t, img, 24, 21, 8))
	assert.Equal(t, []uint8{r, r, r, r, r, r, r, r}, rowIndexes(t, img, 24, 16, 8))
}

func TestMulticolorBitmapFixedVector(t *testing.T) {
	s := newTestScreen()
	s.bitmap[0] = 0b11001001
	s.screen[0] = 0x23
	s.color[0] = 0x04

	img, err := Render(testState(vic.MulticolorBitmap, 0, 1), s.snapshot(t), unscaled)
	assert.NoError(t, err)

	// groups 11 00 10 01 -> indexes 3 0 2 1 -> colors 4 1 3 2, double width
	assert.Equal(t, []uint8{4, 4, 1, 1, 3, 3, 2, 2}, rowIndexes(t, img, 0, 0, 8))
}

func TestInvalidModesAreBlank(t *testing.T) {
	s := newTestScreen()
	for i := range s.bitmap {
		s.bitmap[i] = 0xFF
	}
	for i := range s.chars {
		s.chars[i] = 0xFF
	}
	for i := range s.screen {
		s.screen[i] = 0x12
		s.color[i] = 0x0E
	}

	for _, mode := range []vic.Mode{vic.InvalidEcmBmm, vic.InvalidEcmMcm} {
		img, err := Render(testState(mode, 0, palette.Purple), s.snapshot(t), unscaled)
		assert.NoError(t, err)
		for y := 0; y < Height; y += 7 {
			for x := 0; x < Width; x += 3 {
				if idx := pixelIndex(t, img, x, y); idx != palette.Purple {
					t.Fatalf("%s: pixel %d,%d has color %d", mode, x, y, idx)
				}
			}
		}
	}
}

func TestBorder(t *testing.T) {
	s := newTestScreen()
	s.bitmap[0] = 0x80
	s.screen[0] = 0x10

	st := testState(vic.StandardBitmap, palette.LightBlue, palette.Blue)
	img, err := Render(st, s.snapshot(t), Options{Scale: 1, Border: true})
	assert.NoError(t, err)

	assert.Equal(t, uint8(palette.LightBlue), pixelIndex(t, img, 0, 0))
	assert.Equal(t, uint8(palette.LightBlue), pixelIndex(t, img, BorderSize-1, BorderSize))
	assert.Equal(t, uint8(palette.White), pixelIndex(t, img, BorderSize, BorderSize))
	assert.Equal(t, uint8(palette.Black), pixelIndex(t, img, BorderSize+1, BorderSize))
	assert.Equal(t, uint8(palette.LightBlue), pixelIndex(t, img, BorderSize+Width, BorderSize+Height-1))
	assert.Equal(t, uint8(palette.LightBlue), pixelIndex(t, img, 383, 263))
}

func TestScaleReplicatesPixels(t *testing.T) {
	s := newTestScreen()
	s.bitmap[0] = 0b10100000
	s.screen[0] = 0x10

	st := testState(vic.StandardBitmap, 0)
	for scale := MinScale; scale <= MaxScale; scale++ {
		img, err := Render(st, s.snapshot(t), Options{Scale: scale})
		assert.NoError(t, err)

		for x := 0; x < 4*scale; x++ {
			want := uint8(palette.Black)
			if (x/scale)%2 == 0 && x/scale < 3 {
				want = palette.White
			}
			for y := 0; y < scale; y++ {
				assert.Equal(t, want, pixelIndex(t, img, x, y))
			}
		}
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	s := newTestScreen()
	for i := range s.bitmap {
		s.bitmap[i] = byte(i * 7)
	}
	for i := range s.screen {
		s.screen[i] = byte(i * 13)
		s.color[i] = byte(i * 3)
	}
	for i := range s.chars {
		s.chars[i] = byte(i * 11)
	}
	snap := s.snapshot(t)

	for _, mode := range vic.ValidModes() {
		st := testState(mode, 3, 0, 1, 2, 3)
		first, err := Render(st, snap, DefaultOptions())
		assert.NoError(t, err)
		second, err := Render(st, snap, DefaultOptions())
		assert.NoError(t, err)
		if diff := deep.Equal(first.Pix, second.Pix); diff != nil {
			t.Fatalf("%s renders differ: %v\n%s", mode, diff, spew.Sdump(st))
		}
	}
}

func TestRenderModeOverridesFlags(t *testing.T) {
	s := newTestScreen()
	s.bitmap[0] = 0xFF
	s.screen[0] = 0x20

	st := testState(vic.StandardText, 0, palette.Blue)
	img, err := RenderMode(vic.StandardBitmap, st, s.snapshot(t), unscaled)
	assert.NoError(t, err)
	assert.Equal(t, uint8(palette.Red), pixelIndex(t, img, 0, 0))
}
