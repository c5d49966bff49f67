package render

import (
	"image"

	"github.com/retroenv/vicsnap/internal/palette"
	"github.com/retroenv/vicsnap/internal/snapshot"
	"github.com/retroenv/vicsnap/internal/vic"
)

const multicolorCellFlag = 0x08 // color map bit selecting multicolor in text mode

// drawStandardText draws 1 bit per pixel characters, set bits use the color
// map nibble of the cell.
func drawStandardText(img *image.RGBA, st vic.State, snap *snapshot.Snapshot) {
	screen, color, chars := snap.Screen(), snap.Color(), snap.Chars()
	forEachCell(func(cell, x, y int) {
		glyph := glyphRows(chars, screen[cell])
		fg := color[cell] & 0x0F
		for row, bits := range glyph {
			hiresRow(img, x, y+row, bits, fg, st.Background[0])
		}
	})
}

// drawMulticolorText draws cells with bit 3 of the color map set as double
// width pixels with 4 colors, all other cells as standard text.
func drawMulticolorText(img *image.RGBA, st vic.State, snap *snapshot.Snapshot) {
	screen, color, chars := snap.Screen(), snap.Color(), snap.Chars()
	forEachCell(func(cell, x, y int) {
		glyph := glyphRows(chars, screen[cell])
		fg := color[cell] & 0x0F

		if fg&multicolorCellFlag == 0 {
			for row, bits := range glyph {
				hiresRow(img, x, y+row, bits, fg, st.Background[0])
			}
			return
		}

		colors := [4]uint8{st.Background[0], st.Background[1], st.Background[2], fg & 0x07}
		for row, bits := range glyph {
			multicolorRow(img, x, y+row, bits, colors)
		}
	})
}

// drawExtendedColorText draws 64 characters with one of four background
// colors selected by the top 2 bits of the screen map byte.
func drawExtendedColorText(img *image.RGBA, st vic.State, snap *snapshot.Snapshot) {
	screen, color, chars := snap.Screen(), snap.Color(), snap.Chars()
	forEachCell(func(cell, x, y int) {
		code := screen[cell]
		glyph := glyphRows(chars, code&0x3F)
		fg := color[cell] & 0x0F
		bg := st.Background[code>>6]
		for row, bits := range glyph {
			hiresRow(img, x, y+row, bits, fg, bg)
		}
	})
}

// drawStandardBitmap draws 1 bit per pixel bitmap data, the screen map
// holds the set color in the high and the clear color in the low nibble.
func drawStandardBitmap(img *image.RGBA, snap *snapshot.Snapshot) {
	screen, bitmap := snap.Screen(), snap.Bitmap()
	forEachCell(func(cell, x, y int) {
		fg := screen[cell] >> 4
		bg := screen[cell] & 0x0F
		offset := cell * CellSize
		for row := 0; row < CellSize; row++ {
			hiresRow(img, x, y+row, bitmap[offset+row], fg, bg)
		}
	})
}

// drawMulticolorBitmap draws 2 bits per double width pixel with 4 colors
// per cell.
func drawMulticolorBitmap(img *image.RGBA, st vic.State, snap *snapshot.Snapshot) {
	screen, color, bitmap := snap.Screen(), snap.Color(), snap.Bitmap()
	forEachCell(func(cell, x, y int) {
		colors := [4]uint8{
			st.Background[0],
			screen[cell] >> 4,
			screen[cell] & 0x0F,
			color[cell] & 0x0F,
		}
		offset := cell * CellSize
		for row := 0; row < CellSize; row++ {
			multicolorRow(img, x, y+row, bitmap[offset+row], colors)
		}
	})
}

// forEachCell calls fn for each of the 40x25 cells with the cell index and
// the pixel position of its top left corner.
func forEachCell(fn func(cell, x, y int)) {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			fn(row*Columns+col, col*CellSize, row*CellSize)
		}
	}
}

func glyphRows(chars []byte, code byte) []byte {
	offset := int(code) * CellSize
	return chars[offset : offset+CellSize]
}

// hiresRow draws 8 pixels, the most significant bit is the leftmost pixel.
func hiresRow(img *image.RGBA, x, y int, bits, fg, bg uint8) {
	fgColor, bgColor := palette.RGBA(fg), palette.RGBA(bg)
	for i := 0; i < CellSize; i++ {
		if bits&(0x80>>i) != 0 {
			img.SetRGBA(x+i, y, fgColor)
		} else {
			img.SetRGBA(x+i, y, bgColor)
		}
	}
}

// multicolorRow draws 4 double width pixels from bit pairs, bits 7-6 are
// the leftmost pair.
func multicolorRow(img *image.RGBA, x, y int, bits uint8, colors [4]uint8) {
	for i := 0; i < CellSize/2; i++ {
		c := palette.RGBA(colors[bits>>(6-2*i)&0x03])
		img.SetRGBA(x+2*i, y, c)
		img.SetRGBA(x+2*i+1, y, c)
	}
}
