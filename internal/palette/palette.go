// Package palette contains the fixed 16 color palette of the VIC-II.
package palette

import "image/color"

// Size is the number of colors of the palette.
const Size = 16

// Color indexes of the palette.
const (
	Black = iota
	White
	Red
	Cyan
	Purple
	Green
	Blue
	Yellow
	Orange
	Brown
	LightRed
	DarkGrey
	Grey
	LightGreen
	LightBlue
	LightGrey
)

var colors = [Size]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0x88, 0x00, 0x00, 0xFF},
	{0xAA, 0xFF, 0xEE, 0xFF},
	{0xCC, 0x44, 0xCC, 0xFF},
	{0x00, 0xCC, 0x55, 0xFF},
	{0x00, 0x00, 0xAA, 0xFF},
	{0xEE, 0xEE, 0x77, 0xFF},
	{0xDD, 0x88, 0x55, 0xFF},
	{0x66, 0x44, 0x00, 0xFF},
	{0xFF, 0x77, 0x77, 0xFF},
	{0x33, 0x33, 0x33, 0xFF},
	{0x77, 0x77, 0x77, 0xFF},
	{0xAA, 0xFF, 0x66, 0xFF},
	{0x00, 0x88, 0xFF, 0xFF},
	{0xBB, 0xBB, 0xBB, 0xFF},
}

var names = [Size]string{
	"black", "white", "red", "cyan", "purple", "green", "blue", "yellow",
	"orange", "brown", "light red", "dark grey", "grey", "light green", "light blue", "light grey",
}

// RGBA returns the color for a palette index. Only the low 4 bits of the
// index are used, like the color registers of the chip do.
func RGBA(index uint8) color.RGBA {
	return colors[index&0x0F]
}

// Name returns the name of the color at the palette index.
func Name(index uint8) string {
	return names[index&0x0F]
}

// Index returns the palette index of an exact palette color.
func Index(c color.RGBA) (uint8, bool) {
	for i, pc := range colors {
		if pc == c {
			return uint8(i), true
		}
	}
	return 0, false
}
