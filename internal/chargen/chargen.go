// Package chargen contains a built-in copy of the C64 character generator ROM.
//
// The VIC-II sees the character ROM at offsets $1000-$1FFF of VIC banks 0 and
// 2, but the CPU side memory read used by the capture only returns the RAM
// underneath. Character data in those locations is therefore taken from this
// table instead of being read from the device.
//
// Each set holds 256 glyphs of 8 bytes, one byte per pixel row with the most
// significant bit as the leftmost pixel. Glyphs 128-255 are the inverted
// glyphs 0-127.
package chargen

// Size is the size in bytes of one character set.
const Size = 2048

// Offsets of the two ROM sets inside a VIC bank that contains the ROM.
const (
	UppercaseOffset = 0x1000
	LowercaseOffset = 0x1800
)

// Charset selects one of the two sets of the character ROM.
type Charset int

// Character sets of the ROM.
const (
	Uppercase Charset = iota // uppercase letters and graphic symbols
	Lowercase                // lowercase and uppercase letters
)

// String returns the name of the character set.
func (c Charset) String() string {
	if c == Lowercase {
		return "lowercase"
	}
	return "uppercase"
}

var sets = [2][Size]byte{
	buildSet(&upperGlyphs),
	buildSet(lowerGlyphs()),
}

// ROM returns a copy of a character set.
func ROM(set Charset) [Size]byte {
	if set == Lowercase {
		return sets[Lowercase]
	}
	return sets[Uppercase]
}

// ForOffset returns the ROM set that the VIC-II sees at a character data
// offset inside a ROM bearing bank.
func ForOffset(offset uint16) (Charset, bool) {
	switch offset {
	case UppercaseOffset:
		return Uppercase, true
	case LowercaseOffset:
		return Lowercase, true
	default:
		return 0, false
	}
}

func buildSet(glyphs *[128][8]byte) [Size]byte {
	var data [Size]byte
	for code, rows := range glyphs {
		for row, b := range rows {
			data[code*8+row] = b
			data[(code+128)*8+row] = ^b
		}
	}
	return data
}

func lowerGlyphs() *[128][8]byte {
	glyphs := upperGlyphs
	for i, rows := range lowercaseLetters {
		glyphs[65+i] = upperGlyphs[1+i]
		glyphs[1+i] = rows
	}
	for code, rows := range lowerSymbols {
		glyphs[code] = rows
	}
	return &glyphs
}
