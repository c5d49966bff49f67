package chargen

// upperGlyphs is the uppercase/graphics set indexed by screen code.
var upperGlyphs = [128][8]byte{
	{0x3C, 0x66, 0x6E, 0x6E, 0x60, 0x62, 0x3C, 0x00}, // @
	{0x18, 0x3C, 0x66, 0x7E, 0x66, 0x66, 0x66, 0x00}, // A
	{0x7C, 0x66, 0x66, 0x7C, 0x66, 0x66, 0x7C, 0x00}, // B
	{0x3C, 0x66, 0x60, 0x60, 0x60, 0x66, 0x3C, 0x00}, // C
	{0x78, 0x6C, 0x66, 0x66, 0x66, 0x6C, 0x78, 0x00}, // D
	{0x7E, 0x60, 0x60, 0x78, 0x60, 0x60, 0x7E, 0x00}, // E
	{0x7E, 0x60, 0x60, 0x78, 0x60, 0x60, 0x60, 0x00}, // F
	{0x3C, 0x66, 0x60, 0x6E, 0x66, 0x66, 0x3C, 0x00}, // G
	{0x66, 0x66, 0x66, 0x7E, 0x66, 0x66, 0x66, 0x00}, // H
	{0x3C, 0x18, 0x18, 0x18, 0x18, 0x18, 0x3C, 0x00}, // I
	{0x1E, 0x0C, 0x0C, 0x0C, 0x0C, 0x6C, 0x38, 0x00}, // J
	{0x66, 0x6C, 0x78, 0x70, 0x78, 0x6C, 0x66, 0x00}, // K
	{0x60, 0x60, 0x60, 0x60, 0x60, 0x60, 0x7E, 0x00}, // L
	{0x63, 0x77, 0x7F, 0x6B, 0x63, 0x63, 0x63, 0x00}, // M
	{0x66, 0x76, 0x7E, 0x7E, 0x6E, 0x66, 0x66, 0x00}, // N
	{0x3C, 0x66, 0x66, 0x66, 0x66, 0x66, 0x3C, 0x00}, // O
	{0x7C, 0x66, 0x66, 0x7C, 0x60, 0x60, 0x60, 0x00}, // P
	{0x3C, 0x66, 0x66, 0x66, 0x66, 0x3C, 0x0E, 0x00}, // Q
	{0x7C, 0x66, 0x66, 0x7C, 0x78, 0x6C, 0x66, 0x00}, // R
	{0x3C, 0x66, 0x60, 0x3C, 0x06, 0x66, 0x3C, 0x00}, // S
	{0x7E, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x00}, // T
	{0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x3C, 0x00}, // U
	{0x66, 0x66, 0x66, 0x66, 0x66, 0x3C, 0x18, 0x00}, // V
	{0x63, 0x63, 0x63, 0x6B, 0x7F, 0x77, 0x63, 0x00}, // W
	{0x66, 0x66, 0x3C, 0x18, 0x3C, 0x66, 0x66, 0x00}, // X
	{0x66, 0x66, 0x66, 0x3C, 0x18, 0x18, 0x18, 0x00}, // Y
	{0x7E, 0x06, 0x0C, 0x18, 0x30, 0x60, 0x7E, 0x00}, // Z
	{0x3C, 0x30, 0x30, 0x30, 0x30, 0x30, 0x3C, 0x00}, // [
	{0x0C, 0x12, 0x30, 0x7C, 0x30, 0x62, 0xFC, 0x00}, // pound
	{0x3C, 0x0C, 0x0C, 0x0C, 0x0C, 0x0C, 0x3C, 0x00}, // ]
	{0x00, 0x18, 0x3C, 0x7E, 0x18, 0x18, 0x18, 0x18}, // arrow up
	{0x00, 0x10, 0x30, 0x7F, 0x7F, 0x30, 0x10, 0x00}, // arrow left
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, // space
	{0x18, 0x18, 0x18, 0x18, 0x00, 0x00, 0x18, 0x00}, // !
	{0x66, 0x66, 0x66, 0x00, 0x00, 0x00, 0x00, 0x00}, // "
	{0x66, 0x66, 0xFF, 0x66, 0xFF, 0x66, 0x66, 0x00}, // #
	{0x18, 0x3E, 0x60, 0x3C, 0x06, 0x7C, 0x18, 0x00}, // $
	{0x62, 0x66, 0x0C, 0x18, 0x30, 0x66, 0x46, 0x00}, // %
	{0x3C, 0x66, 0x3C, 0x38, 0x67, 0x66, 0x3F, 0x00}, // &
	{0x06, 0x0C, 0x18, 0x00, 0x00, 0x00, 0x00, 0x00}, // '
	{0x0C, 0x18, 0x30, 0x30, 0x30, 0x18, 0x0C, 0x00}, // (
	{0x30, 0x18, 0x0C, 0x0C, 0x0C, 0x18, 0x30, 0x00}, // )
	{0x00, 0x66, 0x3C, 0xFF, 0x3C, 0x66, 0x00, 0x00}, // *
	{0x00, 0x18, 0x18, 0x7E, 0x18, 0x18, 0x00, 0x00}, // +
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x18, 0x30}, // ,
	{0x00, 0x00, 0x00, 0x7E, 0x00, 0x00, 0x00, 0x00}, // -
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x18, 0x00}, // .
	{0x00, 0x03, 0x06, 0x0C, 0x18, 0x30, 0x60, 0x00}, // /
	{0x3C, 0x66, 0x6E, 0x76, 0x66, 0x66, 0x3C, 0x00}, // 0
	{0x18, 0x18, 0x38, 0x18, 0x18, 0x18, 0x7E, 0x00}, // 1
	{0x3C, 0x66, 0x06, 0x0C, 0x30, 0x60, 0x7E, 0x00}, // 2
	{0x3C, 0x66, 0x06, 0x1C, 0x06, 0x66, 0x3C, 0x00}, // 3
	{0x06, 0x0E, 0x1E, 0x66, 0x7F, 0x06, 0x06, 0x00}, // 4
	{0x7E, 0x60, 0x7C, 0x06, 0x06, 0x66, 0x3C, 0x00}, // 5
	{0x3C, 0x66, 0x60, 0x7C, 0x66, 0x66, 0x3C, 0x00}, // 6
	{0x7E, 0x66, 0x0C, 0x18, 0x18, 0x18, 0x18, 0x00}, // 7
	{0x3C, 0x66, 0x66, 0x3C, 0x66, 0x66, 0x3C, 0x00}, // 8
	{0x3C, 0x66, 0x66, 0x3E, 0x06, 0x66, 0x3C, 0x00}, // 9
	{0x00, 0x00, 0x18, 0x00, 0x00, 0x18, 0x00, 0x00}, // :
	{0x00, 0x00, 0x18, 0x00, 0x00, 0x18, 0x18, 0x30}, // ;
	{0x0E, 0x18, 0x30, 0x60, 0x30, 0x18, 0x0E, 0x00}, // <
	{0x00, 0x00, 0x7E, 0x00, 0x7E, 0x00, 0x00, 0x00}, // =
	{0x70, 0x18, 0x0C, 0x06, 0x0C, 0x18, 0x70, 0x00}, // >
	{0x3C, 0x66, 0x06, 0x0C, 0x18, 0x00, 0x18, 0x00}, // ?
	{0x00, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00}, // horizontal line
	{0x08, 0x1C, 0x3E, 0x7F, 0x7F, 0x1C, 0x3E, 0x00}, // spade
	{0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18}, // vertical line
	{0x00, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00},
	{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00},
	{0x00, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00},
	{0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30},
	{0x0C, 0x0C, 0x0C, 0x0C, 0x0C, 0x0C, 0x0C, 0x0C},
	{0x00, 0x00, 0x00, 0xE0, 0xF0, 0x38, 0x18, 0x18}, // rounded corner
	{0x18, 0x18, 0x1C, 0x0F, 0x07, 0x00, 0x00, 0x00},
	{0x18, 0x18, 0x38, 0xF0, 0xE0, 0x00, 0x00, 0x00},
	{0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xFF, 0xFF},
	{0xC0, 0xE0, 0x70, 0x38, 0x1C, 0x0E, 0x07, 0x03}, // diagonal
	{0x03, 0x07, 0x0E, 0x1C, 0x38, 0x70, 0xE0, 0xC0},
	{0xFF, 0xFF, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0},
	{0xFF, 0xFF, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03},
	{0x00, 0x3C, 0x7E, 0x7E, 0x7E, 0x7E, 0x3C, 0x00}, // filled circle
	{0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0x00},
	{0x36, 0x7F, 0x7F, 0x7F, 0x3E, 0x1C, 0x08, 0x00}, // heart
	{0x60, 0x60, 0x60, 0x60, 0x60, 0x60, 0x60, 0x60},
	{0x00, 0x00, 0x00, 0x07, 0x0F, 0x1C, 0x18, 0x18},
	{0xC3, 0xE7, 0x7E, 0x3C, 0x3C, 0x7E, 0xE7, 0xC3}, // cross
	{0x00, 0x3C, 0x7E, 0x66, 0x66, 0x7E, 0x3C, 0x00}, // circle
	{0x18, 0x18, 0x66, 0x66, 0x18, 0x18, 0x3C, 0x00}, // club
	{0x06, 0x06, 0x06, 0x06, 0x06, 0x06, 0x06, 0x06},
	{0x08, 0x1C, 0x3E, 0x7F, 0x3E, 0x1C, 0x08, 0x00}, // diamond
	{0x18, 0x18, 0x18, 0xFF, 0xFF, 0x18, 0x18, 0x18}, // plus
	{0xC0, 0xC0, 0x30, 0x30, 0xC0, 0xC0, 0x30, 0x30},
	{0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18},
	{0x00, 0x00, 0x03, 0x3E, 0x76, 0x36, 0x36, 0x00}, // pi
	{0xFF, 0x7F, 0x3F, 0x1F, 0x0F, 0x07, 0x03, 0x01},
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, // shifted space
	{0xF0, 0xF0, 0xF0, 0xF0, 0xF0, 0xF0, 0xF0, 0xF0}, // left half
	{0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}, // lower half
	{0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF},
	{0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0},
	{0xCC, 0xCC, 0x33, 0x33, 0xCC, 0xCC, 0x33, 0x33}, // checkerboard
	{0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03},
	{0x00, 0x00, 0x00, 0x00, 0xCC, 0xCC, 0x33, 0x33},
	{0xFF, 0xFE, 0xFC, 0xF8, 0xF0, 0xE0, 0xC0, 0x80},
	{0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0x03},
	{0x18, 0x18, 0x18, 0x1F, 0x1F, 0x18, 0x18, 0x18},
	{0x00, 0x00, 0x00, 0x00, 0x0F, 0x0F, 0x0F, 0x0F},
	{0x18, 0x18, 0x18, 0x1F, 0x1F, 0x00, 0x00, 0x00},
	{0x00, 0x00, 0x00, 0xF8, 0xF8, 0x18, 0x18, 0x18},
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF},
	{0x00, 0x00, 0x00, 0x1F, 0x1F, 0x18, 0x18, 0x18},
	{0x18, 0x18, 0x18, 0xFF, 0xFF, 0x00, 0x00, 0x00},
	{0x00, 0x00, 0x00, 0xFF, 0xFF, 0x18, 0x18, 0x18},
	{0x18, 0x18, 0x18, 0xF8, 0xF8, 0x18, 0x18, 0x18},
	{0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0, 0xC0},
	{0xE0, 0xE0, 0xE0, 0xE0, 0xE0, 0xE0, 0xE0, 0xE0},
	{0x07, 0x07, 0x07, 0x07, 0x07, 0x07, 0x07, 0x07},
	{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00},
	{0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF},
	{0x03, 0x03, 0x03, 0x03, 0x03, 0x03, 0xFF, 0xFF},
	{0x00, 0x00, 0x00, 0x00, 0xF0, 0xF0, 0xF0, 0xF0},
	{0x0F, 0x0F, 0x0F, 0x0F, 0x00, 0x00, 0x00, 0x00},
	{0x18, 0x18, 0x18, 0xF8, 0xF8, 0x00, 0x00, 0x00},
	{0xF0, 0xF0, 0xF0, 0xF0, 0x00, 0x00, 0x00, 0x00},
	{0xF0, 0xF0, 0xF0, 0xF0, 0x0F, 0x0F, 0x0F, 0x0F},
}

// lowercaseLetters replaces screen codes 1-26 in the lowercase set. The
// uppercase letters move to screen codes 65-90.
var lowercaseLetters = [26][8]byte{
	{0x00, 0x00, 0x3C, 0x06, 0x3E, 0x66, 0x3E, 0x00}, // a
	{0x00, 0x60, 0x60, 0x7C, 0x66, 0x66, 0x7C, 0x00}, // b
	{0x00, 0x00, 0x3C, 0x60, 0x60, 0x60, 0x3C, 0x00}, // c
	{0x00, 0x06, 0x06, 0x3E, 0x66, 0x66, 0x3E, 0x00}, // d
	{0x00, 0x00, 0x3C, 0x66, 0x7E, 0x60, 0x3C, 0x00}, // e
	{0x00, 0x0E, 0x18, 0x3E, 0x18, 0x18, 0x18, 0x00}, // f
	{0x00, 0x00, 0x3E, 0x66, 0x66, 0x3E, 0x06, 0x7C}, // g
	{0x00, 0x60, 0x60, 0x7C, 0x66, 0x66, 0x66, 0x00}, // h
	{0x00, 0x18, 0x00, 0x38, 0x18, 0x18, 0x3C, 0x00}, // i
	{0x00, 0x06, 0x00, 0x06, 0x06, 0x06, 0x06, 0x3C}, // j
	{0x00, 0x60, 0x60, 0x6C, 0x78, 0x6C, 0x66, 0x00}, // k
	{0x00, 0x38, 0x18, 0x18, 0x18, 0x18, 0x3C, 0x00}, // l
	{0x00, 0x00, 0x66, 0x7F, 0x7F, 0x6B, 0x63, 0x00}, // m
	{0x00, 0x00, 0x7C, 0x66, 0x66, 0x66, 0x66, 0x00}, // n
	{0x00, 0x00, 0x3C, 0x66, 0x66, 0x66, 0x3C, 0x00}, // o
	{0x00, 0x00, 0x7C, 0x66, 0x66, 0x7C, 0x60, 0x60}, // p
	{0x00, 0x00, 0x3E, 0x66, 0x66, 0x3E, 0x06, 0x06}, // q
	{0x00, 0x00, 0x7C, 0x66, 0x60, 0x60, 0x60, 0x00}, // r
	{0x00, 0x00, 0x3E, 0x60, 0x3C, 0x06, 0x7C, 0x00}, // s
	{0x00, 0x18, 0x7E, 0x18, 0x18, 0x18, 0x0E, 0x00}, // t
	{0x00, 0x00, 0x66, 0x66, 0x66, 0x66, 0x3E, 0x00}, // u
	{0x00, 0x00, 0x66, 0x66, 0x66, 0x3C, 0x18, 0x00}, // v
	{0x00, 0x00, 0x63, 0x6B, 0x7F, 0x3E, 0x36, 0x00}, // w
	{0x00, 0x00, 0x66, 0x3C, 0x18, 0x3C, 0x66, 0x00}, // x
	{0x00, 0x00, 0x66, 0x66, 0x66, 0x3E, 0x0C, 0x78}, // y
	{0x00, 0x00, 0x7E, 0x0C, 0x18, 0x30, 0x7E, 0x00}, // z
}

// lowerSymbols are the graphic symbols that differ between the two sets.
var lowerSymbols = map[int][8]byte{
	94:  {0xCC, 0xCC, 0x33, 0x33, 0xCC, 0xCC, 0x33, 0x33},
	95:  {0xCC, 0x99, 0x33, 0x66, 0xCC, 0x99, 0x33, 0x66},
	105: {0x33, 0x99, 0xCC, 0x66, 0x33, 0x99, 0xCC, 0x66},
	122: {0x01, 0x03, 0x06, 0x6C, 0x78, 0x70, 0x60, 0x00}, // check mark
}
