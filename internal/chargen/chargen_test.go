package chargen

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func glyph(set Charset, code byte) [8]byte {
	rom := ROM(set)
	var g [8]byte
	copy(g[:], rom[int(code)*8:])
	return g
}

func TestUppercaseGlyphs(t *testing.T) {
	assert.Equal(t, [8]byte{0x18, 0x3C, 0x66, 0x7E, 0x66, 0x66, 0x66, 0x00}, glyph(Uppercase, 1))
	assert.Equal(t, [8]byte{}, glyph(Uppercase, 32))
	assert.Equal(t, [8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, glyph(Uppercase, 160))
}

func TestInvertedHalf(t *testing.T) {
	for _, set := range []Charset{Uppercase, Lowercase} {
		rom := ROM(set)
		for i := 0; i < Size/2; i++ {
			assert.Equal(t, ^rom[i], rom[i+Size/2])
		}
	}
}

func TestLowercaseSet(t *testing.T) {
	// lowercase a at screen code 1, uppercase A moved to 65
	assert.Equal(t, [8]byte{0x00, 0x00, 0x3C, 0x06, 0x3E, 0x66, 0x3E, 0x00}, glyph(Lowercase, 1))
	assert.Equal(t, glyph(Uppercase, 1), glyph(Lowercase, 65))
	assert.Equal(t, glyph(Uppercase, 26), glyph(Lowercase, 90))

	// digits and punctuation are shared
	for code := byte(27); code < 64; code++ {
		assert.Equal(t, glyph(Uppercase, code), glyph(Lowercase, code))
	}
	assert.Equal(t, glyph(Uppercase, 0), glyph(Lowercase, 0))
}

func TestROMReturnsCopy(t *testing.T) {
	rom := ROM(Uppercase)
	rom[8] = 0x00
	assert.Equal(t, byte(0x18), ROM(Uppercase)[8])
}

func TestForOffset(t *testing.T) {
	tests := []struct {
		offset uint16
		want   Charset
		ok     bool
	}{
		{0x0000, 0, false},
		{0x0800, 0, false},
		{0x1000, Uppercase, true},
		{0x1800, Lowercase, true},
		{0x2000, 0, false},
		{0x3800, 0, false},
	}

	for _, tt := range tests {
		got, ok := ForOffset(tt.offset)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestCharsetString(t *testing.T) {
	assert.Equal(t, "uppercase", Uppercase.String())
	assert.Equal(t, "lowercase", Lowercase.String())
}
