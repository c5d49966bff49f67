// Package vic decodes a snapshot of the VIC-II video chip registers into the
// display state needed to rebuild the screen.
package vic

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for register blocks that can not be decoded.
var ErrInvalidInput = errors.New("invalid input")

// Register file and memory layout of the C64 as seen by the capture.
const (
	RegisterBase   = 0xD000 // first VIC-II register
	RegisterCount  = 48     // registers read per capture
	MinRegisters   = 0x25   // $D000-$D024 are needed for decoding
	PortAddress    = 0xDD00 // CIA2 port A, VIC bank selection
	ColorMapBase   = 0xD800 // color RAM, fixed location
	BankSize       = 0x4000
	ScreenMapSize  = 1000
	ColorMapSize   = 1000
	CharDataSize   = 2048
	BitmapDataSize = 8000
)

const (
	regControl1   = 0x11
	regControl2   = 0x16
	regMemoryPtrs = 0x18
	regBorder     = 0x20
	regBackground = 0x21

	control1ECM = 0x40
	control1BMM = 0x20
	control2MCM = 0x10
)

// State is the decoded display state of one register snapshot. The mode is
// derived from the three flags and never stored on its own.
type State struct {
	ExtendedColor bool
	BitmapMode    bool
	Multicolor    bool

	Bank          uint16 // VIC bank base address
	ScreenAddress uint16
	CharOffset    uint16 // character data offset inside the bank
	CharAddress   uint16
	BitmapAddress uint16

	BorderColor uint8
	Background  [4]uint8 // $D021-$D024, index 0 is the main background
}

// Decode decodes the register block starting at $D000 and the CIA2 port A
// byte into the display state.
func Decode(registers []byte, port byte) (State, error) {
	if len(registers) < MinRegisters {
		return State{}, fmt.Errorf("%w: register block has %d bytes, at least %d required",
			ErrInvalidInput, len(registers), MinRegisters)
	}

	ctrl1 := registers[regControl1]
	ctrl2 := registers[regControl2]
	ptrs := registers[regMemoryPtrs]

	bank := BankAddress(port)
	st := State{
		ExtendedColor: ctrl1&control1ECM != 0,
		BitmapMode:    ctrl1&control1BMM != 0,
		Multicolor:    ctrl2&control2MCM != 0,

		Bank:          bank,
		ScreenAddress: bank + uint16(ptrs>>4&0x0F)*0x0400,
		CharOffset:    uint16(ptrs>>1&0x07) * 0x0800,
		BorderColor:   registers[regBorder] & 0x0F,
	}
	st.CharAddress = bank + st.CharOffset
	st.BitmapAddress = bank
	if ptrs&0x08 != 0 {
		st.BitmapAddress += 0x2000
	}

	for i := range st.Background {
		st.Background[i] = registers[regBackground+i] & 0x0F
	}
	return st, nil
}

// BankAddress returns the base address of the VIC bank selected by the two
// low bits of CIA2 port A. The bits are inverted, 0 selects the highest bank.
func BankAddress(port byte) uint16 {
	return uint16(3-port&0x03) * BankSize
}

// Mode returns the graphics mode resolved from the state flags.
func (s State) Mode() Mode {
	return ResolveMode(s.ExtendedColor, s.BitmapMode, s.Multicolor)
}

// WithMode returns a copy of the state with the flags rewritten so that the
// state resolves to the given mode. Addresses and colors are unchanged.
func (s State) WithMode(m Mode) State {
	s.ExtendedColor, s.BitmapMode, s.Multicolor = m.Flags()
	return s
}
