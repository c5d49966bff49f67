package capture

import (
	"fmt"
	"strings"

	"github.com/retroenv/vicsnap/internal/palette"
	"github.com/retroenv/vicsnap/internal/snapshot"
	"github.com/retroenv/vicsnap/internal/vic"
)

// ModeInfo describes the active display mode and its memory layout.
type ModeInfo struct {
	Mode        string   `json:"mode"`
	Name        string   `json:"name"`
	Valid       bool     `json:"valid"`
	Bank        uint16   `json:"vic_bank"`
	Screen      uint16   `json:"screen_address"`
	Charset     uint16   `json:"charset_address"`
	Bitmap      uint16   `json:"bitmap_address"`
	ROMCharset  bool     `json:"rom_charset"`
	BorderColor uint8    `json:"border_color"`
	Background  [4]uint8 `json:"background_colors"`
}

// NewModeInfo returns the mode information of a decoded state.
func NewModeInfo(st vic.State) ModeInfo {
	mode := st.Mode()
	_, rom := snapshot.UsesROM(st)
	return ModeInfo{
		Mode:        mode.Name(),
		Name:        mode.String(),
		Valid:       mode.IsValid(),
		Bank:        st.Bank,
		Screen:      st.ScreenAddress,
		Charset:     st.CharAddress,
		Bitmap:      st.BitmapAddress,
		ROMCharset:  rom && !st.BitmapMode,
		BorderColor: st.BorderColor,
		Background:  st.Background,
	}
}

func (m ModeInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s), bank $%04X, screen $%04X", m.Name, m.Mode, m.Bank, m.Screen)
	if m.ROMCharset {
		fmt.Fprintf(&b, ", charset $%04X (ROM)", m.Charset)
	} else {
		fmt.Fprintf(&b, ", charset $%04X", m.Charset)
	}
	fmt.Fprintf(&b, ", bitmap $%04X", m.Bitmap)
	fmt.Fprintf(&b, ", border %s, background %s", palette.Name(m.BorderColor), palette.Name(m.Background[0]))
	return b.String()
}
