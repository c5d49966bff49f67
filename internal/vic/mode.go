package vic

import (
	"fmt"
	"strings"
)

// Mode is the graphics mode resolved from the VIC-II control register flags.
type Mode int

// Graphics modes, including the two flag combinations the chip does not
// support which render as blank screens.
const (
	StandardText Mode = iota
	MulticolorText
	ExtendedBackgroundColor
	StandardBitmap
	MulticolorBitmap
	InvalidEcmBmm
	InvalidEcmMcm
)

var modeNames = [...]string{
	StandardText:            "standard_text",
	MulticolorText:          "multicolor_text",
	ExtendedBackgroundColor: "extended_bg_color",
	StandardBitmap:          "standard_bitmap",
	MulticolorBitmap:        "multicolor_bitmap",
	InvalidEcmBmm:           "invalid_ecm_bmm",
	InvalidEcmMcm:           "invalid_ecm_mcm",
}

var modeDisplayNames = [...]string{
	StandardText:            "Standard Text",
	MulticolorText:          "Multicolor Text",
	ExtendedBackgroundColor: "Extended Background Color",
	StandardBitmap:          "Standard Bitmap (Hires)",
	MulticolorBitmap:        "Multicolor Bitmap",
	InvalidEcmBmm:           "Invalid (ECM+BMM)",
	InvalidEcmMcm:           "Invalid (ECM+MCM)",
}

// ResolveMode maps the extended color, bitmap and multicolor flags to a mode.
// The order of the cases is the priority order, the first match wins.
func ResolveMode(ecm, bmm, mcm bool) Mode {
	switch {
	case ecm && bmm:
		return InvalidEcmBmm
	case ecm && mcm:
		return InvalidEcmMcm
	case bmm && mcm:
		return MulticolorBitmap
	case bmm:
		return StandardBitmap
	case ecm:
		return ExtendedBackgroundColor
	case mcm:
		return MulticolorText
	default:
		return StandardText
	}
}

// Flags returns a flag combination that resolves to the mode.
func (m Mode) Flags() (ecm, bmm, mcm bool) {
	switch m {
	case MulticolorText:
		return false, false, true
	case ExtendedBackgroundColor:
		return true, false, false
	case StandardBitmap:
		return false, true, false
	case MulticolorBitmap:
		return false, true, true
	case InvalidEcmBmm:
		return true, true, false
	case InvalidEcmMcm:
		return true, false, true
	default:
		return false, false, false
	}
}

// IsBitmap returns whether the mode reads its pixels from bitmap memory.
func (m Mode) IsBitmap() bool {
	return m == StandardBitmap || m == MulticolorBitmap
}

// IsValid returns whether the mode is a display mode the chip supports.
func (m Mode) IsValid() bool {
	return m >= StandardText && m <= MulticolorBitmap
}

// Name returns the identifier of the mode as used on the command line.
func (m Mode) Name() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode_%d", int(m))
	}
	return modeNames[m]
}

// String returns the human readable name of the mode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeDisplayNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeDisplayNames[m]
}

// ValidModes returns the five supported display modes in rendering order.
func ValidModes() []Mode {
	return []Mode{StandardText, MulticolorText, ExtendedBackgroundColor, StandardBitmap, MulticolorBitmap}
}

// ValidModeNames returns the identifiers of the supported display modes.
func ValidModeNames() []string {
	modes := ValidModes()
	names := make([]string, 0, len(modes))
	for _, m := range modes {
		names = append(names, m.Name())
	}
	return names
}

// ParseMode parses a mode identifier. Only the supported display modes can be
// parsed, the invalid flag combinations are never requested explicitly.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range ValidModes() {
		if m.Name() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported screen mode '%s', valid modes: %s",
		ErrInvalidInput, name, strings.Join(ValidModeNames(), ", "))
}
