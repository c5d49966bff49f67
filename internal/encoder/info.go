package encoder

import (
	"fmt"
	"strings"

	"github.com/retroenv/vicsnap/internal/snapshot"
	"github.com/retroenv/vicsnap/internal/vic"
)

// Info returns the one line description of a capture, listing the mode and
// the memory the picture was built from.
func Info(st vic.State, snap *snapshot.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s | VIC Bank: $%04X | Screen: $%04X", st.Mode(), st.Bank, st.ScreenAddress)

	if st.BitmapMode {
		fmt.Fprintf(&b, " | Bitmap: $%04X", st.BitmapAddress)
		return b.String()
	}

	fmt.Fprintf(&b, " | Charset: $%04X", st.CharAddress)
	if snap != nil && snap.CharSource() == snapshot.CharSourceROM {
		b.WriteString(" (ROM)")
	}
	return b.String()
}
