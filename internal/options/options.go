// Package options contains the program options.
package options

import (
	"time"

	"github.com/retroenv/vicsnap/internal/encoder"
	"github.com/retroenv/vicsnap/internal/render"
	"github.com/retroenv/vicsnap/internal/vic"
)

// Commands of the device tool.
const (
	CommandCapture = "capture"
	CommandAll     = "all"
	CommandMode    = "mode"
)

// Connection contains the capture source options.
type Connection struct {
	URL        string        `name:"url" env:"C64U_URL" default:"http://192.168.200.157" help:"Base URL of the device REST API."`
	Timeout    time.Duration `name:"timeout" env:"C64U_TIMEOUT" default:"30s" help:"Timeout of every single device call."`
	Dump       string        `name:"dump" type:"existingfile" help:"Read a 64 KB memory dump file instead of the device."`
	RejectBusy bool          `name:"reject-busy" help:"Fail instead of waiting when another capture is running."`
}

// Flags contains behavior options.
type Flags struct {
	Debug bool `name:"debug" help:"Enable debug logging."`
	Quiet bool `short:"q" name:"quiet" help:"Quiet mode."`
}

// Output contains the render and artifact options.
type Output struct {
	Scale  int    `name:"scale" default:"2" help:"Integer scale factor (1-4)."`
	Border bool   `name:"border" default:"true" negatable:"" help:"Include the screen border."`
	Output string `short:"o" name:"output" placeholder:"FILE" help:"Output file, - for stdout (default: derived from the mode)."`
	Format string `short:"f" name:"format" help:"Image format: png, bmp, tiff (default: from the output extension, else png)."`
	Base64 bool   `name:"base64" help:"Write the image as base64 data URL."`
	Verify bool   `name:"verify" help:"Verify the written image by decoding it and comparing the pixels."`
}

// CaptureCmd captures the screen in the active or a forced mode.
type CaptureCmd struct {
	Output
	Mode string `short:"m" name:"mode" placeholder:"MODE" help:"Render in this mode instead of the active one (standard_text, multicolor_text, extended_bg_color, standard_bitmap, multicolor_bitmap)."`
}

// AllCmd captures the screen once and renders it in every valid mode.
type AllCmd struct {
	Output
}

// ModeCmd prints the active mode and memory layout.
type ModeCmd struct {
	JSON bool `name:"json" help:"Print the mode information as JSON."`
}

// Program options of the device tool.
type Program struct {
	Connection
	Flags

	Capture CaptureCmd `cmd:"" default:"withargs" help:"Capture the screen (default command)."`
	All     AllCmd     `cmd:"" help:"Capture the screen in all valid modes."`
	Mode    ModeCmd    `cmd:"" help:"Detect the active screen mode."`

	Command string `kong:"-"` // selected command
}

// Renderer options of the offline dump renderer.
type Renderer struct {
	Flags
	Output

	Mode  string   `short:"m" name:"mode" placeholder:"MODE" help:"Render in this mode instead of the active one."`
	All   bool     `name:"all" help:"Render every valid mode."`
	Batch string   `name:"batch" help:"Render all dump files matching the pattern (e.g. *.bin)."`
	Files []string `arg:"" optional:"" help:"Memory dump files to render."`
}

// Capture defines the resolved options of one capture run.
type Capture struct {
	Mode   *vic.Mode // forced mode, nil renders the active mode
	All    bool      // render every valid mode
	Render render.Options
	Format encoder.Format // empty detects the format from the output name

	Output string // output file, empty derives a name, - is stdout
	Base64 bool
	Verify bool
}

// StdoutName is the output name selecting standard output.
const StdoutName = "-"

// NewCapture returns capture options with default settings.
func NewCapture() Capture {
	return Capture{
		Render: render.DefaultOptions(),
	}
}
