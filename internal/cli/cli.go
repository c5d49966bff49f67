// Package cli handles command line interface logic
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/retroenv/vicsnap/internal/encoder"
	"github.com/retroenv/vicsnap/internal/options"
	"github.com/retroenv/vicsnap/internal/render"
	"github.com/retroenv/vicsnap/internal/vic"
)

// ParseFlags parses the command line of the device tool and returns program
// and capture options.
func ParseFlags(args []string) (options.Program, options.Capture, error) {
	var opts options.Program
	parser, err := newParser(&opts, "vicsnap", "Capture the screen of a C64 Ultimate as image.")
	if err != nil {
		return opts, options.Capture{}, err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return opts, options.Capture{}, newUsageError(parser, err)
	}
	opts.Command = commandName(ctx.Command())

	var (
		output options.Output
		mode   string
		all    bool
	)
	switch opts.Command {
	case options.CommandCapture:
		output, mode = opts.Capture.Output, opts.Capture.Mode
	case options.CommandAll:
		output, all = opts.All.Output, true
	default:
		return opts, options.NewCapture(), nil
	}

	captureOpts, err := createCaptureOptions(output, mode, all)
	if err != nil {
		return opts, options.Capture{}, err
	}
	return opts, captureOpts, nil
}

// ParseRenderFlags parses the command line of the offline dump renderer.
func ParseRenderFlags(args []string) (options.Renderer, options.Capture, error) {
	var opts options.Renderer
	parser, err := newParser(&opts, "vicrender", "Render the screen of C64 memory dump files as image.")
	if err != nil {
		return opts, options.Capture{}, err
	}

	if _, err := parser.Parse(args); err != nil {
		return opts, options.Capture{}, newUsageError(parser, err)
	}
	if len(opts.Files) == 0 && opts.Batch == "" {
		return opts, options.Capture{}, &UsageError{parser: parser, msg: "no memory dump file given"}
	}
	if opts.Mode != "" && opts.All {
		return opts, options.Capture{}, errors.New("a forced mode can not be combined with rendering all modes")
	}

	captureOpts, err := createCaptureOptions(opts.Output, opts.Mode, opts.All)
	if err != nil {
		return opts, options.Capture{}, err
	}
	return opts, captureOpts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	parser *kong.Kong
	msg    string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage of the program.
func (e *UsageError) ShowUsage() {
	ctx, err := kong.Trace(e.parser, nil)
	if err != nil {
		return
	}
	_ = ctx.PrintUsage(false)
}

func newParser(target any, name, description string) (*kong.Kong, error) {
	parser, err := kong.New(target,
		kong.Name(name),
		kong.Description(description),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:   true,
			FlagsLast: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating command line parser: %w", err)
	}
	return parser, nil
}

func newUsageError(parser *kong.Kong, err error) *UsageError {
	return &UsageError{
		parser: parser,
		msg:    err.Error(),
	}
}

// createCaptureOptions resolves and validates the output options.
func createCaptureOptions(output options.Output, mode string, all bool) (options.Capture, error) {
	opts := options.NewCapture()
	opts.All = all
	opts.Render = render.Options{
		Scale:  output.Scale,
		Border: output.Border,
	}
	if err := opts.Render.Validate(); err != nil {
		return opts, err
	}

	if output.Format != "" {
		format, err := encoder.ParseFormat(output.Format)
		if err != nil {
			return opts, fmt.Errorf("%w. Valid options: %s", err, formatNames())
		}
		opts.Format = format
	}

	if mode != "" {
		m, err := vic.ParseMode(mode)
		if err != nil {
			return opts, err
		}
		opts.Mode = &m
	}

	opts.Output = output.Output
	opts.Base64 = output.Base64
	opts.Verify = output.Verify

	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// validateOptionCombinations checks for option combinations that can not work together.
func validateOptionCombinations(opts options.Capture) error {
	if opts.Verify && opts.Output == options.StdoutName {
		return errors.New("can not verify console output, use -o to write to a file")
	}
	if opts.All && opts.Output == options.StdoutName && !opts.Base64 {
		return errors.New("can not write multiple images to console output, use --base64")
	}
	return nil
}

// commandName returns the command of a kong command path like "capture <file>".
func commandName(path string) string {
	fields := strings.Fields(path)
	if len(fields) == 0 {
		return options.CommandCapture
	}
	return fields[0]
}

func formatNames() string {
	names := make([]string, 0, len(encoder.Formats()))
	for _, format := range encoder.Formats() {
		names = append(names, string(format))
	}
	return strings.Join(names, ", ")
}
