// Package fileprocessor handles output file naming and writing operations
package fileprocessor

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/encoder"
	"github.com/retroenv/vicsnap/internal/options"
	"github.com/retroenv/vicsnap/internal/vic"
	"golang.org/x/term"
)

// ErrTerminalOutput is returned when binary image data would be written to
// an interactive terminal.
var ErrTerminalOutput = errors.New("refusing to write image data to a terminal, use -o or --base64")

// DefaultBaseName is the output base name of device captures.
const DefaultBaseName = "screen"

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Renderer) ([]string, error) {
	files := append([]string(nil), opts.Files...)
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match batch pattern '%s'", opts.Batch)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// BaseName returns the input file name without extension.
func BaseName(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)]
}

// OutputFilename returns the file name for the image of a mode. Without an
// output option the name is derived from the base name and the format, for
// captures of all modes the mode identifier is added to the name.
func OutputFilename(opts options.Capture, base string, mode vic.Mode, format encoder.Format) string {
	name := opts.Output
	if name == "" {
		name = base + format.Extension()
	}
	if name == options.StdoutName || !opts.All {
		return name
	}

	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%s%s", name[:len(name)-len(ext)], mode.Name(), ext)
}

// CreateWriter creates the output file.
func CreateWriter(path string) (io.WriteCloser, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", path, err)
	}
	return file, nil
}

// IsTerminal returns whether the writer is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// WriteImage encodes the image to the writer, as data URL when requested.
func WriteImage(w io.Writer, img image.Image, format encoder.Format, dataURL bool) error {
	if !dataURL {
		return encoder.Encode(w, img, format)
	}

	url, err := encoder.DataURL(img, format)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, url+"\n"); err != nil {
		return fmt.Errorf("writing data URL: %w", err)
	}
	return nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, quiet bool, name, version, commit, date string) {
	if quiet {
		return
	}

	logger.Info(name, log.String("version", buildinfo.Version(version, commit, date)))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
