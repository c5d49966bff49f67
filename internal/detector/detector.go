// Package detector handles output image format detection.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/encoder"
	"github.com/retroenv/vicsnap/internal/options"
)

// Detector handles image format detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new format detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the image format from options or the output file name.
// It first checks if a format is explicitly specified in options, otherwise
// attempts to detect the format from the output filename extension.
func (d *Detector) Detect(opts options.Capture) encoder.Format {
	if opts.Format != "" {
		return opts.Format
	}

	format := d.detectFromFile(opts.Output)
	d.logger.Debug("Auto-detected image format",
		log.String("format", string(format)),
		log.String("file", opts.Output))
	return format
}

// detectFromFile determines the format based on file extension.
func (d *Detector) detectFromFile(filename string) encoder.Format {
	if filename == options.StdoutName {
		return encoder.DefaultFormat
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".bmp":
		return encoder.BMP
	case ".tif", ".tiff":
		return encoder.TIFF
	default:
		// Default to PNG for unknown extensions
		return encoder.DefaultFormat
	}
}
