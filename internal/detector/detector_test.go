package detector

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/encoder"
	"github.com/retroenv/vicsnap/internal/options"
)

func TestDetect(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		formatOpt  encoder.Format
		outputFile string
		wantFormat encoder.Format
	}{
		{
			name:       "explicit BMP format option",
			formatOpt:  encoder.BMP,
			outputFile: "screen.png",
			wantFormat: encoder.BMP,
		},
		{
			name:       "explicit TIFF format option",
			formatOpt:  encoder.TIFF,
			outputFile: "",
			wantFormat: encoder.TIFF,
		},
		{
			name:       "detect from .bmp extension",
			outputFile: "screen.bmp",
			wantFormat: encoder.BMP,
		},
		{
			name:       "no output file defaults to PNG",
			outputFile: "",
			wantFormat: encoder.PNG,
		},
		{
			name:       "stdout defaults to PNG",
			outputFile: options.StdoutName,
			wantFormat: encoder.PNG,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options.Capture{
				Format: tt.formatOpt,
				Output: tt.outputFile,
			}

			got := d.Detect(opts)
			assert.Equal(t, tt.wantFormat, got)
		})
	}
}

func TestDetectFromFile(t *testing.T) {
	logger := log.NewTestLogger(t)
	d := New(logger)

	tests := []struct {
		name       string
		filename   string
		wantFormat encoder.Format
	}{
		{
			name:       ".png extension",
			filename:   "screen.png",
			wantFormat: encoder.PNG,
		},
		{
			name:       ".BMP extension (uppercase)",
			filename:   "SCREEN.BMP",
			wantFormat: encoder.BMP,
		},
		{
			name:       ".tif extension",
			filename:   "screen.tif",
			wantFormat: encoder.TIFF,
		},
		{
			name:       ".tiff extension",
			filename:   "out/screen.tiff",
			wantFormat: encoder.TIFF,
		},
		{
			name:       "no extension",
			filename:   "screen",
			wantFormat: encoder.PNG,
		},
		{
			name:       ".txt extension",
			filename:   "screen.txt",
			wantFormat: encoder.PNG,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.detectFromFile(tt.filename)
			assert.Equal(t, tt.wantFormat, got)
		})
	}
}
