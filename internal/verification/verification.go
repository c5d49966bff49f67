// Package verification verifies that a written image file decodes back to
// the rendered screen.
package verification

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/encoder"
	"github.com/retroenv/vicsnap/internal/options"
)

// maxLoggedMismatches limits the logged pixel differences.
const maxLoggedMismatches = 10

// VerifyOutput verifies that the output file recreates the rendered image.
func VerifyOutput(logger *log.Logger, path string, format encoder.Format, dataURL bool, expected *image.RGBA) error {
	if path == "" || path == options.StdoutName {
		return errors.New("can not verify console output")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading output file for comparison: %w", err)
	}
	if dataURL {
		data, err = decodeDataURL(data, format)
		if err != nil {
			return err
		}
	}

	img, err := encoder.Decode(bytes.NewReader(data), format)
	if err != nil {
		return fmt.Errorf("decoding output file: %w", err)
	}

	if err := checkImageEqual(logger, expected, img); err != nil {
		return fmt.Errorf("image mismatch: %w", err)
	}
	return nil
}

func decodeDataURL(data []byte, format encoder.Format) ([]byte, error) {
	prefix := "data:" + format.MIMEType() + ";base64,"
	text := strings.TrimSpace(string(data))
	if !strings.HasPrefix(text, prefix) {
		return nil, fmt.Errorf("output is not a %s data URL", format.MIMEType())
	}

	decoded, err := base64.StdEncoding.DecodeString(text[len(prefix):])
	if err != nil {
		return nil, fmt.Errorf("decoding base64 data: %w", err)
	}
	return decoded, nil
}

func checkImageEqual(logger *log.Logger, input *image.RGBA, output image.Image) error {
	inBounds, outBounds := input.Bounds(), output.Bounds()
	if inBounds.Dx() != outBounds.Dx() || inBounds.Dy() != outBounds.Dy() {
		return fmt.Errorf("mismatched dimensions, %dx%d != %dx%d",
			inBounds.Dx(), inBounds.Dy(), outBounds.Dx(), outBounds.Dy())
	}

	var diffs uint64
	for y := 0; y < inBounds.Dy(); y++ {
		for x := 0; x < inBounds.Dx(); x++ {
			want := input.RGBAAt(inBounds.Min.X+x, inBounds.Min.Y+y)
			got := color.RGBAModel.Convert(output.At(outBounds.Min.X+x, outBounds.Min.Y+y)).(color.RGBA)
			if want == got {
				continue
			}

			diffs++
			if diffs <= maxLoggedMismatches {
				logger.Error("Pixel mismatch",
					log.Int("x", x),
					log.Int("y", y),
					log.String("expected", hexColor(want)),
					log.String("got", hexColor(got)))
			}
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d pixel mismatches", diffs)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
