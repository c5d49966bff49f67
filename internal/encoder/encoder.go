// Package encoder writes rendered screens into image containers and builds
// the capture metadata string.
package encoder

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for an unknown container format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an image container format.
type Format string

// Supported container formats.
const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = PNG

// Formats returns all supported formats.
func Formats() []Format {
	return []Format{PNG, BMP, TIFF}
}

// ParseFormat parses a format name, the empty name selects the default.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	switch name {
	case "":
		return DefaultFormat, nil
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("%w '%s'", ErrUnsupportedFormat, name)
	}
}

// MIMEType returns the media type of the format.
func (f Format) MIMEType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Extension returns the file extension of the format including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Encode writes the image in the given container format.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w '%s'", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	return nil
}

// Bytes returns the encoded image.
func Bytes(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads an image written by Encode.
func Decode(r io.Reader, format Format) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case PNG:
		img, err = png.Decode(r)
	case BMP:
		img, err = bmp.Decode(r)
	case TIFF:
		img, err = tiff.Decode(r)
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	return img, nil
}

// DataURL returns the encoded image as base64 data URL.
func DataURL(img image.Image, format Format) (string, error) {
	data, err := Bytes(img, format)
	if err != nil {
		return "", err
	}
	return "data:" + format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
