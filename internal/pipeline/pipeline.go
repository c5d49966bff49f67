// Package pipeline orchestrates the capture workflow stages.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/capture"
	"github.com/retroenv/vicsnap/internal/detector"
	"github.com/retroenv/vicsnap/internal/encoder"
	"github.com/retroenv/vicsnap/internal/fileprocessor"
	"github.com/retroenv/vicsnap/internal/loader"
	"github.com/retroenv/vicsnap/internal/options"
	"github.com/retroenv/vicsnap/internal/verification"
)

// Pipeline orchestrates the complete capture workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
	stdout   io.Writer
}

// New creates a new capture pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
		stdout:   os.Stdout,
	}
}

// Execute captures the screen with the capturer, writes the images and
// verifies them if requested. Derived output names start with base.
func (p *Pipeline) Execute(ctx context.Context, capturer *capture.Capturer, opts options.Capture, base string) ([]*capture.Result, error) {
	format := p.detector.Detect(opts)
	if opts.Output == options.StdoutName && !opts.Base64 && fileprocessor.IsTerminal(p.stdout) {
		return nil, fileprocessor.ErrTerminalOutput
	}

	results, err := p.capture(ctx, capturer, opts)
	if err != nil {
		return nil, fmt.Errorf("capturing screen: %w", err)
	}

	for _, res := range results {
		p.printInfo(res)

		path := fileprocessor.OutputFilename(opts, base, res.State.Mode(), format)
		if err := p.write(path, res, format, opts.Base64); err != nil {
			return nil, err
		}

		if opts.Verify {
			if err := verification.VerifyOutput(p.logger, path, format, opts.Base64, res.Image); err != nil {
				return nil, fmt.Errorf("verification failed: %w", err)
			}
			p.logger.Info("Verification successful", log.String("file", path))
		}
	}
	return results, nil
}

// ExecuteFile renders the screen of a memory dump file.
func (p *Pipeline) ExecuteFile(ctx context.Context, path string, opts options.Capture) ([]*capture.Result, error) {
	dump, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading memory dump: %w", err)
	}

	capturer := capture.New(p.logger, dump)
	return p.Execute(ctx, capturer, opts, fileprocessor.BaseName(path))
}

// DetectMode prints the active mode of the device, as JSON when requested.
func (p *Pipeline) DetectMode(ctx context.Context, capturer *capture.Capturer, asJSON bool) (capture.ModeInfo, error) {
	info, err := capturer.DetectMode(ctx)
	if err != nil {
		return capture.ModeInfo{}, fmt.Errorf("detecting screen mode: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(p.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return capture.ModeInfo{}, fmt.Errorf("writing mode information: %w", err)
		}
		return info, nil
	}

	if _, err := fmt.Fprintln(p.stdout, info.String()); err != nil {
		return capture.ModeInfo{}, fmt.Errorf("writing mode information: %w", err)
	}
	return info, nil
}

func (p *Pipeline) capture(ctx context.Context, capturer *capture.Capturer, opts options.Capture) ([]*capture.Result, error) {
	if opts.All {
		return capturer.CaptureAll(ctx, opts.Render)
	}

	res, err := capturer.Capture(ctx, capture.Request{
		Mode:    opts.Mode,
		Options: opts.Render,
	})
	if err != nil {
		return nil, err
	}
	return []*capture.Result{res}, nil
}

// write writes the image of a result to the output file or stdout.
func (p *Pipeline) write(path string, res *capture.Result, format encoder.Format, dataURL bool) error {
	if path == options.StdoutName {
		if err := fileprocessor.WriteImage(p.stdout, res.Image, format, dataURL); err != nil {
			return fmt.Errorf("writing image: %w", err)
		}
		return nil
	}

	writer, err := fileprocessor.CreateWriter(path)
	if err != nil {
		return err
	}
	if err := fileprocessor.WriteImage(writer, res.Image, format, dataURL); err != nil {
		_ = writer.Close()
		return fmt.Errorf("writing image %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing image %s: %w", path, err)
	}

	p.logger.Info("Image written",
		log.String("file", path),
		log.String("format", string(format)))
	return nil
}

// printInfo prints information about the captured screen.
func (p *Pipeline) printInfo(res *capture.Result) {
	p.logger.Info("Captured screen",
		log.String("info", res.Info),
		log.Int("width", res.Image.Bounds().Dx()),
		log.Int("height", res.Image.Bounds().Dy()))

	if !res.State.Mode().IsValid() {
		p.logger.Warn("Video registers select an invalid mode, the display shows only the background color",
			log.Stringer("mode", res.State.Mode()))
	}
}
