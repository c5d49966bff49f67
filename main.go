// Package main implements the main entry point for a C64 Ultimate screen capture tool
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/cli"
	"github.com/retroenv/vicsnap/internal/config"
	"github.com/retroenv/vicsnap/internal/fileprocessor"
	"github.com/retroenv/vicsnap/internal/options"
	"github.com/retroenv/vicsnap/internal/pipeline"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, captureOpts, err := cli.ParseFlags(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts.Quiet, "vicsnap", version, commit, date)
			logger.Error(usageErr.Error())
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts.Quiet, "vicsnap", version, commit, date)

	if err := run(ctx, logger, opts, captureOpts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Capturing failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, opts options.Program, captureOpts options.Capture) error {
	dev, err := config.CreateDevice(logger, opts.Connection)
	if err != nil {
		return err
	}
	capturer := config.CreateCapturer(logger, dev, opts.Connection)
	pipe := pipeline.New(logger)

	if opts.Command == options.CommandMode {
		_, err := pipe.DetectMode(ctx, capturer, opts.Mode.JSON)
		return err
	}

	_, err = pipe.Execute(ctx, capturer, captureOpts, fileprocessor.DefaultBaseName)
	return err
}
