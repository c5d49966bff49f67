// Package main implements an offline renderer for C64 memory dump files
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
	"github.com/retroenv/vicsnap/internal/pipeline"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, captureOpts, err := cli.ParseRenderFlags(os.Args[1:])
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			fileprocessor.PrintBanner(logger, opts.Quiet, "vicrender", version, commit, date)
			logger.Error(usageErr.Error())
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts.Quiet, "vicrender", version, commit, date)

	files, err := fileprocessor.GetFilesToProcess(&opts)
	if err != nil {
		logger.Fatal(err.Error())
	}

	pipe := pipeline.New(logger)
	failed := false
	for _, file := range files {
		fileOpts := captureOpts
		if len(files) > 1 {
			// every dump gets its own derived output name
			fileOpts.Output = ""
		}

		if _, err := pipe.ExecuteFile(ctx, file, fileOpts); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return
			}
			logger.Error("Rendering failed", log.String("file", file), log.Err(err))
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}
