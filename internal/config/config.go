// Package config handles application configuration and setup
package config

import (
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/capture"
	"github.com/retroenv/vicsnap/internal/device"
	"github.com/retroenv/vicsnap/internal/loader"
	"github.com/retroenv/vicsnap/internal/options"
)

// CreateLogger creates a logger with appropriate settings. Records go to
// stderr, stdout carries image data.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = os.Stderr
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// CreateDevice creates the capture source selected by the connection options,
// a memory dump file when given, else the device REST API.
func CreateDevice(logger *log.Logger, conn options.Connection) (capture.Device, error) {
	if conn.Dump != "" {
		dump, err := loader.New().Load(conn.Dump)
		if err != nil {
			return nil, fmt.Errorf("loading memory dump: %w", err)
		}
		logger.Debug("Using memory dump", log.String("file", conn.Dump))
		return dump, nil
	}

	client, err := device.New(logger, conn.URL, conn.Timeout)
	if err != nil {
		return nil, fmt.Errorf("creating device client: %w", err)
	}
	logger.Debug("Using device", log.String("url", conn.URL), log.Stringer("timeout", client.Timeout()))
	return client, nil
}

// CreateCapturer creates a capturer for the device with the token policy and
// call timeout of the connection options.
func CreateCapturer(logger *log.Logger, dev capture.Device, conn options.Connection) *capture.Capturer {
	policy := capture.WaitPolicy
	if conn.RejectBusy {
		policy = capture.RejectPolicy
	}
	return capture.New(logger, dev,
		capture.WithPolicy(policy),
		capture.WithTimeout(conn.Timeout),
	)
}
