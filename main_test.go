package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/vicsnap/internal/capture"
	"github.com/retroenv/vicsnap/internal/cli"
	"github.com/retroenv/vicsnap/internal/config"
	"github.com/retroenv/vicsnap/internal/fileprocessor"
	"github.com/retroenv/vicsnap/internal/memdump"
)

// runWithStdout runs the tool with the given arguments and returns what was
// written to stdout. The logger is created as in main, so log records must
// not show up in the output.
func runWithStdout(t *testing.T, args ...string) []byte {
	t.Helper()

	dir := t.TempDir()
	dump := filepath.Join(dir, "zero.bin")
	assert.NoError(t, os.WriteFile(dump, make([]byte, memdump.Size), 0600))

	stdout, err := os.Create(filepath.Join(dir, "stdout"))
	assert.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	assert.NoError(t, err)

	origStdout, origStderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdout, stderr
	defer func() {
		os.Stdout, os.Stderr = origStdout, origStderr
	}()

	opts, captureOpts, err := cli.ParseFlags(append([]string{"--dump", dump}, args...))
	assert.NoError(t, err)

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	fileprocessor.PrintBanner(logger, opts.Quiet, "vicsnap", version, commit, date)
	assert.NoError(t, run(context.Background(), logger, opts, captureOpts))

	assert.NoError(t, stdout.Close())
	assert.NoError(t, stderr.Close())
	data, err := os.ReadFile(stdout.Name())
	assert.NoError(t, err)
	return data
}

func TestRunCaptureToStdout(t *testing.T) {
	data := runWithStdout(t, "capture", "-o", "-", "--scale", "1")
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}

func TestRunModeJSON(t *testing.T) {
	data := runWithStdout(t, "mode", "--json")

	var info capture.ModeInfo
	assert.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, "standard_text", info.Mode)
	assert.Equal(t, uint16(0xC000), info.Bank)
}
