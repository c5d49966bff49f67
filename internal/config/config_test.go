package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/device"
	"github.com/retroenv/vicsnap/internal/memdump"
	"github.com/retroenv/vicsnap/internal/options"
)

func TestCreateDevice(t *testing.T) {
	logger := log.NewTestLogger(t)

	t.Run("device client", func(t *testing.T) {
		dev, err := CreateDevice(logger, options.Connection{URL: "http://10.0.0.64", Timeout: time.Second})
		assert.NoError(t, err)
		client, ok := dev.(*device.Client)
		assert.True(t, ok)
		assert.Equal(t, time.Second, client.Timeout())
	})

	t.Run("memory dump", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mem.bin")
		assert.NoError(t, os.WriteFile(path, make([]byte, memdump.Size), 0600))

		dev, err := CreateDevice(logger, options.Connection{URL: "http://10.0.0.64", Dump: path})
		assert.NoError(t, err)
		_, ok := dev.(*memdump.Dump)
		assert.True(t, ok)
	})

	t.Run("invalid memory dump", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mem.bin")
		assert.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0600))

		_, err := CreateDevice(logger, options.Connection{Dump: path})
		assert.ErrorContains(t, err, "loading memory dump")
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := CreateDevice(logger, options.Connection{URL: "http://"})
		assert.Error(t, err)
	})
}

func TestCreateCapturer(t *testing.T) {
	logger := log.NewTestLogger(t)
	dump, err := memdump.New(make([]byte, memdump.Size))
	assert.NoError(t, err)

	c := CreateCapturer(logger, dump, options.Connection{RejectBusy: true, Timeout: time.Second})
	assert.NotNil(t, c)
}

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
	assert.NotNil(t, CreateLogger(false, false))
}

func TestCreateLoggerWritesToStderr(t *testing.T) {
	dir := t.TempDir()
	stdout, err := os.Create(filepath.Join(dir, "stdout"))
	assert.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	assert.NoError(t, err)

	origStdout, origStderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdout, stderr
	logger := CreateLogger(false, false)
	os.Stdout, os.Stderr = origStdout, origStderr

	logger.Info("Captured screen")
	assert.NoError(t, stdout.Close())
	assert.NoError(t, stderr.Close())

	out, err := os.ReadFile(stdout.Name())
	assert.NoError(t, err)
	assert.Empty(t, out)
	logged, err := os.ReadFile(stderr.Name())
	assert.NoError(t, err)
	assert.Contains(t, string(logged), "Captured screen")
}
