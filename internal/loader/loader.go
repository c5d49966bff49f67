// Package loader handles memory dump file loading operations.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/retroenv/vicsnap/internal/memdump"
)

// prgHeaderSize is the size of the load address prefix of dumps saved in
// program file format.
const prgHeaderSize = 2

// Loader handles loading memory dump files from disk.
type Loader struct{}

// New creates a new memory dump loader.
func New() *Loader {
	return &Loader{}
}

// Load loads a memory dump file. It accepts raw 64 KB images and images in
// program file format with a leading load address of $0000.
func (l *Loader) Load(path string) (*memdump.Dump, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	// read one byte more than the largest accepted size to detect larger files
	data, err := io.ReadAll(io.LimitReader(file, memdump.Size+prgHeaderSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	dump, err := l.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading memory dump %s: %w", path, err)
	}
	return dump, nil
}

// LoadFromBytes loads a memory dump from a buffer.
func (l *Loader) LoadFromBytes(data []byte) (*memdump.Dump, error) {
	if len(data) == memdump.Size+prgHeaderSize && data[0] == 0 && data[1] == 0 {
		data = data[prgHeaderSize:]
	}
	dump, err := memdump.New(data)
	if err != nil {
		return nil, fmt.Errorf("creating memory dump: %w", err)
	}
	return dump, nil
}
