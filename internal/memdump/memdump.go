// Package memdump provides a 64 KB memory image of a machine as capture
// source. The I/O area at $D000-$DFFF holds the registers and color RAM as
// seen by the CPU.
package memdump

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/vicsnap/internal/device"
)

// Size is the size of a memory dump.
const Size = 0x10000

// ErrInvalidSize is returned for images that do not cover the address space.
var ErrInvalidSize = errors.New("invalid memory dump size")

// Dump is an immutable memory image. Pausing and resuming it is a no-op.
type Dump struct {
	memory [Size]byte
}

// New returns a dump of a copy of the data.
func New(data []byte) (*Dump, error) {
	if len(data) != Size {
		return nil, fmt.Errorf("%w: %d bytes, expected %d", ErrInvalidSize, len(data), Size)
	}
	d := &Dump{}
	copy(d.memory[:], data)
	return d, nil
}

// Pause does nothing, the image never changes.
func (d *Dump) Pause(context.Context) error { return nil }

// Resume does nothing, the image never changes.
func (d *Dump) Resume(context.Context) error { return nil }

// ReadBytes returns a copy of length bytes starting at address.
func (d *Dump) ReadBytes(ctx context.Context, address uint16, length int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := int(address) + length
	if length <= 0 || end > Size {
		return nil, fmt.Errorf("%w: $%04X length %d", device.ErrOutOfRange, address, length)
	}

	data := make([]byte, length)
	copy(data, d.memory[address:end])
	return data, nil
}
