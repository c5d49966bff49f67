// Package capture sequences a screen capture against a device: it pauses the
// machine, reads the video registers and memory, resumes the machine and
// renders the picture outside of the paused window.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/vicsnap/internal/device"
	"github.com/retroenv/vicsnap/internal/encoder"
	"github.com/retroenv/vicsnap/internal/render"
	"github.com/retroenv/vicsnap/internal/snapshot"
	"github.com/retroenv/vicsnap/internal/vic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when another capture holds the device paused and the
// capturer rejects concurrent captures.
var ErrBusy = errors.New("device busy")

// Device is a machine that can be paused and read from.
type Device interface {
	snapshot.Reader
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
}

// Policy decides what happens to a capture while another one is running.
type Policy int

// Token policies.
const (
	WaitPolicy   Policy = iota // queue until the device is free
	RejectPolicy               // fail with ErrBusy
)

// Request describes one capture.
type Request struct {
	Mode    *vic.Mode // render in this mode instead of the active one
	Options render.Options
}

// Result is a finished capture.
type Result struct {
	State    vic.State // state used for rendering, including a forced mode
	Snapshot *snapshot.Snapshot
	Image    *image.RGBA
	Info     string
}

// Capturer runs captures against one device. Only one capture at a time
// holds the device paused.
type Capturer struct {
	logger  *log.Logger
	device  Device
	token   *semaphore.Weighted
	policy  Policy
	timeout time.Duration
}

// Option configures a capturer.
type Option func(*Capturer)

// WithPolicy sets the policy for concurrent captures.
func WithPolicy(policy Policy) Option {
	return func(c *Capturer) {
		c.policy = policy
	}
}

// WithTimeout sets the timeout of every single device call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Capturer) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New returns a capturer for the device.
func New(logger *log.Logger, dev Device, options ...Option) *Capturer {
	c := &Capturer{
		logger:  logger,
		device:  dev,
		token:   semaphore.NewWeighted(1),
		policy:  WaitPolicy,
		timeout: device.DefaultTimeout,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Capture captures the screen in the active mode or the mode of the request.
func (c *Capturer) Capture(ctx context.Context, req Request) (*Result, error) {
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	var (
		st   vic.State
		snap *snapshot.Snapshot
	)
	err := c.paused(ctx, func(ctx context.Context) error {
		var err error
		st, err = c.readState(ctx)
		if err != nil {
			return err
		}
		if req.Mode != nil {
			st = st.WithMode(*req.Mode)
		}
		snap, err = c.fetch(ctx, snapshot.NewPlan(st))
		return err
	})
	if err != nil {
		return nil, err
	}

	img, err := render.Render(st, snap, req.Options)
	if err != nil {
		return nil, err
	}
	return &Result{
		State:    st,
		Snapshot: snap,
		Image:    img,
		Info:     encoder.Info(st, snap),
	}, nil
}

// CaptureAll captures the screen once and renders it in every valid mode.
// The results are ordered like vic.ValidModes.
func (c *Capturer) CaptureAll(ctx context.Context, opts render.Options) ([]*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	modes := vic.ValidModes()
	var (
		st   vic.State
		snap *snapshot.Snapshot
	)
	err := c.paused(ctx, func(ctx context.Context) error {
		var err error
		st, err = c.readState(ctx)
		if err != nil {
			return err
		}
		snap, err = c.fetch(ctx, snapshot.NewPlanForModes(st, modes...))
		return err
	})
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(modes))
	g, ctx := errgroup.WithContext(ctx)
	for i, mode := range modes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			forced := st.WithMode(mode)
			img, err := render.Render(forced, snap, opts)
			if err != nil {
				return err
			}
			results[i] = &Result{
				State:    forced,
				Snapshot: snap,
				Image:    img,
				Info:     encoder.Info(forced, snap),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DetectMode reads the video registers and returns the active mode without
// reading any screen memory.
func (c *Capturer) DetectMode(ctx context.Context) (ModeInfo, error) {
	var st vic.State
	err := c.paused(ctx, func(ctx context.Context) error {
		var err error
		st, err = c.readState(ctx)
		return err
	})
	if err != nil {
		return ModeInfo{}, err
	}
	return NewModeInfo(st), nil
}

// paused runs fn while holding the device token and the machine paused.
// The machine is resumed on every path once a pause was attempted, also when
// the context is cancelled.
func (c *Capturer) paused(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.token.Release(1)

	defer func() {
		resumeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		c.logger.Debug("Resuming machine")
		resumeErr := c.device.Resume(resumeCtx)
		switch {
		case resumeErr == nil:
		case err != nil:
			c.logger.Error("Resuming machine failed", log.Err(resumeErr))
		default:
			err = resumeErr
		}
	}()

	c.logger.Debug("Pausing machine")
	pauseCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.device.Pause(pauseCtx); err != nil {
		return err
	}

	return fn(ctx)
}

func (c *Capturer) acquire(ctx context.Context) error {
	if c.policy == RejectPolicy {
		if !c.token.TryAcquire(1) {
			return ErrBusy
		}
		return nil
	}

	if err := c.token.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for device: %w", err)
	}
	return nil
}

// readState reads the register block and the bank selection port.
func (c *Capturer) readState(ctx context.Context) (vic.State, error) {
	r := c.reader()
	registers, err := r.ReadBytes(ctx, vic.RegisterBase, vic.RegisterCount)
	if err != nil {
		return vic.State{}, fmt.Errorf("reading video registers: %w", err)
	}
	port, err := r.ReadBytes(ctx, vic.PortAddress, 1)
	if err != nil {
		return vic.State{}, fmt.Errorf("reading bank selection port: %w", err)
	}
	if len(port) != 1 {
		return vic.State{}, fmt.Errorf("%w: bank selection port returned %d bytes", vic.ErrInvalidInput, len(port))
	}

	st, err := vic.Decode(registers, port[0])
	if err != nil {
		return vic.State{}, fmt.Errorf("decoding video registers: %w", err)
	}
	c.logger.Debug("Decoded video state",
		log.Stringer("mode", st.Mode()),
		log.Hex("bank", st.Bank),
		log.Hex("screen", st.ScreenAddress))
	return st, nil
}

// fetch reads the memory regions of the plan.
func (c *Capturer) fetch(ctx context.Context, plan snapshot.Plan) (*snapshot.Snapshot, error) {
	c.logger.Debug("Fetching screen memory",
		log.Int("regions", len(plan.Regions())),
		log.Stringer("charset", plan.CharSource()))
	return snapshot.Fetch(ctx, c.reader(), plan)
}

func (c *Capturer) reader() snapshot.Reader {
	return &timedReader{
		logger:  c.logger,
		device:  c.device,
		timeout: c.timeout,
	}
}

// timedReader bounds every read with the call timeout.
type timedReader struct {
	logger  *log.Logger
	device  Device
	timeout time.Duration
}

func (r *timedReader) ReadBytes(ctx context.Context, address uint16, length int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	r.logger.Debug("Reading memory",
		log.Hex("address", address),
		log.Int("length", length))
	return r.device.ReadBytes(ctx, address, length)
}
