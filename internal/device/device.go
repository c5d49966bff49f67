// Package device implements the HTTP client of the C64 Ultimate REST API,
// limited to pausing, resuming and reading memory of the machine.
package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Errors returned by device calls.
var (
	ErrUnavailable = errors.New("device unavailable")
	ErrTimeout     = errors.New("device timeout")
	ErrOutOfRange  = errors.New("memory range not readable")
)

// Defaults of the device connection.
const (
	DefaultURL     = "http://192.168.200.157"
	DefaultTimeout = 30 * time.Second
	URLEnv         = "C64U_URL"
	TimeoutEnv     = "C64U_TIMEOUT"
)

// MaxReadLength is the largest single memory read.
const MaxReadLength = 0x10000

const (
	pathPause   = "/v1/machine:pause"
	pathResume  = "/v1/machine:resume"
	pathReadMem = "/v1/machine:readmem"
)

// Client talks to one device. Each call is bounded by the configured timeout.
type Client struct {
	logger  *log.Logger
	http    *http.Client
	baseURL *url.URL
	timeout time.Duration
}

// Option configures a client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// New returns a client for the device at the base URL.
func New(logger *log.Logger, baseURL string, timeout time.Duration, options ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing device url '%s': %w", baseURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("device url '%s' has no host", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		logger:  logger,
		http:    &http.Client{},
		baseURL: u,
		timeout: timeout,
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// Timeout returns the per call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Pause stops the CPU of the machine.
func (c *Client) Pause(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPut, pathPause, nil); err != nil {
		return fmt.Errorf("pausing machine: %w", err)
	}
	return nil
}

// Resume continues the CPU of the machine.
func (c *Client) Resume(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPut, pathResume, nil); err != nil {
		return fmt.Errorf("resuming machine: %w", err)
	}
	return nil
}

// ReadBytes reads length bytes of machine memory starting at address.
func (c *Client) ReadBytes(ctx context.Context, address uint16, length int) ([]byte, error) {
	if length <= 0 || int(address)+length > MaxReadLength {
		return nil, fmt.Errorf("%w: $%04X length %d", ErrOutOfRange, address, length)
	}

	query := url.Values{}
	query.Set("address", fmt.Sprintf("%04X", address))
	query.Set("length", strconv.Itoa(length))

	data, err := c.do(ctx, http.MethodGet, pathReadMem, query)
	if err != nil {
		return nil, fmt.Errorf("reading memory at $%04X: %w", address, err)
	}
	if len(data) != length {
		return nil, fmt.Errorf("%w: $%04X returned %d of %d bytes", ErrOutOfRange, address, len(data), length)
	}

	c.logger.Debug("Read memory",
		log.Hex("address", address),
		log.Int("length", length))
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}

	if err := statusError(method, resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// transportError maps a failed request to the device error kinds.
func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func statusError(method string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 128 {
		msg = msg[:128]
	}
	if status >= 400 && status < 500 && method == http.MethodGet {
		return fmt.Errorf("%w: status %d %s", ErrOutOfRange, status, msg)
	}
	return fmt.Errorf("%w: status %d %s", ErrUnavailable, status, msg)
}
