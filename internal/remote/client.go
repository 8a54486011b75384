package remote

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/vk/sweepview/internal/ctxlog"
	"github.com/vk/sweepview/internal/session"
	"github.com/vk/sweepview/internal/viewer"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
	sio "github.com/zishang520/socket.io/v2/socket"
	"resty.dev/v3"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrRejected is returned when the viewer refused a request.
	ErrRejected = errors.New("viewer rejected request")
	// ErrLoadFailed is returned when the viewer reported a failed load.
	ErrLoadFailed = errors.New("load failed")
)

// Options configures a Client.
type Options struct {
	// Timeout bounds connecting and every acknowledged request.
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Client is a connection to a viewer.
type Client struct {
	base    string
	timeout time.Duration
	io      *socket.Socket
	http    *resty.Client

	mu         sync.Mutex
	animations []session.Snapshot
	ready      map[string]bool
	failed     map[string]string
	changed    chan struct{}
}

// Frame is a frame fetched from the viewer.
type Frame struct {
	Key  string
	MIME string
	Data []byte
}

type connectResult struct {
	err error
}

// Dial connects to the viewer at rawURL and waits for its animation list.
func Dial(ctx context.Context, rawURL string, opts Options) (*Client, error) {
	logger := ctxlog.FromContext(ctx).With("url", rawURL)
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("failed to parse URL: %q has no scheme or host", rawURL)
	}
	base := fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)
	prefix := strings.TrimSuffix(parsed.Path, "/")

	sopts := socket.DefaultOptions()
	if prefix != "" {
		sopts.SetPath(prefix + "/socket.io/")
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))
	httpClient := resty.New().SetTimeout(opts.Timeout)
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		cfg := &tls.Config{InsecureSkipVerify: true}
		sopts.SetTLSClientConfig(cfg)
		httpClient.SetTLSClientConfig(cfg)
	}

	c := &Client{
		base:    base + prefix,
		timeout: opts.Timeout,
		http:    httpClient,
		ready:   make(map[string]bool),
		failed:  make(map[string]string),
		changed: make(chan struct{}),
	}

	manager := socket.NewManager(base, sopts)
	c.io = manager.Socket("/", sopts)

	done := make(chan connectResult, 1)
	c.io.On(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connection refused")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		select {
		case done <- connectResult{err: err}:
		default:
		}
	})
	c.io.On(types.EventName(viewer.EventAnimations), func(args ...any) {
		var snaps []session.Snapshot
		if err := decode(args, &snaps); err != nil {
			logger.Warn("Ignoring malformed animation list.", "error", err)
			return
		}
		c.setAnimations(snaps)
		select {
		case done <- connectResult{}:
		default:
		}
	})
	c.io.On(types.EventName(viewer.EventReady), func(args ...any) {
		var m viewer.ProgressMessage
		if decode(args, &m) == nil {
			c.update(func() { c.ready[m.Animation] = true })
		}
	})
	c.io.On(types.EventName(viewer.EventError), func(args ...any) {
		var m viewer.ErrorMessage
		if decode(args, &m) == nil && m.Animation != "" {
			c.update(func() { c.failed[m.Animation] = m.Message })
		}
	})

	logger.Debug("Connecting to viewer.")
	c.io.Connect()

	connectCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	select {
	case res := <-done:
		if res.err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to %s: %w", rawURL, res.err)
		}
	case <-connectCtx.Done():
		c.Close()
		return nil, fmt.Errorf("timed out while waiting for initial connection to %s", rawURL)
	}
	logger.Info("Connected to viewer.", "sid", c.io.Id())
	return c, nil
}

// Animations returns the animation list received on connect, with ready
// states updated from later events.
func (c *Client) Animations() []session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]session.Snapshot, len(c.animations))
	copy(out, c.animations)
	for i := range out {
		if c.ready[out[i].Name] {
			out[i].State = "complete"
		}
	}
	return out
}

// Load asks the viewer to load an animation and waits until it is ready.
func (c *Client) Load(ctx context.Context, name string) error {
	c.update(func() { delete(c.failed, name) })
	snap, err := c.request(ctx, viewer.RequestLoad, viewer.LoadRequest{Animation: name})
	if err != nil {
		return err
	}
	switch {
	case snap == nil:
	case snap.State == "complete":
		c.update(func() { c.ready[name] = true })
		return nil
	case snap.Error != "" && !snap.Loading:
		return fmt.Errorf("%w: animation %q: %s", ErrLoadFailed, name, snap.Error)
	}
	return c.WaitReady(ctx, name)
}

// WaitReady blocks until the viewer reports name as fully loaded.
func (c *Client) WaitReady(ctx context.Context, name string) error {
	for {
		c.mu.Lock()
		ready, msg, failed := c.ready[name], "", false
		if !ready {
			msg, failed = c.failed[name]
		}
		changed := c.changed
		c.mu.Unlock()

		switch {
		case ready:
			return nil
		case failed:
			return fmt.Errorf("%w: animation %q: %s", ErrLoadFailed, name, msg)
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return fmt.Errorf("waiting for animation %q: %w", name, ctx.Err())
		}
	}
}

// Set assigns a parameter value and returns the resulting animation state.
func (c *Client) Set(ctx context.Context, name, parameter string, v float64) (*session.Snapshot, error) {
	return c.request(ctx, viewer.RequestSet, viewer.SetRequest{Animation: name, Parameter: parameter, Value: &v})
}

// Nudge moves a parameter by whole steps.
func (c *Client) Nudge(ctx context.Context, name, parameter string, steps int) (*session.Snapshot, error) {
	return c.request(ctx, viewer.RequestNudge, viewer.NudgeRequest{Animation: name, Parameter: parameter, Steps: steps})
}

// Input types text into a slider's number field.
func (c *Client) Input(ctx context.Context, name, slider, text string) (*session.Snapshot, error) {
	return c.request(ctx, viewer.RequestInput, viewer.InputRequest{Animation: name, Control: slider, Text: text})
}

// Toggle flips a checkbox.
func (c *Client) Toggle(ctx context.Context, name, checkbox string) (*session.Snapshot, error) {
	return c.request(ctx, viewer.RequestToggle, viewer.ToggleRequest{Animation: name, Control: checkbox})
}

// Point forwards a pointer position to a locator.
func (c *Client) Point(ctx context.Context, name, locator string, x, y, width, height int) (*session.Snapshot, error) {
	return c.request(ctx, viewer.RequestPoint, viewer.PointRequest{
		Animation: name, Control: locator, X: x, Y: y, Width: width, Height: height,
	})
}

// Frame fetches the current frame of an animation.
func (c *Client) Frame(ctx context.Context, name string) (*Frame, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.base + "/frame/" + url.PathEscape(name))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch frame of %q: %w", name, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch frame of %q: %s: %s", name, resp.Status(), strings.TrimSpace(resp.String()))
	}
	return &Frame{
		Key:  resp.Header().Get("X-Frame-Key"),
		MIME: resp.Header().Get("Content-Type"),
		Data: resp.Bytes(),
	}, nil
}

// Close disconnects from the viewer.
func (c *Client) Close() {
	c.io.Disconnect()
	_ = c.http.Close()
}

type ackResult struct {
	reply viewer.Reply
	err   error
}

func (c *Client) request(ctx context.Context, event string, req any) (*session.Snapshot, error) {
	results := make(chan ackResult, 1)
	err := c.io.Timeout(c.timeout).Emit(event, req, sio.Ack(func(args []any, err error) {
		var res ackResult
		if err != nil {
			res.err = err
		} else {
			res.err = decode(args, &res.reply)
		}
		results <- res
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", event, err)
	}

	select {
	case res := <-results:
		if res.err != nil {
			return nil, fmt.Errorf("%s: %w", event, res.err)
		}
		if res.reply.Error != "" {
			return res.reply.Snapshot, fmt.Errorf("%w: %s: %s", ErrRejected, event, res.reply.Error)
		}
		return res.reply.Snapshot, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", event, ctx.Err())
	}
}

func (c *Client) setAnimations(snaps []session.Snapshot) {
	c.update(func() {
		c.animations = snaps
		for _, s := range snaps {
			if s.State == "complete" {
				c.ready[s.Name] = true
			}
		}
	})
}

// update applies fn under the lock and wakes WaitReady callers.
func (c *Client) update(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
	close(c.changed)
	c.changed = make(chan struct{})
}

// decode converts the first listener argument into v.
func decode(args []any, v any) error {
	if len(args) == 0 {
		return errors.New("empty message")
	}
	raw, err := json.Marshal(args[0])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
