package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"pricefeed/pkg/exception"
)

const defaultReconnectDialTimeout = 15 * time.Second

// Option defines the client runtime configuration.
type Option struct {
	Backoff Backoff
	// Scheduler defaults to time.AfterFunc.
	Scheduler Scheduler
	// DialTimeout bounds the dial of an automatic reconnect.
	DialTimeout time.Duration

	OnConnect            func()
	OnDisconnect         func(err error)
	OnReconnectScheduled func(attempt int, delay time.Duration)
	OnExhausted          func(attempts int)
}

// Client keeps one streaming session alive with capped exponential backoff.
//
// Every session carries a generation number. Disconnect and every scheduled
// reconnect bump the generation, so late events of an older session or a
// timer that already fired are ignored.
type Client struct {
	dialer  Dialer
	handler Handler
	opt     Option

	mu         sync.Mutex
	state      State
	attempt    int
	delay      time.Duration
	gen        uint64
	conn       Conn
	timer      Timer
	dialCancel context.CancelFunc

	connected atomic.Bool
}

// New validates the option and builds a disconnected client.
func New(dialer Dialer, handler Handler, opt Option) (*Client, error) {
	if dialer == nil {
		return nil, exception.ErrWebSocketNilDialer
	}
	if handler == nil {
		return nil, exception.ErrWebSocketNilHandler
	}
	if opt.Backoff == (Backoff{}) {
		opt.Backoff = DefaultBackoff()
	}
	if err := opt.Backoff.Validate(); err != nil {
		return nil, err
	}
	if opt.Scheduler == nil {
		opt.Scheduler = timeScheduler{}
	}
	if opt.DialTimeout <= 0 {
		opt.DialTimeout = defaultReconnectDialTimeout
	}

	return &Client{
		dialer:  dialer,
		handler: handler,
		opt:     opt,
		state:   StateDisconnected,
	}, nil
}

// Connect dials the stream and returns once the handshake completes.
// It is a no-op while connecting or connected. From the exhausted or
// disconnected state it starts over with a full retry budget.
// A failed dial is returned and also hands control to the reconnect policy.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateConnecting, StateConnected:
		c.mu.Unlock()
		return nil
	case StateDisconnected, StateExhausted:
		c.attempt = 0
	}
	c.stopTimerLocked()
	dialCtx, gen := c.beginDialLocked(ctx)
	c.mu.Unlock()

	return c.dial(dialCtx, gen)
}

// Disconnect closes the session and cancels any pending reconnect.
// It is safe to call in any state.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.gen++
	c.stopTimerLocked()
	if c.dialCancel != nil {
		c.dialCancel()
		c.dialCancel = nil
	}
	conn := c.conn
	wasConnected := c.state == StateConnected
	c.conn = nil
	c.state = StateDisconnected
	c.attempt = 0
	c.delay = 0
	c.connected.Store(false)
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close(CloseNormal, "disconnect")
	}
	if wasConnected && c.opt.OnDisconnect != nil {
		c.opt.OnDisconnect(nil)
	}
}

// IsConnected reports whether a session is live. It never blocks.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Status returns the current state machine view.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Status{
		State:   c.state,
		Attempt: c.attempt,
		Delay:   c.delay,
	}
}

func (c *Client) beginDialLocked(parent context.Context) (context.Context, uint64) {
	if parent == nil {
		parent = context.Background()
	}
	if c.dialCancel != nil {
		c.dialCancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.dialCancel = cancel
	c.gen++
	c.state = StateConnecting
	c.delay = 0
	return ctx, c.gen
}

func (c *Client) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Client) dial(ctx context.Context, gen uint64) error {
	conn, err := c.dialer.Dial(ctx)

	c.mu.Lock()
	if gen == c.gen && c.dialCancel != nil {
		c.dialCancel()
		c.dialCancel = nil
	}
	c.mu.Unlock()

	if err != nil {
		c.fail(gen, err)
		return errors.Wrap(err, "connect")
	}

	c.mu.Lock()
	if gen != c.gen || c.state != StateConnecting {
		c.mu.Unlock()
		_ = conn.Close(CloseNormal, "superseded")
		return exception.ErrWebSocketDisconnected
	}
	c.conn = conn
	c.state = StateConnected
	c.attempt = 0
	c.delay = 0
	c.connected.Store(true)
	c.mu.Unlock()

	if c.opt.OnConnect != nil {
		c.opt.OnConnect()
	}
	go c.readLoop(gen, conn)

	return nil
}

func (c *Client) readLoop(gen uint64, conn Conn) {
	for {
		msgType, payload, err := conn.Read()
		if err != nil {
			_ = conn.Close(CloseNormal, "session_end")
			c.fail(gen, err)
			return
		}
		if msgType != MessageText && msgType != MessageBinary {
			continue
		}
		c.dispatch(msgType, payload)
	}
}

func (c *Client) dispatch(msgType MessageType, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			logs.Errorf("websocket handler panic, recovered: %+v", r)
		}
	}()

	c.handler(msgType, payload)
}

// fail applies the reconnect policy to an unplanned close of session gen.
func (c *Client) fail(gen uint64, cause error) {
	c.mu.Lock()
	if gen != c.gen || (c.state != StateConnecting && c.state != StateConnected) {
		c.mu.Unlock()
		return
	}
	wasConnected := c.state == StateConnected
	c.conn = nil
	c.connected.Store(false)

	if c.attempt >= c.opt.Backoff.MaxAttempts {
		c.state = StateExhausted
		c.delay = 0
		attempts := c.attempt
		c.mu.Unlock()

		if wasConnected && c.opt.OnDisconnect != nil {
			c.opt.OnDisconnect(cause)
		}
		if c.opt.OnExhausted != nil {
			c.opt.OnExhausted(attempts)
		}
		return
	}

	c.attempt++
	attempt := c.attempt
	delay := c.opt.Backoff.Delay(attempt)
	c.delay = delay
	c.state = StateReconnectScheduled
	c.gen++
	next := c.gen
	c.timer = c.opt.Scheduler.AfterFunc(delay, func() {
		c.reconnect(next)
	})
	c.mu.Unlock()

	if wasConnected && c.opt.OnDisconnect != nil {
		c.opt.OnDisconnect(cause)
	}
	if c.opt.OnReconnectScheduled != nil {
		c.opt.OnReconnectScheduled(attempt, delay)
	}
}

func (c *Client) reconnect(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateReconnectScheduled {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	ctx, cancel := context.WithTimeout(context.Background(), c.opt.DialTimeout)
	defer cancel()
	dialCtx, next := c.beginDialLocked(ctx)
	c.mu.Unlock()

	if err := c.dial(dialCtx, next); err != nil {
		logs.Errorf("reconnect, err: %+v", err)
	}
}
