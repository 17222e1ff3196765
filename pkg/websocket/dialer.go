package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yanun0323/errors"

	"pricefeed/pkg/exception"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultReadTimeout      = 60 * time.Second
	DefaultPingInterval     = 20 * time.Second

	closeWriteWait = time.Second
)

// DialerOption configures the default gorilla-backed dialer.
type DialerOption struct {
	HandshakeTimeout time.Duration
	// ReadTimeout fails a session that stays silent for longer than this.
	ReadTimeout time.Duration
	// PingInterval sends client pings; zero disables them.
	PingInterval time.Duration
	Header       http.Header
}

type dialer struct {
	url          string
	header       http.Header
	readTimeout  time.Duration
	pingInterval time.Duration
	ws           *websocket.Dialer
}

// NewDialer builds a Dialer for a single stream URL.
func NewDialer(url string, opt DialerOption) (Dialer, error) {
	if url == "" {
		return nil, exception.ErrWebSocketEmptyURL
	}
	if opt.HandshakeTimeout <= 0 {
		opt.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if opt.ReadTimeout <= 0 {
		opt.ReadTimeout = DefaultReadTimeout
	}

	return &dialer{
		url:          url,
		header:       opt.Header,
		readTimeout:  opt.ReadTimeout,
		pingInterval: opt.PingInterval,
		ws: &websocket.Dialer{
			Proxy:             http.ProxyFromEnvironment,
			HandshakeTimeout:  opt.HandshakeTimeout,
			EnableCompression: true,
		},
	}, nil
}

func (d *dialer) Dial(ctx context.Context) (Conn, error) {
	conn, resp, err := d.ws.DialContext(ctx, d.url, d.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, errors.Wrapf(err, "dial %s, status: %d", d.url, resp.StatusCode)
		}
		return nil, errors.Wrapf(err, "dial %s", d.url)
	}

	c := &wsConn{
		conn:        conn,
		readTimeout: d.readTimeout,
		done:        make(chan struct{}),
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	})
	if d.pingInterval > 0 {
		go c.pingLoop(d.pingInterval)
	}

	return c, nil
}

type wsConn struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	writeMu     sync.Mutex
	closeOnce   sync.Once
	done        chan struct{}
}

func (c *wsConn) Read() (MessageType, []byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return 0, nil, err
	}
	msgType, payload, err := c.conn.ReadMessage()
	if err != nil {
		select {
		case <-c.done:
			return 0, nil, exception.ErrWebSocketConnectionClose
		default:
		}
		return 0, nil, err
	}

	return MessageType(msgType), payload, nil
}

func (c *wsConn) Close(code CloseCode, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(int(code), reason),
			time.Now().Add(closeWriteWait),
		)
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *wsConn) pingLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(closeWriteWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
