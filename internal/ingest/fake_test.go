package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"pricefeed/pkg/websocket"
)

type fakeFrame struct {
	payload []byte
	err     error
}

// fakeConn plays a scripted stream session.
type fakeConn struct {
	inbox     chan fakeFrame
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbox:  make(chan fakeFrame, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) Read() (websocket.MessageType, []byte, error) {
	select {
	case f := <-c.inbox:
		if f.err != nil {
			return 0, nil, f.err
		}
		return websocket.MessageText, f.payload, nil
	case <-c.closed:
		return 0, nil, errors.New("fake: use of closed connection")
	}
}

func (c *fakeConn) Close(websocket.CloseCode, string) error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(payload string) {
	c.inbox <- fakeFrame{payload: []byte(payload)}
}

func (c *fakeConn) drop() {
	c.inbox <- fakeFrame{err: errors.New("fake: remote closed")}
}

// fakeDialer hands out queued sessions; an empty queue refuses the dial.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (d *fakeDialer) push(conns ...*fakeConn) {
	d.mu.Lock()
	d.conns = append(d.conns, conns...)
	d.mu.Unlock()
}

func (d *fakeDialer) Dial(context.Context) (websocket.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil, errors.New("fake: dial refused")
	}
	conn := d.conns[0]
	d.conns = d.conns[1:]
	return conn, nil
}

type manualTimer struct {
	f func()
}

func (*manualTimer) Stop() bool { return true }

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) websocket.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) fireLast() {
	s.mu.Lock()
	var t *manualTimer
	if len(s.timers) > 0 {
		t = s.timers[len(s.timers)-1]
	}
	s.mu.Unlock()
	if t != nil {
		t.f()
	}
}
