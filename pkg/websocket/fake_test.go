package websocket

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errFakeDial = errors.New("fake: dial refused")

type fakeMessage struct {
	msgType MessageType
	payload []byte
	err     error
}

type fakeConn struct {
	inbox     chan fakeMessage
	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbox:  make(chan fakeMessage, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) Read() (MessageType, []byte, error) {
	select {
	case m := <-c.inbox:
		return m.msgType, m.payload, m.err
	case <-c.closed:
		return 0, nil, errors.New("fake: use of closed connection")
	}
}

func (c *fakeConn) Close(CloseCode, string) error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) send(payload string) {
	c.inbox <- fakeMessage{msgType: MessageText, payload: []byte(payload)}
}

// drop simulates a remote close.
func (c *fakeConn) drop() {
	c.inbox <- fakeMessage{err: errors.New("fake: remote closed")}
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// fakeDialer hands out queued results; an empty queue refuses the dial.
type fakeDialer struct {
	mu      sync.Mutex
	results []*fakeConn
	dials   int
}

func (d *fakeDialer) push(conns ...*fakeConn) {
	d.mu.Lock()
	d.results = append(d.results, conns...)
	d.mu.Unlock()
}

func (d *fakeDialer) Dial(context.Context) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if len(d.results) == 0 {
		return nil, errFakeDial
	}
	conn := d.results[0]
	d.results = d.results[1:]
	if conn == nil {
		return nil, errFakeDial
	}
	return conn, nil
}

func (d *fakeDialer) dialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualScheduler records timers; tests fire them explicitly.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *manualScheduler) last() *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

// fireLast runs the latest timer even if it was stopped.
func (s *manualScheduler) fireLast() {
	if t := s.last(); t != nil {
		t.f()
	}
}
