package websocket

import (
	"context"
	"time"
)

// Conn is a minimal interface for a WebSocket connection.
// Read blocks until a message arrives or the connection fails;
// Close unblocks a pending Read.
type Conn interface {
	Read() (msgType MessageType, payload []byte, err error)
	Close(code CloseCode, reason string) error
}

// Dialer creates new connections. Dial returns once the handshake completes.
type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// Handler receives every data frame of a live session, in delivery order.
type Handler func(msgType MessageType, payload []byte)

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d, without blocking the caller.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
