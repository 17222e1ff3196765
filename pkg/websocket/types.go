package websocket

import "time"

// MessageType represents a WebSocket message type.
// Values match RFC 6455 opcodes where applicable.
type MessageType uint8

const (
	// MessageText is a text data frame.
	MessageText MessageType = 1
	// MessageBinary is a binary data frame.
	MessageBinary MessageType = 2
	// MessageClose is a close control frame.
	MessageClose MessageType = 8
	// MessagePing is a ping control frame.
	MessagePing MessageType = 9
	// MessagePong is a pong control frame.
	MessagePong MessageType = 10
)

// CloseCode is a WebSocket close code.
type CloseCode uint16

const (
	// CloseNormal indicates a normal closure.
	CloseNormal CloseCode = 1000
	// CloseGoingAway indicates the endpoint is going away.
	CloseGoingAway CloseCode = 1001
)

// State is the lifecycle state of a Client.
type State uint8

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnectScheduled
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnectScheduled:
		return "reconnect_scheduled"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Status is a point-in-time view of the client state machine.
// Attempt and Delay are only meaningful while StateReconnectScheduled.
type Status struct {
	State   State
	Attempt int
	Delay   time.Duration
}

// Backoff defines reconnect backoff behavior.
type Backoff struct {
	// Base is the delay unit, doubled per attempt.
	Base time.Duration
	// Max caps the computed delay.
	Max time.Duration
	// MaxAttempts bounds consecutive reconnect attempts before giving up.
	MaxAttempts int
}
