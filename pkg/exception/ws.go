package exception

import "github.com/yanun0323/errors"

// WS errors
var (
	ErrWebSocketNilDialer       = errors.New("websocket: nil dialer")
	ErrWebSocketNilHandler      = errors.New("websocket: nil message handler")
	ErrWebSocketBadBackoff      = errors.New("websocket: invalid backoff")
	ErrWebSocketEmptyURL        = errors.New("websocket: empty url")
	ErrWebSocketConnectionClose = errors.New("websocket: connection closed")
	ErrWebSocketDisconnected    = errors.New("websocket: disconnected while connecting")
)
