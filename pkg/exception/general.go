package exception

import "github.com/yanun0323/errors"

// General errors
var (
	ErrInvalidConfig = errors.New("invalid config")
)
