package exception

import "github.com/yanun0323/errors"

var (
	ErrMalformedBatch  = errors.New("market data: malformed ticker batch")
	ErrMalformedRecord = errors.New("market data: malformed ticker record")
	ErrEmptySymbol     = errors.New("market data: empty symbol")
	ErrNegativeValue   = errors.New("market data: negative value")
)
