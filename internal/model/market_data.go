package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceSnapshot is the latest 24h ticker view of one symbol.
type PriceSnapshot struct {
	Symbol         string
	Price          decimal.Decimal
	High24h        decimal.Decimal
	Low24h         decimal.Decimal
	Volume24h      decimal.Decimal
	PriceChangeAbs decimal.Decimal
	PriceChangePct decimal.Decimal
	// ObservedAt is the local receipt time, never used for eviction.
	ObservedAt time.Time
}

// NewPriceSnapshot derives the 24h change from the close and open prices.
// A zero open price yields a zero change instead of a division by zero.
func NewPriceSnapshot(symbol string, close, open, high, low, volume decimal.Decimal, observedAt time.Time) PriceSnapshot {
	snapshot := PriceSnapshot{
		Symbol:         strings.ToUpper(symbol),
		Price:          close,
		High24h:        high,
		Low24h:         low,
		Volume24h:      volume,
		PriceChangeAbs: decimal.Zero,
		PriceChangePct: decimal.Zero,
		ObservedAt:     observedAt,
	}

	if open.IsZero() {
		return snapshot
	}

	snapshot.PriceChangeAbs = close.Sub(open)
	snapshot.PriceChangePct = snapshot.PriceChangeAbs.Div(open).Mul(hundred)
	return snapshot
}

// Key is the cache key of the snapshot: lowercase exchange symbol.
func (s PriceSnapshot) Key() string {
	return strings.ToLower(s.Symbol)
}

// Rising reports a non-negative 24h change.
func (s PriceSnapshot) Rising() bool {
	return !s.PriceChangePct.IsNegative()
}
