package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewPriceSnapshot(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := NewPriceSnapshot("ethusdt", d("2500"), d("2450"), d("2600"), d("2400"), d("1000"), now)

	assert.Equal(t, "ETHUSDT", s.Symbol)
	assert.Equal(t, "ethusdt", s.Key())
	assert.True(t, s.PriceChangeAbs.Equal(d("50")))
	assert.Equal(t, "2.04", s.PriceChangePct.StringFixed(2))
	assert.True(t, s.Rising())
	assert.Equal(t, now, s.ObservedAt)
}

func TestNewPriceSnapshotZeroOpen(t *testing.T) {
	s := NewPriceSnapshot("NEWUSDT", d("1.5"), decimal.Zero, d("2"), d("1"), d("10"), time.Now())

	assert.True(t, s.PriceChangeAbs.IsZero())
	assert.True(t, s.PriceChangePct.IsZero())
	assert.True(t, s.Rising())
}

func TestNewPriceSnapshotFalling(t *testing.T) {
	s := NewPriceSnapshot("SOLUSDT", d("90"), d("100"), d("101"), d("89"), d("5"), time.Now())

	assert.True(t, s.PriceChangeAbs.Equal(d("-10")))
	assert.True(t, s.PriceChangePct.Equal(d("-10")))
	assert.False(t, s.Rising())
}
