package binance

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"pricefeed/internal/model"
	"pricefeed/pkg/exception"
)

const (
	// StreamPath is the all-market mini ticker stream, one array per second.
	StreamPath = "/!miniTicker@arr"

	eventMiniTicker = "24hrMiniTicker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MiniTicker is one record of the '!miniTicker@arr' stream.
type MiniTicker struct {
	EventType   string `json:"e"`
	EventTime   int64  `json:"E"`
	Symbol      string `json:"s"`
	Close       string `json:"c"`
	Open        string `json:"o"`
	High        string `json:"h"`
	Low         string `json:"l"`
	Volume      string `json:"v"` // base asset volume
	QuoteVolume string `json:"q"`
}

// Batch is the decoded content of one stream message.
type Batch struct {
	Snapshots []model.PriceSnapshot
	// Rejected counts records skipped because they could not be decoded.
	Rejected int
	// Errs holds one error per rejected record.
	Errs []error
}

// DecodeBatch decodes one stream message. A payload that is not a JSON array
// fails as a whole with exception.ErrMalformedBatch; a bad record is only
// skipped and counted.
func DecodeBatch(payload []byte, observedAt time.Time) (Batch, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return Batch{}, fmt.Errorf("%w: payload is not an array", exception.ErrMalformedBatch)
	}

	var records []jsoniter.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return Batch{}, fmt.Errorf("%w: %v", exception.ErrMalformedBatch, err)
	}

	batch := Batch{
		Snapshots: make([]model.PriceSnapshot, 0, len(records)),
	}
	for i, raw := range records {
		snapshot, err := DecodeRecord(raw, observedAt)
		if err != nil {
			batch.Rejected++
			batch.Errs = append(batch.Errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		batch.Snapshots = append(batch.Snapshots, snapshot)
	}

	return batch, nil
}

// DecodeRecord decodes one mini ticker object into a snapshot.
func DecodeRecord(raw []byte, observedAt time.Time) (model.PriceSnapshot, error) {
	var t MiniTicker
	if err := json.Unmarshal(raw, &t); err != nil {
		return model.PriceSnapshot{}, fmt.Errorf("%w: %v", exception.ErrMalformedRecord, err)
	}
	if t.EventType != "" && t.EventType != eventMiniTicker {
		return model.PriceSnapshot{}, fmt.Errorf("%w: unexpected event %q", exception.ErrMalformedRecord, t.EventType)
	}
	if strings.TrimSpace(t.Symbol) == "" {
		return model.PriceSnapshot{}, exception.ErrEmptySymbol
	}

	fields := [5]struct {
		name string
		raw  string
	}{
		{"c", t.Close},
		{"o", t.Open},
		{"h", t.High},
		{"l", t.Low},
		{"v", t.Volume},
	}
	var values [5]decimal.Decimal
	for i, f := range fields {
		v, err := parseAmount(f.raw)
		if err != nil {
			return model.PriceSnapshot{}, fmt.Errorf("%s %s: %w", t.Symbol, f.name, err)
		}
		values[i] = v
	}

	return model.NewPriceSnapshot(t.Symbol, values[0], values[1], values[2], values[3], values[4], observedAt), nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", exception.ErrMalformedRecord, err)
	}
	if v.IsNegative() {
		return decimal.Zero, exception.ErrNegativeValue
	}
	return v, nil
}
