// Package command answers chat commands backed by the price feed.
package command

import (
	"strings"

	"pricefeed/internal/format"
)

const (
	PricePrefix = "!price"

	usage = "❌ Please specify a symbol. Example: *!price BTC* or *!price ETH*"
)

// PriceService is the part of the ingester a chat command may use.
type PriceService interface {
	IsConnected() bool
	FormatSummary(symbol string) string
}

// IsPriceCommand reports whether text is a "!price" command, case-insensitive.
func IsPriceCommand(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], PricePrefix)
}

type PriceHandler struct {
	svc PriceService
}

func NewPriceHandler(svc PriceService) *PriceHandler {
	return &PriceHandler{svc: svc}
}

// Handle answers "!price <symbol>". Words after the symbol are ignored.
func (h *PriceHandler) Handle(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return usage
	}
	if h.svc == nil || !h.svc.IsConnected() {
		return format.Unavailable()
	}
	return h.svc.FormatSummary(fields[1])
}
