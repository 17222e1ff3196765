package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pricefeed/internal/format"
)

type fakePriceService struct {
	connected bool
	asked     []string
}

func (s *fakePriceService) IsConnected() bool {
	return s.connected
}

func (s *fakePriceService) FormatSummary(symbol string) string {
	s.asked = append(s.asked, symbol)
	return "summary:" + symbol
}

func TestIsPriceCommand(t *testing.T) {
	for text, want := range map[string]bool{
		"!price BTC":     true,
		"  !PRICE eth  ": true,
		"!price":         true,
		"!Price\tsol":    true,
		"!prices BTC":    false,
		"price BTC":      false,
		"what is !price": false,
		"":               false,
	} {
		assert.Equalf(t, want, IsPriceCommand(text), "text %q", text)
	}
}

func TestHandleMissingSymbol(t *testing.T) {
	svc := &fakePriceService{connected: true}
	h := NewPriceHandler(svc)

	assert.Equal(t, usage, h.Handle("!price"))
	assert.Equal(t, usage, h.Handle("  !price   "))
	assert.Empty(t, svc.asked)
}

func TestHandleServiceDown(t *testing.T) {
	svc := &fakePriceService{}
	h := NewPriceHandler(svc)

	assert.Equal(t, format.Unavailable(), h.Handle("!price BTC"))
	assert.Empty(t, svc.asked)

	assert.Equal(t, format.Unavailable(), NewPriceHandler(nil).Handle("!price BTC"))
}

func TestHandleForwardsSymbol(t *testing.T) {
	svc := &fakePriceService{connected: true}
	h := NewPriceHandler(svc)

	assert.Equal(t, "summary:eth", h.Handle("!price eth"))
	assert.Equal(t, "summary:BTC/USDT", h.Handle("!PRICE   BTC/USDT please"))
	assert.Equal(t, []string{"eth", "BTC/USDT"}, svc.asked)
}
